package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aaronch12Ch/portafolio-sp/errs"
	"github.com/aaronch12Ch/portafolio-sp/models"
)

// ListPublicProjects never fails: any error is logged and yields an empty list.
func (c *Client) ListPublicProjects(ctx context.Context) []models.Project {
	var projects []models.Project
	err := c.send(ctx, call{
		operation:  "list public projects",
		method:     http.MethodGet,
		path:       "/proyectos/todos",
		idempotent: true,
	}, &projects)
	if err != nil {
		c.logger.Warn().Err(err).Msg("public projects unavailable, rendering empty list")
		return []models.Project{}
	}
	if projects == nil {
		return []models.Project{}
	}
	return projects
}

// ListAdminProjects reads through the listing cache.
func (c *Client) ListAdminProjects(ctx context.Context, token string) ([]models.Project, error) {
	if token == "" {
		return nil, errs.NewMissingTokenError()
	}
	return c.listings.load(ctx, token, func(ctx context.Context) ([]models.Project, error) {
		var projects []models.Project
		err := c.send(ctx, call{
			operation:  "list admin projects",
			method:     http.MethodGet,
			path:       "/proyectos/admin",
			token:      token,
			idempotent: true,
		}, &projects)
		if err != nil {
			return nil, err
		}
		if projects == nil {
			projects = []models.Project{}
		}
		return projects, nil
	})
}

// InvalidateListings drops every cached admin listing.
func (c *Client) InvalidateListings() {
	c.listings.invalidate()
}

func (c *Client) CreateProject(ctx context.Context, token string, draft models.Draft) (models.Project, error) {
	if token == "" {
		return models.Project{}, errs.NewMissingTokenError()
	}
	if err := draft.Validate(); err != nil {
		return models.Project{}, err
	}
	form, err := projectPayload(draft.Fields(), draft.Video)
	if err != nil {
		return models.Project{}, errs.NewInternalErrorWithCause("encoding project", err)
	}

	defer c.listings.invalidate()
	var created models.Project
	err = c.send(ctx, call{
		operation: "create project",
		method:    http.MethodPost,
		path:      "/proyectos/admin",
		token:     token,
		form:      form,
		upload:    !draft.Video.Empty(),
	}, &created)
	if err != nil {
		return models.Project{}, err
	}
	if !created.Persisted() {
		return models.Project{}, errs.NewBadResponseError("create project", errors.New("response carries no project id"))
	}
	return created, nil
}

func (c *Client) UpdateProject(ctx context.Context, token string, id int64, draft models.Draft) (models.Project, error) {
	if token == "" {
		return models.Project{}, errs.NewMissingTokenError()
	}
	if err := draft.Validate(); err != nil {
		return models.Project{}, err
	}
	form, err := projectPayload(draft.Fields(), draft.Video)
	if err != nil {
		return models.Project{}, errs.NewInternalErrorWithCause("encoding project", err)
	}

	defer c.listings.invalidate()
	var updated models.Project
	err = c.send(ctx, call{
		operation: "update project",
		method:    http.MethodPut,
		path:      projectPath(id),
		token:     token,
		form:      form,
		upload:    !draft.Video.Empty(),
	}, &updated)
	if err != nil {
		return models.Project{}, err
	}
	if !updated.Persisted() {
		fields := draft.Fields()
		updated = models.Project{
			ID:          models.Int64Ptr(id),
			Title:       fields.Title,
			Description: fields.Description,
			ImageURL:    fields.ImageURL,
			Link:        fields.Link,
			Available:   fields.Available,
		}
	}
	return updated, nil
}

// UploadVideo attaches or replaces the video of an existing project.
func (c *Client) UploadVideo(ctx context.Context, token string, id int64, file *models.VideoFile) (models.Project, error) {
	if token == "" {
		return models.Project{}, errs.NewMissingTokenError()
	}
	if file.Empty() {
		return models.Project{}, errs.NewMissingRequiredFieldError(models.FieldVideo)
	}
	form, err := videoPayload(file)
	if err != nil {
		return models.Project{}, errs.NewInternalErrorWithCause("encoding video", err)
	}

	defer c.listings.invalidate()
	var updated models.Project
	err = c.send(ctx, call{
		operation: "upload video",
		method:    http.MethodPost,
		path:      projectPath(id) + "/video",
		token:     token,
		form:      form,
		upload:    true,
	}, &updated)
	if err != nil {
		return models.Project{}, err
	}
	if !updated.Persisted() {
		updated.ID = models.Int64Ptr(id)
	}
	return updated, nil
}

func (c *Client) DeleteVideo(ctx context.Context, token string, id int64) (models.Project, error) {
	if token == "" {
		return models.Project{}, errs.NewMissingTokenError()
	}

	defer c.listings.invalidate()
	var updated models.Project
	err := c.send(ctx, call{
		operation: "delete video",
		method:    http.MethodDelete,
		path:      projectPath(id) + "/video",
		token:     token,
	}, &updated)
	if err != nil {
		return models.Project{}, err
	}
	if !updated.Persisted() {
		updated.ID = models.Int64Ptr(id)
	}
	return updated, nil
}

func (c *Client) DeleteProject(ctx context.Context, token string, id int64) error {
	if token == "" {
		return errs.NewMissingTokenError()
	}

	defer c.listings.invalidate()
	return c.send(ctx, call{
		operation: "delete project",
		method:    http.MethodDelete,
		path:      projectPath(id),
		token:     token,
	}, nil)
}

func projectPath(id int64) string {
	return fmt.Sprintf("/proyectos/admin/%d", id)
}
