package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/aaronch12Ch/portafolio-sp/admin"
	"github.com/aaronch12Ch/portafolio-sp/errs"
	"github.com/aaronch12Ch/portafolio-sp/models"
	"github.com/aaronch12Ch/portafolio-sp/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	maxUploadBytes      = 256 << 20
	multipartMemorySize = 32 << 20
)

type adminHandler struct {
	responder Responder
	logger    zerolog.Logger
	backend   Backend
}

func newAdminHandler(backend Backend) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder: NewResponder(logger),
		logger:    logger,
		backend:   backend,
	}
}

// shell builds a request-scoped admin shell whose notifications are returned
// in the response body.
func (h adminHandler) shell(r *http.Request, confirmer admin.Confirmer) (*admin.Shell, *admin.CollectingNotifier) {
	notes := &admin.CollectingNotifier{}
	return admin.NewShell(ctxGetSession(r.Context()), h.backend, notes, confirmer), notes
}

// listProjects returns every project, visible or not.
// @Summary List projects (admin)
// @Tags Admin
// @Produce json
// @Success 200 {object} AdminProjectsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized - Not signed in"
// @Failure 403 {object} ErrorResponse "Forbidden - Administrator role required"
// @Router /admin/projects [get]
func (h adminHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shell, notes := h.shell(r, nil)
		if err := shell.Mount(r.Context()); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		projects := shell.Projects()
		h.responder.WriteJSON(w, AdminProjectsResponse{
			Projects:      projects,
			Total:         len(projects),
			Notifications: notes.Notifications(),
		})
	}
}

// createProject saves a new project and uploads its video, if one is attached.
// @Summary Create project
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param image formData string true "Image URL"
// @Param link formData string true "Project link"
// @Param available formData bool false "Available, defaults to true"
// @Param video formData file false "Video file"
// @Success 201 {object} SubmitResponse "Created"
// @Success 207 {object} SubmitResponse "Saved, video upload failed"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Router /admin/projects [post]
func (h adminHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shell, notes := h.shell(r, nil)
		form := shell.OpenCreate()
		if err := h.fillForm(w, r, form); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.submit(w, r, shell, notes, http.StatusCreated)
	}
}

// updateProject edits the fields present in the request. A video part replaces
// the stored video; without one the stored video is kept.
// @Summary Update project
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} SubmitResponse "Updated"
// @Success 207 {object} SubmitResponse "Saved, video upload failed"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/projects/{projectID} [put]
func (h adminHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		shell, notes := h.shell(r, nil)
		if err := shell.Mount(r.Context()); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		form, err := shell.OpenEdit(id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.fillForm(w, r, form); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.submit(w, r, shell, notes, http.StatusOK)
	}
}

// deleteProject removes a project. The request must carry confirm=true.
// @Summary Delete project
// @Tags Admin
// @Produce json
// @Param projectID path int true "Project ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Deletion not confirmed"
// @Router /admin/projects/{projectID} [delete]
func (h adminHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
		shell, notes := h.shell(r, admin.Always(confirmed))
		deleted, err := shell.Delete(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewInvalidFieldError("confirm", "deletion must be confirmed with confirm=true"))
			return
		}
		h.responder.WriteJSON(w, StatusResponse{Status: "deleted", Notifications: notes.Notifications()})
	}
}

// uploadVideo attaches or replaces the video of a stored project.
// @Summary Upload project video
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param projectID path int true "Project ID"
// @Param video formData file true "Video file"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing video"
// @Router /admin/projects/{projectID}/video [post]
func (h adminHandler) uploadVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := parseMultipart(w, r); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		video, err := videoPart(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if video == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError(models.FieldVideo))
			return
		}

		shell, notes := h.shell(r, nil)
		project, err := shell.UploadVideo(r.Context(), id, *video)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ProjectResponse{Project: project, Notifications: notes.Notifications()})
	}
}

// deleteVideo removes the stored video of a project.
// @Summary Delete project video
// @Tags Admin
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} ProjectResponse
// @Router /admin/projects/{projectID}/video [delete]
func (h adminHandler) deleteVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		shell, notes := h.shell(r, nil)
		project, err := shell.DeleteVideo(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ProjectResponse{Project: project, Notifications: notes.Notifications()})
	}
}

func (h adminHandler) submit(w http.ResponseWriter, r *http.Request, shell *admin.Shell, notes *admin.CollectingNotifier, successStatus int) {
	form := shell.Form()
	res, err := shell.Submit(r.Context())

	response := SubmitResponse{
		Outcome:       res.Outcome.String(),
		Project:       res.Project,
		Notifications: notes.Notifications(),
	}

	switch res.Outcome {
	case pipeline.OutcomeSaved, pipeline.OutcomeSavedWithVideo:
		h.responder.WriteJSONStatus(w, successStatus, response)
	case pipeline.OutcomePartialSuccess:
		response.FieldErrors = form.FieldErrors()
		h.responder.WriteJSONStatus(w, http.StatusMultiStatus, response)
	default:
		h.responder.WriteError(w, err)
	}
}

// fillForm copies the multipart fields present in the request onto form.
func (h adminHandler) fillForm(w http.ResponseWriter, r *http.Request, form *pipeline.Form) error {
	if err := parseMultipart(w, r); err != nil {
		return err
	}
	values := r.MultipartForm.Value

	var available *bool
	if raw, ok := first(values, "available"); ok {
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return errs.NewInvalidFieldError("available", "available must be true or false")
		}
		available = &v
	}

	if err := form.Edit(func(d *models.Draft) {
		if v, ok := first(values, models.FieldTitle); ok {
			d.Title = v
		}
		if v, ok := first(values, models.FieldDescription); ok {
			d.Description = v
		}
		if v, ok := first(values, models.FieldImage); ok {
			d.ImageURL = v
		}
		if v, ok := first(values, models.FieldLink); ok {
			d.Link = v
		}
		if available != nil {
			d.Available = *available
		}
	}); err != nil {
		return err
	}

	video, err := videoPart(r)
	if err != nil {
		return err
	}
	if video != nil {
		return form.StageVideo(*video)
	}
	return nil
}

func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	if r.MultipartForm != nil {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemorySize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.NewMaxBodySizeExceededError(maxUploadBytes)
		}
		return errs.NewMalformedPayloadError("multipart form", err)
	}
	return nil
}

// videoPart reads the optional "video" file part.
func videoPart(r *http.Request) (*models.VideoFile, error) {
	headers := r.MultipartForm.File[models.FieldVideo]
	if len(headers) == 0 {
		return nil, nil
	}
	return readVideo(headers[0])
}

func readVideo(header *multipart.FileHeader) (*models.VideoFile, error) {
	f, err := header.Open()
	if err != nil {
		return nil, errs.NewMalformedPayloadError("video", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errs.NewMalformedPayloadError("video", err)
	}
	return &models.VideoFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func first(values map[string][]string, key string) (string, bool) {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func projectIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "projectID")
	if raw == "" {
		return 0, errs.NewBadRequestError("missing projectID")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewBadRequestError("invalid projectID")
	}
	return id, nil
}
