// Package admin drives the project admin panel: access check, listing,
// create/edit forms, deletion and video management.
package admin

import (
	"context"
	"fmt"
	"sync"

	"github.com/aaronch12Ch/portafolio-sp/errs"
	"github.com/aaronch12Ch/portafolio-sp/models"
	"github.com/aaronch12Ch/portafolio-sp/pipeline"
	"github.com/aaronch12Ch/portafolio-sp/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const privilegedRoles = "ADMIN or JEFE"

// Backend is the data client surface the shell needs.
type Backend interface {
	pipeline.Backend
	ListAdminProjects(ctx context.Context, token string) ([]models.Project, error)
	DeleteProject(ctx context.Context, token string, id int64) error
	DeleteVideo(ctx context.Context, token string, id int64) (models.Project, error)
}

// Shell is safe for concurrent use. Every operation that fails notifies the
// user and returns the error.
type Shell struct {
	mu        sync.Mutex
	session   *session.Session
	backend   Backend
	notifier  Notifier
	confirmer Confirmer
	projects  []models.Project
	form      *pipeline.Form
	logger    zerolog.Logger
}

func NewShell(sess *session.Session, backend Backend, notifier Notifier, confirmer Confirmer) *Shell {
	return &Shell{
		session:   sess,
		backend:   backend,
		notifier:  notifier,
		confirmer: confirmer,
		logger:    log.With().Str("component", "admin").Logger(),
	}
}

// Mount checks the session holds a privileged role and loads the listing.
func (s *Shell) Mount(ctx context.Context) error {
	if err := s.authorize(); err != nil {
		return err
	}
	return s.Reload(ctx)
}

func (s *Shell) authorize() error {
	if !s.session.IsAuthenticated() || !s.session.IsAdmin() {
		err := errs.NewInsufficientRoleError(privilegedRoles)
		s.notify(LevelError, Message(err))
		return err
	}
	return nil
}

func (s *Shell) Reload(ctx context.Context) error {
	token, _ := s.session.Token()
	projects, err := s.backend.ListAdminProjects(ctx, token)
	if err != nil {
		s.logger.Error().Err(err).Msg("error loading admin projects")
		s.notify(LevelError, "Could not load projects. "+Message(err))
		return err
	}
	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return nil
}

// Projects returns the listing from the last successful load.
func (s *Shell) Projects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

func (s *Shell) Project(id int64) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

func (s *Shell) findLocked(id int64) (models.Project, bool) {
	for _, p := range s.projects {
		if p.IDValue() == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// OpenCreate replaces any open form with an empty create form.
func (s *Shell) OpenCreate() *pipeline.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = pipeline.NewCreateForm(s.backend)
	return s.form
}

// OpenEdit opens a form pre-populated from the listed project id.
func (s *Shell) OpenEdit(id int64) (*pipeline.Form, error) {
	s.mu.Lock()
	p, ok := s.findLocked(id)
	if ok {
		s.form = pipeline.NewEditForm(s.backend, p)
	}
	form := s.form
	s.mu.Unlock()

	if !ok {
		err := errs.NewNotFoundError(fmt.Sprintf("project %d", id))
		s.notify(LevelError, Message(err))
		return nil, err
	}
	return form, nil
}

func (s *Shell) CloseForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = nil
}

// Form returns the open form, or nil.
func (s *Shell) Form() *pipeline.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Submit runs the open form. The listing is reloaded whenever the backend
// stored something, including on partial success.
func (s *Shell) Submit(ctx context.Context) (pipeline.Result, error) {
	form := s.Form()
	if form == nil {
		err := errs.NewBadRequestError("no project form is open")
		s.notify(LevelError, "Open a project form first")
		return pipeline.Result{Outcome: pipeline.OutcomeRejected}, err
	}
	_, editing := form.Editing()

	token, _ := s.session.Token()
	res, err := form.Submit(ctx, token)

	switch res.Outcome {
	case pipeline.OutcomeSaved, pipeline.OutcomeSavedWithVideo:
		msg := "Project created"
		if editing {
			msg = "Project updated"
		}
		if res.Outcome == pipeline.OutcomeSavedWithVideo {
			msg += " with video"
		}
		s.notify(LevelSuccess, msg)
		if form.Closed() {
			s.closeIf(form)
		}
		_ = s.Reload(ctx)
	case pipeline.OutcomePartialSuccess:
		s.notify(LevelWarning, Message(err))
		_ = s.Reload(ctx)
	case pipeline.OutcomeRejected:
		s.notify(LevelWarning, Message(err))
	default:
		s.notify(LevelError, Message(err))
	}
	return res, err
}

func (s *Shell) closeIf(form *pipeline.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == form {
		s.form = nil
	}
}

// Delete asks for confirmation and then deletes the project. It reports
// whether the project was deleted; a declined confirmation is not an error.
func (s *Shell) Delete(ctx context.Context, id int64) (bool, error) {
	if err := s.authorize(); err != nil {
		return false, err
	}

	prompt := fmt.Sprintf("Delete project %d? This also removes its video and cannot be undone.", id)
	if p, ok := s.Project(id); ok {
		prompt = fmt.Sprintf("Delete project %q? This also removes its video and cannot be undone.", p.Title)
	}
	if s.confirmer == nil {
		return false, nil
	}
	ok, err := s.confirmer.Confirm(ctx, prompt)
	if err != nil {
		s.notify(LevelError, "Could not confirm deletion: "+err.Error())
		return false, err
	}
	if !ok {
		return false, nil
	}

	token, _ := s.session.Token()
	if err := s.backend.DeleteProject(ctx, token, id); err != nil {
		s.logger.Error().Err(err).Int64("project_id", id).Msg("error deleting project")
		s.notify(LevelError, Message(err))
		return false, err
	}
	s.notify(LevelSuccess, "Project deleted")
	_ = s.Reload(ctx)
	return true, nil
}

func (s *Shell) UploadVideo(ctx context.Context, id int64, file models.VideoFile) (models.Project, error) {
	if err := s.authorize(); err != nil {
		return models.Project{}, err
	}
	token, _ := s.session.Token()
	p, err := s.backend.UploadVideo(ctx, token, id, &file)
	if err != nil {
		s.logger.Error().Err(err).Int64("project_id", id).Msg("error uploading video")
		s.notify(LevelError, "Video upload failed. "+Message(err))
		return models.Project{}, err
	}
	s.notify(LevelSuccess, "Video uploaded")
	_ = s.Reload(ctx)
	return p, nil
}

func (s *Shell) DeleteVideo(ctx context.Context, id int64) (models.Project, error) {
	if err := s.authorize(); err != nil {
		return models.Project{}, err
	}
	token, _ := s.session.Token()
	p, err := s.backend.DeleteVideo(ctx, token, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("project_id", id).Msg("error deleting video")
		s.notify(LevelError, "Could not delete the video. "+Message(err))
		return models.Project{}, err
	}
	s.notify(LevelSuccess, "Video deleted")
	_ = s.Reload(ctx)
	return p, nil
}

func (s *Shell) notify(level Level, message string) {
	if s.notifier != nil {
		s.notifier.Notify(level, message)
	}
}
