// Package pipeline holds the project form: the draft being edited, its
// validation state and the create/update-then-upload submission sequence.
package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/aaronch12Ch/portafolio-sp/errs"
	"github.com/aaronch12Ch/portafolio-sp/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateUploadingVideo
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateUploadingVideo:
		return "uploading_video"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

type Outcome int

const (
	OutcomeSaved Outcome = iota
	OutcomeSavedWithVideo
	OutcomePartialSuccess
	OutcomeRejected
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeSavedWithVideo:
		return "saved_with_video"
	case OutcomePartialSuccess:
		return "partial_success"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Result reports how a submission ended. Project is set whenever the
// backend stored the fields, including on partial success.
type Result struct {
	Outcome Outcome          `json:"outcome"`
	Project *models.Project `json:"project,omitempty"`
}

// Backend is the subset of the data client a form submits through.
type Backend interface {
	CreateProject(ctx context.Context, token string, draft models.Draft) (models.Project, error)
	UpdateProject(ctx context.Context, token string, id int64, draft models.Draft) (models.Project, error)
	UploadVideo(ctx context.Context, token string, id int64, file *models.VideoFile) (models.Project, error)
}

var ErrFormClosed = errors.New("form is closed")

// Form is one create or edit form. It is safe for concurrent use; a second
// Submit while one is in flight is rejected.
type Form struct {
	mu          sync.Mutex
	backend     Backend
	draft       models.Draft
	editing     *models.Project
	state       State
	busy        bool
	closed      bool
	fieldErrors map[string]string
	err         error
	logger      zerolog.Logger
}

func NewCreateForm(backend Backend) *Form {
	return &Form{
		backend: backend,
		draft:   models.NewDraft(),
		logger:  log.With().Str("component", "pipeline").Str("mode", "create").Logger(),
	}
}

func NewEditForm(backend Backend, project models.Project) *Form {
	p := project
	return &Form{
		backend: backend,
		draft:   models.DraftFrom(project),
		editing: &p,
		logger: log.With().
			Str("component", "pipeline").
			Str("mode", "edit").
			Int64("project_id", project.IDValue()).
			Logger(),
	}
}

// Draft returns a copy of the current draft.
func (f *Form) Draft() models.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Edit applies fn to the draft. Edits are refused while submitting.
func (f *Form) Edit(fn func(*models.Draft)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return errs.NewSubmissionInFlightError()
	}
	video := f.draft.Video
	fn(&f.draft)
	// the staged file only changes through StageVideo and ClearVideo
	f.draft.Video = video
	return nil
}

func (f *Form) SetTitle(v string) error {
	return f.Edit(func(d *models.Draft) { d.Title = v })
}

func (f *Form) SetDescription(v string) error {
	return f.Edit(func(d *models.Draft) { d.Description = v })
}

func (f *Form) SetImageURL(v string) error {
	return f.Edit(func(d *models.Draft) { d.ImageURL = v })
}

func (f *Form) SetLink(v string) error {
	return f.Edit(func(d *models.Draft) { d.Link = v })
}

func (f *Form) SetAvailable(v bool) error {
	return f.Edit(func(d *models.Draft) { d.Available = v })
}

// StageVideo attaches a file to upload on the next submit, replacing any
// previously staged one.
func (f *Form) StageVideo(file models.VideoFile) error {
	if file.Empty() {
		return errs.NewInvalidFieldError(models.FieldVideo, "video file is empty")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return errs.NewSubmissionInFlightError()
	}
	f.draft.Video = &file
	return nil
}

func (f *Form) ClearVideo() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return errs.NewSubmissionInFlightError()
	}
	f.draft.Video = nil
	return nil
}

// StagedVideo returns the pending file, or nil.
func (f *Form) StagedVideo() *models.VideoFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Video
}

// CurrentVideoNotice returns the stored video key of the project being edited.
// It reports nothing while a new file is staged.
func (f *Form) CurrentVideoNotice() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editing == nil || f.draft.Video != nil || !f.editing.HasVideo() {
		return "", false
	}
	return f.editing.VideoKeyValue(), true
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Busy is true from validation until the submission settles.
func (f *Form) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

func (f *Form) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// FieldErrors maps field names to messages from the last failed validation.
func (f *Form) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

// Err returns the error of the last failed submission.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Editing returns the project the form updates, if any.
func (f *Form) Editing() (models.Project, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editing == nil {
		return models.Project{}, false
	}
	return *f.editing, true
}

// Submit validates the draft, saves its fields with one create or update call
// and then uploads the staged video, if any, against the saved project id.
func (f *Form) Submit(ctx context.Context, token string) (Result, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return Result{Outcome: OutcomeRejected}, errs.NewSubmissionInFlightError()
	}
	if f.closed {
		f.mu.Unlock()
		return Result{Outcome: OutcomeRejected}, ErrFormClosed
	}
	f.busy = true
	f.state = StateValidating
	f.fieldErrors = nil
	f.err = nil
	draft := f.draft
	var editing *models.Project
	if f.editing != nil {
		p := *f.editing
		editing = &p
	}
	f.mu.Unlock()

	if token == "" {
		return f.fail(errs.NewMissingTokenError())
	}

	if err := draft.Validate(); err != nil {
		var problems errs.ValidationErrors
		if errors.As(err, &problems) {
			f.mu.Lock()
			f.fieldErrors = problems.Fields()
			f.mu.Unlock()
		}
		return f.fail(err)
	}

	f.setState(StateSubmitting)
	fieldsOnly := draft
	fieldsOnly.Video = nil

	var (
		saved models.Project
		err   error
	)
	if editing != nil {
		saved, err = f.backend.UpdateProject(ctx, token, editing.IDValue(), fieldsOnly)
	} else {
		saved, err = f.backend.CreateProject(ctx, token, fieldsOnly)
	}
	if err != nil {
		return f.fail(err)
	}
	// a fields-only save never touches the stored video
	if editing != nil && !saved.HasVideo() && editing.HasVideo() {
		saved.VideoKey = editing.VideoKey
	}

	outcome := OutcomeSaved
	if !draft.Video.Empty() {
		f.setState(StateUploadingVideo)
		withVideo, err := f.backend.UploadVideo(ctx, token, saved.IDValue(), draft.Video)
		if err != nil {
			return f.partialFailure(saved, err)
		}
		saved = withVideo
		outcome = OutcomeSavedWithVideo
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateDone
	f.busy = false
	if editing == nil {
		f.draft = models.NewDraft()
	} else {
		f.editing = &saved
		f.draft.Video = nil
		f.closed = true
	}
	f.logger.Info().Int64("project_id", saved.IDValue()).Str("outcome", outcome.String()).Msg("project saved")
	return Result{Outcome: outcome, Project: &saved}, nil
}

func (f *Form) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

func (f *Form) fail(err error) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateFailed
	f.busy = false
	f.err = err
	return Result{Outcome: OutcomeFailed}, err
}

// partialFailure keeps the staged file and switches the form to edit the saved
// project, so a retry updates it instead of creating a duplicate.
func (f *Form) partialFailure(saved models.Project, cause error) (Result, error) {
	err := errs.NewPartialFailureError(saved.IDValue(), cause)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateFailed
	f.busy = false
	f.err = err
	f.editing = &saved
	f.fieldErrors = map[string]string{models.FieldVideo: "project saved, video upload failed"}
	f.logger.Warn().Err(cause).Int64("project_id", saved.IDValue()).Msg("project saved but video upload failed")
	return Result{Outcome: OutcomePartialSuccess, Project: &saved}, err
}
