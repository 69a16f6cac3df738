package pipeline

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/aaronch12Ch/portafolio-sp/client"
	"github.com/aaronch12Ch/portafolio-sp/client/clienttest"
	"github.com/aaronch12Ch/portafolio-sp/config"
	"github.com/aaronch12Ch/portafolio-sp/errs"
	"github.com/aaronch12Ch/portafolio-sp/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminPath = "/api/proyectos/admin"

func newTestBackend(t *testing.T) (*client.Client, *clienttest.Backend, string) {
	t.Helper()
	backend := clienttest.New(t)
	c := client.New(config.FromMap(map[string]string{"API_BASE_URL": backend.URL()}))
	return c, backend, backend.Token("admin@example.com", "ADMIN")
}

func fillValid(t *testing.T, f *Form) {
	t.Helper()
	require.NoError(t, f.SetTitle("A"))
	require.NoError(t, f.SetDescription("B"))
	require.NoError(t, f.SetLink("https://x.test"))
	require.NoError(t, f.SetImageURL("https://x.test/i.png"))
}

func video() models.VideoFile {
	return models.VideoFile{Filename: "demo.mp4", ContentType: "video/mp4", Data: []byte("frames")}
}

func TestCreateWithoutVideo(t *testing.T) {
	c, backend, token := newTestBackend(t)
	f := NewCreateForm(c)
	fillValid(t, f)

	res, err := f.Submit(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, res.Outcome)
	require.NotNil(t, res.Project)
	assert.True(t, res.Project.Persisted())

	assert.Equal(t, StateDone, f.State())
	assert.False(t, f.Busy())
	assert.Equal(t, models.NewDraft(), f.Draft(), "create form resets after success")
	assert.Equal(t, 1, backend.Count(http.MethodPost, adminPath))
	assert.Len(t, backend.Projects(), 1)
}

func TestCreateWithVideoUploadsAgainstReturnedID(t *testing.T) {
	c, backend, token := newTestBackend(t)
	f := NewCreateForm(c)
	fillValid(t, f)
	require.NoError(t, f.StageVideo(video()))

	res, err := f.Submit(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSavedWithVideo, res.Outcome)
	assert.True(t, res.Project.HasVideo())

	id := res.Project.IDValue()
	assert.Equal(t, 1, backend.Count(http.MethodPost, adminPath))
	assert.Equal(t, 1, backend.Count(http.MethodPost, adminPath+"/"+strconv.FormatInt(id, 10)+"/video"))

	for _, r := range backend.Requests() {
		if r.Method == http.MethodPost && r.Path == adminPath {
			require.Len(t, r.Parts, 1, "save call carries the JSON part only")
			assert.Equal(t, "proyecto", r.Parts[0].Name)
		}
	}
	assert.Nil(t, f.StagedVideo())
}

func TestEditUsesExistingID(t *testing.T) {
	c, backend, token := newTestBackend(t)
	seeded := backend.Seed(models.Project{Title: "old", Description: "d", ImageURL: "https://x.test/i.png", Link: "https://x.test", Available: true})

	f := NewEditForm(c, seeded)
	require.NoError(t, f.SetTitle("new"))
	require.NoError(t, f.StageVideo(video()))

	res, err := f.Submit(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSavedWithVideo, res.Outcome)
	assert.Equal(t, seeded.IDValue(), res.Project.IDValue())
	assert.True(t, f.Closed())

	stored, _ := backend.Project(seeded.IDValue())
	assert.Equal(t, "new", stored.Title)
	assert.True(t, stored.HasVideo())
	assert.Equal(t, 0, backend.Count(http.MethodPost, adminPath))

	_, err = f.Submit(context.Background(), token)
	assert.ErrorIs(t, err, ErrFormClosed)
}

func TestValidationFailureMakesNoCall(t *testing.T) {
	c, backend, token := newTestBackend(t)
	f := NewCreateForm(c)
	require.NoError(t, f.SetTitle("   "))
	require.NoError(t, f.SetImageURL("data:image/png;base64,AAAA"))
	require.NoError(t, f.SetLink("not a url"))

	res, err := f.Submit(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, StateFailed, f.State())
	assert.True(t, errs.IsValidationError(err))

	fields := f.FieldErrors()
	assert.Contains(t, fields, models.FieldTitle)
	assert.Contains(t, fields, models.FieldDescription)
	assert.Contains(t, fields, models.FieldImage)
	assert.Contains(t, fields, models.FieldLink)

	assert.Equal(t, "data:image/png;base64,AAAA", f.Draft().ImageURL, "draft is retained")
	assert.Empty(t, backend.Requests())
}

func TestMissingTokenMakesNoCall(t *testing.T) {
	c, backend, _ := newTestBackend(t)
	f := NewCreateForm(c)
	fillValid(t, f)

	res, err := f.Submit(context.Background(), "")
	assert.True(t, errs.IsMissingTokenError(err))
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, StateFailed, f.State())
	assert.Empty(t, backend.Requests())
}

func TestUploadFailureIsPartialSuccess(t *testing.T) {
	c, backend, token := newTestBackend(t)
	backend.SetFailUploads(true)

	f := NewCreateForm(c)
	fillValid(t, f)
	require.NoError(t, f.StageVideo(video()))

	res, err := f.Submit(context.Background(), token)
	require.Error(t, err)
	assert.True(t, errs.IsPartialFailure(err))
	assert.True(t, errs.IsRemoteStatusError(err), "cause stays reachable")
	assert.Equal(t, OutcomePartialSuccess, res.Outcome)
	require.NotNil(t, res.Project)
	assert.Equal(t, StateFailed, f.State())

	projects := backend.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, "A", projects[0].Title)
	assert.False(t, projects[0].HasVideo())

	// the form now edits the saved project; a retry must not create a duplicate
	editing, ok := f.Editing()
	require.True(t, ok)
	assert.Equal(t, res.Project.IDValue(), editing.IDValue())
	assert.NotNil(t, f.StagedVideo())

	backend.SetFailUploads(false)
	retry, err := f.Submit(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSavedWithVideo, retry.Outcome)
	assert.Len(t, backend.Projects(), 1)
	assert.Equal(t, 1, backend.Count(http.MethodPost, adminPath))
}

func TestSaveFailureIsTotalFailure(t *testing.T) {
	c, backend, token := newTestBackend(t)
	backend.FailWrites(1, http.StatusInternalServerError)

	f := NewCreateForm(c)
	fillValid(t, f)
	require.NoError(t, f.StageVideo(video()))

	res, err := f.Submit(context.Background(), token)
	require.Error(t, err)
	assert.False(t, errs.IsPartialFailure(err))
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Nil(t, res.Project)
	assert.Empty(t, backend.Projects())
	assert.NotNil(t, f.StagedVideo(), "staged file kept for retry")
}

func TestCurrentVideoNoticeHiddenWhileFileStaged(t *testing.T) {
	p := models.Project{ID: models.Int64Ptr(7), VideoKey: models.StringPtr("videos/7.mp4")}
	f := NewEditForm(nil, p)

	key, ok := f.CurrentVideoNotice()
	assert.True(t, ok)
	assert.Equal(t, "videos/7.mp4", key)

	require.NoError(t, f.StageVideo(video()))
	_, ok = f.CurrentVideoNotice()
	assert.False(t, ok)

	require.NoError(t, f.ClearVideo())
	_, ok = f.CurrentVideoNotice()
	assert.True(t, ok)

	blank := NewEditForm(nil, models.Project{ID: models.Int64Ptr(8), VideoKey: models.StringPtr("  ")})
	_, ok = blank.CurrentVideoNotice()
	assert.False(t, ok)
}

func TestStageEmptyVideoRejected(t *testing.T) {
	f := NewCreateForm(nil)
	err := f.StageVideo(models.VideoFile{Filename: "empty.mp4"})
	assert.True(t, errs.IsInvalidFieldError(err))
	assert.Nil(t, f.StagedVideo())
}

func TestEditCannotTouchStagedVideo(t *testing.T) {
	f := NewCreateForm(nil)
	require.NoError(t, f.StageVideo(video()))
	require.NoError(t, f.Edit(func(d *models.Draft) { d.Video = nil }))
	assert.NotNil(t, f.StagedVideo())
}

// blockingBackend holds CreateProject until released.
type blockingBackend struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingBackend) CreateProject(ctx context.Context, _ string, d models.Draft) (models.Project, error) {
	close(b.entered)
	<-b.release
	return models.Project{ID: models.Int64Ptr(1), Title: d.Title}, nil
}

func (b *blockingBackend) UpdateProject(context.Context, string, int64, models.Draft) (models.Project, error) {
	return models.Project{}, nil
}

func (b *blockingBackend) UploadVideo(context.Context, string, int64, *models.VideoFile) (models.Project, error) {
	return models.Project{}, nil
}

func TestSecondSubmitRejectedWhileInFlight(t *testing.T) {
	backend := &blockingBackend{entered: make(chan struct{}), release: make(chan struct{})}
	f := NewCreateForm(backend)
	fillValid(t, f)

	done := make(chan Result)
	go func() {
		res, _ := f.Submit(context.Background(), "tok")
		done <- res
	}()
	<-backend.entered

	assert.True(t, f.Busy())
	assert.Equal(t, StateSubmitting, f.State())

	res, err := f.Submit(context.Background(), "tok")
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.True(t, errs.IsSubmissionInFlight(err))
	assert.True(t, errs.IsSubmissionInFlight(f.SetTitle("changed")))

	close(backend.release)
	first := <-done
	assert.Equal(t, OutcomeSaved, first.Outcome)
	assert.False(t, f.Busy())
}

// Concurrent edits of the same project are not detected: the last save wins.
func TestConcurrentEditsLastWriteWins(t *testing.T) {
	c, backend, token := newTestBackend(t)
	seeded := backend.Seed(models.Project{Title: "orig", Description: "d", ImageURL: "https://x.test/i.png", Link: "https://x.test", Available: true})

	first := NewEditForm(c, seeded)
	second := NewEditForm(c, seeded)
	require.NoError(t, first.SetTitle("first"))
	require.NoError(t, second.SetTitle("second"))

	_, err := first.Submit(context.Background(), token)
	require.NoError(t, err)
	_, err = second.Submit(context.Background(), token)
	require.NoError(t, err)

	stored, _ := backend.Project(seeded.IDValue())
	assert.Equal(t, "second", stored.Title)
}

// bareUpdateBackend answers updates like a backend that returns no body.
type bareUpdateBackend struct{}

func (bareUpdateBackend) CreateProject(context.Context, string, models.Draft) (models.Project, error) {
	return models.Project{}, nil
}

func (bareUpdateBackend) UpdateProject(_ context.Context, _ string, id int64, d models.Draft) (models.Project, error) {
	return models.Project{ID: models.Int64Ptr(id), Title: d.Title}, nil
}

func (bareUpdateBackend) UploadVideo(context.Context, string, int64, *models.VideoFile) (models.Project, error) {
	return models.Project{}, nil
}

func TestEditKeepsStoredVideoWhenResponseOmitsIt(t *testing.T) {
	p := models.Project{
		ID:          models.Int64Ptr(4),
		Title:       "old",
		Description: "d",
		ImageURL:    "https://x.test/i.png",
		Link:        "https://x.test",
		Available:   true,
		VideoKey:    models.StringPtr("videos/4.mp4"),
	}
	f := NewEditForm(bareUpdateBackend{}, p)
	require.NoError(t, f.SetTitle("new"))

	res, err := f.Submit(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, res.Outcome)
	assert.Equal(t, "videos/4.mp4", res.Project.VideoKeyValue())

	editing, ok := f.Editing()
	require.True(t, ok)
	assert.Equal(t, "new", editing.Title)
	key, ok := f.CurrentVideoNotice()
	assert.True(t, ok)
	assert.Equal(t, "videos/4.mp4", key)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "uploading_video", StateUploadingVideo.String())
	assert.Equal(t, "partial_success", OutcomePartialSuccess.String())
}
