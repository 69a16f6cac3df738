package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/aaronch12Ch/portafolio-sp/assets"
	"github.com/aaronch12Ch/portafolio-sp/client"
	"github.com/aaronch12Ch/portafolio-sp/client/clienttest"
	"github.com/aaronch12Ch/portafolio-sp/config"
	"github.com/aaronch12Ch/portafolio-sp/display"
	"github.com/aaronch12Ch/portafolio-sp/models"
	"github.com/aaronch12Ch/portafolio-sp/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server  *httptest.Server
	backend *clienttest.Backend
	browser *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := clienttest.New(t)
	settings := config.FromMap(map[string]string{
		"API_BASE_URL":     backend.URL(),
		"ACCEPTED_ORIGINS": "https://portfolio.test",
	})

	router := newRouter(Dependencies{
		Settings: settings,
		Backend:  client.New(settings),
		Sessions: session.NewMemoryProvider(),
		Assets:   assets.NewStaticResolver("https://cdn.test/"),
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{server: server, backend: backend, browser: &http.Client{Jar: jar}}
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := e.browser.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) login(t *testing.T, email, password, role string) {
	t.Helper()
	e.backend.AddUser(email, password, role)
	body, _ := json.Marshal(LoginRequest{Email: email, Password: password})
	resp := e.do(t, http.MethodPost, "/auth/login", bytes.NewReader(body), "application/json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func projectForm(t *testing.T, fields map[string]string, video []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if video != nil {
		part, err := w.CreateFormFile("video", "demo.mp4")
		require.NoError(t, err)
		_, err = part.Write(video)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"title":       "Portfolio",
		"description": "Personal site",
		"image":       "https://x.test/i.png",
		"link":        "https://x.test",
	}
}

func seed(b *clienttest.Backend, title string) models.Project {
	return b.Seed(models.Project{Title: title, Description: "d", ImageURL: "https://x.test/i.png", Link: "https://x.test", Available: true})
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[HealthResponse](t, resp).Status)
}

func TestPublicProjectsPage(t *testing.T) {
	env := newTestEnv(t)
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		seed(env.backend, title)
	}

	resp := env.do(t, http.MethodGet, "/api/projects?viewport=narrow&page=6", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Mode     string         `json:"mode"`
		Page     int            `json:"page"`
		Pages    int            `json:"pages"`
		PageSize int            `json:"pageSize"`
		Cards    []display.Card `json:"cards"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, "carousel", page.Mode)
	assert.Equal(t, 5, page.Pages)
	assert.Equal(t, 1, page.Page, "page 6 wraps to page 1")
	require.Len(t, page.Cards, 1)
	assert.Equal(t, "b", page.Cards[0].Title)
}

func TestPublicProjectsRejectsBadPage(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/projects?page=two", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLandingPageListsProjects(t *testing.T) {
	env := newTestEnv(t)
	seed(env.backend, "Tienda <online>")

	resp := env.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "Tienda &lt;online&gt;")
	assert.Contains(t, string(body), `data-mode="grid"`)
	assert.NotContains(t, string(body), `href="/admin/projects"`)
}

func TestLandingPageSignsOut(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ana@example.com", "secret", "ADMIN")
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/auth/me", nil, "").StatusCode)

	resp := env.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/auth/me", nil, "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/admin/projects", nil, "").StatusCode)
}

func TestSphereLayout(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/sphere", nil, "")
	out := decode[SphereResponse](t, resp)
	assert.Len(t, out.Points, 12)
	assert.Len(t, out.Labels, 12)
	assert.Equal(t, 2.5, out.Radius)
}

func TestLoginSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	env.login(t, "ana@example.com", "secret", "ADMIN")

	me := decode[MeResponse](t, env.do(t, http.MethodGet, "/auth/me", nil, ""))
	require.NotNil(t, me.User)
	assert.Equal(t, "ana@example.com", me.User.Email)
	assert.True(t, me.Admin)

	resp = env.do(t, http.MethodPost, "/auth/logout", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.do(t, http.MethodGet, "/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRotatesSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	first := env.do(t, http.MethodGet, "/auth/me", nil, "")
	require.Len(t, first.Cookies(), 1)
	planted := first.Cookies()[0].Value

	env.backend.AddUser("ana@example.com", "secret", "ADMIN")
	body, _ := json.Marshal(LoginRequest{Email: "ana@example.com", Password: "secret"})
	resp := env.do(t, http.MethodPost, "/auth/login", bytes.NewReader(body), "application/json")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var issued string
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			issued = c.Value
		}
	}
	require.NotEmpty(t, issued, "login must issue a fresh session cookie")
	assert.NotEqual(t, planted, issued)

	// the browser follows the new cookie
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/auth/me", nil, "").StatusCode)

	// whoever still holds the old id is not signed in
	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: planted})
	stale, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stale.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, stale.StatusCode)
}

func TestLoginWithWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddUser("ana@example.com", "secret", "ADMIN")

	body, _ := json.Marshal(LoginRequest{Email: "ana@example.com", Password: "nope"})
	resp := env.do(t, http.MethodPost, "/auth/login", bytes.NewReader(body), "application/json")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	errResp := decode[ErrorResponse](t, resp)
	assert.Equal(t, "credentials", errResp.Field)
}

func TestAdminRoutesRequirePrivilegedSession(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/admin/projects", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	env.login(t, "user@example.com", "pw", "USER")
	resp = env.do(t, http.MethodGet, "/admin/projects", nil, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Len(t, env.backend.Requests(), 1, "only the login reached the backend")
}

func TestAdminCreateWithVideo(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ana@example.com", "secret", "JEFE")

	body, contentType := projectForm(t, validFields(), []byte("frames"))
	resp := env.do(t, http.MethodPost, "/admin/projects", body, contentType)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decode[SubmitResponse](t, resp)
	assert.Equal(t, "saved_with_video", out.Outcome)
	require.NotNil(t, out.Project)
	assert.True(t, out.Project.HasVideo())
	require.NotEmpty(t, out.Notifications)
	assert.Equal(t, "Project created with video", out.Notifications[0].Message)

	list := decode[AdminProjectsResponse](t, env.do(t, http.MethodGet, "/admin/projects", nil, ""))
	assert.Equal(t, 1, list.Total)
}

func TestAdminCreateValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ana@example.com", "secret", "ADMIN")

	fields := validFields()
	fields["image"] = "data:image/png;base64,AAAA"
	delete(fields, "title")
	body, contentType := projectForm(t, fields, nil)

	resp := env.do(t, http.MethodPost, "/admin/projects", body, contentType)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	out := decode[ErrorResponse](t, resp)
	assert.Contains(t, out.Fields, models.FieldTitle)
	assert.Contains(t, out.Fields, models.FieldImage)
	assert.Empty(t, env.backend.Projects())
}

func TestAdminCreatePartialSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ana@example.com", "secret", "ADMIN")
	env.backend.SetFailUploads(true)

	body, contentType := projectForm(t, validFields(), []byte("frames"))
	resp := env.do(t, http.MethodPost, "/admin/projects", body, contentType)
	require.Equal(t, http.StatusMultiStatus, resp.StatusCode)

	out := decode[SubmitResponse](t, resp)
	assert.Equal(t, "partial_success", out.Outcome)
	require.NotNil(t, out.Project)
	assert.Contains(t, out.FieldErrors, models.FieldVideo)
	assert.Len(t, env.backend.Projects(), 1)
}

func TestAdminUpdateKeepsUnsentFields(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ana@example.com", "secret", "ADMIN")
	p := seed(env.backend, "old")

	body, contentType := projectForm(t, map[string]string{"title": "new", "available": "false"}, nil)
	resp := env.do(t, http.MethodPut, "/admin/projects/"+idString(p), body, contentType)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, ok := env.backend.Project(p.IDValue())
	require.True(t, ok)
	assert.Equal(t, "new", stored.Title)
	assert.Equal(t, "d", stored.Description)
	assert.False(t, stored.Available)
}

func TestAdminUpdateUnknownProject(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ana@example.com", "secret", "ADMIN")

	body, contentType := projectForm(t, map[string]string{"title": "x"}, nil)
	resp := env.do(t, http.MethodPut, "/admin/projects/999", body, contentType)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminDeleteRequiresConfirmation(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ana@example.com", "secret", "ADMIN")
	p := seed(env.backend, "doomed")

	resp := env.do(t, http.MethodDelete, "/admin/projects/"+idString(p), nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_, ok := env.backend.Project(p.IDValue())
	assert.True(t, ok)

	resp = env.do(t, http.MethodDelete, "/admin/projects/"+idString(p)+"?confirm=true", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, ok = env.backend.Project(p.IDValue())
	assert.False(t, ok)
}

func TestAdminVideoRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ana@example.com", "secret", "ADMIN")
	p := seed(env.backend, "clip")

	body, contentType := projectForm(t, nil, []byte("frames"))
	resp := env.do(t, http.MethodPost, "/admin/projects/"+idString(p)+"/video", body, contentType)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[ProjectResponse](t, resp).Project.HasVideo())

	resp = env.do(t, http.MethodDelete, "/admin/projects/"+idString(p)+"/video", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[ProjectResponse](t, resp).Project.HasVideo())
}

func TestAdminVideoUploadNeedsFile(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ana@example.com", "secret", "ADMIN")
	p := seed(env.backend, "clip")

	body, contentType := projectForm(t, map[string]string{"title": "x"}, nil)
	resp := env.do(t, http.MethodPost, "/admin/projects/"+idString(p)+"/video", body, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodOptions, env.server.URL+"/api/projects", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.test")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req.Header.Set("Origin", "https://portfolio.test")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "https://portfolio.test", resp2.Header.Get("Access-Control-Allow-Origin"))
}

func TestSessionCookieIssuedOnce(t *testing.T) {
	env := newTestEnv(t)
	first := env.do(t, http.MethodGet, "/api/sphere", nil, "")
	require.Len(t, first.Cookies(), 1)
	assert.Equal(t, sessionCookieName, first.Cookies()[0].Name)
	assert.True(t, first.Cookies()[0].HttpOnly)

	second := env.do(t, http.MethodGet, "/api/sphere", nil, "")
	assert.Empty(t, second.Cookies())
}

func idString(p models.Project) string {
	return strconv.FormatInt(p.IDValue(), 10)
}
