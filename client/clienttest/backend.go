// Package clienttest provides an in-memory projects backend for tests.
package clienttest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aaronch12Ch/portafolio-sp/models"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

var signingKey = []byte("clienttest-signing-key")

// Part is one multipart part as received by the backend.
type Part struct {
	Name        string
	Filename    string
	ContentType string
	Size        int
}

// Request is one call as received by the backend.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Parts         []Part
}

type user struct {
	password string
	role     string
}

type Backend struct {
	Server *httptest.Server

	mu          sync.Mutex
	projects    map[int64]models.Project
	nextID      int64
	users       map[string]user
	issued      map[string]bool
	requests    []Request
	failUploads bool
	failReads   int
	failWrites  int
	failStatus  int
}

// New starts a backend that is closed when the test ends.
func New(t testing.TB) *Backend {
	b := &Backend{
		projects: make(map[int64]models.Project),
		nextID:   1,
		users:    make(map[string]user),
		issued:   make(map[string]bool),
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the API base URL to configure clients with.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)
	r.Route("/api", func(r chi.Router) {
		r.Get("/proyectos/todos", b.listProjects)
		r.Post("/auth/login", b.login)
		r.Route("/proyectos/admin", func(r chi.Router) {
			r.Use(b.requireToken)
			r.Get("/", b.listProjects)
			r.Post("/", b.createProject)
			r.Put("/{id}", b.updateProject)
			r.Delete("/{id}", b.deleteProject)
			r.Post("/{id}/video", b.uploadVideo)
			r.Delete("/{id}/video", b.deleteVideo)
		})
	})
	return r
}

// AddUser registers credentials accepted by /auth/login.
func (b *Backend) AddUser(email, password, role string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[email] = user{password: password, role: role}
}

// Token issues a signed token the backend accepts.
func (b *Backend) Token(subject string, roles any) string {
	claims := jwt.MapClaims{"sub": subject}
	if roles != nil {
		claims["roles"] = roles
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	b.mu.Lock()
	b.issued[token] = true
	b.mu.Unlock()
	return token
}

// Seed stores p as if it had been created earlier and returns it with its id.
func (b *Backend) Seed(p models.Project) models.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	p.ID = models.Int64Ptr(b.nextID)
	b.nextID++
	b.projects[*p.ID] = p
	return p
}

// Project returns the stored project with id.
func (b *Backend) Project(id int64) (models.Project, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.projects[id]
	return p, ok
}

func (b *Backend) Projects() []models.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sortedLocked()
}

// SetFailUploads makes every video upload answer 500.
func (b *Backend) SetFailUploads(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failUploads = fail
}

// FailReads makes the next n GET requests answer status.
func (b *Backend) FailReads(n, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failReads = n
	b.failStatus = status
}

// FailWrites makes the next n non-GET requests answer status.
func (b *Backend) FailWrites(n, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWrites = n
	b.failStatus = status
}

// Requests returns every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// Count returns how many requests matched method and path.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		fail := false
		if r.Method == http.MethodGet && b.failReads > 0 {
			b.failReads--
			fail = true
		} else if r.Method != http.MethodGet && b.failWrites > 0 {
			b.failWrites--
			fail = true
		}
		status := b.failStatus
		b.mu.Unlock()

		if fail {
			http.Error(w, "induced failure", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		ok := b.issued[token]
		b.mu.Unlock()
		if !ok {
			http.Error(w, "token invalido", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"correoUsuario"`
		Password string `json:"contrasena"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	u, ok := b.users[body.Email]
	b.mu.Unlock()
	if !ok || u.password != body.Password {
		http.Error(w, "Credenciales inválidas", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": b.Token(body.Email, u.role)})
}

func (b *Backend) listProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.Projects())
}

func (b *Backend) createProject(w http.ResponseWriter, r *http.Request) {
	fields, video, err := b.readMultipart(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if fields == nil {
		http.Error(w, "missing proyecto part", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	p := projectFromFields(id, *fields)
	if video != nil {
		p.VideoKey = models.StringPtr(videoKey(id, video.Filename))
	}
	b.projects[id] = p
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) updateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	fields, video, err := b.readMultipart(r)
	if err != nil || fields == nil {
		http.Error(w, "missing proyecto part", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	existing, found := b.projects[id]
	if !found {
		b.mu.Unlock()
		http.Error(w, "proyecto no encontrado", http.StatusNotFound)
		return
	}
	p := projectFromFields(id, *fields)
	p.VideoKey = existing.VideoKey
	if video != nil {
		p.VideoKey = models.StringPtr(videoKey(id, video.Filename))
	}
	b.projects[id] = p
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	_, found := b.projects[id]
	delete(b.projects, id)
	b.mu.Unlock()
	if !found {
		http.Error(w, "proyecto no encontrado", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) uploadVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	_, video, err := b.readMultipart(r)
	if err != nil || video == nil {
		http.Error(w, "missing video part", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failUploads {
		http.Error(w, "error subiendo video", http.StatusInternalServerError)
		return
	}
	p, found := b.projects[id]
	if !found {
		http.Error(w, "proyecto no encontrado", http.StatusNotFound)
		return
	}
	p.VideoKey = models.StringPtr(videoKey(id, video.Filename))
	b.projects[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) deleteVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, found := b.projects[id]
	if !found {
		http.Error(w, "proyecto no encontrado", http.StatusNotFound)
		return
	}
	p.VideoKey = nil
	b.projects[id] = p
	writeJSON(w, http.StatusOK, p)
}

// readMultipart records every part and returns the decoded fields and video part.
func (b *Backend) readMultipart(r *http.Request) (*models.ProjectFields, *Part, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, nil, err
	}

	var (
		parts  []Part
		fields *models.ProjectFields
		video  *Part
	)
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		data, err := io.ReadAll(p)
		if err != nil {
			return nil, nil, err
		}
		part := Part{
			Name:        p.FormName(),
			Filename:    p.FileName(),
			ContentType: p.Header.Get("Content-Type"),
			Size:        len(data),
		}
		parts = append(parts, part)

		switch part.Name {
		case "proyecto":
			var f models.ProjectFields
			if err := json.Unmarshal(data, &f); err != nil {
				return nil, nil, fmt.Errorf("decode proyecto: %w", err)
			}
			fields = &f
		case "video":
			if part.Size > 0 {
				video = &part
			}
		}
	}

	b.mu.Lock()
	if n := len(b.requests); n > 0 {
		b.requests[n-1].Parts = parts
	}
	b.mu.Unlock()
	return fields, video, nil
}

func (b *Backend) sortedLocked() []models.Project {
	out := make([]models.Project, 0, len(b.projects))
	for _, p := range b.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].ID < *out[j].ID })
	return out
}

func projectFromFields(id int64, f models.ProjectFields) models.Project {
	return models.Project{
		ID:          models.Int64Ptr(id),
		Title:       f.Title,
		Description: f.Description,
		ImageURL:    f.ImageURL,
		Link:        f.Link,
		Available:   f.Available,
	}
}

func videoKey(id int64, filename string) string {
	return fmt.Sprintf("videos/%d-%s", id, filename)
}

func projectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "id invalido", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
