package api

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/aaronch12Ch/portafolio-sp/assets"
	"github.com/aaronch12Ch/portafolio-sp/display"
	"github.com/aaronch12Ch/portafolio-sp/errs"
	"github.com/aaronch12Ch/portafolio-sp/sphere"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type pageHandler struct {
	responder   Responder
	logger      zerolog.Logger
	backend     Backend
	assets      assets.Resolver
	points      []sphere.Point
	startupTime time.Time
}

func newPageHandler(backend Backend, resolver assets.Resolver, startupTime time.Time) pageHandler {
	logger := log.With().Str("handlerName", "pageHandler").Logger()

	return pageHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		backend:     backend,
		assets:      resolver,
		points:      sphere.Layout(sphere.DefaultLabels, sphere.DefaultRadius),
		startupTime: startupTime,
	}
}

type landingData struct {
	Page     display.Page
	Labels   []string
	Current  int
	PrevPage int
	NextPage int
}

// landing renders the public page: hero, tech sphere labels and the project listing.
// Every visit clears the browser's stored sign-in.
// @Summary Landing page
// @Tags Pages
// @Produce html
// @Param viewport query string false "narrow or wide"
// @Param page query int false "carousel page"
// @Router / [get]
func (h pageHandler) landing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// visiting the public page signs the browser out
		ctxGetSession(r.Context()).ClearAuth()

		viewport := display.ParseViewport(r.URL.Query().Get("viewport"))

		projects := h.backend.ListPublicProjects(r.Context())
		built := display.BuildPage(r.Context(), projects, viewport, page, h.assets)
		// out of range pages wrap, so the links never need bounds
		data := landingData{
			Page:     built,
			Labels:   sphere.DefaultLabels,
			Current:  built.Page + 1,
			PrevPage: built.Page - 1,
			NextPage: built.Page + 1,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := landingTemplate.Execute(w, data); err != nil {
			h.logger.Error().Err(err).Msg("error rendering landing page")
		}
	}
}

// projects returns one display page of the public listing.
// @Summary List public projects
// @Tags Projects
// @Produce json
// @Param viewport query string false "narrow or wide"
// @Param page query int false "carousel page, wraps"
// @Success 200 {object} display.Page
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid page"
// @Router /api/projects [get]
func (h pageHandler) projects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		viewport := display.ParseViewport(r.URL.Query().Get("viewport"))

		projects := h.backend.ListPublicProjects(r.Context())
		h.responder.WriteJSON(w, display.BuildPage(r.Context(), projects, viewport, page, h.assets))
	}
}

// sphere returns the label layout and its resting projection.
// @Summary Tech sphere layout
// @Tags Pages
// @Produce json
// @Success 200 {object} SphereResponse
// @Router /api/sphere [get]
func (h pageHandler) sphere() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, SphereResponse{
			Radius:         sphere.DefaultRadius,
			CameraDistance: sphere.CameraDistance,
			FieldOfView:    sphere.FieldOfView,
			Easing:         sphere.Easing,
			PointerRange:   sphere.PointerRange,
			AutoRotate:     sphere.AutoRotate,
			Points:         h.points,
			Labels:         sphere.Project(h.points, sphere.Rotation{}),
		})
	}
}

func (h pageHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, HealthResponse{
			Status: "ok",
			Uptime: time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}

func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewInvalidFieldError("page", "page must be an integer")
	}
	return page, nil
}

var landingTemplate = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Portafolio</title>
</head>
<body>
<header>
  <h1>Portafolio</h1>
</header>
<section id="tech-sphere" data-source="/api/sphere">
  <ul>{{range .Labels}}<li>{{.}}</li>{{end}}</ul>
</section>
<section id="projects" data-mode="{{.Page.Mode}}" data-viewport="{{.Page.Viewport}}">
  {{if not .Page.Cards}}<p>No projects yet.</p>{{end}}
  {{range .Page.Cards}}
  <article class="project-card" data-id="{{.ID}}">
    <img src="{{.ImageURL}}" alt="{{.Title}}" loading="lazy">
    <h2>{{.Title}}</h2>
    <p>{{.Description}}</p>
    {{if .VideoURL}}<video src="{{.VideoURL}}" controls preload="metadata"></video>{{end}}
    {{if .Available}}<a href="{{.Link}}" target="_blank" rel="noopener">Ver proyecto</a>{{else}}<span class="unavailable">No disponible</span>{{end}}
  </article>
  {{end}}
  {{if gt .Page.Pages 1}}
  <nav class="carousel" aria-label="projects">
    <a href="?page={{.PrevPage}}&amp;viewport={{.Page.Viewport}}" data-step="prev">&lsaquo;</a>
    <span>{{.Current}} / {{.Page.Pages}}</span>
    <a href="?page={{.NextPage}}&amp;viewport={{.Page.Viewport}}" data-step="next">&rsaquo;</a>
  </nav>
  {{end}}
</section>
</body>
</html>
`))
