package api

import (
	"github.com/go-chi/chi/v5"
)

// setupPublicRoutes wires the landing page, its JSON feeds and the login flow.
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, sessions sessionMiddleware) {
	r.Get("/healthz", handlers.pageHandler.health())

	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(sessions.attach)

		r.Get("/", handlers.pageHandler.landing())
		r.Get("/api/projects", handlers.pageHandler.projects())
		r.Get("/api/sphere", handlers.pageHandler.sphere())

		r.Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/logout", handlers.authHandler.logout())
		r.Get("/auth/me", handlers.authHandler.me())
	})
}

// setupAdminRoutes sets up the admin panel API. Every route needs an admin session.
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, sessions sessionMiddleware) {
	r.Route("/admin/projects", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(sessions.attach)
		r.Use(sessions.requireAdmin)

		r.Get("/", handlers.adminHandler.listProjects())
		r.Post("/", handlers.adminHandler.createProject())
		r.Put("/{projectID}", handlers.adminHandler.updateProject())
		r.Delete("/{projectID}", handlers.adminHandler.deleteProject())
		r.Post("/{projectID}/video", handlers.adminHandler.uploadVideo())
		r.Delete("/{projectID}/video", handlers.adminHandler.deleteVideo())
	})
}
