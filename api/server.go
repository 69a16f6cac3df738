package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aaronch12Ch/portafolio-sp/assets"
	"github.com/aaronch12Ch/portafolio-sp/config"
	"github.com/aaronch12Ch/portafolio-sp/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// Dependencies are the collaborators shared by every handler.
type Dependencies struct {
	Settings config.Settings
	Backend  Backend
	Sessions session.Provider
	Assets   assets.Resolver
}

func NewServer(deps Dependencies) (Server, error) {
	if deps.Backend == nil || deps.Sessions == nil || deps.Assets == nil {
		return Server{}, fmt.Errorf("api: backend, sessions and assets are required")
	}
	settings := deps.Settings

	// Bind to 0.0.0.0 for external access
	address := fmt.Sprintf("0.0.0.0:%s", settings.Port)

	startupTime := time.Now()
	router := newRouter(deps, withStartupTime(startupTime))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  settings.ReadTimeout,
		WriteTimeout: settings.WriteTimeout,
		IdleTimeout:  settings.IdleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	startupTime time.Time
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	handlers := initializeHandlers(deps, router.startupTime)

	acceptedOrigins := deps.Settings.AcceptedOrigins
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	sessions := newSessionMiddleware(deps.Sessions)
	setupPublicRoutes(chiRouter, handlers, sessions)
	setupAdminRoutes(chiRouter, handlers, sessions)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
