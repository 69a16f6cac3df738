package api

import (
	"time"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		pageHandler:  newPageHandler(deps.Backend, deps.Assets, startupTime),
		authHandler:  newAuthHandler(deps.Backend, deps.Sessions),
		adminHandler: newAdminHandler(deps.Backend),
	}
}
