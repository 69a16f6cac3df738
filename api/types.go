package api

import (
	"context"

	"github.com/aaronch12Ch/portafolio-sp/admin"
	"github.com/aaronch12Ch/portafolio-sp/models"
	"github.com/aaronch12Ch/portafolio-sp/session"
	"github.com/aaronch12Ch/portafolio-sp/sphere"
)

// Backend is the remote data client as the web front uses it.
type Backend interface {
	admin.Backend
	ListPublicProjects(ctx context.Context) []models.Project
	Login(ctx context.Context, identifier, secret string) (string, error)
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	pageHandler  pageHandler
	authHandler  authHandler
	adminHandler adminHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string            `json:"error" example:"Internal Server Error"`
	Status  string            `json:"status" example:"error"`
	Field   string            `json:"field,omitempty" example:"title"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details string            `json:"details,omitempty" example:"Additional error details"`
	Cause   string            `json:"cause,omitempty" example:"Underlying error cause"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

type SphereResponse struct {
	Radius         float64            `json:"radius"`
	CameraDistance float64            `json:"cameraDistance"`
	FieldOfView    float64            `json:"fieldOfView"`
	Easing         float64            `json:"easing"`
	PointerRange   float64            `json:"pointerRange"`
	AutoRotate     float64            `json:"autoRotate"`
	Points         []sphere.Point     `json:"points"`
	Labels         []sphere.Projected `json:"labels"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MeResponse struct {
	User  *session.User `json:"user"`
	Admin bool          `json:"admin"`
}

type StatusResponse struct {
	Status        string               `json:"status"`
	Notifications []admin.Notification `json:"notifications,omitempty"`
}

type AdminProjectsResponse struct {
	Projects      []models.Project     `json:"projects"`
	Total         int                  `json:"total"`
	Notifications []admin.Notification `json:"notifications,omitempty"`
}

type ProjectResponse struct {
	Project       models.Project       `json:"project"`
	Notifications []admin.Notification `json:"notifications,omitempty"`
}

// SubmitResponse reports a form submission, including partial success.
type SubmitResponse struct {
	Outcome       string               `json:"outcome"`
	Project       *models.Project      `json:"project,omitempty"`
	FieldErrors   map[string]string    `json:"fieldErrors,omitempty"`
	Notifications []admin.Notification `json:"notifications,omitempty"`
}
