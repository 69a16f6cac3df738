package api

import (
	"encoding/json"
	"net/http"

	"github.com/aaronch12Ch/portafolio-sp/errs"
	"github.com/aaronch12Ch/portafolio-sp/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxLoginBodyBytes = 64 * 1024

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	backend   Backend
	sessions  session.Provider
}

func newAuthHandler(backend Backend, sessions session.Provider) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		backend:   backend,
		sessions:  sessions,
	}
}

// login exchanges credentials for a backend token and stores it in the browser session.
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Email and password"
// @Success 200 {object} MeResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing email or password"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxLoginBodyBytes)

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("login", err))
			return
		}

		token, err := h.backend.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			h.logger.Warn().Err(err).Msg("login failed")
			h.responder.WriteError(w, err)
			return
		}

		// sign-in always starts a fresh session id
		ctxGetSession(r.Context()).Logout()
		sess := session.New(h.sessions.Store(issueSessionID(w, r)))
		sess.SaveAuth(token)
		if !sess.IsAuthenticated() {
			h.responder.WriteError(w, errs.NewInvalidTokenError(nil))
			return
		}

		h.responder.WriteJSON(w, MeResponse{User: sess.User(), Admin: sess.IsAdmin()})
	}
}

// logout clears the browser session.
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /auth/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctxGetSession(r.Context()).Logout()
		h.responder.WriteJSON(w, StatusResponse{Status: "ok"})
	}
}

// me returns the signed-in user.
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} ErrorResponse "Unauthorized - Not signed in"
// @Router /auth/me [get]
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := ctxGetSession(r.Context())
		user := sess.User()
		if user == nil {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}
		h.responder.WriteJSON(w, MeResponse{User: user, Admin: sess.IsAdmin()})
	}
}
