// Package session keeps the signed-in identity for one user of the portfolio
// front: the bearer token issued by the backend and the subject and role read
// from its claims.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Persisted keys. Exactly these three values are stored per session.
const (
	KeyToken = "token"
	KeyEmail = "userEmail"
	KeyRole  = "userRole"
)

var privilegedRoles = map[string]struct{}{
	"ADMIN": {},
	"JEFE":  {},
}

// Store is the key/value persistence behind a Session.
type Store interface {
	// Get returns the value and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// Provider hands out the Store of one session id (one browser, one CLI profile).
type Provider interface {
	Store(id string) Store
}

type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Session is the explicit replacement for ambient browser storage. A Session
// with a nil Store behaves like a context without storage: reads are empty and
// writes are no-ops.
type Session struct {
	store  Store
	logger zerolog.Logger
}

func New(store Store) *Session {
	return &Session{
		store:  store,
		logger: log.With().Str("component", "session").Logger(),
	}
}

// SaveAuth decodes the token payload and persists token, subject and role.
// The signature is not verified here; the backend does that on every call.
// A token whose payload cannot be decoded is ignored.
func (s *Session) SaveAuth(token string) {
	if s.store == nil {
		return
	}

	subject, role, err := decodeClaims(token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("error decoding auth token, session not saved")
		return
	}

	writes := []struct{ key, value string }{
		{KeyToken, token},
		{KeyEmail, subject},
		{KeyRole, role},
	}
	for _, w := range writes {
		if err := s.store.Set(w.key, w.value); err != nil {
			s.logger.Error().Err(err).Str("key", w.key).Msg("error persisting session key")
			return
		}
	}
}

func (s *Session) Token() (string, bool) {
	return s.read(KeyToken)
}

func (s *Session) UserRole() (string, bool) {
	return s.read(KeyRole)
}

func (s *Session) UserEmail() (string, bool) {
	return s.read(KeyEmail)
}

func (s *Session) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// IsAdmin is true only for the two privileged role names.
func (s *Session) IsAdmin() bool {
	role, ok := s.UserRole()
	if !ok {
		return false
	}
	_, privileged := privilegedRoles[role]
	return privileged
}

// User returns the identity view, or nil when there is no token.
func (s *Session) User() *User {
	if !s.IsAuthenticated() {
		return nil
	}
	email, _ := s.UserEmail()
	role, _ := s.UserRole()
	return &User{Username: email, Email: email, Role: role}
}

func (s *Session) Logout() {
	if s.store == nil {
		return
	}
	if err := s.store.Delete(KeyToken, KeyEmail, KeyRole); err != nil {
		s.logger.Error().Err(err).Msg("error clearing session")
	}
}

func (s *Session) ClearAuth() {
	s.Logout()
}

func (s *Session) read(key string) (string, bool) {
	if s.store == nil {
		return "", false
	}
	value, ok, err := s.store.Get(key)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("error reading session key")
		return "", false
	}
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func decodeClaims(token string) (subject, role string, err error) {
	if strings.Count(token, ".") != 2 {
		return "", "", errors.New("token is not a JWT")
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", "", err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("unexpected claims type")
	}

	subject, err = claims.GetSubject()
	if err != nil {
		return "", "", err
	}
	role, err = roleFromClaim(claims["roles"])
	if err != nil {
		return "", "", err
	}
	return subject, role, nil
}

// roleFromClaim accepts "roles" as a single string or an array of strings.
func roleFromClaim(v any) (string, error) {
	switch roles := v.(type) {
	case nil:
		return "", nil
	case string:
		return roles, nil
	case []any:
		names := make([]string, 0, len(roles))
		for _, r := range roles {
			name, ok := r.(string)
			if !ok {
				return "", fmt.Errorf("roles claim has non-string entry %v", r)
			}
			names = append(names, name)
		}
		return strings.Join(names, ","), nil
	default:
		return "", fmt.Errorf("roles claim has unexpected type %T", v)
	}
}
