package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aaronch12Ch/portafolio-sp/errs"
)

type loginRequest struct {
	Email    string `json:"correoUsuario"`
	Password string `json:"contrasena"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, identifier, secret string) (string, error) {
	var problems errs.ValidationErrors
	if strings.TrimSpace(identifier) == "" {
		problems = append(problems, errs.NewMissingRequiredFieldError("email"))
	}
	if secret == "" {
		problems = append(problems, errs.NewMissingRequiredFieldError("password"))
	}
	if len(problems) > 0 {
		return "", problems
	}

	body, err := json.Marshal(loginRequest{Email: strings.TrimSpace(identifier), Password: secret})
	if err != nil {
		return "", errs.NewInternalErrorWithCause("encoding login", err)
	}

	var out loginResponse
	err = c.send(ctx, call{
		operation:   "log in",
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        body,
		contentType: "application/json",
	}, &out)
	if err != nil {
		if rejected(err) {
			return "", errs.NewInvalidCredentialsError("Invalid email or password")
		}
		return "", err
	}
	if out.Token == "" {
		return "", errs.NewInvalidTokenError(errors.New("login response carries no token"))
	}
	return out.Token, nil
}

// rejected reports whether a login failure means the backend refused the credentials.
func rejected(err error) bool {
	status, ok := errs.RemoteStatus(err)
	if !ok {
		return false
	}
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "credencial") || strings.Contains(msg, "credential")
}
