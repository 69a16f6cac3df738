package errs

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPartialFailureKeepsCause(t *testing.T) {
	cause := NewTransportError("upload video", errors.New("connection reset"))
	err := NewPartialFailureError(12, cause)

	assert.True(t, IsPartialFailure(err))
	assert.True(t, IsServiceUnreachable(err))
	assert.Equal(t, http.StatusMultiStatus, StatusCode(err))
	assert.Equal(t, "video", err.Field)
	assert.Contains(t, err.GetFullError(), "connection reset")
}

func TestRemoteStatus(t *testing.T) {
	err := NewRemoteStatusError("list projects", http.StatusBadGateway, "  upstream down  ")
	status, ok := RemoteStatus(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, err.Error(), "(upstream down)")

	_, ok = RemoteStatus(NewMissingTokenError())
	assert.False(t, ok)
}

func TestRemoteStatusTrimsLongBodies(t *testing.T) {
	body := make([]byte, 2*maxDetailsBody)
	for i := range body {
		body[i] = 'x'
	}
	err := NewRemoteStatusError("create project", http.StatusInternalServerError, string(body))
	assert.Less(t, len(err.Details), len(body))
	assert.Contains(t, err.Details, "...")
}

func TestRemoteStatusTrimKeepsRunesWhole(t *testing.T) {
	// "ó" is two bytes; an odd prefix puts one across the cut
	body := "x" + strings.Repeat("ó", maxDetailsBody)
	err := NewRemoteStatusError("update project", http.StatusBadRequest, body)

	assert.True(t, utf8.ValidString(err.Details))
	assert.Contains(t, err.Details, "...")
	assert.Equal(t, "x", truncateUTF8("xó", 2))
	assert.Equal(t, "xó", truncateUTF8("xó", 3))
}

func TestValidationErrors(t *testing.T) {
	problems := ValidationErrors{
		NewMissingRequiredFieldError("title"),
		NewInvalidFieldError("image", "must be an absolute http(s) URL"),
		NewInvalidFieldError("title", "second problem"),
	}

	var err error = problems
	assert.True(t, IsValidationError(err))
	assert.True(t, IsMissingRequiredFieldError(err))
	assert.True(t, IsInvalidFieldError(err))

	fields := problems.Fields()
	assert.Len(t, fields, 2)
	assert.Equal(t, "Missing required field: title", fields["title"], "first problem per field wins")
}

func TestStatusCodeDefaults(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("plain")))
	assert.Equal(t, http.StatusNotFound, StatusCode(NewNotFoundError("project 3")))
	assert.True(t, IsNotFound(NewNotFoundError("project 3")))
}

func TestDatabaseErrors(t *testing.T) {
	conn := NewDatabaseError("upsert", "session entry", errors.New("failed to connect: connection refused"))
	assert.Equal(t, http.StatusServiceUnavailable, conn.StatusCode)
	assert.ErrorIs(t, conn, ErrDatabaseConnection)

	query := NewDatabaseError("upsert", "session entry", errors.New("syntax error"))
	assert.Equal(t, http.StatusInternalServerError, query.StatusCode)
	assert.True(t, IsDatabaseError(query))
}

func TestCredentialErrors(t *testing.T) {
	assert.True(t, IsInvalidCredentialsError(NewInvalidCredentialsError("Invalid email or password")))
	assert.True(t, IsInsufficientRoleError(NewInsufficientRoleError("ADMIN or JEFE")))
	assert.Equal(t, http.StatusForbidden, StatusCode(NewInsufficientRoleError("ADMIN")))
	assert.True(t, IsMissingTokenError(NewMissingTokenError()))
	assert.True(t, IsInvalidTokenError(NewInvalidTokenError(nil)))
}
