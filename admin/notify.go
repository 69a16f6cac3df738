package admin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aaronch12Ch/portafolio-sp/errs"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier shows short messages to the admin user.
type Notifier interface {
	Notify(level Level, message string)
}

// Confirmer gates destructive operations.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// CollectingNotifier keeps notifications in memory, for request-scoped shells.
type CollectingNotifier struct {
	mu    sync.Mutex
	items []Notification
}

func (c *CollectingNotifier) Notify(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, Notification{Level: level, Message: message})
}

func (c *CollectingNotifier) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Last returns the most recent notification.
func (c *CollectingNotifier) Last() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return Notification{}, false
	}
	return c.items[len(c.items)-1], true
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Always answers every confirmation with the same value.
type Always bool

func (a Always) Confirm(context.Context, string) (bool, error) {
	return bool(a), nil
}

// Message turns an error into the text shown to the user.
func Message(err error) string {
	var problems errs.ValidationErrors
	switch {
	case err == nil:
		return ""
	case errors.As(err, &problems):
		fields := problems.Fields()
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		return "Please fix the following fields: " + strings.Join(names, ", ")
	case errs.IsPartialFailure(err):
		return "Project saved, but the video upload failed. Try uploading the video again."
	case errs.IsInvalidCredentialsError(err):
		return "Invalid email or password"
	case errs.IsMissingTokenError(err), errs.IsInvalidTokenError(err):
		return "Your session is not valid, please log in again"
	case errs.IsInsufficientRoleError(err):
		return "Access denied: administrator role required"
	case errs.IsSubmissionInFlight(err):
		return "A submission is already in progress"
	case errs.IsServiceUnreachable(err):
		return "Could not reach the server, please try again later"
	case errs.IsNotFound(err):
		return "Project not found"
	}
	if status, ok := errs.RemoteStatus(err); ok {
		return fmt.Sprintf("The server rejected the request (status %d)", status)
	}
	return "Something went wrong: " + err.Error()
}
