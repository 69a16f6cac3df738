package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Errors raised while talking to the projects backend.
var (
	ErrServiceUnreachable = errors.New("service unreachable")
	ErrRemoteStatus       = errors.New("unexpected response status")
	ErrBadResponse        = errors.New("unreadable backend response")
	ErrPartialFailure     = errors.New("partial failure")
	ErrSubmissionInFlight = errors.New("submission already in progress")
)

const maxDetailsBody = 512

// NewTransportError wraps a failure that happened before any response arrived
// (DNS, TLS, timeout, connection reset).
func NewTransportError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnreachable,
		Details:    fmt.Sprintf("Failed to %s", operation),
		Cause:      cause,
	}
}

// NewRemoteStatusError carries the upstream status and a trimmed copy of its body.
func NewRemoteStatusError(operation string, statusCode int, body string) *ApiErr {
	body = strings.TrimSpace(body)
	if len(body) > maxDetailsBody {
		body = truncateUTF8(body, maxDetailsBody) + "..."
	}
	details := fmt.Sprintf("Failed to %s: status %d", operation, statusCode)
	if body != "" {
		details = fmt.Sprintf("%s (%s)", details, body)
	}
	return &ApiErr{
		StatusCode: statusCode,
		err:        ErrRemoteStatus,
		Details:    details,
	}
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// NewBadResponseError reports a 2xx response whose body does not match the contract.
func NewBadResponseError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrBadResponse,
		Details:    fmt.Sprintf("Failed to %s", operation),
		Cause:      cause,
	}
}

// NewPartialFailureError reports that the project fields were saved but the
// follow-up video upload failed.
func NewPartialFailureError(projectID int64, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusMultiStatus,
		err:        ErrPartialFailure,
		Details:    fmt.Sprintf("project %d saved, video upload failed", projectID),
		Field:      "video",
		Cause:      cause,
	}
}

func NewSubmissionInFlightError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrSubmissionInFlight,
	}
}

// RemoteStatus returns the upstream status code of a non-2xx response error.
func RemoteStatus(err error) (int, bool) {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) && errors.Is(apiErr.err, ErrRemoteStatus) {
		return apiErr.StatusCode, true
	}
	return 0, false
}

func IsServiceUnreachable(err error) bool {
	return errors.Is(err, ErrServiceUnreachable)
}

func IsRemoteStatusError(err error) bool {
	return errors.Is(err, ErrRemoteStatus)
}

func IsBadResponse(err error) bool {
	return errors.Is(err, ErrBadResponse)
}

func IsPartialFailure(err error) bool {
	return errors.Is(err, ErrPartialFailure)
}

func IsSubmissionInFlight(err error) bool {
	return errors.Is(err, ErrSubmissionInFlight)
}
