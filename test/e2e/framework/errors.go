package framework

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrEnvironmentUnavailable wraps transport failures: the target could not be reached at all.
	ErrEnvironmentUnavailable = errors.New("environment unavailable")
	// ErrAuthenticationFailed is returned by Request when no token was supplied and login failed.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrAutomationTimeout is returned when a browser wait exceeds its bound.
	ErrAutomationTimeout = errors.New("browser automation timed out")
	// ErrSessionClosed is returned by operations on a closed or never launched browser or page.
	ErrSessionClosed = errors.New("browser session closed")
	// ErrLogoutUnsupported is returned by Logout when the target has no logout endpoint.
	ErrLogoutUnsupported = errors.New("logout not supported by target")
)

// StatusError reports an HTTP status a typed helper did not expect.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}

	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, body)
}

func newStatusError(op string, resp *Response) *StatusError {
	return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(resp.Body)}
}

func statusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}

	return 0
}

// IsUnauthorized reports a 401 from the target.
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsValidationError reports a 400 from the target.
func IsValidationError(err error) bool {
	return statusOf(err) == http.StatusBadRequest
}

// IsNotFound reports a 404 from the target.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsDependencyUnavailable reports a 503, e.g. the target's database being down.
func IsDependencyUnavailable(err error) bool {
	return statusOf(err) == http.StatusServiceUnavailable
}
