package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is returned when a request could not complete or the service
// answered with a non-success status. StatusCode is zero for network
// failures and timeouts.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a transport error for a 404 response
func IsNotFound(err error) bool {
	var terr *Error
	return errors.As(err, &terr) && terr.StatusCode == http.StatusNotFound
}
