package client

import (
	"errors"
	"fmt"
	"net/http"
)

// BackendRejectedError is returned when the backend answers with a
// non-success status.
type BackendRejectedError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *BackendRejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: backend returned %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: backend returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// NetworkError is returned when a request could not complete or its
// response could not be decoded.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var rejected *BackendRejectedError
	return errors.As(err, &rejected) && rejected.StatusCode == http.StatusNotFound
}
