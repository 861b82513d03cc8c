package catalog

import (
	"errors"
	"fmt"
)

// ErrTransport marks failures where no HTTP response was received: dial errors,
// timeouts, an open circuit breaker.
var ErrTransport = errors.New("catalog transport failure")

var (
	ErrNotFound      = errors.New("product not found")
	ErrEmptyResponse = errors.New("empty response body")
)

// HTTPError is returned for any non-2xx response from the catalog API.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: request failed with status code %d", e.Method, e.Path, e.StatusCode)
}

// callerDoneError marks a transport failure caused by the caller's context ending,
// not by the remote API.
type callerDoneError struct {
	err error
}

func (e *callerDoneError) Error() string { return e.err.Error() }

func (e *callerDoneError) Unwrap() error { return e.err }
