package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches a StatusError carrying 401 or 403.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMalformed is wrapped when a response body cannot be decoded or
	// lacks a required field.
	ErrMalformed = errors.New("malformed response")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("service returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("service returned %d %s", e.Code, http.StatusText(e.Code))
}

// Is reports whether target is ErrUnauthorized and the code is 401 or 403.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden)
}
