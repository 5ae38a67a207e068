package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable covers requests that never reached the server or got no
	// usable answer (connection refused, timeout, 502/503/504).
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized is matched by 401 and 403 answers.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBadResponse means the server answered 2xx with a body that could not be decoded.
	ErrBadResponse = errors.New("malformed server response")
)

// APIError is a non-2xx answer. Message is the server-provided reason when
// the body carried one, otherwise empty.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Unwrap lets callers match transport classes with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return nil
	}
}

// ServerMessage returns the server-provided reason carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
