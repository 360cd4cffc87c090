package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrTimeout: the exchange exceeded the configured request timeout.
	ErrTimeout = errors.New("request timed out")
	// ErrNetwork: the transport failed before any response was received.
	ErrNetwork = errors.New("network error")
	// ErrUnauthorized: the server answered 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation: the server answered 422 with field-level messages.
	ErrValidation = errors.New("validation error")
	// ErrNotFound: the server answered 404.
	ErrNotFound = errors.New("not found")
	// ErrApplication: any other non-2xx answer.
	ErrApplication = errors.New("application error")

	// ErrNoRefreshToken: a refresh was requested but no refresh token is stored.
	ErrNoRefreshToken = errors.New("no refresh token")
)

// FieldError is one entry of a 422 validation body.
type FieldError struct {
	Loc  []any  `json:"loc,omitempty"`
	Msg  string `json:"msg"`
	Type string `json:"type,omitempty"`
}

// APIError is a non-2xx response. errors.Is matches it against the sentinel
// for its status (ErrUnauthorized, ErrValidation, ErrNotFound or
// ErrApplication).
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrApplication
	}
}

func newAPIError(status int, fields []FieldError, message string) *APIError {
	if len(fields) > 0 {
		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			if f.Msg != "" {
				msgs = append(msgs, f.Msg)
			}
		}
		if len(msgs) > 0 {
			message = strings.Join(msgs, ", ")
		}
	}
	if message == "" {
		if text := http.StatusText(status); text != "" {
			message = text
		} else {
			message = fmt.Sprintf("request failed with status %d", status)
		}
	}
	return &APIError{Status: status, Message: message, Fields: fields}
}
