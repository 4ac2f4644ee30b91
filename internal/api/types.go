package api

import (
	"time"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type ErrorType string

const (
	ErrNetworkConnection ErrorType = "network_connection"
	ErrUnauthorized      ErrorType = "unauthorized"
	ErrForbidden         ErrorType = "forbidden"
	ErrBadRequest        ErrorType = "bad_request"
	ErrNotFound          ErrorType = "not_found"
	ErrConflict          ErrorType = "conflict"
	ErrServer            ErrorType = "server"
	ErrTimeout           ErrorType = "timeout"
	ErrDecode            ErrorType = "decode"
	ErrNotAuthenticated  ErrorType = "not_authenticated"
)

type APIError struct {
	Type    ErrorType
	Message string
	Status  int
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// errorBody is the JSON error shape returned by the backend.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
