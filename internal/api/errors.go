package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

func NewAPIError(errType ErrorType, message string, cause error) *APIError {
	return &APIError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

func NewNetworkError(message string, cause error) *APIError {
	return NewAPIError(ErrNetworkConnection, message, cause)
}

func NewTimeoutError(operation string, cause error) *APIError {
	return NewAPIError(ErrTimeout, fmt.Sprintf("%s timed out", operation), cause)
}

func NewDecodeError(what string, cause error) *APIError {
	return NewAPIError(ErrDecode, fmt.Sprintf("failed to decode %s", what), cause)
}

// NewStatusError builds an error from a non-2xx response. message is the server's
// own explanation when one was sent.
func NewStatusError(status int, message string) *APIError {
	var errType ErrorType
	switch {
	case status == http.StatusBadRequest:
		errType = ErrBadRequest
	case status == http.StatusUnauthorized:
		errType = ErrUnauthorized
	case status == http.StatusForbidden:
		errType = ErrForbidden
	case status == http.StatusNotFound:
		errType = ErrNotFound
	case status == http.StatusConflict:
		errType = ErrConflict
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		errType = ErrTimeout
	default:
		errType = ErrServer
	}

	if message == "" {
		message = http.StatusText(status)
	}

	return &APIError{
		Type:    errType,
		Message: message,
		Status:  status,
	}
}

// ClassifyError maps a transport error onto an APIError.
func ClassifyError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError("request", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError("request", err)
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded"):
		return NewTimeoutError("request", err)
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host"):
		return NewNetworkError("connection failed", err)
	default:
		return NewNetworkError("request failed", err)
	}
}

// IsType reports whether err is an APIError of the given type.
func IsType(err error, errType ErrorType) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == errType
}

func (e *APIError) IsRetryable() bool {
	switch e.Type {
	case ErrNetworkConnection, ErrTimeout, ErrServer:
		return true
	default:
		return false
	}
}

func (e *APIError) IsAuthError() bool {
	return e.Type == ErrUnauthorized || e.Type == ErrForbidden || e.Type == ErrNotAuthenticated
}

func (e *APIError) UserMessage() string {
	switch e.Type {
	case ErrNetworkConnection:
		return "Could not reach the server. Please check your connection."
	case ErrUnauthorized:
		return "Session expired. Please login again."
	case ErrForbidden:
		return "Access denied. Please logout and login again."
	case ErrNotAuthenticated:
		return "Authentication token not found. Please login again."
	case ErrBadRequest:
		if e.Message != "" && e.Message != http.StatusText(http.StatusBadRequest) {
			return e.Message
		}
		return "The request was invalid."
	case ErrNotFound:
		return "The requested item no longer exists."
	case ErrConflict:
		return "This item already exists."
	case ErrTimeout:
		return "Request timed out. Please try again."
	case ErrDecode:
		return "The server sent an unexpected response."
	default:
		return "Server error. Please try again later."
	}
}

// UserMessage returns a friendly message for any error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return ClassifyError(err).UserMessage()
}
