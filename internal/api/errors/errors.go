// Package errors defines the API's wire-level error envelope and its mapping
// from pipeline stage errors to HTTP statuses.
package errors

import (
	stderrors "errors"
	"net/http"

	"podscribe/internal/stage"
)

// APIError is the structured error body returned to clients.
type APIError struct {
	Kind      string            `json:"kind"`
	Stage     string            `json:"stage,omitempty"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status code for the error kind.
func (e *APIError) HTTPStatus() int {
	switch stage.Kind(e.Kind) {
	case stage.KindInvalidURL:
		return http.StatusBadRequest
	case stage.KindNotFound, stage.KindNoFeedFound:
		return http.StatusNotFound
	case stage.KindNoMatch, stage.KindResourceTooLarge:
		return http.StatusUnprocessableEntity
	case stage.KindTimeout:
		return http.StatusGatewayTimeout
	case stage.KindAuth, stage.KindDownload, stage.KindTranscription:
		return http.StatusBadGateway
	case stage.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromError converts any error into an APIError. Stage errors keep their
// kind, stage and details; anything else becomes an opaque internal error.
func FromError(err error) *APIError {
	var se *stage.Error
	if stderrors.As(err, &se) {
		return &APIError{
			Kind:    string(se.Kind),
			Stage:   string(se.Stage),
			Message: se.Message,
			Details: se.Details,
		}
	}
	return &APIError{
		Kind:    "internal",
		Message: "Internal server error",
	}
}

// NewBadRequestError creates an invalid-input error for request parsing
// failures that never reach the pipeline.
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    string(stage.KindInvalidURL),
		Message: message,
	}
}
