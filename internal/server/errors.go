package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrProviderUnavailable indicates an upstream provider (the SMTP relay) could not serve the request.
// Cause is logged but never returned to the client.
type ErrProviderUnavailable struct {
	Provider string
	Cause    error
}

func (e *ErrProviderUnavailable) Error() string {
	return fmt.Sprintf("%s unavailable", e.Provider)
}

func (e *ErrProviderUnavailable) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var providerErr *ErrProviderUnavailable
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &maxBytesErr):
		return http.StatusBadRequest
	case errors.As(err, &providerErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the message that may be shown to a client for err.
func publicMessage(err error) string {
	var validationErr *ErrValidation
	var providerErr *ErrProviderUnavailable
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &maxBytesErr):
		return fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit)
	case errors.As(err, &providerErr):
		return fmt.Sprintf("could not deliver email: %s unavailable", providerErr.Provider)
	default:
		return "internal server error"
	}
}

// validationError converts a validator error into an *ErrValidation naming the first failing field.
func validationError(err error) *ErrValidation {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: describeTag(ve.Tag(), ve.Param())}
	}
	return &ErrValidation{Message: "invalid request"}
}

func describeTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "max":
		return fmt.Sprintf("must be at most %s characters", param)
	case "oneof":
		return fmt.Sprintf("must be one of: %s", param)
	default:
		return tag
	}
}
