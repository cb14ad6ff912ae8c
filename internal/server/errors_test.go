package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: &ErrValidation{Field: "recipientEmail", Message: "is required"}, want: http.StatusBadRequest},
		{name: "wrapped validation", err: fmt.Errorf("decode: %w", &ErrValidation{Message: "x"}), want: http.StatusBadRequest},
		{name: "body too large", err: &http.MaxBytesError{Limit: 10}, want: http.StatusBadRequest},
		{name: "provider", err: &ErrProviderUnavailable{Provider: "smtp", Cause: errors.New("535 auth failed")}, want: http.StatusInternalServerError},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage_HidesCauses(t *testing.T) {
	err := &ErrProviderUnavailable{Provider: "smtp", Cause: errors.New("535 5.7.8 Username and Password not accepted for ana@example.com")}
	msg := publicMessage(err)
	assert.Equal(t, "could not deliver email: smtp unavailable", msg)
	assert.NotContains(t, msg, "ana@example.com")

	assert.Equal(t, "internal server error", publicMessage(errors.New("db password leaked")))
	assert.Equal(t, "validation error: companyName - is required", publicMessage(&ErrValidation{Field: "companyName", Message: "is required"}))
}

func TestErrProviderUnavailable_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &ErrProviderUnavailable{Provider: "smtp", Cause: cause}
	assert.ErrorIs(t, err, cause)
}
