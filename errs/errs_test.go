package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDatabaseErrorClassifiesCause(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		is     error
		status int
	}{
		{"duplicate key", errors.New(`ERROR: duplicate key value violates unique constraint "users_pkey"`), ErrAlreadyExists, http.StatusConflict},
		{"record not found", errors.New("record not found"), ErrNotFound, http.StatusNotFound},
		{"connection", errors.New("failed to connect: connection refused"), ErrDatabaseConnection, http.StatusServiceUnavailable},
		{"anything else", errors.New("syntax error at or near"), ErrDatabaseQuery, http.StatusInternalServerError},
		{"already classified", NewNotFound("blog post"), ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("load", "blog post", tt.cause)

			assert.ErrorIs(t, err, tt.is)
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestErrorsIsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", NewEmailInUseError("ann@x.com"))

	assert.True(t, IsEmailInUseError(wrapped))
	assert.False(t, IsWeakPasswordError(wrapped))
	assert.Equal(t, http.StatusConflict, StatusCode(wrapped))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("plain")))
}

func TestSessionErrors(t *testing.T) {
	assert.True(t, IsExpiredTokenError(NewExpiredTokenError(errors.New("exp"))))
	assert.True(t, IsInvalidTokenError(NewInvalidTokenError(errors.New("sig"))))
	assert.True(t, IsMissingTokenError(NewMissingTokenError()))
	assert.False(t, IsExpiredTokenError(NewInvalidTokenError(nil)))
}

func TestGetFullErrorFollowsCauses(t *testing.T) {
	inner := NewInternalErrorWithCause("upload", errors.New("bucket gone"))
	outer := NewImageUploadError("blog-images/a.png", inner)

	full := outer.GetFullError()
	assert.Contains(t, full, "bucket gone")
	assert.Contains(t, full, "upload")
}

func TestConfigErrors(t *testing.T) {
	assert.True(t, IsConfigError(NewConfigError("JWT_SECRET", nil)))
	assert.True(t, IsConfigError(NewInvalidConfigError("DB_TYPE", "oracle")))
	assert.False(t, IsConfigError(NewBadRequestError("nope")))
}

func TestValidationErrorsCarryField(t *testing.T) {
	assert.Equal(t, "name", NewMissingRequiredFieldError("name").Field)
	assert.Equal(t, "confirmPassword", NewPasswordMismatchError().Field)
	assert.ErrorIs(t, NewPasswordTooShortError(6), ErrPasswordTooShort)
}
