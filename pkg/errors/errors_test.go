package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	t.Run("WithoutCause", func(t *testing.T) {
		err := New(ErrCodeNotFound, "user not found")
		assert.Equal(t, "[NOT_FOUND] user not found", err.Error())
	})

	t.Run("WithCause", func(t *testing.T) {
		err := Wrap(errors.New("connection refused"), ErrCodeInternal, "failed to load user")
		assert.Equal(t, "[INTERNAL_ERROR] failed to load user: connection refused", err.Error())
	})
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "nothing"))
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(ErrCodeOtpExpired, "OTP expired"))
	assert.True(t, IsCode(err, ErrCodeOtpExpired))
	assert.False(t, IsCode(err, ErrCodeOtpInvalid))
	assert.False(t, IsCode(errors.New("plain"), ErrCodeOtpExpired))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeConflict, GetCode(Conflict("User already exists")))
	assert.Equal(t, ErrCodeInternal, GetCode(errors.New("plain")))
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	sentinel := New(ErrCodeOtpInvalid, "Invalid OTP")
	err := fmt.Errorf("confirm: %w", New(ErrCodeOtpInvalid, "Invalid OTP"))
	assert.True(t, errors.Is(err, sentinel))
	assert.False(t, errors.Is(err, New(ErrCodeOtpExpired, "OTP expired")))
}

func TestPublicMessage(t *testing.T) {
	t.Run("InternalIsMasked", func(t *testing.T) {
		err := InternalWrap(errors.New("pq: relation users does not exist"), "failed to create user")
		assert.Equal(t, "Internal server error", err.PublicMessage())
	})

	t.Run("BusinessMessageIsKept", func(t *testing.T) {
		err := New(ErrCodeOtpExpired, "OTP expired")
		assert.Equal(t, "OTP expired", err.PublicMessage())
	})
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	structured := New(ErrCodeNotFound, "user not found")
	assert.Same(t, structured, From(fmt.Errorf("wrapped: %w", structured)))

	converted := From(errors.New("boom"))
	assert.Equal(t, ErrCodeInternal, converted.Code)
	assert.EqualError(t, converted.Unwrap(), "boom")
}

func TestMapErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeOtpInvalid, http.StatusBadRequest},
		{ErrCodeOtpExpired, http.StatusBadRequest},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeEmailAlreadyVerified, http.StatusConflict},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorCodeToHTTPStatus(tt.code))
		})
	}
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("email", "must be a valid address")
	assert.Equal(t, ErrCodeValidationFailed, err.Code)
	assert.Equal(t, "invalid email: must be a valid address", err.Message)
	assert.Equal(t, "email", err.Details["field"])
}
