package recovery

import apperrors "github.com/tendant/simple-account/pkg/errors"

var (
	// ErrEmailRequired is returned when a reset is requested without an email.
	ErrEmailRequired = apperrors.ValidationFailed("Email is required")

	// ErrMissingFields is returned when a reset is confirmed with a blank field.
	ErrMissingFields = apperrors.ValidationFailed("Email, OTP and new password are required")

	// ErrPasswordTooLong is returned when the hasher cannot accept the new password.
	ErrPasswordTooLong = apperrors.ValidationFailed("Password is too long")

	// ErrUserNotFound is returned for an unknown email unless masking is enabled.
	ErrUserNotFound = apperrors.NotFound("User")
)
