package verification

import apperrors "github.com/tendant/simple-account/pkg/errors"

var (
	// ErrUserNotFound is returned when the session user no longer exists.
	ErrUserNotFound = apperrors.NotFound("User")

	// ErrMissingOTP is returned when the confirmation carries no code.
	ErrMissingOTP = apperrors.ValidationFailed("Missing Details")

	// ErrAlreadyVerified is returned when requesting a code for a verified account.
	ErrAlreadyVerified = apperrors.New(apperrors.ErrCodeEmailAlreadyVerified, "User already verified")
)
