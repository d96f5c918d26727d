package account

import apperrors "github.com/tendant/simple-account/pkg/errors"

var (
	// ErrMissingDetails is returned when a registration field is blank.
	ErrMissingDetails = apperrors.ValidationFailed("Missing Details")

	// ErrMissingCredentials is returned when login is attempted without email or password.
	ErrMissingCredentials = apperrors.ValidationFailed("Email and password are required")

	// ErrPasswordTooLong is returned when the hasher cannot accept the password.
	ErrPasswordTooLong = apperrors.ValidationFailed("Password is too long")

	// ErrUserExists is returned when the email is already registered.
	ErrUserExists = apperrors.Conflict("User already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = apperrors.New(apperrors.ErrCodeInvalidCredentials, "Invalid email or password")
)
