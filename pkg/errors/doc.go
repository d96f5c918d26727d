// Package errors provides structured error handling with error codes for simple-account.
//
// Every service returns *Error values carrying an ErrorCode. Handlers translate the
// code into an HTTP status with MapErrorCodeToHTTPStatus and only ever show the
// PublicMessage to callers.
//
// # Basic Usage
//
//	import apperrors "github.com/tendant/simple-account/pkg/errors"
//
//	// Create a simple error
//	err := apperrors.New(apperrors.ErrCodeOtpExpired, "OTP expired")
//
//	// Wrap a collaborator failure; the cause is logged, never returned to clients
//	err := apperrors.InternalWrap(dbErr, "failed to load user")
//
//	// Inspect
//	if apperrors.IsCode(err, apperrors.ErrCodeNotFound) { ... }
//
// # Error Codes
//
//   - ErrCodeValidationFailed      400  missing or malformed input
//   - ErrCodeConflict              409  duplicate email
//   - ErrCodeInvalidCredentials    401  login failure (unknown email and wrong password alike)
//   - ErrCodeUnauthorized          401  missing, invalid, expired or revoked session token
//   - ErrCodeNotFound              404  no matching user
//   - ErrCodeEmailAlreadyVerified  409  verification requested for a verified account
//   - ErrCodeOtpInvalid            400  no pending challenge or code mismatch
//   - ErrCodeOtpExpired            400  code matched but the challenge is past its deadline
//   - ErrCodeInternal              500  unexpected collaborator failure
package errors
