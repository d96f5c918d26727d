// Package verification proves ownership of an account's email address with a
// six digit one-time passcode.
//
// Requesting a code replaces any pending one, so only the most recent code is
// accepted. Confirming checks and consumes the code in a single atomic update
// of the user record, which makes every code single-use.
package verification
