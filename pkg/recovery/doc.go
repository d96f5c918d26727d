// Package recovery resets a forgotten password with a one-time passcode sent
// to the account's email address.
//
// A successful reset replaces the password hash, consumes the code and revokes
// every session token issued to the account before the reset.
package recovery
