// Package account registers users and opens and closes their sessions.
//
// Login never reveals whether an email is registered: an unknown address and a
// wrong password produce the same INVALID_CREDENTIALS error, and both paths run
// a password hash comparison.
package account
