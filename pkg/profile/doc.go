// Package profile exposes the public view of an account.
//
// Summary is the only shape of a user record that ever leaves the service:
// it carries no password hash and no pending challenge.
package profile
