// Package user stores account records and applies atomic transitions to them.
package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-account/pkg/otp"
)

// User is a registered account.
type User struct {
	ID              uuid.UUID      `json:"id"`
	Email           string         `json:"email"`
	Name            string         `json:"name"`
	PasswordHash    string         `json:"password_hash"`
	IsVerified      bool           `json:"is_verified"`
	VerifyChallenge *otp.Challenge `json:"verify_challenge,omitempty"`
	ResetChallenge  *otp.Challenge `json:"reset_challenge,omitempty"`
	Version         int64          `json:"version"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// CreateParams holds the fields of a new account.
type CreateParams struct {
	Email        string
	Name         string
	PasswordHash string
}

// UpdateFunc computes the next state of a record from its current state.
// Returning an error aborts the update without writing. Stores may call it
// more than once, so it must not have side effects.
type UpdateFunc func(current User) (User, error)

// settle copies the fields a transition may not change from current onto
// next and stamps the new version.
func settle(current, next User, now time.Time) User {
	next.ID = current.ID
	next.Email = current.Email
	next.CreatedAt = current.CreatedAt
	next.Version = current.Version + 1
	next.UpdatedAt = now
	// verification never goes back
	if current.IsVerified {
		next.IsVerified = true
	}
	return next
}

func newUser(p CreateParams, now time.Time) User {
	return User{
		ID:           uuid.New(),
		Email:        p.Email,
		Name:         p.Name,
		PasswordHash: p.PasswordHash,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
