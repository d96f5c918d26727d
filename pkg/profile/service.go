package profile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/user"
)

// ErrUserNotFound is returned when the session refers to a deleted or unknown account.
var ErrUserNotFound = apperrors.NotFound("User")

// Summary is the client-facing view of a user.
type Summary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
}

// NewSummary copies the public fields of u.
func NewSummary(u user.User) Summary {
	var s Summary
	if err := copier.Copy(&s, &u); err != nil {
		// copier only fails on nil or mismatched kinds
		slog.Error("Failed to copy user summary", "user_id", u.ID, "error", err)
		return Summary{ID: u.ID, Name: u.Name, Email: u.Email, IsVerified: u.IsVerified}
	}
	return s
}

// ProfileService reads account summaries.
type ProfileService struct {
	repo user.Repository
}

// NewProfileService creates a new ProfileService
func NewProfileService(repo user.Repository) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetProfile returns the summary of the user.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (Summary, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Summary{}, ErrUserNotFound
		}
		return Summary{}, apperrors.InternalWrap(err, "failed to load user")
	}
	return NewSummary(u), nil
}
