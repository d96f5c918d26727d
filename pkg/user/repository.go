package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists users.
type Repository interface {
	// Create inserts a new record. An existing email yields ErrEmailTaken.
	Create(ctx context.Context, params CreateParams) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	// GetByEmail matches the email exactly as stored.
	GetByEmail(ctx context.Context, email string) (User, error)
	// Update reads the record, applies fn and writes the result as one atomic
	// step. No concurrent write to the same record can interleave.
	Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (User, error)
}
