package user

import (
	"context"

	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

type Repository interface {
	// Create stores a new user; a duplicate email returns ErrEmailTaken
	Create(ctx context.Context, u *User) error

	// Update overwrites the mutable fields of a user
	Update(ctx context.Context, u *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id kernel.UserID) (*User, error)

	// GetByEmail retrieves a user by normalized email
	GetByEmail(ctx context.Context, email kernel.Email) (*User, error)
}
