package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
)

// UserPatch lists the user fields an update may change. Nil fields are left
// untouched; non-nil fields overwrite the stored value.
type UserPatch struct {
	Email          *string
	HashedPassword *string
}

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry a
	// hashed password.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update applies the patch to an existing user and refreshes the
	// updated-at timestamp. Fields absent from the patch are preserved.
	// Returns the merged user, or ErrUserNotFound if the ID is absent.
	// Returns ErrEmailExists when changing to an email already in use.
	Update(ctx context.Context, id uuid.UUID, patch UserPatch) (*domain.User, error)

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore that runs its operations on the given
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}
