package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
)

// NotePatch lists the note fields an update may change. Nil fields are left
// untouched; non-nil fields overwrite the stored value wholesale.
type NotePatch struct {
	Title   *string
	Content *string
}

// NoteStore defines the interface for note data persistence.
type NoteStore interface {
	// Create saves a new note to the store.
	Create(ctx context.Context, note *domain.Note) error

	// GetByID retrieves a note by its unique ID.
	// Returns ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)

	// Update applies the patch to an existing note and refreshes the
	// updated-at timestamp. Fields absent from the patch are preserved.
	// Returns the merged note, or ErrNoteNotFound if the ID is absent.
	Update(ctx context.Context, id uuid.UUID, patch NotePatch) (*domain.Note, error)

	// Delete removes a note from the store by its ID.
	// Returns ErrNoteNotFound if the note does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByUserID returns all notes owned by the given user.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error)

	// ListByDocumentID returns all notes derived from the given document.
	ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*domain.Note, error)

	// WithTx returns a NoteStore that runs its operations on the given
	// transaction.
	WithTx(tx *sql.Tx) NoteStore
}
