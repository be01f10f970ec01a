package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
)

// DocumentPatch lists the document fields an update may change. Nil fields
// are left untouched; non-nil fields overwrite the stored value wholesale.
type DocumentPatch struct {
	Title   *string
	Content *string
}

// DocumentStore defines the interface for document data persistence.
type DocumentStore interface {
	// Create saves a new document to the store.
	Create(ctx context.Context, doc *domain.Document) error

	// GetByID retrieves a document by its unique ID.
	// Returns ErrDocumentNotFound if the document does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)

	// Update applies the patch to an existing document and refreshes the
	// updated-at timestamp. Fields absent from the patch are preserved.
	// Returns the merged document, or ErrDocumentNotFound if the ID is absent.
	Update(ctx context.Context, id uuid.UUID, patch DocumentPatch) (*domain.Document, error)

	// Delete removes a document from the store by its ID.
	// Returns ErrDocumentNotFound if the document does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByUserID returns all documents owned by the given user. The
	// order of the result is unspecified by this contract; implementations
	// document their actual order.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Document, error)

	// WithTx returns a DocumentStore that runs its operations on the given
	// transaction.
	WithTx(tx *sql.Tx) DocumentStore
}
