package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
)

// ChatMessageStore defines the interface for chat message persistence.
// Messages are an append-only conversation log.
type ChatMessageStore interface {
	// Create saves a new chat message to the store.
	Create(ctx context.Context, msg *domain.ChatMessage) error

	// GetByID retrieves a message by its unique ID.
	// Returns ErrMessageNotFound if the message does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChatMessage, error)

	// ListByUserID returns all messages sent or received by the given user.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.ChatMessage, error)

	// ListByDocumentID returns the conversation held over the given document.
	ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*domain.ChatMessage, error)

	// WithTx returns a ChatMessageStore that runs its operations on the
	// given transaction.
	WithTx(tx *sql.Tx) ChatMessageStore
}
