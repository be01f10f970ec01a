package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
)

// FlashcardSetPatch lists the set fields an update may change.
type FlashcardSetPatch struct {
	Title *string
}

// FlashcardSetStore defines the interface for flashcard set persistence.
type FlashcardSetStore interface {
	// Create saves a new flashcard set to the store.
	Create(ctx context.Context, set *domain.FlashcardSet) error

	// GetByID retrieves a set by its unique ID.
	// Returns ErrSetNotFound if the set does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FlashcardSet, error)

	// GetByPublicID retrieves a set by its public share slug.
	// Returns ErrSetNotFound if the set does not exist.
	GetByPublicID(ctx context.Context, publicID string) (*domain.FlashcardSet, error)

	// Update applies the patch to an existing set and refreshes the
	// updated-at timestamp.
	// Returns the merged set, or ErrSetNotFound if the ID is absent.
	Update(ctx context.Context, id uuid.UUID, patch FlashcardSetPatch) (*domain.FlashcardSet, error)

	// Delete removes a set from the store by its ID. Cards in the set are
	// removed with it (by CASCADE in the Postgres backend, explicitly in
	// the memory backend).
	// Returns ErrSetNotFound if the set does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByUserID returns all sets owned by the given user.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.FlashcardSet, error)

	// ListByDocumentID returns all sets generated from the given document.
	ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*domain.FlashcardSet, error)

	// AdjustCardCount adds delta (which may be negative) to the set's card
	// count and refreshes the updated-at timestamp.
	// Returns ErrSetNotFound if the set does not exist.
	AdjustCardCount(ctx context.Context, id uuid.UUID, delta int) error

	// WithTx returns a FlashcardSetStore that runs its operations on the
	// given transaction.
	WithTx(tx *sql.Tx) FlashcardSetStore
}

// FlashcardPatch lists the card fields an update may change. SetID is
// immutable and review state is written through SaveReview, not patched.
type FlashcardPatch struct {
	Question   *string
	Answer     *string
	Difficulty *domain.Difficulty
}

// FlashcardStore defines the interface for flashcard persistence.
type FlashcardStore interface {
	// Create saves a new flashcard to the store. The owning set must exist;
	// referential integrity is enforced by the Postgres backend and is the
	// caller's responsibility on the memory backend.
	Create(ctx context.Context, card *domain.Flashcard) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// Update applies the patch to an existing card and refreshes the
	// updated-at timestamp. Fields absent from the patch are preserved.
	// Returns the merged card, or ErrCardNotFound if the ID is absent.
	Update(ctx context.Context, id uuid.UUID, patch FlashcardPatch) (*domain.Flashcard, error)

	// SaveReview persists a card's scheduling fields (difficulty, last
	// reviewed, next review, repetitions) in a single write.
	// Returns ErrCardNotFound if the card does not exist.
	SaveReview(ctx context.Context, card *domain.Flashcard) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListBySetID returns all cards in the given set.
	ListBySetID(ctx context.Context, setID uuid.UUID) ([]*domain.Flashcard, error)

	// GetNextDue returns the card owned by the given user whose next
	// review is earliest and not after now. Unseen cards are always due.
	// Returns ErrCardNotFound if no card is due.
	GetNextDue(ctx context.Context, userID uuid.UUID) (*domain.Flashcard, error)

	// WithTx returns a FlashcardStore that runs its operations on the
	// given transaction.
	WithTx(tx *sql.Tx) FlashcardStore
}
