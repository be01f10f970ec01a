package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
)

// QuizPatch lists the quiz fields an update may change. Questions are
// replaced wholesale, never merged element by element.
type QuizPatch struct {
	Title     *string
	Questions json.RawMessage
}

// QuizStore defines the interface for quiz data persistence.
type QuizStore interface {
	// Create saves a new quiz to the store.
	Create(ctx context.Context, quiz *domain.Quiz) error

	// GetByID retrieves a quiz by its unique ID.
	// Returns ErrQuizNotFound if the quiz does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error)

	// Update applies the patch to an existing quiz and refreshes the
	// updated-at timestamp.
	// Returns the merged quiz, or ErrQuizNotFound if the ID is absent.
	Update(ctx context.Context, id uuid.UUID, patch QuizPatch) (*domain.Quiz, error)

	// Delete removes a quiz from the store by its ID.
	// Returns ErrQuizNotFound if the quiz does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByUserID returns all quizzes owned by the given user.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Quiz, error)

	// ListByDocumentID returns all quizzes generated from the given document.
	ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*domain.Quiz, error)

	// WithTx returns a QuizStore that runs its operations on the given
	// transaction.
	WithTx(tx *sql.Tx) QuizStore
}

// QuizAttemptStore defines the interface for quiz attempt persistence.
// Attempts are append-only: they are never updated or deleted.
type QuizAttemptStore interface {
	// Create saves a new quiz attempt to the store.
	Create(ctx context.Context, attempt *domain.QuizAttempt) error

	// GetByID retrieves an attempt by its unique ID.
	// Returns ErrAttemptNotFound if the attempt does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.QuizAttempt, error)

	// ListByQuizID returns all attempts recorded against the given quiz.
	ListByQuizID(ctx context.Context, quizID uuid.UUID) ([]*domain.QuizAttempt, error)

	// ListByUserID returns all attempts made by the given user.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.QuizAttempt, error)

	// WithTx returns a QuizAttemptStore that runs its operations on the
	// given transaction.
	WithTx(tx *sql.Tx) QuizAttemptStore
}
