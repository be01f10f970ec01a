package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
	"github.com/mhollis/cram-api/internal/platform/logger"
	"github.com/mhollis/cram-api/internal/store"
)

// FlashcardStore implements store.FlashcardStore against PostgreSQL.
type FlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewFlashcardStore creates a PostgreSQL implementation of store.FlashcardStore.
func NewFlashcardStore(db store.DBTX, logger *slog.Logger) *FlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure FlashcardStore implements store.FlashcardStore
var _ store.FlashcardStore = (*FlashcardStore)(nil)

const cardColumns = "id, set_id, question, answer, difficulty, last_reviewed, next_review, repetitions, easiness_factor, created_at, updated_at"

// Create implements store.FlashcardStore.Create. A missing owning set
// surfaces as store.ErrInvalidEntity via the foreign key constraint.
func (s *FlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("flashcard validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO flashcards (id, set_id, question, answer, difficulty, last_reviewed, next_review, repetitions, easiness_factor, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		card.ID, card.SetID, card.Question, card.Answer, card.Difficulty,
		card.LastReviewed, card.NextReview, card.Repetitions, card.EasinessFactor,
		card.CreatedAt, card.UpdatedAt)
	if err != nil {
		log.Error("failed to create flashcard",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()),
			slog.String("set_id", card.SetID.String()))
		return mapError(err, store.ErrCardNotFound)
	}
	return nil
}

// GetByID implements store.FlashcardStore.GetByID.
func (s *FlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	query := `SELECT ` + cardColumns + ` FROM flashcards WHERE id = $1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, store.ErrCardNotFound)
	}
	return card, nil
}

// Update implements store.FlashcardStore.Update. Review state is written
// through SaveReview, not here.
func (s *FlashcardStore) Update(ctx context.Context, id uuid.UUID, patch store.FlashcardPatch) (*domain.Flashcard, error) {
	if patch.Difficulty != nil && !domain.IsValidDifficulty(*patch.Difficulty) {
		return nil, domain.ErrInvalidDifficulty
	}

	builder := sqlBuilder.Update("flashcards").
		Set("updated_at", time.Now().UTC()).
		Where("id = ?", id).
		Suffix("RETURNING " + cardColumns)

	if patch.Question != nil {
		builder = builder.Set("question", *patch.Question)
	}
	if patch.Answer != nil {
		builder = builder.Set("answer", *patch.Answer)
	}
	if patch.Difficulty != nil {
		builder = builder.Set("difficulty", *patch.Difficulty)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	card, err := scanCard(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, store.ErrCardNotFound)
	}
	return card, nil
}

// SaveReview implements store.FlashcardStore.SaveReview. All scheduling
// fields are written in one statement.
func (s *FlashcardStore) SaveReview(ctx context.Context, card *domain.Flashcard) error {
	query := `
		UPDATE flashcards
		SET difficulty = $2, last_reviewed = $3, next_review = $4,
		    repetitions = $5, easiness_factor = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		card.ID, card.Difficulty, card.LastReviewed, card.NextReview,
		card.Repetitions, card.EasinessFactor, card.UpdatedAt)
	if err != nil {
		return mapError(err, store.ErrCardNotFound)
	}
	return rowsAffectedOrNotFound(res, store.ErrCardNotFound)
}

// Delete implements store.FlashcardStore.Delete.
func (s *FlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = $1`, id)
	if err != nil {
		return mapError(err, store.ErrCardNotFound)
	}
	return rowsAffectedOrNotFound(res, store.ErrCardNotFound)
}

// ListBySetID implements store.FlashcardStore.ListBySetID.
func (s *FlashcardStore) ListBySetID(ctx context.Context, setID uuid.UUID) ([]*domain.Flashcard, error) {
	query, args, err := sqlBuilder.
		Select("id", "set_id", "question", "answer", "difficulty", "last_reviewed",
			"next_review", "repetitions", "easiness_factor", "created_at", "updated_at").
		From("flashcards").
		Where("set_id = ?", setID).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, store.ErrCardNotFound)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Flashcard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, rows.Err()
}

// GetNextDue implements store.FlashcardStore.GetNextDue. Unseen cards
// (next_review IS NULL) sort before scheduled ones.
func (s *FlashcardStore) GetNextDue(ctx context.Context, userID uuid.UUID) (*domain.Flashcard, error) {
	query := `
		SELECT c.id, c.set_id, c.question, c.answer, c.difficulty, c.last_reviewed,
		       c.next_review, c.repetitions, c.easiness_factor, c.created_at, c.updated_at
		FROM flashcards c
		JOIN flashcard_sets s ON s.id = c.set_id
		WHERE s.user_id = $1
		  AND (c.next_review IS NULL OR c.next_review <= $2)
		ORDER BY c.next_review ASC NULLS FIRST, c.created_at ASC
		LIMIT 1
	`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, userID, time.Now().UTC()))
	if err != nil {
		return nil, mapError(err, store.ErrCardNotFound)
	}
	return card, nil
}

// WithTx implements store.FlashcardStore.WithTx.
func (s *FlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &FlashcardStore{db: tx, logger: s.logger}
}

func scanCard(row rowScanner) (*domain.Flashcard, error) {
	var card domain.Flashcard
	var lastReviewed, nextReview sql.NullTime
	err := row.Scan(&card.ID, &card.SetID, &card.Question, &card.Answer,
		&card.Difficulty, &lastReviewed, &nextReview, &card.Repetitions,
		&card.EasinessFactor, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastReviewed.Valid {
		t := lastReviewed.Time.UTC()
		card.LastReviewed = &t
	}
	if nextReview.Valid {
		t := nextReview.Time.UTC()
		card.NextReview = &t
	}
	return &card, nil
}
