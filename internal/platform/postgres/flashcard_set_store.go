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

// FlashcardSetStore implements store.FlashcardSetStore against PostgreSQL.
type FlashcardSetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewFlashcardSetStore creates a PostgreSQL implementation of
// store.FlashcardSetStore.
func NewFlashcardSetStore(db store.DBTX, logger *slog.Logger) *FlashcardSetStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FlashcardSetStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_set_store")),
	}
}

// Ensure FlashcardSetStore implements store.FlashcardSetStore
var _ store.FlashcardSetStore = (*FlashcardSetStore)(nil)

const setColumns = "id, user_id, document_id, title, public_id, card_count, created_at, updated_at"

// Create implements store.FlashcardSetStore.Create.
func (s *FlashcardSetStore) Create(ctx context.Context, set *domain.FlashcardSet) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := set.Validate(); err != nil {
		log.Warn("flashcard set validation failed during create",
			slog.String("error", err.Error()),
			slog.String("set_id", set.ID.String()))
		return err
	}

	query := `
		INSERT INTO flashcard_sets (id, user_id, document_id, title, public_id, card_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		set.ID, set.UserID, set.DocumentID, set.Title, set.PublicID, set.CardCount,
		set.CreatedAt, set.UpdatedAt)
	if err != nil {
		log.Error("failed to create flashcard set",
			slog.String("error", err.Error()),
			slog.String("set_id", set.ID.String()))
		return mapError(err, store.ErrSetNotFound)
	}
	return nil
}

// GetByID implements store.FlashcardSetStore.GetByID.
func (s *FlashcardSetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.FlashcardSet, error) {
	query := `SELECT ` + setColumns + ` FROM flashcard_sets WHERE id = $1`

	set, err := scanSet(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, store.ErrSetNotFound)
	}
	return set, nil
}

// GetByPublicID implements store.FlashcardSetStore.GetByPublicID.
func (s *FlashcardSetStore) GetByPublicID(ctx context.Context, publicID string) (*domain.FlashcardSet, error) {
	query := `SELECT ` + setColumns + ` FROM flashcard_sets WHERE public_id = $1`

	set, err := scanSet(s.db.QueryRowContext(ctx, query, publicID))
	if err != nil {
		return nil, mapError(err, store.ErrSetNotFound)
	}
	return set, nil
}

// Update implements store.FlashcardSetStore.Update.
func (s *FlashcardSetStore) Update(ctx context.Context, id uuid.UUID, patch store.FlashcardSetPatch) (*domain.FlashcardSet, error) {
	builder := sqlBuilder.Update("flashcard_sets").
		Set("updated_at", time.Now().UTC()).
		Where("id = ?", id).
		Suffix("RETURNING " + setColumns)

	if patch.Title != nil {
		builder = builder.Set("title", *patch.Title)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	set, err := scanSet(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, store.ErrSetNotFound)
	}
	return set, nil
}

// Delete implements store.FlashcardSetStore.Delete. Cards are removed by
// the ON DELETE CASCADE constraint on flashcards.set_id.
func (s *FlashcardSetStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM flashcard_sets WHERE id = $1`, id)
	if err != nil {
		return mapError(err, store.ErrSetNotFound)
	}
	return rowsAffectedOrNotFound(res, store.ErrSetNotFound)
}

// ListByUserID implements store.FlashcardSetStore.ListByUserID.
func (s *FlashcardSetStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.FlashcardSet, error) {
	return s.list(ctx, "user_id", userID)
}

// ListByDocumentID implements store.FlashcardSetStore.ListByDocumentID.
func (s *FlashcardSetStore) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*domain.FlashcardSet, error) {
	return s.list(ctx, "document_id", documentID)
}

func (s *FlashcardSetStore) list(ctx context.Context, column string, value uuid.UUID) ([]*domain.FlashcardSet, error) {
	query, args, err := sqlBuilder.
		Select("id", "user_id", "document_id", "title", "public_id", "card_count", "created_at", "updated_at").
		From("flashcard_sets").
		Where(column+" = ?", value).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, store.ErrSetNotFound)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.FlashcardSet
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, set)
	}
	return out, rows.Err()
}

// AdjustCardCount implements store.FlashcardSetStore.AdjustCardCount. The
// adjustment happens in the database so concurrent bumps do not lose
// updates.
func (s *FlashcardSetStore) AdjustCardCount(ctx context.Context, id uuid.UUID, delta int) error {
	query := `
		UPDATE flashcard_sets
		SET card_count = GREATEST(card_count + $2, 0), updated_at = $3
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, id, delta, time.Now().UTC())
	if err != nil {
		return mapError(err, store.ErrSetNotFound)
	}
	return rowsAffectedOrNotFound(res, store.ErrSetNotFound)
}

// WithTx implements store.FlashcardSetStore.WithTx.
func (s *FlashcardSetStore) WithTx(tx *sql.Tx) store.FlashcardSetStore {
	return &FlashcardSetStore{db: tx, logger: s.logger}
}

func scanSet(row rowScanner) (*domain.FlashcardSet, error) {
	var set domain.FlashcardSet
	var documentID uuid.NullUUID
	err := row.Scan(&set.ID, &set.UserID, &documentID, &set.Title, &set.PublicID,
		&set.CardCount, &set.CreatedAt, &set.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if documentID.Valid {
		set.DocumentID = &documentID.UUID
	}
	return &set, nil
}
