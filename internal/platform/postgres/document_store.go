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

// DocumentStore implements store.DocumentStore against PostgreSQL.
type DocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewDocumentStore creates a PostgreSQL implementation of store.DocumentStore.
func NewDocumentStore(db store.DBTX, logger *slog.Logger) *DocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "document_store")),
	}
}

// Ensure DocumentStore implements store.DocumentStore
var _ store.DocumentStore = (*DocumentStore)(nil)

// Create implements store.DocumentStore.Create.
func (s *DocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := doc.Validate(); err != nil {
		log.Warn("document validation failed during create",
			slog.String("error", err.Error()),
			slog.String("document_id", doc.ID.String()))
		return err
	}

	query := `
		INSERT INTO documents (id, user_id, title, source_type, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		doc.ID, doc.UserID, doc.Title, doc.SourceType, doc.Content, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		log.Error("failed to create document",
			slog.String("error", err.Error()),
			slog.String("document_id", doc.ID.String()))
		return mapError(err, store.ErrDocumentNotFound)
	}
	return nil
}

// GetByID implements store.DocumentStore.GetByID.
func (s *DocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	query := `
		SELECT id, user_id, title, source_type, content, created_at, updated_at
		FROM documents
		WHERE id = $1
	`

	var doc domain.Document
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.UserID, &doc.Title, &doc.SourceType, &doc.Content,
		&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, mapError(err, store.ErrDocumentNotFound)
	}
	return &doc, nil
}

// Update implements store.DocumentStore.Update.
func (s *DocumentStore) Update(ctx context.Context, id uuid.UUID, patch store.DocumentPatch) (*domain.Document, error) {
	builder := sqlBuilder.Update("documents").
		Set("updated_at", time.Now().UTC()).
		Where("id = ?", id).
		Suffix("RETURNING id, user_id, title, source_type, content, created_at, updated_at")

	if patch.Title != nil {
		builder = builder.Set("title", *patch.Title)
	}
	if patch.Content != nil {
		builder = builder.Set("content", *patch.Content)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	var doc domain.Document
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&doc.ID, &doc.UserID, &doc.Title, &doc.SourceType, &doc.Content,
		&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, mapError(err, store.ErrDocumentNotFound)
	}
	return &doc, nil
}

// Delete implements store.DocumentStore.Delete.
func (s *DocumentStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return mapError(err, store.ErrDocumentNotFound)
	}
	return rowsAffectedOrNotFound(res, store.ErrDocumentNotFound)
}

// ListByUserID implements store.DocumentStore.ListByUserID. Results are
// ordered by creation time, oldest first.
func (s *DocumentStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Document, error) {
	query, args, err := sqlBuilder.
		Select("id", "user_id", "title", "source_type", "content", "created_at", "updated_at").
		From("documents").
		Where("user_id = ?", userID).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, store.ErrDocumentNotFound)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Document
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.Title, &doc.SourceType,
			&doc.Content, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &doc)
	}
	return out, rows.Err()
}

// WithTx implements store.DocumentStore.WithTx.
func (s *DocumentStore) WithTx(tx *sql.Tx) store.DocumentStore {
	return &DocumentStore{db: tx, logger: s.logger}
}
