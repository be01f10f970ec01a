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

// NoteStore implements store.NoteStore against PostgreSQL.
type NoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewNoteStore creates a PostgreSQL implementation of store.NoteStore.
func NewNoteStore(db store.DBTX, logger *slog.Logger) *NoteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &NoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

// Ensure NoteStore implements store.NoteStore
var _ store.NoteStore = (*NoteStore)(nil)

const noteColumns = "id, user_id, document_id, title, content, created_at, updated_at"

// Create implements store.NoteStore.Create.
func (s *NoteStore) Create(ctx context.Context, note *domain.Note) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		log.Warn("note validation failed during create",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return err
	}

	query := `
		INSERT INTO notes (id, user_id, document_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		note.ID, note.UserID, note.DocumentID, note.Title, note.Content,
		note.CreatedAt, note.UpdatedAt)
	if err != nil {
		log.Error("failed to create note",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return mapError(err, store.ErrNoteNotFound)
	}
	return nil
}

// GetByID implements store.NoteStore.GetByID.
func (s *NoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`

	note, err := scanNote(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, store.ErrNoteNotFound)
	}
	return note, nil
}

// Update implements store.NoteStore.Update.
func (s *NoteStore) Update(ctx context.Context, id uuid.UUID, patch store.NotePatch) (*domain.Note, error) {
	builder := sqlBuilder.Update("notes").
		Set("updated_at", time.Now().UTC()).
		Where("id = ?", id).
		Suffix("RETURNING " + noteColumns)

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

	note, err := scanNote(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, store.ErrNoteNotFound)
	}
	return note, nil
}

// Delete implements store.NoteStore.Delete.
func (s *NoteStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return mapError(err, store.ErrNoteNotFound)
	}
	return rowsAffectedOrNotFound(res, store.ErrNoteNotFound)
}

// ListByUserID implements store.NoteStore.ListByUserID.
func (s *NoteStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error) {
	return s.list(ctx, "user_id", userID)
}

// ListByDocumentID implements store.NoteStore.ListByDocumentID.
func (s *NoteStore) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*domain.Note, error) {
	return s.list(ctx, "document_id", documentID)
}

// list returns notes filtered on one foreign-key column, ordered by
// creation time.
func (s *NoteStore) list(ctx context.Context, column string, value uuid.UUID) ([]*domain.Note, error) {
	query, args, err := sqlBuilder.
		Select("id", "user_id", "document_id", "title", "content", "created_at", "updated_at").
		From("notes").
		Where(column+" = ?", value).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, store.ErrNoteNotFound)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, note)
	}
	return out, rows.Err()
}

// WithTx implements store.NoteStore.WithTx.
func (s *NoteStore) WithTx(tx *sql.Tx) store.NoteStore {
	return &NoteStore{db: tx, logger: s.logger}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var note domain.Note
	var documentID uuid.NullUUID
	err := row.Scan(&note.ID, &note.UserID, &documentID, &note.Title, &note.Content,
		&note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if documentID.Valid {
		note.DocumentID = &documentID.UUID
	}
	return &note, nil
}
