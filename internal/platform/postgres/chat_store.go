package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
	"github.com/mhollis/cram-api/internal/platform/logger"
	"github.com/mhollis/cram-api/internal/store"
)

// ChatMessageStore implements store.ChatMessageStore against PostgreSQL.
type ChatMessageStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewChatMessageStore creates a PostgreSQL implementation of
// store.ChatMessageStore.
func NewChatMessageStore(db store.DBTX, logger *slog.Logger) *ChatMessageStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ChatMessageStore{
		db:     db,
		logger: logger.With(slog.String("component", "chat_message_store")),
	}
}

// Ensure ChatMessageStore implements store.ChatMessageStore
var _ store.ChatMessageStore = (*ChatMessageStore)(nil)

// Create implements store.ChatMessageStore.Create.
func (s *ChatMessageStore) Create(ctx context.Context, msg *domain.ChatMessage) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := msg.Validate(); err != nil {
		log.Warn("chat message validation failed during create",
			slog.String("error", err.Error()),
			slog.String("message_id", msg.ID.String()))
		return err
	}

	query := `
		INSERT INTO chat_messages (id, user_id, document_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		msg.ID, msg.UserID, msg.DocumentID, string(msg.Role), msg.Content, msg.CreatedAt)
	if err != nil {
		log.Error("failed to create chat message",
			slog.String("error", err.Error()),
			slog.String("message_id", msg.ID.String()))
		return mapError(err, store.ErrMessageNotFound)
	}
	return nil
}

// GetByID implements store.ChatMessageStore.GetByID.
func (s *ChatMessageStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChatMessage, error) {
	query := `
		SELECT id, user_id, document_id, role, content, created_at
		FROM chat_messages
		WHERE id = $1
	`

	msg, err := scanMessage(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, store.ErrMessageNotFound)
	}
	return msg, nil
}

// ListByUserID implements store.ChatMessageStore.ListByUserID.
func (s *ChatMessageStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.ChatMessage, error) {
	return s.list(ctx, "user_id", userID)
}

// ListByDocumentID implements store.ChatMessageStore.ListByDocumentID.
func (s *ChatMessageStore) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*domain.ChatMessage, error) {
	return s.list(ctx, "document_id", documentID)
}

func (s *ChatMessageStore) list(ctx context.Context, column string, value uuid.UUID) ([]*domain.ChatMessage, error) {
	query, args, err := sqlBuilder.
		Select("id", "user_id", "document_id", "role", "content", "created_at").
		From("chat_messages").
		Where(column+" = ?", value).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, store.ErrMessageNotFound)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.ChatMessage
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

// WithTx implements store.ChatMessageStore.WithTx.
func (s *ChatMessageStore) WithTx(tx *sql.Tx) store.ChatMessageStore {
	return &ChatMessageStore{db: tx, logger: s.logger}
}

func scanMessage(row rowScanner) (*domain.ChatMessage, error) {
	var msg domain.ChatMessage
	var documentID uuid.NullUUID
	var role string
	err := row.Scan(&msg.ID, &msg.UserID, &documentID, &role, &msg.Content, &msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	if documentID.Valid {
		msg.DocumentID = &documentID.UUID
	}
	msg.Role = domain.ChatRole(role)
	return &msg, nil
}
