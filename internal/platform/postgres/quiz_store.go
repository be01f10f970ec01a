package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
	"github.com/mhollis/cram-api/internal/platform/logger"
	"github.com/mhollis/cram-api/internal/store"
)

// QuizStore implements store.QuizStore against PostgreSQL. Quiz questions
// are stored in a JSONB column.
type QuizStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewQuizStore creates a PostgreSQL implementation of store.QuizStore.
func NewQuizStore(db store.DBTX, logger *slog.Logger) *QuizStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &QuizStore{
		db:     db,
		logger: logger.With(slog.String("component", "quiz_store")),
	}
}

// Ensure QuizStore implements store.QuizStore
var _ store.QuizStore = (*QuizStore)(nil)

const quizColumns = "id, user_id, document_id, title, questions, created_at, updated_at"

// Create implements store.QuizStore.Create.
func (s *QuizStore) Create(ctx context.Context, quiz *domain.Quiz) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := quiz.Validate(); err != nil {
		log.Warn("quiz validation failed during create",
			slog.String("error", err.Error()),
			slog.String("quiz_id", quiz.ID.String()))
		return err
	}

	query := `
		INSERT INTO quizzes (id, user_id, document_id, title, questions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		quiz.ID, quiz.UserID, quiz.DocumentID, quiz.Title, []byte(quiz.Questions),
		quiz.CreatedAt, quiz.UpdatedAt)
	if err != nil {
		log.Error("failed to create quiz",
			slog.String("error", err.Error()),
			slog.String("quiz_id", quiz.ID.String()))
		return mapError(err, store.ErrQuizNotFound)
	}
	return nil
}

// GetByID implements store.QuizStore.GetByID.
func (s *QuizStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE id = $1`

	quiz, err := scanQuiz(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, store.ErrQuizNotFound)
	}
	return quiz, nil
}

// Update implements store.QuizStore.Update. Questions replace the stored
// JSON wholesale.
func (s *QuizStore) Update(ctx context.Context, id uuid.UUID, patch store.QuizPatch) (*domain.Quiz, error) {
	builder := sqlBuilder.Update("quizzes").
		Set("updated_at", time.Now().UTC()).
		Where("id = ?", id).
		Suffix("RETURNING " + quizColumns)

	if patch.Title != nil {
		builder = builder.Set("title", *patch.Title)
	}
	if patch.Questions != nil {
		builder = builder.Set("questions", []byte(patch.Questions))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	quiz, err := scanQuiz(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, store.ErrQuizNotFound)
	}
	return quiz, nil
}

// Delete implements store.QuizStore.Delete. Attempts are removed by the ON
// DELETE CASCADE constraint on quiz_attempts.quiz_id.
func (s *QuizStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return mapError(err, store.ErrQuizNotFound)
	}
	return rowsAffectedOrNotFound(res, store.ErrQuizNotFound)
}

// ListByUserID implements store.QuizStore.ListByUserID.
func (s *QuizStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Quiz, error) {
	return s.list(ctx, "user_id", userID)
}

// ListByDocumentID implements store.QuizStore.ListByDocumentID.
func (s *QuizStore) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*domain.Quiz, error) {
	return s.list(ctx, "document_id", documentID)
}

func (s *QuizStore) list(ctx context.Context, column string, value uuid.UUID) ([]*domain.Quiz, error) {
	query, args, err := sqlBuilder.
		Select("id", "user_id", "document_id", "title", "questions", "created_at", "updated_at").
		From("quizzes").
		Where(column+" = ?", value).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, store.ErrQuizNotFound)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Quiz
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, quiz)
	}
	return out, rows.Err()
}

// WithTx implements store.QuizStore.WithTx.
func (s *QuizStore) WithTx(tx *sql.Tx) store.QuizStore {
	return &QuizStore{db: tx, logger: s.logger}
}

func scanQuiz(row rowScanner) (*domain.Quiz, error) {
	var quiz domain.Quiz
	var documentID uuid.NullUUID
	var questions []byte
	err := row.Scan(&quiz.ID, &quiz.UserID, &documentID, &quiz.Title, &questions,
		&quiz.CreatedAt, &quiz.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if documentID.Valid {
		quiz.DocumentID = &documentID.UUID
	}
	quiz.Questions = json.RawMessage(questions)
	return &quiz, nil
}

// QuizAttemptStore implements store.QuizAttemptStore against PostgreSQL.
type QuizAttemptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewQuizAttemptStore creates a PostgreSQL implementation of
// store.QuizAttemptStore.
func NewQuizAttemptStore(db store.DBTX, logger *slog.Logger) *QuizAttemptStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &QuizAttemptStore{
		db:     db,
		logger: logger.With(slog.String("component", "quiz_attempt_store")),
	}
}

// Ensure QuizAttemptStore implements store.QuizAttemptStore
var _ store.QuizAttemptStore = (*QuizAttemptStore)(nil)

// Create implements store.QuizAttemptStore.Create.
func (s *QuizAttemptStore) Create(ctx context.Context, attempt *domain.QuizAttempt) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attempt.Validate(); err != nil {
		log.Warn("quiz attempt validation failed during create",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()))
		return err
	}

	query := `
		INSERT INTO quiz_attempts (id, quiz_id, user_id, answers, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		attempt.ID, attempt.QuizID, attempt.UserID, []byte(attempt.Answers),
		attempt.Score, attempt.CreatedAt)
	if err != nil {
		log.Error("failed to create quiz attempt",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()))
		return mapError(err, store.ErrAttemptNotFound)
	}
	return nil
}

// GetByID implements store.QuizAttemptStore.GetByID.
func (s *QuizAttemptStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuizAttempt, error) {
	query := `
		SELECT id, quiz_id, user_id, answers, score, created_at
		FROM quiz_attempts
		WHERE id = $1
	`

	attempt, err := scanAttempt(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, store.ErrAttemptNotFound)
	}
	return attempt, nil
}

// ListByQuizID implements store.QuizAttemptStore.ListByQuizID.
func (s *QuizAttemptStore) ListByQuizID(ctx context.Context, quizID uuid.UUID) ([]*domain.QuizAttempt, error) {
	return s.list(ctx, "quiz_id", quizID)
}

// ListByUserID implements store.QuizAttemptStore.ListByUserID.
func (s *QuizAttemptStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.QuizAttempt, error) {
	return s.list(ctx, "user_id", userID)
}

func (s *QuizAttemptStore) list(ctx context.Context, column string, value uuid.UUID) ([]*domain.QuizAttempt, error) {
	query, args, err := sqlBuilder.
		Select("id", "quiz_id", "user_id", "answers", "score", "created_at").
		From("quiz_attempts").
		Where(column+" = ?", value).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, store.ErrAttemptNotFound)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.QuizAttempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, attempt)
	}
	return out, rows.Err()
}

// WithTx implements store.QuizAttemptStore.WithTx.
func (s *QuizAttemptStore) WithTx(tx *sql.Tx) store.QuizAttemptStore {
	return &QuizAttemptStore{db: tx, logger: s.logger}
}

func scanAttempt(row rowScanner) (*domain.QuizAttempt, error) {
	var attempt domain.QuizAttempt
	var answers []byte
	err := row.Scan(&attempt.ID, &attempt.QuizID, &attempt.UserID, &answers,
		&attempt.Score, &attempt.CreatedAt)
	if err != nil {
		return nil, err
	}
	attempt.Answers = json.RawMessage(answers)
	return &attempt, nil
}
