package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
	"github.com/mhollis/cram-api/internal/store"
)

// QuizStore is the in-memory implementation of store.QuizStore.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[uuid.UUID]domain.Quiz
}

// NewQuizStore creates an empty in-memory quiz store.
func NewQuizStore() *QuizStore {
	return &QuizStore{
		quizzes: make(map[uuid.UUID]domain.Quiz),
	}
}

// Ensure QuizStore implements store.QuizStore
var _ store.QuizStore = (*QuizStore)(nil)

// Create implements store.QuizStore.Create.
func (s *QuizStore) Create(ctx context.Context, quiz *domain.Quiz) error {
	if err := quiz.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.quizzes[quiz.ID] = *quiz
	return nil
}

// GetByID implements store.QuizStore.GetByID.
func (s *QuizStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quiz, ok := s.quizzes[id]
	if !ok {
		return nil, store.ErrQuizNotFound
	}
	return &quiz, nil
}

// Update implements store.QuizStore.Update. Questions, when present in the
// patch, replace the stored JSON wholesale; there is no element-level merge.
func (s *QuizStore) Update(ctx context.Context, id uuid.UUID, patch store.QuizPatch) (*domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz, ok := s.quizzes[id]
	if !ok {
		return nil, store.ErrQuizNotFound
	}

	if patch.Title != nil {
		quiz.Title = *patch.Title
	}
	if patch.Questions != nil {
		quiz.Questions = patch.Questions
	}
	quiz.UpdatedAt = time.Now().UTC()

	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	s.quizzes[id] = quiz
	return &quiz, nil
}

// Delete implements store.QuizStore.Delete.
func (s *QuizStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quizzes[id]; !ok {
		return store.ErrQuizNotFound
	}
	delete(s.quizzes, id)
	return nil
}

// ListByUserID implements store.QuizStore.ListByUserID. Results are ordered
// by creation time, oldest first.
func (s *QuizStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Quiz
	for _, quiz := range s.quizzes {
		if quiz.UserID == userID {
			q := quiz
			out = append(out, &q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListByDocumentID implements store.QuizStore.ListByDocumentID.
func (s *QuizStore) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Quiz
	for _, quiz := range s.quizzes {
		if quiz.DocumentID != nil && *quiz.DocumentID == documentID {
			q := quiz
			out = append(out, &q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// WithTx implements store.QuizStore.WithTx. The memory backend has no
// transactions; the same store is returned.
func (s *QuizStore) WithTx(tx *sql.Tx) store.QuizStore {
	return s
}

// QuizAttemptStore is the in-memory implementation of store.QuizAttemptStore.
type QuizAttemptStore struct {
	mu       sync.RWMutex
	attempts map[uuid.UUID]domain.QuizAttempt
}

// NewQuizAttemptStore creates an empty in-memory quiz attempt store.
func NewQuizAttemptStore() *QuizAttemptStore {
	return &QuizAttemptStore{
		attempts: make(map[uuid.UUID]domain.QuizAttempt),
	}
}

// Ensure QuizAttemptStore implements store.QuizAttemptStore
var _ store.QuizAttemptStore = (*QuizAttemptStore)(nil)

// Create implements store.QuizAttemptStore.Create.
func (s *QuizAttemptStore) Create(ctx context.Context, attempt *domain.QuizAttempt) error {
	if err := attempt.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts[attempt.ID] = *attempt
	return nil
}

// GetByID implements store.QuizAttemptStore.GetByID.
func (s *QuizAttemptStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attempt, ok := s.attempts[id]
	if !ok {
		return nil, store.ErrAttemptNotFound
	}
	return &attempt, nil
}

// ListByQuizID implements store.QuizAttemptStore.ListByQuizID. Results are
// ordered by creation time, oldest first.
func (s *QuizAttemptStore) ListByQuizID(ctx context.Context, quizID uuid.UUID) ([]*domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.QuizAttempt
	for _, attempt := range s.attempts {
		if attempt.QuizID == quizID {
			a := attempt
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListByUserID implements store.QuizAttemptStore.ListByUserID.
func (s *QuizAttemptStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.QuizAttempt
	for _, attempt := range s.attempts {
		if attempt.UserID == userID {
			a := attempt
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// WithTx implements store.QuizAttemptStore.WithTx. The memory backend has
// no transactions; the same store is returned.
func (s *QuizAttemptStore) WithTx(tx *sql.Tx) store.QuizAttemptStore {
	return s
}
