package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
	"github.com/mhollis/cram-api/internal/store"
)

// ChatMessageStore is the in-memory implementation of store.ChatMessageStore.
type ChatMessageStore struct {
	mu       sync.RWMutex
	messages map[uuid.UUID]domain.ChatMessage
}

// NewChatMessageStore creates an empty in-memory chat message store.
func NewChatMessageStore() *ChatMessageStore {
	return &ChatMessageStore{
		messages: make(map[uuid.UUID]domain.ChatMessage),
	}
}

// Ensure ChatMessageStore implements store.ChatMessageStore
var _ store.ChatMessageStore = (*ChatMessageStore)(nil)

// Create implements store.ChatMessageStore.Create.
func (s *ChatMessageStore) Create(ctx context.Context, msg *domain.ChatMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[msg.ID] = *msg
	return nil
}

// GetByID implements store.ChatMessageStore.GetByID.
func (s *ChatMessageStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, store.ErrMessageNotFound
	}
	return &msg, nil
}

// ListByUserID implements store.ChatMessageStore.ListByUserID. Results are
// in conversation order, oldest first.
func (s *ChatMessageStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.ChatMessage
	for _, msg := range s.messages {
		if msg.UserID == userID {
			m := msg
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListByDocumentID implements store.ChatMessageStore.ListByDocumentID.
func (s *ChatMessageStore) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.ChatMessage
	for _, msg := range s.messages {
		if msg.DocumentID != nil && *msg.DocumentID == documentID {
			m := msg
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// WithTx implements store.ChatMessageStore.WithTx. The memory backend has
// no transactions; the same store is returned.
func (s *ChatMessageStore) WithTx(tx *sql.Tx) store.ChatMessageStore {
	return s
}
