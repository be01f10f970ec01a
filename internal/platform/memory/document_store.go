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

// DocumentStore is the in-memory implementation of store.DocumentStore.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]domain.Document
}

// NewDocumentStore creates an empty in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[uuid.UUID]domain.Document),
	}
}

// Ensure DocumentStore implements store.DocumentStore
var _ store.DocumentStore = (*DocumentStore)(nil)

// Create implements store.DocumentStore.Create.
func (s *DocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[doc.ID] = *doc
	return nil
}

// GetByID implements store.DocumentStore.GetByID.
func (s *DocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, store.ErrDocumentNotFound
	}
	return &doc, nil
}

// Update implements store.DocumentStore.Update. The patch is applied as a
// shallow merge: nil fields keep their stored values.
func (s *DocumentStore) Update(ctx context.Context, id uuid.UUID, patch store.DocumentPatch) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, store.ErrDocumentNotFound
	}

	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Content != nil {
		doc.Content = *patch.Content
	}
	doc.UpdatedAt = time.Now().UTC()

	s.docs[id] = doc
	return &doc, nil
}

// Delete implements store.DocumentStore.Delete.
func (s *DocumentStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return store.ErrDocumentNotFound
	}
	delete(s.docs, id)
	return nil
}

// ListByUserID implements store.DocumentStore.ListByUserID. Results are
// ordered by creation time, oldest first.
func (s *DocumentStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Document
	for _, doc := range s.docs {
		if doc.UserID == userID {
			d := doc
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// WithTx implements store.DocumentStore.WithTx. The memory backend has no
// transactions; the same store is returned.
func (s *DocumentStore) WithTx(tx *sql.Tx) store.DocumentStore {
	return s
}
