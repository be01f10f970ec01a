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

// FlashcardSetStore is the in-memory implementation of store.FlashcardSetStore.
type FlashcardSetStore struct {
	mu   sync.RWMutex
	sets map[uuid.UUID]domain.FlashcardSet

	// cards, when wired via SetCardStore, receives cascade deletes so
	// deleting a set also removes its cards, mirroring the ON DELETE
	// CASCADE constraint of the postgres backend.
	cards *FlashcardStore
}

// NewFlashcardSetStore creates an empty in-memory flashcard set store.
func NewFlashcardSetStore() *FlashcardSetStore {
	return &FlashcardSetStore{
		sets: make(map[uuid.UUID]domain.FlashcardSet),
	}
}

// SetCardStore wires the card store used for cascade deletes.
func (s *FlashcardSetStore) SetCardStore(cards *FlashcardStore) {
	s.cards = cards
}

// Ensure FlashcardSetStore implements store.FlashcardSetStore
var _ store.FlashcardSetStore = (*FlashcardSetStore)(nil)

// Create implements store.FlashcardSetStore.Create.
func (s *FlashcardSetStore) Create(ctx context.Context, set *domain.FlashcardSet) error {
	if err := set.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets[set.ID] = *set
	return nil
}

// GetByID implements store.FlashcardSetStore.GetByID.
func (s *FlashcardSetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.FlashcardSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[id]
	if !ok {
		return nil, store.ErrSetNotFound
	}
	return &set, nil
}

// GetByPublicID implements store.FlashcardSetStore.GetByPublicID.
func (s *FlashcardSetStore) GetByPublicID(ctx context.Context, publicID string) (*domain.FlashcardSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, set := range s.sets {
		if set.PublicID == publicID {
			found := set
			return &found, nil
		}
	}
	return nil, store.ErrSetNotFound
}

// Update implements store.FlashcardSetStore.Update.
func (s *FlashcardSetStore) Update(ctx context.Context, id uuid.UUID, patch store.FlashcardSetPatch) (*domain.FlashcardSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[id]
	if !ok {
		return nil, store.ErrSetNotFound
	}

	if patch.Title != nil {
		set.Title = *patch.Title
	}
	set.UpdatedAt = time.Now().UTC()

	s.sets[id] = set
	return &set, nil
}

// Delete implements store.FlashcardSetStore.Delete. Cards in the set are
// removed with it when a card store is wired.
func (s *FlashcardSetStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if _, ok := s.sets[id]; !ok {
		s.mu.Unlock()
		return store.ErrSetNotFound
	}
	delete(s.sets, id)
	s.mu.Unlock()

	if s.cards != nil {
		s.cards.deleteBySetID(id)
	}
	return nil
}

// ListByUserID implements store.FlashcardSetStore.ListByUserID. Results are
// ordered by creation time, oldest first.
func (s *FlashcardSetStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.FlashcardSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.FlashcardSet
	for _, set := range s.sets {
		if set.UserID == userID {
			item := set
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListByDocumentID implements store.FlashcardSetStore.ListByDocumentID.
func (s *FlashcardSetStore) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*domain.FlashcardSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.FlashcardSet
	for _, set := range s.sets {
		if set.DocumentID != nil && *set.DocumentID == documentID {
			item := set
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// AdjustCardCount implements store.FlashcardSetStore.AdjustCardCount.
func (s *FlashcardSetStore) AdjustCardCount(ctx context.Context, id uuid.UUID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[id]
	if !ok {
		return store.ErrSetNotFound
	}

	set.CardCount += delta
	if set.CardCount < 0 {
		set.CardCount = 0
	}
	set.UpdatedAt = time.Now().UTC()

	s.sets[id] = set
	return nil
}

// userOf reports the owner of a set, used by the card store to resolve
// ownership without exporting internals.
func (s *FlashcardSetStore) userOf(setID uuid.UUID) (uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[setID]
	if !ok {
		return uuid.Nil, false
	}
	return set.UserID, true
}

// WithTx implements store.FlashcardSetStore.WithTx. The memory backend has
// no transactions; the same store is returned.
func (s *FlashcardSetStore) WithTx(tx *sql.Tx) store.FlashcardSetStore {
	return s
}
