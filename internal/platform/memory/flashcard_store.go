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

// FlashcardStore is the in-memory implementation of store.FlashcardStore.
// It consults the set store to resolve card ownership for GetNextDue.
type FlashcardStore struct {
	mu    sync.RWMutex
	cards map[uuid.UUID]domain.Flashcard
	sets  *FlashcardSetStore
}

// NewFlashcardStore creates an empty in-memory flashcard store backed by
// the given set store for ownership lookups.
func NewFlashcardStore(sets *FlashcardSetStore) *FlashcardStore {
	s := &FlashcardStore{
		cards: make(map[uuid.UUID]domain.Flashcard),
		sets:  sets,
	}
	if sets != nil {
		sets.SetCardStore(s)
	}
	return s
}

// Ensure FlashcardStore implements store.FlashcardStore
var _ store.FlashcardStore = (*FlashcardStore)(nil)

// Create implements store.FlashcardStore.Create.
func (s *FlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	if err := card.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cards[card.ID] = cloneCard(*card)
	return nil
}

// GetByID implements store.FlashcardStore.GetByID.
func (s *FlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	out := cloneCard(card)
	return &out, nil
}

// Update implements store.FlashcardStore.Update. The patch is applied as a
// shallow merge: nil fields keep their stored values. Review state is not
// touched here; see SaveReview.
func (s *FlashcardStore) Update(ctx context.Context, id uuid.UUID, patch store.FlashcardPatch) (*domain.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}

	if patch.Question != nil {
		card.Question = *patch.Question
	}
	if patch.Answer != nil {
		card.Answer = *patch.Answer
	}
	if patch.Difficulty != nil {
		if !domain.IsValidDifficulty(*patch.Difficulty) {
			return nil, domain.ErrInvalidDifficulty
		}
		card.Difficulty = *patch.Difficulty
	}
	card.UpdatedAt = time.Now().UTC()

	s.cards[id] = card
	out := cloneCard(card)
	return &out, nil
}

// SaveReview implements store.FlashcardStore.SaveReview. The scheduling
// fields are written in one critical section so a review is atomic with
// respect to other store operations.
func (s *FlashcardStore) SaveReview(ctx context.Context, card *domain.Flashcard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.cards[card.ID]
	if !ok {
		return store.ErrCardNotFound
	}

	stored.Difficulty = card.Difficulty
	stored.LastReviewed = copyTime(card.LastReviewed)
	stored.NextReview = copyTime(card.NextReview)
	stored.Repetitions = card.Repetitions
	stored.EasinessFactor = card.EasinessFactor
	stored.UpdatedAt = card.UpdatedAt

	s.cards[card.ID] = stored
	return nil
}

// Delete implements store.FlashcardStore.Delete.
func (s *FlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(s.cards, id)
	return nil
}

// ListBySetID implements store.FlashcardStore.ListBySetID. Results are
// ordered by creation time, oldest first.
func (s *FlashcardStore) ListBySetID(ctx context.Context, setID uuid.UUID) ([]*domain.Flashcard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Flashcard
	for _, card := range s.cards {
		if card.SetID == setID {
			c := cloneCard(card)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// GetNextDue implements store.FlashcardStore.GetNextDue. Unseen cards are
// always due and take priority by creation time; among scheduled cards the
// earliest NextReview not after now wins.
func (s *FlashcardStore) GetNextDue(ctx context.Context, userID uuid.UUID) (*domain.Flashcard, error) {
	now := time.Now().UTC()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *domain.Flashcard
	for _, card := range s.cards {
		owner, ok := s.sets.userOf(card.SetID)
		if !ok || owner != userID {
			continue
		}

		due := card.NextReview == nil || !card.NextReview.After(now)
		if !due {
			continue
		}

		c := cloneCard(card)
		if best == nil || dueBefore(&c, best) {
			best = &c
		}
	}

	if best == nil {
		return nil, store.ErrCardNotFound
	}
	return best, nil
}

// deleteBySetID removes every card belonging to the given set. Called by
// the set store on set deletion.
func (s *FlashcardStore) deleteBySetID(setID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, card := range s.cards {
		if card.SetID == setID {
			delete(s.cards, id)
		}
	}
}

// WithTx implements store.FlashcardStore.WithTx. The memory backend has no
// transactions; the same store is returned.
func (s *FlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return s
}

// dueBefore orders due cards: unseen before scheduled, then by earliest
// next review, then by creation time for stability.
func dueBefore(a, b *domain.Flashcard) bool {
	switch {
	case a.NextReview == nil && b.NextReview != nil:
		return true
	case a.NextReview != nil && b.NextReview == nil:
		return false
	case a.NextReview != nil && b.NextReview != nil && !a.NextReview.Equal(*b.NextReview):
		return a.NextReview.Before(*b.NextReview)
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

// cloneCard copies a card, re-pointing its timestamp pointers so callers
// cannot reach stored state.
func cloneCard(card domain.Flashcard) domain.Flashcard {
	card.LastReviewed = copyTime(card.LastReviewed)
	card.NextReview = copyTime(card.NextReview)
	return card
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
