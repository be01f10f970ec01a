package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/cram-api/internal/domain"
	"github.com/mhollis/cram-api/internal/store"
)

func newStoredSet(t *testing.T, sets *FlashcardSetStore, userID uuid.UUID) *domain.FlashcardSet {
	t.Helper()

	set, err := domain.NewFlashcardSet(userID, nil, "Standard library")
	require.NoError(t, err)
	require.NoError(t, sets.Create(context.Background(), set))
	return set
}

func newStoredCard(t *testing.T, cards *FlashcardStore, setID uuid.UUID, question string) *domain.Flashcard {
	t.Helper()

	card, err := domain.NewFlashcard(setID, question, "because", domain.DifficultyMedium)
	require.NoError(t, err)
	require.NoError(t, cards.Create(context.Background(), card))
	return card
}

func TestFlashcardStoreCreateAndGet(t *testing.T) {
	t.Parallel()

	sets := NewFlashcardSetStore()
	cards := NewFlashcardStore(sets)
	set := newStoredSet(t, sets, uuid.New())
	card := newStoredCard(t, cards, set.ID, "What is a goroutine?")

	got, err := cards.GetByID(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.Question, got.Question)
	assert.Equal(t, set.ID, got.SetID)
}

func TestFlashcardStoreGetNotFound(t *testing.T) {
	t.Parallel()

	cards := NewFlashcardStore(NewFlashcardSetStore())
	_, err := cards.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestFlashcardStoreUpdatePreservesUnpatchedFields(t *testing.T) {
	t.Parallel()

	sets := NewFlashcardSetStore()
	cards := NewFlashcardStore(sets)
	set := newStoredSet(t, sets, uuid.New())
	card := newStoredCard(t, cards, set.ID, "What is a channel?")

	answer := "A typed conduit between goroutines"
	updated, err := cards.Update(context.Background(), card.ID, store.FlashcardPatch{Answer: &answer})
	require.NoError(t, err)

	assert.Equal(t, answer, updated.Answer)
	assert.Equal(t, card.Question, updated.Question)
	assert.Equal(t, card.Difficulty, updated.Difficulty)
}

func TestFlashcardStoreUpdateRejectsBadDifficulty(t *testing.T) {
	t.Parallel()

	sets := NewFlashcardSetStore()
	cards := NewFlashcardStore(sets)
	set := newStoredSet(t, sets, uuid.New())
	card := newStoredCard(t, cards, set.ID, "Q")

	bad := domain.Difficulty("brutal")
	_, err := cards.Update(context.Background(), card.ID, store.FlashcardPatch{Difficulty: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidDifficulty)
}

func TestFlashcardStoreSaveReview(t *testing.T) {
	t.Parallel()

	sets := NewFlashcardSetStore()
	cards := NewFlashcardStore(sets)
	set := newStoredSet(t, sets, uuid.New())
	card := newStoredCard(t, cards, set.ID, "Q")
	ctx := context.Background()

	now := time.Now().UTC()
	next := now.Add(24 * time.Hour)
	card.Difficulty = domain.DifficultyEasy
	card.LastReviewed = &now
	card.NextReview = &next
	card.Repetitions = 1
	card.UpdatedAt = now

	require.NoError(t, cards.SaveReview(ctx, card))

	stored, err := cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DifficultyEasy, stored.Difficulty)
	assert.Equal(t, 1, stored.Repetitions)
	require.NotNil(t, stored.NextReview)
	assert.True(t, stored.NextReview.Equal(next))
}

func TestFlashcardStoreSaveReviewNotFound(t *testing.T) {
	t.Parallel()

	cards := NewFlashcardStore(NewFlashcardSetStore())
	card, err := domain.NewFlashcard(uuid.New(), "Q", "A", domain.DifficultyMedium)
	require.NoError(t, err)

	assert.ErrorIs(t, cards.SaveReview(context.Background(), card), store.ErrCardNotFound)
}

func TestFlashcardStoreGetNextDue(t *testing.T) {
	t.Parallel()

	sets := NewFlashcardSetStore()
	cards := NewFlashcardStore(sets)
	userID := uuid.New()
	set := newStoredSet(t, sets, userID)
	ctx := context.Background()

	// A scheduled card due an hour ago and an unseen card. The unseen card
	// wins regardless of insertion order.
	scheduled := newStoredCard(t, cards, set.ID, "scheduled")
	past := time.Now().UTC().Add(-2 * time.Hour)
	due := time.Now().UTC().Add(-time.Hour)
	scheduled.LastReviewed = &past
	scheduled.NextReview = &due
	scheduled.Repetitions = 1
	require.NoError(t, cards.SaveReview(ctx, scheduled))

	unseen := newStoredCard(t, cards, set.ID, "unseen")

	next, err := cards.GetNextDue(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, unseen.ID, next.ID)

	// Once the unseen card is gone, the overdue scheduled card is next.
	require.NoError(t, cards.Delete(ctx, unseen.ID))
	next, err = cards.GetNextDue(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, scheduled.ID, next.ID)
}

func TestFlashcardStoreGetNextDueSkipsFutureCards(t *testing.T) {
	t.Parallel()

	sets := NewFlashcardSetStore()
	cards := NewFlashcardStore(sets)
	userID := uuid.New()
	set := newStoredSet(t, sets, userID)
	ctx := context.Background()

	card := newStoredCard(t, cards, set.ID, "Q")
	reviewed := time.Now().UTC()
	future := reviewed.Add(72 * time.Hour)
	card.LastReviewed = &reviewed
	card.NextReview = &future
	card.Repetitions = 1
	require.NoError(t, cards.SaveReview(ctx, card))

	_, err := cards.GetNextDue(ctx, userID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestFlashcardStoreGetNextDueScopedToUser(t *testing.T) {
	t.Parallel()

	sets := NewFlashcardSetStore()
	cards := NewFlashcardStore(sets)
	set := newStoredSet(t, sets, uuid.New())
	newStoredCard(t, cards, set.ID, "someone else's card")

	_, err := cards.GetNextDue(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestFlashcardStoreListBySetID(t *testing.T) {
	t.Parallel()

	sets := NewFlashcardSetStore()
	cards := NewFlashcardStore(sets)
	set := newStoredSet(t, sets, uuid.New())
	other := newStoredSet(t, sets, uuid.New())
	ctx := context.Background()

	newStoredCard(t, cards, set.ID, "one")
	newStoredCard(t, cards, set.ID, "two")
	newStoredCard(t, cards, other.ID, "elsewhere")

	list, err := cards.ListBySetID(ctx, set.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestFlashcardSetDeleteCascades(t *testing.T) {
	t.Parallel()

	sets := NewFlashcardSetStore()
	cards := NewFlashcardStore(sets)
	set := newStoredSet(t, sets, uuid.New())
	card := newStoredCard(t, cards, set.ID, "Q")
	ctx := context.Background()

	require.NoError(t, sets.Delete(ctx, set.ID))

	_, err := cards.GetByID(ctx, card.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestFlashcardStoreReturnsCopies(t *testing.T) {
	t.Parallel()

	sets := NewFlashcardSetStore()
	cards := NewFlashcardStore(sets)
	set := newStoredSet(t, sets, uuid.New())
	card := newStoredCard(t, cards, set.ID, "Q")
	ctx := context.Background()

	got, err := cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	got.Question = "mutated"

	again, err := cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q", again.Question)
}
