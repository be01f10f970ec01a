package review

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/cram-api/internal/domain"
	"github.com/mhollis/cram-api/internal/domain/schedule"
	"github.com/mhollis/cram-api/internal/platform/memory"
)

// fixture bundles the stores and service under test with a fixed clock.
type fixture struct {
	sets    *memory.FlashcardSetStore
	cards   *memory.FlashcardStore
	service Service
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	sets := memory.NewFlashcardSetStore()
	cards := memory.NewFlashcardStore(sets)
	svc := NewService(cards, sets, schedule.NewDefaultService(), nil)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.(*serviceImpl).timeFunc = func() time.Time { return now }

	return &fixture{sets: sets, cards: cards, service: svc, now: now}
}

// addCard creates a set owned by userID with one card in it.
func (f *fixture) addCard(t *testing.T, userID uuid.UUID) *domain.Flashcard {
	t.Helper()
	ctx := context.Background()

	set, err := domain.NewFlashcardSet(userID, nil, "Go basics")
	require.NoError(t, err)
	require.NoError(t, f.sets.Create(ctx, set))

	card, err := domain.NewFlashcard(set.ID, "What does iota do?", "Auto-increments const values", domain.DifficultyMedium)
	require.NoError(t, err)
	require.NoError(t, f.cards.Create(ctx, card))

	return card
}

func TestReviewCard(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		rating         domain.Difficulty
		wantNextReview time.Time
	}{
		{"easy", domain.DifficultyEasy, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)},
		{"medium", domain.DifficultyMedium, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"hard", domain.DifficultyHard, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			userID := uuid.New()
			card := f.addCard(t, userID)

			updated, err := f.service.ReviewCard(context.Background(), userID, card.ID, ReviewAnswer{Rating: tc.rating})
			require.NoError(t, err)

			assert.Equal(t, tc.rating, updated.Difficulty)
			assert.Equal(t, 1, updated.Repetitions)
			require.NotNil(t, updated.LastReviewed)
			assert.True(t, updated.LastReviewed.Equal(f.now))
			require.NotNil(t, updated.NextReview)
			assert.True(t, updated.NextReview.Equal(tc.wantNextReview),
				"expected NextReview %v, got %v", tc.wantNextReview, updated.NextReview)

			// The new state is persisted, not just returned.
			stored, err := f.cards.GetByID(context.Background(), card.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, stored.Repetitions)
			assert.True(t, stored.NextReview.Equal(tc.wantNextReview))
		})
	}
}

func TestReviewCardInvalidRating(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()
	card := f.addCard(t, userID)

	updated, err := f.service.ReviewCard(context.Background(), userID, card.ID, ReviewAnswer{Rating: "impossible"})
	assert.ErrorIs(t, err, ErrInvalidRating)
	assert.Nil(t, updated)

	// The card is untouched.
	stored, err := f.cards.GetByID(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Repetitions)
	assert.Nil(t, stored.LastReviewed)
}

func TestReviewCardNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	updated, err := f.service.ReviewCard(context.Background(), uuid.New(), uuid.New(), ReviewAnswer{Rating: domain.DifficultyEasy})
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.Nil(t, updated)
}

func TestReviewCardNotOwned(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := uuid.New()
	card := f.addCard(t, owner)

	updated, err := f.service.ReviewCard(context.Background(), uuid.New(), card.ID, ReviewAnswer{Rating: domain.DifficultyEasy})
	assert.ErrorIs(t, err, ErrCardNotOwned)
	assert.Nil(t, updated)

	stored, err := f.cards.GetByID(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Repetitions)
}

func TestReviewCardAccumulatesRepetitions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()
	card := f.addCard(t, userID)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		updated, err := f.service.ReviewCard(ctx, userID, card.ID, ReviewAnswer{Rating: domain.DifficultyHard})
		require.NoError(t, err)
		assert.Equal(t, i, updated.Repetitions)
	}
}

func TestGetNextCard(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()
	card := f.addCard(t, userID)

	// An unseen card is always due.
	next, err := f.service.GetNextCard(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, card.ID, next.ID)
}

func TestGetNextCardNoneDue(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()

	next, err := f.service.GetNextCard(context.Background(), userID)
	assert.ErrorIs(t, err, ErrNoCardsDue)
	assert.Nil(t, next)
}

func TestGetNextCardIgnoresForeignCards(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.addCard(t, uuid.New())

	next, err := f.service.GetNextCard(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNoCardsDue)
	assert.Nil(t, next)
}

func TestPostponeCard(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()
	card := f.addCard(t, userID)
	ctx := context.Background()

	// Review once so the card has a schedule to push.
	reviewed, err := f.service.ReviewCard(ctx, userID, card.ID, ReviewAnswer{Rating: domain.DifficultyMedium})
	require.NoError(t, err)

	updated, err := f.service.PostponeCard(ctx, userID, card.ID, 2)
	require.NoError(t, err)

	want := reviewed.NextReview.AddDate(0, 0, 2)
	require.NotNil(t, updated.NextReview)
	assert.True(t, updated.NextReview.Equal(want),
		"expected NextReview %v, got %v", want, updated.NextReview)
	assert.Equal(t, reviewed.Repetitions, updated.Repetitions)
}

func TestPostponeCardNeverReviewed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()
	card := f.addCard(t, userID)

	updated, err := f.service.PostponeCard(context.Background(), userID, card.ID, 1)
	assert.ErrorIs(t, err, ErrCardNotScheduled)
	assert.Nil(t, updated)
}

func TestPostponeCardInvalidDays(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()
	card := f.addCard(t, userID)
	ctx := context.Background()

	_, err := f.service.ReviewCard(ctx, userID, card.ID, ReviewAnswer{Rating: domain.DifficultyMedium})
	require.NoError(t, err)

	updated, err := f.service.PostponeCard(ctx, userID, card.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidPostponeDays)
	assert.Nil(t, updated)
}

func TestReviewCardSetDeleted(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()
	card := f.addCard(t, userID)
	ctx := context.Background()

	require.NoError(t, f.sets.Delete(ctx, card.SetID))

	_, err := f.service.ReviewCard(ctx, userID, card.ID, ReviewAnswer{Rating: domain.DifficultyEasy})
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestNewServicePanicsOnNilDeps(t *testing.T) {
	t.Parallel()

	sets := memory.NewFlashcardSetStore()
	cards := memory.NewFlashcardStore(sets)
	scheduler := schedule.NewDefaultService()

	assert.Panics(t, func() { NewService(nil, sets, scheduler, nil) })
	assert.Panics(t, func() { NewService(cards, nil, scheduler, nil) })
	assert.Panics(t, func() { NewService(cards, sets, nil, nil) })
}
