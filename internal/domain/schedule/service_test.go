package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/cram-api/internal/domain"
)

func newReviewedCard(t *testing.T, repetitions int, lastReviewed, nextReview time.Time) *domain.Flashcard {
	t.Helper()

	card, err := domain.NewFlashcard(uuid.New(), "What is the capital of France?", "Paris", domain.DifficultyMedium)
	require.NoError(t, err)

	card.Repetitions = repetitions
	card.LastReviewed = &lastReviewed
	card.NextReview = &nextReview
	return card
}

func TestCalculateNextReview(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		rating         domain.Difficulty
		wantNextReview time.Time
	}{
		{
			name:           "easy schedules three days out",
			rating:         domain.DifficultyEasy,
			wantNextReview: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:           "medium schedules one day out",
			rating:         domain.DifficultyMedium,
			wantNextReview: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:           "hard schedules twelve hours out",
			rating:         domain.DifficultyHard,
			wantNextReview: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service := NewDefaultService()
			card, err := domain.NewFlashcard(uuid.New(), "Q", "A", domain.DifficultyMedium)
			require.NoError(t, err)
			card.Repetitions = 3

			updated, err := service.CalculateNextReview(card, tc.rating, now)
			require.NoError(t, err)
			require.NotNil(t, updated)

			assert.Equal(t, tc.rating, updated.Difficulty)
			require.NotNil(t, updated.LastReviewed)
			assert.True(t, updated.LastReviewed.Equal(now),
				"expected LastReviewed %v, got %v", now, updated.LastReviewed)
			require.NotNil(t, updated.NextReview)
			assert.True(t, updated.NextReview.Equal(tc.wantNextReview),
				"expected NextReview %v, got %v", tc.wantNextReview, updated.NextReview)
			assert.Equal(t, 4, updated.Repetitions)
		})
	}
}

func TestCalculateNextReviewDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()
	card, err := domain.NewFlashcard(uuid.New(), "Q", "A", domain.DifficultyHard)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = service.CalculateNextReview(card, domain.DifficultyEasy, now)
	require.NoError(t, err)

	assert.Equal(t, domain.DifficultyHard, card.Difficulty)
	assert.Nil(t, card.LastReviewed)
	assert.Nil(t, card.NextReview)
	assert.Equal(t, 0, card.Repetitions)
}

func TestCalculateNextReviewPreservesEasinessFactor(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()
	card, err := domain.NewFlashcard(uuid.New(), "Q", "A", domain.DifficultyMedium)
	require.NoError(t, err)
	card.EasinessFactor = 310

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated, err := service.CalculateNextReview(card, domain.DifficultyMedium, now)
	require.NoError(t, err)

	assert.Equal(t, 310, updated.EasinessFactor)
}

func TestCalculateNextReviewInvalidRating(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()
	card, err := domain.NewFlashcard(uuid.New(), "Q", "A", domain.DifficultyMedium)
	require.NoError(t, err)

	now := time.Now().UTC()
	for _, rating := range []domain.Difficulty{"", "impossible", "EASY", "Medium"} {
		updated, err := service.CalculateNextReview(card, rating, now)
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %q", rating)
		assert.Nil(t, updated)
	}
}

func TestCalculateNextReviewNilCard(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()
	updated, err := service.CalculateNextReview(nil, domain.DifficultyEasy, time.Now().UTC())
	assert.ErrorIs(t, err, ErrNilCard)
	assert.Nil(t, updated)
}

func TestCalculateNextReviewCustomParams(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{EasyInterval: 7 * 24 * time.Hour})
	service := NewServiceWithParams(params)

	card, err := domain.NewFlashcard(uuid.New(), "Q", "A", domain.DifficultyMedium)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated, err := service.CalculateNextReview(card, domain.DifficultyEasy, now)
	require.NoError(t, err)

	want := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	assert.True(t, updated.NextReview.Equal(want),
		"expected NextReview %v, got %v", want, updated.NextReview)

	// Medium keeps its default.
	updated, err = service.CalculateNextReview(card, domain.DifficultyMedium, now)
	require.NoError(t, err)
	assert.True(t, updated.NextReview.Equal(now.Add(24*time.Hour)))
}

func TestPostponeReview(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()
	lastReviewed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	nextReview := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	card := newReviewedCard(t, 1, lastReviewed, nextReview)

	now := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	updated, err := service.PostponeReview(card, 3, now)
	require.NoError(t, err)

	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	require.NotNil(t, updated.NextReview)
	assert.True(t, updated.NextReview.Equal(want),
		"expected NextReview %v, got %v", want, updated.NextReview)

	// Postponing only moves the schedule; the review history is untouched.
	assert.Equal(t, 1, updated.Repetitions)
	require.NotNil(t, updated.LastReviewed)
	assert.True(t, updated.LastReviewed.Equal(lastReviewed))

	// Input unchanged.
	assert.True(t, card.NextReview.Equal(nextReview))
}

func TestPostponeReviewInvalidDays(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()
	card := newReviewedCard(t, 1,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	for _, days := range []int{0, -1, -30} {
		updated, err := service.PostponeReview(card, days, time.Now().UTC())
		assert.ErrorIs(t, err, ErrInvalidDays, "days %d", days)
		assert.Nil(t, updated)
	}
}

func TestPostponeReviewUnscheduledCard(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()
	card, err := domain.NewFlashcard(uuid.New(), "Q", "A", domain.DifficultyMedium)
	require.NoError(t, err)

	updated, err := service.PostponeReview(card, 1, time.Now().UTC())
	assert.ErrorIs(t, err, ErrCardNotScheduled)
	assert.Nil(t, updated)
}
