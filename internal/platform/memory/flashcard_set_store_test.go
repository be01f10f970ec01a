package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/cram-api/internal/domain"
	"github.com/mhollis/cram-api/internal/store"
)

func TestFlashcardSetStoreCreateAndGet(t *testing.T) {
	t.Parallel()

	s := NewFlashcardSetStore()
	ctx := context.Background()
	userID := uuid.New()

	set, err := domain.NewFlashcardSet(userID, nil, "Concurrency patterns")
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, set))

	got, err := s.GetByID(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, "Concurrency patterns", got.Title)
	assert.Equal(t, userID, got.UserID)
	assert.NotEmpty(t, got.PublicID)
}

func TestFlashcardSetStoreGetByPublicID(t *testing.T) {
	t.Parallel()

	s := NewFlashcardSetStore()
	ctx := context.Background()

	set, err := domain.NewFlashcardSet(uuid.New(), nil, "Shared deck")
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, set))

	got, err := s.GetByPublicID(ctx, set.PublicID)
	require.NoError(t, err)
	assert.Equal(t, set.ID, got.ID)

	_, err = s.GetByPublicID(ctx, "no-such-slug")
	assert.ErrorIs(t, err, store.ErrSetNotFound)
}

func TestFlashcardSetStoreUpdate(t *testing.T) {
	t.Parallel()

	s := NewFlashcardSetStore()
	ctx := context.Background()

	set, err := domain.NewFlashcardSet(uuid.New(), nil, "Old title")
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, set))

	title := "New title"
	updated, err := s.Update(ctx, set.ID, store.FlashcardSetPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, set.PublicID, updated.PublicID)
}

func TestFlashcardSetStoreListByUserID(t *testing.T) {
	t.Parallel()

	s := NewFlashcardSetStore()
	ctx := context.Background()
	userID := uuid.New()

	for _, title := range []string{"first", "second"} {
		set, err := domain.NewFlashcardSet(userID, nil, title)
		require.NoError(t, err)
		require.NoError(t, s.Create(ctx, set))
	}
	foreign, err := domain.NewFlashcardSet(uuid.New(), nil, "foreign")
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, foreign))

	list, err := s.ListByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestFlashcardSetStoreAdjustCardCount(t *testing.T) {
	t.Parallel()

	s := NewFlashcardSetStore()
	ctx := context.Background()

	set, err := domain.NewFlashcardSet(uuid.New(), nil, "Counted")
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, set))

	require.NoError(t, s.AdjustCardCount(ctx, set.ID, 2))
	require.NoError(t, s.AdjustCardCount(ctx, set.ID, -1))

	got, err := s.GetByID(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CardCount)

	// The count never goes negative.
	require.NoError(t, s.AdjustCardCount(ctx, set.ID, -5))
	got, err = s.GetByID(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CardCount)
}

func TestFlashcardSetStoreAdjustCardCountNotFound(t *testing.T) {
	t.Parallel()

	s := NewFlashcardSetStore()
	err := s.AdjustCardCount(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, store.ErrSetNotFound)
}
