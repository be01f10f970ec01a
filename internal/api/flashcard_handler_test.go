package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSet(t *testing.T, env *testEnv, userID uuid.UUID, title string) FlashcardSetResponse {
	t.Helper()

	rec := doJSON(t, env.router(userID), http.MethodPost, "/flashcard-sets", CreateFlashcardSetRequest{Title: title})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp FlashcardSetResponse
	decodeBody(t, rec, &resp)
	return resp
}

func createCard(t *testing.T, env *testEnv, userID uuid.UUID, setID string) FlashcardResponse {
	t.Helper()

	rec := doJSON(t, env.router(userID), http.MethodPost, "/flashcard-sets/"+setID+"/cards", CreateFlashcardRequest{
		Question: "What keyword starts a goroutine?",
		Answer:   "go",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp FlashcardResponse
	decodeBody(t, rec, &resp)
	return resp
}

func TestCreateSetAndListSets(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()

	set := createSet(t, env, userID, "Go fundamentals")
	assert.Equal(t, "Go fundamentals", set.Title)
	assert.NotEmpty(t, set.PublicID)
	assert.Equal(t, 0, set.CardCount)

	rec := doJSON(t, env.router(userID), http.MethodGet, "/flashcard-sets", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []FlashcardSetResponse
	decodeBody(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, set.ID, list[0].ID)
}

func TestGetSetNotOwned(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	set := createSet(t, env, uuid.New(), "Someone else's deck")

	// A foreign set looks like a missing one.
	rec := doJSON(t, env.router(uuid.New()), http.MethodGet, "/flashcard-sets/"+set.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCardMaintainsCardCount(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	set := createSet(t, env, userID, "Counted deck")

	card := createCard(t, env, userID, set.ID)
	assert.Equal(t, "medium", card.Difficulty)
	assert.Equal(t, 0, card.Repetitions)
	assert.Nil(t, card.NextReview)

	rec := doJSON(t, env.router(userID), http.MethodGet, "/flashcard-sets/"+set.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got FlashcardSetResponse
	decodeBody(t, rec, &got)
	assert.Equal(t, 1, got.CardCount)

	rec = doJSON(t, env.router(userID), http.MethodDelete, "/flashcards/"+card.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, env.router(userID), http.MethodGet, "/flashcard-sets/"+set.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &got)
	assert.Equal(t, 0, got.CardCount)
}

func TestUpdateCard(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	set := createSet(t, env, userID, "Deck")
	card := createCard(t, env, userID, set.ID)

	answer := "the go statement"
	rec := doJSON(t, env.router(userID), http.MethodPatch, "/flashcards/"+card.ID, UpdateFlashcardRequest{
		Answer: &answer,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated FlashcardResponse
	decodeBody(t, rec, &updated)
	assert.Equal(t, answer, updated.Answer)
	assert.Equal(t, card.Question, updated.Question)
}

func TestReviewCard(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	set := createSet(t, env, userID, "Review deck")
	card := createCard(t, env, userID, set.ID)

	before := time.Now().UTC()
	rec := doJSON(t, env.router(userID), http.MethodPost, "/flashcards/"+card.ID+"/review", ReviewFlashcardRequest{
		Rating: "easy",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var reviewed FlashcardResponse
	decodeBody(t, rec, &reviewed)
	assert.Equal(t, "easy", reviewed.Difficulty)
	assert.Equal(t, 1, reviewed.Repetitions)
	require.NotNil(t, reviewed.LastReviewed)
	require.NotNil(t, reviewed.NextReview)

	// Easy schedules roughly three days out.
	gap := reviewed.NextReview.Sub(*reviewed.LastReviewed)
	assert.Equal(t, 72*time.Hour, gap)
	assert.False(t, reviewed.LastReviewed.Before(before.Add(-time.Minute)))
}

func TestReviewCardInvalidRating(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	set := createSet(t, env, userID, "Deck")
	card := createCard(t, env, userID, set.ID)

	rec := doJSON(t, env.router(userID), http.MethodPost, "/flashcards/"+card.ID+"/review", map[string]string{
		"rating": "impossible",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewCardNotOwned(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	owner := uuid.New()
	set := createSet(t, env, owner, "Deck")
	card := createCard(t, env, owner, set.ID)

	rec := doJSON(t, env.router(uuid.New()), http.MethodPost, "/flashcards/"+card.ID+"/review", ReviewFlashcardRequest{
		Rating: "easy",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReviewCardNotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := doJSON(t, env.router(uuid.New()), http.MethodPost, "/flashcards/"+uuid.NewString()+"/review", ReviewFlashcardRequest{
		Rating: "easy",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetNextReviewCard(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	set := createSet(t, env, userID, "Deck")
	card := createCard(t, env, userID, set.ID)

	rec := doJSON(t, env.router(userID), http.MethodGet, "/flashcards/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var next FlashcardResponse
	decodeBody(t, rec, &next)
	assert.Equal(t, card.ID, next.ID)
}

func TestGetNextReviewCardNoneDue(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	set := createSet(t, env, userID, "Deck")
	card := createCard(t, env, userID, set.ID)

	// After an easy review the card is scheduled three days out, so nothing
	// is due.
	rec := doJSON(t, env.router(userID), http.MethodPost, "/flashcards/"+card.ID+"/review", ReviewFlashcardRequest{
		Rating: "easy",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env.router(userID), http.MethodGet, "/flashcards/next", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestPostponeCard(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	set := createSet(t, env, userID, "Deck")
	card := createCard(t, env, userID, set.ID)

	rec := doJSON(t, env.router(userID), http.MethodPost, "/flashcards/"+card.ID+"/review", ReviewFlashcardRequest{
		Rating: "medium",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var reviewed FlashcardResponse
	decodeBody(t, rec, &reviewed)

	rec = doJSON(t, env.router(userID), http.MethodPost, "/flashcards/"+card.ID+"/postpone", PostponeFlashcardRequest{
		Days: 2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var postponed FlashcardResponse
	decodeBody(t, rec, &postponed)
	require.NotNil(t, postponed.NextReview)
	want := reviewed.NextReview.AddDate(0, 0, 2)
	assert.True(t, postponed.NextReview.Equal(want),
		"expected NextReview %v, got %v", want, postponed.NextReview)
}

func TestPostponeCardNeverReviewed(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	set := createSet(t, env, userID, "Deck")
	card := createCard(t, env, userID, set.ID)

	rec := doJSON(t, env.router(userID), http.MethodPost, "/flashcards/"+card.ID+"/postpone", PostponeFlashcardRequest{
		Days: 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSharedSet(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	set := createSet(t, env, userID, "Public deck")
	createCard(t, env, userID, set.ID)

	// The share endpoint needs no authentication.
	rec := doJSON(t, env.publicRouter(), http.MethodGet, "/shared/flashcard-sets/"+set.PublicID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Set   FlashcardSetResponse `json:"set"`
		Cards []FlashcardResponse  `json:"cards"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, set.ID, resp.Set.ID)
	require.Len(t, resp.Cards, 1)
}

func TestGetSharedSetUnknownSlug(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := doJSON(t, env.publicRouter(), http.MethodGet, "/shared/flashcard-sets/no-such-slug", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSetRemovesCards(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	set := createSet(t, env, userID, "Doomed deck")
	card := createCard(t, env, userID, set.ID)

	rec := doJSON(t, env.router(userID), http.MethodDelete, "/flashcard-sets/"+set.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, env.router(userID), http.MethodGet, "/flashcards/"+card.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
