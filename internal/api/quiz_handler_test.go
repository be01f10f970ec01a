package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testQuestions = json.RawMessage(`[{"prompt":"What is a nil map read?","choices":["panic","zero value"],"answer":1}]`)

func createQuiz(t *testing.T, env *testEnv, userID uuid.UUID, title string) QuizResponse {
	t.Helper()

	rec := doJSON(t, env.router(userID), http.MethodPost, "/quizzes", CreateQuizRequest{
		Title:     title,
		Questions: testQuestions,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp QuizResponse
	decodeBody(t, rec, &resp)
	return resp
}

func TestCreateQuiz(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()

	quiz := createQuiz(t, env, userID, "Maps and slices")
	assert.Equal(t, "Maps and slices", quiz.Title)
	assert.JSONEq(t, string(testQuestions), string(quiz.Questions))
}

func TestCreateQuizMissingQuestions(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := doJSON(t, env.router(uuid.New()), http.MethodPost, "/quizzes", CreateQuizRequest{
		Title: "Empty quiz",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateQuizReplacesQuestions(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	quiz := createQuiz(t, env, userID, "Original")

	replacement := json.RawMessage(`[{"prompt":"New question","choices":["a","b"],"answer":0}]`)
	rec := doJSON(t, env.router(userID), http.MethodPatch, "/quizzes/"+quiz.ID, UpdateQuizRequest{
		Questions: replacement,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated QuizResponse
	decodeBody(t, rec, &updated)
	assert.JSONEq(t, string(replacement), string(updated.Questions))
	assert.Equal(t, "Original", updated.Title)
}

func TestQuizOwnership(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	quiz := createQuiz(t, env, uuid.New(), "Private quiz")

	rec := doJSON(t, env.router(uuid.New()), http.MethodGet, "/quizzes/"+quiz.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAndListQuizAttempts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	quiz := createQuiz(t, env, userID, "Graded quiz")

	rec := doJSON(t, env.router(userID), http.MethodPost, "/quizzes/"+quiz.ID+"/attempts", CreateQuizAttemptRequest{
		Answers: json.RawMessage(`[1]`),
		Score:   80,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var attempt QuizAttemptResponse
	decodeBody(t, rec, &attempt)
	assert.Equal(t, quiz.ID, attempt.QuizID)
	assert.Equal(t, 80, attempt.Score)

	rec = doJSON(t, env.router(userID), http.MethodGet, "/quizzes/"+quiz.ID+"/attempts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []QuizAttemptResponse
	decodeBody(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, attempt.ID, list[0].ID)
}

func TestCreateQuizAttemptScoreOutOfRange(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	quiz := createQuiz(t, env, userID, "Graded quiz")

	rec := doJSON(t, env.router(userID), http.MethodPost, "/quizzes/"+quiz.ID+"/attempts", CreateQuizAttemptRequest{
		Answers: json.RawMessage(`[1]`),
		Score:   101,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateQuizAttemptForeignQuiz(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	quiz := createQuiz(t, env, uuid.New(), "Someone else's quiz")

	rec := doJSON(t, env.router(uuid.New()), http.MethodPost, "/quizzes/"+quiz.ID+"/attempts", CreateQuizAttemptRequest{
		Answers: json.RawMessage(`[1]`),
		Score:   50,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteQuiz(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	quiz := createQuiz(t, env, userID, "Disposable quiz")

	rec := doJSON(t, env.router(userID), http.MethodDelete, "/quizzes/"+quiz.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, env.router(userID), http.MethodGet, "/quizzes/"+quiz.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
