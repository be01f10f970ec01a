package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mhollis/cram-api/internal/api/shared"
	"github.com/mhollis/cram-api/internal/config"
	"github.com/mhollis/cram-api/internal/domain/schedule"
	"github.com/mhollis/cram-api/internal/platform/memory"
	"github.com/mhollis/cram-api/internal/service/auth"
	"github.com/mhollis/cram-api/internal/service/review"
)

const testPassword = "a sufficiently long password"

func testJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-secret-key-thats-long-enough-for-hmac",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	}
}

// testEnv bundles the in-memory stores and handlers under test.
type testEnv struct {
	users    *memory.UserStore
	docs     *memory.DocumentStore
	notes    *memory.NoteStore
	sets     *memory.FlashcardSetStore
	cards    *memory.FlashcardStore
	quizzes  *memory.QuizStore
	attempts *memory.QuizAttemptStore
	messages *memory.ChatMessageStore

	jwt auth.JWTService

	authHandler      *AuthHandler
	documentHandler  *DocumentHandler
	noteHandler      *NoteHandler
	flashcardHandler *FlashcardHandler
	quizHandler      *QuizHandler
	chatHandler      *ChatHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:    memory.NewUserStore(),
		docs:     memory.NewDocumentStore(),
		notes:    memory.NewNoteStore(),
		sets:     memory.NewFlashcardSetStore(),
		quizzes:  memory.NewQuizStore(),
		attempts: memory.NewQuizAttemptStore(),
		messages: memory.NewChatMessageStore(),
	}
	env.cards = memory.NewFlashcardStore(env.sets)

	jwtService, err := auth.NewJWTService(testJWTConfig())
	require.NoError(t, err)
	env.jwt = jwtService

	reviewService := review.NewService(env.cards, env.sets, schedule.NewDefaultService(), nil)

	env.authHandler = NewAuthHandler(
		env.users,
		jwtService,
		auth.NewBcryptHasher(bcrypt.MinCost),
		auth.NewBcryptVerifier(),
		testJWTConfig(),
		nil,
	)
	env.documentHandler = NewDocumentHandler(env.docs, nil)
	env.noteHandler = NewNoteHandler(env.notes, nil)
	env.flashcardHandler = NewFlashcardHandler(env.sets, env.cards, reviewService, nil)
	env.quizHandler = NewQuizHandler(env.quizzes, env.attempts, nil)
	env.chatHandler = NewChatHandler(env.messages, nil)

	return env
}

// router mounts every route the way the server does, with requests
// authenticated as the given user.
func (env *testEnv) router(userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	r.Post("/documents", env.documentHandler.Create)
	r.Get("/documents", env.documentHandler.List)
	r.Get("/documents/{id}", env.documentHandler.Get)
	r.Patch("/documents/{id}", env.documentHandler.Update)
	r.Delete("/documents/{id}", env.documentHandler.Delete)

	r.Post("/notes", env.noteHandler.Create)
	r.Get("/notes", env.noteHandler.List)
	r.Get("/notes/{id}", env.noteHandler.Get)
	r.Patch("/notes/{id}", env.noteHandler.Update)
	r.Delete("/notes/{id}", env.noteHandler.Delete)

	r.Post("/flashcard-sets", env.flashcardHandler.CreateSet)
	r.Get("/flashcard-sets", env.flashcardHandler.ListSets)
	r.Get("/flashcard-sets/{id}", env.flashcardHandler.GetSet)
	r.Patch("/flashcard-sets/{id}", env.flashcardHandler.UpdateSet)
	r.Delete("/flashcard-sets/{id}", env.flashcardHandler.DeleteSet)
	r.Post("/flashcard-sets/{id}/cards", env.flashcardHandler.CreateCard)
	r.Get("/flashcard-sets/{id}/cards", env.flashcardHandler.ListCards)

	r.Get("/flashcards/next", env.flashcardHandler.GetNextReviewCard)
	r.Get("/flashcards/{id}", env.flashcardHandler.GetCard)
	r.Patch("/flashcards/{id}", env.flashcardHandler.UpdateCard)
	r.Delete("/flashcards/{id}", env.flashcardHandler.DeleteCard)
	r.Post("/flashcards/{id}/review", env.flashcardHandler.ReviewCard)
	r.Post("/flashcards/{id}/postpone", env.flashcardHandler.PostponeCard)

	r.Post("/quizzes", env.quizHandler.Create)
	r.Get("/quizzes", env.quizHandler.List)
	r.Get("/quizzes/{id}", env.quizHandler.Get)
	r.Patch("/quizzes/{id}", env.quizHandler.Update)
	r.Delete("/quizzes/{id}", env.quizHandler.Delete)
	r.Post("/quizzes/{id}/attempts", env.quizHandler.CreateAttempt)
	r.Get("/quizzes/{id}/attempts", env.quizHandler.ListAttempts)

	r.Post("/chat/messages", env.chatHandler.Create)
	r.Get("/chat/messages", env.chatHandler.List)

	return r
}

// publicRouter mounts the unauthenticated routes.
func (env *testEnv) publicRouter() http.Handler {
	r := chi.NewRouter()
	r.Post("/auth/register", env.authHandler.Register)
	r.Post("/auth/login", env.authHandler.Login)
	r.Post("/auth/refresh", env.authHandler.RefreshToken)
	r.Get("/shared/flashcard-sets/{publicID}", env.flashcardHandler.GetSharedSet)
	return r
}

// doJSON performs a request with an optional JSON body and returns the
// recorded response.
func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a recorded JSON response body into out.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
