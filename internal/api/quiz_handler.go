package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/api/shared"
	"github.com/mhollis/cram-api/internal/domain"
	"github.com/mhollis/cram-api/internal/platform/logger"
	"github.com/mhollis/cram-api/internal/store"
)

// QuizHandler handles quiz and quiz attempt HTTP requests.
type QuizHandler struct {
	quizzes  store.QuizStore
	attempts store.QuizAttemptStore
	logger   *slog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(
	quizzes store.QuizStore,
	attempts store.QuizAttemptStore,
	logger *slog.Logger,
) *QuizHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &QuizHandler{
		quizzes:  quizzes,
		attempts: attempts,
		logger:   logger.With(slog.String("component", "quiz_handler")),
	}
}

// Create handles POST /quizzes requests.
func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	quiz, err := domain.NewQuiz(userID, req.DocumentID, req.Title, req.Questions)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid quiz data", err)
		return
	}

	if err := h.quizzes.Create(r.Context(), quiz); err != nil {
		HandleAPIError(w, r, err, "Failed to create quiz")
		return
	}

	log.Debug("quiz created",
		slog.String("user_id", userID.String()),
		slog.String("quiz_id", quiz.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, quizToResponse(quiz))
}

// Get handles GET /quizzes/{id} requests.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, quizID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	quiz, ok := h.ownedQuiz(w, r, userID, quizID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, quizToResponse(quiz))
}

// List handles GET /quizzes requests.
func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	quizzes, err := h.quizzes.ListByUserID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list quizzes")
		return
	}

	responses := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, quizToResponse(quiz))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Update handles PATCH /quizzes/{id} requests.
func (h *QuizHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, quizID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if _, ok := h.ownedQuiz(w, r, userID, quizID); !ok {
		return
	}

	quiz, err := h.quizzes.Update(r.Context(), quizID, store.QuizPatch{
		Title:     req.Title,
		Questions: req.Questions,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update quiz")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, quizToResponse(quiz))
}

// Delete handles DELETE /quizzes/{id} requests. Recorded attempts are
// removed with the quiz.
func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, quizID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if _, ok := h.ownedQuiz(w, r, userID, quizID); !ok {
		return
	}

	if err := h.quizzes.Delete(r.Context(), quizID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete quiz")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateAttempt handles POST /quizzes/{id}/attempts requests. Attempts are
// append-only; there is no update or delete.
func (h *QuizHandler) CreateAttempt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, quizID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req CreateQuizAttemptRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if _, ok := h.ownedQuiz(w, r, userID, quizID); !ok {
		return
	}

	attempt, err := domain.NewQuizAttempt(quizID, userID, req.Answers, req.Score)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid quiz attempt data", err)
		return
	}

	if err := h.attempts.Create(r.Context(), attempt); err != nil {
		HandleAPIError(w, r, err, "Failed to record quiz attempt")
		return
	}

	log.Debug("quiz attempt recorded",
		slog.String("user_id", userID.String()),
		slog.String("quiz_id", quizID.String()),
		slog.Int("score", attempt.Score))
	shared.RespondWithJSON(w, r, http.StatusCreated, attemptToResponse(attempt))
}

// ListAttempts handles GET /quizzes/{id}/attempts requests.
func (h *QuizHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, quizID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if _, ok := h.ownedQuiz(w, r, userID, quizID); !ok {
		return
	}

	attempts, err := h.attempts.ListByQuizID(r.Context(), quizID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list quiz attempts")
		return
	}

	responses := make([]QuizAttemptResponse, 0, len(attempts))
	for _, attempt := range attempts {
		responses = append(responses, attemptToResponse(attempt))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// ownedQuiz loads a quiz and verifies the requesting user owns it, writing
// an error response on failure. Foreign quizzes are reported as not found.
func (h *QuizHandler) ownedQuiz(
	w http.ResponseWriter,
	r *http.Request,
	userID, quizID uuid.UUID,
) (*domain.Quiz, bool) {
	quiz, err := h.quizzes.GetByID(r.Context(), quizID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}

	if quiz.UserID != userID {
		HandleAPIError(w, r, store.ErrQuizNotFound, "")
		return nil, false
	}

	return quiz, true
}
