package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/api/shared"
	"github.com/mhollis/cram-api/internal/domain"
	"github.com/mhollis/cram-api/internal/platform/logger"
	"github.com/mhollis/cram-api/internal/service/review"
	"github.com/mhollis/cram-api/internal/store"
)

// FlashcardHandler handles flashcard set and card HTTP requests, including
// the review workflow.
type FlashcardHandler struct {
	sets          store.FlashcardSetStore
	cards         store.FlashcardStore
	reviewService review.Service
	logger        *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler.
func NewFlashcardHandler(
	sets store.FlashcardSetStore,
	cards store.FlashcardStore,
	reviewService review.Service,
	logger *slog.Logger,
) *FlashcardHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &FlashcardHandler{
		sets:          sets,
		cards:         cards,
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "flashcard_handler")),
	}
}

// CreateSet handles POST /flashcard-sets requests.
func (h *FlashcardHandler) CreateSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateFlashcardSetRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	set, err := domain.NewFlashcardSet(userID, req.DocumentID, req.Title)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid flashcard set data", err)
		return
	}

	if err := h.sets.Create(r.Context(), set); err != nil {
		HandleAPIError(w, r, err, "Failed to create flashcard set")
		return
	}

	log.Debug("flashcard set created",
		slog.String("user_id", userID.String()),
		slog.String("set_id", set.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, setToResponse(set))
}

// GetSet handles GET /flashcard-sets/{id} requests.
func (h *FlashcardHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	set, ok := h.ownedSet(w, r, userID, setID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, setToResponse(set))
}

// GetSharedSet handles GET /shared/flashcard-sets/{publicID} requests. The
// share slug grants read access to the set and its cards without
// authentication.
func (h *FlashcardHandler) GetSharedSet(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")
	if publicID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Share ID is required")
		return
	}

	set, err := h.sets.GetByPublicID(r.Context(), publicID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.cards.ListBySetID(r.Context(), set.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load shared flashcard set")
		return
	}

	cardResponses := make([]FlashcardResponse, 0, len(cards))
	for _, card := range cards {
		cardResponses = append(cardResponses, cardToResponse(card))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, struct {
		Set   FlashcardSetResponse `json:"set"`
		Cards []FlashcardResponse  `json:"cards"`
	}{
		Set:   setToResponse(set),
		Cards: cardResponses,
	})
}

// ListSets handles GET /flashcard-sets requests.
func (h *FlashcardHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	sets, err := h.sets.ListByUserID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list flashcard sets")
		return
	}

	responses := make([]FlashcardSetResponse, 0, len(sets))
	for _, set := range sets {
		responses = append(responses, setToResponse(set))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// UpdateSet handles PATCH /flashcard-sets/{id} requests.
func (h *FlashcardHandler) UpdateSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateFlashcardSetRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if _, ok := h.ownedSet(w, r, userID, setID); !ok {
		return
	}

	set, err := h.sets.Update(r.Context(), setID, store.FlashcardSetPatch{Title: req.Title})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update flashcard set")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, setToResponse(set))
}

// DeleteSet handles DELETE /flashcard-sets/{id} requests. Cards in the set
// are removed with it.
func (h *FlashcardHandler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if _, ok := h.ownedSet(w, r, userID, setID); !ok {
		return
	}

	if err := h.sets.Delete(r.Context(), setID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete flashcard set")
		return
	}

	log.Debug("flashcard set deleted",
		slog.String("user_id", userID.String()),
		slog.String("set_id", setID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// CreateCard handles POST /flashcard-sets/{id}/cards requests.
func (h *FlashcardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req CreateFlashcardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if _, ok := h.ownedSet(w, r, userID, setID); !ok {
		return
	}

	card, err := domain.NewFlashcard(setID, req.Question, req.Answer, domain.Difficulty(req.Difficulty))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid flashcard data", err)
		return
	}

	if err := h.cards.Create(r.Context(), card); err != nil {
		HandleAPIError(w, r, err, "Failed to create flashcard")
		return
	}

	if err := h.sets.AdjustCardCount(r.Context(), setID, 1); err != nil {
		log.Error("failed to adjust card count after create",
			slog.String("error", err.Error()),
			slog.String("set_id", setID.String()))
	}

	log.Debug("flashcard created",
		slog.String("set_id", setID.String()),
		slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// ListCards handles GET /flashcard-sets/{id}/cards requests.
func (h *FlashcardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if _, ok := h.ownedSet(w, r, userID, setID); !ok {
		return
	}

	cards, err := h.cards.ListBySetID(r.Context(), setID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list flashcards")
		return
	}

	responses := make([]FlashcardResponse, 0, len(cards))
	for _, card := range cards {
		responses = append(responses, cardToResponse(card))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetCard handles GET /flashcards/{id} requests.
func (h *FlashcardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	card, ok := h.ownedCard(w, r, userID, cardID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// UpdateCard handles PATCH /flashcards/{id} requests.
func (h *FlashcardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateFlashcardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if _, ok := h.ownedCard(w, r, userID, cardID); !ok {
		return
	}

	var difficulty *domain.Difficulty
	if req.Difficulty != nil {
		d := domain.Difficulty(*req.Difficulty)
		difficulty = &d
	}

	card, err := h.cards.Update(r.Context(), cardID, store.FlashcardPatch{
		Question:   req.Question,
		Answer:     req.Answer,
		Difficulty: difficulty,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update flashcard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /flashcards/{id} requests.
func (h *FlashcardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	card, ok := h.ownedCard(w, r, userID, cardID)
	if !ok {
		return
	}

	if err := h.cards.Delete(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete flashcard")
		return
	}

	if err := h.sets.AdjustCardCount(r.Context(), card.SetID, -1); err != nil {
		log.Error("failed to adjust card count after delete",
			slog.String("error", err.Error()),
			slog.String("set_id", card.SetID.String()))
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetNextReviewCard handles GET /flashcards/next requests. It retrieves the
// next card due for review for the authenticated user.
func (h *FlashcardHandler) GetNextReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	log.Debug("getting next review card", slog.String("user_id", userID.String()))

	card, err := h.reviewService.GetNextCard(r.Context(), userID)

	// Special case: nothing due for review.
	if errors.Is(err, review.ErrNoCardsDue) {
		log.Debug("no cards due for review", slog.String("user_id", userID.String()))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to get next review card"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("successfully retrieved next review card",
		slog.String("user_id", userID.String()),
		slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// ReviewCard handles POST /flashcards/{id}/review requests. It records the
// user's rating and updates the spaced repetition schedule.
func (h *FlashcardHandler) ReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req ReviewFlashcardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	card, err := h.reviewService.ReviewCard(
		r.Context(),
		userID,
		cardID,
		review.ReviewAnswer{Rating: domain.Difficulty(req.Rating)},
	)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to review flashcard"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("successfully reviewed flashcard",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("rating", req.Rating))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// PostponeCard handles POST /flashcards/{id}/postpone requests.
func (h *FlashcardHandler) PostponeCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req PostponeFlashcardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	card, err := h.reviewService.PostponeCard(r.Context(), userID, cardID, req.Days)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to postpone flashcard review"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("successfully postponed flashcard review",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("days", req.Days))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// ownedSet loads a set and verifies the requesting user owns it, writing an
// error response on failure. Foreign sets are reported as not found.
func (h *FlashcardHandler) ownedSet(
	w http.ResponseWriter,
	r *http.Request,
	userID, setID uuid.UUID,
) (*domain.FlashcardSet, bool) {
	set, err := h.sets.GetByID(r.Context(), setID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}

	if set.UserID != userID {
		HandleAPIError(w, r, store.ErrSetNotFound, "")
		return nil, false
	}

	return set, true
}

// ownedCard loads a card and verifies ownership through its set.
func (h *FlashcardHandler) ownedCard(
	w http.ResponseWriter,
	r *http.Request,
	userID, cardID uuid.UUID,
) (*domain.Flashcard, bool) {
	card, err := h.cards.GetByID(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}

	if _, ok := h.ownedSet(w, r, userID, card.SetID); !ok {
		return nil, false
	}

	return card, true
}
