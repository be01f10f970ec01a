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

// ChatHandler handles chat message HTTP requests. The log is append-only;
// producing assistant replies is an external collaborator's job.
type ChatHandler struct {
	messages store.ChatMessageStore
	logger   *slog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(messages store.ChatMessageStore, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &ChatHandler{
		messages: messages,
		logger:   logger.With(slog.String("component", "chat_handler")),
	}
}

// Create handles POST /chat/messages requests.
func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateChatMessageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	msg, err := domain.NewChatMessage(userID, req.DocumentID, domain.ChatRole(req.Role), req.Content)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid chat message data", err)
		return
	}

	if err := h.messages.Create(r.Context(), msg); err != nil {
		HandleAPIError(w, r, err, "Failed to record chat message")
		return
	}

	log.Debug("chat message recorded",
		slog.String("user_id", userID.String()),
		slog.String("message_id", msg.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, messageToResponse(msg))
}

// List handles GET /chat/messages requests. An optional document_id query
// parameter narrows the result to the conversation held over that document.
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var msgs []*domain.ChatMessage
	var err error

	if docParam := r.URL.Query().Get("document_id"); docParam != "" {
		docID, parseErr := uuid.Parse(docParam)
		if parseErr != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid document_id format")
			return
		}
		msgs, err = h.messages.ListByDocumentID(r.Context(), docID)
	} else {
		msgs, err = h.messages.ListByUserID(r.Context(), userID)
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list chat messages")
		return
	}

	responses := make([]ChatMessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		if msg.UserID != userID {
			continue
		}
		responses = append(responses, messageToResponse(msg))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
