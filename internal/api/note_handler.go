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

// NoteHandler handles note-related HTTP requests.
type NoteHandler struct {
	notes  store.NoteStore
	logger *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(notes store.NoteStore, logger *slog.Logger) *NoteHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &NoteHandler{
		notes:  notes,
		logger: logger.With(slog.String("component", "note_handler")),
	}
}

// Create handles POST /notes requests.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	note, err := domain.NewNote(userID, req.DocumentID, req.Title, req.Content)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid note data", err)
		return
	}

	if err := h.notes.Create(r.Context(), note); err != nil {
		HandleAPIError(w, r, err, "Failed to create note")
		return
	}

	log.Debug("note created",
		slog.String("user_id", userID.String()),
		slog.String("note_id", note.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, noteToResponse(note))
}

// Get handles GET /notes/{id} requests.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, noteID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	note, ok := h.ownedNote(w, r, userID, noteID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, noteToResponse(note))
}

// List handles GET /notes requests. An optional document_id query parameter
// narrows the result to notes derived from that document.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var notes []*domain.Note
	var err error

	if docParam := r.URL.Query().Get("document_id"); docParam != "" {
		docID, parseErr := uuid.Parse(docParam)
		if parseErr != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid document_id format")
			return
		}
		notes, err = h.notes.ListByDocumentID(r.Context(), docID)
	} else {
		notes, err = h.notes.ListByUserID(r.Context(), userID)
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list notes")
		return
	}

	responses := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		// Filtered lists may surface another user's notes; drop them.
		if note.UserID != userID {
			continue
		}
		responses = append(responses, noteToResponse(note))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Update handles PATCH /notes/{id} requests.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, noteID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if _, ok := h.ownedNote(w, r, userID, noteID); !ok {
		return
	}

	note, err := h.notes.Update(r.Context(), noteID, store.NotePatch{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update note")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, noteToResponse(note))
}

// Delete handles DELETE /notes/{id} requests.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, noteID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if _, ok := h.ownedNote(w, r, userID, noteID); !ok {
		return
	}

	if err := h.notes.Delete(r.Context(), noteID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownedNote loads a note and verifies the requesting user owns it, writing
// an error response on failure. Foreign notes are reported as not found.
func (h *NoteHandler) ownedNote(
	w http.ResponseWriter,
	r *http.Request,
	userID, noteID uuid.UUID,
) (*domain.Note, bool) {
	note, err := h.notes.GetByID(r.Context(), noteID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}

	if note.UserID != userID {
		HandleAPIError(w, r, store.ErrNoteNotFound, "")
		return nil, false
	}

	return note, true
}
