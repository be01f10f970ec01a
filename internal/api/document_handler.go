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

// DocumentHandler handles document-related HTTP requests.
type DocumentHandler struct {
	documents store.DocumentStore
	logger    *slog.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documents store.DocumentStore, logger *slog.Logger) *DocumentHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &DocumentHandler{
		documents: documents,
		logger:    logger.With(slog.String("component", "document_handler")),
	}
}

// Create handles POST /documents requests.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateDocumentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	doc, err := domain.NewDocument(userID, req.Title, domain.SourceType(req.SourceType), req.Content)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid document data", err)
		return
	}

	if err := h.documents.Create(r.Context(), doc); err != nil {
		HandleAPIError(w, r, err, "Failed to create document")
		return
	}

	log.Debug("document created",
		slog.String("user_id", userID.String()),
		slog.String("document_id", doc.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, documentToResponse(doc))
}

// Get handles GET /documents/{id} requests.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, docID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	doc, ok := h.ownedDocument(w, r, userID, docID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, documentToResponse(doc))
}

// List handles GET /documents requests.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	docs, err := h.documents.ListByUserID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list documents")
		return
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, documentToResponse(doc))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Update handles PATCH /documents/{id} requests.
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, docID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateDocumentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if _, ok := h.ownedDocument(w, r, userID, docID); !ok {
		return
	}

	doc, err := h.documents.Update(r.Context(), docID, store.DocumentPatch{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update document")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, documentToResponse(doc))
}

// Delete handles DELETE /documents/{id} requests.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, docID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if _, ok := h.ownedDocument(w, r, userID, docID); !ok {
		return
	}

	if err := h.documents.Delete(r.Context(), docID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete document")
		return
	}

	log.Debug("document deleted",
		slog.String("user_id", userID.String()),
		slog.String("document_id", docID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ownedDocument loads a document and verifies the requesting user owns it,
// writing an error response on failure. A document owned by someone else is
// reported as not found so ownership cannot be probed.
func (h *DocumentHandler) ownedDocument(
	w http.ResponseWriter,
	r *http.Request,
	userID, docID uuid.UUID,
) (*domain.Document, bool) {
	doc, err := h.documents.GetByID(r.Context(), docID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}

	if doc.UserID != userID {
		HandleAPIError(w, r, store.ErrDocumentNotFound, "")
		return nil, false
	}

	return doc, true
}
