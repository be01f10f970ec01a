package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SourceType identifies how a document's content was obtained.
type SourceType string

// Possible document source types
const (
	SourceTypeText    SourceType = "text"
	SourceTypeAudio   SourceType = "audio"
	SourceTypeYouTube SourceType = "youtube"
)

// Common validation errors for Document
var (
	ErrEmptyDocumentID     = errors.New("document ID cannot be empty")
	ErrEmptyDocumentUserID = errors.New("document user ID cannot be empty")
	ErrEmptyDocumentTitle  = errors.New("document title cannot be empty")
	ErrInvalidSourceType   = errors.New("invalid document source type")
)

// Document represents a piece of study material uploaded by a user: a raw
// text paste, an audio transcription, or the transcript of a YouTube video.
// Content holds the extracted text; fetching and parsing the source is the
// responsibility of upstream collaborators.
type Document struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Title      string     `json:"title"`
	SourceType SourceType `json:"source_type"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewDocument creates a new Document owned by the given user.
// It generates the document ID and stamps the creation/update timestamps.
// Returns an error if validation fails.
func NewDocument(userID uuid.UUID, title string, sourceType SourceType, content string) (*Document, error) {
	now := time.Now().UTC()
	doc := &Document{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      title,
		SourceType: sourceType,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Validate checks if the Document has valid data.
// Returns an error if any field fails validation.
func (d *Document) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDocumentID
	}

	if d.UserID == uuid.Nil {
		return ErrEmptyDocumentUserID
	}

	if d.Title == "" {
		return ErrEmptyDocumentTitle
	}

	if !isValidSourceType(d.SourceType) {
		return ErrInvalidSourceType
	}

	return nil
}

// isValidSourceType checks if the given source type is a valid SourceType.
func isValidSourceType(st SourceType) bool {
	switch st {
	case SourceTypeText, SourceTypeAudio, SourceTypeYouTube:
		return true
	default:
		return false
	}
}
