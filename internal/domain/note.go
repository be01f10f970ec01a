package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Note
var (
	ErrEmptyNoteID      = errors.New("note ID cannot be empty")
	ErrEmptyNoteUserID  = errors.New("note user ID cannot be empty")
	ErrEmptyNoteTitle   = errors.New("note title cannot be empty")
	ErrEmptyNoteContent = errors.New("note content cannot be empty")
)

// Note represents a block of study notes. A note may be derived from a
// document (DocumentID set) or written independently (DocumentID nil).
type Note struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewNote creates a new Note owned by the given user. documentID may be nil
// for notes that are not tied to a source document.
// Returns an error if validation fails.
func NewNote(userID uuid.UUID, documentID *uuid.UUID, title, content string) (*Note, error) {
	now := time.Now().UTC()
	note := &Note{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: documentID,
		Title:      title,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
// Returns an error if any field fails validation.
func (n *Note) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNoteID
	}

	if n.UserID == uuid.Nil {
		return ErrEmptyNoteUserID
	}

	if n.Title == "" {
		return ErrEmptyNoteTitle
	}

	if n.Content == "" {
		return ErrEmptyNoteContent
	}

	return nil
}
