package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Common validation errors for FlashcardSet
var (
	ErrEmptySetID        = errors.New("flashcard set ID cannot be empty")
	ErrEmptySetUserID    = errors.New("flashcard set user ID cannot be empty")
	ErrEmptySetTitle     = errors.New("flashcard set title cannot be empty")
	ErrNegativeCardCount = errors.New("flashcard set card count cannot be negative")
)

// FlashcardSet groups flashcards under a title. A set may be generated from
// a document (DocumentID set) or assembled by hand (DocumentID nil).
// PublicID is a short URL-safe slug used for sharing a set without exposing
// the internal UUID.
type FlashcardSet struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
	Title      string     `json:"title"`
	PublicID   string     `json:"public_id"`
	CardCount  int        `json:"card_count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewFlashcardSet creates a new FlashcardSet owned by the given user.
// It generates the set ID and a public share slug, starts the card count at
// zero, and stamps the creation/update timestamps.
// Returns an error if validation fails.
func NewFlashcardSet(userID uuid.UUID, documentID *uuid.UUID, title string) (*FlashcardSet, error) {
	publicID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	set := &FlashcardSet{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: documentID,
		Title:      title,
		PublicID:   publicID,
		CardCount:  0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	return set, nil
}

// Validate checks if the FlashcardSet has valid data.
// Returns an error if any field fails validation.
func (s *FlashcardSet) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySetID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptySetUserID
	}

	if s.Title == "" {
		return ErrEmptySetTitle
	}

	if s.CardCount < 0 {
		return ErrNegativeCardCount
	}

	return nil
}
