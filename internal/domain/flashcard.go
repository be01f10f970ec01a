package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Difficulty is a reviewer's judgment of how well a flashcard was recalled.
// It drives the interval until the card's next review.
type Difficulty string

// Possible difficulty ratings
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DefaultEasinessFactor is the initial easiness factor assigned to new
// cards. The field is persisted for a future SM-2 style algorithm but is
// not read by the current fixed-interval scheduler.
const DefaultEasinessFactor = 250

// Common validation errors for Flashcard
var (
	ErrEmptyCardID         = errors.New("flashcard ID cannot be empty")
	ErrEmptyCardSetID      = errors.New("flashcard set ID cannot be empty")
	ErrEmptyCardQuestion   = errors.New("flashcard question cannot be empty")
	ErrEmptyCardAnswer     = errors.New("flashcard answer cannot be empty")
	ErrNegativeRepetitions = errors.New("flashcard repetitions cannot be negative")
	ErrReviewOrder         = errors.New("flashcard next review must be after last review")
)

// Flashcard is a single question/answer pair belonging to exactly one
// FlashcardSet. SetID is immutable after creation.
//
// LastReviewed and NextReview are nil until the card's first review; a card
// with LastReviewed set has been reviewed at least once and Repetitions
// counts those reviews. Repetitions never decreases.
type Flashcard struct {
	ID             uuid.UUID   `json:"id"`
	SetID          uuid.UUID   `json:"set_id"`
	Question       string      `json:"question"`
	Answer         string      `json:"answer"`
	Difficulty     Difficulty  `json:"difficulty"`
	LastReviewed   *time.Time  `json:"last_reviewed,omitempty"`
	NextReview     *time.Time  `json:"next_review,omitempty"`
	Repetitions    int         `json:"repetitions"`
	EasinessFactor int         `json:"easiness_factor"` // Reserved, unused by scheduling
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewFlashcard creates a new Flashcard in the given set. The difficulty
// defaults to medium when empty; review state starts unseen (nil timestamps,
// zero repetitions).
// Returns an error if validation fails.
func NewFlashcard(setID uuid.UUID, question, answer string, difficulty Difficulty) (*Flashcard, error) {
	if difficulty == "" {
		difficulty = DifficultyMedium
	}

	now := time.Now().UTC()
	card := &Flashcard{
		ID:             uuid.New(),
		SetID:          setID,
		Question:       question,
		Answer:         answer,
		Difficulty:     difficulty,
		Repetitions:    0,
		EasinessFactor: DefaultEasinessFactor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
// Returns an error if any field fails validation.
func (c *Flashcard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCardID
	}

	if c.SetID == uuid.Nil {
		return ErrEmptyCardSetID
	}

	if c.Question == "" {
		return ErrEmptyCardQuestion
	}

	if c.Answer == "" {
		return ErrEmptyCardAnswer
	}

	if !IsValidDifficulty(c.Difficulty) {
		return ErrInvalidDifficulty
	}

	if c.Repetitions < 0 {
		return ErrNegativeRepetitions
	}

	if c.LastReviewed != nil && c.NextReview != nil && !c.NextReview.After(*c.LastReviewed) {
		return ErrReviewOrder
	}

	return nil
}

// Unseen reports whether the card has never been reviewed.
func (c *Flashcard) Unseen() bool {
	return c.LastReviewed == nil
}

// IsValidDifficulty checks if the given rating is one of easy, medium, hard.
func IsValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}
