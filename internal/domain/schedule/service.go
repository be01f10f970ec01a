package schedule

import (
	"errors"
	"time"

	"github.com/mhollis/cram-api/internal/domain"
)

// Common errors
var (
	ErrNilCard          = errors.New("flashcard cannot be nil")
	ErrInvalidRating    = errors.New("invalid difficulty rating")
	ErrInvalidDays      = errors.New("postpone days must be at least 1")
	ErrCardNotScheduled = errors.New("flashcard has no scheduled review to postpone")
)

// Service defines the interface for review scheduling operations.
type Service interface {
	// CalculateNextReview computes a card's next review state from a
	// difficulty rating. It returns a new card value; the input is not
	// modified.
	CalculateNextReview(
		card *domain.Flashcard,
		rating domain.Difficulty,
		now time.Time,
	) (*domain.Flashcard, error)

	// PostponeReview pushes a card's next review forward by a number of
	// whole days. The card must have been reviewed at least once.
	PostponeReview(
		card *domain.Flashcard,
		days int,
		now time.Time,
	) (*domain.Flashcard, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduler with the default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a scheduler with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// CalculateNextReview implements Service.CalculateNextReview.
//
// A rating outside {easy, medium, hard} is rejected with ErrInvalidRating.
// An earlier revision of the scheduler fell through to the hard interval
// for unknown ratings; that was a bug, not a default.
func (s *defaultService) CalculateNextReview(
	card *domain.Flashcard,
	rating domain.Difficulty,
	now time.Time,
) (*domain.Flashcard, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	interval, ok := s.params.ReviewIntervals[rating]
	if !ok {
		return nil, ErrInvalidRating
	}

	lastReviewed := now
	nextReview := now.Add(interval)

	updated := *card
	updated.Difficulty = rating
	updated.LastReviewed = &lastReviewed
	updated.NextReview = &nextReview
	updated.Repetitions = card.Repetitions + 1
	updated.UpdatedAt = now
	// EasinessFactor carried over untouched; the fixed-interval formula
	// does not read it.

	return &updated, nil
}

// PostponeReview implements Service.PostponeReview.
func (s *defaultService) PostponeReview(
	card *domain.Flashcard,
	days int,
	now time.Time,
) (*domain.Flashcard, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	if card.NextReview == nil {
		return nil, ErrCardNotScheduled
	}

	nextReview := card.NextReview.AddDate(0, 0, days)

	updated := *card
	updated.NextReview = &nextReview
	updated.UpdatedAt = now

	return &updated, nil
}
