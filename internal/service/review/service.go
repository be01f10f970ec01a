// Package review implements the flashcard review workflow: fetching the
// next due card, recording a rating, and postponing a scheduled review.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
)

// ReviewAnswer represents a user's rating of a flashcard review.
type ReviewAnswer struct {
	Rating domain.Difficulty `json:"rating"` // The difficulty selected by the user
}

// Service provides methods for reviewing flashcards using the spaced
// repetition scheduler.
type Service interface {
	// GetNextCard retrieves the next card due for review for a user.
	// Unseen cards are always due; among due cards the earliest scheduled
	// review wins.
	//
	// Returns ErrNoCardsDue if the user has nothing to review.
	GetNextCard(ctx context.Context, userID uuid.UUID) (*domain.Flashcard, error)

	// ReviewCard records a user's rating for a flashcard and updates the
	// review schedule.
	//
	// The card must exist and belong to the user. An invalid rating is
	// rejected with ErrInvalidRating and leaves the card unchanged.
	//
	// Returns the card with its updated scheduling state.
	ReviewCard(
		ctx context.Context,
		userID uuid.UUID,
		cardID uuid.UUID,
		answer ReviewAnswer,
	) (*domain.Flashcard, error)

	// PostponeCard pushes a card's next scheduled review forward by a number
	// of whole days. The card must have been reviewed at least once.
	PostponeCard(
		ctx context.Context,
		userID uuid.UUID,
		cardID uuid.UUID,
		days int,
	) (*domain.Flashcard, error)
}

// Common error types for the review service
var (
	// ErrNoCardsDue indicates that the user has no cards due for review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotOwned indicates that the user does not own the card.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")

	// ErrInvalidRating indicates an unrecognized difficulty rating.
	ErrInvalidRating = errors.New("invalid difficulty rating")

	// ErrCardNotScheduled indicates a postpone was requested for a card that
	// has never been reviewed.
	ErrCardNotScheduled = errors.New("card has no scheduled review to postpone")

	// ErrInvalidPostponeDays indicates a postpone of less than one day.
	ErrInvalidPostponeDays = errors.New("postpone days must be at least 1")
)

// ServiceError wraps errors from the review service with additional context.
// This allows consumers to differentiate between different types of service
// errors using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "get_next_card", "review_card")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewReviewCardError returns a new ServiceError for the review_card operation.
func NewReviewCardError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "review_card",
		Message:   message,
		Err:       err,
	}
}

// NewGetNextCardError returns a new ServiceError for the get_next_card operation.
func NewGetNextCardError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "get_next_card",
		Message:   message,
		Err:       err,
	}
}

// NewPostponeCardError returns a new ServiceError for the postpone_card operation.
func NewPostponeCardError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "postpone_card",
		Message:   message,
		Err:       err,
	}
}
