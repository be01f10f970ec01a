package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Quiz and QuizAttempt
var (
	ErrEmptyQuizID          = errors.New("quiz ID cannot be empty")
	ErrEmptyQuizUserID      = errors.New("quiz user ID cannot be empty")
	ErrEmptyQuizTitle       = errors.New("quiz title cannot be empty")
	ErrEmptyQuizQuestions   = errors.New("quiz questions cannot be empty")
	ErrInvalidQuizQuestions = errors.New("quiz questions must be valid JSON")

	ErrEmptyAttemptID      = errors.New("quiz attempt ID cannot be empty")
	ErrEmptyAttemptQuizID  = errors.New("quiz attempt quiz ID cannot be empty")
	ErrEmptyAttemptUserID  = errors.New("quiz attempt user ID cannot be empty")
	ErrInvalidAttemptScore = errors.New("quiz attempt score must be between 0 and 100")
)

// Quiz is a set of questions over a user's study material. Questions are
// stored as raw JSON so question formats can evolve without schema changes.
type Quiz struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	DocumentID *uuid.UUID      `json:"document_id,omitempty"`
	Title      string          `json:"title"`
	Questions  json.RawMessage `json:"questions"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewQuiz creates a new Quiz owned by the given user. documentID may be nil
// for quizzes that are not tied to a source document.
// Returns an error if validation fails.
func NewQuiz(userID uuid.UUID, documentID *uuid.UUID, title string, questions json.RawMessage) (*Quiz, error) {
	now := time.Now().UTC()
	quiz := &Quiz{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: documentID,
		Title:      title,
		Questions:  questions,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	return quiz, nil
}

// Validate checks if the Quiz has valid data.
// Returns an error if any field fails validation.
func (q *Quiz) Validate() error {
	if q.ID == uuid.Nil {
		return ErrEmptyQuizID
	}

	if q.UserID == uuid.Nil {
		return ErrEmptyQuizUserID
	}

	if q.Title == "" {
		return ErrEmptyQuizTitle
	}

	if len(q.Questions) == 0 {
		return ErrEmptyQuizQuestions
	}

	var js json.RawMessage
	if err := json.Unmarshal(q.Questions, &js); err != nil {
		return ErrInvalidQuizQuestions
	}

	return nil
}

// QuizAttempt records one pass of a user through a quiz: the answers given
// and the resulting score as a percentage.
type QuizAttempt struct {
	ID        uuid.UUID       `json:"id"`
	QuizID    uuid.UUID       `json:"quiz_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Answers   json.RawMessage `json:"answers"`
	Score     int             `json:"score"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewQuizAttempt creates a new QuizAttempt for the given quiz and user.
// Returns an error if validation fails.
func NewQuizAttempt(quizID, userID uuid.UUID, answers json.RawMessage, score int) (*QuizAttempt, error) {
	attempt := &QuizAttempt{
		ID:        uuid.New(),
		QuizID:    quizID,
		UserID:    userID,
		Answers:   answers,
		Score:     score,
		CreatedAt: time.Now().UTC(),
	}

	if err := attempt.Validate(); err != nil {
		return nil, err
	}

	return attempt, nil
}

// Validate checks if the QuizAttempt has valid data.
// Returns an error if any field fails validation.
func (a *QuizAttempt) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAttemptID
	}

	if a.QuizID == uuid.Nil {
		return ErrEmptyAttemptQuizID
	}

	if a.UserID == uuid.Nil {
		return ErrEmptyAttemptUserID
	}

	if a.Score < 0 || a.Score > 100 {
		return ErrInvalidAttemptScore
	}

	return nil
}
