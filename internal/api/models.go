package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mhollis/cram-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// CreateDocumentRequest defines the payload for creating a document.
type CreateDocumentRequest struct {
	Title      string `json:"title"       validate:"required,max=500"`
	SourceType string `json:"source_type" validate:"required,oneof=text audio youtube"`
	Content    string `json:"content"`
}

// UpdateDocumentRequest defines the payload for partially updating a
// document. Absent fields are left untouched.
type UpdateDocumentRequest struct {
	Title   *string `json:"title,omitempty"   validate:"omitempty,min=1,max=500"`
	Content *string `json:"content,omitempty"`
}

// DocumentResponse represents the response data for a document.
type DocumentResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	SourceType string    `json:"source_type"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateNoteRequest defines the payload for creating a note.
type CreateNoteRequest struct {
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
	Title      string     `json:"title"   validate:"required,max=500"`
	Content    string     `json:"content" validate:"required"`
}

// UpdateNoteRequest defines the payload for partially updating a note.
type UpdateNoteRequest struct {
	Title   *string `json:"title,omitempty"   validate:"omitempty,min=1,max=500"`
	Content *string `json:"content,omitempty" validate:"omitempty,min=1"`
}

// NoteResponse represents the response data for a note.
type NoteResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	DocumentID *string   `json:"document_id,omitempty"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateFlashcardSetRequest defines the payload for creating a flashcard set.
type CreateFlashcardSetRequest struct {
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
	Title      string     `json:"title" validate:"required,max=500"`
}

// UpdateFlashcardSetRequest defines the payload for renaming a flashcard set.
type UpdateFlashcardSetRequest struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
}

// FlashcardSetResponse represents the response data for a flashcard set.
type FlashcardSetResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	DocumentID *string   `json:"document_id,omitempty"`
	Title      string    `json:"title"`
	PublicID   string    `json:"public_id"`
	CardCount  int       `json:"card_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateFlashcardRequest defines the payload for creating a flashcard.
type CreateFlashcardRequest struct {
	Question   string `json:"question"   validate:"required"`
	Answer     string `json:"answer"     validate:"required"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// UpdateFlashcardRequest defines the payload for partially updating a
// flashcard. Review state is written through the review endpoints, not here.
type UpdateFlashcardRequest struct {
	Question   *string `json:"question,omitempty"   validate:"omitempty,min=1"`
	Answer     *string `json:"answer,omitempty"     validate:"omitempty,min=1"`
	Difficulty *string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
}

// ReviewFlashcardRequest defines the payload for rating a flashcard review.
type ReviewFlashcardRequest struct {
	Rating string `json:"rating" validate:"required,oneof=easy medium hard"`
}

// PostponeFlashcardRequest defines the payload for postponing a review.
type PostponeFlashcardRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

// FlashcardResponse represents the response data for a flashcard.
type FlashcardResponse struct {
	ID             string     `json:"id"`
	SetID          string     `json:"set_id"`
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	Difficulty     string     `json:"difficulty"`
	LastReviewed   *time.Time `json:"last_reviewed,omitempty"`
	NextReview     *time.Time `json:"next_review,omitempty"`
	Repetitions    int        `json:"repetitions"`
	EasinessFactor int        `json:"easiness_factor"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CreateQuizRequest defines the payload for creating a quiz.
type CreateQuizRequest struct {
	DocumentID *uuid.UUID      `json:"document_id,omitempty"`
	Title      string          `json:"title"     validate:"required,max=500"`
	Questions  json.RawMessage `json:"questions" validate:"required"`
}

// UpdateQuizRequest defines the payload for partially updating a quiz.
// Questions replace the stored JSON wholesale.
type UpdateQuizRequest struct {
	Title     *string         `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Questions json.RawMessage `json:"questions,omitempty"`
}

// QuizResponse represents the response data for a quiz.
type QuizResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	DocumentID *string         `json:"document_id,omitempty"`
	Title      string          `json:"title"`
	Questions  json.RawMessage `json:"questions"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CreateQuizAttemptRequest defines the payload for recording a quiz attempt.
type CreateQuizAttemptRequest struct {
	Answers json.RawMessage `json:"answers" validate:"required"`
	Score   int             `json:"score"   validate:"min=0,max=100"`
}

// QuizAttemptResponse represents the response data for a quiz attempt.
type QuizAttemptResponse struct {
	ID        string          `json:"id"`
	QuizID    string          `json:"quiz_id"`
	UserID    string          `json:"user_id"`
	Answers   json.RawMessage `json:"answers"`
	Score     int             `json:"score"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateChatMessageRequest defines the payload for appending a chat message.
type CreateChatMessageRequest struct {
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
	Role       string     `json:"role"    validate:"required,oneof=user assistant"`
	Content    string     `json:"content" validate:"required"`
}

// ChatMessageResponse represents the response data for a chat message.
type ChatMessageResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	DocumentID *string   `json:"document_id,omitempty"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// optionalID renders a nullable UUID reference as a string pointer.
func optionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func documentToResponse(doc *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:         doc.ID.String(),
		UserID:     doc.UserID.String(),
		Title:      doc.Title,
		SourceType: string(doc.SourceType),
		Content:    doc.Content,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

func noteToResponse(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:         note.ID.String(),
		UserID:     note.UserID.String(),
		DocumentID: optionalID(note.DocumentID),
		Title:      note.Title,
		Content:    note.Content,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}
}

func setToResponse(set *domain.FlashcardSet) FlashcardSetResponse {
	return FlashcardSetResponse{
		ID:         set.ID.String(),
		UserID:     set.UserID.String(),
		DocumentID: optionalID(set.DocumentID),
		Title:      set.Title,
		PublicID:   set.PublicID,
		CardCount:  set.CardCount,
		CreatedAt:  set.CreatedAt,
		UpdatedAt:  set.UpdatedAt,
	}
}

func cardToResponse(card *domain.Flashcard) FlashcardResponse {
	return FlashcardResponse{
		ID:             card.ID.String(),
		SetID:          card.SetID.String(),
		Question:       card.Question,
		Answer:         card.Answer,
		Difficulty:     string(card.Difficulty),
		LastReviewed:   card.LastReviewed,
		NextReview:     card.NextReview,
		Repetitions:    card.Repetitions,
		EasinessFactor: card.EasinessFactor,
		CreatedAt:      card.CreatedAt,
		UpdatedAt:      card.UpdatedAt,
	}
}

func quizToResponse(quiz *domain.Quiz) QuizResponse {
	return QuizResponse{
		ID:         quiz.ID.String(),
		UserID:     quiz.UserID.String(),
		DocumentID: optionalID(quiz.DocumentID),
		Title:      quiz.Title,
		Questions:  quiz.Questions,
		CreatedAt:  quiz.CreatedAt,
		UpdatedAt:  quiz.UpdatedAt,
	}
}

func attemptToResponse(attempt *domain.QuizAttempt) QuizAttemptResponse {
	return QuizAttemptResponse{
		ID:        attempt.ID.String(),
		QuizID:    attempt.QuizID.String(),
		UserID:    attempt.UserID.String(),
		Answers:   attempt.Answers,
		Score:     attempt.Score,
		CreatedAt: attempt.CreatedAt,
	}
}

func messageToResponse(msg *domain.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:         msg.ID.String(),
		UserID:     msg.UserID.String(),
		DocumentID: optionalID(msg.DocumentID),
		Role:       string(msg.Role),
		Content:    msg.Content,
		CreatedAt:  msg.CreatedAt,
	}
}
