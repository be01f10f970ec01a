package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ChatRole identifies who produced a chat message.
type ChatRole string

// Possible chat roles
const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// Common validation errors for ChatMessage
var (
	ErrEmptyMessageID      = errors.New("chat message ID cannot be empty")
	ErrEmptyMessageUserID  = errors.New("chat message user ID cannot be empty")
	ErrEmptyMessageContent = errors.New("chat message content cannot be empty")
	ErrInvalidChatRole     = errors.New("invalid chat role")
)

// ChatMessage is one turn of the chat over a user's study material. The
// assistant side is produced by an external collaborator; this entity only
// records the conversation.
type ChatMessage struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
	Role       ChatRole   `json:"role"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewChatMessage creates a new ChatMessage for the given user.
// Returns an error if validation fails.
func NewChatMessage(userID uuid.UUID, documentID *uuid.UUID, role ChatRole, content string) (*ChatMessage, error) {
	msg := &ChatMessage{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: documentID,
		Role:       role,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	return msg, nil
}

// Validate checks if the ChatMessage has valid data.
// Returns an error if any field fails validation.
func (m *ChatMessage) Validate() error {
	if m.ID == uuid.Nil {
		return ErrEmptyMessageID
	}

	if m.UserID == uuid.Nil {
		return ErrEmptyMessageUserID
	}

	if !isValidChatRole(m.Role) {
		return ErrInvalidChatRole
	}

	if m.Content == "" {
		return ErrEmptyMessageContent
	}

	return nil
}

// isValidChatRole checks if the given role is a valid ChatRole.
func isValidChatRole(role ChatRole) bool {
	switch role {
	case ChatRoleUser, ChatRoleAssistant:
		return true
	default:
		return false
	}
}
