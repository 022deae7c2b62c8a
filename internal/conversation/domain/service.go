package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("conversation_not_found")
	ErrInvalidMessage = errors.New("invalid_message")
	ErrForbidden      = errors.New("conversation_forbidden")
)

type CreateConversationRequest struct {
	Title string `json:"title"`
}

type UpdateConversationRequest struct {
	ID    string
	Title *string `json:"title"`
}

type AskAIRequest struct {
	ConversationID string
	Message        string `json:"message"`
	Model          string `json:"model"`
}

type Service interface {
	Create(ctx context.Context, req CreateConversationRequest) (*Conversation, error)
	GetByID(ctx context.Context, id string) (*Conversation, error)
	List(ctx context.Context) ([]*Conversation, error)
	Update(ctx context.Context, req UpdateConversationRequest) (*Conversation, error)
	Delete(ctx context.Context, id string) error

	Messages(ctx context.Context, conversationID string) ([]*ChatMessage, error)
	// AskAI stores the user turn, produces the assistant reply (metered
	// for paid models, proxied to the completion API for free ones) and
	// stores that reply. Insufficient funds yields an advisory assistant
	// message, not an error.
	AskAI(ctx context.Context, req AskAIRequest) (*ChatMessage, error)
}
