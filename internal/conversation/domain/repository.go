package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, conv *Conversation) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Conversation, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*Conversation, error)
	Update(ctx context.Context, db *gorm.DB, conv *Conversation) error
	Touch(ctx context.Context, db *gorm.DB, id string, at time.Time) error
	SoftDelete(ctx context.Context, db *gorm.DB, id string) error

	InsertMessage(ctx context.Context, db *gorm.DB, msg *ChatMessage) error
	ListMessages(ctx context.Context, db *gorm.DB, conversationID string) ([]*ChatMessage, error)
}
