package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Conversation struct {
	ID        string         `gorm:"primaryKey;type:varchar(100)" json:"id"`
	UserID    snowflake.ID   `gorm:"not null;index" json:"user_id"`
	Title     string         `gorm:"type:varchar(255)" json:"title"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Conversation) TableName() string { return "conversations" }

// ChatMessage is one turn in a conversation. SenderID is nil for
// assistant messages.
type ChatMessage struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	ConversationID string            `gorm:"type:varchar(100);not null;index" json:"conversation_id"`
	SenderID       *snowflake.ID     `gorm:"index" json:"sender_id,omitempty"`
	Message        string            `gorm:"type:text;not null" json:"message"`
	MessageType    string            `gorm:"type:varchar(20);not null;default:text" json:"message_type"`
	Metadata       datatypes.JSONMap `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
