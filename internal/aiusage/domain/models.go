package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Usage is one metered AI request, recorded in the same database
// transaction that debits the account balance.
type Usage struct {
	ID             snowflake.ID    `gorm:"primaryKey" json:"id"`
	UserID         snowflake.ID    `gorm:"not null;index" json:"user_id"`
	ConversationID *string         `gorm:"type:varchar(100);index" json:"conversation_id,omitempty"`
	Model          string          `gorm:"type:varchar(50);not null" json:"model"`
	TokensUsed     int             `gorm:"not null" json:"tokens_used"`
	Cost           decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"cost"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Usage) TableName() string { return "ai_usage" }
