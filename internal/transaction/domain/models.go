package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status is the lifecycle state of a payment transaction.
type Status int

const (
	StatusPending   Status = 0
	StatusCompleted Status = 1
	StatusFailed    Status = 2
	StatusCancelled Status = 3
)

func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusCancelled
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

type Transaction struct {
	ID             string            `gorm:"primaryKey;type:varchar(100)" json:"id"`
	UserID         snowflake.ID      `gorm:"not null;index" json:"user_id"`
	Status         Status            `gorm:"not null;default:0;index" json:"status"`
	Amount         decimal.Decimal   `gorm:"type:numeric(18,2);not null" json:"amount"`
	PaymentMethod  string            `gorm:"type:varchar(50);not null" json:"payment_method"`
	Code           string            `gorm:"type:varchar(20);not null;uniqueIndex" json:"code"`
	AdditionalData datatypes.JSONMap `gorm:"type:jsonb" json:"additional_data,omitempty"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (Transaction) TableName() string { return "transactions" }
