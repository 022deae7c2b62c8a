package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("water_log_not_found")
	ErrInvalidAmount = errors.New("invalid_amount_ml")
)

type WaterLog struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    snowflake.ID   `gorm:"not null;index" json:"user_id"`
	AmountML  int            `gorm:"column:amount_ml;not null" json:"amount_ml"`
	LogDate   datatypes.Date `gorm:"not null;index" json:"log_date"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (WaterLog) TableName() string { return "water_logs" }

type CreateWaterLogRequest struct {
	UserID   snowflake.ID
	AmountML int            `json:"amount_ml"`
	LogDate  datatypes.Date `json:"log_date"`
}

type ListWaterLogRequest struct {
	UserID snowflake.ID
	From   *datatypes.Date `form:"from"`
	To     *datatypes.Date `form:"to"`
}

// DailyTotal aggregates intake per day for the range queries the
// dashboard renders.
type DailyTotal struct {
	LogDate datatypes.Date `json:"log_date"`
	TotalML int            `json:"total_ml"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, log *WaterLog) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*WaterLog, error)
	List(ctx context.Context, db *gorm.DB, req ListWaterLogRequest) ([]*WaterLog, error)
	DailyTotals(ctx context.Context, db *gorm.DB, req ListWaterLogRequest) ([]DailyTotal, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error
}

type Service interface {
	Log(ctx context.Context, req CreateWaterLogRequest) (*WaterLog, error)
	List(ctx context.Context, req ListWaterLogRequest) ([]*WaterLog, error)
	DailyTotals(ctx context.Context, req ListWaterLogRequest) ([]DailyTotal, error)
	Delete(ctx context.Context, userID snowflake.ID, id string) error
}
