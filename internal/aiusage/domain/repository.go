package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListUsageFilter struct {
	UserID         snowflake.ID
	Model          string
	ConversationID string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, usage *Usage) error
	List(ctx context.Context, db *gorm.DB, filter ListUsageFilter, page pagination.Pagination) ([]*Usage, int64, error)
	SumCost(ctx context.Context, db *gorm.DB, userID snowflake.ID) (decimal.Decimal, error)
	Count(ctx context.Context, db *gorm.DB, userID snowflake.ID) (int64, error)
	CountDistinctUsers(ctx context.Context, db *gorm.DB) (int64, error)
}
