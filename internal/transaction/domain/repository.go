package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListTransactionFilter struct {
	UserID        snowflake.ID
	Status        *Status
	PaymentMethod string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tx *Transaction) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Transaction, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Transaction, error)
	List(ctx context.Context, db *gorm.DB, filter ListTransactionFilter, page pagination.Pagination) ([]*Transaction, int64, error)
	Update(ctx context.Context, db *gorm.DB, tx *Transaction) error
	UpdateStatus(ctx context.Context, db *gorm.DB, id string, status Status, completedAt *time.Time) error
	SumCompletedByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (decimal.Decimal, error)
	// ExpireStalePending cancels pending transactions created before the
	// cutoff and returns how many rows were touched.
	ExpireStalePending(ctx context.Context, db *gorm.DB, before time.Time) (int64, error)
	SoftDelete(ctx context.Context, db *gorm.DB, id string) error
}
