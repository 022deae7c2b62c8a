package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListUserFilter struct {
	Role     Role
	Username string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	// FindByIDForUpdate acquires a row lock on the user when the dialect
	// supports it. Callers must run it inside a transaction.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*User, error)
	FindByUsername(ctx context.Context, db *gorm.DB, username string) (*User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	List(ctx context.Context, db *gorm.DB, filter ListUserFilter, page pagination.Pagination) ([]*User, int64, error)
	Update(ctx context.Context, db *gorm.DB, user *User) error
	UpdateBalance(ctx context.Context, tx *gorm.DB, id snowflake.ID, balance decimal.Decimal) error
	SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
