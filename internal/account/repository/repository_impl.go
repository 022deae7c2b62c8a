package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	pkgdb "github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.User, error) {
	stmt := tx.WithContext(ctx)
	if pkgdb.SupportsRowLocks(tx) {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var user domain.User
	err := stmt.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repo) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListUserFilter, page pagination.Pagination) ([]*domain.User, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.User{})
	if filter.Role != 0 {
		stmt = stmt.Where("role = ?", filter.Role)
	}
	if filter.Username != "" {
		stmt = stmt.Where("username LIKE ?", "%"+filter.Username+"%")
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*domain.User
	err := pagination.Apply(stmt, page).
		Order("created_at desc, id desc").
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update persists the profile columns only. Balance moves exclusively
// through UpdateBalance under the account row lock, so a stale
// in-memory row cannot clobber a concurrent credit or debit.
func (r *repo) Update(ctx context.Context, db *gorm.DB, user *domain.User) error {
	res := db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"username":      user.Username,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"role":          user.Role,
			"block":         user.Block,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) UpdateBalance(ctx context.Context, tx *gorm.DB, id snowflake.ID, balance decimal.Decimal) error {
	res := tx.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("balance", balance)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}).Error
}
