package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tx *domain.Transaction) error {
	return db.WithContext(ctx).Create(tx).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := db.WithContext(ctx).Where("id = ?", id).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := db.WithContext(ctx).Where("code = ?", code).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListTransactionFilter, page pagination.Pagination) ([]*domain.Transaction, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Transaction{})
	if filter.UserID != 0 {
		stmt = stmt.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != nil {
		stmt = stmt.Where("status = ?", *filter.Status)
	}
	if filter.PaymentMethod != "" {
		stmt = stmt.Where("payment_method = ?", filter.PaymentMethod)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []*domain.Transaction
	err := pagination.Apply(stmt, page).
		Order("created_at desc, id desc").
		Find(&txs).Error
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// Update persists the mutable columns only. Status and completed_at
// belong to UpdateStatus, so a stale in-memory row can never roll a
// completion back.
func (r *repo) Update(ctx context.Context, db *gorm.DB, tx *domain.Transaction) error {
	res := db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("id = ?", tx.ID).
		Updates(map[string]any{
			"amount":          tx.Amount,
			"payment_method":  tx.PaymentMethod,
			"additional_data": tx.AdditionalData,
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id string, status domain.Status, completedAt *time.Time) error {
	fields := map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if completedAt != nil {
		fields["completed_at"] = *completedAt
	}
	res := db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) SumCompletedByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := db.WithContext(ctx).Model(&domain.Transaction{}).
		Select("SUM(amount)").
		Where("user_id = ? AND status = ?", userID, domain.StatusCompleted).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *repo) ExpireStalePending(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	res := db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("status = ? AND created_at < ?", domain.StatusPending, before).
		Updates(map[string]any{
			"status":     domain.StatusCancelled,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Transaction{}).Error
}
