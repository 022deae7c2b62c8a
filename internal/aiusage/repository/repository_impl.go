package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, usage *domain.Usage) error {
	return db.WithContext(ctx).Create(usage).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListUsageFilter, page pagination.Pagination) ([]*domain.Usage, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Usage{})
	if filter.UserID != 0 {
		stmt = stmt.Where("user_id = ?", filter.UserID)
	}
	if filter.Model != "" {
		stmt = stmt.Where("model = ?", filter.Model)
	}
	if filter.ConversationID != "" {
		stmt = stmt.Where("conversation_id = ?", filter.ConversationID)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var usages []*domain.Usage
	err := pagination.Apply(stmt, page).
		Order("created_at desc, id desc").
		Find(&usages).Error
	if err != nil {
		return nil, 0, err
	}
	return usages, total, nil
}

func (r *repo) SumCost(ctx context.Context, db *gorm.DB, userID snowflake.ID) (decimal.Decimal, error) {
	stmt := db.WithContext(ctx).Model(&domain.Usage{}).Select("SUM(cost)")
	if userID != 0 {
		stmt = stmt.Where("user_id = ?", userID)
	}

	var sum decimal.NullDecimal
	if err := stmt.Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB, userID snowflake.ID) (int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Usage{})
	if userID != 0 {
		stmt = stmt.Where("user_id = ?", userID)
	}

	var count int64
	err := stmt.Count(&count).Error
	return count, err
}

func (r *repo) CountDistinctUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Usage{}).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}
