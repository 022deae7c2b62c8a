package repository

import (
	"context"
	"errors"

	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/waterlog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, log *domain.WaterLog) error {
	return db.WithContext(ctx).Create(log).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.WaterLog, error) {
	var log domain.WaterLog
	err := db.WithContext(ctx).Where("id = ?", id).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, req domain.ListWaterLogRequest) ([]*domain.WaterLog, error) {
	stmt := db.WithContext(ctx).Where("user_id = ?", req.UserID)
	if req.From != nil {
		stmt = stmt.Where("log_date >= ?", *req.From)
	}
	if req.To != nil {
		stmt = stmt.Where("log_date <= ?", *req.To)
	}

	var logs []*domain.WaterLog
	err := stmt.Order("log_date desc, created_at desc").Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repo) DailyTotals(ctx context.Context, db *gorm.DB, req domain.ListWaterLogRequest) ([]domain.DailyTotal, error) {
	stmt := db.WithContext(ctx).Model(&domain.WaterLog{}).
		Select("log_date, SUM(amount_ml) AS total_ml").
		Where("user_id = ?", req.UserID)
	if req.From != nil {
		stmt = stmt.Where("log_date >= ?", *req.From)
	}
	if req.To != nil {
		stmt = stmt.Where("log_date <= ?", *req.To)
	}

	var totals []domain.DailyTotal
	err := stmt.Group("log_date").Order("log_date desc").Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.WaterLog{}).Error
}
