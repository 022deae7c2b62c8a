package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertFood(ctx context.Context, db *gorm.DB, food *domain.Food) error {
	return db.WithContext(ctx).Create(food).Error
}

func (r *repo) FindFoodByID(ctx context.Context, db *gorm.DB, id string) (*domain.Food, error) {
	var food domain.Food
	err := db.WithContext(ctx).Where("id = ?", id).First(&food).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &food, nil
}

func (r *repo) FindFoodByName(ctx context.Context, db *gorm.DB, name string) (*domain.Food, error) {
	var food domain.Food
	err := db.WithContext(ctx).Where("name = ?", name).First(&food).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &food, nil
}

func (r *repo) ListFoods(ctx context.Context, db *gorm.DB, name string, page pagination.Pagination) ([]*domain.Food, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Food{})
	if name != "" {
		stmt = stmt.Where("name LIKE ?", "%"+name+"%")
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var foods []*domain.Food
	err := pagination.Apply(stmt, page).
		Order("name asc").
		Find(&foods).Error
	if err != nil {
		return nil, 0, err
	}
	return foods, total, nil
}

func (r *repo) UpdateFood(ctx context.Context, db *gorm.DB, food *domain.Food) error {
	return db.WithContext(ctx).Save(food).Error
}

func (r *repo) DeleteFood(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Food{}).Error
}

func (r *repo) InsertLog(ctx context.Context, db *gorm.DB, log *domain.FoodLog) error {
	return db.WithContext(ctx).Create(log).Error
}

func (r *repo) FindLogByID(ctx context.Context, db *gorm.DB, id string) (*domain.FoodLog, error) {
	var log domain.FoodLog
	err := db.WithContext(ctx).Where("id = ?", id).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

func (r *repo) FindLogByMeal(ctx context.Context, db *gorm.DB, userID snowflake.ID, date datatypes.Date, mealType domain.MealType, foodID string) (*domain.FoodLog, error) {
	var log domain.FoodLog
	err := db.WithContext(ctx).
		Where("user_id = ? AND log_date = ? AND meal_type = ? AND food_id = ?", userID, date, mealType, foodID).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

func (r *repo) UpdateLog(ctx context.Context, db *gorm.DB, log *domain.FoodLog) error {
	return db.WithContext(ctx).Save(log).Error
}

func (r *repo) ListLogs(ctx context.Context, db *gorm.DB, req domain.ListFoodLogRequest) ([]*domain.FoodLog, error) {
	stmt := db.WithContext(ctx).Where("user_id = ?", req.UserID)
	if req.From != nil {
		stmt = stmt.Where("log_date >= ?", *req.From)
	}
	if req.To != nil {
		stmt = stmt.Where("log_date <= ?", *req.To)
	}

	var logs []*domain.FoodLog
	err := stmt.Order("log_date desc, created_at desc").Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repo) DeleteLog(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.FoodLog{}).Error
}
