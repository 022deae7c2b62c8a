package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/workout/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertWorkout(ctx context.Context, db *gorm.DB, workout *domain.Workout) error {
	return db.WithContext(ctx).Create(workout).Error
}

func (r *repo) FindWorkoutByID(ctx context.Context, db *gorm.DB, id string) (*domain.Workout, error) {
	var workout domain.Workout
	err := db.WithContext(ctx).Where("id = ?", id).First(&workout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &workout, nil
}

func (r *repo) FindWorkoutByName(ctx context.Context, db *gorm.DB, name string) (*domain.Workout, error) {
	var workout domain.Workout
	err := db.WithContext(ctx).Where("name = ?", name).First(&workout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &workout, nil
}

func (r *repo) ListWorkouts(ctx context.Context, db *gorm.DB, workoutType domain.WorkoutType, page pagination.Pagination) ([]*domain.Workout, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Workout{})
	if workoutType != "" {
		stmt = stmt.Where("type = ?", workoutType)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var workouts []*domain.Workout
	err := pagination.Apply(stmt, page).
		Order("name asc").
		Find(&workouts).Error
	if err != nil {
		return nil, 0, err
	}
	return workouts, total, nil
}

func (r *repo) UpdateWorkout(ctx context.Context, db *gorm.DB, workout *domain.Workout) error {
	return db.WithContext(ctx).Save(workout).Error
}

func (r *repo) DeleteWorkout(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Workout{}).Error
}

func (r *repo) InsertLog(ctx context.Context, db *gorm.DB, log *domain.WorkoutLog) error {
	return db.WithContext(ctx).Create(log).Error
}

func (r *repo) FindLogByID(ctx context.Context, db *gorm.DB, id string) (*domain.WorkoutLog, error) {
	var log domain.WorkoutLog
	err := db.WithContext(ctx).Where("id = ?", id).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

func (r *repo) FindLogByWorkoutDate(ctx context.Context, db *gorm.DB, userID snowflake.ID, date datatypes.Date, workoutID string) (*domain.WorkoutLog, error) {
	var log domain.WorkoutLog
	err := db.WithContext(ctx).
		Where("user_id = ? AND log_date = ? AND workout_id = ?", userID, date, workoutID).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

func (r *repo) ListLogs(ctx context.Context, db *gorm.DB, req domain.ListWorkoutLogRequest) ([]*domain.WorkoutLog, error) {
	stmt := db.WithContext(ctx).Where("user_id = ?", req.UserID)
	if req.From != nil {
		stmt = stmt.Where("log_date >= ?", *req.From)
	}
	if req.To != nil {
		stmt = stmt.Where("log_date <= ?", *req.To)
	}

	var logs []*domain.WorkoutLog
	err := stmt.Order("created_at desc").Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repo) UpdateLog(ctx context.Context, db *gorm.DB, log *domain.WorkoutLog) error {
	return db.WithContext(ctx).Save(log).Error
}

func (r *repo) DeleteLog(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.WorkoutLog{}).Error
}
