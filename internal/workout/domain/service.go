package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrWorkoutNotFound = errors.New("workout_not_found")
	ErrLogNotFound     = errors.New("workout_log_not_found")
	ErrInvalidName     = errors.New("invalid_workout_name")
	ErrInvalidType     = errors.New("invalid_workout_type")
	ErrInvalidDuration = errors.New("invalid_duration")
	ErrInvalidStatus   = errors.New("invalid_log_status")
)

type CreateWorkoutRequest struct {
	Name string      `json:"name"`
	Type WorkoutType `json:"type"`
}

type UpdateWorkoutRequest struct {
	ID   string
	Name *string      `json:"name"`
	Type *WorkoutType `json:"type"`
}

type ListWorkoutRequest struct {
	pagination.Pagination
	Type WorkoutType `form:"type"`
}

type ListWorkoutResponse struct {
	Results    []*Workout `json:"results"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"total_pages"`
}

type CreateWorkoutLogRequest struct {
	UserID         snowflake.ID
	WorkoutID      string          `json:"workout_id"`
	DurationMin    int             `json:"duration_min"`
	CaloriesBurned *int            `json:"calories_burned"`
	LogDate        *datatypes.Date `json:"log_date"`
	Status         LogStatus       `json:"status"`
	Note           *string         `json:"note"`
}

type UpdateWorkoutLogRequest struct {
	UserID         snowflake.ID
	ID             string
	DurationMin    *int       `json:"duration_min"`
	CaloriesBurned *int       `json:"calories_burned"`
	Status         *LogStatus `json:"status"`
	Note           *string    `json:"note"`
}

type ListWorkoutLogRequest struct {
	UserID snowflake.ID
	From   *datatypes.Date `form:"from"`
	To     *datatypes.Date `form:"to"`
}

type Repository interface {
	InsertWorkout(ctx context.Context, db *gorm.DB, workout *Workout) error
	FindWorkoutByID(ctx context.Context, db *gorm.DB, id string) (*Workout, error)
	FindWorkoutByName(ctx context.Context, db *gorm.DB, name string) (*Workout, error)
	ListWorkouts(ctx context.Context, db *gorm.DB, workoutType WorkoutType, page pagination.Pagination) ([]*Workout, int64, error)
	UpdateWorkout(ctx context.Context, db *gorm.DB, workout *Workout) error
	DeleteWorkout(ctx context.Context, db *gorm.DB, id string) error

	InsertLog(ctx context.Context, db *gorm.DB, log *WorkoutLog) error
	FindLogByID(ctx context.Context, db *gorm.DB, id string) (*WorkoutLog, error)
	FindLogByWorkoutDate(ctx context.Context, db *gorm.DB, userID snowflake.ID, date datatypes.Date, workoutID string) (*WorkoutLog, error)
	ListLogs(ctx context.Context, db *gorm.DB, req ListWorkoutLogRequest) ([]*WorkoutLog, error)
	UpdateLog(ctx context.Context, db *gorm.DB, log *WorkoutLog) error
	DeleteLog(ctx context.Context, db *gorm.DB, id string) error
}

type Service interface {
	CreateWorkout(ctx context.Context, req CreateWorkoutRequest) (*Workout, error)
	GetWorkout(ctx context.Context, id string) (*Workout, error)
	ListWorkouts(ctx context.Context, req ListWorkoutRequest) (ListWorkoutResponse, error)
	UpdateWorkout(ctx context.Context, req UpdateWorkoutRequest) (*Workout, error)
	DeleteWorkout(ctx context.Context, id string) error

	LogWorkout(ctx context.Context, req CreateWorkoutLogRequest) (*WorkoutLog, error)
	UpdateLog(ctx context.Context, req UpdateWorkoutLogRequest) (*WorkoutLog, error)
	ListLogs(ctx context.Context, req ListWorkoutLogRequest) ([]*WorkoutLog, error)
	DeleteLog(ctx context.Context, userID snowflake.ID, id string) error
}
