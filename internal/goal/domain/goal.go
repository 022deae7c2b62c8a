package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("goal_not_found")
	ErrInvalidType   = errors.New("invalid_goal_type")
	ErrInvalidTarget = errors.New("invalid_goal_target")
)

type GoalType string

const (
	GoalLoseWeight GoalType = "lose_weight"
	GoalGainMuscle GoalType = "gain_muscle"
	GoalMaintain   GoalType = "maintain"
)

func (g GoalType) Valid() bool {
	switch g {
	case GoalLoseWeight, GoalGainMuscle, GoalMaintain:
		return true
	}
	return false
}

type Goal struct {
	ID                 string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID             snowflake.ID `gorm:"not null;index" json:"user_id"`
	GoalType           GoalType     `gorm:"type:varchar(20);not null" json:"goal_type"`
	TargetWeight       *float64     `json:"target_weight,omitempty"`
	DailyCalorieTarget *int         `json:"daily_calorie_target,omitempty"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Goal) TableName() string { return "goals" }

type CreateGoalRequest struct {
	UserID             snowflake.ID
	GoalType           GoalType `json:"goal_type"`
	TargetWeight       *float64 `json:"target_weight"`
	DailyCalorieTarget *int     `json:"daily_calorie_target"`
}

type UpdateGoalRequest struct {
	UserID             snowflake.ID
	ID                 string
	GoalType           *GoalType `json:"goal_type"`
	TargetWeight       *float64  `json:"target_weight"`
	DailyCalorieTarget *int      `json:"daily_calorie_target"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, goal *Goal) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Goal, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*Goal, error)
	Update(ctx context.Context, db *gorm.DB, goal *Goal) error
	Delete(ctx context.Context, db *gorm.DB, id string) error
}

type Service interface {
	Create(ctx context.Context, req CreateGoalRequest) (*Goal, error)
	List(ctx context.Context, userID snowflake.ID) ([]*Goal, error)
	Update(ctx context.Context, req UpdateGoalRequest) (*Goal, error)
	Delete(ctx context.Context, userID snowflake.ID, id string) error
}
