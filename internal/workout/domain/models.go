package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type WorkoutType string

const (
	TypeCardio      WorkoutType = "cardio"
	TypeStrength    WorkoutType = "strength"
	TypeFlexibility WorkoutType = "flexibility"
)

func (t WorkoutType) Valid() bool {
	switch t {
	case TypeCardio, TypeStrength, TypeFlexibility:
		return true
	}
	return false
}

type LogStatus int

const (
	LogPlanned   LogStatus = 0
	LogCompleted LogStatus = 1
	LogSkipped   LogStatus = 2
)

func (s LogStatus) Valid() bool {
	return s >= LogPlanned && s <= LogSkipped
}

type Workout struct {
	ID   string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name string      `gorm:"type:varchar(255);not null" json:"name"`
	Type WorkoutType `gorm:"type:varchar(20);not null" json:"type"`
}

func (Workout) TableName() string { return "workouts" }

type WorkoutLog struct {
	ID             string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID         snowflake.ID    `gorm:"not null;index" json:"user_id"`
	WorkoutID      string          `gorm:"type:varchar(36);not null;index" json:"workout_id"`
	DurationMin    int             `gorm:"not null" json:"duration_min"`
	CaloriesBurned *int            `json:"calories_burned,omitempty"`
	LogDate        *datatypes.Date `gorm:"index" json:"log_date,omitempty"`
	Status         LogStatus       `gorm:"not null;default:0" json:"status"`
	Note           *string         `gorm:"type:text" json:"note,omitempty"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (WorkoutLog) TableName() string { return "workout_logs" }
