package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

type Food struct {
	ID       string   `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name     string   `gorm:"type:varchar(255);not null" json:"name"`
	Calories int      `gorm:"not null" json:"calories"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

func (Food) TableName() string { return "foods" }

type FoodLog struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    snowflake.ID   `gorm:"not null;index" json:"user_id"`
	FoodID    string         `gorm:"type:varchar(36);not null;index" json:"food_id"`
	Quantity  float64        `gorm:"not null;default:1" json:"quantity"`
	LogDate   datatypes.Date `gorm:"not null;index" json:"log_date"`
	MealType  *MealType      `gorm:"type:varchar(20)" json:"meal_type,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (FoodLog) TableName() string { return "food_logs" }
