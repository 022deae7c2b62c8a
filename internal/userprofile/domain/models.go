package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "low"
	ActivityMedium ActivityLevel = "medium"
	ActivityHigh   ActivityLevel = "high"
)

func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivityLow, ActivityMedium, ActivityHigh:
		return true
	}
	return false
}

type Profile struct {
	UserID        snowflake.ID      `gorm:"primaryKey" json:"user_id"`
	Age           *int              `json:"age,omitempty"`
	Gender        *Gender           `gorm:"type:varchar(10)" json:"gender,omitempty"`
	HeightCM      *float64          `gorm:"column:height_cm" json:"height_cm,omitempty"`
	WeightKG      *float64          `gorm:"column:weight_kg" json:"weight_kg,omitempty"`
	ActivityLevel *ActivityLevel    `gorm:"type:varchar(10)" json:"activity_level,omitempty"`
	BMI           *float64          `gorm:"column:bmi" json:"bmi,omitempty"`
	Target        datatypes.JSONMap `gorm:"type:jsonb" json:"target,omitempty"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Profile) TableName() string { return "user_profiles" }
