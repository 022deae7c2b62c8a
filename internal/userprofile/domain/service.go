package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("profile_not_found")
	ErrInvalidGender = errors.New("invalid_gender")
	ErrInvalidLevel  = errors.New("invalid_activity_level")
	ErrInvalidValue  = errors.New("invalid_profile_value")
)

type UpsertProfileRequest struct {
	UserID        snowflake.ID
	Age           *int              `json:"age"`
	Gender        *Gender           `json:"gender"`
	HeightCM      *float64          `json:"height_cm"`
	WeightKG      *float64          `json:"weight_kg"`
	ActivityLevel *ActivityLevel    `json:"activity_level"`
	Target        datatypes.JSONMap `json:"target"`
}

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, profile *Profile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Profile, error)
	Delete(ctx context.Context, db *gorm.DB, userID snowflake.ID) error
}

type Service interface {
	Get(ctx context.Context, userID snowflake.ID) (*Profile, error)
	// Upsert merges the request into the stored profile and recomputes
	// BMI when both height and weight are known.
	Upsert(ctx context.Context, req UpsertProfileRequest) (*Profile, error)
	Delete(ctx context.Context, userID snowflake.ID) error
}
