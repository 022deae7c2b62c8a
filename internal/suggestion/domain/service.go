package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	fooddomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food/domain"
	workoutdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/workout/domain"
	"gorm.io/datatypes"
)

var (
	ErrBadCompletion = errors.New("unusable_ai_completion")
	ErrInvalidRange  = errors.New("invalid_date_range")
)

type SuggestMealRequest struct {
	UserID   snowflake.ID
	LogDate  *datatypes.Date     `json:"log_date"`
	MealType fooddomain.MealType `json:"meal_type"`
}

// MealSuggestion is the persisted result of a meal suggestion: the
// catalog entry the assistant picked (created on first sight) and the
// food log written for the requested day and meal.
type MealSuggestion struct {
	Food        *fooddomain.Food    `json:"food"`
	Log         *fooddomain.FoodLog `json:"log"`
	Description string              `json:"description,omitempty"`
}

type SuggestWeekPlanRequest struct {
	UserID    snowflake.ID
	StartDate *datatypes.Date `json:"start_date"`
	EndDate   *datatypes.Date `json:"end_date"`
}

type WeekPlan struct {
	SessionsPerWeek int                         `json:"sessions_per_week"`
	Logs            []*workoutdomain.WorkoutLog `json:"logs"`
}

type Service interface {
	// SuggestMeal asks the assistant for one dish for the given day and
	// meal, avoiding foods the user ate in the last week, and records it
	// as a food log. Suggesting the same meal twice updates the existing
	// log instead of stacking a duplicate.
	SuggestMeal(ctx context.Context, req SuggestMealRequest) (*MealSuggestion, error)

	// SuggestWeekPlan asks the assistant for a workout plan over the
	// given range (the current Monday-to-Sunday week by default) and
	// records each session as a planned workout log. Entries the
	// assistant got wrong, and days that already have the same workout
	// logged, are skipped.
	SuggestWeekPlan(ctx context.Context, req SuggestWeekPlanRequest) (*WeekPlan, error)
}
