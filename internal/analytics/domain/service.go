package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// NutritionDay totals what a user logged on one calendar day,
// scaled by the logged quantities.
type NutritionDay struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// WorkoutDay totals a day of workout logs. Status reflects the most
// advanced log of the day: completed beats skipped beats planned, and
// a day without logs has no status at all.
type WorkoutDay struct {
	Date        string `json:"date"`
	DurationMin int    `json:"duration_min"`
	Calories    int    `json:"calories"`
	Status      string `json:"status,omitempty"`
}

// Service aggregates log history into daily series. Both series cover
// the last N days up to and including today, with zero-filled entries
// for days without logs so charts stay contiguous.
type Service interface {
	NutritionDaily(ctx context.Context, userID snowflake.ID, days int) ([]NutritionDay, error)
	WorkoutDaily(ctx context.Context, userID snowflake.ID, days int) ([]WorkoutDay, error)
}
