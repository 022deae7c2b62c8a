package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/analytics/domain"
	fooddomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food/domain"
	workoutdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/workout/domain"
)

const (
	defaultWindowDays = 7
	maxWindowDays     = 90

	dateLayout = "2006-01-02"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	FoodRepo    fooddomain.Repository
	WorkoutRepo workoutdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	foodRepo    fooddomain.Repository
	workoutRepo workoutdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("analytics.service"),
		foodRepo:    p.FoodRepo,
		workoutRepo: p.WorkoutRepo,
	}
}

func (s *Service) NutritionDaily(ctx context.Context, userID snowflake.ID, days int) ([]domain.NutritionDay, error) {
	start, end := window(days)
	from, to := datatypes.Date(start), datatypes.Date(end)

	logs, err := s.foodRepo.ListLogs(ctx, s.db, fooddomain.ListFoodLogRequest{
		UserID: userID,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*domain.NutritionDay)
	foods := make(map[string]*fooddomain.Food)
	for _, log := range logs {
		food, ok := foods[log.FoodID]
		if !ok {
			food, err = s.foodRepo.FindFoodByID(ctx, s.db, log.FoodID)
			if err != nil {
				return nil, err
			}
			foods[log.FoodID] = food
		}
		if food == nil {
			continue
		}

		key := time.Time(log.LogDate).Format(dateLayout)
		day, ok := byDay[key]
		if !ok {
			day = &domain.NutritionDay{Date: key}
			byDay[key] = day
		}

		day.Calories += float64(food.Calories) * log.Quantity
		if food.Protein != nil {
			day.Protein += *food.Protein * log.Quantity
		}
		if food.Carbs != nil {
			day.Carbs += *food.Carbs * log.Quantity
		}
		if food.Fat != nil {
			day.Fat += *food.Fat * log.Quantity
		}
	}

	series := make([]domain.NutritionDay, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		if day, ok := byDay[key]; ok {
			series = append(series, *day)
		} else {
			series = append(series, domain.NutritionDay{Date: key})
		}
	}
	return series, nil
}

func (s *Service) WorkoutDaily(ctx context.Context, userID snowflake.ID, days int) ([]domain.WorkoutDay, error) {
	start, end := window(days)
	from, to := datatypes.Date(start), datatypes.Date(end)

	logs, err := s.workoutRepo.ListLogs(ctx, s.db, workoutdomain.ListWorkoutLogRequest{
		UserID: userID,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*domain.WorkoutDay)
	rank := make(map[string]int)
	for _, log := range logs {
		if log.LogDate == nil {
			continue
		}

		key := time.Time(*log.LogDate).Format(dateLayout)
		day, ok := byDay[key]
		if !ok {
			day = &domain.WorkoutDay{Date: key}
			byDay[key] = day
		}

		day.DurationMin += log.DurationMin
		if log.CaloriesBurned != nil {
			day.Calories += *log.CaloriesBurned
		}
		if r := statusRank(log.Status); r > rank[key] {
			rank[key] = r
			day.Status = statusLabel(log.Status)
		}
	}

	series := make([]domain.WorkoutDay, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		if day, ok := byDay[key]; ok {
			series = append(series, *day)
		} else {
			series = append(series, domain.WorkoutDay{Date: key})
		}
	}
	return series, nil
}

// window clamps the requested span and returns its first and last day,
// ending today.
func window(days int) (time.Time, time.Time) {
	if days <= 0 {
		days = defaultWindowDays
	}
	if days > maxWindowDays {
		days = maxWindowDays
	}

	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, 0, -(days - 1)), end
}

func statusRank(s workoutdomain.LogStatus) int {
	switch s {
	case workoutdomain.LogCompleted:
		return 3
	case workoutdomain.LogSkipped:
		return 2
	default:
		return 1
	}
}

func statusLabel(s workoutdomain.LogStatus) string {
	switch s {
	case workoutdomain.LogCompleted:
		return "completed"
	case workoutdomain.LogSkipped:
		return "skipped"
	default:
		return "planned"
	}
}
