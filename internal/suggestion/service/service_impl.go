package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
	fooddomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/metrics"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/providers/ai"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/suggestion/domain"
	profiledomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/userprofile/domain"
	workoutdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/workout/domain"
)

const (
	mealSystemPrompt = "Bạn là chuyên gia dinh dưỡng người Việt. " +
		"Hãy gợi ý đúng một món ăn Việt Nam lành mạnh phù hợp với người dùng. " +
		"Chỉ trả về JSON dạng {\"name\": string, \"calories\": int, " +
		"\"protein\": number, \"carbs\": number, \"fat\": number, \"description\": string}."

	planSystemPrompt = "Bạn là huấn luyện viên thể hình người Việt. " +
		"Hãy lập kế hoạch tập luyện cho khoảng thời gian được yêu cầu. " +
		"Chỉ trả về JSON dạng {\"sessions_per_week\": int, \"workouts\": " +
		"[{\"name\": string, \"type\": \"cardio\"|\"strength\"|\"flexibility\", " +
		"\"duration_min\": int, \"calories_burned\": int, " +
		"\"log_date\": \"YYYY-MM-DD\", \"description\": string}]}."

	dateLayout = "2006-01-02"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Cfg         config.Config
	Client      ai.CompletionClient
	ProfileRepo profiledomain.Repository
	FoodRepo    fooddomain.Repository
	WorkoutRepo workoutdomain.Repository
	Metrics     *metrics.Metrics
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	cfg         config.AIConfig
	client      ai.CompletionClient
	profileRepo profiledomain.Repository
	foodRepo    fooddomain.Repository
	workoutRepo workoutdomain.Repository
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("suggestion.service"),
		cfg:         p.Cfg.AI,
		client:      p.Client,
		profileRepo: p.ProfileRepo,
		foodRepo:    p.FoodRepo,
		workoutRepo: p.WorkoutRepo,
		metrics:     p.Metrics,
	}
}

func (s *Service) SuggestMeal(ctx context.Context, req domain.SuggestMealRequest) (*domain.MealSuggestion, error) {
	if !req.MealType.Valid() {
		return nil, fooddomain.ErrInvalidMealType
	}

	profile, err := s.profileRepo.FindByUserID(ctx, s.db, req.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, profiledomain.ErrNotFound
	}

	date := today()
	if req.LogDate != nil {
		date = *req.LogDate
	}

	recent, err := s.recentFoodNames(ctx, req.UserID, date)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Người dùng: %s. Bữa: %s. Ngày: %s.",
		profileLine(profile), req.MealType, formatDate(date))
	if len(recent) > 0 {
		prompt += " Tránh các món đã ăn gần đây: " + strings.Join(recent, ", ") + "."
	}

	content, err := s.complete(ctx, mealSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var dish struct {
		Name        string   `json:"name"`
		Calories    int      `json:"calories"`
		Protein     *float64 `json:"protein"`
		Carbs       *float64 `json:"carbs"`
		Fat         *float64 `json:"fat"`
		Description string   `json:"description"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &dish); err != nil {
		s.log.Warn("meal completion is not valid JSON", zap.Error(err))
		return nil, domain.ErrBadCompletion
	}

	dish.Name = strings.TrimSpace(dish.Name)
	if dish.Name == "" || dish.Calories <= 0 {
		return nil, domain.ErrBadCompletion
	}

	food, err := s.foodRepo.FindFoodByName(ctx, s.db, dish.Name)
	if err != nil {
		return nil, err
	}
	if food == nil {
		food = &fooddomain.Food{
			ID:       uuid.NewString(),
			Name:     dish.Name,
			Calories: dish.Calories,
			Protein:  dish.Protein,
			Carbs:    dish.Carbs,
			Fat:      dish.Fat,
		}
		if err := s.foodRepo.InsertFood(ctx, s.db, food); err != nil {
			return nil, err
		}
	}

	mealType := req.MealType
	log, err := s.foodRepo.FindLogByMeal(ctx, s.db, req.UserID, date, mealType, food.ID)
	if err != nil {
		return nil, err
	}
	if log != nil {
		log.Quantity = 1
		if err := s.foodRepo.UpdateLog(ctx, s.db, log); err != nil {
			return nil, err
		}
	} else {
		log = &fooddomain.FoodLog{
			ID:       uuid.NewString(),
			UserID:   req.UserID,
			FoodID:   food.ID,
			Quantity: 1,
			LogDate:  date,
			MealType: &mealType,
		}
		if err := s.foodRepo.InsertLog(ctx, s.db, log); err != nil {
			return nil, err
		}
	}

	s.log.Info("meal suggested",
		zap.Int64("user_id", int64(req.UserID)),
		zap.String("food", food.Name),
		zap.String("meal_type", string(mealType)))

	return &domain.MealSuggestion{
		Food:        food,
		Log:         log,
		Description: strings.TrimSpace(dish.Description),
	}, nil
}

func (s *Service) SuggestWeekPlan(ctx context.Context, req domain.SuggestWeekPlanRequest) (*domain.WeekPlan, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, s.db, req.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, profiledomain.ErrNotFound
	}

	start, end := currentWeek()
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if time.Time(end).Before(time.Time(start)) {
		return nil, domain.ErrInvalidRange
	}

	prompt := fmt.Sprintf("Người dùng: %s. Lập kế hoạch từ %s đến %s.",
		profileLine(profile), formatDate(start), formatDate(end))

	content, err := s.complete(ctx, planSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var plan struct {
		SessionsPerWeek int `json:"sessions_per_week"`
		Workouts        []struct {
			Name           string                    `json:"name"`
			Type           workoutdomain.WorkoutType `json:"type"`
			DurationMin    int                       `json:"duration_min"`
			CaloriesBurned *int                      `json:"calories_burned"`
			LogDate        string                    `json:"log_date"`
			Description    string                    `json:"description"`
		} `json:"workouts"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &plan); err != nil {
		s.log.Warn("plan completion is not valid JSON", zap.Error(err))
		return nil, domain.ErrBadCompletion
	}

	result := &domain.WeekPlan{SessionsPerWeek: plan.SessionsPerWeek}
	for _, entry := range plan.Workouts {
		name := strings.TrimSpace(entry.Name)
		if name == "" || !entry.Type.Valid() || entry.DurationMin <= 0 {
			continue
		}
		day, err := time.ParseInLocation(dateLayout, entry.LogDate, time.UTC)
		if err != nil {
			continue
		}
		logDate := datatypes.Date(day)
		if day.Before(time.Time(start)) || day.After(time.Time(end)) {
			continue
		}

		workout, err := s.workoutRepo.FindWorkoutByName(ctx, s.db, name)
		if err != nil {
			return nil, err
		}
		if workout == nil {
			workout = &workoutdomain.Workout{
				ID:   uuid.NewString(),
				Name: name,
				Type: entry.Type,
			}
			if err := s.workoutRepo.InsertWorkout(ctx, s.db, workout); err != nil {
				return nil, err
			}
		}

		existing, err := s.workoutRepo.FindLogByWorkoutDate(ctx, s.db, req.UserID, logDate, workout.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}

		log := &workoutdomain.WorkoutLog{
			ID:          uuid.NewString(),
			UserID:      req.UserID,
			WorkoutID:   workout.ID,
			DurationMin: entry.DurationMin,
			LogDate:     &logDate,
			Status:      workoutdomain.LogPlanned,
		}
		if entry.CaloriesBurned != nil && *entry.CaloriesBurned > 0 {
			log.CaloriesBurned = entry.CaloriesBurned
		}
		if note := strings.TrimSpace(entry.Description); note != "" {
			log.Note = &note
		}
		if err := s.workoutRepo.InsertLog(ctx, s.db, log); err != nil {
			return nil, err
		}
		result.Logs = append(result.Logs, log)
	}

	s.log.Info("week plan suggested",
		zap.Int64("user_id", int64(req.UserID)),
		zap.Int("sessions", len(result.Logs)))

	return result, nil
}

func (s *Service) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := s.client.Complete(ctx, ai.CompletionRequest{
		Model: s.cfg.DefaultModel,
		Messages: []ai.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		s.metrics.AIRequests.WithLabelValues(s.cfg.DefaultModel, "error").Inc()
		return "", err
	}

	s.metrics.AIRequests.WithLabelValues(s.cfg.DefaultModel, "ok").Inc()
	return resp.Content, nil
}

// recentFoodNames resolves the names of everything the user logged in
// the seven days up to and including the given date.
func (s *Service) recentFoodNames(ctx context.Context, userID snowflake.ID, date datatypes.Date) ([]string, error) {
	from := datatypes.Date(time.Time(date).AddDate(0, 0, -6))
	logs, err := s.foodRepo.ListLogs(ctx, s.db, fooddomain.ListFoodLogRequest{
		UserID: userID,
		From:   &from,
		To:     &date,
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(logs))
	var names []string
	for _, log := range logs {
		if seen[log.FoodID] {
			continue
		}
		seen[log.FoodID] = true

		food, err := s.foodRepo.FindFoodByID(ctx, s.db, log.FoodID)
		if err != nil {
			return nil, err
		}
		if food != nil {
			names = append(names, food.Name)
		}
	}
	return names, nil
}

func profileLine(p *profiledomain.Profile) string {
	var parts []string
	if p.Age != nil {
		parts = append(parts, fmt.Sprintf("%d tuổi", *p.Age))
	}
	if p.Gender != nil {
		parts = append(parts, "giới tính "+string(*p.Gender))
	}
	if p.HeightCM != nil {
		parts = append(parts, fmt.Sprintf("cao %.0f cm", *p.HeightCM))
	}
	if p.WeightKG != nil {
		parts = append(parts, fmt.Sprintf("nặng %.1f kg", *p.WeightKG))
	}
	if p.ActivityLevel != nil {
		parts = append(parts, "mức vận động "+string(*p.ActivityLevel))
	}
	if p.BMI != nil {
		parts = append(parts, fmt.Sprintf("BMI %.1f", *p.BMI))
	}
	if len(parts) == 0 {
		return "chưa có thông tin hồ sơ"
	}
	return strings.Join(parts, ", ")
}

// stripFences unwraps a markdown code fence in case the model ignores
// the JSON-only instruction.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

func formatDate(d datatypes.Date) string {
	return time.Time(d).Format(dateLayout)
}

func today() datatypes.Date {
	now := time.Now().UTC()
	return datatypes.Date(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
}

// currentWeek returns the Monday and Sunday of the current ISO week.
func currentWeek() (datatypes.Date, datatypes.Date) {
	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	return datatypes.Date(monday), datatypes.Date(monday.AddDate(0, 0, 6))
}
