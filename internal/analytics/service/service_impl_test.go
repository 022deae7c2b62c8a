package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/analytics/domain"
	fooddomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food/domain"
	foodrepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food/repository"
	workoutdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/workout/domain"
	workoutrepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/workout/repository"
)

type analyticsEnv struct {
	db       *gorm.DB
	svc      domain.Service
	foods    fooddomain.Repository
	workouts workoutdomain.Repository
	userID   snowflake.ID
}

func newAnalyticsEnv(t *testing.T) *analyticsEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&fooddomain.Food{},
		&fooddomain.FoodLog{},
		&workoutdomain.Workout{},
		&workoutdomain.WorkoutLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	foods := foodrepo.Provide()
	workouts := workoutrepo.Provide()
	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		FoodRepo:    foods,
		WorkoutRepo: workouts,
	})

	return &analyticsEnv{db: db, svc: svc, foods: foods, workouts: workouts, userID: node.Generate()}
}

func dayAgo(days int) datatypes.Date {
	now := time.Now().UTC()
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return datatypes.Date(d.AddDate(0, 0, -days))
}

func TestNutritionDaily(t *testing.T) {
	env := newAnalyticsEnv(t)
	ctx := context.Background()

	protein := 20.0
	fat := 10.0
	food := &fooddomain.Food{
		ID:       uuid.NewString(),
		Name:     "Cơm gà",
		Calories: 500,
		Protein:  &protein,
		Fat:      &fat,
	}
	require.NoError(t, env.foods.InsertFood(ctx, env.db, food))

	insert := func(day datatypes.Date, quantity float64) {
		require.NoError(t, env.foods.InsertLog(ctx, env.db, &fooddomain.FoodLog{
			ID:       uuid.NewString(),
			UserID:   env.userID,
			FoodID:   food.ID,
			Quantity: quantity,
			LogDate:  day,
		}))
	}
	insert(dayAgo(0), 1)
	insert(dayAgo(0), 0.5)
	insert(dayAgo(2), 2)
	insert(dayAgo(30), 1) // outside the window

	series, err := env.svc.NutritionDaily(ctx, env.userID, 7)
	require.NoError(t, err)
	require.Len(t, series, 7)

	today := series[6]
	assert.Equal(t, 750.0, today.Calories)
	assert.Equal(t, 30.0, today.Protein)
	assert.Equal(t, 15.0, today.Fat)
	assert.Equal(t, 0.0, today.Carbs)

	assert.Equal(t, 1000.0, series[4].Calories)

	// Days without logs are present and zeroed.
	assert.Equal(t, 0.0, series[5].Calories)
	assert.Equal(t, 0.0, series[0].Calories)
}

func TestWorkoutDaily(t *testing.T) {
	env := newAnalyticsEnv(t)
	ctx := context.Background()

	workout := &workoutdomain.Workout{ID: uuid.NewString(), Name: "Chạy bộ", Type: workoutdomain.TypeCardio}
	require.NoError(t, env.workouts.InsertWorkout(ctx, env.db, workout))

	insert := func(day datatypes.Date, minutes int, calories *int, status workoutdomain.LogStatus) {
		require.NoError(t, env.workouts.InsertLog(ctx, env.db, &workoutdomain.WorkoutLog{
			ID:             uuid.NewString(),
			UserID:         env.userID,
			WorkoutID:      workout.ID,
			DurationMin:    minutes,
			CaloriesBurned: calories,
			LogDate:        &day,
			Status:         status,
		}))
	}
	burned := 200
	insert(dayAgo(0), 30, &burned, workoutdomain.LogCompleted)
	insert(dayAgo(0), 20, nil, workoutdomain.LogPlanned)
	insert(dayAgo(1), 45, nil, workoutdomain.LogSkipped)

	series, err := env.svc.WorkoutDaily(ctx, env.userID, 7)
	require.NoError(t, err)
	require.Len(t, series, 7)

	today := series[6]
	assert.Equal(t, 50, today.DurationMin)
	assert.Equal(t, 200, today.Calories)
	// Completed wins over planned for the day's status.
	assert.Equal(t, "completed", today.Status)

	assert.Equal(t, "skipped", series[5].Status)
	assert.Empty(t, series[0].Status)
}

func TestAnalyticsWindowDefaults(t *testing.T) {
	env := newAnalyticsEnv(t)

	series, err := env.svc.NutritionDaily(context.Background(), env.userID, 0)
	require.NoError(t, err)
	assert.Len(t, series, 7)

	series, err = env.svc.NutritionDaily(context.Background(), env.userID, 400)
	require.NoError(t, err)
	assert.Len(t, series, 90)
}
