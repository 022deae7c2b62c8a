package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrFoodNotFound    = errors.New("food_not_found")
	ErrLogNotFound     = errors.New("food_log_not_found")
	ErrInvalidName     = errors.New("invalid_food_name")
	ErrInvalidCalories = errors.New("invalid_calories")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidMealType = errors.New("invalid_meal_type")
)

type CreateFoodRequest struct {
	Name     string   `json:"name"`
	Calories int      `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
}

type UpdateFoodRequest struct {
	ID       string
	Name     *string  `json:"name"`
	Calories *int     `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
}

type ListFoodRequest struct {
	pagination.Pagination
	Name string `form:"name"`
}

type ListFoodResponse struct {
	Results    []*Food `json:"results"`
	Total      int64   `json:"total"`
	TotalPages int     `json:"total_pages"`
}

type CreateFoodLogRequest struct {
	UserID   snowflake.ID
	FoodID   string         `json:"food_id"`
	Quantity float64        `json:"quantity"`
	LogDate  datatypes.Date `json:"log_date"`
	MealType *MealType      `json:"meal_type"`
}

type ListFoodLogRequest struct {
	UserID snowflake.ID
	From   *datatypes.Date `form:"from"`
	To     *datatypes.Date `form:"to"`
}

type Repository interface {
	InsertFood(ctx context.Context, db *gorm.DB, food *Food) error
	FindFoodByID(ctx context.Context, db *gorm.DB, id string) (*Food, error)
	FindFoodByName(ctx context.Context, db *gorm.DB, name string) (*Food, error)
	ListFoods(ctx context.Context, db *gorm.DB, name string, page pagination.Pagination) ([]*Food, int64, error)
	UpdateFood(ctx context.Context, db *gorm.DB, food *Food) error
	DeleteFood(ctx context.Context, db *gorm.DB, id string) error

	InsertLog(ctx context.Context, db *gorm.DB, log *FoodLog) error
	FindLogByID(ctx context.Context, db *gorm.DB, id string) (*FoodLog, error)
	FindLogByMeal(ctx context.Context, db *gorm.DB, userID snowflake.ID, date datatypes.Date, mealType MealType, foodID string) (*FoodLog, error)
	UpdateLog(ctx context.Context, db *gorm.DB, log *FoodLog) error
	ListLogs(ctx context.Context, db *gorm.DB, req ListFoodLogRequest) ([]*FoodLog, error)
	DeleteLog(ctx context.Context, db *gorm.DB, id string) error
}

type Service interface {
	CreateFood(ctx context.Context, req CreateFoodRequest) (*Food, error)
	GetFood(ctx context.Context, id string) (*Food, error)
	ListFoods(ctx context.Context, req ListFoodRequest) (ListFoodResponse, error)
	UpdateFood(ctx context.Context, req UpdateFoodRequest) (*Food, error)
	DeleteFood(ctx context.Context, id string) error

	LogFood(ctx context.Context, req CreateFoodLogRequest) (*FoodLog, error)
	ListLogs(ctx context.Context, req ListFoodLogRequest) ([]*FoodLog, error)
	DeleteLog(ctx context.Context, userID snowflake.ID, id string) error
}
