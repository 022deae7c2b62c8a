package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("food.service"),
		repo: p.Repo,
	}
}

func (s *Service) CreateFood(ctx context.Context, req domain.CreateFoodRequest) (*domain.Food, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Calories < 0 {
		return nil, domain.ErrInvalidCalories
	}

	food := &domain.Food{
		ID:       uuid.NewString(),
		Name:     name,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
	}
	if err := s.repo.InsertFood(ctx, s.db, food); err != nil {
		return nil, err
	}
	return food, nil
}

func (s *Service) GetFood(ctx context.Context, id string) (*domain.Food, error) {
	food, err := s.repo.FindFoodByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if food == nil {
		return nil, domain.ErrFoodNotFound
	}
	return food, nil
}

func (s *Service) ListFoods(ctx context.Context, req domain.ListFoodRequest) (domain.ListFoodResponse, error) {
	page := req.Pagination
	page = page.Normalize()

	foods, total, err := s.repo.ListFoods(ctx, s.db, strings.TrimSpace(req.Name), page)
	if err != nil {
		return domain.ListFoodResponse{}, err
	}

	return domain.ListFoodResponse{
		Results:    foods,
		Total:      total,
		TotalPages: pagination.TotalPages(total, page.PageSize),
	}, nil
}

func (s *Service) UpdateFood(ctx context.Context, req domain.UpdateFoodRequest) (*domain.Food, error) {
	food, err := s.repo.FindFoodByID(ctx, s.db, req.ID)
	if err != nil {
		return nil, err
	}
	if food == nil {
		return nil, domain.ErrFoodNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		food.Name = name
	}
	if req.Calories != nil {
		if *req.Calories < 0 {
			return nil, domain.ErrInvalidCalories
		}
		food.Calories = *req.Calories
	}
	if req.Protein != nil {
		food.Protein = req.Protein
	}
	if req.Carbs != nil {
		food.Carbs = req.Carbs
	}
	if req.Fat != nil {
		food.Fat = req.Fat
	}

	if err := s.repo.UpdateFood(ctx, s.db, food); err != nil {
		return nil, err
	}
	return food, nil
}

func (s *Service) DeleteFood(ctx context.Context, id string) error {
	food, err := s.repo.FindFoodByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if food == nil {
		return domain.ErrFoodNotFound
	}
	return s.repo.DeleteFood(ctx, s.db, id)
}

func (s *Service) LogFood(ctx context.Context, req domain.CreateFoodLogRequest) (*domain.FoodLog, error) {
	if req.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if req.MealType != nil && !req.MealType.Valid() {
		return nil, domain.ErrInvalidMealType
	}

	food, err := s.repo.FindFoodByID(ctx, s.db, req.FoodID)
	if err != nil {
		return nil, err
	}
	if food == nil {
		return nil, domain.ErrFoodNotFound
	}

	log := &domain.FoodLog{
		ID:       uuid.NewString(),
		UserID:   req.UserID,
		FoodID:   req.FoodID,
		Quantity: req.Quantity,
		LogDate:  req.LogDate,
		MealType: req.MealType,
	}
	if err := s.repo.InsertLog(ctx, s.db, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *Service) ListLogs(ctx context.Context, req domain.ListFoodLogRequest) ([]*domain.FoodLog, error) {
	return s.repo.ListLogs(ctx, s.db, req)
}

func (s *Service) DeleteLog(ctx context.Context, userID snowflake.ID, id string) error {
	log, err := s.repo.FindLogByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if log == nil || log.UserID != userID {
		return domain.ErrLogNotFound
	}
	return s.repo.DeleteLog(ctx, s.db, id)
}
