package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/goal/domain"
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
		log:  p.Log.Named("goal.service"),
		repo: p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateGoalRequest) (*domain.Goal, error) {
	if !req.GoalType.Valid() {
		return nil, domain.ErrInvalidType
	}
	if req.TargetWeight != nil && *req.TargetWeight <= 0 {
		return nil, domain.ErrInvalidTarget
	}
	if req.DailyCalorieTarget != nil && *req.DailyCalorieTarget <= 0 {
		return nil, domain.ErrInvalidTarget
	}

	goal := &domain.Goal{
		ID:                 uuid.NewString(),
		UserID:             req.UserID,
		GoalType:           req.GoalType,
		TargetWeight:       req.TargetWeight,
		DailyCalorieTarget: req.DailyCalorieTarget,
	}
	if err := s.repo.Insert(ctx, s.db, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *Service) List(ctx context.Context, userID snowflake.ID) ([]*domain.Goal, error) {
	return s.repo.ListByUser(ctx, s.db, userID)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateGoalRequest) (*domain.Goal, error) {
	goal, err := s.repo.FindByID(ctx, s.db, req.ID)
	if err != nil {
		return nil, err
	}
	if goal == nil || goal.UserID != req.UserID {
		return nil, domain.ErrNotFound
	}

	if req.GoalType != nil {
		if !req.GoalType.Valid() {
			return nil, domain.ErrInvalidType
		}
		goal.GoalType = *req.GoalType
	}
	if req.TargetWeight != nil {
		if *req.TargetWeight <= 0 {
			return nil, domain.ErrInvalidTarget
		}
		goal.TargetWeight = req.TargetWeight
	}
	if req.DailyCalorieTarget != nil {
		if *req.DailyCalorieTarget <= 0 {
			return nil, domain.ErrInvalidTarget
		}
		goal.DailyCalorieTarget = req.DailyCalorieTarget
	}

	if err := s.repo.Update(ctx, s.db, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *Service) Delete(ctx context.Context, userID snowflake.ID, id string) error {
	goal, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if goal == nil || goal.UserID != userID {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}
