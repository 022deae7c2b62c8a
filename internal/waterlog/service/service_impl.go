package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/waterlog/domain"
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
		log:  p.Log.Named("waterlog.service"),
		repo: p.Repo,
	}
}

func (s *Service) Log(ctx context.Context, req domain.CreateWaterLogRequest) (*domain.WaterLog, error) {
	if req.AmountML <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	log := &domain.WaterLog{
		ID:       uuid.NewString(),
		UserID:   req.UserID,
		AmountML: req.AmountML,
		LogDate:  req.LogDate,
	}
	if err := s.repo.Insert(ctx, s.db, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *Service) List(ctx context.Context, req domain.ListWaterLogRequest) ([]*domain.WaterLog, error) {
	return s.repo.List(ctx, s.db, req)
}

func (s *Service) DailyTotals(ctx context.Context, req domain.ListWaterLogRequest) ([]domain.DailyTotal, error) {
	return s.repo.DailyTotals(ctx, s.db, req)
}

func (s *Service) Delete(ctx context.Context, userID snowflake.ID, id string) error {
	log, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if log == nil || log.UserID != userID {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}
