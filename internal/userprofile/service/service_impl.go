package service

import (
	"context"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/userprofile/domain"
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
		log:  p.Log.Named("userprofile.service"),
		repo: p.Repo,
	}
}

func (s *Service) Get(ctx context.Context, userID snowflake.ID) (*domain.Profile, error) {
	profile, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

func (s *Service) Upsert(ctx context.Context, req domain.UpsertProfileRequest) (*domain.Profile, error) {
	if req.Gender != nil && !req.Gender.Valid() {
		return nil, domain.ErrInvalidGender
	}
	if req.ActivityLevel != nil && !req.ActivityLevel.Valid() {
		return nil, domain.ErrInvalidLevel
	}
	if req.Age != nil && (*req.Age <= 0 || *req.Age > 150) {
		return nil, domain.ErrInvalidValue
	}
	if req.HeightCM != nil && *req.HeightCM <= 0 {
		return nil, domain.ErrInvalidValue
	}
	if req.WeightKG != nil && *req.WeightKG <= 0 {
		return nil, domain.ErrInvalidValue
	}

	profile, err := s.repo.FindByUserID(ctx, s.db, req.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &domain.Profile{UserID: req.UserID}
	}

	if req.Age != nil {
		profile.Age = req.Age
	}
	if req.Gender != nil {
		profile.Gender = req.Gender
	}
	if req.HeightCM != nil {
		profile.HeightCM = req.HeightCM
	}
	if req.WeightKG != nil {
		profile.WeightKG = req.WeightKG
	}
	if req.ActivityLevel != nil {
		profile.ActivityLevel = req.ActivityLevel
	}
	if req.Target != nil {
		profile.Target = req.Target
	}

	if profile.HeightCM != nil && profile.WeightKG != nil {
		meters := *profile.HeightCM / 100
		bmi := math.Round(*profile.WeightKG/(meters*meters)*100) / 100
		profile.BMI = &bmi
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.repo.Upsert(ctx, s.db, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) Delete(ctx context.Context, userID snowflake.ID) error {
	profile, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, userID)
}
