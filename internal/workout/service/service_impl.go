package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/workout/domain"
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
		log:  p.Log.Named("workout.service"),
		repo: p.Repo,
	}
}

func (s *Service) CreateWorkout(ctx context.Context, req domain.CreateWorkoutRequest) (*domain.Workout, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if !req.Type.Valid() {
		return nil, domain.ErrInvalidType
	}

	workout := &domain.Workout{
		ID:   uuid.NewString(),
		Name: name,
		Type: req.Type,
	}
	if err := s.repo.InsertWorkout(ctx, s.db, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *Service) GetWorkout(ctx context.Context, id string) (*domain.Workout, error) {
	workout, err := s.repo.FindWorkoutByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if workout == nil {
		return nil, domain.ErrWorkoutNotFound
	}
	return workout, nil
}

func (s *Service) ListWorkouts(ctx context.Context, req domain.ListWorkoutRequest) (domain.ListWorkoutResponse, error) {
	if req.Type != "" && !req.Type.Valid() {
		return domain.ListWorkoutResponse{}, domain.ErrInvalidType
	}

	page := req.Pagination
	page = page.Normalize()

	workouts, total, err := s.repo.ListWorkouts(ctx, s.db, req.Type, page)
	if err != nil {
		return domain.ListWorkoutResponse{}, err
	}

	return domain.ListWorkoutResponse{
		Results:    workouts,
		Total:      total,
		TotalPages: pagination.TotalPages(total, page.PageSize),
	}, nil
}

func (s *Service) UpdateWorkout(ctx context.Context, req domain.UpdateWorkoutRequest) (*domain.Workout, error) {
	workout, err := s.repo.FindWorkoutByID(ctx, s.db, req.ID)
	if err != nil {
		return nil, err
	}
	if workout == nil {
		return nil, domain.ErrWorkoutNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		workout.Name = name
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, domain.ErrInvalidType
		}
		workout.Type = *req.Type
	}

	if err := s.repo.UpdateWorkout(ctx, s.db, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *Service) DeleteWorkout(ctx context.Context, id string) error {
	workout, err := s.repo.FindWorkoutByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if workout == nil {
		return domain.ErrWorkoutNotFound
	}
	return s.repo.DeleteWorkout(ctx, s.db, id)
}

func (s *Service) LogWorkout(ctx context.Context, req domain.CreateWorkoutLogRequest) (*domain.WorkoutLog, error) {
	if req.DurationMin <= 0 {
		return nil, domain.ErrInvalidDuration
	}
	if !req.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	workout, err := s.repo.FindWorkoutByID(ctx, s.db, req.WorkoutID)
	if err != nil {
		return nil, err
	}
	if workout == nil {
		return nil, domain.ErrWorkoutNotFound
	}

	log := &domain.WorkoutLog{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		WorkoutID:      req.WorkoutID,
		DurationMin:    req.DurationMin,
		CaloriesBurned: req.CaloriesBurned,
		LogDate:        req.LogDate,
		Status:         req.Status,
		Note:           req.Note,
	}
	if err := s.repo.InsertLog(ctx, s.db, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *Service) UpdateLog(ctx context.Context, req domain.UpdateWorkoutLogRequest) (*domain.WorkoutLog, error) {
	log, err := s.repo.FindLogByID(ctx, s.db, req.ID)
	if err != nil {
		return nil, err
	}
	if log == nil || log.UserID != req.UserID {
		return nil, domain.ErrLogNotFound
	}

	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			return nil, domain.ErrInvalidDuration
		}
		log.DurationMin = *req.DurationMin
	}
	if req.CaloriesBurned != nil {
		log.CaloriesBurned = req.CaloriesBurned
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		log.Status = *req.Status
	}
	if req.Note != nil {
		log.Note = req.Note
	}

	if err := s.repo.UpdateLog(ctx, s.db, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *Service) ListLogs(ctx context.Context, req domain.ListWorkoutLogRequest) ([]*domain.WorkoutLog, error) {
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
