package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/metrics"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	AccountRepo accountdomain.Repository
	Metrics     *metrics.Metrics
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	accountRepo accountdomain.Repository
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("aiusage.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		accountRepo: p.AccountRepo,
		metrics:     p.Metrics,
	}
}

func (s *Service) DebitForUsage(ctx context.Context, req domain.DebitRequest) (*domain.Usage, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, domain.ErrInvalidModel
	}
	if req.Cost.IsNegative() {
		return nil, domain.ErrInvalidCost
	}

	var usage *domain.Usage
	err := s.db.Transaction(func(dbtx *gorm.DB) error {
		// The account row lock serializes this debit against concurrent
		// debits and against webhook credits for the same user.
		user, err := s.accountRepo.FindByIDForUpdate(ctx, dbtx, req.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}

		if user.Balance.LessThan(req.Cost) {
			return domain.ErrInsufficientFunds
		}

		if err := s.accountRepo.UpdateBalance(ctx, dbtx, user.ID, user.Balance.Sub(req.Cost)); err != nil {
			return err
		}

		usage = &domain.Usage{
			ID:             s.genID.Generate(),
			UserID:         req.UserID,
			ConversationID: req.ConversationID,
			Model:          req.Model,
			TokensUsed:     req.TokensUsed,
			Cost:           req.Cost,
		}
		return s.repo.Insert(ctx, dbtx, usage)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.BalanceDebits.Inc()
	s.log.Info("usage debited",
		zap.Int64("user_id", int64(req.UserID)),
		zap.String("model", req.Model),
		zap.String("cost", req.Cost.String()),
	)
	return usage, nil
}

func (s *Service) List(ctx context.Context, req domain.ListUsageRequest) (domain.ListUsageResponse, error) {
	filter := domain.ListUsageFilter{
		UserID:         req.UserID,
		Model:          strings.TrimSpace(req.Model),
		ConversationID: strings.TrimSpace(req.ConversationID),
	}

	if principal, ok := userctx.PrincipalFromContext(ctx); ok {
		if principal.Role != int(accountdomain.RoleAdmin) {
			filter.UserID = principal.UserID
		}
	}

	page := req.Pagination
	page = page.Normalize()

	usages, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListUsageResponse{}, err
	}

	return domain.ListUsageResponse{
		Results:    usages,
		TotalPage:  pagination.TotalPages(total, page.PageSize),
		TotalUsage: total,
	}, nil
}

func (s *Service) TotalCost(ctx context.Context, userID snowflake.ID) (decimal.Decimal, error) {
	return s.repo.SumCost(ctx, s.db, userID)
}

func (s *Service) UserStats(ctx context.Context, userID snowflake.ID) (domain.UserStats, error) {
	user, err := s.accountRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		return domain.UserStats{}, err
	}
	if user == nil {
		return domain.UserStats{}, domain.ErrUserNotFound
	}

	totalCost, err := s.repo.SumCost(ctx, s.db, userID)
	if err != nil {
		return domain.UserStats{}, err
	}
	count, err := s.repo.Count(ctx, s.db, userID)
	if err != nil {
		return domain.UserStats{}, err
	}

	return domain.UserStats{
		UserID:         userID,
		TotalCost:      totalCost,
		UsageCount:     count,
		CurrentBalance: user.Balance,
	}, nil
}

func (s *Service) GlobalStats(ctx context.Context) (domain.GlobalStats, error) {
	totalCost, err := s.repo.SumCost(ctx, s.db, 0)
	if err != nil {
		return domain.GlobalStats{}, err
	}
	count, err := s.repo.Count(ctx, s.db, 0)
	if err != nil {
		return domain.GlobalStats{}, err
	}
	users, err := s.repo.CountDistinctUsers(ctx, s.db)
	if err != nil {
		return domain.GlobalStats{}, err
	}

	return domain.GlobalStats{
		TotalCost:  totalCost,
		UsageCount: count,
		TotalUsers: users,
	}, nil
}
