// Package scheduler runs the periodic maintenance jobs: the nightly
// balance drift audit, stale pending-transaction expiry and session
// cleanup.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	usagedomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/domain"
	authdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/metrics"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/providers/email"
	txdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
)

type Params struct {
	fx.In

	LC          fx.Lifecycle
	DB          *gorm.DB
	Log         *zap.Logger
	Cfg         config.Config
	AccountRepo accountdomain.Repository
	TxRepo      txdomain.Repository
	UsageRepo   usagedomain.Repository
	SessionRepo authdomain.SessionRepository
	Mailer      email.Provider
	Metrics     *metrics.Metrics
}

type Scheduler struct {
	cron        *cron.Cron
	db          *gorm.DB
	log         *zap.Logger
	cfg         config.SchedulerConfig
	alertTo     string
	accountRepo accountdomain.Repository
	txRepo      txdomain.Repository
	usageRepo   usagedomain.Repository
	sessionRepo authdomain.SessionRepository
	mailer      email.Provider
	metrics     *metrics.Metrics
}

func New(p Params) (*Scheduler, error) {
	s := &Scheduler{
		cron:        cron.New(),
		db:          p.DB,
		log:         p.Log.Named("scheduler"),
		cfg:         p.Cfg.Scheduler,
		alertTo:     p.Cfg.Email.AlertTo,
		accountRepo: p.AccountRepo,
		txRepo:      p.TxRepo,
		usageRepo:   p.UsageRepo,
		sessionRepo: p.SessionRepo,
		mailer:      p.Mailer,
		metrics:     p.Metrics,
	}

	if !s.cfg.Enabled {
		return s, nil
	}

	if _, err := s.cron.AddFunc(s.cfg.DriftAuditSpec, s.runDriftAudit); err != nil {
		return nil, fmt.Errorf("schedule drift audit: %w", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.PendingExpirySpec, s.runMaintenance); err != nil {
		return nil, fmt.Errorf("schedule pending expiry: %w", err)
	}

	p.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.cron.Start()
			s.log.Info("scheduler started",
				zap.String("drift_audit", s.cfg.DriftAuditSpec),
				zap.String("pending_expiry", s.cfg.PendingExpirySpec),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stop := s.cron.Stop()
			select {
			case <-stop.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return s, nil
}

// runDriftAudit compares every stored balance against the derived value
// (completed credits minus usage debits) and mails the findings.
func (s *Scheduler) runDriftAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	drifted, err := s.DriftReport(ctx)
	if err != nil {
		s.log.Error("drift audit failed", zap.Error(err))
		return
	}
	s.metrics.BalanceDrift.Set(float64(len(drifted)))
	if len(drifted) == 0 {
		s.log.Info("drift audit clean")
		return
	}

	s.log.Error("balance drift detected", zap.Int("accounts", len(drifted)))
	for _, d := range drifted {
		s.log.Error("drifted account",
			zap.Int64("user_id", int64(d.UserID)),
			zap.String("stored", d.Stored),
			zap.String("derived", d.Derived),
		)
	}

	if s.alertTo == "" {
		return
	}
	var b strings.Builder
	b.WriteString("<h1>Balance drift report</h1><ul>")
	for _, d := range drifted {
		fmt.Fprintf(&b, "<li>user %d: stored %s, derived %s</li>", d.UserID, d.Stored, d.Derived)
	}
	b.WriteString("</ul>")
	if err := s.mailer.Send(ctx, []string{s.alertTo}, "Balance drift detected", b.String()); err != nil {
		s.log.Error("drift alert mail failed", zap.Error(err))
	}
}

type Drift struct {
	UserID  snowflake.ID
	Stored  string
	Derived string
}

// DriftReport walks all accounts and returns those whose stored balance
// disagrees with the ledger-derived value.
func (s *Scheduler) DriftReport(ctx context.Context) ([]Drift, error) {
	var drifted []Drift
	page := pagination.Pagination{Page: 1, PageSize: pagination.MaxPageSize}
	for {
		users, _, err := s.accountRepo.List(ctx, s.db, accountdomain.ListUserFilter{}, page)
		if err != nil {
			return nil, err
		}
		if len(users) == 0 {
			return drifted, nil
		}

		for _, user := range users {
			credits, err := s.txRepo.SumCompletedByUser(ctx, s.db, user.ID)
			if err != nil {
				return nil, err
			}
			debits, err := s.usageRepo.SumCost(ctx, s.db, user.ID)
			if err != nil {
				return nil, err
			}
			derived := credits.Sub(debits)
			if !derived.Equal(user.Balance) {
				drifted = append(drifted, Drift{
					UserID:  user.ID,
					Stored:  user.Balance.String(),
					Derived: derived.String(),
				})
			}
		}
		page.Page++
	}
}

// runMaintenance cancels pending transactions older than the configured
// TTL and purges expired sessions.
func (s *Scheduler) runMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().Add(-time.Duration(s.cfg.PendingTTLHours) * time.Hour)
	expired, err := s.txRepo.ExpireStalePending(ctx, s.db, cutoff)
	if err != nil {
		s.log.Error("pending expiry failed", zap.Error(err))
	} else if expired > 0 {
		s.log.Info("expired stale pending transactions", zap.Int64("count", expired))
	}

	purged, err := s.sessionRepo.DeleteExpired(ctx, s.db, time.Now().UTC())
	if err != nil {
		s.log.Error("session cleanup failed", zap.Error(err))
	} else if purged > 0 {
		s.log.Info("purged expired sessions", zap.Int64("count", purged))
	}
}

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(func(*Scheduler) {}),
)
