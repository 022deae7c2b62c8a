package webhook

import (
	"context"
	"errors"
	"regexp"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/metrics"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/domain"
)

// txCodeRegex matches the TX marker followed by the code embedded in the
// transfer description. The payer's bank may strip the hyphen, so only
// the marker and the alphanumeric token are significant.
var txCodeRegex = regexp.MustCompile(`TX([A-Za-z0-9]{6,20})`)

// amountTolerance absorbs floating-point representation noise from the
// gateway. Absolute, one minor currency unit.
var amountTolerance = decimal.NewFromFloat(0.01)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	TxRepo      domain.Repository
	TxSvc       domain.Service
	AccountRepo accountdomain.Repository
	Metrics     *metrics.Metrics
}

type service struct {
	db          *gorm.DB
	log         *zap.Logger
	txRepo      domain.Repository
	txSvc       domain.Service
	accountRepo accountdomain.Repository
	metrics     *metrics.Metrics
}

func New(p Params) Service {
	return &service{
		db:          p.DB,
		log:         p.Log.Named("transaction.webhook"),
		txRepo:      p.TxRepo,
		txSvc:       p.TxSvc,
		accountRepo: p.AccountRepo,
		metrics:     p.Metrics,
	}
}

func (s *service) Process(ctx context.Context, n Notification) Result {
	s.log.Info("webhook received",
		zap.String("gateway", n.Gateway),
		zap.Int64("notification_id", n.NotificationID),
		zap.String("reference_code", n.ReferenceCode),
	)

	if n.Content == "" {
		return s.reject("empty_content", "Empty content", nil)
	}

	match := txCodeRegex.FindStringSubmatch(n.Content)
	if match == nil {
		s.log.Warn("transaction code not found in content", zap.String("content", n.Content))
		return s.reject("code_not_found", "Transaction code not found in content", nil)
	}
	code := match[1]

	tx, err := s.txRepo.FindByCode(ctx, s.db, code)
	if err != nil {
		return s.internalError(code, err)
	}
	if tx == nil {
		s.log.Warn("transaction not found", zap.String("code", code))
		return s.reject("transaction_not_found", "Transaction not found: "+code, &code)
	}

	if tx.Amount.Sub(n.TransferAmount).Abs().GreaterThan(amountTolerance) {
		s.log.Warn("amount mismatch",
			zap.String("code", code),
			zap.String("expected", tx.Amount.String()),
			zap.String("got", n.TransferAmount.String()),
		)
		return s.reject("amount_mismatch", "Amount mismatch", &code)
	}

	user, err := s.accountRepo.FindByID(ctx, s.db, tx.UserID)
	if err != nil {
		return s.internalError(code, err)
	}
	if user == nil {
		s.log.Error("transaction owner not found",
			zap.String("code", code),
			zap.Int64("user_id", int64(tx.UserID)),
		)
		return s.reject("user_not_found", "User not found", &code)
	}

	if tx.Status == domain.StatusCompleted {
		s.metrics.WebhookResults.WithLabelValues("already_completed").Inc()
		return Result{Success: true, Message: "Transaction already completed", TransactionCode: &code}
	}

	if _, err := s.txSvc.UpdateStatus(ctx, tx.ID, domain.StatusCompleted); err != nil {
		// A concurrent delivery can win the race and complete the
		// transaction first; that still counts as success.
		if errors.Is(err, domain.ErrCompletedImmutable) {
			s.metrics.WebhookResults.WithLabelValues("already_completed").Inc()
			return Result{Success: true, Message: "Transaction already completed", TransactionCode: &code}
		}
		return s.internalError(code, err)
	}

	s.metrics.WebhookResults.WithLabelValues("completed").Inc()
	s.log.Info("transaction completed via webhook", zap.String("code", code))
	return Result{Success: true, Message: "Transaction completed successfully", TransactionCode: &code}
}

func (s *service) reject(label, message string, code *string) Result {
	s.metrics.WebhookResults.WithLabelValues(label).Inc()
	return Result{Success: false, Message: message, TransactionCode: code}
}

func (s *service) internalError(code string, err error) Result {
	s.log.Error("webhook processing error", zap.String("code", code), zap.Error(err))
	s.metrics.WebhookResults.WithLabelValues("error").Inc()
	return Result{Success: false, Message: "Internal server error", TransactionCode: &code}
}
