package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/metrics"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Cfg         config.Config
	Repo        domain.Repository
	AccountRepo accountdomain.Repository
	Metrics     *metrics.Metrics
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	bank        config.BankConfig
	repo        domain.Repository
	accountRepo accountdomain.Repository
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("transaction.service"),
		bank:        p.Cfg.Bank,
		repo:        p.Repo,
		accountRepo: p.AccountRepo,
		metrics:     p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTransactionRequest) (*domain.CreateTransactionResponse, error) {
	principal, ok := userctx.PrincipalFromContext(ctx)
	if !ok {
		return nil, accountdomain.ErrNotFound
	}

	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		return nil, domain.ErrInvalidPaymentMethod
	}

	id := uuid.NewString()
	// The trailing uuid segment is the code the payment rail echoes back
	// in its transfer description.
	code := id[strings.LastIndex(id, "-")+1:]

	tx := &domain.Transaction{
		ID:             id,
		UserID:         principal.UserID,
		Status:         domain.StatusPending,
		Amount:         req.Amount,
		PaymentMethod:  method,
		Code:           code,
		AdditionalData: req.AdditionalData,
	}
	if err := s.repo.Insert(ctx, s.db, tx); err != nil {
		return nil, err
	}

	s.log.Info("transaction created",
		zap.String("transaction_id", id),
		zap.Int64("user_id", int64(principal.UserID)),
		zap.String("amount", req.Amount.String()),
	)

	return &domain.CreateTransactionResponse{
		Transaction: tx,
		QRImageURL:  s.qrImageURL(tx),
	}, nil
}

// qrImageURL renders the VietQR image link whose addInfo carries the
// TX-<code> marker.
func (s *Service) qrImageURL(tx *domain.Transaction) string {
	return fmt.Sprintf("%s/%s-%s-compact2.jpg?amount=%s&addInfo=%s&accountName=%s",
		strings.TrimRight(s.bank.QRBaseURL, "/"),
		s.bank.Gateway,
		s.bank.AccountNumber,
		tx.Amount.String(),
		url.QueryEscape("TX-"+tx.Code),
		url.QueryEscape(s.bank.AccountName),
	)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	tx, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}

	if principal, ok := userctx.PrincipalFromContext(ctx); ok {
		if principal.Role != int(accountdomain.RoleAdmin) && tx.UserID != principal.UserID {
			return nil, domain.ErrNotFound
		}
	}
	return tx, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTransactionRequest) (domain.ListTransactionResponse, error) {
	filter := domain.ListTransactionFilter{
		UserID:        req.UserID,
		Status:        req.Status,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
	}

	// Non-admins only ever see their own rows, whatever filter they send.
	if principal, ok := userctx.PrincipalFromContext(ctx); ok {
		if principal.Role != int(accountdomain.RoleAdmin) {
			filter.UserID = principal.UserID
		}
	}

	page := req.Pagination
	page = page.Normalize()

	txs, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListTransactionResponse{}, err
	}

	return domain.ListTransactionResponse{
		Results:           txs,
		TotalPage:         pagination.TotalPages(total, page.PageSize),
		TotalTransactions: total,
	}, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateTransactionRequest) (*domain.Transaction, error) {
	if req.Status != nil {
		return s.UpdateStatus(ctx, req.ID, *req.Status)
	}

	if req.Amount != nil && !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	var method string
	if req.PaymentMethod != nil {
		method = strings.TrimSpace(*req.PaymentMethod)
		if method == "" {
			return nil, domain.ErrInvalidPaymentMethod
		}
	}

	var out *domain.Transaction
	err := s.db.Transaction(func(dbtx *gorm.DB) error {
		tx, err := s.repo.FindByID(ctx, dbtx, req.ID)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.ErrNotFound
		}

		// Take the same account row lock completion takes, then re-read:
		// the status check must not race a concurrent credit.
		if _, err := s.accountRepo.FindByIDForUpdate(ctx, dbtx, tx.UserID); err != nil {
			return err
		}
		tx, err = s.repo.FindByID(ctx, dbtx, req.ID)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.ErrNotFound
		}
		if tx.Status == domain.StatusCompleted {
			return domain.ErrCompletedImmutable
		}

		if req.Amount != nil {
			tx.Amount = *req.Amount
		}
		if req.PaymentMethod != nil {
			tx.PaymentMethod = method
		}
		if req.AdditionalData != nil {
			tx.AdditionalData = req.AdditionalData
		}

		if err := s.repo.Update(ctx, dbtx, tx); err != nil {
			return err
		}
		out = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Transaction, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	tx, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}

	if tx.Status == domain.StatusCompleted {
		if status == domain.StatusCompleted {
			return tx, nil
		}
		return nil, domain.ErrCompletedImmutable
	}

	if status == domain.StatusCompleted {
		return s.complete(ctx, id)
	}

	if err := s.repo.UpdateStatus(ctx, s.db, id, status, nil); err != nil {
		return nil, err
	}
	tx.Status = status
	return tx, nil
}

// complete credits the owning account and flips the transaction to
// completed inside one database transaction. The account row lock
// serializes every balance mutation for that user, so a concurrent
// completion of the same transaction observes the flipped status and
// does not credit twice.
func (s *Service) complete(ctx context.Context, id string) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := s.db.Transaction(func(dbtx *gorm.DB) error {
		tx, err := s.repo.FindByID(ctx, dbtx, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.ErrNotFound
		}

		user, err := s.accountRepo.FindByIDForUpdate(ctx, dbtx, tx.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}

		// Re-read under the account lock: a concurrent delivery may have
		// completed this transaction while we waited.
		tx, err = s.repo.FindByID(ctx, dbtx, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.ErrNotFound
		}
		if tx.Status == domain.StatusCompleted {
			out = tx
			return nil
		}

		if err := s.accountRepo.UpdateBalance(ctx, dbtx, user.ID, user.Balance.Add(tx.Amount)); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := s.repo.UpdateStatus(ctx, dbtx, id, domain.StatusCompleted, &now); err != nil {
			return err
		}

		tx.Status = domain.StatusCompleted
		tx.CompletedAt = &now
		out = tx

		s.metrics.BalanceCredits.Inc()
		s.log.Info("transaction completed",
			zap.String("transaction_id", id),
			zap.Int64("user_id", int64(user.ID)),
			zap.String("amount", tx.Amount.String()),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tx, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if tx == nil {
		return domain.ErrNotFound
	}
	return s.repo.SoftDelete(ctx, s.db, id)
}

func (s *Service) UserBalance(ctx context.Context, userID snowflake.ID) (domain.BalanceView, error) {
	user, err := s.accountRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		return domain.BalanceView{}, err
	}
	if user == nil {
		return domain.BalanceView{}, domain.ErrUserNotFound
	}

	sum, err := s.repo.SumCompletedByUser(ctx, s.db, userID)
	if err != nil {
		return domain.BalanceView{}, err
	}

	return domain.BalanceView{
		UserID:        userID,
		Balance:       sum,
		StoredBalance: user.Balance,
	}, nil
}
