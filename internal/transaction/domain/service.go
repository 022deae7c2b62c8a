package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"gorm.io/datatypes"
)

var (
	ErrNotFound             = errors.New("transaction_not_found")
	ErrUserNotFound         = errors.New("transaction_user_not_found")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidPaymentMethod = errors.New("invalid_payment_method")
	// ErrCompletedImmutable rejects any attempt to move a completed
	// transaction to another state. Completion is terminal.
	ErrCompletedImmutable = errors.New("transaction_already_completed")
)

type CreateTransactionRequest struct {
	Amount         decimal.Decimal   `json:"amount"`
	PaymentMethod  string            `json:"payment_method"`
	AdditionalData datatypes.JSONMap `json:"additional_data"`
}

type CreateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
	QRImageURL  string       `json:"qr_image_url"`
}

type ListTransactionRequest struct {
	pagination.Pagination
	UserID        snowflake.ID `form:"user_id"`
	Status        *Status      `form:"status"`
	PaymentMethod string       `form:"payment_method"`
}

type ListTransactionResponse struct {
	Results           []*Transaction `json:"results"`
	TotalPage         int            `json:"total_page"`
	TotalTransactions int64          `json:"total_transactions"`
}

type UpdateTransactionRequest struct {
	ID             string
	Amount         *decimal.Decimal  `json:"amount"`
	PaymentMethod  *string           `json:"payment_method"`
	AdditionalData datatypes.JSONMap `json:"additional_data"`
	Status         *Status           `json:"status"`
}

// BalanceView reconciles the derived balance (sum of completed
// transactions) against the stored account balance.
type BalanceView struct {
	UserID        snowflake.ID    `json:"user_id"`
	Balance       decimal.Decimal `json:"balance"`
	StoredBalance decimal.Decimal `json:"stored_balance"`
}

type Service interface {
	Create(ctx context.Context, req CreateTransactionRequest) (*CreateTransactionResponse, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context, req ListTransactionRequest) (ListTransactionResponse, error)
	Update(ctx context.Context, req UpdateTransactionRequest) (*Transaction, error)
	// UpdateStatus applies a lifecycle transition. A transition to
	// completed credits the owning account exactly once; repeating it is
	// a no-op, and any other transition away from completed fails with
	// ErrCompletedImmutable.
	UpdateStatus(ctx context.Context, id string, status Status) (*Transaction, error)
	Delete(ctx context.Context, id string) error
	UserBalance(ctx context.Context, userID snowflake.ID) (BalanceView, error)
}
