package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
)

var (
	ErrUserNotFound      = errors.New("usage_user_not_found")
	ErrInsufficientFunds = errors.New("insufficient_balance")
	ErrInvalidCost       = errors.New("invalid_cost")
	ErrInvalidModel      = errors.New("invalid_model")
)

type DebitRequest struct {
	UserID         snowflake.ID
	ConversationID *string
	Model          string
	TokensUsed     int
	Cost           decimal.Decimal
}

type ListUsageRequest struct {
	pagination.Pagination
	UserID         snowflake.ID `form:"user_id"`
	Model          string       `form:"model"`
	ConversationID string       `form:"conversation_id"`
}

type ListUsageResponse struct {
	Results    []*Usage `json:"results"`
	TotalPage  int      `json:"total_page"`
	TotalUsage int64    `json:"total_usage"`
}

// UserStats reports spend for one account, GlobalStats across all.
type UserStats struct {
	UserID         snowflake.ID    `json:"user_id"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	UsageCount     int64           `json:"usage_count"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

type GlobalStats struct {
	TotalCost  decimal.Decimal `json:"total_cost"`
	UsageCount int64           `json:"usage_count"`
	TotalUsers int64           `json:"total_users"`
}

type Service interface {
	// DebitForUsage atomically checks funds, decrements the account
	// balance by the request cost and records the usage row. It fails
	// with ErrInsufficientFunds without mutating anything when the
	// balance cannot cover the cost.
	DebitForUsage(ctx context.Context, req DebitRequest) (*Usage, error)
	List(ctx context.Context, req ListUsageRequest) (ListUsageResponse, error)
	TotalCost(ctx context.Context, userID snowflake.ID) (decimal.Decimal, error)
	UserStats(ctx context.Context, userID snowflake.ID) (UserStats, error)
	GlobalStats(ctx context.Context) (GlobalStats, error)
}
