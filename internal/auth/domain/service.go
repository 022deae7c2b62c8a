package domain

import (
	"context"

	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*accountdomain.User, error)
	// RegisterGuest creates a throwaway guest account and logs it in
	// with a short-lived session.
	RegisterGuest(ctx context.Context, req GuestRequest) (*LoginResult, error)
	// UpgradeGuest converts the calling guest into a regular account
	// with its own credentials and issues a fresh session.
	UpgradeGuest(ctx context.Context, req UpgradeGuestRequest) (*LoginResult, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	// Authenticate resolves a raw session token to its user, refreshing
	// the session's last-seen timestamp on success.
	Authenticate(ctx context.Context, rawToken string) (*accountdomain.User, error)
}
