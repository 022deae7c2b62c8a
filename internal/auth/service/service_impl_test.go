package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	accountrepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/repository"
	accountservice "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/service"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/domain"
	authrepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (domain.Service, accountdomain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&accountdomain.User{}, &domain.Session{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	users := accountrepo.Provide()
	accountSvc := accountservice.New(accountservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  users,
	})
	authSvc := New(Params{
		DB:          db,
		Log:         log,
		GenID:       node,
		AccountRepo: users,
		AccountSvc:  accountSvc,
		SessionRepo: authrepo.ProvideSession(),
	})
	return authSvc, accountSvc, db
}

func register(t *testing.T, svc domain.Service, username string) *accountdomain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterAssignsUserRole(t *testing.T) {
	svc, _, _ := newAuthService(t)

	user := register(t, svc, "huyng")
	assert.Equal(t, accountdomain.RoleUser, user.Role)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	user := register(t, svc, "huyng")

	result, err := svc.Login(ctx, domain.LoginRequest{
		Username: "huyng",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.RawToken)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	got, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "huyng")

	_, err := svc.Login(ctx, domain.LoginRequest{
		Username: "huyng",
		Password: "wrong-pass",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{
		Username: "nobody",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginBlockedAccount(t *testing.T) {
	svc, accounts, _ := newAuthService(t)
	ctx := context.Background()
	user := register(t, svc, "huyng")

	block := true
	_, err := accounts.Update(ctx, accountdomain.UpdateUserRequest{ID: user.ID, Block: &block})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{
		Username: "huyng",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, domain.ErrAccountBlocked)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "huyng")

	result, err := svc.Login(ctx, domain.LoginRequest{
		Username: "huyng",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RawToken))

	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	svc, _, db := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "huyng")

	result, err := svc.Login(ctx, domain.LoginRequest{
		Username: "huyng",
		Password: "secret123",
	})
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Model(&domain.Session{}).
		Where("id = ?", result.SessionID).
		Update("expires_at", past).Error)

	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestAuthenticateGarbageToken(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)

	_, err = svc.Authenticate(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func guestPrincipal(user *accountdomain.User) context.Context {
	return userctx.WithPrincipal(context.Background(), userctx.Principal{
		UserID: user.ID,
		Role:   int(user.Role),
	})
}

func TestGuestLogin(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	result, err := svc.RegisterGuest(ctx, domain.GuestRequest{})
	require.NoError(t, err)
	assert.Equal(t, accountdomain.RoleGuest, result.User.Role)
	assert.True(t, strings.HasPrefix(result.User.Username, "guest_"))
	assert.True(t, strings.HasSuffix(result.User.Email, "@guest.local"))

	// Guest sessions live a day, not a week.
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), result.ExpiresAt, time.Minute)

	got, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, got.ID)
}

func TestUpgradeGuest(t *testing.T) {
	svc, _, _ := newAuthService(t)

	guest, err := svc.RegisterGuest(context.Background(), domain.GuestRequest{})
	require.NoError(t, err)
	ctx := guestPrincipal(guest.User)

	result, err := svc.UpgradeGuest(ctx, domain.UpgradeGuestRequest{
		Username: "huyng",
		Email:    "huyng@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, accountdomain.RoleUser, result.User.Role)
	assert.Equal(t, "huyng", result.User.Username)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), result.ExpiresAt, time.Minute)

	// The new credentials work like any other account's.
	login, err := svc.Login(context.Background(), domain.LoginRequest{
		Username: "huyng",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, guest.User.ID, login.User.ID)
}

func TestUpgradeGuestNotAGuest(t *testing.T) {
	svc, _, _ := newAuthService(t)
	user := register(t, svc, "huyng")

	_, err := svc.UpgradeGuest(guestPrincipal(user), domain.UpgradeGuestRequest{
		Username: "huyng2",
		Email:    "huyng2@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, domain.ErrNotGuest)
}

func TestUpgradeGuestTakenUsername(t *testing.T) {
	svc, _, _ := newAuthService(t)
	register(t, svc, "huyng")

	guest, err := svc.RegisterGuest(context.Background(), domain.GuestRequest{})
	require.NoError(t, err)

	_, err = svc.UpgradeGuest(guestPrincipal(guest.User), domain.UpgradeGuestRequest{
		Username: "huyng",
		Email:    "other@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, accountdomain.ErrUsernameTaken)
}

func TestUpgradeGuestRejectsWeakCredentials(t *testing.T) {
	svc, _, _ := newAuthService(t)

	guest, err := svc.RegisterGuest(context.Background(), domain.GuestRequest{})
	require.NoError(t, err)
	ctx := guestPrincipal(guest.User)

	_, err = svc.UpgradeGuest(ctx, domain.UpgradeGuestRequest{
		Username: "ab", Email: "a@b.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, accountdomain.ErrInvalidUsername)

	_, err = svc.UpgradeGuest(ctx, domain.UpgradeGuestRequest{
		Username: "huyng", Email: "nope", Password: "secret123",
	})
	assert.ErrorIs(t, err, accountdomain.ErrInvalidEmail)

	_, err = svc.UpgradeGuest(ctx, domain.UpgradeGuestRequest{
		Username: "huyng", Email: "a@b.com", Password: "short",
	})
	assert.ErrorIs(t, err, accountdomain.ErrInvalidPassword)
}
