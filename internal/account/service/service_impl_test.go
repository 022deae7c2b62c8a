package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/password"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAccountService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestCreateUser(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateUserRequest{
		Username: "huyng",
		Email:    "Huy@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, "huyng", user.Username)
	assert.Equal(t, "huy@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.Balance.IsZero())

	assert.True(t, password.Verify("secret123", user.PasswordHash))
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.CreateUserRequest
		want error
	}{
		{"short username", domain.CreateUserRequest{Username: "ab", Email: "a@b.c", Password: "secret123"}, domain.ErrInvalidUsername},
		{"bad email", domain.CreateUserRequest{Username: "abc", Email: "nope", Password: "secret123"}, domain.ErrInvalidEmail},
		{"short password", domain.CreateUserRequest{Username: "abc", Email: "a@b.c", Password: "short"}, domain.ErrInvalidPassword},
		{"bad role", domain.CreateUserRequest{Username: "abc", Email: "a@b.c", Password: "secret123", Role: 9}, domain.ErrInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateUserDuplicates(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateUserRequest{
		Username: "huyng",
		Email:    "huy@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateUserRequest{
		Username: "huyng",
		Email:    "other@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = svc.Create(ctx, domain.CreateUserRequest{
		Username: "other",
		Email:    "huy@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUpdateUserSelfDemotion(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	admin, err := svc.Create(ctx, domain.CreateUserRequest{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "secret123",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)

	adminCtx := userctx.WithPrincipal(ctx, userctx.Principal{
		UserID: admin.ID,
		Role:   int(domain.RoleAdmin),
	})

	role := domain.RoleUser
	_, err = svc.Update(adminCtx, domain.UpdateUserRequest{ID: admin.ID, Role: &role})
	assert.ErrorIs(t, err, domain.ErrSelfDemotion)

	// Demoting someone else is fine.
	other, err := svc.Create(ctx, domain.CreateUserRequest{
		Username: "other",
		Email:    "other@example.com",
		Password: "secret123",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)

	updated, err := svc.Update(adminCtx, domain.UpdateUserRequest{ID: other.ID, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, updated.Role)
}

func TestUpdatePreservesBalance(t *testing.T) {
	svc, db := newAccountService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateUserRequest{
		Username: "huyng",
		Email:    "huy@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	// Hold a copy of the row, then let a credit land behind its back.
	repo := repository.Provide()
	stale, err := repo.FindByID(ctx, db, user.ID)
	require.NoError(t, err)
	require.True(t, stale.Balance.IsZero())
	require.NoError(t, repo.UpdateBalance(ctx, db, user.ID, decimal.NewFromInt(1000)))

	// Writing the stale copy must not touch the balance column.
	stale.Block = true
	require.NoError(t, repo.Update(ctx, db, stale))

	got, err := repo.FindByID(ctx, db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Block)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(1000)), "balance = %s", got.Balance)
}

func TestListUsersFilters(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	for _, u := range []struct {
		name string
		role domain.Role
	}{
		{"alice", domain.RoleUser},
		{"bob", domain.RoleUser},
		{"root", domain.RoleAdmin},
	} {
		_, err := svc.Create(ctx, domain.CreateUserRequest{
			Username: u.name,
			Email:    u.name + "@example.com",
			Password: "secret123",
			Role:     u.role,
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, domain.ListUserRequest{Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "root", resp.Users[0].Username)

	resp, err = svc.List(ctx, domain.ListUserRequest{Username: "ali"})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "alice", resp.Users[0].Username)
}

func TestListUsersCapsPageSize(t *testing.T) {
	svc, db := newAccountService(t)
	ctx := context.Background()

	repo := repository.Provide()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	for i := 0; i < 101; i++ {
		id := node.Generate()
		require.NoError(t, repo.Insert(ctx, db, &domain.User{
			ID:           id,
			Username:     "user-" + id.String(),
			Email:        id.String() + "@example.com",
			PasswordHash: "x",
			Role:         domain.RoleUser,
		}))
	}

	// An oversized page_size is capped, and the page count reflects the
	// capped size, not the requested one.
	resp, err := svc.List(ctx, domain.ListUserRequest{
		Pagination: pagination.Pagination{Page: 1, PageSize: 1000},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Users, pagination.MaxPageSize)
	assert.Equal(t, int64(101), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateUserRequest{
		Username: "huyng",
		Email:    "huy@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID))

	_, err = svc.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
