package service

import (
	"context"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	accountrepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/domain"
	usagerepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/metrics"
	txdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/domain"
	txrepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/repository"
	txservice "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type usageEnv struct {
	db    *gorm.DB
	svc   domain.Service
	users accountdomain.Repository
	node  *snowflake.Node
}

func newUsageEnv(t *testing.T) *usageEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&accountdomain.User{}, &domain.Usage{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	users := accountrepo.Provide()
	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        usagerepo.Provide(),
		AccountRepo: users,
		Metrics:     metrics.New(),
	})

	return &usageEnv{db: db, svc: svc, users: users, node: node}
}

func (e *usageEnv) seedUser(t *testing.T, balance decimal.Decimal) *accountdomain.User {
	t.Helper()
	user := &accountdomain.User{
		ID:           e.node.Generate(),
		Username:     "user-" + e.node.Generate().String(),
		Email:        e.node.Generate().String() + "@example.com",
		PasswordHash: "x",
		Role:         accountdomain.RoleUser,
		Balance:      balance,
	}
	require.NoError(t, e.users.Insert(context.Background(), e.db, user))
	return user
}

func TestDebitForUsage(t *testing.T) {
	env := newUsageEnv(t)
	user := env.seedUser(t, decimal.NewFromInt(1200))
	ctx := context.Background()

	usage, err := env.svc.DebitForUsage(ctx, domain.DebitRequest{
		UserID:     user.ID,
		Model:      "Go AI",
		TokensUsed: 4,
		Cost:       decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.Equal(t, "Go AI", usage.Model)
	assert.Equal(t, 4, usage.TokensUsed)
	assert.True(t, usage.Cost.Equal(decimal.NewFromInt(500)))

	got, err := env.users.FindByID(ctx, env.db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(700)), "balance = %s", got.Balance)
}

func TestDebitInsufficientFunds(t *testing.T) {
	env := newUsageEnv(t)
	user := env.seedUser(t, decimal.NewFromInt(499))
	ctx := context.Background()

	_, err := env.svc.DebitForUsage(ctx, domain.DebitRequest{
		UserID: user.ID,
		Model:  "Go AI",
		Cost:   decimal.NewFromInt(500),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// Neither the balance nor the usage table moved.
	got, err := env.users.FindByID(ctx, env.db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(499)))

	var count int64
	require.NoError(t, env.db.Model(&domain.Usage{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDebitValidation(t *testing.T) {
	env := newUsageEnv(t)
	user := env.seedUser(t, decimal.NewFromInt(1000))
	ctx := context.Background()

	_, err := env.svc.DebitForUsage(ctx, domain.DebitRequest{
		UserID: user.ID,
		Cost:   decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidModel)

	_, err = env.svc.DebitForUsage(ctx, domain.DebitRequest{
		UserID: user.ID,
		Model:  "Go AI",
		Cost:   decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCost)

	_, err = env.svc.DebitForUsage(ctx, domain.DebitRequest{
		UserID: env.node.Generate(),
		Model:  "Go AI",
		Cost:   decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestConcurrentDebitsNeverOverspend(t *testing.T) {
	env := newUsageEnv(t)
	user := env.seedUser(t, decimal.NewFromInt(1000))
	ctx := context.Background()

	// Ten debits of 300 against a balance of 1000: only three can land.
	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.DebitForUsage(ctx, domain.DebitRequest{
				UserID: user.ID,
				Model:  "Go AI",
				Cost:   decimal.NewFromInt(300),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		}
	}
	assert.Equal(t, 3, succeeded)

	got, err := env.users.FindByID(ctx, env.db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)), "balance = %s", got.Balance)
}

func TestConcurrentCreditsAndDebitsSerialize(t *testing.T) {
	env := newUsageEnv(t)
	require.NoError(t, env.db.AutoMigrate(&txdomain.Transaction{}))
	user := env.seedUser(t, decimal.NewFromInt(1000))
	ctx := context.Background()

	txSvc := txservice.New(txservice.Params{
		DB:          env.db,
		Log:         zap.NewNop(),
		Cfg:         config.Config{},
		Repo:        txrepo.Provide(),
		AccountRepo: env.users,
		Metrics:     metrics.New(),
	})

	repo := txrepo.Provide()
	first := &txdomain.Transaction{
		ID:            "tx-credit-1",
		UserID:        user.ID,
		Status:        txdomain.StatusPending,
		Amount:        decimal.NewFromInt(500),
		PaymentMethod: "bank_transfer",
		Code:          "creditcode01",
	}
	second := &txdomain.Transaction{
		ID:            "tx-credit-2",
		UserID:        user.ID,
		Status:        txdomain.StatusPending,
		Amount:        decimal.NewFromInt(700),
		PaymentMethod: "bank_transfer",
		Code:          "creditcode02",
	}
	require.NoError(t, repo.Insert(ctx, env.db, first))
	require.NoError(t, repo.Insert(ctx, env.db, second))

	// Two completions and four debits race against the one account. The
	// opening balance covers every debit, so all six must land and the
	// final balance is exactly credits minus debits.
	var wg sync.WaitGroup
	for _, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := txSvc.UpdateStatus(ctx, id, txdomain.StatusCompleted)
			assert.NoError(t, err)
		}(id)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.DebitForUsage(ctx, domain.DebitRequest{
				UserID: user.ID,
				Model:  "Go AI",
				Cost:   decimal.NewFromInt(200),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// 1000 + 500 + 700 - 4*200
	got, err := env.users.FindByID(ctx, env.db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(1400)), "balance = %s", got.Balance)
}

func TestUserStats(t *testing.T) {
	env := newUsageEnv(t)
	user := env.seedUser(t, decimal.NewFromInt(2000))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := env.svc.DebitForUsage(ctx, domain.DebitRequest{
			UserID: user.ID,
			Model:  "Go AI",
			Cost:   decimal.NewFromInt(500),
		})
		require.NoError(t, err)
	}

	stats, err := env.svc.UserStats(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stats.TotalCost.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, int64(3), stats.UsageCount)
	assert.True(t, stats.CurrentBalance.Equal(decimal.NewFromInt(500)))

	global, err := env.svc.GlobalStats(ctx)
	require.NoError(t, err)
	assert.True(t, global.TotalCost.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, int64(1), global.TotalUsers)
}
