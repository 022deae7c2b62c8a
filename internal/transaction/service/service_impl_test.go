package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	accountrepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/metrics"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/domain"
	txrepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db    *gorm.DB
	svc   domain.Service
	users accountdomain.Repository
	node  *snowflake.Node
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&accountdomain.User{}, &domain.Transaction{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	users := accountrepo.Provide()
	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		Cfg:         testConfig(),
		Repo:        txrepo.Provide(),
		AccountRepo: users,
		Metrics:     metrics.New(),
	})

	return &testEnv{db: db, svc: svc, users: users, node: node}
}

func testConfig() config.Config {
	return config.Config{
		Bank: config.BankConfig{
			Gateway:       "Mbbank",
			AccountNumber: "1663999999999",
			AccountName:   "Nguyen Nho Gia Huy",
			QRBaseURL:     "https://img.vietqr.io/image",
		},
	}
}

func (e *testEnv) seedUser(t *testing.T, balance decimal.Decimal) *accountdomain.User {
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

func asUser(user *accountdomain.User) context.Context {
	return userctx.WithPrincipal(context.Background(), userctx.Principal{
		UserID: user.ID,
		Role:   int(user.Role),
	})
}

func TestCreateTransaction(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, decimal.Zero)
	ctx := asUser(user)

	resp, err := env.svc.Create(ctx, domain.CreateTransactionRequest{
		Amount:        decimal.NewFromInt(50000),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	tx := resp.Transaction
	assert.Equal(t, domain.StatusPending, tx.Status)
	assert.Equal(t, user.ID, tx.UserID)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(50000)))

	// The code is the trailing segment of the transaction id.
	assert.Equal(t, tx.ID[strings.LastIndex(tx.ID, "-")+1:], tx.Code)
	assert.Equal(t, 12, len(tx.Code))

	assert.Contains(t, resp.QRImageURL, "https://img.vietqr.io/image/Mbbank-1663999999999-compact2.jpg")
	assert.Contains(t, resp.QRImageURL, "amount=50000")
	assert.Contains(t, resp.QRImageURL, "addInfo=TX-"+tx.Code)
}

func TestCreateTransactionValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, decimal.Zero)
	ctx := asUser(user)

	_, err := env.svc.Create(ctx, domain.CreateTransactionRequest{
		Amount:        decimal.NewFromInt(-5),
		PaymentMethod: "bank_transfer",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = env.svc.Create(ctx, domain.CreateTransactionRequest{
		Amount: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentMethod)
}

func TestCompleteCreditsBalanceOnce(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, decimal.NewFromInt(100))
	ctx := asUser(user)

	resp, err := env.svc.Create(ctx, domain.CreateTransactionRequest{
		Amount:        decimal.NewFromInt(500),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	tx, err := env.svc.UpdateStatus(ctx, resp.Transaction.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, tx.Status)
	require.NotNil(t, tx.CompletedAt)

	got, err := env.users.FindByID(ctx, env.db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(600)), "balance = %s", got.Balance)

	// Re-completing is a no-op, not a second credit.
	tx, err = env.svc.UpdateStatus(ctx, resp.Transaction.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, tx.Status)

	got, err = env.users.FindByID(ctx, env.db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(600)))
}

func TestCompletedIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, decimal.Zero)
	ctx := asUser(user)

	resp, err := env.svc.Create(ctx, domain.CreateTransactionRequest{
		Amount:        decimal.NewFromInt(200),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	_, err = env.svc.UpdateStatus(ctx, resp.Transaction.ID, domain.StatusCompleted)
	require.NoError(t, err)

	for _, status := range []domain.Status{domain.StatusPending, domain.StatusFailed, domain.StatusCancelled} {
		_, err = env.svc.UpdateStatus(ctx, resp.Transaction.ID, status)
		assert.ErrorIs(t, err, domain.ErrCompletedImmutable)
	}
}

func TestConcurrentCompletionSingleCredit(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, decimal.Zero)
	ctx := asUser(user)

	resp, err := env.svc.Create(ctx, domain.CreateTransactionRequest{
		Amount:        decimal.NewFromInt(1000),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.UpdateStatus(ctx, resp.Transaction.ID, domain.StatusCompleted)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := env.users.FindByID(ctx, env.db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(1000)), "balance = %s", got.Balance)
}

func TestUpdateBlocksCompletedEdits(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, decimal.Zero)
	ctx := asUser(user)

	resp, err := env.svc.Create(ctx, domain.CreateTransactionRequest{
		Amount:        decimal.NewFromInt(300),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	_, err = env.svc.UpdateStatus(ctx, resp.Transaction.ID, domain.StatusCompleted)
	require.NoError(t, err)

	amount := decimal.NewFromInt(999)
	_, err = env.svc.Update(ctx, domain.UpdateTransactionRequest{
		ID:     resp.Transaction.ID,
		Amount: &amount,
	})
	assert.ErrorIs(t, err, domain.ErrCompletedImmutable)
}

func TestStaleEditCannotRevertCompletion(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, decimal.Zero)
	ctx := asUser(user)

	resp, err := env.svc.Create(ctx, domain.CreateTransactionRequest{
		Amount:        decimal.NewFromInt(1000),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	// Read the row while it is still pending, the way an edit in flight
	// would hold it.
	repo := txrepo.Provide()
	stale, err := repo.FindByID(ctx, env.db, resp.Transaction.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, stale.Status)

	// A completion commits while that stale copy is still held.
	_, err = env.svc.UpdateStatus(ctx, resp.Transaction.ID, domain.StatusCompleted)
	require.NoError(t, err)

	// Persisting the stale copy must leave the status column alone.
	stale.PaymentMethod = "momo"
	require.NoError(t, repo.Update(ctx, env.db, stale))

	got, err := repo.FindByID(ctx, env.db, resp.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, "momo", got.PaymentMethod)

	// So a redelivered completion stays a no-op.
	_, err = env.svc.UpdateStatus(ctx, resp.Transaction.ID, domain.StatusCompleted)
	require.NoError(t, err)

	account, err := env.users.FindByID(ctx, env.db, user.ID)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(1000)), "balance = %s", account.Balance)
}

func TestListScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, decimal.Zero)
	bob := env.seedUser(t, decimal.Zero)

	for _, user := range []*accountdomain.User{alice, bob} {
		_, err := env.svc.Create(asUser(user), domain.CreateTransactionRequest{
			Amount:        decimal.NewFromInt(100),
			PaymentMethod: "bank_transfer",
		})
		require.NoError(t, err)
	}

	resp, err := env.svc.List(asUser(alice), domain.ListTransactionRequest{UserID: bob.ID})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, alice.ID, resp.Results[0].UserID)
}

func TestUserBalanceReconciliation(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, decimal.Zero)
	ctx := asUser(user)

	first, err := env.svc.Create(ctx, domain.CreateTransactionRequest{
		Amount:        decimal.NewFromInt(150),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)
	second, err := env.svc.Create(ctx, domain.CreateTransactionRequest{
		Amount:        decimal.NewFromInt(250),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	_, err = env.svc.UpdateStatus(ctx, first.Transaction.ID, domain.StatusCompleted)
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(ctx, second.Transaction.ID, domain.StatusCompleted)
	require.NoError(t, err)

	view, err := env.svc.UserBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, view.Balance.Equal(decimal.NewFromInt(400)))
	assert.True(t, view.StoredBalance.Equal(decimal.NewFromInt(400)))
}
