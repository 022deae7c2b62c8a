package webhook

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
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/metrics"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/domain"
	txrepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/repository"
	txservice "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/service"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type webhookEnv struct {
	db    *gorm.DB
	svc   Service
	txSvc domain.Service
	users accountdomain.Repository
	node  *snowflake.Node
}

func newWebhookEnv(t *testing.T) *webhookEnv {
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
	txs := txrepo.Provide()
	m := metrics.New()
	log := zap.NewNop()

	txSvc := txservice.New(txservice.Params{
		DB:          db,
		Log:         log,
		Cfg:         config.Config{Bank: config.BankConfig{QRBaseURL: "https://img.vietqr.io/image"}},
		Repo:        txs,
		AccountRepo: users,
		Metrics:     m,
	})

	svc := New(Params{
		DB:          db,
		Log:         log,
		TxRepo:      txs,
		TxSvc:       txSvc,
		AccountRepo: users,
		Metrics:     m,
	})

	return &webhookEnv{db: db, svc: svc, txSvc: txSvc, users: users, node: node}
}

func (e *webhookEnv) seedUserAndTx(t *testing.T, amount decimal.Decimal) (*accountdomain.User, *domain.Transaction) {
	t.Helper()

	user := &accountdomain.User{
		ID:           e.node.Generate(),
		Username:     "user-" + e.node.Generate().String(),
		Email:        e.node.Generate().String() + "@example.com",
		PasswordHash: "x",
		Role:         accountdomain.RoleUser,
	}
	require.NoError(t, e.users.Insert(context.Background(), e.db, user))

	ctx := userctx.WithPrincipal(context.Background(), userctx.Principal{
		UserID: user.ID,
		Role:   int(user.Role),
	})
	resp, err := e.txSvc.Create(ctx, domain.CreateTransactionRequest{
		Amount:        amount,
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)
	return user, resp.Transaction
}

func TestProcessEmptyContent(t *testing.T) {
	env := newWebhookEnv(t)

	result := env.svc.Process(context.Background(), Notification{})
	assert.False(t, result.Success)
	assert.Equal(t, "Empty content", result.Message)
	assert.Nil(t, result.TransactionCode)
}

func TestProcessCodeNotFoundInContent(t *testing.T) {
	env := newWebhookEnv(t)

	result := env.svc.Process(context.Background(), Notification{
		Content:        "chuyen tien an trua",
		TransferAmount: decimal.NewFromInt(100),
	})
	assert.False(t, result.Success)
	assert.Equal(t, "Transaction code not found in content", result.Message)
}

func TestProcessUnknownTransaction(t *testing.T) {
	env := newWebhookEnv(t)

	result := env.svc.Process(context.Background(), Notification{
		Content:        "TXdeadbeef1234",
		TransferAmount: decimal.NewFromInt(100),
	})
	assert.False(t, result.Success)
	assert.Equal(t, "Transaction not found: deadbeef1234", result.Message)
	require.NotNil(t, result.TransactionCode)
	assert.Equal(t, "deadbeef1234", *result.TransactionCode)
}

func TestProcessAmountMismatch(t *testing.T) {
	env := newWebhookEnv(t)
	user, tx := env.seedUserAndTx(t, decimal.NewFromInt(50000))

	result := env.svc.Process(context.Background(), Notification{
		Content:        "thanh toan TX" + tx.Code,
		TransferAmount: decimal.NewFromInt(49000),
	})
	assert.False(t, result.Success)
	assert.Equal(t, "Amount mismatch", result.Message)

	// No credit happened.
	got, err := env.users.FindByID(context.Background(), env.db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
}

func TestProcessAmountWithinTolerance(t *testing.T) {
	env := newWebhookEnv(t)
	_, tx := env.seedUserAndTx(t, decimal.NewFromFloat(100.00))

	result := env.svc.Process(context.Background(), Notification{
		Content:        "TX" + tx.Code,
		TransferAmount: decimal.NewFromFloat(100.01),
	})
	assert.True(t, result.Success)
	assert.Equal(t, "Transaction completed successfully", result.Message)
}

func TestProcessCompletesAndCredits(t *testing.T) {
	env := newWebhookEnv(t)
	user, tx := env.seedUserAndTx(t, decimal.NewFromInt(75000))

	result := env.svc.Process(context.Background(), Notification{
		Content:        "NGUYEN VAN A chuyen khoan TX" + tx.Code,
		TransferAmount: decimal.NewFromInt(75000),
	})
	assert.True(t, result.Success)
	assert.Equal(t, "Transaction completed successfully", result.Message)
	require.NotNil(t, result.TransactionCode)
	assert.Equal(t, tx.Code, *result.TransactionCode)

	got, err := env.users.FindByID(context.Background(), env.db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(75000)))
}

func TestProcessRedeliveryIsIdempotent(t *testing.T) {
	env := newWebhookEnv(t)
	user, tx := env.seedUserAndTx(t, decimal.NewFromInt(20000))

	n := Notification{
		Content:        "TX" + tx.Code,
		TransferAmount: decimal.NewFromInt(20000),
	}

	first := env.svc.Process(context.Background(), n)
	assert.True(t, first.Success)
	assert.Equal(t, "Transaction completed successfully", first.Message)

	second := env.svc.Process(context.Background(), n)
	assert.True(t, second.Success)
	assert.Equal(t, "Transaction already completed", second.Message)

	got, err := env.users.FindByID(context.Background(), env.db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(20000)), "balance = %s", got.Balance)
}

func TestProcessConcurrentRedelivery(t *testing.T) {
	env := newWebhookEnv(t)
	user, tx := env.seedUserAndTx(t, decimal.NewFromInt(10000))

	n := Notification{
		Content:        "TX" + tx.Code,
		TransferAmount: decimal.NewFromInt(10000),
	}

	var wg sync.WaitGroup
	results := make([]Result, 6)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = env.svc.Process(context.Background(), n)
		}(i)
	}
	wg.Wait()

	for _, result := range results {
		assert.True(t, result.Success, result.Message)
	}

	got, err := env.users.FindByID(context.Background(), env.db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(10000)), "balance = %s", got.Balance)
}
