package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	accountrepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/repository"
	usagedomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/domain"
	usagerepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/repository"
	authdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/domain"
	authrepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/metrics"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/providers/email"
	txdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/domain"
	txrepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/repository"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newScheduler(t *testing.T) (*Scheduler, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&accountdomain.User{},
		&txdomain.Transaction{},
		&usagedomain.Usage{},
		&authdomain.Session{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	s, err := New(Params{
		LC:          fxtest.NewLifecycle(t),
		DB:          db,
		Log:         zap.NewNop(),
		Cfg:         config.Config{Scheduler: config.SchedulerConfig{PendingTTLHours: 24}},
		AccountRepo: accountrepo.Provide(),
		TxRepo:      txrepo.Provide(),
		UsageRepo:   usagerepo.Provide(),
		SessionRepo: authrepo.ProvideSession(),
		Mailer:      &email.NoOpProvider{},
		Metrics:     metrics.New(),
	})
	require.NoError(t, err)
	return s, db, node
}

func seedUser(t *testing.T, db *gorm.DB, node *snowflake.Node, balance decimal.Decimal) *accountdomain.User {
	t.Helper()
	user := &accountdomain.User{
		ID:           node.Generate(),
		Username:     "user-" + node.Generate().String(),
		Email:        node.Generate().String() + "@example.com",
		PasswordHash: "x",
		Role:         accountdomain.RoleUser,
		Balance:      balance,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestDriftReport(t *testing.T) {
	s, db, node := newScheduler(t)
	ctx := context.Background()

	// Consistent account: 1000 credited, 300 spent, stored 700.
	clean := seedUser(t, db, node, decimal.NewFromInt(700))
	require.NoError(t, db.Create(&txdomain.Transaction{
		ID:     "tx-clean",
		UserID: clean.ID,
		Status: txdomain.StatusCompleted,
		Amount: decimal.NewFromInt(1000),
		Code:   "cleancode001",
	}).Error)
	require.NoError(t, db.Create(&usagedomain.Usage{
		ID:     node.Generate(),
		UserID: clean.ID,
		Model:  "Go AI",
		Cost:   decimal.NewFromInt(300),
	}).Error)

	// Drifted account: stored balance does not match its history.
	bad := seedUser(t, db, node, decimal.NewFromInt(999))
	require.NoError(t, db.Create(&txdomain.Transaction{
		ID:     "tx-bad",
		UserID: bad.ID,
		Status: txdomain.StatusCompleted,
		Amount: decimal.NewFromInt(500),
		Code:   "badcode00001",
	}).Error)

	drifted, err := s.DriftReport(ctx)
	require.NoError(t, err)
	require.Len(t, drifted, 1)
	assert.Equal(t, bad.ID, drifted[0].UserID)
	assert.Equal(t, "999", drifted[0].Stored)
	assert.Equal(t, "500", drifted[0].Derived)

	s.runDriftAudit()
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.BalanceDrift))
}

func TestMaintenanceExpiresPendingAndSessions(t *testing.T) {
	s, db, node := newScheduler(t)

	user := seedUser(t, db, node, decimal.Zero)

	stale := &txdomain.Transaction{
		ID:     "tx-stale",
		UserID: user.ID,
		Status: txdomain.StatusPending,
		Amount: decimal.NewFromInt(100),
		Code:   "stalecode001",
	}
	require.NoError(t, db.Create(stale).Error)
	require.NoError(t, db.Model(stale).
		Update("created_at", time.Now().UTC().Add(-48*time.Hour)).Error)

	fresh := &txdomain.Transaction{
		ID:     "tx-fresh",
		UserID: user.ID,
		Status: txdomain.StatusPending,
		Amount: decimal.NewFromInt(100),
		Code:   "freshcode001",
	}
	require.NoError(t, db.Create(fresh).Error)

	require.NoError(t, db.Create(&authdomain.Session{
		ID:               node.Generate(),
		UserID:           user.ID,
		SessionTokenHash: "hash-old",
		ExpiresAt:        time.Now().UTC().Add(-time.Hour),
	}).Error)

	s.runMaintenance()

	var got txdomain.Transaction
	require.NoError(t, db.First(&got, "id = ?", "tx-stale").Error)
	assert.Equal(t, txdomain.StatusCancelled, got.Status)

	got = txdomain.Transaction{}
	require.NoError(t, db.First(&got, "id = ?", "tx-fresh").Error)
	assert.Equal(t, txdomain.StatusPending, got.Status)

	var sessions int64
	require.NoError(t, db.Model(&authdomain.Session{}).Count(&sessions).Error)
	assert.Zero(t, sessions)
}
