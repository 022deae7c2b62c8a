package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	accountrepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/repository"
	usagedomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/domain"
	usagerepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/repository"
	usageservice "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/service"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/conversation/domain"
	convrepo "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/conversation/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/metrics"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/providers/ai"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubCompletionClient struct {
	lastReq ai.CompletionRequest
	resp    ai.CompletionResponse
	err     error
	calls   int
}

func (c *stubCompletionClient) Complete(ctx context.Context, req ai.CompletionRequest) (ai.CompletionResponse, error) {
	c.calls++
	c.lastReq = req
	if c.err != nil {
		return ai.CompletionResponse{}, c.err
	}
	return c.resp, nil
}

type convEnv struct {
	db     *gorm.DB
	svc    domain.Service
	users  accountdomain.Repository
	client *stubCompletionClient
	node   *snowflake.Node
}

func newConvEnv(t *testing.T) *convEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&accountdomain.User{},
		&usagedomain.Usage{},
		&domain.Conversation{},
		&domain.ChatMessage{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	users := accountrepo.Provide()
	m := metrics.New()
	log := zap.NewNop()

	usageSvc := usageservice.New(usageservice.Params{
		DB:          db,
		Log:         log,
		GenID:       node,
		Repo:        usagerepo.Provide(),
		AccountRepo: users,
		Metrics:     m,
	})

	pricing, err := config.NewAIPricingHolder()
	require.NoError(t, err)

	client := &stubCompletionClient{
		resp: ai.CompletionResponse{Content: "hello there", TokensUsed: 7},
	}

	svc := New(Params{
		DB:       db,
		Log:      log,
		GenID:    node,
		Cfg:      config.Config{AI: config.AIConfig{DefaultModel: "gpt-4o-mini"}},
		Repo:     convrepo.Provide(),
		UsageSvc: usageSvc,
		Pricing:  pricing,
		Client:   client,
		Metrics:  m,
	})

	return &convEnv{db: db, svc: svc, users: users, client: client, node: node}
}

func (e *convEnv) seedUser(t *testing.T, balance decimal.Decimal) (context.Context, *accountdomain.User) {
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

	ctx := userctx.WithPrincipal(context.Background(), userctx.Principal{
		UserID: user.ID,
		Role:   int(user.Role),
	})
	return ctx, user
}

func TestCreateConversationDefaultsTitle(t *testing.T) {
	env := newConvEnv(t)
	ctx, user := env.seedUser(t, decimal.Zero)

	conv, err := env.svc.Create(ctx, domain.CreateConversationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Untitled", conv.Title)
	assert.Equal(t, user.ID, conv.UserID)
}

func TestAskAIFreeModel(t *testing.T) {
	env := newConvEnv(t)
	ctx, _ := env.seedUser(t, decimal.Zero)

	conv, err := env.svc.Create(ctx, domain.CreateConversationRequest{Title: "chat"})
	require.NoError(t, err)

	reply, err := env.svc.AskAI(ctx, domain.AskAIRequest{
		ConversationID: conv.ID,
		Message:        "tư vấn giúp tôi",
		Model:          "gpt-4o-mini",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply.Message)
	assert.Nil(t, reply.SenderID)

	require.Equal(t, 1, env.client.calls)
	assert.Equal(t, "gpt-4o-mini", env.client.lastReq.Model)
	require.Len(t, env.client.lastReq.Messages, 2)
	assert.Equal(t, "system", env.client.lastReq.Messages[0].Role)
	assert.Contains(t, env.client.lastReq.Messages[0].Content, "luật")

	messages, err := env.svc.Messages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.NotNil(t, messages[0].SenderID)
	assert.Nil(t, messages[1].SenderID)
}

func TestAskAIPaidModelDebits(t *testing.T) {
	env := newConvEnv(t)
	ctx, user := env.seedUser(t, decimal.NewFromInt(700))

	conv, err := env.svc.Create(ctx, domain.CreateConversationRequest{Title: "chat"})
	require.NoError(t, err)

	reply, err := env.svc.AskAI(ctx, domain.AskAIRequest{
		ConversationID: conv.ID,
		Message:        "one two three four",
		Model:          "Go AI",
	})
	require.NoError(t, err)
	assert.Equal(t, "Response when using custom AI model", reply.Message)

	// The completion API is never touched for paid models.
	assert.Zero(t, env.client.calls)

	got, err := env.users.FindByID(ctx, env.db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(200)), "balance = %s", got.Balance)

	var usage usagedomain.Usage
	require.NoError(t, env.db.First(&usage).Error)
	assert.Equal(t, "Go AI", usage.Model)
	assert.Equal(t, 4, usage.TokensUsed)
	require.NotNil(t, usage.ConversationID)
	assert.Equal(t, conv.ID, *usage.ConversationID)
}

func TestAskAIPaidModelInsufficientFunds(t *testing.T) {
	env := newConvEnv(t)
	ctx, user := env.seedUser(t, decimal.NewFromInt(100))

	conv, err := env.svc.Create(ctx, domain.CreateConversationRequest{Title: "chat"})
	require.NoError(t, err)

	reply, err := env.svc.AskAI(ctx, domain.AskAIRequest{
		ConversationID: conv.ID,
		Message:        "hello",
		Model:          "Go AI",
	})
	require.NoError(t, err)
	assert.Equal(t, "⚠️ Số dư không đủ để sử dụng model này.", reply.Message)

	got, err := env.users.FindByID(ctx, env.db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))
}

func TestAskAICompletionFailure(t *testing.T) {
	env := newConvEnv(t)
	ctx, _ := env.seedUser(t, decimal.Zero)
	env.client.err = errors.New("upstream timeout")

	conv, err := env.svc.Create(ctx, domain.CreateConversationRequest{Title: "chat"})
	require.NoError(t, err)

	reply, err := env.svc.AskAI(ctx, domain.AskAIRequest{
		ConversationID: conv.ID,
		Message:        "hello",
		Model:          "gpt-4o-mini",
	})
	require.NoError(t, err)
	assert.Equal(t, "[AI ERROR] upstream timeout", reply.Message)
}

func TestAskAIOwnershipEnforced(t *testing.T) {
	env := newConvEnv(t)
	aliceCtx, _ := env.seedUser(t, decimal.Zero)
	bobCtx, _ := env.seedUser(t, decimal.Zero)

	conv, err := env.svc.Create(aliceCtx, domain.CreateConversationRequest{Title: "private"})
	require.NoError(t, err)

	_, err = env.svc.AskAI(bobCtx, domain.AskAIRequest{
		ConversationID: conv.ID,
		Message:        "hi",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.svc.AskAI(aliceCtx, domain.AskAIRequest{
		ConversationID: conv.ID,
		Message:        "   ",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)
}
