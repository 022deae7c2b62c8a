package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	usagedomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/conversation/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/metrics"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/providers/ai"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
)

const (
	// Assistant instructions for the free advisor path.
	systemPrompt = "Bạn là cán bộ tư vấn hành chính Việt Nam. " +
		"Trả lời nhiệt tình, đầy đủ, chính xác theo pháp luật. " +
		"Mọi câu trả lời phải trích dẫn nguồn văn bản pháp luật."

	insufficientFundsReply = "⚠️ Số dư không đủ để sử dụng model này."
	paidModelReply         = "Response when using custom AI model"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Cfg      config.Config
	Repo     domain.Repository
	UsageSvc usagedomain.Service
	Pricing  *config.AIPricingHolder
	Client   ai.CompletionClient
	Metrics  *metrics.Metrics
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	cfg      config.AIConfig
	repo     domain.Repository
	usageSvc usagedomain.Service
	pricing  *config.AIPricingHolder
	client   ai.CompletionClient
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("conversation.service"),
		genID:    p.GenID,
		cfg:      p.Cfg.AI,
		repo:     p.Repo,
		usageSvc: p.UsageSvc,
		pricing:  p.Pricing,
		client:   p.Client,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateConversationRequest) (*domain.Conversation, error) {
	principal, ok := userctx.PrincipalFromContext(ctx)
	if !ok {
		return nil, domain.ErrForbidden
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Untitled"
	}

	conv := &domain.Conversation{
		ID:     uuid.NewString(),
		UserID: principal.UserID,
		Title:  title,
	}
	if err := s.repo.Insert(ctx, s.db, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	return s.authorized(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.Conversation, error) {
	principal, ok := userctx.PrincipalFromContext(ctx)
	if !ok {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListByUser(ctx, s.db, principal.UserID)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateConversationRequest) (*domain.Conversation, error) {
	conv, err := s.authorized(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		conv.Title = strings.TrimSpace(*req.Title)
	}
	if err := s.repo.Update(ctx, s.db, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.authorized(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, s.db, id)
}

func (s *Service) Messages(ctx context.Context, conversationID string) ([]*domain.ChatMessage, error) {
	if _, err := s.authorized(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, s.db, conversationID)
}

func (s *Service) AskAI(ctx context.Context, req domain.AskAIRequest) (*domain.ChatMessage, error) {
	principal, ok := userctx.PrincipalFromContext(ctx)
	if !ok {
		return nil, domain.ErrForbidden
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, domain.ErrInvalidMessage
	}

	conv, err := s.authorized(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}

	userID := principal.UserID
	userMsg := &domain.ChatMessage{
		ID:             s.genID.Generate(),
		ConversationID: conv.ID,
		SenderID:       &userID,
		Message:        message,
		MessageType:    "text",
	}
	if err := s.repo.InsertMessage(ctx, s.db, userMsg); err != nil {
		return nil, err
	}

	if err := s.repo.Touch(ctx, s.db, conv.ID, time.Now().UTC()); err != nil {
		s.log.Warn("conversation touch failed", zap.String("conversation_id", conv.ID), zap.Error(err))
	}

	var reply string
	if cost, paid := s.pricing.CostFor(req.Model); paid {
		reply = s.paidReply(ctx, conv.ID, userID, req.Model, message, cost)
	} else {
		reply = s.freeReply(ctx, message)
	}

	aiMsg := &domain.ChatMessage{
		ID:             s.genID.Generate(),
		ConversationID: conv.ID,
		Message:        reply,
		MessageType:    "text",
	}
	if err := s.repo.InsertMessage(ctx, s.db, aiMsg); err != nil {
		return nil, err
	}
	return aiMsg, nil
}

func (s *Service) paidReply(ctx context.Context, conversationID string, userID snowflake.ID, model, message string, cost decimal.Decimal) string {
	_, err := s.usageSvc.DebitForUsage(ctx, usagedomain.DebitRequest{
		UserID:         userID,
		ConversationID: &conversationID,
		Model:          model,
		TokensUsed:     len(strings.Fields(message)),
		Cost:           cost,
	})
	if err != nil {
		if errors.Is(err, usagedomain.ErrInsufficientFunds) {
			s.metrics.AIRequests.WithLabelValues(model, "insufficient_funds").Inc()
			return insufficientFundsReply
		}
		s.metrics.AIRequests.WithLabelValues(model, "error").Inc()
		s.log.Error("usage debit failed", zap.Int64("user_id", int64(userID)), zap.Error(err))
		return "[AI ERROR] " + err.Error()
	}

	s.metrics.AIRequests.WithLabelValues(model, "ok").Inc()
	return paidModelReply
}

func (s *Service) freeReply(ctx context.Context, message string) string {
	resp, err := s.client.Complete(ctx, ai.CompletionRequest{
		Model: s.cfg.DefaultModel,
		Messages: []ai.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
	})
	if err != nil {
		s.metrics.AIRequests.WithLabelValues(s.cfg.DefaultModel, "error").Inc()
		s.log.Error("completion failed", zap.Error(err))
		return "[AI ERROR] " + err.Error()
	}

	s.metrics.AIRequests.WithLabelValues(s.cfg.DefaultModel, "ok").Inc()
	return resp.Content
}

// authorized loads a conversation and checks the caller may touch it.
// Admins see everything, everyone else only their own.
func (s *Service) authorized(ctx context.Context, id string) (*domain.Conversation, error) {
	conv, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, domain.ErrNotFound
	}

	if principal, ok := userctx.PrincipalFromContext(ctx); ok {
		if principal.Role != int(accountdomain.RoleAdmin) && conv.UserID != principal.UserID {
			return nil, domain.ErrNotFound
		}
	}
	return conv, nil
}
