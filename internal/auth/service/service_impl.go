package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/password"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
)

const (
	sessionTTL      = 7 * 24 * time.Hour
	guestSessionTTL = 24 * time.Hour
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	AccountRepo accountdomain.Repository
	AccountSvc  accountdomain.Service
	SessionRepo domain.SessionRepository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	accountRepo accountdomain.Repository
	accountSvc  accountdomain.Service
	sessionRepo domain.SessionRepository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("auth.service"),
		genID:       p.GenID,
		accountRepo: p.AccountRepo,
		accountSvc:  p.AccountSvc,
		sessionRepo: p.SessionRepo,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*accountdomain.User, error) {
	return s.accountSvc.Create(ctx, accountdomain.CreateUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     accountdomain.RoleUser,
	})
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.accountRepo.FindByUsername(ctx, s.db, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Block {
		return nil, domain.ErrAccountBlocked
	}

	result, err := s.issueSession(ctx, user, req.UserAgent, req.IPAddress, sessionTTL)
	if err != nil {
		return nil, err
	}

	s.log.Info("login", zap.Int64("user_id", int64(user.ID)))
	return result, nil
}

func (s *Service) RegisterGuest(ctx context.Context, req domain.GuestRequest) (*domain.LoginResult, error) {
	tag := uuid.NewString()

	// Guests never learn this password; the session token is their only
	// way in until they upgrade.
	secret, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	user, err := s.accountSvc.Create(ctx, accountdomain.CreateUserRequest{
		Username: "guest_" + tag,
		Email:    "guest_" + tag + "@guest.local",
		Password: secret,
		Role:     accountdomain.RoleGuest,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.issueSession(ctx, user, req.UserAgent, req.IPAddress, guestSessionTTL)
	if err != nil {
		return nil, err
	}

	s.log.Info("guest created", zap.Int64("user_id", int64(user.ID)))
	return result, nil
}

func (s *Service) UpgradeGuest(ctx context.Context, req domain.UpgradeGuestRequest) (*domain.LoginResult, error) {
	principal, ok := userctx.PrincipalFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidSession
	}

	user, err := s.accountRepo.FindByID(ctx, s.db, principal.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, accountdomain.ErrNotFound
	}
	if user.Role != accountdomain.RoleGuest {
		return nil, domain.ErrNotGuest
	}

	username := strings.TrimSpace(req.Username)
	if len(username) < 3 {
		return nil, accountdomain.ErrInvalidUsername
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, accountdomain.ErrInvalidEmail
	}
	if len(req.Password) < 6 {
		return nil, accountdomain.ErrInvalidPassword
	}

	if existing, err := s.accountRepo.FindByUsername(ctx, s.db, username); err != nil {
		return nil, err
	} else if existing != nil && existing.ID != user.ID {
		return nil, accountdomain.ErrUsernameTaken
	}
	if existing, err := s.accountRepo.FindByEmail(ctx, s.db, email); err != nil {
		return nil, err
	} else if existing != nil && existing.ID != user.ID {
		return nil, accountdomain.ErrEmailTaken
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	user.PasswordHash = hashed
	user.Role = accountdomain.RoleUser
	if err := s.accountRepo.Update(ctx, s.db, user); err != nil {
		return nil, err
	}

	result, err := s.issueSession(ctx, user, req.UserAgent, req.IPAddress, sessionTTL)
	if err != nil {
		return nil, err
	}

	s.log.Info("guest upgraded", zap.Int64("user_id", int64(user.ID)))
	return result, nil
}

func (s *Service) issueSession(ctx context.Context, user *accountdomain.User, userAgent, ipAddress string, ttl time.Duration) (*domain.LoginResult, error) {
	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:               s.genID.Generate(),
		UserID:           user.ID,
		SessionTokenHash: hashToken(rawToken),
		UserAgent:        strings.TrimSpace(userAgent),
		IPAddress:        strings.TrimSpace(ipAddress),
		ExpiresAt:        now.Add(ttl),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessionRepo.Create(ctx, s.db, session); err != nil {
		return nil, err
	}

	return &domain.LoginResult{
		User:      user,
		RawToken:  rawToken,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.FindByTokenHash(ctx, s.db, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrInvalidSession
		}
		return err
	}
	return s.sessionRepo.Revoke(ctx, s.db, session.ID, time.Now().UTC())
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*accountdomain.User, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.FindByTokenHash(ctx, s.db, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}

	now := time.Now().UTC()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	user, err := s.accountRepo.FindByID(ctx, s.db, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidSession
	}
	if user.Block {
		return nil, domain.ErrAccountBlocked
	}

	if err := s.sessionRepo.Touch(ctx, s.db, session.ID, now); err != nil {
		s.log.Warn("session touch failed", zap.Error(err))
	}
	return user, nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
