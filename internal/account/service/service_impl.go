package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/password"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("account.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 {
		return nil, domain.ErrInvalidUsername
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}

	if len(req.Password) < 6 {
		return nil, domain.ErrInvalidPassword
	}

	role := req.Role
	if role == 0 {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	if existing, err := s.repo.FindByUsername(ctx, s.db, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	if existing, err := s.repo.FindByEmail(ctx, s.db, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           s.genID.Generate(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}
	if err := s.repo.Insert(ctx, s.db, user); err != nil {
		return nil, err
	}

	s.log.Info("user created",
		zap.Int64("user_id", int64(user.ID)),
		zap.String("role", user.Role.String()),
	)
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, req domain.ListUserRequest) (domain.ListUserResponse, error) {
	page := req.Pagination
	page = page.Normalize()

	users, total, err := s.repo.List(ctx, s.db, domain.ListUserFilter{
		Role:     req.Role,
		Username: strings.TrimSpace(req.Username),
	}, page)
	if err != nil {
		return domain.ListUserResponse{}, err
	}

	return domain.ListUserResponse{
		Users:      users,
		Total:      total,
		Page:       page.Page,
		TotalPages: pagination.TotalPages(total, page.PageSize),
	}, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, s.db, req.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, domain.ErrInvalidEmail
		}
		if email != user.Email {
			if existing, err := s.repo.FindByEmail(ctx, s.db, email); err != nil {
				return nil, err
			} else if existing != nil && existing.ID != user.ID {
				return nil, domain.ErrEmailTaken
			}
			user.Email = email
		}
	}

	if req.Password != nil {
		if len(*req.Password) < 6 {
			return nil, domain.ErrInvalidPassword
		}
		hashed, err := password.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, domain.ErrInvalidRole
		}
		if principal, ok := userctx.PrincipalFromContext(ctx); ok && principal.UserID == user.ID && *req.Role != user.Role {
			return nil, domain.ErrSelfDemotion
		}
		user.Role = *req.Role
	}

	if req.Block != nil {
		user.Block = *req.Block
	}

	if err := s.repo.Update(ctx, s.db, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	return s.repo.SoftDelete(ctx, s.db, id)
}
