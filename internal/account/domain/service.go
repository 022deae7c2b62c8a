package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
)

var (
	ErrNotFound        = errors.New("user_not_found")
	ErrUsernameTaken   = errors.New("username_taken")
	ErrEmailTaken      = errors.New("email_taken")
	ErrInvalidUsername = errors.New("invalid_username")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidPassword = errors.New("invalid_password")
	ErrInvalidRole     = errors.New("invalid_role")
	ErrAccountBlocked  = errors.New("account_blocked")
	ErrSelfDemotion    = errors.New("cannot_change_own_role")
)

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type UpdateUserRequest struct {
	ID       snowflake.ID
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *Role   `json:"role"`
	Block    *bool   `json:"block"`
}

type ListUserRequest struct {
	pagination.Pagination
	Role     Role   `form:"role"`
	Username string `form:"username"`
}

type ListUserResponse struct {
	Users      []*User `json:"users"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
}

type Service interface {
	Create(context.Context, CreateUserRequest) (*User, error)
	GetByID(context.Context, snowflake.ID) (*User, error)
	List(context.Context, ListUserRequest) (ListUserResponse, error)
	Update(context.Context, UpdateUserRequest) (*User, error)
	Delete(context.Context, snowflake.ID) error
}
