package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
)

type createUserRequest struct {
	Username string             `json:"username"`
	Email    string             `json:"email"`
	Password string             `json:"password"`
	Role     accountdomain.Role `json:"role"`
}

type updateUserRequest struct {
	Email    *string             `json:"email"`
	Password *string             `json:"password"`
	Role     *accountdomain.Role `json:"role"`
	Block    *bool               `json:"block"`
}

func (s *Server) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.accountSvc.Create(c.Request.Context(), accountdomain.CreateUserRequest{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": user})
}

func (s *Server) ListUsers(c *gin.Context) {
	var query accountdomain.ListUserRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.accountSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetUserByID(c *gin.Context) {
	id, err := parseUserID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	user, err := s.accountSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (s *Server) UpdateUser(c *gin.Context) {
	id, err := parseUserID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.accountSvc.Update(c.Request.Context(), accountdomain.UpdateUserRequest{
		ID:       id,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Block:    req.Block,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (s *Server) DeleteUser(c *gin.Context) {
	id, err := parseUserID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.accountSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

// GetUserBalance reconciles the given user's stored balance against
// the sum of their completed transactions.
func (s *Server) GetUserBalance(c *gin.Context) {
	id, err := parseUserID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	view, err := s.txSvc.UserBalance(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

func parseUserID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, newValidationError("id", "invalid_user_id", "invalid user id")
	}
	return id, nil
}
