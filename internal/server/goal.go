package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	goaldomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/goal/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
)

type createGoalRequest struct {
	GoalType           goaldomain.GoalType `json:"goal_type"`
	TargetWeight       *float64            `json:"target_weight"`
	DailyCalorieTarget *int                `json:"daily_calorie_target"`
}

type updateGoalRequest struct {
	GoalType           *goaldomain.GoalType `json:"goal_type"`
	TargetWeight       *float64             `json:"target_weight"`
	DailyCalorieTarget *int                 `json:"daily_calorie_target"`
}

func (s *Server) CreateGoal(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	goal, err := s.goalSvc.Create(c.Request.Context(), goaldomain.CreateGoalRequest{
		UserID:             principal.UserID,
		GoalType:           req.GoalType,
		TargetWeight:       req.TargetWeight,
		DailyCalorieTarget: req.DailyCalorieTarget,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": goal})
}

func (s *Server) ListGoals(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	goals, err := s.goalSvc.List(c.Request.Context(), principal.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": goals})
}

func (s *Server) UpdateGoal(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	goal, err := s.goalSvc.Update(c.Request.Context(), goaldomain.UpdateGoalRequest{
		UserID:             principal.UserID,
		ID:                 strings.TrimSpace(c.Param("id")),
		GoalType:           req.GoalType,
		TargetWeight:       req.TargetWeight,
		DailyCalorieTarget: req.DailyCalorieTarget,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": goal})
}

func (s *Server) DeleteGoal(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.goalSvc.Delete(c.Request.Context(), principal.UserID, strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
