package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	fooddomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food/domain"
	suggestdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/suggestion/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
	"gorm.io/datatypes"
)

type suggestMealRequest struct {
	LogDate  *datatypes.Date     `json:"log_date"`
	MealType fooddomain.MealType `json:"meal_type"`
}

type suggestWeekPlanRequest struct {
	StartDate *datatypes.Date `json:"start_date"`
	EndDate   *datatypes.Date `json:"end_date"`
}

func (s *Server) SuggestMeal(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req suggestMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	suggestion, err := s.suggestSvc.SuggestMeal(c.Request.Context(), suggestdomain.SuggestMealRequest{
		UserID:   principal.UserID,
		LogDate:  req.LogDate,
		MealType: req.MealType,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": suggestion})
}

func (s *Server) SuggestWorkoutPlan(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req suggestWeekPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	plan, err := s.suggestSvc.SuggestWeekPlan(c.Request.Context(), suggestdomain.SuggestWeekPlanRequest{
		UserID:    principal.UserID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": plan})
}
