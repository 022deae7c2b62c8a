package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	fooddomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
	"gorm.io/datatypes"
)

type createFoodRequest struct {
	Name     string   `json:"name"`
	Calories int      `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
}

type updateFoodRequest struct {
	Name     *string  `json:"name"`
	Calories *int     `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
}

type createFoodLogRequest struct {
	FoodID   string               `json:"food_id"`
	Quantity float64              `json:"quantity"`
	LogDate  datatypes.Date       `json:"log_date"`
	MealType *fooddomain.MealType `json:"meal_type"`
}

func (s *Server) CreateFood(c *gin.Context) {
	var req createFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.foodSvc.CreateFood(c.Request.Context(), fooddomain.CreateFoodRequest{
		Name:     strings.TrimSpace(req.Name),
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) ListFoods(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Name string `form:"name"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.foodSvc.ListFoods(c.Request.Context(), fooddomain.ListFoodRequest{
		Pagination: query.Pagination,
		Name:       strings.TrimSpace(query.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetFoodByID(c *gin.Context) {
	item, err := s.foodSvc.GetFood(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) UpdateFood(c *gin.Context) {
	var req updateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.foodSvc.UpdateFood(c.Request.Context(), fooddomain.UpdateFoodRequest{
		ID:       strings.TrimSpace(c.Param("id")),
		Name:     req.Name,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) DeleteFood(c *gin.Context) {
	if err := s.foodSvc.DeleteFood(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) CreateFoodLog(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createFoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	log, err := s.foodSvc.LogFood(c.Request.Context(), fooddomain.CreateFoodLogRequest{
		UserID:   principal.UserID,
		FoodID:   strings.TrimSpace(req.FoodID),
		Quantity: req.Quantity,
		LogDate:  req.LogDate,
		MealType: req.MealType,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": log})
}

func (s *Server) ListFoodLogs(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	from, err := parseOptionalDate(c.Query("from"))
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalDate(c.Query("to"))
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	logs, err := s.foodSvc.ListLogs(c.Request.Context(), fooddomain.ListFoodLogRequest{
		UserID: principal.UserID,
		From:   from,
		To:     to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}

func (s *Server) DeleteFoodLog(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.foodSvc.DeleteLog(c.Request.Context(), principal.UserID, strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
