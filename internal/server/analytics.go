package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
)

type analyticsQuery struct {
	Days int `form:"days"`
}

func (s *Server) GetNutritionAnalytics(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var query analyticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	series, err := s.analyticsSvc.NutritionDaily(c.Request.Context(), principal.UserID, query.Days)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": series})
}

func (s *Server) GetWorkoutAnalytics(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var query analyticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	series, err := s.analyticsSvc.WorkoutDaily(c.Request.Context(), principal.UserID, query.Days)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": series})
}
