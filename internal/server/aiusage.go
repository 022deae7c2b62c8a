package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	usagedomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
)

func (s *Server) ListAIUsage(c *gin.Context) {
	var query usagedomain.ListUsageRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.usageSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetAIUsageStats(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	stats, err := s.usageSvc.UserStats(c.Request.Context(), principal.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func (s *Server) GetGlobalAIUsageStats(c *gin.Context) {
	stats, err := s.usageSvc.GlobalStats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
