package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	waterdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/waterlog/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
	"gorm.io/datatypes"
)

type createWaterLogRequest struct {
	AmountML int            `json:"amount_ml"`
	LogDate  datatypes.Date `json:"log_date"`
}

func (s *Server) CreateWaterLog(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createWaterLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	log, err := s.waterSvc.Log(c.Request.Context(), waterdomain.CreateWaterLogRequest{
		UserID:   principal.UserID,
		AmountML: req.AmountML,
		LogDate:  req.LogDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": log})
}

func (s *Server) ListWaterLogs(c *gin.Context) {
	req, ok := s.waterLogRange(c)
	if !ok {
		return
	}

	logs, err := s.waterSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}

func (s *Server) ListWaterDailyTotals(c *gin.Context) {
	req, ok := s.waterLogRange(c)
	if !ok {
		return
	}

	totals, err := s.waterSvc.DailyTotals(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": totals})
}

func (s *Server) DeleteWaterLog(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.waterSvc.Delete(c.Request.Context(), principal.UserID, strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) waterLogRange(c *gin.Context) (waterdomain.ListWaterLogRequest, bool) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return waterdomain.ListWaterLogRequest{}, false
	}

	from, err := parseOptionalDate(c.Query("from"))
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return waterdomain.ListWaterLogRequest{}, false
	}
	to, err := parseOptionalDate(c.Query("to"))
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return waterdomain.ListWaterLogRequest{}, false
	}

	return waterdomain.ListWaterLogRequest{
		UserID: principal.UserID,
		From:   from,
		To:     to,
	}, true
}
