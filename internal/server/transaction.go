package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	txdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/webhook"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
	"gorm.io/datatypes"
)

type createTransactionRequest struct {
	Amount         decimal.Decimal   `json:"amount"`
	PaymentMethod  string            `json:"payment_method"`
	AdditionalData datatypes.JSONMap `json:"additional_data"`
}

type updateTransactionRequest struct {
	Amount         *decimal.Decimal  `json:"amount"`
	PaymentMethod  *string           `json:"payment_method"`
	AdditionalData datatypes.JSONMap `json:"additional_data"`
	Status         *txdomain.Status  `json:"status"`
}

type updateTransactionStatusRequest struct {
	Status txdomain.Status `json:"status"`
}

func (s *Server) CreateTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.txSvc.Create(c.Request.Context(), txdomain.CreateTransactionRequest{
		Amount:         req.Amount,
		PaymentMethod:  strings.TrimSpace(req.PaymentMethod),
		AdditionalData: req.AdditionalData,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListTransactions(c *gin.Context) {
	var query txdomain.ListTransactionRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.txSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTransactionByID(c *gin.Context) {
	tx, err := s.txSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tx})
}

func (s *Server) UpdateTransaction(c *gin.Context) {
	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tx, err := s.txSvc.Update(c.Request.Context(), txdomain.UpdateTransactionRequest{
		ID:             strings.TrimSpace(c.Param("id")),
		Amount:         req.Amount,
		PaymentMethod:  req.PaymentMethod,
		AdditionalData: req.AdditionalData,
		Status:         req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tx})
}

func (s *Server) UpdateTransactionStatus(c *gin.Context) {
	var req updateTransactionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tx, err := s.txSvc.UpdateStatus(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tx})
}

func (s *Server) DeleteTransaction(c *gin.Context) {
	if err := s.txSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

// GetBalance returns the caller's derived and stored balance.
func (s *Server) GetBalance(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	view, err := s.txSvc.UserBalance(c.Request.Context(), principal.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

// HandlePaymentWebhook ingests bank transfer notifications. The
// response is always 200: the payload tells the rail whether the
// notification reconciled, and redeliveries stay safe.
func (s *Server) HandlePaymentWebhook(c *gin.Context) {
	var n webhook.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusOK, webhook.Result{Success: false, Message: "Empty content"})
		return
	}

	result := s.webhookSvc.Process(c.Request.Context(), n)
	c.JSON(http.StatusOK, result)
}
