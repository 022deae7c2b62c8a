package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	convdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/conversation/domain"
)

type createConversationRequest struct {
	Title string `json:"title"`
}

type updateConversationRequest struct {
	Title *string `json:"title"`
}

type askAIRequest struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

func (s *Server) CreateConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	conv, err := s.convSvc.Create(c.Request.Context(), convdomain.CreateConversationRequest{
		Title: strings.TrimSpace(req.Title),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": conv})
}

func (s *Server) ListConversations(c *gin.Context) {
	convs, err := s.convSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": convs})
}

func (s *Server) GetConversationByID(c *gin.Context) {
	conv, err := s.convSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": conv})
}

func (s *Server) UpdateConversation(c *gin.Context) {
	var req updateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	conv, err := s.convSvc.Update(c.Request.Context(), convdomain.UpdateConversationRequest{
		ID:    strings.TrimSpace(c.Param("id")),
		Title: req.Title,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": conv})
}

func (s *Server) DeleteConversation(c *gin.Context) {
	if err := s.convSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) ListConversationMessages(c *gin.Context) {
	messages, err := s.convSvc.Messages(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": messages})
}

func (s *Server) AskAI(c *gin.Context) {
	var req askAIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	reply, err := s.convSvc.AskAI(c.Request.Context(), convdomain.AskAIRequest{
		ConversationID: strings.TrimSpace(c.Param("id")),
		Message:        req.Message,
		Model:          strings.TrimSpace(req.Model),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reply})
}
