package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	profiledomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/userprofile/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
	"gorm.io/datatypes"
)

type upsertProfileRequest struct {
	Age           *int                         `json:"age"`
	Gender        *profiledomain.Gender        `json:"gender"`
	HeightCM      *float64                     `json:"height_cm"`
	WeightKG      *float64                     `json:"weight_kg"`
	ActivityLevel *profiledomain.ActivityLevel `json:"activity_level"`
	Target        datatypes.JSONMap            `json:"target"`
}

func (s *Server) GetProfile(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	profile, err := s.profileSvc.Get(c.Request.Context(), principal.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

func (s *Server) UpsertProfile(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req upsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	profile, err := s.profileSvc.Upsert(c.Request.Context(), profiledomain.UpsertProfileRequest{
		UserID:        principal.UserID,
		Age:           req.Age,
		Gender:        req.Gender,
		HeightCM:      req.HeightCM,
		WeightKG:      req.WeightKG,
		ActivityLevel: req.ActivityLevel,
		Target:        req.Target,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

func (s *Server) DeleteProfile(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.profileSvc.Delete(c.Request.Context(), principal.UserID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

// parseOptionalDate accepts a YYYY-MM-DD query value.
func parseOptionalDate(raw string) (*datatypes.Date, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}
