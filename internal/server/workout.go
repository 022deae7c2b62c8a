package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	workoutdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/workout/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db/pagination"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
	"gorm.io/datatypes"
)

type createWorkoutRequest struct {
	Name string                    `json:"name"`
	Type workoutdomain.WorkoutType `json:"type"`
}

type updateWorkoutRequest struct {
	Name *string                    `json:"name"`
	Type *workoutdomain.WorkoutType `json:"type"`
}

type createWorkoutLogRequest struct {
	WorkoutID      string                  `json:"workout_id"`
	DurationMin    int                     `json:"duration_min"`
	CaloriesBurned *int                    `json:"calories_burned"`
	LogDate        *datatypes.Date         `json:"log_date"`
	Status         workoutdomain.LogStatus `json:"status"`
	Note           *string                 `json:"note"`
}

type updateWorkoutLogRequest struct {
	DurationMin    *int                     `json:"duration_min"`
	CaloriesBurned *int                     `json:"calories_burned"`
	Status         *workoutdomain.LogStatus `json:"status"`
	Note           *string                  `json:"note"`
}

func (s *Server) CreateWorkout(c *gin.Context) {
	var req createWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	workout, err := s.workoutSvc.CreateWorkout(c.Request.Context(), workoutdomain.CreateWorkoutRequest{
		Name: strings.TrimSpace(req.Name),
		Type: req.Type,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": workout})
}

func (s *Server) ListWorkouts(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Type workoutdomain.WorkoutType `form:"type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.workoutSvc.ListWorkouts(c.Request.Context(), workoutdomain.ListWorkoutRequest{
		Pagination: query.Pagination,
		Type:       query.Type,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetWorkoutByID(c *gin.Context) {
	workout, err := s.workoutSvc.GetWorkout(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": workout})
}

func (s *Server) UpdateWorkout(c *gin.Context) {
	var req updateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	workout, err := s.workoutSvc.UpdateWorkout(c.Request.Context(), workoutdomain.UpdateWorkoutRequest{
		ID:   strings.TrimSpace(c.Param("id")),
		Name: req.Name,
		Type: req.Type,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": workout})
}

func (s *Server) DeleteWorkout(c *gin.Context) {
	if err := s.workoutSvc.DeleteWorkout(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) CreateWorkoutLog(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createWorkoutLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	log, err := s.workoutSvc.LogWorkout(c.Request.Context(), workoutdomain.CreateWorkoutLogRequest{
		UserID:         principal.UserID,
		WorkoutID:      strings.TrimSpace(req.WorkoutID),
		DurationMin:    req.DurationMin,
		CaloriesBurned: req.CaloriesBurned,
		LogDate:        req.LogDate,
		Status:         req.Status,
		Note:           req.Note,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": log})
}

func (s *Server) UpdateWorkoutLog(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req updateWorkoutLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	log, err := s.workoutSvc.UpdateLog(c.Request.Context(), workoutdomain.UpdateWorkoutLogRequest{
		UserID:         principal.UserID,
		ID:             strings.TrimSpace(c.Param("id")),
		DurationMin:    req.DurationMin,
		CaloriesBurned: req.CaloriesBurned,
		Status:         req.Status,
		Note:           req.Note,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": log})
}

func (s *Server) ListWorkoutLogs(c *gin.Context) {
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

	logs, err := s.workoutSvc.ListLogs(c.Request.Context(), workoutdomain.ListWorkoutLogRequest{
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

func (s *Server) DeleteWorkoutLog(c *gin.Context) {
	principal, ok := userctx.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.workoutSvc.DeleteLog(c.Request.Context(), principal.UserID, strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
