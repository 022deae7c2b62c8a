package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	usagedomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/domain"
	authdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/domain"
	convdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/conversation/domain"
	fooddomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food/domain"
	goaldomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/goal/domain"
	suggestdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/suggestion/domain"
	txdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/domain"
	profiledomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/userprofile/domain"
	waterdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/waterlog/domain"
	workoutdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/workout/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionNotFound),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authdomain.ErrAccountBlocked),
		errors.Is(err, accountdomain.ErrAccountBlocked),
		errors.Is(err, accountdomain.ErrSelfDemotion),
		errors.Is(err, convdomain.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, txdomain.ErrCompletedImmutable):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "transaction already completed",
		}
	case errors.Is(err, accountdomain.ErrUsernameTaken),
		errors.Is(err, accountdomain.ErrEmailTaken),
		errors.Is(err, authdomain.ErrNotGuest):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case errors.Is(err, suggestdomain.ErrBadCompletion):
		return http.StatusBadGateway, errorPayload{
			Type:    "upstream_error",
			Message: "assistant returned an unusable reply",
		}
	case errors.Is(err, usagedomain.ErrInsufficientFunds):
		return http.StatusPaymentRequired, errorPayload{
			Type:    "insufficient_balance",
			Message: "insufficient balance",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isAccountValidationError(err),
		isTransactionValidationError(err),
		isUsageValidationError(err),
		isConversationValidationError(err),
		isProfileValidationError(err),
		isFoodValidationError(err),
		isWorkoutValidationError(err),
		isWaterLogValidationError(err),
		isGoalValidationError(err),
		errors.Is(err, suggestdomain.ErrInvalidRange):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, accountdomain.ErrNotFound),
		errors.Is(err, txdomain.ErrNotFound),
		errors.Is(err, txdomain.ErrUserNotFound),
		errors.Is(err, usagedomain.ErrUserNotFound),
		errors.Is(err, convdomain.ErrNotFound),
		errors.Is(err, profiledomain.ErrNotFound),
		errors.Is(err, fooddomain.ErrFoodNotFound),
		errors.Is(err, fooddomain.ErrLogNotFound),
		errors.Is(err, workoutdomain.ErrWorkoutNotFound),
		errors.Is(err, workoutdomain.ErrLogNotFound),
		errors.Is(err, waterdomain.ErrNotFound),
		errors.Is(err, goaldomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isAccountValidationError(err error) bool {
	switch err {
	case accountdomain.ErrInvalidUsername,
		accountdomain.ErrInvalidEmail,
		accountdomain.ErrInvalidPassword,
		accountdomain.ErrInvalidRole:
		return true
	default:
		return false
	}
}

func isTransactionValidationError(err error) bool {
	switch err {
	case txdomain.ErrInvalidAmount,
		txdomain.ErrInvalidStatus,
		txdomain.ErrInvalidPaymentMethod:
		return true
	default:
		return false
	}
}

func isUsageValidationError(err error) bool {
	switch err {
	case usagedomain.ErrInvalidCost,
		usagedomain.ErrInvalidModel:
		return true
	default:
		return false
	}
}

func isConversationValidationError(err error) bool {
	return err == convdomain.ErrInvalidMessage
}

func isProfileValidationError(err error) bool {
	switch err {
	case profiledomain.ErrInvalidGender,
		profiledomain.ErrInvalidLevel,
		profiledomain.ErrInvalidValue:
		return true
	default:
		return false
	}
}

func isFoodValidationError(err error) bool {
	switch err {
	case fooddomain.ErrInvalidName,
		fooddomain.ErrInvalidCalories,
		fooddomain.ErrInvalidQuantity,
		fooddomain.ErrInvalidMealType:
		return true
	default:
		return false
	}
}

func isWorkoutValidationError(err error) bool {
	switch err {
	case workoutdomain.ErrInvalidName,
		workoutdomain.ErrInvalidType,
		workoutdomain.ErrInvalidDuration,
		workoutdomain.ErrInvalidStatus:
		return true
	default:
		return false
	}
}

func isWaterLogValidationError(err error) bool {
	return err == waterdomain.ErrInvalidAmount
}

func isGoalValidationError(err error) bool {
	switch err {
	case goaldomain.ErrInvalidType,
		goaldomain.ErrInvalidTarget:
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return "request"
}

func validationErrorMessage(code string) string {
	return strings.ReplaceAll(code, "_", " ")
}
