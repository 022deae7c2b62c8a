package server

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/metrics"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/userctx"
	"go.uber.org/zap"
)

// AuthRequired resolves the session token carried by the cookie or the
// Authorization header and injects the principal into the request
// context for the service layer.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := userctx.WithPrincipal(c.Request.Context(), userctx.Principal{
			UserID: user.ID,
			Role:   int(user.Role),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) RequireRole(roles ...accountdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := userctx.PrincipalFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		for _, role := range roles {
			if principal.Role == int(role) {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

// MetricsMiddleware records per-route request counts and latency.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ChatRateLimit throttles the ask endpoint per user with the shared
// redis token bucket. The limiter is nil when rate limiting is
// disabled, in which case requests pass through untouched.
func (s *Server) ChatRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.chatLimiter == nil {
			c.Next()
			return
		}

		principal, ok := userctx.PrincipalFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		key := fmt.Sprintf("chat:%s", principal.UserID.String())
		res, err := s.chatLimiter.Allow(c.Request.Context(), key, s.cfg.RateLimit.ChatRate, s.cfg.RateLimit.ChatBurst)
		if err != nil {
			// Redis being down should not take chat down with it.
			s.log.Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			c.AbortWithStatusJSON(429, errorResponse{Error: errorPayload{
				Type:    "rate_limited",
				Message: "too many requests",
			}})
			return
		}
		c.Next()
	}
}
