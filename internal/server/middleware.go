package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clubhouse/internal/observability/logger"
	"github.com/smallbiznis/clubhouse/pkg/secret"
	"go.uber.org/zap"
)

const rateLimitReasonIntakeIP = "intake-ip"

// AdminRequired gates roster and listing endpoints behind a static bearer token.
// The configured token may be an Argon2id hash. With no token configured every
// admin request is rejected.
func (s *Server) AdminRequired() gin.HandlerFunc {
	expected := strings.TrimSpace(s.cfg.AdminToken)
	return func(c *gin.Context) {
		if expected == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		parts := strings.Fields(strings.TrimSpace(c.GetHeader("Authorization")))
		if len(parts) != 2 || parts[0] != "Bearer" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !secret.Matches(parts[1], expected) {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Next()
	}
}

// IntakeRateLimit throttles registration submissions per client IP.
// Limiter errors fail open.
func (s *Server) IntakeRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.intakeLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		result, err := s.intakeLimiter.AllowIP(ctx, c.ClientIP())
		if err != nil {
			logger.FromContext(ctx).Warn("intake rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if result.Allowed {
			c.Next()
			return
		}

		logger.FromContext(ctx).Warn("intake rate limit exceeded", zap.String("reason", rateLimitReasonIntakeIP))
		if s.obsMetrics != nil {
			s.obsMetrics.RecordRateLimitDenied(ctx, normalizeRateLimitEndpoint(c), rateLimitReasonIntakeIP)
		}

		retryAfter := int(result.RetryAfter.Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		s.respondRegistrationError(c, ErrRateLimited)
		c.Abort()
	}
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return endpoint
}
