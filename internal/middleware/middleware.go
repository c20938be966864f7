package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/metrics"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		requestID, _ := c.Get("request_id")

		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if p, ok := helpers.CurrentPrincipal(c); ok {
			attrs = append(attrs, "user_id", p.ID, "role", p.Role)
		}
		logger.Info("HTTP Request", attrs...)
	}
}

// ErrorHandler logs errors attached with c.Error and answers with a generic
// 500 if the handler did not already write a response.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID, _ := c.Get("request_id")

		logger.Error("Request error",
			"request_id", requestID,
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if c.Writer.Written() {
			return
		}
		// Don't return error details in production
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":    false,
			"error":      "Internal server error",
			"request_id": requestID,
		})
	}
}

// Metrics records request counts and latency per matched route.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Identity resolves the caller from the session and stores the principal on
// the gin context. It never rejects a request: anonymous callers continue
// without a principal and handlers decide what they may do. An expired
// access token is renewed with the refresh_token cookie when possible.
func Identity(identity *services.IdentityService, secureCookies bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity == nil {
			c.Next()
			return
		}

		token := helpers.AccessToken(c)
		var principal *models.Principal
		var err error
		if token != "" {
			principal, err = identity.PrincipalFromToken(token)
		}

		if principal == nil {
			if refreshToken, cookieErr := c.Cookie(helpers.RefreshTokenCookie); cookieErr == nil && refreshToken != "" {
				principal, token = refreshSession(c, identity, refreshToken, secureCookies, logger)
			} else if err != nil {
				logger.Debug("access token rejected", "error", err)
			}
		}

		if principal != nil {
			helpers.SetPrincipal(c, principal)
			c.Request = c.Request.WithContext(models.WithAccessToken(c.Request.Context(), token))
		}
		c.Next()
	}
}

func refreshSession(c *gin.Context, identity *services.IdentityService, refreshToken string, secure bool, logger *slog.Logger) (*models.Principal, string) {
	session, err := identity.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		logger.Warn("Token refresh failed", "error", err)
		helpers.ClearSessionCookies(c, secure)
		return nil, ""
	}

	principal, err := identity.PrincipalFromToken(session.AccessToken)
	if err != nil {
		logger.Warn("Refreshed token validation failed", "error", err)
		return nil, ""
	}

	helpers.SetSessionCookies(c, session, secure)
	logger.Info("Token refreshed successfully",
		"user_id", principal.ID,
		"expires_in", session.ExpiresIn,
	)
	return principal, session.AccessToken
}

// RequireAuth aborts with 401 when Identity found no principal.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := helpers.CurrentPrincipal(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, helpers.ErrorResponse("authentication required"))
			return
		}
		c.Next()
	}
}
