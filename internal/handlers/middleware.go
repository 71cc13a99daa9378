package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/repositories"
)

const (
	contextUserKey      = "currentUser"
	contextRequestIDKey = "requestID"

	headerRequestID = "X-Request-ID"
	headerUserID    = "X-User-ID"
)

// RequestIDMiddleware attaches a request id, honoring one supplied by the
// caller.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(contextRequestIDKey, requestID)
		c.Header(headerRequestID, requestID)
		c.Next()
	}
}

// LoggerMiddleware writes one structured line per request.
func LoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(contextRequestIDKey),
		)
	}
}

// CORSMiddleware allows browser clients to reach the API.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+headerUserID+", "+headerRequestID)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// SecurityMiddleware sets conservative response headers.
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Next()
	}
}

// AuthMiddleware resolves the calling user from the X-User-ID header. Token
// verification happens upstream at the gateway; this service only needs the
// identity and role.
func AuthMiddleware(repo repositories.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(headerUserID)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing " + headerUserID + " header"})
			return
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid " + headerUserID + " header"})
			return
		}

		user, err := repo.User().GetByID(c.Request.Context(), uint(id))
		if err != nil {
			if repositories.IsNotFoundError(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unknown user"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "account disabled"})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allow list.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		v, ok := c.Get(contextUserKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			return
		}
		user := v.(*models.User)
		if !allowed[user.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "insufficient role"})
			return
		}
		c.Next()
	}
}
