package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/EGS-Tourist-Guide/event-service/internal/helpers"
	"github.com/EGS-Tourist-Guide/event-service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIKeyHeader carries the caller's service key on every protected route.
const APIKeyHeader = "service-api-key"

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

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency,
			"client_ip", clientIP,
		)
	}
}

// ErrorHandler provides centralized error handling
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get("request_id")

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(
					http.StatusInternalServerError,
					"Internal server error",
					"the request could not be processed",
				))
			}
		}
	}
}

// APIKeyAuth rejects requests whose service-api-key header does not
// hash to an active stored key.
func APIKeyAuth(keys *services.KeyService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			unauthorized(c, "missing "+APIKeyHeader+" header")
			return
		}

		valid, err := keys.ValidateKey(c.Request.Context(), key)
		if err != nil {
			requestID, _ := c.Get("request_id")
			logger.Error("API key validation failed", "request_id", requestID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, helpers.ErrorResponse(
				http.StatusInternalServerError,
				"Internal server error",
				"the api key could not be verified",
			))
			return
		}
		if !valid {
			unauthorized(c, "invalid or inactive api key")
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context, details string) {
	c.Header("WWW-Authenticate", `ApiKey realm="event-service"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, helpers.ErrorResponse(
		http.StatusUnauthorized,
		"Unauthorized",
		details,
	))
}
