package middleware

import (
	"net/http"
	"time"

	"wallet-ledger-core/pkg/apperror"
	"wallet-ledger-core/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// HeaderOwnerID carries the owner identity injected by the upstream
	// gateway. Authentication happens there; this service only trusts the
	// header.
	HeaderOwnerID = "X-Owner-ID"

	// HeaderRequestID propagates or assigns a per-request correlation id.
	HeaderRequestID = "X-Request-ID"

	// Context keys
	CtxOwnerID   = "owner_id"
	CtxRequestID = "request_id"
)

// RequestID creates a middleware that takes the request id from the
// X-Request-ID header or generates one, and echoes it back in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(CtxRequestID, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

// OwnerIdentity creates a middleware that extracts the owner UUID from the
// X-Owner-ID header. Requests without a well-formed owner id are rejected.
func OwnerIdentity(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderOwnerID)
		if raw == "" {
			response.Error(c, apperror.Validation("missing X-Owner-ID header"))
			c.Abort()
			return
		}
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			log.Warn().Str("owner_header", raw).Msg("malformed owner id header")
			response.Error(c, apperror.Validation("malformed X-Owner-ID header"))
			c.Abort()
			return
		}
		c.Set(CtxOwnerID, ownerID)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// MaxBodySize returns middleware that limits the request body size.
// Once the limit is exceeded the reader returns an error and the
// request is rejected with 413 Payload Too Large.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
