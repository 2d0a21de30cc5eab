package middleware

import (
	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // Request id generation
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's request id or assigns a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString() // Fresh id
		}
		c.Set("requestID", rid)
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}

// RequestIDFromContext returns the id stored by RequestID, "" when absent
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString("requestID")
}
