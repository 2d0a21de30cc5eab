package middleware

import (
	"time" // Request latency

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Logger logs one line per request
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,           // HTTP method
			"path":       c.FullPath(),               // Route pattern
			"status":     c.Writer.Status(),          // Response status
			"latency":    time.Since(start).String(), // Handling time
			"request_id": RequestIDFromContext(c),    // Correlation id
			"client_ip":  c.ClientIP(),               // Caller
		})
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}
