package middleware

import (
	"net/http" // HTTP status codes
	"sync"     // Bucket map guard
	"time"     // Window length

	"github.com/gin-gonic/gin" // Gin web framework
)

type bucket struct {
	count int
	until time.Time
}

// RateLimit allows limit requests per client IP in each window of length per
func RateLimit(limit int, per time.Duration) gin.HandlerFunc {
	var mu sync.Mutex
	buckets := make(map[string]*bucket)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()
		mu.Lock()
		b, ok := buckets[ip]
		if !ok || now.After(b.until) {
			b = &bucket{until: now.Add(per)} // New window
			buckets[ip] = b
		}
		if b.count >= limit {
			mu.Unlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		b.count++
		mu.Unlock()
		c.Next()
	}
}
