package api

import (
	"dapptrack/internal/config" // Application configuration
	"net/http"                  // HTTP status codes
	"time"                      // Timestamps

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// HealthHandler reports configuration and cache reachability
func HealthHandler(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		cacheConnected := false
		if rdb != nil {
			cacheConnected = rdb.Ping(c.Request.Context()).Err() == nil // Redis reachable
		}
		c.JSON(http.StatusOK, gin.H{
			"status":           "ok",                                  // Process is up
			"network":          cfg.AptosNetwork,                      // Aptos network
			"moduleAddress":    cfg.ModuleAddress,                     // Module publisher
			"pinataConfigured": cfg.PinataConfigured(),                // Proof uploads available
			"cacheConnected":   cacheConnected,                        // Redis reachable
			"timestamp":        time.Now().UTC().Format(time.RFC3339), // Server time
		})
	}
}
