package api

import (
	"dapptrack/internal/ledger" // Ledger client errors
	"dapptrack/internal/utils"  // Utility functions
	"errors"                    // Error inspection
	"net/http"                  // HTTP status codes
	"time"                      // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// eventsCacheTTL keeps indexer load low while pages poll
const eventsCacheTTL = 15 * time.Second

// EventsHandler proxies indexed module events of one kind
func EventsHandler(src EventSource, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := c.Param("kind") // funds, deliveries, donations or verifications
		if _, ok := ledger.EventKinds[kind]; !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown event kind"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := "events:" + kind // Cache key per kind
		var cached []ledger.Event
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"events": cached, "cached": true})
			return
		}

		events, err := src.Events(ctx, kind)
		if err != nil {
			if errors.Is(err, ledger.ErrUnknownEventKind) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Unknown event kind"})
				return
			}
			logrus.WithFields(logrus.Fields{"kind": kind, "error": err.Error()}).Error("Failed to fetch events")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events", "details": err.Error()})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, events, eventsCacheTTL) // Cache the result
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}
