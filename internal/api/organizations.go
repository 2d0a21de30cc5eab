package api

import (
	"context"                      // Context for Redis operations
	"dapptrack/internal/directory" // Organization directory
	"dapptrack/internal/domain"    // Importing domain models
	"dapptrack/internal/utils"     // Utility functions
	"errors"                       // Error inspection
	"net/http"                     // HTTP status codes
	"time"                         // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

const (
	directoryCacheKey = "directory:organizations" // Cached list response
	directoryCacheTTL = 30 * time.Second          // Matches the page refresh period
)

// DirectoryListResponse is the directory listing
type DirectoryListResponse struct {
	Organizations []domain.DirectoryOrganization `json:"organizations"` // Every organization with reviews
	IpfsHash      string                         `json:"ipfsHash"`      // Latest snapshot CID
	Count         int                            `json:"count"`         // Number of organizations
}

// VerificationRequest is an operator's verification decision
type VerificationRequest struct {
	Verified   *bool `json:"verified" binding:"required"`                  // Verified flag
	TrustScore *int  `json:"trustScore" binding:"omitempty,min=0,max=100"` // Optional new trust score
}

// publishDirectory uploads a new snapshot and drops the cached listing.
// Failures are logged; the committed record stays authoritative.
func publishDirectory(ctx context.Context, pub DirectoryPublisher, rdb *redis.Client) string {
	cid, err := pub.Publish(ctx)
	// Drop the listing after Publish returns, one cached while it ran is stale
	_ = utils.DeleteCache(ctx, rdb, directoryCacheKey)
	if err != nil {
		logrus.WithField("error", err.Error()).Error("Failed to publish directory snapshot")
		return ""
	}
	return cid
}

// RegisterOrganizationHandler adds an organization to the directory
func RegisterOrganizationHandler(store *directory.Store, pub DirectoryPublisher, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req directory.RegisterInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
		ctx := c.Request.Context()
		org, err := store.Register(ctx, req) // Append in a transaction
		if errors.Is(err, directory.ErrInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"name": req.Name, "error": err.Error()}).Error("Organization registration failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed", "details": err.Error()})
			return
		}
		cid := publishDirectory(ctx, pub, rdb) // Best effort snapshot
		logrus.WithFields(logrus.Fields{"id": org.ID, "name": org.Name, "cid": cid}).Info("Organization registered")
		c.JSON(http.StatusOK, gin.H{
			"success":      true, // Registration committed
			"organization": org,  // Stored record
			"ipfsHash":     cid,  // Snapshot CID, empty when publishing failed
		})
	}
}

// ListOrganizationsHandler returns every directory organization
func ListOrganizationsHandler(store *directory.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached DirectoryListResponse
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, directoryCacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"organizations": cached.Organizations, // Organizations
				"ipfsHash":      cached.IpfsHash,      // Snapshot CID
				"count":         cached.Count,         // Count
				"cached":        true,                 // Indicate response is from cache
			})
			return
		}
		orgs, err := store.List(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch organizations", "details": err.Error()})
			return
		}
		cid, err := store.LatestSnapshotCID(ctx)
		if err != nil {
			logrus.WithField("error", err.Error()).Warn("Failed to read latest snapshot CID")
		}
		resp := DirectoryListResponse{Organizations: orgs, IpfsHash: cid, Count: len(orgs)}
		_ = utils.SetCache(ctx, rdb, directoryCacheKey, resp, directoryCacheTTL) // Cache the response
		c.JSON(http.StatusOK, resp)
	}
}

// GetOrganizationHandler returns one directory organization
func GetOrganizationHandler(store *directory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		org, err := store.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, directory.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch organization", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"organization": org})
	}
}

// AddReviewHandler appends a donor review to an organization
func AddReviewHandler(store *directory.Store, pub DirectoryPublisher, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req directory.ReviewInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
		ctx := c.Request.Context()
		review, org, err := store.AddReview(ctx, c.Param("id"), req)
		if errors.Is(err, directory.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
			return
		}
		if errors.Is(err, directory.ErrInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"organization_id": c.Param("id"), "error": err.Error()}).Error("Add review failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add review", "details": err.Error()})
			return
		}
		publishDirectory(ctx, pub, rdb) // Best effort snapshot
		c.JSON(http.StatusOK, gin.H{
			"success":      true,   // Review committed
			"review":       review, // Stored review
			"organization": org,    // Organization with every review
		})
	}
}

// VerifyOrganizationHandler lets an operator set the verified flag and trust score
func VerifyOrganizationHandler(store *directory.Store, pub DirectoryPublisher, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerificationRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
		ctx := c.Request.Context()
		org, err := store.Verify(ctx, c.Param("id"), *req.Verified, req.TrustScore)
		if errors.Is(err, directory.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
			return
		}
		if errors.Is(err, directory.ErrInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update verification", "details": err.Error()})
			return
		}
		// Audit log of the moderation decision
		logrus.WithFields(logrus.Fields{
			"organization_id": org.ID,                          // Organization
			"verified":        org.Verified,                    // New flag
			"trust_score":     org.TrustScore,                  // New score
			"operator":        c.GetString("operatorUsername"), // Acting operator
		}).Info("Organization verification updated")
		publishDirectory(ctx, pub, rdb) // Best effort snapshot
		c.JSON(http.StatusOK, gin.H{"organization": org})
	}
}
