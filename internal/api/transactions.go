package api

import (
	"dapptrack/internal/domain" // Importing domain models
	"dapptrack/internal/ledger" // Payload builders
	"dapptrack/internal/utils"  // Utility functions
	"encoding/json"             // Metadata encoding
	"net/http"                  // HTTP status codes
	"regexp"                    // Email validation
	"strings"                   // String manipulation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// emailPattern is the contact email check the registration form applies
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterOrganizationRequest is the on-chain registration form
type RegisterOrganizationRequest struct {
	Name         string `json:"name"`         // Required
	Description  string `json:"description"`  // Required
	Type         string `json:"type"`         // Defaults to NGO
	Locality     string `json:"locality"`     // Required
	Mission      string `json:"mission"`      // Required
	ContactEmail string `json:"contactEmail"` // Required, validated
	Website      string `json:"website"`      // Optional
	Founded      string `json:"founded"`      // Optional
	Logo         string `json:"logo"`         // Optional
}

// CreateProjectRequest opens a project
type CreateProjectRequest struct {
	OrgID        *domain.U64 `json:"orgId" binding:"required"`        // Owning organization
	Name         string      `json:"name" binding:"required"`         // Project name
	Description  string      `json:"description"`                     // Project description
	TargetAmount string      `json:"targetAmount" binding:"required"` // APT, e.g. "12.5"
}

// DonateRequest donates to a project
type DonateRequest struct {
	OrgID     *domain.U64 `json:"orgId" binding:"required"`     // Receiving organization
	ProjectID *domain.U64 `json:"projectId" binding:"required"` // Receiving project
	Amount    string      `json:"amount" binding:"required"`    // APT, e.g. "1.5"
	Message   string      `json:"message"`                      // Optional message
}

// RecordExpenseRequest records spending with its proof
type RecordExpenseRequest struct {
	OrgID       *domain.U64 `json:"orgId" binding:"required"`       // Spending organization
	ProjectID   *domain.U64 `json:"projectId" binding:"required"`   // Project charged
	Description string      `json:"description" binding:"required"` // What was bought
	Amount      string      `json:"amount" binding:"required"`      // APT
	IPFSProof   string      `json:"ipfsProof"`                      // CID from /api/upload-proof
}

// RegisterOrganizationPayloadHandler validates the registration form and returns the payload to sign
func RegisterOrganizationPayloadHandler(payloads ledger.Payloads) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterOrganizationRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate required fields
		if blank(req.Name, req.Locality, req.Description, req.Mission, req.ContactEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all required fields"})
			return
		}
		// Validate email
		if !emailPattern.MatchString(req.ContactEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid email address"})
			return
		}
		if req.Type == "" {
			req.Type = "NGO" // Default organization type
		}
		metadata, err := json.Marshal(domain.OrganizationMetadata{
			Type:         req.Type,         // Organization type
			Locality:     req.Locality,     // Where it operates
			Mission:      req.Mission,      // Mission statement
			ContactEmail: req.ContactEmail, // Contact address
			Website:      req.Website,      // Homepage
			Founded:      req.Founded,      // Founding year
			Logo:         req.Logo,         // Emoji or image URL
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode metadata"})
			return
		}
		c.JSON(http.StatusOK, payloads.RegisterOrganization(ledger.RegisterOrganizationArgs{
			Name:         req.Name,         // Organization name
			Description:  req.Description,  // Description
			IPFSMetadata: string(metadata), // Metadata blob
		}))
	}
}

// CreateProjectPayloadHandler returns the create_project payload
func CreateProjectPayloadHandler(payloads ledger.Payloads) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProjectRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		target, err := domain.ParseAPT(req.TargetAmount) // APT to Octas
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid target amount"})
			return
		}
		c.JSON(http.StatusOK, payloads.CreateProject(ledger.CreateProjectArgs{
			OrgID:        *req.OrgID,      // Owning organization
			Name:         req.Name,        // Project name
			Description:  req.Description, // Description
			TargetAmount: target,          // Octas
		}))
	}
}

// DonatePayloadHandler returns the donate_to_organization payload
func DonatePayloadHandler(payloads ledger.Payloads) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DonateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please select an organization and project"})
			return
		}
		amount, err := domain.ParseAPT(req.Amount) // APT to Octas
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid donation amount"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"org_id":     *req.OrgID,     // Organization
			"project_id": *req.ProjectID, // Project
			"amount":     amount,         // Octas
		}).Debug("Donation payload built")
		c.JSON(http.StatusOK, payloads.DonateToOrganization(ledger.DonateArgs{
			OrgID:     *req.OrgID,     // Organization
			ProjectID: *req.ProjectID, // Project
			Amount:    amount,         // Octas
			Message:   req.Message,    // Optional message
		}))
	}
}

// RecordExpensePayloadHandler returns the record_expense payload
func RecordExpensePayloadHandler(payloads ledger.Payloads) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecordExpenseRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// A proof document is required for every expense
		if strings.TrimSpace(req.IPFSProof) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload a proof document"})
			return
		}
		amount, err := domain.ParseAPT(req.Amount) // APT to Octas
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid amount"})
			return
		}
		c.JSON(http.StatusOK, payloads.RecordExpense(ledger.RecordExpenseArgs{
			OrgID:       *req.OrgID,      // Organization
			ProjectID:   *req.ProjectID,  // Project
			Description: req.Description, // What was bought
			Amount:      amount,          // Octas
			IPFSProof:   req.IPFSProof,   // Proof CID
		}))
	}
}

// TransactionStatusHandler reports a submitted transaction's outcome
func TransactionStatusHandler(txs TxLookup, snaps SnapshotSource, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		status, err := txs.Transaction(ctx, c.Param("hash"))
		if err != nil {
			logrus.WithFields(logrus.Fields{"hash": c.Param("hash"), "error": err.Error()}).Error("Transaction lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transaction", "details": err.Error()})
			return
		}
		// Unknown hashes are reported as not found
		if !status.Found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found", "hash": status.Hash})
			return
		}
		// A committed transaction changed the ledger, drop the cached snapshot
		if status.Success && !status.Pending {
			snaps.Invalidate(ctx)
			_ = utils.DeleteCachePrefix(ctx, rdb, "events:") // New events may have been emitted
		}
		// Chain rejections from the admin check get a readable message
		if status.Unauthorized {
			c.JSON(http.StatusOK, gin.H{"transaction": status, "error": "Only the organization admin can perform this action"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": status})
	}
}

// blank reports whether any value is empty after trimming
func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
