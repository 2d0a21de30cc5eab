package api

import (
	"context"                    // Context for upstream calls
	"dapptrack/internal/domain"  // Importing domain models
	"dapptrack/internal/ledger"  // Ledger read models
	"dapptrack/internal/pinning" // Pinning service types
	"dapptrack/internal/views"   // Page builders
	"io"                         // Upload streams
	"strconv"                    // Query parsing

	"github.com/gin-gonic/gin" // Gin web framework
)

// ProofPinner stores proof documents on IPFS
type ProofPinner interface {
	PinFile(ctx context.Context, name, contentType string, r io.Reader) (pinning.PinResult, error)
	GatewayURL(cid string) string
}

// EventSource lists indexed chain events
type EventSource interface {
	Events(ctx context.Context, kind string) ([]ledger.Event, error)
}

// TxLookup reports the status of submitted transactions
type TxLookup interface {
	Transaction(ctx context.Context, hash string) (ledger.TxStatus, error)
}

// OrgLookup reads one ledger organization, nil when it is missing
type OrgLookup interface {
	OrganizationByID(ctx context.Context, orgID domain.U64) *domain.Organization
}

// SnapshotSource serves the shared ledger snapshot
type SnapshotSource interface {
	Current(ctx context.Context) (ledger.Snapshot, bool)
	Invalidate(ctx context.Context)
}

// DirectoryPublisher uploads the directory after a change
type DirectoryPublisher interface {
	Publish(ctx context.Context) (string, error)
}

// parseQuery reads the page filters shared by every page endpoint
func parseQuery(c *gin.Context) (views.Query, bool) {
	q := views.Query{
		Search:   c.Query("search"),   // Free text
		Type:     c.Query("type"),     // Entry or organization type
		Locality: c.Query("locality"), // Directory locality
		Sort:     c.Query("sort"),     // Sort key
	}
	// Optional organization filter
	if v := c.Query("org"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return q, false // Not a u64
		}
		orgID := domain.U64(id)
		q.OrgID = &orgID
	}
	// Optional project filter
	if v := c.Query("project"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return q, false // Not a u64
		}
		projectID := domain.U64(id)
		q.ProjectID = &projectID
	}
	return q, true
}
