package api

import (
	"dapptrack/internal/directory" // Organization directory
	"dapptrack/internal/domain"    // Importing domain models
	"dapptrack/internal/ledger"    // Ledger snapshot
	"dapptrack/internal/views"     // Page builders
	"net/http"                     // HTTP status codes
	"strconv"                      // Path id parsing

	"github.com/gin-gonic/gin" // Gin web framework
)

// PageBuilder renders one page from a snapshot
type PageBuilder func(snap ledger.Snapshot, q views.Query) any

// PageHandler serves a page computed from the shared ledger snapshot
func PageHandler(snaps SnapshotSource, build PageBuilder) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := parseQuery(c) // Read filters
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "org and project must be numeric ids"})
			return
		}
		snap, cached := snaps.Current(c.Request.Context()) // Cached or freshly loaded ledger
		c.JSON(http.StatusOK, gin.H{
			"page":     build(snap, q), // Page data
			"loadedAt": snap.LoadedAt,  // Snapshot age
			"cached":   cached,         // Indicate snapshot came from cache
		})
	}
}

// TrackPage, DonatePage, VerifyPage, DeliverPage and AuditPage adapt the
// view builders to PageHandler.
func TrackPage(p *views.Pages) PageBuilder {
	return func(s ledger.Snapshot, q views.Query) any { return p.Track(s, q) }
}

func DonatePage(p *views.Pages) PageBuilder {
	return func(s ledger.Snapshot, q views.Query) any { return p.Donate(s, q) }
}

func VerifyPage(p *views.Pages) PageBuilder {
	return func(s ledger.Snapshot, q views.Query) any { return p.Verify(s, q) }
}

func DeliverPage(p *views.Pages) PageBuilder {
	return func(s ledger.Snapshot, q views.Query) any { return p.Deliver(s, q) }
}

func AuditPage(p *views.Pages) PageBuilder {
	return func(s ledger.Snapshot, q views.Query) any { return p.Audit(s, q) }
}

// AdminPageHandler serves the dashboard of the wallet in the path
func AdminPageHandler(snaps SnapshotSource, p *views.Pages) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, cached := snaps.Current(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"page":     p.Admin(snap, c.Param("address")), // Organizations administered by the address
			"loadedAt": snap.LoadedAt,                     // Snapshot age
			"cached":   cached,                            // Indicate snapshot came from cache
		})
	}
}

// DirectoryPageHandler merges ledger organizations with directory registrations
func DirectoryPageHandler(snaps SnapshotSource, store *directory.Store, p *views.Pages) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := parseQuery(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "org and project must be numeric ids"})
			return
		}
		ctx := c.Request.Context()
		registered, err := store.List(ctx) // Off-chain registrations
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch organizations", "details": err.Error()})
			return
		}
		snap, cached := snaps.Current(ctx) // On-chain organizations
		c.JSON(http.StatusOK, gin.H{
			"page":     p.Directory(snap.Organizations, registered, q), // Filtered and sorted listing
			"loadedAt": snap.LoadedAt,                                  // Snapshot age
			"cached":   cached,                                         // Indicate snapshot came from cache
		})
	}
}

// OrganizationDetailHandler serves the page of one ledger organization. The
// organization itself is read live; its records come from the shared snapshot.
func OrganizationDetailHandler(orgs OrgLookup, snaps SnapshotSource, p *views.Pages) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Organization id must be numeric"})
			return
		}
		ctx := c.Request.Context()
		org := orgs.OrganizationByID(ctx, domain.U64(id)) // Fresh ledger read
		if org == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
			return
		}
		snap, cached := snaps.Current(ctx) // Projects, donations and expenses
		c.JSON(http.StatusOK, gin.H{
			"page":     p.OrganizationDetail(snap, *org), // Organization page
			"loadedAt": snap.LoadedAt,                    // Snapshot age
			"cached":   cached,                           // Indicate snapshot came from cache
		})
	}
}
