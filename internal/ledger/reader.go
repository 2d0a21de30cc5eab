package ledger

import (
	"context"                   // Context for cancellation
	"dapptrack/internal/domain" // Importing domain models
	"strconv"                   // Number parsing
	"time"                      // Timestamps and timeouts

	"github.com/sirupsen/logrus" // Structured logging
	"golang.org/x/sync/errgroup" // Parallel queries
)

// fanOutLimit bounds concurrent per-organization view calls.
const fanOutLimit = 4

// Viewer calls chain view functions.
type Viewer interface {
	Function(name string) string
	View(ctx context.Context, function string, args []any, out any) error
}

// Snapshot is every ledger record the pages work from.
type Snapshot struct {
	Organizations []domain.Organization `json:"organizations"`
	Projects      []domain.Project      `json:"projects"`
	Donations     []domain.Donation     `json:"donations"`
	Expenses      []domain.Expense      `json:"expenses"`
	LoadedAt      time.Time             `json:"loadedAt"`
}

// Reader exposes one query per record type. Failed queries are logged and
// answered with an empty result.
type Reader struct {
	viewer Viewer // Chain view client
}

// NewReader wraps a Viewer.
func NewReader(viewer Viewer) *Reader {
	return &Reader{viewer: viewer}
}

// AllOrganizations lists every registered organization.
func (r *Reader) AllOrganizations(ctx context.Context) []domain.Organization {
	return query[domain.Organization](ctx, r.viewer, "get_all_organizations")
}

// OrganizationByID returns nil when the organization is missing or the query fails.
func (r *Reader) OrganizationByID(ctx context.Context, orgID domain.U64) *domain.Organization {
	var org domain.Organization
	fn := r.viewer.Function("get_organization_by_id")
	if err := r.viewer.View(ctx, fn, []any{u64Arg(orgID)}, &org); err != nil {
		logQueryError(fn, orgID, err) // Includes the not-found abort
		return nil
	}
	return &org
}

// ProjectsByOrg lists an organization's projects.
func (r *Reader) ProjectsByOrg(ctx context.Context, orgID domain.U64) []domain.Project {
	return query[domain.Project](ctx, r.viewer, "get_projects_by_org", orgID)
}

// DonationsByOrg lists donations received by an organization.
func (r *Reader) DonationsByOrg(ctx context.Context, orgID domain.U64) []domain.Donation {
	return query[domain.Donation](ctx, r.viewer, "get_donations_by_org", orgID)
}

// ExpensesByOrg lists expenses recorded by an organization.
func (r *Reader) ExpensesByOrg(ctx context.Context, orgID domain.U64) []domain.Expense {
	return query[domain.Expense](ctx, r.viewer, "get_expenses_by_org", orgID)
}

// AllProjects merges ProjectsByOrg over orgs, in organization order.
func (r *Reader) AllProjects(ctx context.Context, orgs []domain.Organization) []domain.Project {
	return fanOut(ctx, orgs, r.ProjectsByOrg)
}

// AllDonations merges DonationsByOrg over orgs, in organization order.
func (r *Reader) AllDonations(ctx context.Context, orgs []domain.Organization) []domain.Donation {
	return fanOut(ctx, orgs, r.DonationsByOrg)
}

// AllExpenses merges ExpensesByOrg over orgs, in organization order.
func (r *Reader) AllExpenses(ctx context.Context, orgs []domain.Organization) []domain.Expense {
	return fanOut(ctx, orgs, r.ExpensesByOrg)
}

// LoadSnapshot reads organizations and then every per-organization collection.
func (r *Reader) LoadSnapshot(ctx context.Context) Snapshot {
	snap := Snapshot{Organizations: r.AllOrganizations(ctx)} // Everything else is keyed by organization

	// Each collection writes its own field, so the goroutines share nothing
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Projects = r.AllProjects(gctx, snap.Organizations)
		return nil
	})
	g.Go(func() error {
		snap.Donations = r.AllDonations(gctx, snap.Organizations)
		return nil
	})
	g.Go(func() error {
		snap.Expenses = r.AllExpenses(gctx, snap.Organizations)
		return nil
	})
	_ = g.Wait() // Queries never fail, they degrade to empty

	snap.LoadedAt = time.Now().UTC() // Snapshot age
	logrus.WithFields(logrus.Fields{
		"organizations": len(snap.Organizations), // Organizations read
		"projects":      len(snap.Projects),      // Projects read
		"donations":     len(snap.Donations),     // Donations read
		"expenses":      len(snap.Expenses),      // Expenses read
	}).Debug("Ledger snapshot loaded")
	return snap
}

func query[T any](ctx context.Context, v Viewer, name string, orgID ...domain.U64) []T {
	fn := v.Function(name)
	args := make([]any, 0, len(orgID))
	for _, id := range orgID {
		args = append(args, u64Arg(id)) // u64 travels as a decimal string
	}
	var out []T
	if err := v.View(ctx, fn, args, &out); err != nil {
		var id any
		if len(orgID) > 0 {
			id = orgID[0] // Only per-organization queries log an id
		}
		logQueryError(fn, id, err)
		return []T{} // Degrade to an empty result
	}
	if out == nil {
		out = []T{} // Never null in JSON
	}
	return out
}

func fanOut[T any](ctx context.Context, orgs []domain.Organization, fetch func(context.Context, domain.U64) []T) []T {
	parts := make([][]T, len(orgs))      // One slot per organization keeps the order
	g, gctx := errgroup.WithContext(ctx) // Bounded fan-out
	g.SetLimit(fanOutLimit)
	for i, org := range orgs {
		i, org := i, org
		g.Go(func() error {
			parts[i] = fetch(gctx, org.ID) // Each goroutine owns its slot
			return nil
		})
	}
	_ = g.Wait()

	out := make([]T, 0)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func u64Arg(v domain.U64) string {
	return strconv.FormatUint(uint64(v), 10)
}

func logQueryError(function string, orgID any, err error) {
	fields := logrus.Fields{"function": function, "error": err.Error()}
	if orgID != nil {
		fields["org_id"] = orgID // Per-organization query
	}
	logrus.WithFields(fields).Warn("Ledger query failed")
}
