// Package views turns a ledger snapshot into the data each page renders:
// filtered, sorted and aggregated, with amounts and dates already formatted.
package views

import (
	"dapptrack/internal/domain"  // Importing domain models
	"dapptrack/internal/pinning" // IPFS pinning client
	"fmt"                        // Formatting error messages
	"strings"                    // String helpers
)

// Query holds the filters a page accepts. Nil ids and empty strings match everything.
type Query struct {
	OrgID     *domain.U64 // Organization filter
	ProjectID *domain.U64 // Project filter
	Search    string      // Case-insensitive substring
	Type      string      // Audit: donation/expense. Directory: organization type
	Locality  string      // Directory only
	Sort      string      // Verify: date/amount. Directory: trustScore/donations/popularity/name
}

func (q Query) matchesIDs(orgID, projectID domain.U64) bool {
	if q.OrgID != nil && *q.OrgID != orgID {
		return false // Filtered out
	}
	if q.ProjectID != nil && *q.ProjectID != projectID {
		return false // Filtered out
	}
	return true // No search text
}

// searchable reports whether any field contains the query's search text.
func (q Query) searchable(fields ...string) bool {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	if needle == "" {
		return true // No search text
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true // No search text
		}
	}
	return false // Filtered out
}

// Pages builds page data. gatewayURL renders proof links on the configured gateway.
type Pages struct {
	gatewayURL func(cid string) string // Proof link builder
}

// New returns Pages rendering proof links with gatewayURL.
func New(gatewayURL func(cid string) string) *Pages {
	return &Pages{gatewayURL: gatewayURL}
}

// index resolves ids to names for one snapshot.
type index struct {
	orgs     map[domain.U64]domain.Organization // Organizations by id
	projects map[domain.U64]domain.Project      // Projects by id
}

func newIndex(orgs []domain.Organization, projects []domain.Project) index {
	ix := index{
		orgs:     make(map[domain.U64]domain.Organization, len(orgs)),
		projects: make(map[domain.U64]domain.Project, len(projects)),
	}
	for _, o := range orgs {
		ix.orgs[o.ID] = o // Index organization
	}
	for _, p := range projects {
		ix.projects[p.ID] = p // Index project
	}
	return ix
}

// OrgName falls back to "Organization #<id>" for unknown ids.
func (ix index) OrgName(id domain.U64) string {
	if o, ok := ix.orgs[id]; ok {
		return o.Name
	}
	return fmt.Sprintf("Organization #%d", id) // Unknown organization
}

// ProjectName falls back to "Project #<id>" for unknown ids.
func (ix index) ProjectName(id domain.U64) string {
	if p, ok := ix.projects[id]; ok {
		return p.Name
	}
	return fmt.Sprintf("Project #%d", id) // Unknown project
}

// DonationRow is a donation ready for display.
type DonationRow struct {
	domain.Donation
	OrgName     string `json:"orgName"`     // Resolved organization name
	ProjectName string `json:"projectName"` // Resolved project name
	AmountAPT   string `json:"amountApt"`   // Amount in APT, 4 decimals
	Date        string `json:"date"`        // Formatted date
}

func (ix index) donationRow(d domain.Donation) DonationRow {
	return DonationRow{
		Donation:    d,                                   // Raw donation
		OrgName:     ix.OrgName(d.OrgID),                 // Organization name
		ProjectName: ix.ProjectName(d.ProjectID),         // Project name
		AmountAPT:   domain.FormatAPT(d.Amount),          // Formatted amount
		Date:        domain.FormatTimestamp(d.DonatedAt), // Formatted date
	}
}

// ExpenseRow is an expense with links to its proof document.
type ExpenseRow struct {
	domain.Expense
	OrgName        string `json:"orgName"`                  // Resolved organization name
	ProjectName    string `json:"projectName"`              // Resolved project name
	AmountAPT      string `json:"amountApt"`                // Amount in APT, 4 decimals
	Date           string `json:"date"`                     // Formatted date
	ProofURL       string `json:"proofUrl,omitempty"`       // Configured gateway link
	PublicProofURL string `json:"publicProofUrl,omitempty"` // Public gateway link
}

func (p *Pages) expenseRow(ix index, e domain.Expense) ExpenseRow {
	row := ExpenseRow{
		Expense:     e,                                 // Raw expense
		OrgName:     ix.OrgName(e.OrgID),               // Organization name
		ProjectName: ix.ProjectName(e.ProjectID),       // Project name
		AmountAPT:   domain.FormatAPT(e.Amount),        // Formatted amount
		Date:        domain.FormatTimestamp(e.SpentAt), // Formatted date
	}
	if e.IPFSProof != "" {
		row.ProofURL = p.gatewayURL(e.IPFSProof)                   // Configured gateway
		row.PublicProofURL = pinning.PublicGatewayURL(e.IPFSProof) // Public fallback gateway
	}
	return row
}

// ProjectRow is a project with its funding progress.
type ProjectRow struct {
	domain.Project
	OrgName     string  `json:"orgName"`     // Resolved organization name
	StatusLabel string  `json:"statusLabel"` // Active, Completed or Cancelled
	TargetAPT   string  `json:"targetApt"`   // Target in APT
	RaisedAPT   string  `json:"raisedApt"`   // Raised in APT
	SpentAPT    string  `json:"spentApt"`    // Spent in APT
	Progress    string  `json:"progress"`    // Raised over target, one decimal
	BarWidth    float64 `json:"barWidth"`    // Progress bar width, capped at 100
	Overspent   bool    `json:"overspent"`   // Spent exceeds raised. Reported, not enforced.
	Date        string  `json:"date"`        // Formatted creation date
}

func (ix index) projectRow(p domain.Project) ProjectRow {
	return ProjectRow{
		Project:     p,
		OrgName:     ix.OrgName(p.OrgID),
		StatusLabel: p.Status.String(),
		TargetAPT:   domain.FormatAPT(p.TargetAmount),
		RaisedAPT:   domain.FormatAPT(p.RaisedAmount),
		SpentAPT:    domain.FormatAPT(p.SpentAmount),
		Progress:    domain.FormatProgress(p.RaisedAmount, p.TargetAmount),
		BarWidth:    domain.BarWidth(p.RaisedAmount, p.TargetAmount),
		Overspent:   p.SpentAmount > p.RaisedAmount,
		Date:        domain.FormatTimestamp(p.CreatedAt),
	}
}

// OrgCard is an organization with its decoded metadata and formatted balances.
type OrgCard struct {
	domain.Organization
	Metadata         domain.OrganizationMetadata `json:"metadata"`         // Decoded IPFS metadata
	WalletBalanceAPT string                      `json:"walletBalanceApt"` // Balance in APT
	TotalReceivedAPT string                      `json:"totalReceivedApt"` // Received in APT
	TotalSpentAPT    string                      `json:"totalSpentApt"`    // Spent in APT
	Date             string                      `json:"date"`             // Formatted registration date
}

func orgCard(o domain.Organization) OrgCard {
	return OrgCard{
		Organization:     o,
		Metadata:         o.Metadata(),
		WalletBalanceAPT: domain.FormatAPT(o.WalletBalance),
		TotalReceivedAPT: domain.FormatAPT(o.TotalReceived),
		TotalSpentAPT:    domain.FormatAPT(o.TotalSpent),
		Date:             domain.FormatTimestamp(o.CreatedAt),
	}
}

// OrgOption is an entry of a page's organization picker.
type OrgOption struct {
	ID   domain.U64 `json:"id"`   // Organization id
	Name string     `json:"name"` // Organization name
}

func orgOptions(orgs []domain.Organization) []OrgOption {
	out := make([]OrgOption, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, OrgOption{ID: o.ID, Name: o.Name}) // Picker entry
	}
	return out
}
