package views

import (
	"dapptrack/internal/domain" // Importing domain models
	"dapptrack/internal/ledger" // Ledger snapshot
)

// Profile fallbacks for ledger organizations registered without a logo or founding year
const (
	defaultLogo    = "🏛️"
	unknownFounded = "N/A"
)

// OrganizationDetail is the page of one ledger organization
type OrganizationDetail struct {
	OrgCard
	Profile          domain.DirectoryOrganization `json:"profile"`          // Directory style profile with display fallbacks
	Projects         []ProjectRow                 `json:"projects"`         // The organization's projects
	Donations        []DonationRow                `json:"donations"`        // Newest first
	Expenses         []ExpenseRow                 `json:"expenses"`         // Newest first, with proof links
	DefaultProjectID *domain.U64                  `json:"defaultProjectId"` // First project, donation target of the page
}

// OrganizationDetail renders org with its records from snap. org is passed
// separately so callers can use a fresher read than the snapshot.
func (p *Pages) OrganizationDetail(snap ledger.Snapshot, org domain.Organization) OrganizationDetail {
	ix := newIndex(snap.Organizations, snap.Projects)
	ix.orgs[org.ID] = org // The fresh record wins over the snapshot copy

	out := OrganizationDetail{
		OrgCard:   orgCard(org),       // Decoded metadata and balances
		Profile:   detailProfile(org), // Profile card
		Projects:  []ProjectRow{},     // Never null in JSON
		Donations: []DonationRow{},    // Never null in JSON
		Expenses:  []ExpenseRow{},     // Never null in JSON
	}
	for _, pr := range snap.Projects {
		if pr.OrgID != org.ID {
			continue // Other organization
		}
		out.Projects = append(out.Projects, ix.projectRow(pr))
		if out.DefaultProjectID == nil {
			id := pr.ID
			out.DefaultProjectID = &id // Donations default to the first project
		}
	}
	for _, d := range newestDonations(snap.Donations) {
		if d.OrgID == org.ID {
			out.Donations = append(out.Donations, ix.donationRow(d))
		}
	}
	for _, e := range newestExpenses(snap.Expenses) {
		if e.OrgID == org.ID {
			out.Expenses = append(out.Expenses, p.expenseRow(ix, e))
		}
	}
	return out
}

// detailProfile is FromLedger with the detail page's display fallbacks
func detailProfile(o domain.Organization) domain.DirectoryOrganization {
	profile := FromLedger(o)
	if profile.Logo == "" {
		profile.Logo = defaultLogo
	}
	if profile.Mission == "" {
		profile.Mission = o.Description // Mission falls back to the description
	}
	if profile.Founded == "" {
		profile.Founded = unknownFounded
	}
	profile.Verified = true // Registered on the ledger
	return profile
}
