package views

import (
	"dapptrack/internal/domain" // Importing domain models
	"dapptrack/internal/ledger" // Ledger client and snapshot
	"strings"                   // String helpers
)

// recentActivity bounds the admin overview feed.
const recentActivity = 5

// AdminOrg is one organization the connected wallet administers.
type AdminOrg struct {
	OrgCard
	Projects     []ProjectRow  `json:"projects"`     // Every project of the organization
	Donations    []DonationRow `json:"donations"`    // Newest first
	Expenses     []ExpenseRow  `json:"expenses"`     // Newest first
	UniqueDonors int           `json:"uniqueDonors"` // Distinct donor addresses, ignoring case
	Recent       []AuditEntry  `json:"recent"`       // Latest activity feed
}

// Admin is the dashboard of a wallet address.
type Admin struct {
	Address       string     `json:"address"`       // Connected wallet
	Organizations []AdminOrg `json:"organizations"` // Organizations it administers
}

// Admin selects the organizations whose admin equals address, ignoring case.
func (p *Pages) Admin(snap ledger.Snapshot, address string) Admin {
	ix := newIndex(snap.Organizations, snap.Projects)
	out := Admin{Address: address, Organizations: []AdminOrg{}}
	if strings.TrimSpace(address) == "" {
		return out // No wallet connected
	}

	for _, o := range snap.Organizations {
		if !strings.EqualFold(o.Admin, address) {
			continue // Administered by someone else
		}
		org := AdminOrg{
			OrgCard:   orgCard(o),      // Organization card
			Projects:  []ProjectRow{},  // Never null in JSON
			Donations: []DonationRow{}, // Never null in JSON
			Expenses:  []ExpenseRow{},  // Never null in JSON
		}
		for _, pr := range snap.Projects {
			if pr.OrgID == o.ID {
				org.Projects = append(org.Projects, ix.projectRow(pr))
			}
		}
		donors := map[string]struct{}{}
		for _, d := range newestDonations(snap.Donations) {
			if d.OrgID == o.ID {
				org.Donations = append(org.Donations, ix.donationRow(d))
				donors[strings.ToLower(d.Donor)] = struct{}{} // Addresses compare case-insensitively
			}
		}
		for _, e := range newestExpenses(snap.Expenses) {
			if e.OrgID == o.ID {
				org.Expenses = append(org.Expenses, p.expenseRow(ix, e))
			}
		}
		org.UniqueDonors = len(donors)

		donations := make([]domain.Donation, 0, len(org.Donations))
		for _, d := range org.Donations {
			donations = append(donations, d.Donation)
		}
		expenses := make([]domain.Expense, 0, len(org.Expenses))
		for _, e := range org.Expenses {
			expenses = append(expenses, e.Expense)
		}
		recent := trail(ix, donations, expenses)
		if len(recent) > recentActivity {
			recent = recent[:recentActivity] // Keep the newest few
		}
		org.Recent = recent

		out.Organizations = append(out.Organizations, org)
	}
	return out
}
