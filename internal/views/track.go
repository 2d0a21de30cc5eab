package views

import (
	"cmp"                       // Sort comparisons
	"dapptrack/internal/domain" // Importing domain models
	"dapptrack/internal/ledger" // Ledger client and snapshot
	"slices"                    // Sorting
)

// Track is the public ledger explorer.
type Track struct {
	Organizations   []OrgOption   `json:"organizations"`   // Organization picker
	Donations       []DonationRow `json:"donations"`       // Matching donations, newest first
	Expenses        []ExpenseRow  `json:"expenses"`        // Matching expenses, newest first
	Projects        []ProjectRow  `json:"projects"`        // Matching projects
	TotalDonated    domain.Octas  `json:"totalDonated"`    // Sum of listed donations
	TotalDonatedAPT string        `json:"totalDonatedApt"` // Same, in APT
	TotalSpent      domain.Octas  `json:"totalSpent"`      // Sum of listed expenses
	TotalSpentAPT   string        `json:"totalSpentApt"`   // Same, in APT
	ActiveProjects  int           `json:"activeProjects"`  // Listed projects still active
	ProjectCount    int           `json:"projectCount"`    // Listed projects
}

// Track filters donations, expenses and projects by organization, project and
// search text. Donations and expenses are listed newest first.
func (p *Pages) Track(snap ledger.Snapshot, q Query) Track {
	ix := newIndex(snap.Organizations, snap.Projects)
	out := Track{
		Organizations: orgOptions(snap.Organizations), // Picker lists every organization
		Donations:     []DonationRow{},                // Never null in JSON
		Expenses:      []ExpenseRow{},                 // Never null in JSON
		Projects:      []ProjectRow{},                 // Never null in JSON
	}

	for _, d := range newestDonations(snap.Donations) {
		if !q.matchesIDs(d.OrgID, d.ProjectID) {
			continue // Filtered out
		}
		if !q.searchable(ix.OrgName(d.OrgID), ix.ProjectName(d.ProjectID), d.Message, d.Donor) {
			continue // Filtered out
		}
		out.Donations = append(out.Donations, ix.donationRow(d))
		out.TotalDonated += d.Amount // Totals follow the filters
	}

	for _, e := range newestExpenses(snap.Expenses) {
		if !q.matchesIDs(e.OrgID, e.ProjectID) {
			continue // Filtered out
		}
		if !q.searchable(ix.OrgName(e.OrgID), ix.ProjectName(e.ProjectID), e.Description) {
			continue // Filtered out
		}
		out.Expenses = append(out.Expenses, p.expenseRow(ix, e))
		out.TotalSpent += e.Amount // Totals follow the filters
	}

	for _, pr := range snap.Projects {
		if !q.matchesIDs(pr.OrgID, pr.ID) {
			continue // Filtered out
		}
		if !q.searchable(pr.Name, pr.Description, ix.OrgName(pr.OrgID)) {
			continue // Filtered out
		}
		out.Projects = append(out.Projects, ix.projectRow(pr))
		if pr.Status == domain.ProjectActive {
			out.ActiveProjects++ // Count active
		}
	}

	out.ProjectCount = len(out.Projects)                     // Listed projects
	out.TotalDonatedAPT = domain.FormatAPT(out.TotalDonated) // Display total
	out.TotalSpentAPT = domain.FormatAPT(out.TotalSpent)     // Display total
	return out
}

func newestDonations(in []domain.Donation) []domain.Donation {
	out := slices.Clone(in) // Leave the snapshot untouched
	slices.SortStableFunc(out, func(a, b domain.Donation) int { return cmp.Compare(b.DonatedAt, a.DonatedAt) })
	return out
}

func newestExpenses(in []domain.Expense) []domain.Expense {
	out := slices.Clone(in) // Leave the snapshot untouched
	slices.SortStableFunc(out, func(a, b domain.Expense) int { return cmp.Compare(b.SpentAt, a.SpentAt) })
	return out
}
