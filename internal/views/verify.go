package views

import (
	"cmp"                       // Sort comparisons
	"dapptrack/internal/domain" // Importing domain models
	"dapptrack/internal/ledger" // Ledger client and snapshot
	"slices"                    // Sorting
)

// Verify lists expenses with their proofs for auditing.
type Verify struct {
	Organizations  []OrgOption  `json:"organizations"`  // Organization picker
	Expenses       []ExpenseRow `json:"expenses"`       // Matching expenses
	Count          int          `json:"count"`          // Listed expenses
	Total          domain.Octas `json:"total"`          // Sum of listed expenses
	TotalAPT       string       `json:"totalApt"`       // Same, in APT
	UniqueOrgs     int          `json:"uniqueOrgs"`     // Distinct organizations listed
	UniqueProjects int          `json:"uniqueProjects"` // Distinct projects listed
}

// Verify filters expenses by organization, project and search text over the
// description, organization name, project name and proof CID. Sort "amount"
// orders by amount, anything else by date, both descending.
func (p *Pages) Verify(snap ledger.Snapshot, q Query) Verify {
	ix := newIndex(snap.Organizations, snap.Projects)
	out := Verify{Organizations: orgOptions(snap.Organizations), Expenses: []ExpenseRow{}}

	orgs := map[domain.U64]struct{}{}
	projects := map[domain.U64]struct{}{}
	for _, e := range snap.Expenses {
		if !q.matchesIDs(e.OrgID, e.ProjectID) {
			continue // Filtered out
		}
		if !q.searchable(e.Description, ix.OrgName(e.OrgID), ix.ProjectName(e.ProjectID), e.IPFSProof) {
			continue // Filtered out
		}
		out.Expenses = append(out.Expenses, p.expenseRow(ix, e))
		out.Total += e.Amount              // Running total
		orgs[e.OrgID] = struct{}{}         // Distinct organizations
		projects[e.ProjectID] = struct{}{} // Distinct projects
	}

	if q.Sort == "amount" {
		slices.SortStableFunc(out.Expenses, func(a, b ExpenseRow) int { return cmp.Compare(b.Amount, a.Amount) })
	} else {
		slices.SortStableFunc(out.Expenses, func(a, b ExpenseRow) int { return cmp.Compare(b.SpentAt, a.SpentAt) })
	}

	out.Count = len(out.Expenses)              // Listed expenses
	out.TotalAPT = domain.FormatAPT(out.Total) // Display total
	out.UniqueOrgs = len(orgs)
	out.UniqueProjects = len(projects)
	return out
}
