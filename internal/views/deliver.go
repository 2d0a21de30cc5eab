package views

import (
	"dapptrack/internal/domain" // Importing domain models
	"dapptrack/internal/ledger" // Ledger client and snapshot
)

// Deliver groups projects by lifecycle status.
type Deliver struct {
	Organizations  []OrgOption  `json:"organizations"`  // Organization picker
	Active         []ProjectRow `json:"active"`         // Status 0
	Completed      []ProjectRow `json:"completed"`      // Status 1
	Cancelled      []ProjectRow `json:"cancelled"`      // Status 2
	Count          int          `json:"count"`          // Listed projects
	TotalRaised    domain.Octas `json:"totalRaised"`    // Raised across listed projects
	TotalRaisedAPT string       `json:"totalRaisedApt"` // Same, in APT
	TotalSpent     domain.Octas `json:"totalSpent"`     // Spent across listed projects
	TotalSpentAPT  string       `json:"totalSpentApt"`  // Same, in APT
	Overspent      int          `json:"overspent"`      // Projects that spent more than raised
}

// Deliver filters projects by organization and search text over the project
// name, description and organization name.
func (p *Pages) Deliver(snap ledger.Snapshot, q Query) Deliver {
	ix := newIndex(snap.Organizations, snap.Projects)
	out := Deliver{
		Organizations: orgOptions(snap.Organizations), // Picker lists every organization
		Active:        []ProjectRow{},                 // Never null in JSON
		Completed:     []ProjectRow{},                 // Never null in JSON
		Cancelled:     []ProjectRow{},                 // Never null in JSON
	}

	for _, pr := range snap.Projects {
		if !q.matchesIDs(pr.OrgID, pr.ID) {
			continue // Filtered out
		}
		if !q.searchable(pr.Name, pr.Description, ix.OrgName(pr.OrgID)) {
			continue // Filtered out
		}
		row := ix.projectRow(pr)
		switch pr.Status {
		case domain.ProjectActive:
			out.Active = append(out.Active, row)
		case domain.ProjectCompleted:
			out.Completed = append(out.Completed, row)
		case domain.ProjectCancelled:
			out.Cancelled = append(out.Cancelled, row)
		}
		out.Count++                        // Counted whatever the status
		out.TotalRaised += pr.RaisedAmount // Raised total
		out.TotalSpent += pr.SpentAmount   // Spent total
		if row.Overspent {
			out.Overspent++ // Reported, not enforced
		}
	}

	out.TotalRaisedAPT = domain.FormatAPT(out.TotalRaised)
	out.TotalSpentAPT = domain.FormatAPT(out.TotalSpent)
	return out
}
