package views

import (
	"dapptrack/internal/domain" // Importing domain models
	"dapptrack/internal/ledger" // Ledger client and snapshot
)

// Donate lists organizations to give to and, once one is chosen, its active projects.
type Donate struct {
	Organizations []OrgCard    `json:"organizations"`      // Organizations matching the search
	Selected      *OrgCard     `json:"selected,omitempty"` // Chosen organization
	Projects      []ProjectRow `json:"projects"`           // Active projects of the chosen organization
}

// Donate searches organizations by name and description. Only active projects
// of the selected organization are offered.
func (p *Pages) Donate(snap ledger.Snapshot, q Query) Donate {
	ix := newIndex(snap.Organizations, snap.Projects)
	out := Donate{Organizations: []OrgCard{}, Projects: []ProjectRow{}}

	for _, o := range snap.Organizations {
		if q.searchable(o.Name, o.Description) {
			out.Organizations = append(out.Organizations, orgCard(o)) // Matches name or description
		}
	}
	if q.OrgID == nil {
		return out // Nothing selected
	}
	if o, ok := ix.orgs[*q.OrgID]; ok {
		card := orgCard(o)
		out.Selected = &card // Unknown ids leave Selected nil
	}
	for _, pr := range snap.Projects {
		if pr.OrgID == *q.OrgID && pr.Status == domain.ProjectActive {
			out.Projects = append(out.Projects, ix.projectRow(pr)) // Only active projects take donations
		}
	}
	return out
}
