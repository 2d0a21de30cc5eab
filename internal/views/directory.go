package views

import (
	"cmp"                       // Sort comparisons
	"dapptrack/internal/domain" // Importing domain models
	"slices"                    // Sorting
	"strconv"                   // Number parsing
	"strings"                   // String helpers
	"time"                      // Timestamps and timeouts
)

// Directory entry sources.
const (
	SourceLedger    = "ledger"    // Registered on chain
	SourceDirectory = "directory" // Registered through the directory API
)

// DirectoryEntry is an organization card on the directory page.
type DirectoryEntry struct {
	domain.DirectoryOrganization
	Source        string  `json:"source"`        // SourceLedger or SourceDirectory
	AverageRating float64 `json:"averageRating"` // Mean review rating, 0 without reviews
	ReviewCount   int     `json:"reviewCount"`   // Reviews received
}

// Directory is the searchable organization listing.
type Directory struct {
	Organizations []DirectoryEntry `json:"organizations"` // Filtered and sorted entries
	Count         int              `json:"count"`         // Listed entries
	Localities    []string         `json:"localities"`    // Locality filter options
	Types         []string         `json:"types"`         // Type filter options
}

// FromLedger presents an on-chain organization as a directory entry.
func FromLedger(o domain.Organization) domain.DirectoryOrganization {
	meta := o.Metadata() // Zero value when the metadata is not JSON
	return domain.DirectoryOrganization{
		ID:             strconv.FormatUint(uint64(o.ID), 10),   // Ledger ids as strings
		Name:           o.Name,                                 // On-chain name
		Type:           meta.Type,                              // From metadata
		Locality:       meta.Locality,                          // From metadata
		Description:    o.Description,                          // On-chain description
		Mission:        meta.Mission,                           // From metadata
		ContactEmail:   meta.ContactEmail,                      // From metadata
		Website:        meta.Website,                           // From metadata
		Founded:        meta.Founded,                           // From metadata
		Logo:           meta.Logo,                              // From metadata
		RegisteredBy:   o.Admin,                                // Admin wallet
		RegisteredAt:   time.Unix(int64(o.CreatedAt), 0).UTC(), // Chain timestamp
		TrustScore:     domain.LedgerTrustScore,                // Fixed score for ledger organizations
		TotalDonations: o.TotalReceived.APT().InexactFloat64(), // Octas to APT
		Reviews:        []domain.Review{},                      // Ledger organizations carry no reviews
	}
}

// Directory lists ledger organizations followed by directory registrations,
// filtered by search text (name, description), type and locality, then sorted.
// Localities and types are collected before filtering.
func (p *Pages) Directory(ledgerOrgs []domain.Organization, registered []domain.DirectoryOrganization, q Query) Directory {
	all := make([]DirectoryEntry, 0, len(ledgerOrgs)+len(registered))
	for _, o := range ledgerOrgs {
		all = append(all, directoryEntry(FromLedger(o), SourceLedger))
	}
	for _, o := range registered {
		all = append(all, directoryEntry(o, SourceDirectory))
	}

	out := Directory{
		Organizations: []DirectoryEntry{}, // Never null in JSON
		Localities:    distinct(all, func(e DirectoryEntry) string { return e.Locality }),
		Types:         distinct(all, func(e DirectoryEntry) string { return e.Type }),
	}
	for _, e := range all {
		if !q.searchable(e.Name, e.Description) {
			continue // Filtered out
		}
		if !matchesOption(q.Type, e.Type) || !matchesOption(q.Locality, e.Locality) {
			continue // Filtered out
		}
		out.Organizations = append(out.Organizations, e)
	}
	sortDirectory(out.Organizations, q.Sort)
	out.Count = len(out.Organizations)
	return out
}

func directoryEntry(o domain.DirectoryOrganization, source string) DirectoryEntry {
	if o.Reviews == nil {
		o.Reviews = []domain.Review{} // Never null in JSON
	}
	return DirectoryEntry{
		DirectoryOrganization: o,                 // Stored record
		Source:                source,            // Where it came from
		AverageRating:         o.AverageRating(), // Derived rating
		ReviewCount:           len(o.Reviews),    // Derived count
	}
}

func matchesOption(want, got string) bool {
	return want == "" || strings.EqualFold(want, "all") || want == got
}

func sortDirectory(entries []DirectoryEntry, by string) {
	switch by {
	case "", "trustScore":
		slices.SortStableFunc(entries, func(a, b DirectoryEntry) int { return cmp.Compare(b.TrustScore, a.TrustScore) })
	case "donations":
		slices.SortStableFunc(entries, func(a, b DirectoryEntry) int { return cmp.Compare(b.TotalDonations, a.TotalDonations) })
	case "popularity":
		slices.SortStableFunc(entries, func(a, b DirectoryEntry) int { return cmp.Compare(b.ReviewCount, a.ReviewCount) })
	case "name":
		slices.SortStableFunc(entries, func(a, b DirectoryEntry) int {
			if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
				return c
			}
			return cmp.Compare(a.Name, b.Name)
		})
	}
}

func distinct(entries []DirectoryEntry, key func(DirectoryEntry) string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, e := range entries {
		k := key(e)
		if k == "" {
			continue // Empty values are not options
		}
		if _, ok := seen[k]; ok {
			continue // Already collected
		}
		seen[k] = struct{}{} // Mark seen
		out = append(out, k)
	}
	slices.Sort(out) // Stable option order
	return out
}
