package views

import (
	"cmp"                       // Sort comparisons
	"dapptrack/internal/domain" // Importing domain models
	"dapptrack/internal/ledger" // Ledger client and snapshot
	"slices"                    // Sorting
)

// Audit entry types.
const (
	EntryDonation = "donation" // Money in
	EntryExpense  = "expense"  // Money out
)

// AuditEntry is one line of the merged donation and expense trail.
type AuditEntry struct {
	ID          domain.U64   `json:"id"`          // Donation or expense id
	Type        string       `json:"type"`        // EntryDonation or EntryExpense
	Timestamp   domain.U64   `json:"timestamp"`   // Unix seconds
	Date        string       `json:"date"`        // Formatted timestamp
	OrgID       domain.U64   `json:"orgId"`       // Organization id
	OrgName     string       `json:"orgName"`     // Resolved organization name
	ProjectID   domain.U64   `json:"projectId"`   // Project id
	ProjectName string       `json:"projectName"` // Resolved project name
	Amount      domain.Octas `json:"amount"`      // Amount in Octas
	AmountAPT   string       `json:"amountApt"`   // Amount in APT
	Address     string       `json:"address"`     // Donor or spender
	Details     string       `json:"details"`     // Message or expense description
}

// OrgBreakdown is one organization's lifetime inflow and outflow.
type OrgBreakdown struct {
	ID           domain.U64   `json:"id"`            // Organization id
	Name         string       `json:"name"`          // Organization name
	Donations    domain.Octas `json:"donations"`     // Lifetime donations
	DonationsAPT string       `json:"donationsApt"`  // Same, in APT
	Expenses     domain.Octas `json:"expenses"`      // Lifetime expenses
	ExpensesAPT  string       `json:"expensesApt"`   // Same, in APT
	BalanceAPT   string       `json:"balanceApt"`    // Donations minus expenses, may be negative
	DonationRows int          `json:"donationCount"` // Donations received
	ExpenseRows  int          `json:"expenseCount"`  // Expenses recorded
}

// Audit is the merged trail with totals.
type Audit struct {
	Organizations  []OrgOption    `json:"organizations"`     // Organization picker
	Entries        []AuditEntry   `json:"entries"`           // Filtered trail, newest first
	TotalDonations domain.Octas   `json:"totalDonations"`    // Listed donations
	TotalExpenses  domain.Octas   `json:"totalExpenses"`     // Listed expenses
	DonationsAPT   string         `json:"totalDonationsApt"` // Listed donations in APT
	ExpensesAPT    string         `json:"totalExpensesApt"`  // Listed expenses in APT
	NetBalanceAPT  string         `json:"netBalanceApt"`     // Donations minus expenses
	DonationCount  int            `json:"donationCount"`     // Listed donations
	ExpenseCount   int            `json:"expenseCount"`      // Listed expenses
	Breakdown      []OrgBreakdown `json:"breakdown"`         // Unfiltered per-organization totals
}

// Audit merges donations and expenses newest first and filters them by type,
// organization and search text. The per-organization breakdown ignores the filters.
func (p *Pages) Audit(snap ledger.Snapshot, q Query) Audit {
	ix := newIndex(snap.Organizations, snap.Projects)
	out := Audit{Organizations: orgOptions(snap.Organizations), Entries: []AuditEntry{}}

	for _, e := range trail(ix, snap.Donations, snap.Expenses) {
		if q.OrgID != nil && *q.OrgID != e.OrgID {
			continue // Filtered out
		}
		if q.Type != "" && q.Type != "all" && q.Type != e.Type {
			continue // Filtered out
		}
		if !q.searchable(e.OrgName, e.ProjectName, e.Address, e.Details) {
			continue // Filtered out
		}
		out.Entries = append(out.Entries, e)
		if e.Type == EntryDonation {
			out.TotalDonations += e.Amount // Money in
			out.DonationCount++
		} else {
			out.TotalExpenses += e.Amount // Money out
			out.ExpenseCount++
		}
	}

	out.DonationsAPT = domain.FormatAPT(out.TotalDonations)
	out.ExpensesAPT = domain.FormatAPT(out.TotalExpenses)
	out.NetBalanceAPT = netAPT(out.TotalDonations, out.TotalExpenses)
	out.Breakdown = breakdown(snap) // Ignores the filters
	return out
}

// trail merges donations and expenses newest first.
func trail(ix index, donations []domain.Donation, expenses []domain.Expense) []AuditEntry {
	entries := make([]AuditEntry, 0, len(donations)+len(expenses))
	for _, d := range donations {
		details := d.Message
		if details == "" {
			details = "No message" // Donations without a message
		}
		entries = append(entries, AuditEntry{
			ID: d.ID, Type: EntryDonation, Timestamp: d.DonatedAt,
			OrgID: d.OrgID, ProjectID: d.ProjectID, Amount: d.Amount,
			Address: d.Donor, Details: details,
		})
	}
	for _, e := range expenses {
		entries = append(entries, AuditEntry{
			ID: e.ID, Type: EntryExpense, Timestamp: e.SpentAt,
			OrgID: e.OrgID, ProjectID: e.ProjectID, Amount: e.Amount,
			Address: e.SpentBy, Details: e.Description,
		})
	}
	for i := range entries {
		entries[i].Date = domain.FormatTimestamp(entries[i].Timestamp)
		entries[i].OrgName = ix.OrgName(entries[i].OrgID)
		entries[i].ProjectName = ix.ProjectName(entries[i].ProjectID)
		entries[i].AmountAPT = domain.FormatAPT(entries[i].Amount)
	}
	slices.SortStableFunc(entries, func(a, b AuditEntry) int { return cmp.Compare(b.Timestamp, a.Timestamp) })
	return entries
}

func breakdown(snap ledger.Snapshot) []OrgBreakdown {
	out := make([]OrgBreakdown, 0, len(snap.Organizations))
	for _, o := range snap.Organizations {
		b := OrgBreakdown{ID: o.ID, Name: o.Name}
		for _, d := range snap.Donations {
			if d.OrgID == o.ID {
				b.Donations += d.Amount
				b.DonationRows++ // Count donation
			}
		}
		for _, e := range snap.Expenses {
			if e.OrgID == o.ID {
				b.Expenses += e.Amount
				b.ExpenseRows++ // Count expense
			}
		}
		b.DonationsAPT = domain.FormatAPT(b.Donations)
		b.ExpensesAPT = domain.FormatAPT(b.Expenses)
		b.BalanceAPT = netAPT(b.Donations, b.Expenses) // May be negative
		out = append(out, b)
	}
	return out
}

// netAPT is in minus out in APT; it may be negative.
func netAPT(in, out domain.Octas) string {
	return in.APT().Sub(out.APT()).StringFixed(4)
}
