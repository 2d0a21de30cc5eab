package ledgertest

import (
	"dapptrack/internal/domain" // Importing domain models
	"dapptrack/internal/ledger" // Ledger client and snapshot
	"time"                      // Timestamps and timeouts
)

// Fixture is a small ledger with two organizations used across tests.
//
//	org 1 "Clean Water Kenya"  projects 1 (active) and 2 (completed, overspent)
//	org 2 "Books for All"      project 3 (cancelled)
func Fixture() ledger.Snapshot {
	return ledger.Snapshot{
		Organizations: []domain.Organization{
			{ID: 1, Name: "Clean Water Kenya", Description: "Wells and filters", Admin: "0xAAA1", WalletBalance: 1050000000, TotalReceived: 1650000000, TotalSpent: 1000000000, CreatedAt: 1700000000, IPFSMetadata: `{"type":"NGO","locality":"Nairobi","mission":"Water for every village"}`},
			{ID: 2, Name: "Books for All", Description: "Community libraries", Admin: "0xbbb2", WalletBalance: 200000000, TotalReceived: 200000000, TotalSpent: 0, CreatedAt: 1700000050, IPFSMetadata: `{"type":"Community","locality":"Accra"}`},
		},
		Projects: []domain.Project{
			{ID: 1, OrgID: 1, Name: "Village Wells", Description: "Drill five wells", TargetAmount: 2000000000, RaisedAmount: 1000000000, SpentAmount: 400000000, Status: domain.ProjectActive, CreatedAt: 1700000010},
			{ID: 2, OrgID: 1, Name: "Water Filters", Description: "Household filters", TargetAmount: 500000000, RaisedAmount: 500000000, SpentAmount: 600000000, Status: domain.ProjectCompleted, CreatedAt: 1700000020},
			{ID: 3, OrgID: 2, Name: "Mobile Library", Description: "A library van", TargetAmount: 1000000000, RaisedAmount: 200000000, SpentAmount: 0, Status: domain.ProjectCancelled, CreatedAt: 1700000060},
		},
		Donations: []domain.Donation{
			{ID: 1, OrgID: 1, ProjectID: 1, Donor: "0xD0N0R1", Amount: 150000000, Message: "for the wells", DonatedAt: 1700000100},
			{ID: 2, OrgID: 1, ProjectID: 2, Donor: "0xd0n0r2", Amount: 500000000, Message: "", DonatedAt: 1700000300},
			{ID: 3, OrgID: 2, ProjectID: 3, Donor: "0xD0N0R1", Amount: 200000000, Message: "read more", DonatedAt: 1700000200},
		},
		Expenses: []domain.Expense{
			{ID: 1, OrgID: 1, ProjectID: 1, Description: "Drilling rig rental", Amount: 400000000, IPFSProof: "bafyrig", SpentBy: "0xAAA1", SpentAt: 1700000400},
			{ID: 2, OrgID: 1, ProjectID: 2, Description: "Filter cartridges", Amount: 600000000, IPFSProof: "bafyfilters", SpentBy: "0xAAA1", SpentAt: 1700000250},
		},
		LoadedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// SeedFixture loads Fixture into the node.
func (n *Node) SeedFixture() ledger.Snapshot {
	snap := Fixture()
	n.Seed(snap.Organizations, snap.Projects, snap.Donations, snap.Expenses)
	return snap
}
