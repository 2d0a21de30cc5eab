package views_test

import (
	"dapptrack/internal/domain"            // Importing domain models
	"dapptrack/internal/ledger/ledgertest" // Fake ledger node
	"dapptrack/internal/views"             // Page view models
	"reflect"                              // Deep equality
	"testing"                              // Testing framework
)

func pages() *views.Pages {
	return views.New(func(cid string) string { return "https://gw.example/ipfs/" + cid })
}

func id(v domain.U64) *domain.U64 { return &v }

func donationIDs(rows []views.DonationRow) []domain.U64 {
	out := []domain.U64{}
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func expenseIDs(rows []views.ExpenseRow) []domain.U64 {
	out := []domain.U64{}
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestTrackUnfiltered(t *testing.T) {
	got := pages().Track(ledgertest.Fixture(), views.Query{})

	if want := []domain.U64{2, 3, 1}; !reflect.DeepEqual(donationIDs(got.Donations), want) {
		t.Fatalf("donations = %v, want newest first %v", donationIDs(got.Donations), want)
	}
	if want := []domain.U64{1, 2}; !reflect.DeepEqual(expenseIDs(got.Expenses), want) {
		t.Fatalf("expenses = %v, want %v", expenseIDs(got.Expenses), want)
	}
	if got.TotalDonated != 850000000 || got.TotalDonatedAPT != "8.5000" {
		t.Fatalf("total donated = %d (%s)", got.TotalDonated, got.TotalDonatedAPT)
	}
	if got.TotalSpentAPT != "10.0000" || got.ActiveProjects != 1 || got.ProjectCount != 3 {
		t.Fatalf("track totals = %+v", got)
	}
	if got.Donations[1].OrgName != "Books for All" || got.Donations[1].ProjectName != "Mobile Library" {
		t.Fatalf("names = %q / %q", got.Donations[1].OrgName, got.Donations[1].ProjectName)
	}
}

func TestTrackOrgThenProjectEqualsProject(t *testing.T) {
	snap := ledgertest.Fixture()
	p := pages()
	for _, pid := range []domain.U64{1, 2, 3} {
		var orgID domain.U64
		for _, pr := range snap.Projects {
			if pr.ID == pid {
				orgID = pr.OrgID
			}
		}
		byProject := p.Track(snap, views.Query{ProjectID: id(pid)})
		byBoth := p.Track(snap, views.Query{OrgID: id(orgID), ProjectID: id(pid)})
		if !reflect.DeepEqual(byProject, byBoth) {
			t.Fatalf("project %d: filtering by project alone differs from org then project", pid)
		}
		for _, d := range byProject.Donations {
			if d.ProjectID != pid {
				t.Fatalf("project %d filter returned donation for project %d", pid, d.ProjectID)
			}
		}
	}
}

func TestTrackSearch(t *testing.T) {
	got := pages().Track(ledgertest.Fixture(), views.Query{Search: "WELLS"})
	if !reflect.DeepEqual(donationIDs(got.Donations), []domain.U64{1}) || !reflect.DeepEqual(expenseIDs(got.Expenses), []domain.U64{1}) {
		t.Fatalf("search wells = %v / %v", donationIDs(got.Donations), expenseIDs(got.Expenses))
	}
	if len(got.Projects) != 1 || got.Projects[0].Progress != "50.0%" {
		t.Fatalf("projects = %+v", got.Projects)
	}

	donor := pages().Track(ledgertest.Fixture(), views.Query{Search: "0xd0n0r1"})
	if !reflect.DeepEqual(donationIDs(donor.Donations), []domain.U64{3, 1}) {
		t.Fatalf("donor search = %v", donationIDs(donor.Donations))
	}
}

func TestDonate(t *testing.T) {
	p := pages()
	snap := ledgertest.Fixture()

	got := p.Donate(snap, views.Query{Search: "librar"})
	if len(got.Organizations) != 1 || got.Organizations[0].Name != "Books for All" || got.Selected != nil {
		t.Fatalf("search = %+v", got)
	}

	chosen := p.Donate(snap, views.Query{OrgID: id(1)})
	if chosen.Selected == nil || chosen.Selected.Metadata.Locality != "Nairobi" {
		t.Fatalf("selected = %+v", chosen.Selected)
	}
	if len(chosen.Projects) != 1 || chosen.Projects[0].ID != 1 {
		t.Fatalf("active projects = %+v", chosen.Projects)
	}
}

func TestVerify(t *testing.T) {
	p := pages()
	snap := ledgertest.Fixture()

	byDate := p.Verify(snap, views.Query{})
	if !reflect.DeepEqual(expenseIDs(byDate.Expenses), []domain.U64{1, 2}) {
		t.Fatalf("date order = %v", expenseIDs(byDate.Expenses))
	}
	if byDate.Count != 2 || byDate.TotalAPT != "10.0000" || byDate.UniqueOrgs != 1 || byDate.UniqueProjects != 2 {
		t.Fatalf("stats = %+v", byDate)
	}
	if byDate.Expenses[0].ProofURL != "https://gw.example/ipfs/bafyrig" || byDate.Expenses[0].PublicProofURL != "https://ipfs.io/ipfs/bafyrig" {
		t.Fatalf("proof urls = %q %q", byDate.Expenses[0].ProofURL, byDate.Expenses[0].PublicProofURL)
	}

	byAmount := p.Verify(snap, views.Query{Sort: "amount"})
	if !reflect.DeepEqual(expenseIDs(byAmount.Expenses), []domain.U64{2, 1}) {
		t.Fatalf("amount order = %v", expenseIDs(byAmount.Expenses))
	}

	proof := p.Verify(snap, views.Query{Search: "bafyfilters"})
	if !reflect.DeepEqual(expenseIDs(proof.Expenses), []domain.U64{2}) {
		t.Fatalf("proof search = %v", expenseIDs(proof.Expenses))
	}

	none := p.Verify(snap, views.Query{OrgID: id(2)})
	if none.Expenses == nil || none.Count != 0 || none.TotalAPT != "0.0000" {
		t.Fatalf("org 2 = %+v", none)
	}
}

func TestDeliverReportsOverspending(t *testing.T) {
	got := pages().Deliver(ledgertest.Fixture(), views.Query{})
	if len(got.Active) != 1 || len(got.Completed) != 1 || len(got.Cancelled) != 1 || got.Count != 3 {
		t.Fatalf("groups = %d/%d/%d", len(got.Active), len(got.Completed), len(got.Cancelled))
	}
	if !got.Completed[0].Overspent || got.Active[0].Overspent || got.Overspent != 1 {
		t.Fatalf("overspent flags = %+v", got)
	}
	if got.Completed[0].BarWidth != 100 || got.TotalRaisedAPT != "17.0000" {
		t.Fatalf("completed = %+v, raised %s", got.Completed[0], got.TotalRaisedAPT)
	}

	org2 := pages().Deliver(ledgertest.Fixture(), views.Query{OrgID: id(2)})
	if org2.Count != 1 || len(org2.Cancelled) != 1 {
		t.Fatalf("org 2 = %+v", org2)
	}
}

func TestAudit(t *testing.T) {
	p := pages()
	snap := ledgertest.Fixture()

	all := p.Audit(snap, views.Query{})
	var order []string
	for _, e := range all.Entries {
		order = append(order, e.Type+":"+e.ID.String())
	}
	want := []string{"expense:1", "donation:2", "expense:2", "donation:3", "donation:1"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("trail = %v, want %v", order, want)
	}
	if all.NetBalanceAPT != "-1.5000" || all.DonationCount != 3 || all.ExpenseCount != 2 {
		t.Fatalf("totals = %+v", all)
	}
	if all.Entries[1].Details != "No message" {
		t.Fatalf("empty message details = %q", all.Entries[1].Details)
	}

	expenses := p.Audit(snap, views.Query{Type: views.EntryExpense})
	if len(expenses.Entries) != 2 || expenses.DonationCount != 0 {
		t.Fatalf("expense filter = %+v", expenses.Entries)
	}

	org2 := p.Audit(snap, views.Query{OrgID: id(2)})
	if len(org2.Entries) != 1 || org2.Entries[0].Address != "0xD0N0R1" {
		t.Fatalf("org 2 = %+v", org2.Entries)
	}
	if len(org2.Breakdown) != 2 || org2.Breakdown[0].BalanceAPT != "-3.5000" || org2.Breakdown[1].BalanceAPT != "2.0000" {
		t.Fatalf("breakdown = %+v", org2.Breakdown)
	}
}

func TestAdmin(t *testing.T) {
	p := pages()
	snap := ledgertest.Fixture()

	got := p.Admin(snap, "0xaaa1")
	if len(got.Organizations) != 1 {
		t.Fatalf("organizations = %d", len(got.Organizations))
	}
	org := got.Organizations[0]
	if org.Name != "Clean Water Kenya" || len(org.Projects) != 2 || len(org.Donations) != 2 || len(org.Expenses) != 2 {
		t.Fatalf("admin org = %+v", org)
	}
	if org.UniqueDonors != 2 || len(org.Recent) != 4 || org.Recent[0].Type != views.EntryExpense {
		t.Fatalf("recent = %+v", org.Recent)
	}

	if none := p.Admin(snap, "0xnobody"); len(none.Organizations) != 0 || none.Organizations == nil {
		t.Fatalf("unknown admin = %+v", none)
	}
}

func TestNameFallbacks(t *testing.T) {
	snap := ledgertest.Fixture()
	snap.Donations = append(snap.Donations, domain.Donation{ID: 9, OrgID: 7, ProjectID: 8, Amount: 1, DonatedAt: 1})
	got := pages().Track(snap, views.Query{OrgID: id(7)})
	if len(got.Donations) != 1 || got.Donations[0].OrgName != "Organization #7" || got.Donations[0].ProjectName != "Project #8" {
		t.Fatalf("fallback names = %+v", got.Donations)
	}
}

func TestDirectory(t *testing.T) {
	p := pages()
	snap := ledgertest.Fixture()
	registered := []domain.DirectoryOrganization{{
		ID: "a1", Name: "Zebra Rescue", Type: "Community", Locality: "Accra", TrustScore: 50,
		Reviews: []domain.Review{{Rating: 5}, {Rating: 4}},
	}}

	got := p.Directory(snap.Organizations, registered, views.Query{})
	if got.Count != 3 || got.Organizations[0].Source != views.SourceLedger || got.Organizations[0].TrustScore != 85 {
		t.Fatalf("default sort = %+v", got.Organizations)
	}
	if got.Organizations[0].TotalDonations != 16.5 {
		t.Fatalf("ledger total donations = %v", got.Organizations[0].TotalDonations)
	}
	if !reflect.DeepEqual(got.Localities, []string{"Accra", "Nairobi"}) {
		t.Fatalf("localities = %v", got.Localities)
	}

	popular := p.Directory(snap.Organizations, registered, views.Query{Sort: "popularity"})
	if popular.Organizations[0].ID != "a1" || popular.Organizations[0].AverageRating != 4.5 {
		t.Fatalf("popularity = %+v", popular.Organizations[0])
	}

	byName := p.Directory(snap.Organizations, registered, views.Query{Sort: "name"})
	if byName.Organizations[0].Name != "Books for All" || byName.Organizations[2].Name != "Zebra Rescue" {
		t.Fatalf("name order = %+v", byName.Organizations)
	}

	community := p.Directory(snap.Organizations, registered, views.Query{Type: "Community", Locality: "Accra"})
	if community.Count != 2 {
		t.Fatalf("community in Accra = %d", community.Count)
	}
	search := p.Directory(snap.Organizations, registered, views.Query{Search: "wells", Type: "All"})
	if search.Count != 1 || search.Organizations[0].ID != "1" {
		t.Fatalf("search = %+v", search.Organizations)
	}
}

func TestOrganizationDetail(t *testing.T) {
	snap := ledgertest.Fixture()
	org := snap.Organizations[0]
	org.Name = "Clean Water Kenya Trust" // Renamed since the snapshot was taken

	got := pages().OrganizationDetail(snap, org)
	if got.Name != "Clean Water Kenya Trust" || got.Metadata.Locality != "Nairobi" || got.TotalReceivedAPT != "16.5000" {
		t.Fatalf("card = %+v", got.OrgCard)
	}
	if len(got.Projects) != 2 || got.DefaultProjectID == nil || *got.DefaultProjectID != 1 {
		t.Fatalf("projects = %d, default = %v", len(got.Projects), got.DefaultProjectID)
	}
	if want := []domain.U64{2, 1}; !reflect.DeepEqual(donationIDs(got.Donations), want) {
		t.Fatalf("donations = %v, want %v", donationIDs(got.Donations), want)
	}
	if got.Donations[0].OrgName != "Clean Water Kenya Trust" {
		t.Fatalf("donation org name = %q, want the fresh name", got.Donations[0].OrgName)
	}
	if want := []domain.U64{1, 2}; !reflect.DeepEqual(expenseIDs(got.Expenses), want) {
		t.Fatalf("expenses = %v, want %v", expenseIDs(got.Expenses), want)
	}
	if got.Expenses[0].ProofURL != "https://gw.example/ipfs/bafyrig" {
		t.Fatalf("proof url = %q", got.Expenses[0].ProofURL)
	}

	p := got.Profile
	if p.ID != "1" || p.Logo != "🏛️" || p.Mission != "Water for every village" || p.Founded != "N/A" {
		t.Fatalf("profile = %+v", p)
	}
	if p.TrustScore != 85 || p.TotalDonations != 16.5 || !p.Verified || p.RegisteredBy != "0xAAA1" {
		t.Fatalf("profile = %+v", p)
	}
}

func TestOrganizationDetailFallbacks(t *testing.T) {
	snap := ledgertest.Fixture()

	books := pages().OrganizationDetail(snap, snap.Organizations[1])
	if books.Profile.Mission != "Community libraries" || books.Profile.Type != "Community" {
		t.Fatalf("mission should fall back to the description: %+v", books.Profile)
	}

	// Registered after the snapshot was loaded
	fresh := domain.Organization{ID: 9, Name: "New Org", Description: "Just registered"}
	got := pages().OrganizationDetail(snap, fresh)
	if len(got.Projects) != 0 || len(got.Donations) != 0 || len(got.Expenses) != 0 || got.DefaultProjectID != nil {
		t.Fatalf("unexpected records for a new organization: %+v", got)
	}
	if got.Profile.Locality != "Unknown" || got.Profile.Type != "NGO" {
		t.Fatalf("profile = %+v", got.Profile)
	}
}
