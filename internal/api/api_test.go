package api_test

import (
	"bytes"                                  // Request bodies
	"context"                                // Context for cancellation
	"dapptrack/internal/api"                 // HTTP handlers
	"dapptrack/internal/config"              // Configuration settings
	"dapptrack/internal/db"                  // Database setup
	"dapptrack/internal/db/dbtest"           // Test database
	"dapptrack/internal/directory"           // Organization directory
	"dapptrack/internal/ledger"              // Ledger client and snapshot
	"dapptrack/internal/ledger/ledgertest"   // Fake ledger node
	"dapptrack/internal/middleware"          // Middleware
	"dapptrack/internal/pinning/pinningtest" // Fake pinning service
	"dapptrack/internal/scheduler"           // Snapshot refresher
	"dapptrack/internal/views"               // Page view models
	"encoding/json"                          // JSON encoding/decoding
	"mime/multipart"                         // Multipart form encoding
	"net/http"                               // HTTP client and status codes
	"net/http/httptest"                      // HTTP test recorder and server
	"strings"                                // String helpers
	"testing"                                // Testing framework
	"time"                                   // Timestamps and timeouts

	"github.com/alicebob/miniredis/v2" // In-memory Redis
	"github.com/gin-gonic/gin"         // Gin web framework
	"github.com/redis/go-redis/v9"     // Redis client
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	router *gin.Engine
	node   *ledgertest.Node
	pins   *pinningtest.Server
	redis  *miniredis.Miniredis
	store  *directory.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	node := ledgertest.NewNode(t)
	node.SeedFixture()
	pins := pinningtest.NewServer(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	gdb := dbtest.Open(t)
	if _, err := db.SeedOperator(gdb, "ops", "correct-horse"); err != nil {
		t.Fatalf("seed operator: %v", err)
	}

	chain := node.Client()
	pinner := pins.Client()
	store := directory.NewStore(gdb)
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		AptosNetwork:  "testnet",
		ModuleAddress: ledgertest.ModuleAddress,
		PinataJWT:     pinningtest.Token,
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	api.RegisterRoutes(r, api.Deps{
		Config:    cfg,
		DB:        gdb,
		Redis:     rdb,
		Pinner:    pinner,
		Events:    chain,
		Orgs:      ledger.NewReader(chain),
		Txs:       chain,
		Snapshots: scheduler.NewRefresher(ledger.NewReader(chain), rdb),
		Directory: store,
		Publisher: directory.NewSnapshotter(store, pinner),
		Payloads:  ledger.NewPayloads(ledgertest.ModuleAddress),
		Pages:     views.New(pinner.GatewayURL),
	})
	return &harness{router: r, node: node, pins: pins, redis: mr, store: store}
}

func (h *harness) do(t *testing.T, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func upload(t *testing.T, h *harness, field, name string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload-proof", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestUploadProof(t *testing.T) {
	h := newHarness(t)

	w := upload(t, h, "photo", "receipt.pdf", bytes.Repeat([]byte("%PDF"), 512))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp api.UploadProofResponse
	decode(t, w, &resp)
	if resp.IpfsHash == "" || resp.FileName != "receipt.pdf" || resp.Size != 2048 || resp.Timestamp == "" {
		t.Fatalf("response = %+v", resp)
	}
	if !strings.HasSuffix(resp.GatewayURL, "/ipfs/"+resp.IpfsHash) {
		t.Fatalf("gatewayUrl = %q", resp.GatewayURL)
	}
	if pins := h.pins.Pins(); len(pins) != 1 || pins[0] != "receipt.pdf" {
		t.Fatalf("pins = %v", pins)
	}
}

func TestUploadProofRejections(t *testing.T) {
	h := newHarness(t)

	w := upload(t, h, "document", "receipt.pdf", []byte("x"))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "No file uploaded") {
		t.Fatalf("missing file = %d %s", w.Code, w.Body.String())
	}

	w = upload(t, h, "photo", "huge.bin", make([]byte, api.MaxUploadSize+1))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversize = %d", w.Code)
	}

	h.pins.FailUploads(true)
	w = upload(t, h, "photo", "receipt.pdf", []byte("data"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("upstream failure = %d", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if !strings.Contains(body["details"], "pinning unavailable") {
		t.Fatalf("details = %q", body["details"])
	}
	if len(h.pins.Pins()) != 0 {
		t.Fatal("failed upload left a pin behind")
	}
}

func TestEvents(t *testing.T) {
	h := newHarness(t)
	eventType := ledgertest.ModuleAddress + "::dapptrack::DonationReceived"
	h.node.Events[eventType] = []ledger.Event{{TransactionVersion: 7, Type: eventType, IndexedType: eventType, Data: json.RawMessage(`{}`)}}

	w := h.do(t, http.MethodGet, "/api/events/donations", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Events []ledger.Event `json:"events"`
	}
	decode(t, w, &resp)
	if len(resp.Events) != 1 || resp.Events[0].TransactionVersion != 7 {
		t.Fatalf("events = %+v", resp.Events)
	}
	if !h.redis.Exists("events:donations") {
		t.Fatal("events were not cached")
	}

	if w := h.do(t, http.MethodGet, "/api/events/payouts", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown kind = %d", w.Code)
	}
}

func TestDirectoryLifecycle(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/api/organizations", map[string]any{"name": "River Clinic", "type": "NGO", "locality": "Kisumu"})
	if w.Code != http.StatusOK {
		t.Fatalf("register = %d: %s", w.Code, w.Body.String())
	}
	var reg struct {
		Success      bool                `json:"success"`
		Organization struct{ ID string } `json:"organization"`
		IpfsHash     string              `json:"ipfsHash"`
	}
	decode(t, w, &reg)
	if !reg.Success || reg.Organization.ID == "" || reg.IpfsHash == "" {
		t.Fatalf("register response = %s", w.Body.String())
	}

	w = h.do(t, http.MethodGet, "/api/organizations", nil)
	var list api.DirectoryListResponse
	decode(t, w, &list)
	if list.Count != 1 || list.IpfsHash != reg.IpfsHash || list.Organizations[0].TrustScore != 50 {
		t.Fatalf("list = %s", w.Body.String())
	}

	if w := h.do(t, http.MethodGet, "/api/organizations/"+reg.Organization.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("get = %d", w.Code)
	}
	if w := h.do(t, http.MethodGet, "/api/organizations/nope", nil); w.Code != http.StatusNotFound {
		t.Fatalf("get missing = %d", w.Code)
	}

	w = h.do(t, http.MethodPost, "/api/organizations/"+reg.Organization.ID+"/review", map[string]any{"donor": "amy", "rating": 5, "comment": "great"})
	if w.Code != http.StatusOK {
		t.Fatalf("review = %d: %s", w.Code, w.Body.String())
	}
	var rev struct {
		Success      bool `json:"success"`
		Organization struct {
			Reviews []map[string]any `json:"reviews"`
		} `json:"organization"`
	}
	decode(t, w, &rev)
	if !rev.Success || len(rev.Organization.Reviews) != 1 {
		t.Fatalf("review response = %s", w.Body.String())
	}

	// The cached listing is dropped after a review.
	w = h.do(t, http.MethodGet, "/api/organizations", nil)
	decode(t, w, &list)
	if len(list.Organizations[0].Reviews) != 1 {
		t.Fatalf("stale list after review: %s", w.Body.String())
	}

	if w := h.do(t, http.MethodPost, "/api/organizations/nope/review", map[string]any{"rating": 3}); w.Code != http.StatusNotFound {
		t.Fatalf("review missing org = %d", w.Code)
	}
	if w := h.do(t, http.MethodPost, "/api/organizations/"+reg.Organization.ID+"/review", map[string]any{"rating": 0}); w.Code != http.StatusBadRequest {
		t.Fatalf("rating 0 = %d", w.Code)
	}
	if w := h.do(t, http.MethodPost, "/api/organizations", map[string]any{"type": "NGO"}); w.Code != http.StatusBadRequest {
		t.Fatalf("nameless register = %d", w.Code)
	}
}

func TestRegisterSurvivesPinningOutage(t *testing.T) {
	h := newHarness(t)
	h.pins.FailUploads(true)

	w := h.do(t, http.MethodPost, "/api/organizations", map[string]any{"name": "Offline Org"})
	if w.Code != http.StatusOK {
		t.Fatalf("register = %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	decode(t, w, &resp)
	if resp["ipfsHash"] != "" {
		t.Fatalf("ipfsHash = %v, want empty while pinning is down", resp["ipfsHash"])
	}
	if n, _ := h.store.Count(context.Background()); n != 1 {
		t.Fatalf("stored organizations = %d", n)
	}
}

func TestVerificationRequiresOperator(t *testing.T) {
	h := newHarness(t)
	org, err := h.store.Register(context.Background(), directory.RegisterInput{Name: "Shelter"})
	if err != nil {
		t.Fatal(err)
	}
	path := "/api/organizations/" + org.ID + "/verification"

	if w := h.do(t, http.MethodPatch, path, map[string]any{"verified": true}); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous = %d", w.Code)
	}
	if w := h.do(t, http.MethodPost, "/api/operators/login", map[string]string{"username": "ops", "password": "wrong"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password = %d", w.Code)
	}

	w := h.do(t, http.MethodPost, "/api/operators/login", map[string]string{"username": "ops", "password": "correct-horse"})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", w.Code, w.Body.String())
	}
	var auth api.AuthResponse
	decode(t, w, &auth)

	w = h.do(t, http.MethodPatch, path, map[string]any{"verified": true, "trustScore": 90}, "Authorization", "Bearer "+auth.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("verify = %d: %s", w.Code, w.Body.String())
	}
	got, _ := h.store.Get(context.Background(), org.ID)
	if !got.Verified || got.TrustScore != 90 {
		t.Fatalf("stored = %+v", got)
	}

	if w := h.do(t, http.MethodPatch, path, map[string]any{"verified": true, "trustScore": 120}, "Authorization", "Bearer "+auth.Token); w.Code != http.StatusBadRequest {
		t.Fatalf("score 120 = %d", w.Code)
	}
}

type payloadResponse struct {
	Data ledger.EntryFunction `json:"data"`
}

func TestDonatePayload(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/api/transactions/donate", map[string]any{"orgId": "1", "projectId": 2, "amount": "1.5", "message": "hi"})
	if w.Code != http.StatusOK {
		t.Fatalf("donate = %d: %s", w.Code, w.Body.String())
	}
	var resp payloadResponse
	decode(t, w, &resp)
	if resp.Data.Function != ledgertest.ModuleAddress+"::dapptrack_v2::donate_to_organization" {
		t.Fatalf("function = %q", resp.Data.Function)
	}
	if resp.Data.FunctionArguments[2] != "150000000" {
		t.Fatalf("amount argument = %v", resp.Data.FunctionArguments[2])
	}

	for name, body := range map[string]map[string]any{
		"zero amount":     {"orgId": 1, "projectId": 2, "amount": "0"},
		"garbage amount":  {"orgId": 1, "projectId": 2, "amount": "lots"},
		"missing project": {"orgId": 1, "amount": "1"},
	} {
		if w := h.do(t, http.MethodPost, "/api/transactions/donate", body); w.Code != http.StatusBadRequest {
			t.Fatalf("%s = %d", name, w.Code)
		}
	}
}

func TestRegisterOrganizationPayload(t *testing.T) {
	h := newHarness(t)
	form := map[string]any{
		"name":         "Clean Water",
		"description":  "Wells",
		"locality":     "Nairobi",
		"mission":      "Water",
		"contactEmail": "team@water.org",
	}

	w := h.do(t, http.MethodPost, "/api/transactions/register-organization", form)
	if w.Code != http.StatusOK {
		t.Fatalf("register = %d: %s", w.Code, w.Body.String())
	}
	var resp payloadResponse
	decode(t, w, &resp)
	meta, _ := resp.Data.FunctionArguments[2].(string)
	if !strings.Contains(meta, `"locality":"Nairobi"`) || !strings.Contains(meta, `"type":"NGO"`) {
		t.Fatalf("metadata = %q", meta)
	}

	form["contactEmail"] = "not-an-email"
	if w := h.do(t, http.MethodPost, "/api/transactions/register-organization", form); w.Code != http.StatusBadRequest {
		t.Fatalf("bad email = %d", w.Code)
	}
	delete(form, "mission")
	if w := h.do(t, http.MethodPost, "/api/transactions/register-organization", form); w.Code != http.StatusBadRequest {
		t.Fatalf("missing mission = %d", w.Code)
	}
}

func TestProjectAndExpensePayloads(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/api/transactions/create-project", map[string]any{"orgId": 1, "name": "Wells", "targetAmount": "20"})
	var resp payloadResponse
	decode(t, w, &resp)
	if w.Code != http.StatusOK || resp.Data.FunctionArguments[3] != "2000000000" {
		t.Fatalf("create-project = %d %s", w.Code, w.Body.String())
	}

	w = h.do(t, http.MethodPost, "/api/transactions/record-expense", map[string]any{"orgId": 1, "projectId": 1, "description": "rig", "amount": "4", "ipfsProof": "bafyrig"})
	decode(t, w, &resp)
	if w.Code != http.StatusOK || resp.Data.FunctionArguments[4] != "bafyrig" {
		t.Fatalf("record-expense = %d %s", w.Code, w.Body.String())
	}

	w = h.do(t, http.MethodPost, "/api/transactions/record-expense", map[string]any{"orgId": 1, "projectId": 1, "description": "rig", "amount": "4"})
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "proof") {
		t.Fatalf("missing proof = %d %s", w.Code, w.Body.String())
	}
}

func TestTransactionStatus(t *testing.T) {
	h := newHarness(t)
	h.node.Transactions["0xok"] = map[string]any{"type": "user_transaction", "success": true, "vm_status": "Executed successfully", "version": "5"}
	h.node.Transactions["0xdenied"] = map[string]any{"type": "user_transaction", "success": false, "vm_status": "Move abort: E_UNAUTHORIZED"}

	// Warm the snapshot so a confirmed transaction has something to invalidate.
	h.do(t, http.MethodGet, "/api/pages/track", nil)
	if !h.redis.Exists(scheduler.SnapshotKey) {
		t.Fatal("snapshot not cached")
	}
	h.do(t, http.MethodGet, "/api/events/donations", nil)

	w := h.do(t, http.MethodGet, "/api/transactions/0xok", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"success":true`) {
		t.Fatalf("0xok = %d %s", w.Code, w.Body.String())
	}
	if h.redis.Exists(scheduler.SnapshotKey) {
		t.Fatal("confirmed transaction left a stale snapshot")
	}
	if h.redis.Exists("events:donations") {
		t.Fatal("confirmed transaction left stale events")
	}

	w = h.do(t, http.MethodGet, "/api/transactions/0xdenied", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Only the organization admin") {
		t.Fatalf("0xdenied = %d %s", w.Code, w.Body.String())
	}

	if w := h.do(t, http.MethodGet, "/api/transactions/0xmissing", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing = %d", w.Code)
	}
}

func TestPages(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodGet, "/api/pages/track?org=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("track = %d: %s", w.Code, w.Body.String())
	}
	var track struct {
		Page   views.Track `json:"page"`
		Cached bool        `json:"cached"`
	}
	decode(t, w, &track)
	if len(track.Page.Donations) != 2 || track.Page.TotalDonatedAPT != "6.5000" || track.Cached {
		t.Fatalf("track page = %+v", track)
	}

	w = h.do(t, http.MethodGet, "/api/pages/verify?sort=amount", nil)
	var verify struct {
		Page   views.Verify `json:"page"`
		Cached bool         `json:"cached"`
	}
	decode(t, w, &verify)
	if !verify.Cached || verify.Page.Count != 2 || verify.Page.Expenses[0].ID != 2 {
		t.Fatalf("verify page = %+v", verify)
	}
	if !strings.HasPrefix(verify.Page.Expenses[0].ProofURL, h.pins.URL+"/ipfs/") {
		t.Fatalf("proof url = %q", verify.Page.Expenses[0].ProofURL)
	}

	if w := h.do(t, http.MethodGet, "/api/pages/track?org=abc", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad org = %d", w.Code)
	}

	w = h.do(t, http.MethodGet, "/api/pages/admin/0xaaa1", nil)
	var admin struct {
		Page views.Admin `json:"page"`
	}
	decode(t, w, &admin)
	if len(admin.Page.Organizations) != 1 || admin.Page.Organizations[0].Name != "Clean Water Kenya" {
		t.Fatalf("admin page = %s", w.Body.String())
	}

	for _, path := range []string{"/api/pages/donate?org=1", "/api/pages/deliver", "/api/pages/audit?type=donation"} {
		if w := h.do(t, http.MethodGet, path, nil); w.Code != http.StatusOK {
			t.Fatalf("%s = %d", path, w.Code)
		}
	}
}

func TestDirectoryPage(t *testing.T) {
	h := newHarness(t)
	if _, err := h.store.Register(context.Background(), directory.RegisterInput{Name: "Zebra Rescue", Type: "Community", Locality: "Accra"}); err != nil {
		t.Fatal(err)
	}

	w := h.do(t, http.MethodGet, "/api/pages/directory?sort=name", nil)
	var resp struct {
		Page views.Directory `json:"page"`
	}
	decode(t, w, &resp)
	if resp.Page.Count != 3 || resp.Page.Organizations[2].Source != views.SourceDirectory {
		t.Fatalf("directory page = %s", w.Body.String())
	}

	w = h.do(t, http.MethodGet, "/api/pages/directory?locality=Accra&type=Community", nil)
	decode(t, w, &resp)
	if resp.Page.Count != 2 {
		t.Fatalf("filtered directory = %d", resp.Page.Count)
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	w := h.do(t, http.MethodGet, "/api/health", nil)
	var resp map[string]any
	decode(t, w, &resp)
	if resp["status"] != "ok" || resp["network"] != "testnet" || resp["moduleAddress"] != ledgertest.ModuleAddress {
		t.Fatalf("health = %v", resp)
	}
	if resp["pinataConfigured"] != true || resp["cacheConnected"] != true || resp["timestamp"] == "" {
		t.Fatalf("health = %v", resp)
	}
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatal("missing request id header")
	}
}

func TestOrganizationDetailPage(t *testing.T) {
	h := newHarness(t)

	// Warm the shared snapshot, then rename the organization on the ledger.
	h.do(t, http.MethodGet, "/api/pages/track", nil)
	fixture := ledgertest.Fixture()
	fixture.Organizations[0].Name = "Clean Water Kenya Trust"
	h.node.Seed(fixture.Organizations, fixture.Projects, fixture.Donations, fixture.Expenses)

	w := h.do(t, http.MethodGet, "/api/pages/organizations/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("detail = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Page   views.OrganizationDetail `json:"page"`
		Cached bool                     `json:"cached"`
	}
	decode(t, w, &resp)
	if resp.Page.Name != "Clean Water Kenya Trust" || !resp.Cached {
		t.Fatalf("organization should be read live next to the cached snapshot: name %q cached %v", resp.Page.Name, resp.Cached)
	}
	if len(resp.Page.Projects) != 2 || len(resp.Page.Donations) != 2 || len(resp.Page.Expenses) != 2 {
		t.Fatalf("records = %d/%d/%d", len(resp.Page.Projects), len(resp.Page.Donations), len(resp.Page.Expenses))
	}
	if !resp.Page.Profile.Verified || resp.Page.Profile.TrustScore != 85 || resp.Page.Profile.Founded != "N/A" {
		t.Fatalf("profile = %+v", resp.Page.Profile)
	}

	if w := h.do(t, http.MethodGet, "/api/pages/organizations/99", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing org = %d", w.Code)
	}
	if w := h.do(t, http.MethodGet, "/api/pages/organizations/abc", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id = %d", w.Code)
	}
}

// racingPublisher caches a listing while Publish runs, as a concurrent
// GET /api/organizations would.
type racingPublisher struct {
	rdb *redis.Client
}

func (p racingPublisher) Publish(ctx context.Context) (string, error) {
	if err := p.rdb.Set(ctx, "directory:organizations", `{"organizations":[],"ipfsHash":"bafyold","count":0}`, time.Minute).Err(); err != nil {
		return "", err
	}
	return "bafynew", nil
}

func TestPublishDropsListingCachedDuringUpload(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.POST("/api/organizations", api.RegisterOrganizationHandler(directory.NewStore(dbtest.Open(t)), racingPublisher{rdb: rdb}, rdb))
	req := httptest.NewRequest(http.MethodPost, "/api/organizations", strings.NewReader(`{"name":"River Clinic"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "bafynew") {
		t.Fatalf("register = %d %s", w.Code, w.Body.String())
	}
	if mr.Exists("directory:organizations") {
		t.Fatal("listing cached during the upload survived the publish")
	}
}
