// Package ledgertest runs an in-process stand-in for an Aptos fullnode and indexer
// serving the dapptrack_v2 view functions.
package ledgertest

import (
	"dapptrack/internal/domain" // Importing domain models
	"dapptrack/internal/ledger" // Ledger client and snapshot
	"encoding/json"             // JSON encoding/decoding
	"net/http"                  // HTTP client and status codes
	"net/http/httptest"         // HTTP test recorder and server
	"strconv"                   // Number parsing
	"strings"                   // String helpers
	"sync"                      // Mutex
	"testing"                   // Testing framework
)

// ModuleAddress is the publisher address the fake serves.
const ModuleAddress = "0xda99"

// Node holds the ledger state served by the fake.
type Node struct {
	*httptest.Server

	mu            sync.Mutex
	Organizations []domain.Organization
	Projects      []domain.Project
	Donations     []domain.Donation
	Expenses      []domain.Expense
	Events        map[string][]ledger.Event
	Transactions  map[string]map[string]any
	failing       map[string]bool
	calls         map[string]int
}

// NewNode starts a fake and closes it when the test ends.
func NewNode(t *testing.T) *Node {
	t.Helper()
	n := &Node{
		Events:       map[string][]ledger.Event{},
		Transactions: map[string]map[string]any{},
		failing:      map[string]bool{},
		calls:        map[string]int{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/view", n.view)
	mux.HandleFunc("/v1/transactions/by_hash/", n.transaction)
	mux.HandleFunc("/v1/graphql", n.graphql)
	n.Server = httptest.NewServer(mux)
	t.Cleanup(n.Close)
	return n
}

// Client returns a ledger client pointed at the fake.
func (n *Node) Client() *ledger.Client {
	return ledger.NewClient(n.URL+"/v1", n.URL+"/v1/graphql", ModuleAddress, n.Server.Client())
}

// Fail makes a view function answer with an abort.
func (n *Node) Fail(function string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failing[function] = true
}

// Calls returns how often a view function was called.
func (n *Node) Calls(function string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[function]
}

// Seed replaces the ledger state.
func (n *Node) Seed(orgs []domain.Organization, projects []domain.Project, donations []domain.Donation, expenses []domain.Expense) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Organizations, n.Projects, n.Donations, n.Expenses = orgs, projects, donations, expenses
}

func (n *Node) view(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Function  string   `json:"function"`
		Arguments []string `json:"arguments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error(), "error_code": "invalid_input"})
		return
	}
	prefix := ModuleAddress + "::" + ledger.ModuleName + "::"
	if !strings.HasPrefix(req.Function, prefix) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "module not found", "error_code": "invalid_input"})
		return
	}
	name := strings.TrimPrefix(req.Function, prefix)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls[name]++
	if n.failing[name] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Move abort: E_NOT_FOUND", "error_code": "vm_error"})
		return
	}

	var orgID domain.U64
	if len(req.Arguments) > 0 {
		v, err := strconv.ParseUint(req.Arguments[0], 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad u64", "error_code": "invalid_input"})
			return
		}
		orgID = domain.U64(v)
	}

	switch name {
	case "get_all_organizations":
		writeJSON(w, http.StatusOK, []any{orEmpty(n.Organizations)})
	case "get_organization_by_id":
		for _, o := range n.Organizations {
			if o.ID == orgID {
				writeJSON(w, http.StatusOK, []any{o})
				return
			}
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Move abort: E_ORG_NOT_FOUND", "error_code": "vm_error"})
	case "get_projects_by_org":
		writeJSON(w, http.StatusOK, []any{filter(n.Projects, func(p domain.Project) bool { return p.OrgID == orgID })})
	case "get_donations_by_org":
		writeJSON(w, http.StatusOK, []any{filter(n.Donations, func(d domain.Donation) bool { return d.OrgID == orgID })})
	case "get_expenses_by_org":
		writeJSON(w, http.StatusOK, []any{filter(n.Expenses, func(e domain.Expense) bool { return e.OrgID == orgID })})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "function not found", "error_code": "invalid_input"})
	}
}

func (n *Node) transaction(w http.ResponseWriter, r *http.Request) {
	hash := strings.TrimPrefix(r.URL.Path, "/v1/transactions/by_hash/")
	n.mu.Lock()
	tx, ok := n.Transactions[hash]
	n.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Transaction not found", "error_code": "transaction_not_found"})
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (n *Node) graphql(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Variables struct {
			Where struct {
				IndexedType struct {
					Eq string `json:"_eq"`
				} `json:"indexed_type"`
			} `json:"where_condition"`
		} `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"errors": []map[string]string{{"message": err.Error()}}})
		return
	}
	n.mu.Lock()
	events := n.Events[req.Variables.Where.IndexedType.Eq]
	n.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"events": orEmpty(events)}})
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := []T{}
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
