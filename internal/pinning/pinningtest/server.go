// Package pinningtest runs an in-process stand-in for the Pinata API and gateway.
package pinningtest

import (
	"crypto/sha256"              // Content hashing
	"dapptrack/internal/pinning" // IPFS pinning client
	"encoding/hex"               // Hex encoding
	"encoding/json"              // JSON encoding/decoding
	"io"                         // Reading response bodies
	"net/http"                   // HTTP client and status codes
	"net/http/httptest"          // HTTP test recorder and server
	"strings"                    // String helpers
	"sync"                       // Mutex
	"testing"                    // Testing framework
	"time"                       // Timestamps and timeouts
)

// Token is the bearer token the fake server accepts.
const Token = "test-jwt"

type object struct {
	name   string
	data   []byte
	pinned time.Time
}

// Server stores pinned objects in memory, addressed by the sha256 of their bytes.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	objects map[string]object
	order   []string
	fail    bool
	clock   time.Time
}

// NewServer starts a fake and closes it when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{objects: map[string]object{}, clock: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	mux := http.NewServeMux()
	mux.HandleFunc("/pinning/pinFileToIPFS", s.auth(s.pinFile))
	mux.HandleFunc("/pinning/pinJSONToIPFS", s.auth(s.pinJSON))
	mux.HandleFunc("/data/pinList", s.auth(s.pinList))
	mux.HandleFunc("/ipfs/", s.gateway)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Client returns a pinning client pointed at the fake.
func (s *Server) Client() *pinning.Client {
	return pinning.NewClient(s.URL, s.URL, Token, s.Server.Client())
}

// FailUploads makes every pin request answer 500.
func (s *Server) FailUploads(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

// Pins returns the names of pinned objects in upload order.
func (s *Server) Pins() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.order))
	for _, cid := range s.order {
		names = append(names, s.objects[cid].name)
	}
	return names
}

// Put pins data directly, bypassing the API.
func (s *Server) Put(name string, data []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store(name, data)
}

func (s *Server) store(name string, data []byte) string {
	sum := sha256.Sum256(data)
	cid := "bafy" + hex.EncodeToString(sum[:16])
	s.clock = s.clock.Add(time.Second)
	s.objects[cid] = object{name: name, data: data, pinned: s.clock}
	s.order = append(s.order, cid)
	return cid
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]string{"reason": "INVALID_CREDENTIALS", "details": "bad token"}})
			return
		}
		s.mu.Lock()
		fail := s.fail
		s.mu.Unlock()
		if fail && r.Method == http.MethodPost {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "pinning unavailable"})
			return
		}
		next(w, r)
	}
}

func (s *Server) pinFile(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing file"})
		return
	}
	defer file.Close()
	data, _ := io.ReadAll(file)

	name := header.Filename
	var meta struct {
		Name string `json:"name"`
	}
	if json.Unmarshal([]byte(r.FormValue("pinataMetadata")), &meta) == nil && meta.Name != "" {
		name = meta.Name
	}
	s.mu.Lock()
	cid := s.store(name, data)
	ts := s.objects[cid].pinned
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, pinning.PinResult{IpfsHash: cid, PinSize: int64(len(data)), Timestamp: ts.Format(time.RFC3339)})
}

func (s *Server) pinJSON(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content  json.RawMessage `json:"pinataContent"`
		Metadata struct {
			Name string `json:"name"`
		} `json:"pinataMetadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad json"})
		return
	}
	s.mu.Lock()
	cid := s.store(body.Metadata.Name, body.Content)
	ts := s.objects[cid].pinned
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, pinning.PinResult{IpfsHash: cid, PinSize: int64(len(body.Content)), Timestamp: ts.Format(time.RFC3339)})
}

func (s *Server) pinList(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("metadata[name]")
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := []map[string]any{}
	for _, cid := range s.order {
		obj := s.objects[cid]
		if name != "" && obj.name != name {
			continue
		}
		rows = append(rows, map[string]any{
			"ipfs_pin_hash": cid,
			"size":          len(obj.data),
			"date_pinned":   obj.pinned.Format(time.RFC3339),
			"metadata":      map[string]string{"name": obj.name},
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(rows), "rows": rows})
}

func (s *Server) gateway(w http.ResponseWriter, r *http.Request) {
	cid := strings.TrimPrefix(r.URL.Path, "/ipfs/")
	s.mu.Lock()
	obj, ok := s.objects[cid]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write(obj.data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
