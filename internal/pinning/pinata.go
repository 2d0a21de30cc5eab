// Package pinning stores documents on IPFS through the Pinata pinning service.
package pinning

import (
	"bytes"          // Request bodies
	"context"        // Context for cancellation
	"encoding/json"  // JSON encoding/decoding
	"errors"         // Error inspection
	"fmt"            // Formatting error messages
	"io"             // Reading response bodies
	"mime/multipart" // Multipart form encoding
	"net/http"       // HTTP client and status codes
	"net/textproto"  // Part headers
	"net/url"        // URL building
	"strings"        // String helpers
	"time"           // Timestamps and timeouts

	"github.com/sirupsen/logrus" // Structured logging
)

// ErrNotConfigured is returned by uploads when no Pinata token is set.
var ErrNotConfigured = errors.New("pinata: PINATA_JWT is not configured")

// PublicGateway is the fallback gateway shown next to the Pinata one.
const PublicGateway = "https://ipfs.io"

// PinResult is Pinata's answer to a pin request.
type PinResult struct {
	IpfsHash  string `json:"IpfsHash"`  // CID of the pinned content
	PinSize   int64  `json:"PinSize"`   // Size in bytes
	Timestamp string `json:"Timestamp"` // Pin time as reported by Pinata
}

// Pin is one row of a pin listing.
type Pin struct {
	CID        string    `json:"ipfs_pin_hash"` // Pinned CID
	Size       int64     `json:"size"`          // Size in bytes
	DatePinned time.Time `json:"date_pinned"`   // Used to pick the latest
	Metadata   struct {
		Name string `json:"name"` // Pin name
	} `json:"metadata"`
}

// Client talks to the Pinata API and reads back through a gateway.
type Client struct {
	apiURL  string       // Pinata API base URL
	gateway string       // Gateway base URL with scheme
	jwt     string       // Pinata JWT, empty disables uploads
	http    *http.Client // Shared HTTP client
}

// NewClient builds a client. gateway may be a bare host ("gateway.pinata.cloud")
// or a full base URL.
func NewClient(apiURL, gateway, jwt string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second} // Uploads can be slow
	}
	if !strings.Contains(gateway, "://") {
		gateway = "https://" + gateway
	}
	return &Client{
		apiURL:  strings.TrimRight(apiURL, "/"),  // API base
		gateway: strings.TrimRight(gateway, "/"), // Gateway base
		jwt:     jwt,                             // Bearer token
		http:    httpClient,                      // HTTP client
	}
}

// Configured reports whether uploads can succeed.
func (c *Client) Configured() bool {
	return c.jwt != ""
}

// GatewayURL is where a CID can be fetched through the configured gateway.
func (c *Client) GatewayURL(cid string) string {
	return c.gateway + "/ipfs/" + cid
}

// PublicGatewayURL is the same CID through the public ipfs.io gateway.
func PublicGatewayURL(cid string) string {
	return PublicGateway + "/ipfs/" + cid
}

// PinFile uploads a file and pins it under name.
func (c *Client) PinFile(ctx context.Context, name, contentType string, r io.Reader) (PinResult, error) {
	if !c.Configured() {
		return PinResult{}, ErrNotConfigured
	}

	var body bytes.Buffer // Multipart body
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader) // Part headers
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	if contentType == "" {
		contentType = "application/octet-stream" // Unknown type
	}
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return PinResult{}, fmt.Errorf("pinata: build form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return PinResult{}, fmt.Errorf("pinata: read file: %w", err)
	}
	meta, _ := json.Marshal(map[string]string{"name": name}) // Pin name shown in the Pinata dashboard
	if err := mw.WriteField("pinataMetadata", string(meta)); err != nil {
		return PinResult{}, fmt.Errorf("pinata: build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return PinResult{}, fmt.Errorf("pinata: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/pinning/pinFileToIPFS", &body)
	if err != nil {
		return PinResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType()) // Multipart boundary

	var result PinResult
	if err := c.do(req, &result); err != nil {
		return PinResult{}, err
	}
	logrus.WithFields(logrus.Fields{"name": name, "cid": result.IpfsHash, "size": result.PinSize}).Info("File pinned to IPFS")
	return result, nil
}

// PinJSON uploads v as a JSON document pinned under name.
func (c *Client) PinJSON(ctx context.Context, name string, v any) (PinResult, error) {
	if !c.Configured() {
		return PinResult{}, ErrNotConfigured
	}
	payload, err := json.Marshal(map[string]any{
		"pinataContent":  v,                               // Document
		"pinataMetadata": map[string]string{"name": name}, // Pin name
	})
	if err != nil {
		return PinResult{}, fmt.Errorf("pinata: encode json: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/pinning/pinJSONToIPFS", bytes.NewReader(payload))
	if err != nil {
		return PinResult{}, err
	}
	req.Header.Set("Content-Type", "application/json") // JSON body

	var result PinResult
	if err := c.do(req, &result); err != nil {
		return PinResult{}, err
	}
	return result, nil
}

// LatestByName returns the most recently pinned document with the given name.
// ok is false when nothing matches.
func (c *Client) LatestByName(ctx context.Context, name string) (Pin, bool, error) {
	if !c.Configured() {
		return Pin{}, false, ErrNotConfigured
	}
	q := url.Values{}
	q.Set("status", "pinned")     // Skip unpinned rows
	q.Set("metadata[name]", name) // Filter by pin name
	q.Set("pageLimit", "10")      // Latest few are enough
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/data/pinList?"+q.Encode(), nil)
	if err != nil {
		return Pin{}, false, err
	}

	var list struct {
		Count int   `json:"count"`
		Rows  []Pin `json:"rows"`
	}
	if err := c.do(req, &list); err != nil {
		return Pin{}, false, err
	}

	var latest Pin
	found := false
	for _, p := range list.Rows {
		if p.Metadata.Name != name {
			continue // Only exact names count
		}
		if !found || p.DatePinned.After(latest.DatePinned) {
			latest = p // Newer pin
			found = true
		}
	}
	return latest, found, nil
}

// Fetch reads a CID back through the gateway.
func (c *Client) Fetch(ctx context.Context, cid string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.GatewayURL(cid), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	defer resp.Body.Close() // Close the body when done
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway: %s", resp.Status) // Missing or unreachable CID
	}
	return io.ReadAll(resp.Body)
}

// FetchJSON reads a CID and decodes it into dest.
func (c *Client) FetchJSON(ctx context.Context, cid string, dest any) error {
	b, err := c.Fetch(ctx, cid)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("gateway: decode %s: %w", cid, err)
	}
	return nil
}

func (c *Client) do(req *http.Request, dest any) error {
	req.Header.Set("Authorization", "Bearer "+c.jwt) // Pinata JWT auth
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("pinata: %w", err)
	}
	defer resp.Body.Close() // Close the body when done

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // Cap the response at 1 MiB
	if err != nil {
		return fmt.Errorf("pinata: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pinata: %s: %s", resp.Status, upstreamMessage(body))
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("pinata: decode response: %w", err)
	}
	return nil
}

// upstreamMessage pulls the human readable part out of a Pinata error body.
func upstreamMessage(body []byte) string {
	var e struct {
		Error any `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != nil {
		switch v := e.Error.(type) {
		case string:
			return v
		case map[string]any:
			if reason, ok := v["reason"].(string); ok {
				if details, ok := v["details"].(string); ok {
					return reason + ": " + details // Reason with details
				}
				return reason
			}
		}
	}
	return strings.TrimSpace(string(body)) // Not JSON, pass the body through
}
