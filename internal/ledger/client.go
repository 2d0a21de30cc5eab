// Package ledger reads the dapptrack modules on the Aptos chain and builds the
// entry-function payloads a browser wallet signs.
package ledger

import (
	"bytes"         // Request bodies
	"context"       // Context for cancellation
	"encoding/json" // JSON encoding/decoding
	"fmt"           // Formatting error messages
	"io"            // Reading response bodies
	"net/http"      // HTTP client and status codes
	"strings"       // String helpers
	"time"          // Timestamps and timeouts
)

const (
	// ModuleName is the module every view and entry function lives in.
	ModuleName = "dapptrack_v2"
	// EventModuleName is the earlier module that still emits the tracking events.
	EventModuleName = "dapptrack"
)

// APIError is a non-2xx answer from the fullnode or indexer.
type APIError struct {
	Status  int    // HTTP status
	Message string // Server message, or the raw body
	Code    string // Aptos error_code, when present
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("aptos: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("aptos: %d: %s", e.Status, e.Message)
}

// Client is a thin Aptos REST and indexer client bound to one module address.
type Client struct {
	nodeURL    string       // Fullnode REST base URL
	indexerURL string       // Indexer GraphQL endpoint
	module     string       // Module publisher address
	http       *http.Client // Shared HTTP client
}

// NewClient builds a client for the module published at moduleAddress.
func NewClient(nodeURL, indexerURL, moduleAddress string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second} // Default timeout
	}
	return &Client{
		nodeURL:    strings.TrimRight(nodeURL, "/"), // Paths are appended with a leading slash
		indexerURL: indexerURL,                      // Indexer endpoint
		module:     moduleAddress,                   // Module address
		http:       httpClient,                      // HTTP client
	}
}

// ModuleAddress is the configured publisher address.
func (c *Client) ModuleAddress() string {
	return c.module
}

// Function returns the fully qualified name of a dapptrack_v2 function.
func (c *Client) Function(name string) string {
	return FunctionID(c.module, name)
}

// FunctionID joins a module address and function name.
func FunctionID(moduleAddress, name string) string {
	return moduleAddress + "::" + ModuleName + "::" + name
}

// View calls a view function and decodes its first return value into out.
func (c *Client) View(ctx context.Context, function string, args []any, out any) error {
	if args == nil {
		args = []any{} // The node rejects a null argument list
	}
	body, err := json.Marshal(map[string]any{
		"function":       function,   // Fully qualified view function
		"type_arguments": []string{}, // No generic views
		"arguments":      args,       // u64 arguments as strings
	})
	if err != nil {
		return fmt.Errorf("aptos: encode view request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.nodeURL+"/view", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var results []json.RawMessage // One entry per return value
	if err := c.do(req, &results); err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("aptos: %s returned no values", function)
	}
	if err := json.Unmarshal(results[0], out); err != nil {
		return fmt.Errorf("aptos: decode %s: %w", function, err)
	}
	return nil
}

func (c *Client) do(req *http.Request, dest any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("aptos: %w", err)
	}
	defer resp.Body.Close() // Close the body when done

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20)) // Cap the response at 16 MiB
	if err != nil {
		return fmt.Errorf("aptos: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		var e struct {
			Message   string `json:"message"`
			ErrorCode string `json:"error_code"`
		}
		// Prefer the structured error when the body carries one
		if json.Unmarshal(body, &e) == nil && e.Message != "" {
			apiErr.Message = e.Message // Abort message
			apiErr.Code = e.ErrorCode  // e.g. vm_error
		}
		return apiErr
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("aptos: decode response: %w", err)
	}
	return nil
}
