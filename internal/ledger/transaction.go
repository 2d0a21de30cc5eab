package ledger

import (
	"context"  // Context for cancellation
	"errors"   // Error inspection
	"net/http" // HTTP client and status codes
	"net/url"  // URL building
	"strings"  // String helpers
)

// unauthorizedAbort is the abort code the contract raises for non-admin callers.
const unauthorizedAbort = "E_UNAUTHORIZED"

// TxStatus is the confirmation state of a submitted transaction.
type TxStatus struct {
	Hash         string `json:"hash"`               // Transaction hash as queried
	Found        bool   `json:"found"`              // False until the node knows the hash
	Pending      bool   `json:"pending"`            // In the mempool, not yet committed
	Success      bool   `json:"success"`            // Committed and executed
	VMStatus     string `json:"vmStatus,omitempty"` // Move VM status or abort message
	Version      string `json:"version,omitempty"`  // Ledger version once committed
	Unauthorized bool   `json:"unauthorized"`       // Aborted by the admin check
}

// IsUnauthorized reports whether a chain rejection message is the contract's
// admin check failing.
func IsUnauthorized(message string) bool {
	return strings.Contains(message, unauthorizedAbort)
}

// Transaction looks up a transaction by hash. Unknown hashes report Found false.
func (c *Client) Transaction(ctx context.Context, hash string) (TxStatus, error) {
	status := TxStatus{Hash: hash} // Not found until the node says otherwise
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nodeURL+"/transactions/by_hash/"+url.PathEscape(hash), nil)
	if err != nil {
		return status, err
	}

	var tx struct {
		Type     string `json:"type"`
		Success  bool   `json:"success"`
		VMStatus string `json:"vm_status"`
		Version  string `json:"version"`
	}
	if err := c.do(req, &tx); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return status, nil // Unknown hash, keep polling
		}
		return status, err
	}

	status.Found = true                               // The node knows the hash
	status.Pending = tx.Type == "pending_transaction" // Not committed yet
	status.Success = tx.Success                       // Execution result
	status.VMStatus = tx.VMStatus                     // Abort message on failure
	status.Version = tx.Version                       // Committed version
	status.Unauthorized = IsUnauthorized(tx.VMStatus) // Non-admin caller
	return status, nil
}
