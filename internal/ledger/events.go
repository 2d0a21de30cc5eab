package ledger

import (
	"bytes"                     // Request bodies
	"context"                   // Context for cancellation
	"dapptrack/internal/domain" // Importing domain models
	"encoding/json"             // JSON encoding/decoding
	"errors"                    // Error inspection
	"fmt"                       // Formatting error messages
	"net/http"                  // HTTP client and status codes
	"strings"                   // String helpers
)

// ErrUnknownEventKind is returned for a kind outside EventKinds.
var ErrUnknownEventKind = errors.New("unknown event kind")

// EventKinds maps the public kind names to the event structs the module emits.
var EventKinds = map[string]string{
	"funds":         "FundAllocated",
	"deliveries":    "DeliveryRecorded",
	"donations":     "DonationReceived",
	"verifications": "DeliveryVerified",
}

// Event is one indexed chain event.
type Event struct {
	AccountAddress         string          `json:"account_address"`          // Emitting account
	CreationNumber         domain.U64      `json:"creation_number"`          // Event handle creation number
	Data                   json.RawMessage `json:"data"`                     // Event payload, passed through untouched
	EventIndex             domain.U64      `json:"event_index"`              // Index within the transaction
	SequenceNumber         domain.U64      `json:"sequence_number"`          // Handle sequence number
	TransactionBlockHeight domain.U64      `json:"transaction_block_height"` // Block height
	TransactionVersion     domain.U64      `json:"transaction_version"`      // Ledger version, the sort key
	Type                   string          `json:"type"`                     // Event type as emitted
	IndexedType            string          `json:"indexed_type"`             // Event type as indexed
}

const eventsQuery = `query getAccountEventsByEventType($where_condition: events_bool_exp, $order_by: [events_order_by!]) {
  events(where: $where_condition, order_by: $order_by) {
    account_address
    creation_number
    data
    event_index
    sequence_number
    transaction_block_height
    transaction_version
    type
    indexed_type
  }
}`

// EventType returns the fully qualified event type for a kind.
func (c *Client) EventType(kind string) (string, error) {
	name, ok := EventKinds[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEventKind, kind) // Caller maps this to 400
	}
	return c.module + "::" + EventModuleName + "::" + name, nil
}

// Events lists the module account's events of one kind, newest first.
func (c *Client) Events(ctx context.Context, kind string) ([]Event, error) {
	eventType, err := c.EventType(kind)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(map[string]any{
		"query":     eventsQuery,
		"variables": map[string]any{
			"where_condition": map[string]any{
				"account_address": map[string]string{"_eq": c.module},
				"indexed_type":    map[string]string{"_eq": eventType},
			},
			"order_by": []map[string]string{{"transaction_version": "desc"}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("aptos: encode events query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.indexerURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json") // GraphQL over JSON

	var resp struct {
		Data struct {
			Events []Event `json:"events"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		// GraphQL reports query errors with a 200
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message) // Collect every message
		}
		return nil, &APIError{Status: http.StatusOK, Message: strings.Join(msgs, "; "), Code: "graphql_error"}
	}
	if resp.Data.Events == nil {
		return []Event{}, nil // Never null in JSON
	}
	return resp.Data.Events, nil
}
