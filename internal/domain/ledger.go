package domain

import (
	"encoding/json" // JSON decoding of chain values
	"fmt"           // Error formatting
	"strconv"       // u64 parsing
	"strings"       // Trimming quoted values
)

// U64 is a Move u64 as returned by view functions. The fullnode encodes it as a
// decimal string; plain JSON numbers are accepted too.
type U64 uint64

// UnmarshalJSON accepts "123" and 123
func (u *U64) UnmarshalJSON(b []byte) error {
	v, err := parseU64JSON(b)
	if err != nil {
		return err
	}
	*u = U64(v)
	return nil
}

// MarshalJSON writes the chain's string form
func (u U64) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(u), 10))
}

// String is the decimal form
func (u U64) String() string {
	return strconv.FormatUint(uint64(u), 10)
}

func parseU64JSON(b []byte) (uint64, error) {
	raw := strings.TrimSpace(string(b))
	if raw == "null" || raw == `""` {
		return 0, nil
	}
	raw = strings.Trim(raw, `"`)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid u64 %q: %w", raw, err)
	}
	return v, nil
}

// ProjectStatus mirrors the contract's u8 status field
type ProjectStatus uint8

const (
	ProjectActive    ProjectStatus = 0 // Accepting donations
	ProjectCompleted ProjectStatus = 1 // Delivered
	ProjectCancelled ProjectStatus = 2 // Cancelled by the organization admin
)

// String returns the label shown on the pages
func (s ProjectStatus) String() string {
	switch s {
	case ProjectActive:
		return "Active"
	case ProjectCompleted:
		return "Completed"
	case ProjectCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// UnmarshalJSON accepts the u8 as a number or a string
func (s *ProjectStatus) UnmarshalJSON(b []byte) error {
	v, err := parseU64JSON(b)
	if err != nil {
		return err
	}
	if v > 255 {
		return fmt.Errorf("invalid project status %d", v)
	}
	*s = ProjectStatus(v)
	return nil
}

// Organization is an on-chain organization record
type Organization struct {
	ID            U64    `json:"id"`             // Organization ID
	Name          string `json:"name"`           // Display name
	Description   string `json:"description"`    // Free text description
	Admin         string `json:"admin"`          // Admin account address
	WalletBalance Octas  `json:"wallet_balance"` // Current balance
	TotalReceived Octas  `json:"total_received"` // Lifetime donations
	TotalSpent    Octas  `json:"total_spent"`    // Lifetime expenses
	CreatedAt     U64    `json:"created_at"`     // Unix seconds
	IPFSMetadata  string `json:"ipfs_metadata"`  // JSON encoded OrganizationMetadata
}

// Metadata decodes the descriptive fields stored in IPFSMetadata. Malformed or
// empty metadata yields the defaults.
func (o Organization) Metadata() OrganizationMetadata {
	meta := OrganizationMetadata{}
	if o.IPFSMetadata != "" {
		_ = json.Unmarshal([]byte(o.IPFSMetadata), &meta)
	}
	if meta.Type == "" {
		meta.Type = "NGO"
	}
	if meta.Locality == "" {
		meta.Locality = "Unknown"
	}
	return meta
}

// OrganizationMetadata is the descriptive blob written at registration
type OrganizationMetadata struct {
	Type         string `json:"type"`
	Locality     string `json:"locality"`
	Mission      string `json:"mission"`
	ContactEmail string `json:"contactEmail"`
	Website      string `json:"website"`
	Founded      string `json:"founded"`
	Logo         string `json:"logo"`
}

// Project is an on-chain fundraising project
type Project struct {
	ID           U64           `json:"id"`            // Project ID
	OrgID        U64           `json:"org_id"`        // Owning organization
	Name         string        `json:"name"`          // Display name
	Description  string        `json:"description"`   // Free text description
	TargetAmount Octas         `json:"target_amount"` // Fundraising goal
	RaisedAmount Octas         `json:"raised_amount"` // Donated so far
	SpentAmount  Octas         `json:"spent_amount"`  // Recorded expenses
	Status       ProjectStatus `json:"status"`        // Lifecycle status
	CreatedAt    U64           `json:"created_at"`    // Unix seconds
}

// Donation is an on-chain donation record
type Donation struct {
	ID        U64    `json:"id"`         // Donation ID
	OrgID     U64    `json:"org_id"`     // Receiving organization
	ProjectID U64    `json:"project_id"` // Receiving project
	Donor     string `json:"donor"`      // Donor address
	Amount    Octas  `json:"amount"`     // Donated amount
	Message   string `json:"message"`    // Optional message
	DonatedAt U64    `json:"donated_at"` // Unix seconds
}

// Expense is an on-chain expense record with an IPFS proof
type Expense struct {
	ID          U64    `json:"id"`          // Expense ID
	OrgID       U64    `json:"org_id"`      // Spending organization
	ProjectID   U64    `json:"project_id"`  // Project charged
	Description string `json:"description"` // What the money was spent on
	Amount      Octas  `json:"amount"`      // Spent amount
	IPFSProof   string `json:"ipfs_proof"`  // Proof document CID
	SpentBy     string `json:"spent_by"`    // Recording address
	SpentAt     U64    `json:"spent_at"`    // Unix seconds
}
