package ledger

import (
	"dapptrack/internal/domain" // Importing domain models
)

// EntryFunction is the payload shape the wallet adapter signs and submits.
type EntryFunction struct {
	Function          string   `json:"function"`          // address::module::function
	TypeArguments     []string `json:"typeArguments"`     // Always empty
	FunctionArguments []any    `json:"functionArguments"` // u64 values as decimal strings
}

// TransactionData wraps an EntryFunction the way signAndSubmitTransaction expects.
type TransactionData struct {
	Data EntryFunction `json:"data"`
}

// RegisterOrganizationArgs are the inputs of register_organization.
type RegisterOrganizationArgs struct {
	Name         string // Organization name
	Description  string // Short description
	IPFSMetadata string // JSON metadata stored on chain
}

// CreateProjectArgs are the inputs of create_project.
type CreateProjectArgs struct {
	OrgID        domain.U64   // Owning organization
	Name         string       // Project name
	Description  string       // Project description
	TargetAmount domain.Octas // Funding goal in Octas
}

// DonateArgs are the inputs of donate_to_organization.
type DonateArgs struct {
	OrgID     domain.U64   // Receiving organization
	ProjectID domain.U64   // Receiving project
	Amount    domain.Octas // Donation in Octas
	Message   string       // Optional donor message
}

// RecordExpenseArgs are the inputs of record_expense.
type RecordExpenseArgs struct {
	OrgID       domain.U64   // Spending organization
	ProjectID   domain.U64   // Project charged
	Description string       // What the money paid for
	Amount      domain.Octas // Expense in Octas
	IPFSProof   string       // Proof document CID
}

// Payloads builds entry-function payloads for one module address.
type Payloads struct {
	module string // Module publisher address
}

// NewPayloads binds the builders to moduleAddress.
func NewPayloads(moduleAddress string) Payloads {
	return Payloads{module: moduleAddress}
}

// RegisterOrganization makes the caller's wallet the new organization's admin.
func (p Payloads) RegisterOrganization(a RegisterOrganizationArgs) TransactionData {
	return p.build("register_organization", a.Name, a.Description, a.IPFSMetadata)
}

// CreateProject opens a project under an organization the caller administers.
func (p Payloads) CreateProject(a CreateProjectArgs) TransactionData {
	return p.build("create_project", u64Arg(a.OrgID), a.Name, a.Description, a.TargetAmount.String())
}

// DonateToOrganization sends Amount Octas to a project.
func (p Payloads) DonateToOrganization(a DonateArgs) TransactionData {
	return p.build("donate_to_organization", u64Arg(a.OrgID), u64Arg(a.ProjectID), a.Amount.String(), a.Message)
}

// RecordExpense records spending against a project with its proof CID.
func (p Payloads) RecordExpense(a RecordExpenseArgs) TransactionData {
	return p.build("record_expense", u64Arg(a.OrgID), u64Arg(a.ProjectID), a.Description, a.Amount.String(), a.IPFSProof)
}

func (p Payloads) build(function string, args ...any) TransactionData {
	return TransactionData{Data: EntryFunction{
		Function:          FunctionID(p.module, function), // Fully qualified entry function
		TypeArguments:     []string{},                     // No generics
		FunctionArguments: args,                           // Positional arguments
	}}
}
