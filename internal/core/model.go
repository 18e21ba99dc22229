package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the derived display status of an invoice. It is never
// stored as ground truth: ResolveStatus recomputes it on every read from
// the balance due, the due date, and the manual paid override.
type InvoiceStatus string

const (
	StatusUnpaid  InvoiceStatus = "UNPAID"
	StatusPaid    InvoiceStatus = "PAID"
	StatusOverdue InvoiceStatus = "OVERDUE"
)

// ValidStatus reports whether s is one of the three known statuses.
func ValidStatus(s InvoiceStatus) bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// PaymentMethod identifies how a payment was made.
type PaymentMethod string

const (
	MethodCard         PaymentMethod = "Card"
	MethodCash         PaymentMethod = "Cash"
	MethodBankTransfer PaymentMethod = "Bank Transfer"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCard, MethodCash, MethodBankTransfer:
		return true
	}
	return false
}

// Client is a billing customer master record.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// LineItem is one billable line on an invoice. It has no lifecycle of its
// own: it is created with its invoice and deleted with it.
type LineItem struct {
	ID        string          `json:"id"`
	ItemName  string          `json:"itemName"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Payment is one entry in an invoice's append-only payment ledger.
// Payments are never edited or removed once recorded.
type Payment struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method"`
	PaymentDate time.Time       `json:"paymentDate"`
}

// Invoice is an invoice header with its owned line items and payments.
// Subtotal, TaxAmount and Total are derived by ComputeTotals at creation
// and never edited directly. PaidOverride is the explicit administrative
// "mark as paid" flag; see ResolveStatus for its precedence.
type Invoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	ClientID      string          `json:"clientId"`
	ClientName    string          `json:"clientName"` // joined from clients
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       time.Time       `json:"dueDate"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Total         decimal.Decimal `json:"total"`
	Payments      []Payment       `json:"payments"`
	PaidOverride  bool            `json:"paidOverride"`
	Status        InvoiceStatus   `json:"status"` // resolved before every write to the wire
	CreatedAt     time.Time       `json:"createdAt"`
}

// AuditLog records a mutation against an entity for the activity feed.
type AuditLog struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	Details    string    `json:"details,omitempty"`
}
