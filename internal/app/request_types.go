package app

import "github.com/shopspring/decimal"

// ClientRequest carries client fields for create and update.
type ClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// LineItemRequest is one line on a new invoice. UnitPrice accepts a JSON
// number or a decimal string.
type LineItemRequest struct {
	ItemName  string          `json:"itemName"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// CreateInvoiceRequest carries the fields for a new invoice. Dates accept
// YYYY-MM-DD or full RFC 3339 timestamps.
type CreateInvoiceRequest struct {
	ClientID  string            `json:"clientId"`
	IssueDate string            `json:"issueDate"`
	DueDate   string            `json:"dueDate"`
	Items     []LineItemRequest `json:"items"`
}

// RecordPaymentRequest carries a payment to apply against an invoice.
// Method defaults to Card when omitted, matching the client UI default.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

// EmailRequest carries a mock outbound email.
type EmailRequest struct {
	RecipientEmail string `json:"recipient_email"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}
