package app

import (
	"invoice-ledger/internal/core"

	"github.com/shopspring/decimal"
)

// ClientListResult wraps the client list.
type ClientListResult struct {
	Clients []core.Client `json:"clients"`
}

// InvoiceListResult wraps an invoice list with resolved statuses.
type InvoiceListResult struct {
	Invoices []core.Invoice `json:"invoices"`
}

// ImportResult reports the outcome of a bulk client import.
type ImportResult struct {
	Message  string                `json:"message"`
	Accepted int                   `json:"accepted"`
	Errors   []core.ImportRowError `json:"errors"`
}

// PaymentResult returns the updated invoice and its new balance due after
// a payment was recorded.
type PaymentResult struct {
	Invoice    *core.Invoice   `json:"invoice"`
	BalanceDue decimal.Decimal `json:"balanceDue"`
}
