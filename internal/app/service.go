package app

import (
	"context"

	"invoice-ledger/internal/ai"
	"invoice-ledger/internal/core"
)

// ApplicationService is the single interface all adapters call. It
// decouples presentation from business logic: implementations contain no
// HTTP types and no display logic of any kind.
type ApplicationService interface {
	// CreateClient creates a new client record.
	CreateClient(ctx context.Context, req ClientRequest) (*core.Client, error)

	// ListClients returns all clients ordered by name.
	ListClients(ctx context.Context) (*ClientListResult, error)

	// UpdateClient replaces a client's details.
	UpdateClient(ctx context.Context, id string, req ClientRequest) (*core.Client, error)

	// DeleteClient removes a client and cascades to its invoices.
	DeleteClient(ctx context.Context, id string) error

	// ImportClients validates a bulk batch of raw client rows and persists
	// the accepted ones, returning the full per-row report.
	ImportClients(ctx context.Context, rows []core.ImportRow) (*ImportResult, error)

	// CreateInvoice computes totals, assigns a number, and persists a new
	// invoice for a client.
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*core.Invoice, error)

	// ListInvoices returns all invoices with freshly resolved statuses,
	// optionally filtered by status.
	ListInvoices(ctx context.Context, status string) (*InvoiceListResult, error)

	// GetInvoice returns a fully populated invoice.
	GetInvoice(ctx context.Context, id string) (*core.Invoice, error)

	// RecordPayment applies a payment to an invoice's ledger and returns
	// the updated invoice with its new balance due.
	RecordPayment(ctx context.Context, id string, req RecordPaymentRequest) (*PaymentResult, error)

	// OverrideInvoiceStatus is the administrative mark-as-paid action.
	OverrideInvoiceStatus(ctx context.Context, id string, status string) (*core.Invoice, error)

	// RenderInvoicePDF renders the invoice as a PDF document and returns
	// the bytes with a suggested filename.
	RenderInvoicePDF(ctx context.Context, id string) ([]byte, string, error)

	// ExportInvoicesCSV renders all invoices as a CSV document.
	ExportInvoicesCSV(ctx context.Context) ([]byte, error)

	// GetDashboardMetrics folds the invoice collection into dashboard
	// aggregates.
	GetDashboardMetrics(ctx context.Context) (*core.DashboardMetrics, error)

	// ListAuditLogs returns the most recent audit entries.
	ListAuditLogs(ctx context.Context) ([]core.AuditLog, error)

	// AnswerQuery sends a natural language question about the billing data
	// to the AI analyst.
	AnswerQuery(ctx context.Context, question string) (*ai.AnalystReport, error)

	// SendMockEmail logs an outbound email instead of sending it.
	SendMockEmail(ctx context.Context, req EmailRequest) error
}
