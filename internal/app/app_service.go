package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"time"

	"invoice-ledger/internal/ai"
	"invoice-ledger/internal/core"
	"invoice-ledger/internal/pdf"
)

// appService implements ApplicationService by delegating to the core
// services and the AI agent.
type appService struct {
	clients  core.ClientService
	invoices core.InvoiceService
	audit    core.AuditService
	agent    ai.AgentService
}

// NewAppService wires the application facade over the core services.
func NewAppService(clients core.ClientService, invoices core.InvoiceService, audit core.AuditService, agent ai.AgentService) ApplicationService {
	return &appService{
		clients:  clients,
		invoices: invoices,
		audit:    audit,
		agent:    agent,
	}
}

func (s *appService) CreateClient(ctx context.Context, req ClientRequest) (*core.Client, error) {
	return s.clients.CreateClient(ctx, core.ClientInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
}

func (s *appService) ListClients(ctx context.Context) (*ClientListResult, error) {
	clients, err := s.clients.GetClients(ctx)
	if err != nil {
		return nil, err
	}
	return &ClientListResult{Clients: clients}, nil
}

func (s *appService) UpdateClient(ctx context.Context, id string, req ClientRequest) (*core.Client, error) {
	return s.clients.UpdateClient(ctx, id, core.ClientInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
}

func (s *appService) DeleteClient(ctx context.Context, id string) error {
	return s.clients.DeleteClient(ctx, id)
}

func (s *appService) ImportClients(ctx context.Context, rows []core.ImportRow) (*ImportResult, error) {
	report, err := s.clients.ImportClients(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &ImportResult{
		Message:  fmt.Sprintf("Imported %d of %d rows.", len(report.Accepted), len(rows)),
		Accepted: len(report.Accepted),
		Errors:   report.Errors,
	}, nil
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, core.NewValidationError("invalid date %q, want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

func (s *appService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*core.Invoice, error) {
	issue, err := parseDate(req.IssueDate)
	if err != nil {
		return nil, err
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	items := make([]core.LineItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = core.LineItemInput{
			ItemName:  item.ItemName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return s.invoices.CreateInvoice(ctx, core.InvoiceInput{
		ClientID:  req.ClientID,
		IssueDate: issue,
		DueDate:   due,
		Items:     items,
	})
}

func (s *appService) ListInvoices(ctx context.Context, status string) (*InvoiceListResult, error) {
	var filter *core.InvoiceStatus
	if status != "" {
		st := core.InvoiceStatus(status)
		if !core.ValidStatus(st) {
			return nil, core.NewValidationError("unknown status filter: %s", status)
		}
		filter = &st
	}
	invoices, err := s.invoices.GetInvoices(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &InvoiceListResult{Invoices: invoices}, nil
}

func (s *appService) GetInvoice(ctx context.Context, id string) (*core.Invoice, error) {
	return s.invoices.GetInvoice(ctx, id)
}

func (s *appService) RecordPayment(ctx context.Context, id string, req RecordPaymentRequest) (*PaymentResult, error) {
	method := core.PaymentMethod(req.Method)
	if req.Method == "" {
		method = core.MethodCard
	}
	result, err := s.invoices.RecordPayment(ctx, id, req.Amount, method)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{Invoice: result.Invoice, BalanceDue: result.BalanceDue}, nil
}

func (s *appService) OverrideInvoiceStatus(ctx context.Context, id string, status string) (*core.Invoice, error) {
	return s.invoices.OverrideStatus(ctx, id, core.InvoiceStatus(status))
}

func (s *appService) RenderInvoicePDF(ctx context.Context, id string) ([]byte, string, error) {
	inv, err := s.invoices.GetInvoice(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc, err := pdf.RenderInvoice(inv)
	if err != nil {
		return nil, "", err
	}
	return doc, fmt.Sprintf("invoice_%s.pdf", inv.InvoiceNumber), nil
}

func (s *appService) ExportInvoicesCSV(ctx context.Context) ([]byte, error) {
	invoices, err := s.invoices.GetInvoices(ctx, nil)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Invoice #", "Client Name", "Status", "Issue Date", "Due Date", "Total Amount"})
	for i := range invoices {
		inv := &invoices[i]
		_ = w.Write([]string{
			inv.InvoiceNumber,
			inv.ClientName,
			string(inv.Status),
			inv.IssueDate.Format("2006-01-02"),
			inv.DueDate.Format("2006-01-02"),
			inv.Total.StringFixed(2),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *appService) GetDashboardMetrics(ctx context.Context) (*core.DashboardMetrics, error) {
	return s.invoices.GetMetrics(ctx, time.Now().UTC())
}

func (s *appService) ListAuditLogs(ctx context.Context) ([]core.AuditLog, error) {
	return s.audit.GetAuditLogs(ctx, 100)
}

func (s *appService) AnswerQuery(ctx context.Context, question string) (*ai.AnalystReport, error) {
	if question == "" {
		return nil, core.NewValidationError("query must not be empty")
	}
	clients, err := s.clients.GetClients(ctx)
	if err != nil {
		return nil, err
	}
	headers, err := s.invoices.GetInvoices(ctx, nil)
	if err != nil {
		return nil, err
	}
	// The list view carries no payment rows; fetch full invoices so the
	// snapshot's balances are accurate.
	invoices := make([]core.Invoice, 0, len(headers))
	for i := range headers {
		inv, err := s.invoices.GetInvoice(ctx, headers[i].ID)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return s.agent.AnswerQuery(ctx, question, clients, invoices)
}

func (s *appService) SendMockEmail(ctx context.Context, req EmailRequest) error {
	if req.RecipientEmail == "" {
		return core.NewValidationError("recipient_email must not be empty")
	}
	log.Printf("--- MOCK EMAIL ---\nRecipient: %s\nSubject: %s\n--- Body ---\n%s\n--- EMAIL SENT (MOCK) ---",
		req.RecipientEmail, req.Subject, req.Body)
	return nil
}
