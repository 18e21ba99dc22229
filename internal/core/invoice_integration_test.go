package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"invoice-ledger/internal/core"
)

func mustCreateInvoice(t *testing.T, svc core.InvoiceService, clientID string) *core.Invoice {
	t.Helper()
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	inv, err := svc.CreateInvoice(context.Background(), core.InvoiceInput{
		ClientID:  clientID,
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 0, 30),
		Items: []core.LineItemInput{
			{ItemName: "Consulting", Quantity: 2, UnitPrice: price(t, "50.00")},
			{ItemName: "Support", Quantity: 1, UnitPrice: price(t, "25.00")},
		},
	})
	if err != nil {
		t.Fatalf("Failed to create invoice: %v", err)
	}
	return inv
}

func TestInvoiceService_CreateAndFetch(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	clients := core.NewClientService(pool)
	invoices := core.NewInvoiceService(pool)
	ctx := context.Background()

	client := mustCreateClient(t, clients, "Acme Corp", "billing@acme.test")
	inv := mustCreateInvoice(t, invoices, client.ID)

	if inv.InvoiceNumber != "INV-1001" {
		t.Errorf("First invoice number = %s, want INV-1001", inv.InvoiceNumber)
	}
	if got := inv.Total.StringFixed(2); got != "137.50" {
		t.Errorf("Total = %s, want 137.50", got)
	}
	if inv.Status != core.StatusUnpaid && inv.Status != core.StatusOverdue {
		t.Errorf("Unexpected status %s for invoice with no payments", inv.Status)
	}

	second := mustCreateInvoice(t, invoices, client.ID)
	if second.InvoiceNumber != "INV-1002" {
		t.Errorf("Second invoice number = %s, want INV-1002", second.InvoiceNumber)
	}

	got, err := invoices.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if got.ClientName != "Acme Corp" {
		t.Errorf("ClientName = %s, want Acme Corp", got.ClientName)
	}
	if len(got.Items) != 2 || got.Items[0].ItemName != "Consulting" {
		t.Errorf("Line items not preserved in order: %+v", got.Items)
	}
}

func TestInvoiceService_CreateRejectsUnknownClient(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	invoices := core.NewInvoiceService(pool)
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := invoices.CreateInvoice(context.Background(), core.InvoiceInput{
		ClientID:  "00000000-0000-0000-0000-000000000000",
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 0, 30),
		Items:     []core.LineItemInput{{ItemName: "Consulting", Quantity: 1, UnitPrice: price(t, "50.00")}},
	})
	var notFound *core.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError for unknown client, got %v", err)
	}
}

func TestInvoiceService_PaymentLifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	clients := core.NewClientService(pool)
	invoices := core.NewInvoiceService(pool)
	ctx := context.Background()

	client := mustCreateClient(t, clients, "Acme Corp", "billing@acme.test")
	inv := mustCreateInvoice(t, invoices, client.ID)

	res, err := invoices.RecordPayment(ctx, inv.ID, price(t, "100.00"), core.MethodCard)
	if err != nil {
		t.Fatalf("First payment failed: %v", err)
	}
	if got := res.BalanceDue.StringFixed(2); got != "37.50" {
		t.Errorf("Balance after partial payment = %s, want 37.50", got)
	}
	if res.Invoice.Status == core.StatusPaid {
		t.Error("Invoice marked PAID with an outstanding balance")
	}

	// An overpayment beyond the tolerance must be rejected and leave the
	// ledger untouched.
	_, err = invoices.RecordPayment(ctx, inv.ID, price(t, "37.51"), core.MethodCash)
	var validation *core.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError for overpayment, got %v", err)
	}

	res, err = invoices.RecordPayment(ctx, inv.ID, price(t, "37.50"), core.MethodBankTransfer)
	if err != nil {
		t.Fatalf("Final payment failed: %v", err)
	}
	if got := res.BalanceDue.StringFixed(2); got != "0.00" {
		t.Errorf("Balance after full settlement = %s, want 0.00", got)
	}
	if res.Invoice.Status != core.StatusPaid {
		t.Errorf("Status after full settlement = %s, want PAID", res.Invoice.Status)
	}

	// A settled invoice accepts no further payments.
	_, err = invoices.RecordPayment(ctx, inv.ID, price(t, "1.00"), core.MethodCard)
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError for payment on settled invoice, got %v", err)
	}

	got, err := invoices.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if len(got.Payments) != 2 {
		t.Fatalf("Expected 2 payments in ledger, got %d", len(got.Payments))
	}
	// Payments come back in insertion order.
	if !got.Payments[0].Amount.Equal(price(t, "100.00")) || !got.Payments[1].Amount.Equal(price(t, "37.50")) {
		t.Errorf("Payments out of order: %+v", got.Payments)
	}
}

func TestInvoiceService_ConcurrentPayments(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	clients := core.NewClientService(pool)
	invoices := core.NewInvoiceService(pool)
	ctx := context.Background()

	client := mustCreateClient(t, clients, "Acme Corp", "billing@acme.test")
	inv := mustCreateInvoice(t, invoices, client.ID) // total 137.50

	// Two concurrent payments of 100.00: the row lock serializes them, so
	// exactly one must succeed and the other must be rejected as an
	// overpayment of the remaining balance.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = invoices.RecordPayment(ctx, inv.ID, price(t, "100.00"), core.MethodCard)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var validation *core.ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("Unexpected error kind: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("Expected exactly 1 payment to succeed, got %d", succeeded)
	}

	got, err := invoices.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if paid := core.AmountPaid(got).StringFixed(2); paid != "100.00" {
		t.Errorf("Amount paid after concurrent attempts = %s, want 100.00", paid)
	}
}

func TestInvoiceService_StatusFilterAndOverride(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	clients := core.NewClientService(pool)
	invoices := core.NewInvoiceService(pool)
	ctx := context.Background()

	client := mustCreateClient(t, clients, "Acme Corp", "billing@acme.test")
	open := mustCreateInvoice(t, invoices, client.ID)
	settled := mustCreateInvoice(t, invoices, client.ID)

	if _, err := invoices.RecordPayment(ctx, settled.ID, price(t, "137.50"), core.MethodCard); err != nil {
		t.Fatalf("Failed to settle invoice: %v", err)
	}

	paid := core.StatusPaid
	list, err := invoices.GetInvoices(ctx, &paid)
	if err != nil {
		t.Fatalf("GetInvoices failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != settled.ID {
		t.Fatalf("PAID filter returned %+v, want only the settled invoice", list)
	}

	// Force the open invoice paid, then release the override.
	forced, err := invoices.OverrideStatus(ctx, open.ID, core.StatusPaid)
	if err != nil {
		t.Fatalf("OverrideStatus(PAID) failed: %v", err)
	}
	if forced.Status != core.StatusPaid {
		t.Errorf("Status after override = %s, want PAID", forced.Status)
	}

	released, err := invoices.OverrideStatus(ctx, open.ID, core.StatusUnpaid)
	if err != nil {
		t.Fatalf("OverrideStatus(UNPAID) failed: %v", err)
	}
	if released.Status == core.StatusPaid {
		t.Errorf("Status after releasing override = %s, want derived status", released.Status)
	}

	var validation *core.ValidationError
	if _, err := invoices.OverrideStatus(ctx, open.ID, core.StatusOverdue); !errors.As(err, &validation) {
		t.Errorf("Expected ValidationError when forcing OVERDUE, got %v", err)
	}
}

func TestInvoiceService_Metrics(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	clients := core.NewClientService(pool)
	invoices := core.NewInvoiceService(pool)
	ctx := context.Background()

	client := mustCreateClient(t, clients, "Acme Corp", "billing@acme.test")
	settled := mustCreateInvoice(t, invoices, client.ID)
	mustCreateInvoice(t, invoices, client.ID)

	if _, err := invoices.RecordPayment(ctx, settled.ID, price(t, "137.50"), core.MethodCard); err != nil {
		t.Fatalf("Failed to settle invoice: %v", err)
	}

	// Evaluate before the shared due date so the open invoice is UNPAID.
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	m, err := invoices.GetMetrics(ctx, now)
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}
	if got := m.TotalRevenue.StringFixed(2); got != "137.50" {
		t.Errorf("TotalRevenue = %s, want 137.50", got)
	}
	if got := m.TotalOutstanding.StringFixed(2); got != "137.50" {
		t.Errorf("TotalOutstanding = %s, want 137.50", got)
	}
	if m.OverdueCount != 0 {
		t.Errorf("OverdueCount = %d, want 0", m.OverdueCount)
	}

	// Past the due date the open invoice flips to OVERDUE.
	later := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	m, err = invoices.GetMetrics(ctx, later)
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}
	if m.OverdueCount != 1 {
		t.Errorf("OverdueCount past due date = %d, want 1", m.OverdueCount)
	}
}

func TestAuditService_RecordsActivity(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	clients := core.NewClientService(pool)
	invoices := core.NewInvoiceService(pool)
	audit := core.NewAuditService(pool)
	ctx := context.Background()

	client := mustCreateClient(t, clients, "Acme Corp", "billing@acme.test")
	inv := mustCreateInvoice(t, invoices, client.ID)
	if _, err := invoices.RecordPayment(ctx, inv.ID, price(t, "37.50"), core.MethodCard); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	logs, err := audit.GetAuditLogs(ctx, 50)
	if err != nil {
		t.Fatalf("GetAuditLogs failed: %v", err)
	}
	if len(logs) < 2 {
		t.Fatalf("Expected at least 2 audit entries, got %d", len(logs))
	}
	// Newest first: the payment entry precedes the invoice creation entry.
	if logs[0].EntityType != "Payment" {
		t.Errorf("Newest entry type = %s, want Payment", logs[0].EntityType)
	}
}
