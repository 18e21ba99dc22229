// seed loads a small demo data set: three clients and a handful of
// invoices in different lifecycle states. Existing billing data is wiped
// first, so never point this at a live database.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"
	"time"

	"invoice-ledger/internal/core"
	"invoice-ledger/internal/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	log.Println("Clearing billing data...")
	_, err = pool.Exec(ctx, `TRUNCATE TABLE payments, invoice_items, invoices, clients, audit_logs CASCADE`)
	if err != nil {
		log.Fatalf("failed to clear billing data: %v", err)
	}

	clients := core.NewClientService(pool)
	invoices := core.NewInvoiceService(pool)

	acme, err := clients.CreateClient(ctx, core.ClientInput{
		Name: "Acme Corp", Email: "billing@acme.example", Address: "1 Industrial Way, Springfield",
	})
	if err != nil {
		log.Fatalf("failed to create client: %v", err)
	}
	globex, err := clients.CreateClient(ctx, core.ClientInput{
		Name: "Globex LLC", Email: "accounts@globex.example", Address: "42 Tower Plaza, Capital City",
	})
	if err != nil {
		log.Fatalf("failed to create client: %v", err)
	}
	if _, err := clients.CreateClient(ctx, core.ClientInput{
		Name: "Initech", Email: "ap@initech.example", Address: "9 Office Park Dr, Austin",
	}); err != nil {
		log.Fatalf("failed to create client: %v", err)
	}

	now := time.Now().UTC()
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	// Paid invoice: issued last month, settled in full.
	paid, err := invoices.CreateInvoice(ctx, core.InvoiceInput{
		ClientID:  acme.ID,
		IssueDate: now.AddDate(0, -1, 0),
		DueDate:   now.AddDate(0, -1, 14),
		Items: []core.LineItemInput{
			{ItemName: "Consulting retainer", Quantity: 2, UnitPrice: price("50.00")},
			{ItemName: "Travel expenses", Quantity: 1, UnitPrice: price("25.00")},
		},
	})
	if err != nil {
		log.Fatalf("failed to create invoice: %v", err)
	}
	if _, err := invoices.RecordPayment(ctx, paid.ID, paid.Total, core.MethodBankTransfer); err != nil {
		log.Fatalf("failed to record payment: %v", err)
	}

	// Overdue invoice: due last week, nothing received.
	if _, err := invoices.CreateInvoice(ctx, core.InvoiceInput{
		ClientID:  globex.ID,
		IssueDate: now.AddDate(0, 0, -21),
		DueDate:   now.AddDate(0, 0, -7),
		Items: []core.LineItemInput{
			{ItemName: "Website redesign", Quantity: 1, UnitPrice: price("1200.00")},
		},
	}); err != nil {
		log.Fatalf("failed to create invoice: %v", err)
	}

	// Open invoice: partially paid, due in three weeks.
	open, err := invoices.CreateInvoice(ctx, core.InvoiceInput{
		ClientID:  globex.ID,
		IssueDate: now,
		DueDate:   now.AddDate(0, 0, 21),
		Items: []core.LineItemInput{
			{ItemName: "Support hours", Quantity: 10, UnitPrice: price("80.00")},
			{ItemName: "License renewal", Quantity: 1, UnitPrice: price("150.00")},
		},
	})
	if err != nil {
		log.Fatalf("failed to create invoice: %v", err)
	}
	if _, err := invoices.RecordPayment(ctx, open.ID, price("300.00"), core.MethodCard); err != nil {
		log.Fatalf("failed to record payment: %v", err)
	}

	log.Println("Seed data loaded.")
}
