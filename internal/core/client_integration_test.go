package core_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"invoice-ledger/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration
	// tests; the schema from migrations/ must already be applied.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE audit_logs, payments, invoice_items, invoices, clients CASCADE;
	`)
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return pool
}

func mustCreateClient(t *testing.T, svc core.ClientService, name, email string) *core.Client {
	t.Helper()
	client, err := svc.CreateClient(context.Background(), core.ClientInput{
		Name:    name,
		Email:   email,
		Address: "1 Test Street",
	})
	if err != nil {
		t.Fatalf("Failed to create client %s: %v", name, err)
	}
	return client
}

func TestClientService_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewClientService(pool)
	ctx := context.Background()

	created := mustCreateClient(t, svc, "Acme Corp", "billing@acme.test")
	if created.ID == "" {
		t.Fatal("Created client has no id")
	}

	got, err := svc.GetClient(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetClient failed: %v", err)
	}
	if got.Name != "Acme Corp" || got.Email != "billing@acme.test" {
		t.Errorf("GetClient returned %+v", got)
	}

	updated, err := svc.UpdateClient(ctx, created.ID, core.ClientInput{
		Name:    "Acme Corporation",
		Email:   "accounts@acme.test",
		Address: "2 Test Street",
	})
	if err != nil {
		t.Fatalf("UpdateClient failed: %v", err)
	}
	if updated.Name != "Acme Corporation" || updated.Email != "accounts@acme.test" {
		t.Errorf("UpdateClient returned %+v", updated)
	}

	if err := svc.DeleteClient(ctx, created.ID); err != nil {
		t.Fatalf("DeleteClient failed: %v", err)
	}

	var notFound *core.NotFoundError
	if _, err := svc.GetClient(ctx, created.ID); !errors.As(err, &notFound) {
		t.Errorf("Expected NotFoundError after delete, got %v", err)
	}
}

func TestClientService_DuplicateEmail(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewClientService(pool)
	ctx := context.Background()

	mustCreateClient(t, svc, "Acme Corp", "billing@acme.test")

	_, err := svc.CreateClient(ctx, core.ClientInput{
		Name:    "Acme Clone",
		Email:   "billing@acme.test",
		Address: "3 Test Street",
	})
	var validation *core.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError for duplicate email, got %v", err)
	}
}

func TestClientService_DeleteCascadesInvoices(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	clients := core.NewClientService(pool)
	invoices := core.NewInvoiceService(pool)
	ctx := context.Background()

	client := mustCreateClient(t, clients, "Acme Corp", "billing@acme.test")
	inv := mustCreateInvoice(t, invoices, client.ID)

	if err := clients.DeleteClient(ctx, client.ID); err != nil {
		t.Fatalf("DeleteClient failed: %v", err)
	}

	var notFound *core.NotFoundError
	if _, err := invoices.GetInvoice(ctx, inv.ID); !errors.As(err, &notFound) {
		t.Errorf("Expected invoice to be gone after client delete, got %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM invoice_items").Scan(&count); err != nil {
		t.Fatalf("Failed to count line items: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected line items to cascade, found %d rows", count)
	}
}

func TestClientService_ImportClients(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewClientService(pool)
	ctx := context.Background()

	mustCreateClient(t, svc, "Existing", "existing@acme.test")

	report, err := svc.ImportClients(ctx, []core.ImportRow{
		{Name: "Fresh One", Email: "one@acme.test", Address: "1 Main St"},
		{Name: "Existing Again", Email: "existing@acme.test", Address: "2 Main St"},
		{Name: "Fresh Two", Email: "two@acme.test", Address: "3 Main St"},
		{Name: "", Email: "noname@acme.test", Address: "4 Main St"},
	})
	if err != nil {
		t.Fatalf("ImportClients failed: %v", err)
	}

	if got, want := len(report.Accepted), 2; got != want {
		t.Fatalf("Accepted %d rows, want %d: %+v", got, want, report)
	}
	if got, want := len(report.Errors), 2; got != want {
		t.Fatalf("Rejected %d rows, want %d: %+v", got, want, report)
	}

	all, err := svc.GetClients(ctx)
	if err != nil {
		t.Fatalf("GetClients failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 persisted clients, got %d", len(all))
	}
}
