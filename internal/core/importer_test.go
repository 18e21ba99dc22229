package core_test

import (
	"strings"
	"testing"

	"invoice-ledger/internal/core"
)

func TestValidateImportBatch(t *testing.T) {
	rows := []core.ImportRow{
		{Name: "Acme Corp", Email: "billing@acme.test", Address: "1 Main St"},
		{Name: "", Email: "noname@acme.test", Address: "2 Main St"},
		{Name: "Bad Email", Email: "not-an-email", Address: "3 Main St"},
		{Name: "Globex", Email: "accounts@globex.test", Address: "4 Main St"},
		{Name: "Acme Dup", Email: "billing@acme.test", Address: "5 Main St"},
		{Name: "No Address", Email: "addr@acme.test", Address: "   "},
		{Name: "  Initech  ", Email: " pay@initech.test ", Address: " 6 Main St "},
	}

	report := core.ValidateImportBatch(rows, nil)

	if got, want := len(report.Accepted), 3; got != want {
		t.Fatalf("accepted %d rows, want %d", got, want)
	}
	if got, want := len(report.Errors), 4; got != want {
		t.Fatalf("rejected %d rows, want %d", got, want)
	}

	wantErrors := []struct {
		row    int
		reason string
	}{
		{1, "missing required field: name"},
		{2, "invalid email address"},
		{4, "duplicate email address"},
		{5, "missing required field: address"},
	}
	for i, want := range wantErrors {
		got := report.Errors[i]
		if got.Row != want.row {
			t.Errorf("error %d row = %d, want %d", i, got.Row, want.row)
		}
		if !strings.HasPrefix(got.Reason, want.reason) {
			t.Errorf("error %d reason = %q, want prefix %q", i, got.Reason, want.reason)
		}
	}

	// Whitespace is trimmed before validation and persistence.
	last := report.Accepted[2]
	if last.Name != "Initech" || last.Email != "pay@initech.test" || last.Address != "6 Main St" {
		t.Errorf("trimmed row = %+v", last)
	}

	for i, c := range report.Accepted {
		if c.ID == "" {
			t.Errorf("accepted row %d has no id", i)
		}
		if c.CreatedAt.IsZero() {
			t.Errorf("accepted row %d has zero created_at", i)
		}
	}
}

func TestValidateImportBatch_ExistingClients(t *testing.T) {
	existing := []core.Client{
		{ID: "c1", Name: "Acme Corp", Email: "Billing@Acme.Test"},
	}
	rows := []core.ImportRow{
		{Name: "Acme Again", Email: "billing@acme.test", Address: "1 Main St"},
		{Name: "Fresh", Email: "fresh@acme.test", Address: "2 Main St"},
	}

	report := core.ValidateImportBatch(rows, existing)

	if len(report.Accepted) != 1 || report.Accepted[0].Email != "fresh@acme.test" {
		t.Fatalf("accepted = %+v, want only the fresh row", report.Accepted)
	}
	if len(report.Errors) != 1 || report.Errors[0].Row != 0 {
		t.Fatalf("errors = %+v, want row 0 rejected as duplicate", report.Errors)
	}
	if !strings.Contains(report.Errors[0].Reason, "duplicate") {
		t.Errorf("reason = %q, want duplicate rejection", report.Errors[0].Reason)
	}
}

func TestValidateImportBatch_FirstOccurrenceWins(t *testing.T) {
	rows := []core.ImportRow{
		{Name: "First", Email: "shared@acme.test", Address: "1 Main St"},
		{Name: "Second", Email: "SHARED@acme.test", Address: "2 Main St"},
	}

	report := core.ValidateImportBatch(rows, nil)

	if len(report.Accepted) != 1 || report.Accepted[0].Name != "First" {
		t.Fatalf("accepted = %+v, want only the first occurrence", report.Accepted)
	}
	if len(report.Errors) != 1 || report.Errors[0].Row != 1 {
		t.Fatalf("errors = %+v, want row 1 rejected", report.Errors)
	}
}

func TestValidateImportBatch_Empty(t *testing.T) {
	report := core.ValidateImportBatch(nil, nil)
	if len(report.Accepted) != 0 || len(report.Errors) != 0 {
		t.Errorf("empty batch produced report %+v", report)
	}
}
