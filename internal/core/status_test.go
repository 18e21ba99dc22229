package core_test

import (
	"testing"
	"time"

	"invoice-ledger/internal/core"
)

func TestResolveStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	tests := []struct {
		name     string
		total    string
		payments []string
		dueDate  time.Time
		override bool
		want     core.InvoiceStatus
	}{
		{"unpaid before due date", "100.00", nil, tomorrow, false, core.StatusUnpaid},
		{"unpaid on due date", "100.00", nil, now, false, core.StatusUnpaid},
		{"overdue past due date", "100.00", nil, yesterday, false, core.StatusOverdue},
		{"paid regardless of due date", "100.00", []string{"100.00"}, yesterday, false, core.StatusPaid},
		{"paid before due date", "100.00", []string{"100.00"}, tomorrow, false, core.StatusPaid},
		{"partial payment still overdue", "100.00", []string{"60.00"}, yesterday, false, core.StatusOverdue},
		{"partial payment still unpaid", "100.00", []string{"60.00"}, tomorrow, false, core.StatusUnpaid},
		{"residual balance within epsilon", "100.00", []string{"99.9995"}, yesterday, false, core.StatusPaid},
		{"override forces paid when overdue", "100.00", nil, yesterday, true, core.StatusPaid},
		{"override forces paid when open", "100.00", nil, tomorrow, true, core.StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := invoiceWithPayments(t, tt.total, tt.payments...)
			inv.DueDate = tt.dueDate
			inv.PaidOverride = tt.override

			if got := core.ResolveStatus(inv, now); got != tt.want {
				t.Errorf("status = %s, want %s", got, tt.want)
			}
			// Pure function: a second resolution over the same inputs
			// must agree.
			if again := core.ResolveStatus(inv, now); again != tt.want {
				t.Errorf("second resolution = %s, want %s", again, tt.want)
			}
		})
	}
}

func TestResolveStatus_FlipsOnFullPayment(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	inv := invoiceWithPayments(t, "100.00")
	inv.DueDate = now.AddDate(0, 0, -1)

	if got := core.ResolveStatus(inv, now); got != core.StatusOverdue {
		t.Fatalf("status before payment = %s, want OVERDUE", got)
	}

	inv.Payments = append(inv.Payments, core.Payment{Amount: price(t, "100.00"), Method: core.MethodCash})
	if got := core.ResolveStatus(inv, now); got != core.StatusPaid {
		t.Errorf("status after full payment = %s, want PAID", got)
	}
}
