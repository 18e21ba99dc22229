package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardMetrics holds list-level aggregates over a set of invoices.
type DashboardMetrics struct {
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
	OverdueCount     int             `json:"overdueCount"`
	TotalInvoices    int             `json:"totalInvoices"`
}

// ComputeAggregates folds over the invoice collection, resolving each
// invoice's status at the given moment. Revenue counts PAID invoice
// totals; outstanding sums the balance due of everything else. There is no
// cached aggregate state: callers get a fresh fold on every request.
func ComputeAggregates(invoices []Invoice, now time.Time) DashboardMetrics {
	m := DashboardMetrics{
		TotalRevenue:     decimal.Zero,
		TotalOutstanding: decimal.Zero,
		TotalInvoices:    len(invoices),
	}
	for i := range invoices {
		inv := &invoices[i]
		switch ResolveStatus(inv, now) {
		case StatusPaid:
			m.TotalRevenue = m.TotalRevenue.Add(inv.Total)
		case StatusOverdue:
			m.OverdueCount++
			m.TotalOutstanding = m.TotalOutstanding.Add(BalanceDue(inv))
		default:
			m.TotalOutstanding = m.TotalOutstanding.Add(BalanceDue(inv))
		}
	}
	return m
}
