package core

import "time"

// ResolveStatus derives the display status of an invoice at the given
// moment. It is a pure function of the invoice's total, payments, due date,
// and paid override; it never reads or writes the stored status column.
//
// Precedence:
//  1. Balance due within Epsilon of zero → PAID, regardless of due date.
//  2. Administrative paid override set → PAID.
//  3. Past the due date → OVERDUE.
//  4. Otherwise → UNPAID.
func ResolveStatus(inv *Invoice, now time.Time) InvoiceStatus {
	if BalanceDue(inv).LessThanOrEqual(Epsilon) {
		return StatusPaid
	}
	if inv.PaidOverride {
		return StatusPaid
	}
	if now.After(inv.DueDate) {
		return StatusOverdue
	}
	return StatusUnpaid
}
