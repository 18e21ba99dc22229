package core

import "github.com/shopspring/decimal"

// AmountPaid sums every payment recorded against the invoice.
func AmountPaid(inv *Invoice) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range inv.Payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// BalanceDue is the invoice total minus the amount already paid.
func BalanceDue(inv *Invoice) decimal.Decimal {
	return inv.Total.Sub(AmountPaid(inv))
}

// ValidatePaymentAmount checks a candidate payment against the current
// balance. Amounts must be positive and may not exceed the balance due by
// more than Epsilon.
func ValidatePaymentAmount(inv *Invoice, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("payment amount must be positive, got %s", amount)
	}
	balance := BalanceDue(inv)
	if amount.GreaterThan(balance.Add(Epsilon)) {
		return NewValidationError("payment of %s exceeds balance due of %s",
			amount.StringFixed(2), balance.StringFixed(2))
	}
	return nil
}
