package core

import "github.com/shopspring/decimal"

// TaxRate is the single global flat tax rate applied to every invoice.
var TaxRate = decimal.NewFromFloat(0.10)

// Epsilon absorbs float round-trips from user input when comparing money
// values. It is a tolerance, not a license to overpay.
var Epsilon = decimal.NewFromFloat(0.001)

// Round2 rounds a money value to 2 decimal places, half up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Totals holds the derived monetary totals of an invoice.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
}

// ValidateLineItem enforces the line item rules: quantity must be a
// positive integer and unit price a non-negative 2-decimal money value.
func ValidateLineItem(item LineItem) error {
	if item.Quantity < 1 {
		return NewValidationError("quantity must be a positive integer, got %d", item.Quantity)
	}
	if item.UnitPrice.IsNegative() {
		return NewValidationError("unit price cannot be negative, got %s", item.UnitPrice)
	}
	if !item.UnitPrice.Equal(item.UnitPrice.Round(2)) {
		return NewValidationError("unit price must have at most 2 decimal places, got %s", item.UnitPrice)
	}
	return nil
}

// LineTotal computes quantity * unitPrice rounded to 2 decimals.
func LineTotal(item LineItem) (decimal.Decimal, error) {
	if err := ValidateLineItem(item); err != nil {
		return decimal.Zero, err
	}
	return Round2(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))), nil
}

// Subtotal computes the rounded sum of all line totals.
func Subtotal(items []LineItem) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, item := range items {
		lt, err := LineTotal(item)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(lt)
	}
	return Round2(sum), nil
}

// ComputeTotals derives subtotal, tax, and total for a set of line items.
// Each aggregation step is rounded independently, so recomputation over the
// same inputs is bit-for-bit idempotent.
func ComputeTotals(items []LineItem) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, NewValidationError("invoice must have at least one line item")
	}
	sub, err := Subtotal(items)
	if err != nil {
		return Totals{}, err
	}
	tax := Round2(sub.Mul(TaxRate))
	return Totals{
		Subtotal:  sub,
		TaxAmount: tax,
		Total:     Round2(sub.Add(tax)),
	}, nil
}
