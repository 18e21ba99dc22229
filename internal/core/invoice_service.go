package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LineItemInput is one candidate line on a new invoice.
type LineItemInput struct {
	ItemName  string
	Quantity  int
	UnitPrice decimal.Decimal
}

// InvoiceInput holds the fields required to create a new invoice. Totals
// are derived, never supplied.
type InvoiceInput struct {
	ClientID  string
	IssueDate time.Time
	DueDate   time.Time
	Items     []LineItemInput
}

// PaymentResult is the outcome of a successful payment recording.
type PaymentResult struct {
	Invoice    *Invoice
	BalanceDue decimal.Decimal
}

// InvoiceService manages the invoice lifecycle and its payment ledger.
// Every invoice returned has its Status freshly resolved; the stored
// status column is never used for display.
type InvoiceService interface {
	// CreateInvoice computes totals, assigns an invoice number, and
	// persists the invoice with its line items.
	CreateInvoice(ctx context.Context, input InvoiceInput) (*Invoice, error)

	// GetInvoice returns a fully populated invoice by id.
	GetInvoice(ctx context.Context, id string) (*Invoice, error)

	// GetInvoices returns all invoices, newest issue date first,
	// optionally filtered by resolved status.
	GetInvoices(ctx context.Context, status *InvoiceStatus) ([]Invoice, error)

	// RecordPayment appends a payment to the invoice's ledger after
	// validating it against the balance due. Serialized per invoice via a
	// row lock, so concurrent payments cannot both read a stale balance.
	RecordPayment(ctx context.Context, invoiceID string, amount decimal.Decimal, method PaymentMethod) (*PaymentResult, error)

	// OverrideStatus is the administrative "mark as paid" action, distinct
	// from payment recording. PAID sets the paid override flag, UNPAID
	// clears it. OVERDUE cannot be forced: it is derived from the due date.
	OverrideStatus(ctx context.Context, invoiceID string, status InvoiceStatus) (*Invoice, error)

	// GetMetrics folds the current invoice collection into dashboard
	// aggregates, resolved at the given moment.
	GetMetrics(ctx context.Context, now time.Time) (*DashboardMetrics, error)
}

type invoiceService struct {
	pool *pgxpool.Pool
}

// NewInvoiceService constructs an InvoiceService backed by PostgreSQL.
func NewInvoiceService(pool *pgxpool.Pool) InvoiceService {
	return &invoiceService{pool: pool}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, input InvoiceInput) (*Invoice, error) {
	if input.DueDate.Before(input.IssueDate) {
		return nil, NewValidationError("due date %s is before issue date %s",
			input.DueDate.Format("2006-01-02"), input.IssueDate.Format("2006-01-02"))
	}

	items := make([]LineItem, len(input.Items))
	for i, in := range input.Items {
		if in.ItemName == "" {
			return nil, NewValidationError("line item %d has no name", i+1)
		}
		items[i] = LineItem{
			ID:        uuid.NewString(),
			ItemName:  in.ItemName,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		}
	}

	totals, err := ComputeTotals(items)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var clientName string
	err = tx.QueryRow(ctx, "SELECT name FROM clients WHERE id = $1", input.ClientID).Scan(&clientName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "client", ID: input.ClientID}
		}
		return nil, fmt.Errorf("failed to fetch client %s: %w", input.ClientID, err)
	}

	// Invoice numbers are sequential from INV-1001. The count is read
	// inside the transaction so concurrent creators see a consistent seed.
	var count int
	if err := tx.QueryRow(ctx, "SELECT count(*) FROM invoices").Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}
	invoiceNumber := fmt.Sprintf("INV-%d", count+1001)

	inv := &Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: invoiceNumber,
		ClientID:      input.ClientID,
		ClientName:    clientName,
		IssueDate:     input.IssueDate,
		DueDate:       input.DueDate,
		Items:         items,
		Subtotal:      totals.Subtotal,
		TaxAmount:     totals.TaxAmount,
		Total:         totals.Total,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (id, invoice_number, client_id, issue_date, due_date, subtotal, tax_amount, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, inv.ID, inv.InvoiceNumber, inv.ClientID, inv.IssueDate, inv.DueDate,
		inv.Subtotal, inv.TaxAmount, inv.Total).Scan(&inv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert invoice: %w", err)
	}

	for pos, item := range items {
		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_items (id, invoice_id, item_name, quantity, unit_price, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, item.ID, inv.ID, item.ItemName, item.Quantity, item.UnitPrice, pos)
		if err != nil {
			return nil, fmt.Errorf("failed to insert line item: %w", err)
		}
	}

	logActivity(ctx, tx, "Invoice", inv.ID, "CREATE",
		fmt.Sprintf("Invoice %s created for %s, total %s.", inv.InvoiceNumber, clientName, inv.Total.StringFixed(2)))

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice: %w", err)
	}

	inv.Status = ResolveStatus(inv, time.Now().UTC())
	return inv, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	inv, err := fetchInvoiceQ(ctx, s.pool, id, false)
	if err != nil {
		return nil, err
	}
	inv.Status = ResolveStatus(inv, time.Now().UTC())
	return inv, nil
}

func (s *invoiceService) GetInvoices(ctx context.Context, status *InvoiceStatus) ([]Invoice, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.invoice_number, i.client_id, c.name, i.issue_date, i.due_date,
		       i.subtotal, i.tax_amount, i.total, i.paid_override, i.created_at,
		       COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.invoice_id = i.id), 0)
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		ORDER BY i.issue_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	now := time.Now().UTC()
	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		var paid decimal.Decimal
		if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &inv.ClientName,
			&inv.IssueDate, &inv.DueDate, &inv.Subtotal, &inv.TaxAmount, &inv.Total,
			&inv.PaidOverride, &inv.CreatedAt, &paid); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		// Synthesize a single ledger total so status resolution over the
		// list view does not need every payment row.
		if paid.IsPositive() {
			inv.Payments = []Payment{{Amount: paid}}
		}
		inv.Status = ResolveStatus(&inv, now)
		inv.Payments = nil
		if status != nil && inv.Status != *status {
			continue
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (s *invoiceService) RecordPayment(ctx context.Context, invoiceID string, amount decimal.Decimal, method PaymentMethod) (*PaymentResult, error) {
	if !ValidPaymentMethod(method) {
		return nil, NewValidationError("unknown payment method: %s", method)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Row lock on the invoice header serializes concurrent payments
	// against the same invoice: the balance is read, compared, and the
	// new payment written all under the same lock.
	inv, err := fetchInvoiceQ(ctx, tx, invoiceID, true)
	if err != nil {
		return nil, err
	}

	if err := ValidatePaymentAmount(inv, amount); err != nil {
		return nil, err
	}

	p := Payment{
		ID:     uuid.NewString(),
		Amount: amount,
		Method: method,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO payments (id, invoice_id, amount, method)
		VALUES ($1, $2, $3, $4)
		RETURNING payment_date
	`, p.ID, invoiceID, p.Amount, p.Method).Scan(&p.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment: %w", err)
	}
	inv.Payments = append(inv.Payments, p)

	logActivity(ctx, tx, "Payment", inv.ID, "CREATE",
		fmt.Sprintf("Payment of %s recorded for invoice %s.", amount.StringFixed(2), inv.InvoiceNumber))

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	inv.Status = ResolveStatus(inv, time.Now().UTC())
	return &PaymentResult{Invoice: inv, BalanceDue: BalanceDue(inv)}, nil
}

func (s *invoiceService) OverrideStatus(ctx context.Context, invoiceID string, status InvoiceStatus) (*Invoice, error) {
	var override bool
	switch status {
	case StatusPaid:
		override = true
	case StatusUnpaid:
		override = false
	case StatusOverdue:
		return nil, NewValidationError("status OVERDUE is derived from the due date and cannot be forced")
	default:
		return nil, NewValidationError("unknown status: %s", status)
	}

	tag, err := s.pool.Exec(ctx, "UPDATE invoices SET paid_override = $2 WHERE id = $1", invoiceID, override)
	if err != nil {
		return nil, fmt.Errorf("failed to update paid override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &NotFoundError{Entity: "invoice", ID: invoiceID}
	}

	logActivity(ctx, s.pool, "Invoice", invoiceID, "STATUS_OVERRIDE",
		fmt.Sprintf("Manual status override set to %s.", status))
	return s.GetInvoice(ctx, invoiceID)
}

func (s *invoiceService) GetMetrics(ctx context.Context, now time.Time) (*DashboardMetrics, error) {
	invoices, err := s.GetInvoices(ctx, nil)
	if err != nil {
		return nil, err
	}
	// GetInvoices drops payment rows after resolving status, so refetch
	// the paid sums for the balance arithmetic in the fold.
	rows, err := s.pool.Query(ctx, `
		SELECT invoice_id, SUM(amount) FROM payments GROUP BY invoice_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment sums: %w", err)
	}
	defer rows.Close()

	paidByInvoice := make(map[string]decimal.Decimal)
	for rows.Next() {
		var id string
		var sum decimal.Decimal
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan payment sum: %w", err)
		}
		paidByInvoice[id] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range invoices {
		if paid, ok := paidByInvoice[invoices[i].ID]; ok {
			invoices[i].Payments = []Payment{{Amount: paid}}
		}
	}

	m := ComputeAggregates(invoices, now)
	return &m, nil
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling
// shared fetch helpers inside and outside transactions.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// fetchInvoiceQ loads a fully populated invoice. With forUpdate set the
// header row is locked for the duration of the enclosing transaction.
func fetchInvoiceQ(ctx context.Context, q pgxQuerier, id string, forUpdate bool) (*Invoice, error) {
	headerSQL := `
		SELECT i.id, i.invoice_number, i.client_id, c.name, i.issue_date, i.due_date,
		       i.subtotal, i.tax_amount, i.total, i.paid_override, i.created_at
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE i.id = $1`
	if forUpdate {
		headerSQL += " FOR UPDATE OF i"
	}

	inv := &Invoice{}
	err := q.QueryRow(ctx, headerSQL, id).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &inv.ClientName,
		&inv.IssueDate, &inv.DueDate, &inv.Subtotal, &inv.TaxAmount, &inv.Total,
		&inv.PaidOverride, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "invoice", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch invoice %s: %w", id, err)
	}

	itemRows, err := q.Query(ctx, `
		SELECT id, item_name, quantity, unit_price
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var item LineItem
		if err := itemRows.Scan(&item.ID, &item.ItemName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		inv.Items = append(inv.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	payRows, err := q.Query(ctx, `
		SELECT id, amount, method, payment_date
		FROM payments
		WHERE invoice_id = $1
		ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer payRows.Close()
	for payRows.Next() {
		var p Payment
		if err := payRows.Scan(&p.ID, &p.Amount, &p.Method, &p.PaymentDate); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		inv.Payments = append(inv.Payments, p)
	}
	return inv, payRows.Err()
}
