package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientInput holds the fields required to create or update a client.
type ClientInput struct {
	Name    string
	Email   string
	Address string
}

// ClientService provides client master data operations.
type ClientService interface {
	// CreateClient creates a new client record.
	CreateClient(ctx context.Context, input ClientInput) (*Client, error)

	// GetClients returns all clients ordered by name.
	GetClients(ctx context.Context) ([]Client, error)

	// GetClient returns a single client by id.
	GetClient(ctx context.Context, id string) (*Client, error)

	// UpdateClient replaces the client's name, email, and address.
	UpdateClient(ctx context.Context, id string, input ClientInput) (*Client, error)

	// DeleteClient removes the client and cascades to its invoices,
	// line items, and payments. Destructive and irreversible.
	DeleteClient(ctx context.Context, id string) error

	// ImportClients validates a batch of raw rows against existing clients
	// and persists every accepted row. Rejected rows are reported, not
	// fatal: a batch with 8 valid and 2 invalid rows persists the 8.
	ImportClients(ctx context.Context, rows []ImportRow) (*ImportReport, error)
}

type clientService struct {
	pool *pgxpool.Pool
}

// NewClientService constructs a ClientService backed by PostgreSQL.
func NewClientService(pool *pgxpool.Pool) ClientService {
	return &clientService{pool: pool}
}

func (s *clientService) validateInput(input ClientInput) (ClientInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Address = strings.TrimSpace(input.Address)

	if field := firstMissingField(input.Name, input.Email, input.Address); field != "" {
		return input, NewValidationError("missing required field: %s", field)
	}
	if err := validate.Var(input.Email, "email"); err != nil {
		return input, NewValidationError("invalid email address: %s", input.Email)
	}
	return input, nil
}

func (s *clientService) CreateClient(ctx context.Context, input ClientInput) (*Client, error) {
	input, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	c := &Client{}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO clients (id, name, email, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, address, created_at
	`, uuid.NewString(), input.Name, input.Email, input.Address).Scan(
		&c.ID, &c.Name, &c.Email, &c.Address, &c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, NewValidationError("duplicate email address: %s", input.Email)
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return c, nil
}

func (s *clientService) GetClients(ctx context.Context) ([]Client, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, address, created_at
		FROM clients
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Address, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *clientService) GetClient(ctx context.Context, id string) (*Client, error) {
	c := &Client{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, email, address, created_at
		FROM clients
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Address, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "client", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch client %s: %w", id, err)
	}
	return c, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, input ClientInput) (*Client, error) {
	input, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	c := &Client{}
	err = s.pool.QueryRow(ctx, `
		UPDATE clients
		SET name = $2, email = $3, address = $4
		WHERE id = $1
		RETURNING id, name, email, address, created_at
	`, id, input.Name, input.Email, input.Address).Scan(
		&c.ID, &c.Name, &c.Email, &c.Address, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "client", ID: id}
		}
		if isUniqueViolation(err) {
			return nil, NewValidationError("duplicate email address: %s", input.Email)
		}
		return nil, fmt.Errorf("failed to update client %s: %w", id, err)
	}

	logActivity(ctx, s.pool, "Client", c.ID, "UPDATE",
		fmt.Sprintf("Client %q details updated.", c.Name))
	return c, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM clients WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete client %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "client", ID: id}
	}
	logActivity(ctx, s.pool, "Client", id, "DELETE", "Client and all owned invoices deleted.")
	return nil
}

func (s *clientService) ImportClients(ctx context.Context, rows []ImportRow) (*ImportReport, error) {
	existing, err := s.GetClients(ctx)
	if err != nil {
		return nil, err
	}

	report := ValidateImportBatch(rows, existing)

	// Persistence is per accepted row, not all-or-nothing for the batch:
	// a row that fails to insert is moved into the error report and the
	// rest of the batch continues.
	persisted := report.Accepted[:0]
	for _, c := range report.Accepted {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO clients (id, name, email, address, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, c.ID, c.Name, c.Email, c.Address, c.CreatedAt)
		if err != nil {
			report.Errors = append(report.Errors, ImportRowError{
				Row:    -1,
				Reason: fmt.Sprintf("failed to persist %s: %v", c.Email, err),
			})
			continue
		}
		persisted = append(persisted, c)
	}
	report.Accepted = persisted

	if len(report.Accepted) > 0 {
		logActivity(ctx, s.pool, "Client", "Multiple", "IMPORT",
			fmt.Sprintf("Imported %d clients from CSV.", len(report.Accepted)))
	}
	return &report, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
