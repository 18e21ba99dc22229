package core

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// ImportRow is one raw candidate client record from a bulk upload.
type ImportRow struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// ImportRowError reports why a single row was rejected. Row is the
// zero-based index of the row in the input sequence.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportReport is the full outcome of a batch validation: every accepted
// client and every per-row rejection. A bad row never blocks the rest of
// the batch.
type ImportReport struct {
	Accepted []Client         `json:"accepted"`
	Errors   []ImportRowError `json:"errors"`
}

// ValidateImportBatch validates and deduplicates a batch of raw client
// rows against the existing client list. Checks run per row in order,
// short-circuiting on the first failure for that row:
//
//  1. name, email, and address non-empty after trimming
//  2. email has valid local@domain.tld syntax
//  3. email not already taken by an existing client or an earlier
//     accepted row in this batch (case-insensitive)
//
// Rows passing all checks are assigned a fresh id and accepted.
func ValidateImportBatch(rows []ImportRow, existing []Client) ImportReport {
	seen := make(map[string]bool, len(existing)+len(rows))
	for _, c := range existing {
		seen[strings.ToLower(strings.TrimSpace(c.Email))] = true
	}

	report := ImportReport{}
	now := time.Now().UTC()

	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		email := strings.TrimSpace(row.Email)
		address := strings.TrimSpace(row.Address)

		if field := firstMissingField(name, email, address); field != "" {
			report.Errors = append(report.Errors, ImportRowError{
				Row:    i,
				Reason: "missing required field: " + field,
			})
			continue
		}

		if err := validate.Var(email, "email"); err != nil {
			report.Errors = append(report.Errors, ImportRowError{
				Row:    i,
				Reason: "invalid email address: " + email,
			})
			continue
		}

		key := strings.ToLower(email)
		if seen[key] {
			report.Errors = append(report.Errors, ImportRowError{
				Row:    i,
				Reason: "duplicate email address: " + email,
			})
			continue
		}
		seen[key] = true

		report.Accepted = append(report.Accepted, Client{
			ID:        uuid.NewString(),
			Name:      name,
			Email:     email,
			Address:   address,
			CreatedAt: now,
		})
	}

	return report
}

func firstMissingField(name, email, address string) string {
	switch {
	case name == "":
		return "name"
	case email == "":
		return "email"
	case address == "":
		return "address"
	}
	return ""
}
