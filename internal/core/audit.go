package core

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxExecer is satisfied by *pgxpool.Pool and pgx.Tx, so audit entries can
// be written either standalone or inside an enclosing transaction.
type pgxExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// logActivity appends an audit log entry. Audit logging is best-effort:
// a failure is logged but never fails the business operation it annotates.
func logActivity(ctx context.Context, q pgxExecer, entityType, entityID, action, details string) {
	_, err := q.Exec(ctx, `
		INSERT INTO audit_logs (id, entity_type, entity_id, action, details)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), entityType, entityID, action, details)
	if err != nil {
		log.Printf("audit log write failed: %v", err)
	}
}

// AuditService reads the activity feed.
type AuditService interface {
	// GetAuditLogs returns the most recent audit entries, newest first.
	GetAuditLogs(ctx context.Context, limit int) ([]AuditLog, error)
}

type auditService struct {
	pool *pgxpool.Pool
}

// NewAuditService constructs an AuditService backed by PostgreSQL.
func NewAuditService(pool *pgxpool.Pool) AuditService {
	return &auditService{pool: pool}
}

func (s *auditService) GetAuditLogs(ctx context.Context, limit int) ([]AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, timestamp, entity_type, entity_id, action, COALESCE(details, '')
		FROM audit_logs
		ORDER BY timestamp DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var logs []AuditLog
	for rows.Next() {
		var a AuditLog
		if err := rows.Scan(&a.ID, &a.Timestamp, &a.EntityType, &a.EntityID, &a.Action, &a.Details); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}
