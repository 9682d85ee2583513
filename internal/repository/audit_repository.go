package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AuditRepository stores the append-only user-management trail.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	ListByTarget(ctx context.Context, targetID string, limit int) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds a Postgres-backed audit repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO audit_log (id, action, actor_id, target_id, details, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		string(entry.Action),
		entry.ActorID,
		entry.TargetID,
		entry.Details,
		entry.CreatedAt,
	)
	return err
}

func (r *auditRepository) ListByTarget(ctx context.Context, targetID string, limit int) ([]domain.AuditEntry, error) {
	const query = `
        SELECT id, action, actor_id, target_id, details, created_at
        FROM audit_log WHERE target_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, targetID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var (
			entry  domain.AuditEntry
			action string
		)
		if err := rows.Scan(
			&entry.ID,
			&action,
			&entry.ActorID,
			&entry.TargetID,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry.Action = domain.AuditAction(action)
		result = append(result, entry)
	}
	return result, rows.Err()
}
