package repository

import (
	"context"
	"fmt"

	"evote-api/internal/domain"
	"evote-api/pkg/database"
)

type AuditRepository struct {
	db *database.PostgresDB
}

func NewAuditRepository(db *database.PostgresDB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append writes one audit trail entry. The table is append-only; nothing in
// this service updates or deletes from it.
func (r *AuditRepository) Append(ctx context.Context, entry *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (user_id, action, details, election_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		entry.UserID,
		entry.Action,
		entry.Details,
		entry.ElectionID,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}

	return nil
}

// ListByElection returns the most recent audit entries for an election
func (r *AuditRepository) ListByElection(ctx context.Context, electionID int, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, user_id, action, details, election_id, created_at
		FROM audit_logs
		WHERE election_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, electionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditLog
	for rows.Next() {
		var entry domain.AuditLog
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.Details,
			&entry.ElectionID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
