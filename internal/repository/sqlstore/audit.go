package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"identity-console/internal/domain"
)

type auditRepository struct {
	q *queryer
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	query := `INSERT INTO audit_log (id, ts, level, message, details) VALUES (?, ?, ?, ?, ?)`
	var details sql.NullString
	if len(entry.Details) > 0 {
		details = sql.NullString{String: string(entry.Details), Valid: true}
	}
	_, err := r.q.ExecContext(ctx, query, entry.ID, entry.Timestamp, entry.Level, entry.Message, details)
	return err
}

func (r *auditRepository) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	query := `SELECT id, ts, level, message, details FROM audit_log ORDER BY ts DESC LIMIT ?`
	rows, err := r.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var details sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.Level, &entry.Message, &details); err != nil {
			return nil, err
		}
		if details.Valid {
			entry.Details = []byte(details.String)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *auditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM audit_log WHERE ts < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
