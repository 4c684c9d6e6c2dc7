package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"identity-console/internal/domain"
)

type syncRecordRepository struct {
	q *queryer
}

func (r *syncRecordRepository) Create(ctx context.Context, rec *domain.SyncRecord) error {
	query := `INSERT INTO sync_records (id, entity, action, payload, created_at, status) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		rec.ID, rec.Entity, rec.Action, string(rec.Payload), rec.CreatedAt, rec.Status)
	return err
}

func (r *syncRecordRepository) GetByID(ctx context.Context, id string) (*domain.SyncRecord, error) {
	query := `SELECT id, entity, action, payload, created_at, status FROM sync_records WHERE id = ?`
	rec, err := scanSyncRecord(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *syncRecordRepository) List(ctx context.Context) ([]domain.SyncRecord, error) {
	return r.list(ctx, `SELECT id, entity, action, payload, created_at, status FROM sync_records ORDER BY created_at`)
}

func (r *syncRecordRepository) ListPending(ctx context.Context) ([]domain.SyncRecord, error) {
	return r.list(ctx, `SELECT id, entity, action, payload, created_at, status FROM sync_records WHERE status = 'pending' ORDER BY created_at`)
}

func (r *syncRecordRepository) list(ctx context.Context, query string, args ...any) ([]domain.SyncRecord, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.SyncRecord
	for rows.Next() {
		rec, err := scanSyncRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

func (r *syncRecordRepository) MarkSynced(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `UPDATE sync_records SET status = 'synced' WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSyncRecord(row rowScanner) (*domain.SyncRecord, error) {
	rec := &domain.SyncRecord{}
	var payload string
	if err := row.Scan(&rec.ID, &rec.Entity, &rec.Action, &payload, &rec.CreatedAt, &rec.Status); err != nil {
		return nil, err
	}
	rec.Payload = []byte(payload)
	return rec, nil
}
