package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"identity-console/internal/domain"
)

type settingsRepository struct {
	q *queryer
}

func (r *settingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.q.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *settingsRepository) Put(ctx context.Context, key, value string) error {
	query := `INSERT INTO settings (key, value) VALUES (?, ?)
	          ON CONFLICT (key) DO UPDATE SET value = excluded.value`
	_, err := r.q.ExecContext(ctx, query, key, value)
	return err
}
