package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"identity-console/internal/domain"
)

type identityRepository struct {
	q *queryer
}

func (r *identityRepository) Upsert(ctx context.Context, identity *domain.Identity) error {
	query := `INSERT INTO identities (email, full_name, department, source, status, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)
	          ON CONFLICT (email) DO UPDATE SET
	            full_name = excluded.full_name,
	            department = excluded.department,
	            source = excluded.source,
	            status = excluded.status`
	_, err := r.q.ExecContext(ctx, query,
		identity.Email, identity.FullName, identity.Department, identity.Source, identity.Status, identity.CreatedAt)
	return err
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	query := `SELECT email, full_name, department, source, status, created_at FROM identities WHERE email = ?`
	identity := &domain.Identity{}
	err := r.q.QueryRowContext(ctx, query, email).Scan(
		&identity.Email, &identity.FullName, &identity.Department, &identity.Source, &identity.Status, &identity.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return identity, nil
}

func (r *identityRepository) List(ctx context.Context) ([]domain.Identity, error) {
	query := `SELECT email, full_name, department, source, status, created_at FROM identities ORDER BY created_at DESC`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var identities []domain.Identity
	for rows.Next() {
		var identity domain.Identity
		if err := rows.Scan(&identity.Email, &identity.FullName, &identity.Department, &identity.Source, &identity.Status, &identity.CreatedAt); err != nil {
			return nil, err
		}
		identities = append(identities, identity)
	}
	return identities, rows.Err()
}
