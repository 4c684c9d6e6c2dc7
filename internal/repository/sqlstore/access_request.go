package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"identity-console/internal/domain"
)

type accessRequestRepository struct {
	q *queryer
}

func (r *accessRequestRepository) Create(ctx context.Context, req *domain.AccessRequest) error {
	query := `INSERT INTO access_requests (id, full_name, email, department, status, request_type, group_id, submitted_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		req.ID, req.FullName, req.Email, req.Department, req.Status, req.RequestType, req.GroupID, req.SubmittedAt)
	return err
}

func (r *accessRequestRepository) Put(ctx context.Context, req *domain.AccessRequest) error {
	query := `INSERT INTO access_requests (id, full_name, email, department, status, request_type, group_id, submitted_at, decided_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	          ON CONFLICT (id) DO UPDATE SET
	            full_name = excluded.full_name,
	            email = excluded.email,
	            department = excluded.department,
	            status = excluded.status,
	            request_type = excluded.request_type,
	            group_id = excluded.group_id,
	            submitted_at = excluded.submitted_at,
	            decided_at = excluded.decided_at`
	var decidedAt sql.NullTime
	if req.DecidedAt != nil {
		decidedAt = sql.NullTime{Time: *req.DecidedAt, Valid: true}
	}
	_, err := r.q.ExecContext(ctx, query,
		req.ID, req.FullName, req.Email, req.Department, req.Status, req.RequestType, req.GroupID, req.SubmittedAt, decidedAt)
	return err
}

func (r *accessRequestRepository) GetByID(ctx context.Context, id string) (*domain.AccessRequest, error) {
	query := `SELECT id, full_name, email, department, status, request_type, group_id, submitted_at, decided_at
	          FROM access_requests WHERE id = ?`
	req, err := scanAccessRequest(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *accessRequestRepository) Update(ctx context.Context, req *domain.AccessRequest) error {
	query := `UPDATE access_requests SET full_name = ?, email = ?, department = ?, status = ?, request_type = ?, group_id = ?, submitted_at = ?, decided_at = ?
	          WHERE id = ?`
	var decidedAt sql.NullTime
	if req.DecidedAt != nil {
		decidedAt = sql.NullTime{Time: *req.DecidedAt, Valid: true}
	}
	res, err := r.q.ExecContext(ctx, query,
		req.FullName, req.Email, req.Department, req.Status, req.RequestType, req.GroupID, req.SubmittedAt, decidedAt, req.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accessRequestRepository) List(ctx context.Context) ([]domain.AccessRequest, error) {
	query := `SELECT id, full_name, email, department, status, request_type, group_id, submitted_at, decided_at
	          FROM access_requests ORDER BY submitted_at DESC`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.AccessRequest
	for rows.Next() {
		req, err := scanAccessRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccessRequest(row rowScanner) (*domain.AccessRequest, error) {
	req := &domain.AccessRequest{}
	var decidedAt sql.NullTime
	err := row.Scan(&req.ID, &req.FullName, &req.Email, &req.Department, &req.Status, &req.RequestType, &req.GroupID, &req.SubmittedAt, &decidedAt)
	if err != nil {
		return nil, err
	}
	if decidedAt.Valid {
		t := decidedAt.Time
		req.DecidedAt = &t
	}
	return req, nil
}
