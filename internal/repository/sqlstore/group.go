package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"identity-console/internal/domain"
)

type groupRepository struct {
	q *queryer
}

func (r *groupRepository) Create(ctx context.Context, group *domain.Group) error {
	members, err := encodeMembers(group.Members)
	if err != nil {
		return err
	}
	query := `INSERT INTO access_groups (id, name, description, members, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err = r.q.ExecContext(ctx, query, group.ID, group.Name, group.Description, members, group.CreatedAt)
	return err
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	query := `SELECT id, name, description, members, created_at FROM access_groups WHERE id = ?`
	group, err := scanGroup(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (r *groupRepository) Update(ctx context.Context, group *domain.Group) error {
	members, err := encodeMembers(group.Members)
	if err != nil {
		return err
	}
	query := `UPDATE access_groups SET name = ?, description = ?, members = ? WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query, group.Name, group.Description, members, group.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM access_groups WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *groupRepository) List(ctx context.Context) ([]domain.Group, error) {
	query := `SELECT id, name, description, members, created_at FROM access_groups ORDER BY created_at`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *group)
	}
	return groups, rows.Err()
}

func scanGroup(row rowScanner) (*domain.Group, error) {
	group := &domain.Group{}
	var members string
	if err := row.Scan(&group.ID, &group.Name, &group.Description, &members, &group.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(members), &group.Members); err != nil {
		return nil, fmt.Errorf("failed to decode group members: %w", err)
	}
	return group, nil
}

func encodeMembers(members []string) (string, error) {
	if members == nil {
		members = []string{}
	}
	data, err := json.Marshal(members)
	if err != nil {
		return "", fmt.Errorf("failed to encode group members: %w", err)
	}
	return string(data), nil
}
