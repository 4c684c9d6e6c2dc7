package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"identity-console/internal/repository"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store aggregates the per-collection repositories over one database handle.
type Store struct {
	db *sql.DB
	repository.AccessRequestRepository
	repository.IdentityRepository
	repository.GroupRepository
	repository.SyncRecordRepository
	repository.AuditRepository
	repository.SettingsRepository
}

// Open connects to the configured database and ensures the schema exists.
// driver is "sqlite" or "postgres".
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	name := strings.ToLower(driver)
	if name != "sqlite" && name != "postgres" {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := initSchema(ctx, db, name); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return NewStore(db, name == "postgres"), nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewStore builds a Store over an existing handle. postgres selects $N
// placeholder rebinding; otherwise queries run with ? placeholders.
func NewStore(db *sql.DB, postgres bool) *Store {
	q := newQueryer(db, postgres)
	return &Store{
		db:                      db,
		AccessRequestRepository: &accessRequestRepository{q},
		IdentityRepository:      &identityRepository{q},
		GroupRepository:         &groupRepository{q},
		SyncRecordRepository:    &syncRecordRepository{q},
		AuditRepository:         &auditRepository{q},
		SettingsRepository:      &settingsRepository{q},
	}
}

// queryer rewrites ? placeholders to $N for PostgreSQL so the repositories
// can share one set of queries across both drivers.
type queryer struct {
	db       *sql.DB
	postgres bool
}

func newQueryer(db *sql.DB, postgres bool) *queryer {
	return &queryer{db: db, postgres: postgres}
}

func (q *queryer) rebind(query string) string {
	if !q.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (q *queryer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.db.ExecContext(ctx, q.rebind(query), args...)
}

func (q *queryer) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, q.rebind(query), args...)
}

func (q *queryer) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return q.db.QueryRowContext(ctx, q.rebind(query), args...)
}

// initSchema creates missing collections. Existing tables are left untouched,
// so upgrades only ever add stores.
func initSchema(ctx context.Context, db *sql.DB, driver string) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS access_requests (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL,
			department TEXT NOT NULL,
			status TEXT NOT NULL,
			request_type TEXT NOT NULL,
			group_id TEXT NOT NULL DEFAULT '',
			submitted_at TIMESTAMP NOT NULL,
			decided_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS identities (
			email TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			department TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS access_groups (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			members TEXT NOT NULL DEFAULT '[]',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sync_records (
			id TEXT PRIMARY KEY,
			entity TEXT NOT NULL,
			action TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id TEXT PRIMARY KEY,
			ts TIMESTAMP NOT NULL,
			level TEXT NOT NULL,
			message TEXT NOT NULL,
			details TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("driver %s: %w", driver, err)
		}
	}
	return nil
}
