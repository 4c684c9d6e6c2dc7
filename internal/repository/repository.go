package repository

import (
	"context"
	"time"

	"identity-console/internal/domain"
)

type AccessRequestRepository interface {
	Create(ctx context.Context, req *domain.AccessRequest) error
	GetByID(ctx context.Context, id string) (*domain.AccessRequest, error)
	Update(ctx context.Context, req *domain.AccessRequest) error
	// Put inserts or replaces the request by id. Used by backup import.
	Put(ctx context.Context, req *domain.AccessRequest) error
	List(ctx context.Context) ([]domain.AccessRequest, error)
}

type IdentityRepository interface {
	// Upsert inserts or replaces the identity keyed by email.
	Upsert(ctx context.Context, identity *domain.Identity) error
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	List(ctx context.Context) ([]domain.Identity, error)
}

type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	Update(ctx context.Context, group *domain.Group) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Group, error)
}

type SyncRecordRepository interface {
	Create(ctx context.Context, rec *domain.SyncRecord) error
	GetByID(ctx context.Context, id string) (*domain.SyncRecord, error)
	List(ctx context.Context) ([]domain.SyncRecord, error)
	ListPending(ctx context.Context) ([]domain.SyncRecord, error)
	MarkSynced(ctx context.Context, id string) error
}

type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
}
