package service

import (
	"context"
	"encoding/json"
	"time"

	"identity-console/internal/domain"
	"identity-console/internal/logger"
	"identity-console/internal/repository"

	"github.com/google/uuid"
)

// SyncRecorder appends pending change-log records alongside access-request
// and identity mutations. Records are best effort: a failed append never
// fails the mutation it describes.
type SyncRecorder struct {
	repo repository.SyncRecordRepository
}

func NewSyncRecorder(repo repository.SyncRecordRepository) *SyncRecorder {
	return &SyncRecorder{repo: repo}
}

func (r *SyncRecorder) Record(ctx context.Context, entity domain.SyncEntity, action domain.SyncAction, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to encode sync payload", "entity", entity, "action", action, "error", err)
		return
	}
	rec := &domain.SyncRecord{
		ID:        uuid.NewString(),
		Entity:    entity,
		Action:    action,
		Payload:   data,
		CreatedAt: time.Now().UTC(),
		Status:    domain.SyncStatusPending,
	}
	if err := r.repo.Create(ctx, rec); err != nil {
		logger.Error("Failed to create sync record", "entity", entity, "action", action, "error", err)
	}
}
