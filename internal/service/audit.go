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

const defaultAuditLimit = 100

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// Append writes a trail entry. A failed write must not mask the outcome of
// the operation being audited, so errors are logged and swallowed.
func (s *auditService) Append(ctx context.Context, level domain.AuditLevel, message string, details map[string]any) {
	entry := &domain.AuditEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
	}
	if len(details) > 0 {
		data, err := json.Marshal(details)
		if err != nil {
			logger.Error("Failed to encode audit details", "message", message, "error", err)
		} else {
			entry.Details = data
		}
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		logger.Error("Failed to append audit entry", "message", message, "error", err)
	}
}

func (s *auditService) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.repo.Recent(ctx, limit)
}

func (s *auditService) Prune(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	return s.repo.DeleteOlderThan(ctx, cutoff)
}
