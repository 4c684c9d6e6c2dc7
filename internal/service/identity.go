package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"identity-console/internal/domain"
	"identity-console/internal/repository"
)

type identityService struct {
	identityRepo repository.IdentityRepository
	settingsSvc  SettingsService
	directory    DirectoryProvisioner
	auditSvc     AuditService
	syncRecorder *SyncRecorder
}

func NewIdentityService(
	identityRepo repository.IdentityRepository,
	settingsSvc SettingsService,
	directory DirectoryProvisioner,
	auditSvc AuditService,
	syncRecorder *SyncRecorder,
) IdentityService {
	return &identityService{
		identityRepo: identityRepo,
		settingsSvc:  settingsSvc,
		directory:    directory,
		auditSvc:     auditSvc,
		syncRecorder: syncRecorder,
	}
}

// Validate shape-checks a provisioning record. Used at the API boundary and
// for each element of an external workflow response.
func (in *ProvisionInput) Validate() error {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return invalidf("invalid email address: %q", in.Email)
	}
	if strings.TrimSpace(in.FullName) == "" {
		return invalidf("full name is required")
	}
	if strings.TrimSpace(in.Department) == "" {
		return invalidf("department is required")
	}
	return nil
}

func (s *identityService) Provision(ctx context.Context, in ProvisionInput) (*domain.Identity, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	identity := &domain.Identity{
		Email:      in.Email,
		FullName:   strings.TrimSpace(in.FullName),
		Department: strings.TrimSpace(in.Department),
		Source:     in.Source,
		Status:     "active",
		CreatedAt:  time.Now().UTC(),
	}
	if identity.Source == "" {
		identity.Source = domain.IdentitySourceWorkflow
	}

	if err := s.identityRepo.Upsert(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to store identity %s: %w", identity.Email, err)
	}
	s.syncRecorder.Record(ctx, domain.SyncEntityIdentity, domain.SyncActionCreate, identity)

	settings, err := s.settingsSvc.DirectorySettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load directory settings: %w", err)
	}
	if settings.Enabled {
		if err := s.directory.Provision(ctx, identity, settings); err != nil {
			s.auditSvc.Append(ctx, domain.AuditLevelError,
				fmt.Sprintf("Failed to provision to directory: %s", identity.Email),
				map[string]any{"error": err.Error(), "url": settings.URL})
			return nil, fmt.Errorf("directory provisioning failed for %s: %w", identity.Email, err)
		}
		s.auditSvc.Append(ctx, domain.AuditLevelInfo,
			fmt.Sprintf("User provisioned to directory: %s", identity.Email),
			map[string]any{"url": settings.URL})
	} else {
		s.auditSvc.Append(ctx, domain.AuditLevelInfo,
			fmt.Sprintf("User saved to local store only (directory disabled): %s", identity.Email), nil)
	}

	return identity, nil
}

// ProvisionBulk provisions each record independently. Malformed records are
// skipped with a warning and the rest of the batch continues.
func (s *identityService) ProvisionBulk(ctx context.Context, ins []ProvisionInput) (*BulkResult, error) {
	result := &BulkResult{}
	for _, in := range ins {
		if err := in.Validate(); err != nil {
			result.Skipped++
			s.auditSvc.Append(ctx, domain.AuditLevelWarn, "Skipped invalid provisioning record",
				map[string]any{"email": in.Email, "error": err.Error()})
			continue
		}
		identity, err := s.Provision(ctx, in)
		if err != nil {
			result.Failed++
			s.auditSvc.Append(ctx, domain.AuditLevelError, "Failed to provision user",
				map[string]any{"email": in.Email, "error": err.Error()})
			continue
		}
		result.Provisioned++
		result.Emails = append(result.Emails, identity.Email)
	}
	return result, nil
}

func (s *identityService) List(ctx context.Context) ([]domain.Identity, error) {
	return s.identityRepo.List(ctx)
}
