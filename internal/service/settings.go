package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"identity-console/internal/domain"
	"identity-console/internal/repository"
)

type settingsService struct {
	repo     repository.SettingsRepository
	auditSvc AuditService
}

func NewSettingsService(repo repository.SettingsRepository, auditSvc AuditService) SettingsService {
	return &settingsService{repo: repo, auditSvc: auditSvc}
}

// WorkflowURL returns the configured endpoint, or "" when none is saved.
func (s *settingsService) WorkflowURL(ctx context.Context) (string, error) {
	value, err := s.repo.Get(ctx, domain.SettingWorkflowURL)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	return value, err
}

func (s *settingsService) SaveWorkflowURL(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return invalidf("invalid workflow URL: %s", rawURL)
	}
	if err := s.repo.Put(ctx, domain.SettingWorkflowURL, rawURL); err != nil {
		return fmt.Errorf("failed to save workflow URL: %w", err)
	}
	s.auditSvc.Append(ctx, domain.AuditLevelInfo, "Workflow URL saved", map[string]any{"url": rawURL})
	return nil
}

// DirectorySettings returns the saved configuration, or a disabled zero
// configuration when none exists yet.
func (s *settingsService) DirectorySettings(ctx context.Context) (*domain.DirectorySettings, error) {
	value, err := s.repo.Get(ctx, domain.SettingDirectory)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.DirectorySettings{}, nil
	}
	if err != nil {
		return nil, err
	}
	settings := &domain.DirectorySettings{}
	if err := json.Unmarshal([]byte(value), settings); err != nil {
		return nil, fmt.Errorf("failed to decode directory settings: %w", err)
	}
	return settings, nil
}

func (s *settingsService) SaveDirectorySettings(ctx context.Context, settings *domain.DirectorySettings) error {
	settings.URL = strings.TrimSpace(settings.URL)
	settings.BindDN = strings.TrimSpace(settings.BindDN)
	settings.BindPassword = strings.TrimSpace(settings.BindPassword)
	settings.BaseDN = strings.TrimSpace(settings.BaseDN)
	settings.UserContainer = strings.TrimSpace(settings.UserContainer)

	if settings.URL == "" {
		return invalidf("server URL is required")
	}
	if !strings.HasPrefix(settings.URL, "ldap://") && !strings.HasPrefix(settings.URL, "ldaps://") {
		return invalidf("invalid LDAP URL format, must start with ldap:// or ldaps://")
	}
	if settings.BindDN == "" {
		return invalidf("bind DN is required")
	}
	if settings.BindPassword == "" {
		return invalidf("bind password is required")
	}
	if settings.BaseDN == "" {
		return invalidf("base DN is required")
	}
	if settings.UserContainer == "" {
		return invalidf("user container is required")
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode directory settings: %w", err)
	}
	if err := s.repo.Put(ctx, domain.SettingDirectory, string(data)); err != nil {
		return fmt.Errorf("failed to save directory settings: %w", err)
	}
	s.auditSvc.Append(ctx, domain.AuditLevelInfo, "Directory configuration updated",
		map[string]any{"url": settings.URL, "baseDN": settings.BaseDN, "userContainer": settings.UserContainer})
	return nil
}
