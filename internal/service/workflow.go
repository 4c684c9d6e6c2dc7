package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"identity-console/internal/domain"
	"identity-console/internal/logger"
)

// maxWorkflowResponse bounds how much of an endpoint's response is read.
const maxWorkflowResponse = 4 << 20

type workflowService struct {
	client      *http.Client
	settingsSvc SettingsService
	identitySvc IdentityService
	auditSvc    AuditService
}

func NewWorkflowService(
	timeout time.Duration,
	settingsSvc SettingsService,
	identitySvc IdentityService,
	auditSvc AuditService,
) WorkflowService {
	return &workflowService{
		client:      &http.Client{Timeout: timeout},
		settingsSvc: settingsSvc,
		identitySvc: identitySvc,
		auditSvc:    auditSvc,
	}
}

func (s *workflowService) endpoint(ctx context.Context) (string, error) {
	url, err := s.settingsSvc.WorkflowURL(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load workflow URL: %w", err)
	}
	if url == "" {
		return "", invalidf("no workflow URL configured")
	}
	return url, nil
}

// Test posts a sample payload to the configured endpoint. Any non-2xx status
// is a failure.
func (s *workflowService) Test(ctx context.Context) error {
	url, err := s.endpoint(ctx)
	if err != nil {
		return err
	}

	payload := ProvisionInput{
		Email:      "test@example.com",
		FullName:   "Test User",
		Department: "IT",
		Source:     domain.IdentitySourceWorkflow,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode test payload: %w", err)
	}

	s.auditSvc.Append(ctx, domain.AuditLevelInfo, "Testing workflow endpoint", map[string]any{"url": url})
	logger.ExternalServiceCall("workflow", "test", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build workflow request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.auditSvc.Append(ctx, domain.AuditLevelError, "Workflow test failed",
			map[string]any{"url": url, "error": err.Error()})
		logger.ExternalServiceResult("workflow", "test", err)
		return fmt.Errorf("workflow call to %s failed: %w", url, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxWorkflowResponse))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("workflow endpoint returned status %d", resp.StatusCode)
		s.auditSvc.Append(ctx, domain.AuditLevelError, "Workflow test failed",
			map[string]any{"url": url, "status": resp.StatusCode})
		logger.ExternalServiceResult("workflow", "test", err)
		return err
	}

	s.auditSvc.Append(ctx, domain.AuditLevelInfo, "Workflow test successful", map[string]any{"url": url})
	logger.ExternalServiceResult("workflow", "test", nil)
	return nil
}

// Pull fetches the endpoint's user list and provisions every record that
// carries the required fields; malformed elements are skipped with a warning.
func (s *workflowService) Pull(ctx context.Context) (*BulkResult, error) {
	url, err := s.endpoint(ctx)
	if err != nil {
		return nil, err
	}

	logger.ExternalServiceCall("workflow", "pull", "url", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build workflow request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.auditSvc.Append(ctx, domain.AuditLevelError, "Workflow pull failed",
			map[string]any{"url": url, "error": err.Error()})
		logger.ExternalServiceResult("workflow", "pull", err)
		return nil, fmt.Errorf("workflow call to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("workflow endpoint returned status %d", resp.StatusCode)
		s.auditSvc.Append(ctx, domain.AuditLevelError, "Workflow pull failed",
			map[string]any{"url": url, "status": resp.StatusCode})
		logger.ExternalServiceResult("workflow", "pull", err)
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWorkflowResponse))
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow response: %w", err)
	}

	var users []ProvisionInput
	if err := json.Unmarshal(body, &users); err != nil {
		s.auditSvc.Append(ctx, domain.AuditLevelError, "Workflow pull returned invalid JSON",
			map[string]any{"url": url, "error": err.Error()})
		return nil, fmt.Errorf("workflow response is not a JSON user array: %w", err)
	}

	result, err := s.identitySvc.ProvisionBulk(ctx, users)
	if err != nil {
		return nil, err
	}
	s.auditSvc.Append(ctx, domain.AuditLevelInfo, "Workflow pull completed",
		map[string]any{"url": url, "provisioned": result.Provisioned, "skipped": result.Skipped, "failed": result.Failed})
	logger.ExternalServiceResult("workflow", "pull", nil, "provisioned", result.Provisioned)
	return result, nil
}
