package service

import (
	"context"

	"identity-console/internal/domain"
)

// SubmitRequestInput is the validated form of an access-request submission.
type SubmitRequestInput struct {
	FullName    string             `json:"fullName"`
	Email       string             `json:"email"`
	Department  string             `json:"department"`
	RequestType domain.RequestType `json:"requestType"`
	GroupID     string             `json:"groupId"`
}

// ProvisionInput is the validated form of an identity provisioning call. It
// matches the workflow endpoint's user object shape.
type ProvisionInput struct {
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	Department string `json:"department"`
	Source     string `json:"source,omitempty"`
}

// BulkResult reports the outcome of a bulk provisioning run.
type BulkResult struct {
	Provisioned int      `json:"provisioned"`
	Skipped     int      `json:"skipped"`
	Failed      int      `json:"failed"`
	Emails      []string `json:"emails,omitempty"`
}

type AccessRequestService interface {
	Submit(ctx context.Context, in SubmitRequestInput) (*domain.AccessRequest, error)
	Approve(ctx context.Context, id string) (*domain.AccessRequest, error)
	Reject(ctx context.Context, id string) (*domain.AccessRequest, error)
	Get(ctx context.Context, id string) (*domain.AccessRequest, error)
	List(ctx context.Context) ([]domain.AccessRequest, error)
}

type IdentityService interface {
	Provision(ctx context.Context, in ProvisionInput) (*domain.Identity, error)
	ProvisionBulk(ctx context.Context, ins []ProvisionInput) (*BulkResult, error)
	List(ctx context.Context) ([]domain.Identity, error)
}

type GroupService interface {
	Create(ctx context.Context, name, description string) (*domain.Group, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, id, email string) (*domain.Group, error)
	RemoveMember(ctx context.Context, id, email string) (*domain.Group, error)
	Get(ctx context.Context, id string) (*domain.Group, error)
	List(ctx context.Context) ([]domain.Group, error)
	SeedDefaults(ctx context.Context) error
}

type SettingsService interface {
	WorkflowURL(ctx context.Context) (string, error)
	SaveWorkflowURL(ctx context.Context, url string) error
	DirectorySettings(ctx context.Context) (*domain.DirectorySettings, error)
	SaveDirectorySettings(ctx context.Context, settings *domain.DirectorySettings) error
}

type WorkflowService interface {
	// Test posts a sample payload to the configured workflow URL.
	Test(ctx context.Context) error
	// Pull fetches the endpoint's user list and provisions every valid record.
	Pull(ctx context.Context) (*BulkResult, error)
}

// DirectoryProvisioner creates a corresponding entry for an identity in an
// external directory.
type DirectoryProvisioner interface {
	Provision(ctx context.Context, identity *domain.Identity, settings *domain.DirectorySettings) error
}

type AuditService interface {
	// Append never fails the caller; write errors are only logged.
	Append(ctx context.Context, level domain.AuditLevel, message string, details map[string]any)
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
	Prune(ctx context.Context, retentionDays int) (int64, error)
}

type BackupService interface {
	Export(ctx context.Context, format string) ([]byte, error)
	Import(ctx context.Context, data []byte) error
}

type EmailService interface {
	SendDecisionNotification(ctx context.Context, email, name string, status domain.RequestStatus) error
}
