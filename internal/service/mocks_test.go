package service

import (
	"context"

	"identity-console/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockAccessRequestRepo struct {
	mock.Mock
}

func (m *MockAccessRequestRepo) Create(ctx context.Context, req *domain.AccessRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAccessRequestRepo) GetByID(ctx context.Context, id string) (*domain.AccessRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessRequest), args.Error(1)
}

func (m *MockAccessRequestRepo) Update(ctx context.Context, req *domain.AccessRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAccessRequestRepo) Put(ctx context.Context, req *domain.AccessRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAccessRequestRepo) List(ctx context.Context) ([]domain.AccessRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccessRequest), args.Error(1)
}

type MockIdentityRepo struct {
	mock.Mock
}

func (m *MockIdentityRepo) Upsert(ctx context.Context, identity *domain.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockIdentityRepo) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityRepo) List(ctx context.Context) ([]domain.Identity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Identity), args.Error(1)
}

type MockGroupRepo struct {
	mock.Mock
}

func (m *MockGroupRepo) Create(ctx context.Context, group *domain.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepo) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepo) Update(ctx context.Context, group *domain.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGroupRepo) List(ctx context.Context) ([]domain.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}

type MockSyncRecordRepo struct {
	mock.Mock
}

func (m *MockSyncRecordRepo) Create(ctx context.Context, rec *domain.SyncRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockSyncRecordRepo) GetByID(ctx context.Context, id string) (*domain.SyncRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncRecord), args.Error(1)
}

func (m *MockSyncRecordRepo) List(ctx context.Context) ([]domain.SyncRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SyncRecord), args.Error(1)
}

func (m *MockSyncRecordRepo) ListPending(ctx context.Context) ([]domain.SyncRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SyncRecord), args.Error(1)
}

func (m *MockSyncRecordRepo) MarkSynced(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsRepo) Put(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendDecisionNotification(ctx context.Context, email, name string, status domain.RequestStatus) error {
	args := m.Called(ctx, email, name, status)
	return args.Error(0)
}

type MockDirectoryProvisioner struct {
	mock.Mock
}

func (m *MockDirectoryProvisioner) Provision(ctx context.Context, identity *domain.Identity, settings *domain.DirectorySettings) error {
	args := m.Called(ctx, identity, settings)
	return args.Error(0)
}

type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Provision(ctx context.Context, in ProvisionInput) (*domain.Identity, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityService) ProvisionBulk(ctx context.Context, ins []ProvisionInput) (*BulkResult, error) {
	args := m.Called(ctx, ins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BulkResult), args.Error(1)
}

func (m *MockIdentityService) List(ctx context.Context) ([]domain.Identity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Identity), args.Error(1)
}

// stubAudit discards entries. Services treat the audit trail as best effort,
// so most tests only need it to accept writes.
type stubAudit struct{}

func (stubAudit) Append(ctx context.Context, level domain.AuditLevel, message string, details map[string]any) {
}

func (stubAudit) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return nil, nil
}

func (stubAudit) Prune(ctx context.Context, retentionDays int) (int64, error) {
	return 0, nil
}

// newTestSyncRecorder returns a recorder whose repo accepts every write.
func newTestSyncRecorder() *SyncRecorder {
	repo := new(MockSyncRecordRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	return NewSyncRecorder(repo)
}
