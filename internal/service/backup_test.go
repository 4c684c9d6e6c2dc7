package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"identity-console/internal/domain"

	"github.com/stretchr/testify/assert"
)

// In-memory stores keep the round-trip tests honest: what Export reads is
// exactly what a previous Import wrote.

type memRequestRepo struct {
	requests map[string]domain.AccessRequest
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: map[string]domain.AccessRequest{}}
}

func (m *memRequestRepo) Create(ctx context.Context, req *domain.AccessRequest) error {
	m.requests[req.ID] = *req
	return nil
}

func (m *memRequestRepo) GetByID(ctx context.Context, id string) (*domain.AccessRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &req, nil
}

func (m *memRequestRepo) Update(ctx context.Context, req *domain.AccessRequest) error {
	if _, ok := m.requests[req.ID]; !ok {
		return domain.ErrNotFound
	}
	m.requests[req.ID] = *req
	return nil
}

func (m *memRequestRepo) Put(ctx context.Context, req *domain.AccessRequest) error {
	m.requests[req.ID] = *req
	return nil
}

func (m *memRequestRepo) List(ctx context.Context) ([]domain.AccessRequest, error) {
	out := make([]domain.AccessRequest, 0, len(m.requests))
	for _, req := range m.requests {
		out = append(out, req)
	}
	return out, nil
}

type memIdentityRepo struct {
	identities map[string]domain.Identity
}

func newMemIdentityRepo() *memIdentityRepo {
	return &memIdentityRepo{identities: map[string]domain.Identity{}}
}

func (m *memIdentityRepo) Upsert(ctx context.Context, identity *domain.Identity) error {
	m.identities[identity.Email] = *identity
	return nil
}

func (m *memIdentityRepo) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	identity, ok := m.identities[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &identity, nil
}

func (m *memIdentityRepo) List(ctx context.Context) ([]domain.Identity, error) {
	out := make([]domain.Identity, 0, len(m.identities))
	for _, identity := range m.identities {
		out = append(out, identity)
	}
	return out, nil
}

type memSyncRepo struct {
	records map[string]domain.SyncRecord
}

func newMemSyncRepo() *memSyncRepo {
	return &memSyncRepo{records: map[string]domain.SyncRecord{}}
}

func (m *memSyncRepo) Create(ctx context.Context, rec *domain.SyncRecord) error {
	m.records[rec.ID] = *rec
	return nil
}

func (m *memSyncRepo) GetByID(ctx context.Context, id string) (*domain.SyncRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (m *memSyncRepo) List(ctx context.Context) ([]domain.SyncRecord, error) {
	out := make([]domain.SyncRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}

func (m *memSyncRepo) ListPending(ctx context.Context) ([]domain.SyncRecord, error) {
	var out []domain.SyncRecord
	for _, rec := range m.records {
		if rec.Status == domain.SyncStatusPending {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memSyncRepo) MarkSynced(ctx context.Context, id string) error {
	rec, ok := m.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Status = domain.SyncStatusSynced
	m.records[id] = rec
	return nil
}

type memSettingsRepo struct {
	values map[string]string
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{values: map[string]string{}}
}

func (m *memSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return value, nil
}

func (m *memSettingsRepo) Put(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

type backupFixture struct {
	reqRepo      *memRequestRepo
	identityRepo *memIdentityRepo
	syncRepo     *memSyncRepo
	settingsRepo *memSettingsRepo
	svc          BackupService
}

func newBackupFixture() *backupFixture {
	f := &backupFixture{
		reqRepo:      newMemRequestRepo(),
		identityRepo: newMemIdentityRepo(),
		syncRepo:     newMemSyncRepo(),
		settingsRepo: newMemSettingsRepo(),
	}
	f.svc = NewBackupService(f.reqRepo, f.identityRepo, f.syncRepo, f.settingsRepo, stubAudit{})
	return f
}

func TestBackupService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	submitted := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	seed := func(f *backupFixture) {
		f.reqRepo.Put(ctx, &domain.AccessRequest{
			ID:          "req-1",
			FullName:    "Jane Doe",
			Email:       "jane@example.com",
			Department:  "Engineering",
			Status:      domain.RequestStatusPending,
			RequestType: domain.RequestTypeRegular,
			SubmittedAt: submitted,
		})
		f.identityRepo.Upsert(ctx, &domain.Identity{
			Email:      "sam@example.com",
			FullName:   "Sam Lee",
			Department: "IT",
			Source:     domain.IdentitySourceManual,
			Status:     "active",
			CreatedAt:  submitted,
		})
		f.settingsRepo.Put(ctx, domain.SettingWorkflowURL, "https://flows.example.com/hook")
	}

	for _, format := range []string{"json", "xml"} {
		t.Run(format, func(t *testing.T) {
			source := newBackupFixture()
			seed(source)

			data, err := source.svc.Export(ctx, format)
			assert.NoError(t, err)
			assert.NotEmpty(t, data)

			target := newBackupFixture()
			err = target.svc.Import(ctx, data)
			assert.NoError(t, err)

			req, err := target.reqRepo.GetByID(ctx, "req-1")
			assert.NoError(t, err)
			assert.Equal(t, "jane@example.com", req.Email)
			assert.Equal(t, domain.RequestStatusPending, req.Status)

			identity, err := target.identityRepo.GetByEmail(ctx, "sam@example.com")
			assert.NoError(t, err)
			assert.Equal(t, "Sam Lee", identity.FullName)

			url, err := target.settingsRepo.Get(ctx, domain.SettingWorkflowURL)
			assert.NoError(t, err)
			assert.Equal(t, "https://flows.example.com/hook", url)
		})
	}
}

func TestBackupService_Export_EmptyStore(t *testing.T) {
	ctx := context.Background()
	f := newBackupFixture()

	data, err := f.svc.Export(ctx, "json")
	assert.NoError(t, err)

	// Empty collections are encoded as [], not dropped, so the export is
	// always importable.
	var doc map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(data, &doc))
	assert.JSONEq(t, "[]", string(doc["accessRequests"]))
	assert.JSONEq(t, "[]", string(doc["identityStore"]))

	target := newBackupFixture()
	assert.NoError(t, target.svc.Import(ctx, data))
}

func TestBackupService_Export_EmptyStoreXML(t *testing.T) {
	ctx := context.Background()
	f := newBackupFixture()

	data, err := f.svc.Export(ctx, "xml")
	assert.NoError(t, err)

	// The mandatory container elements survive an empty store, so the
	// export stays importable.
	assert.Contains(t, string(data), "<accessRequests>")
	assert.Contains(t, string(data), "<identityStore>")

	target := newBackupFixture()
	assert.NoError(t, target.svc.Import(ctx, data))
}

func TestBackupService_Export_MarksPendingRecordsSynced(t *testing.T) {
	ctx := context.Background()
	f := newBackupFixture()

	f.syncRepo.Create(ctx, &domain.SyncRecord{
		ID:        "sync-1",
		Entity:    domain.SyncEntityIdentity,
		Action:    domain.SyncActionCreate,
		Payload:   []byte(`{}`),
		CreatedAt: time.Now().UTC(),
		Status:    domain.SyncStatusPending,
	})

	_, err := f.svc.Export(ctx, "json")
	assert.NoError(t, err)

	rec, err := f.syncRepo.GetByID(ctx, "sync-1")
	assert.NoError(t, err)
	assert.Equal(t, domain.SyncStatusSynced, rec.Status)
}

func TestBackupService_Export_UnsupportedFormat(t *testing.T) {
	f := newBackupFixture()

	_, err := f.svc.Export(context.Background(), "csv")
	assert.Error(t, err)
}

func TestBackupService_Import_RejectsMissingCollections(t *testing.T) {
	ctx := context.Background()
	f := newBackupFixture()

	t.Run("NoAccessRequests", func(t *testing.T) {
		err := f.svc.Import(ctx, []byte(`{"identityStore":[]}`))
		assert.ErrorContains(t, err, "invalid backup file format")
	})

	t.Run("NoIdentityStore", func(t *testing.T) {
		err := f.svc.Import(ctx, []byte(`{"accessRequests":[]}`))
		assert.ErrorContains(t, err, "invalid backup file format")
	})

	t.Run("Garbage", func(t *testing.T) {
		err := f.svc.Import(ctx, []byte(`{{{`))
		assert.Error(t, err)
	})

	t.Run("ForeignXMLDocument", func(t *testing.T) {
		err := f.svc.Import(ctx, []byte(`<?xml version="1.0"?><root><somethingElse/></root>`))
		assert.ErrorContains(t, err, "invalid backup file format")
	})

	t.Run("XMLMissingIdentityStore", func(t *testing.T) {
		err := f.svc.Import(ctx, []byte(`<?xml version="1.0"?><root><accessRequests></accessRequests></root>`))
		assert.ErrorContains(t, err, "invalid backup file format")
	})

	t.Run("XMLWrongRootElement", func(t *testing.T) {
		err := f.svc.Import(ctx, []byte(`<html><body>502 Bad Gateway</body></html>`))
		assert.Error(t, err)
	})
}

func TestBackupService_Import_MergesSyncRecords(t *testing.T) {
	ctx := context.Background()
	f := newBackupFixture()

	// A record already known locally must not be reapplied.
	f.syncRepo.Create(ctx, &domain.SyncRecord{
		ID:     "sync-known",
		Entity: domain.SyncEntityIdentity,
		Action: domain.SyncActionCreate,
		Status: domain.SyncStatusSynced,
	})

	payload, _ := json.Marshal(domain.Identity{
		Email:    "merged@example.com",
		FullName: "Merged User",
		Source:   domain.IdentitySourceWorkflow,
		Status:   "active",
	})
	doc := map[string]any{
		"accessRequests": []domain.AccessRequest{},
		"identityStore":  []domain.Identity{},
		"syncStore": []domain.SyncRecord{
			{
				ID:        "sync-known",
				Entity:    domain.SyncEntityIdentity,
				Action:    domain.SyncActionCreate,
				Payload:   payload,
				CreatedAt: time.Now().UTC(),
				Status:    domain.SyncStatusPending,
			},
			{
				ID:        "sync-new",
				Entity:    domain.SyncEntityIdentity,
				Action:    domain.SyncActionCreate,
				Payload:   payload,
				CreatedAt: time.Now().UTC(),
				Status:    domain.SyncStatusPending,
			},
		},
	}
	data, err := json.Marshal(doc)
	assert.NoError(t, err)

	assert.NoError(t, f.svc.Import(ctx, data))

	// The unknown record was applied and stored as synced.
	identity, err := f.identityRepo.GetByEmail(ctx, "merged@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "Merged User", identity.FullName)

	rec, err := f.syncRepo.GetByID(ctx, "sync-new")
	assert.NoError(t, err)
	assert.Equal(t, domain.SyncStatusSynced, rec.Status)

	// The known record kept its original status and was not duplicated.
	known, err := f.syncRepo.GetByID(ctx, "sync-known")
	assert.NoError(t, err)
	assert.Equal(t, domain.SyncStatusSynced, known.Status)
}
