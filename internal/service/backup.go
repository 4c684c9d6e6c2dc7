package service

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"time"

	"identity-console/internal/domain"
	"identity-console/internal/logger"
	"identity-console/internal/repository"
)

// backupDocument is the on-disk backup shape. The JSON keys follow the
// console's historical export format.
type backupDocument struct {
	AccessRequests []domain.AccessRequest `json:"accessRequests"`
	Identities     []domain.Identity      `json:"identityStore"`
	SyncRecords    []domain.SyncRecord    `json:"syncStore,omitempty"`
	AuditEntries   []domain.AuditEntry    `json:"systemLogs,omitempty"`
	Settings       []settingEntry         `json:"systemConfig,omitempty"`
	ExportDate     time.Time              `json:"exportDate"`
}

type settingEntry struct {
	Key   string `json:"key" xml:"key"`
	Value string `json:"value" xml:"value"`
}

// xmlBackupDocument wraps the same collections under a single root element.
// The container elements are pointers so the decoder can tell an absent
// collection from an empty one, and the mandatory containers are always
// emitted even when empty.
type xmlBackupDocument struct {
	XMLName        xml.Name           `xml:"root"`
	AccessRequests *xmlRequestList    `xml:"accessRequests"`
	Identities     *xmlIdentityList   `xml:"identityStore"`
	SyncRecords    *xmlSyncRecordList `xml:"syncStore"`
	AuditEntries   *xmlAuditEntryList `xml:"systemLogs"`
	Settings       *xmlSettingList    `xml:"systemConfig"`
	ExportDate     time.Time          `xml:"exportDate"`
}

type xmlRequestList struct {
	Requests []domain.AccessRequest `xml:"request"`
}

type xmlIdentityList struct {
	Identities []domain.Identity `xml:"identity"`
}

type xmlSyncRecordList struct {
	Records []domain.SyncRecord `xml:"record"`
}

type xmlAuditEntryList struct {
	Entries []domain.AuditEntry `xml:"entry"`
}

type xmlSettingList struct {
	Settings []settingEntry `xml:"setting"`
}

func newXMLBackup(doc *backupDocument) *xmlBackupDocument {
	x := &xmlBackupDocument{
		AccessRequests: &xmlRequestList{Requests: doc.AccessRequests},
		Identities:     &xmlIdentityList{Identities: doc.Identities},
		ExportDate:     doc.ExportDate,
	}
	if len(doc.SyncRecords) > 0 {
		x.SyncRecords = &xmlSyncRecordList{Records: doc.SyncRecords}
	}
	if len(doc.AuditEntries) > 0 {
		x.AuditEntries = &xmlAuditEntryList{Entries: doc.AuditEntries}
	}
	if len(doc.Settings) > 0 {
		x.Settings = &xmlSettingList{Settings: doc.Settings}
	}
	return x
}

// document flattens the XML containers. Absent mandatory containers stay nil
// so Import's validation can tell a foreign document from an empty backup.
func (x *xmlBackupDocument) document() *backupDocument {
	doc := &backupDocument{ExportDate: x.ExportDate}
	if x.AccessRequests != nil {
		doc.AccessRequests = x.AccessRequests.Requests
		if doc.AccessRequests == nil {
			doc.AccessRequests = []domain.AccessRequest{}
		}
	}
	if x.Identities != nil {
		doc.Identities = x.Identities.Identities
		if doc.Identities == nil {
			doc.Identities = []domain.Identity{}
		}
	}
	if x.SyncRecords != nil {
		doc.SyncRecords = x.SyncRecords.Records
	}
	if x.AuditEntries != nil {
		doc.AuditEntries = x.AuditEntries.Entries
	}
	if x.Settings != nil {
		doc.Settings = x.Settings.Settings
	}
	return doc
}

type backupService struct {
	reqRepo      repository.AccessRequestRepository
	identityRepo repository.IdentityRepository
	syncRepo     repository.SyncRecordRepository
	settingsRepo repository.SettingsRepository
	auditSvc     AuditService
}

func NewBackupService(
	reqRepo repository.AccessRequestRepository,
	identityRepo repository.IdentityRepository,
	syncRepo repository.SyncRecordRepository,
	settingsRepo repository.SettingsRepository,
	auditSvc AuditService,
) BackupService {
	return &backupService{
		reqRepo:      reqRepo,
		identityRepo: identityRepo,
		syncRepo:     syncRepo,
		settingsRepo: settingsRepo,
		auditSvc:     auditSvc,
	}
}

// Export serializes every collection. format is "json" (default) or "xml".
func (s *backupService) Export(ctx context.Context, format string) ([]byte, error) {
	doc := backupDocument{ExportDate: time.Now().UTC()}

	var err error
	if doc.AccessRequests, err = s.reqRepo.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to read access requests: %w", err)
	}
	if doc.Identities, err = s.identityRepo.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to read identities: %w", err)
	}
	if doc.SyncRecords, err = s.syncRepo.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to read sync records: %w", err)
	}
	if doc.AuditEntries, err = s.auditSvc.Recent(ctx, defaultAuditLimit); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	for _, key := range []string{domain.SettingWorkflowURL, domain.SettingDirectory} {
		value, err := s.settingsRepo.Get(ctx, key)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read setting %s: %w", key, err)
		}
		doc.Settings = append(doc.Settings, settingEntry{Key: key, Value: value})
	}
	if doc.AccessRequests == nil {
		doc.AccessRequests = []domain.AccessRequest{}
	}
	if doc.Identities == nil {
		doc.Identities = []domain.Identity{}
	}

	var data []byte
	switch format {
	case "", "json":
		if data, err = json.MarshalIndent(doc, "", "  "); err != nil {
			return nil, fmt.Errorf("failed to encode JSON backup: %w", err)
		}
	case "xml":
		body, err := xml.MarshalIndent(newXMLBackup(&doc), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode XML backup: %w", err)
		}
		data = append([]byte(xml.Header), body...)
	default:
		return nil, fmt.Errorf("unsupported backup format: %s", format)
	}

	// Records shipped in an export have been propagated; mark them so a later
	// export or import does not treat them as new changes.
	s.markExported(ctx)
	return data, nil
}

func (s *backupService) markExported(ctx context.Context) {
	pending, err := s.syncRepo.ListPending(ctx)
	if err != nil {
		logger.Warn("Failed to list pending sync records", "error", err)
		return
	}
	for _, rec := range pending {
		if err := s.syncRepo.MarkSynced(ctx, rec.ID); err != nil {
			logger.Warn("Failed to mark sync record synced", "id", rec.ID, "error", err)
		}
	}
}

// Import restores a backup produced by Export, in either encoding. Records
// are upserted one at a time; a record that fails to apply is skipped. The
// whole file is rejected only when the accessRequests or identityStore
// collections are missing.
func (s *backupService) Import(ctx context.Context, data []byte) error {
	doc, err := decodeBackup(data)
	if err != nil {
		return err
	}
	if doc.AccessRequests == nil || doc.Identities == nil {
		return fmt.Errorf("invalid backup file format")
	}

	var failed int
	for i := range doc.AccessRequests {
		if err := s.reqRepo.Put(ctx, &doc.AccessRequests[i]); err != nil {
			failed++
			logger.Warn("Failed to import access request", "id", doc.AccessRequests[i].ID, "error", err)
		}
	}
	for i := range doc.Identities {
		if err := s.identityRepo.Upsert(ctx, &doc.Identities[i]); err != nil {
			failed++
			logger.Warn("Failed to import identity", "email", doc.Identities[i].Email, "error", err)
		}
	}
	for _, setting := range doc.Settings {
		if err := s.settingsRepo.Put(ctx, setting.Key, setting.Value); err != nil {
			failed++
			logger.Warn("Failed to import setting", "key", setting.Key, "error", err)
		}
	}

	applied := s.mergeSyncRecords(ctx, doc.SyncRecords)

	s.auditSvc.Append(ctx, domain.AuditLevelInfo, "Backup imported", map[string]any{
		"accessRequests": len(doc.AccessRequests),
		"identities":     len(doc.Identities),
		"syncApplied":    applied,
		"failed":         failed,
	})
	return nil
}

// mergeSyncRecords applies foreign change-log entries: records whose id is
// unknown locally are replayed oldest-first against the target collection and
// stored as synced, so a record is never reprocessed by a later import.
func (s *backupService) mergeSyncRecords(ctx context.Context, records []domain.SyncRecord) int {
	applied := 0
	for _, rec := range records {
		if _, err := s.syncRepo.GetByID(ctx, rec.ID); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Failed to check sync record", "id", rec.ID, "error", err)
			continue
		}

		if err := s.applySyncRecord(ctx, &rec); err != nil {
			logger.Warn("Failed to apply sync record", "id", rec.ID, "error", err)
			continue
		}

		rec.Status = domain.SyncStatusSynced
		if err := s.syncRepo.Create(ctx, &rec); err != nil {
			logger.Warn("Failed to store sync record", "id", rec.ID, "error", err)
			continue
		}
		applied++
	}
	return applied
}

func (s *backupService) applySyncRecord(ctx context.Context, rec *domain.SyncRecord) error {
	switch rec.Entity {
	case domain.SyncEntityAccessRequest:
		var req domain.AccessRequest
		if err := json.Unmarshal(rec.Payload, &req); err != nil {
			return fmt.Errorf("invalid access request payload: %w", err)
		}
		return s.reqRepo.Put(ctx, &req)
	case domain.SyncEntityIdentity:
		var identity domain.Identity
		if err := json.Unmarshal(rec.Payload, &identity); err != nil {
			return fmt.Errorf("invalid identity payload: %w", err)
		}
		return s.identityRepo.Upsert(ctx, &identity)
	default:
		return fmt.Errorf("unknown sync entity: %s", rec.Entity)
	}
}

func decodeBackup(data []byte) (*backupDocument, error) {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("<")) {
		x := &xmlBackupDocument{}
		if err := xml.Unmarshal(data, x); err != nil {
			return nil, fmt.Errorf("failed to parse XML backup: %w", err)
		}
		return x.document(), nil
	}
	doc := &backupDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON backup: %w", err)
	}
	return doc, nil
}
