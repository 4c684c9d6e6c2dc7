package domain

import (
	"encoding/json"
	"time"
)

type SyncEntity string

const (
	SyncEntityAccessRequest SyncEntity = "accessRequest"
	SyncEntityIdentity      SyncEntity = "identity"
)

type SyncAction string

const (
	SyncActionCreate SyncAction = "create"
	SyncActionUpdate SyncAction = "update"
	SyncActionDelete SyncAction = "delete"
)

type SyncStatus string

const (
	SyncStatusPending SyncStatus = "pending"
	SyncStatusSynced  SyncStatus = "synced"
)

// SyncRecord is a change-log entry written alongside access-request and
// identity mutations. Pending records travel inside backup files and are
// applied and marked synced on import; a synced record is never reprocessed.
type SyncRecord struct {
	ID        string          `json:"id"`
	Entity    SyncEntity      `json:"type"`
	Action    SyncAction      `json:"action"`
	Payload   json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"timestamp"`
	Status    SyncStatus      `json:"status"`
}
