package domain

import "time"

// Identity provenance tags record which path created the record.
const (
	IdentitySourceManual        = "manual"
	IdentitySourceAccessRequest = "access_request"
	IdentitySourceWorkflow      = "workflow"
	IdentitySourceDirectory     = "directory"
)

// Identity is a provisioned user record keyed by email. Provisioning the same
// email again replaces the record (upsert); identities are never deleted.
type Identity struct {
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Department string    `json:"department"`
	Source     string    `json:"source,omitempty"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
