package domain

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

type RequestType string

const (
	RequestTypeRegular RequestType = "regular"
	RequestTypeGuest   RequestType = "guest"
	RequestTypeGroup   RequestType = "group"
)

// AccessRequest is a user's submission asking for an account, guest account,
// or group membership. Requests are never deleted; an admin decision moves
// them from pending to a terminal status.
type AccessRequest struct {
	ID          string        `json:"id"`
	FullName    string        `json:"fullName"`
	Email       string        `json:"email"`
	Department  string        `json:"department"`
	Status      RequestStatus `json:"status"`
	RequestType RequestType   `json:"requestType"`
	GroupID     string        `json:"groupId,omitempty"`
	SubmittedAt time.Time     `json:"submittedAt"`
	DecidedAt   *time.Time    `json:"decidedAt,omitempty"`
}
