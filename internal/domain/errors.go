package domain

import "errors"

var (
	// ErrNotFound is returned when a record does not exist in the store.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput marks validation failures caught at the system
	// boundary, before any state is changed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyDecided is returned when approving or rejecting a request
	// that has already left the pending state.
	ErrAlreadyDecided = errors.New("access request already decided")

	// ErrGroupNotEmpty is returned when deleting a group that still has
	// members.
	ErrGroupNotEmpty = errors.New("group still has members")
)
