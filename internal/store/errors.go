package store

import "errors"

var (
	// ErrStorageUnavailable wraps every driver-level failure (locked file,
	// disk full, corrupted database). The orchestrator surfaces it as a
	// global error state instead of dropping the queued edit.
	ErrStorageUnavailable = errors.New("local storage unavailable")

	// ErrQueueItemNotFound is returned by Get for an unknown queue id.
	ErrQueueItemNotFound = errors.New("queue item not found")

	// ErrEntityNotFound is returned by mirror lookups for an unknown id.
	ErrEntityNotFound = errors.New("entity not found")
)
