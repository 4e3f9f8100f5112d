package models

import (
	"encoding/json"
	"time"
)

// Operation is the kind of pending local mutation held in the sync queue.
type Operation string

const (
	// OperationUpsert creates or updates an entity on the server.
	OperationUpsert Operation = "upsert"

	// OperationDelete soft-deletes an entity on the server.
	OperationDelete Operation = "delete"
)

// QueueItem is one pending local mutation awaiting delivery to the server.
// At most one item exists per entity id: a newer local change for the same
// entity replaces the previous unacknowledged item (last write wins at the
// local-queue level).
type QueueItem struct {
	// ID is the target entity id. It doubles as the queue key.
	ID string `json:"id"`

	// Type tells whether Payload holds a Document or a Folder.
	Type EntityType `json:"type"`

	// Operation is the mutation to apply on the server.
	Operation Operation `json:"operation"`

	// Payload is the JSON snapshot of the entity taken at enqueue time.
	// Empty for delete operations.
	Payload json.RawMessage `json:"payload,omitempty"`

	// EnqueuedAt orders the queue; draining is FIFO across entities.
	EnqueuedAt time.Time `json:"enqueued_at"`

	// Retries counts failed delivery attempts. Once it exceeds the retry
	// cap the item is dropped and a per-entity error is surfaced.
	Retries int `json:"retries"`
}

// Document decodes the payload snapshot as a Document.
func (q *QueueItem) Document() (Document, error) {
	var doc Document
	err := json.Unmarshal(q.Payload, &doc)
	return doc, err
}

// Folder decodes the payload snapshot as a Folder.
func (q *QueueItem) Folder() (Folder, error) {
	var f Folder
	err := json.Unmarshal(q.Payload, &f)
	return f, err
}
