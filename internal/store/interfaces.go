// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package store

import (
	"context"
	"time"

	"github.com/qazuor/markview-sync/models"
)

// QueueRepository is the durable store of pending local mutations. It is the
// crash-survival boundary for "my edit is not lost": an entry added here
// outlives a process restart and is removed only on server acknowledgment or
// after exceeding the retry cap.
//
// The repository is the sole owner of persisted queue rows; no other
// component touches the sync_queue table.
type QueueRepository interface {
	// Add upserts item by entity id. An unacknowledged entry for the same id
	// is replaced (payload, operation and enqueue timestamp), and its retry
	// counter reset, so rapid successive edits coalesce into one pending write.
	Add(ctx context.Context, item models.QueueItem) error

	// Remove deletes the entry for id. Removing a missing id is a no-op.
	Remove(ctx context.Context, id string) error

	// Get returns the entry for id, or ErrQueueItemNotFound.
	Get(ctx context.Context, id string) (models.QueueItem, error)

	// GetAll returns all entries ordered by enqueue timestamp ascending
	// (FIFO fairness across entities).
	GetAll(ctx context.Context) ([]models.QueueItem, error)

	// GetByType returns entries of one entity type, FIFO ordered.
	GetByType(ctx context.Context, entityType models.EntityType) ([]models.QueueItem, error)

	// IncrementRetries bumps the retry counter for id by one.
	IncrementRetries(ctx context.Context, id string) error

	// Count returns the number of pending entries.
	Count(ctx context.Context) (int, error)
}

// MirrorRepository is the local copy of the user's documents and folders:
// the state the UI collaborator renders and the baseline sync works from.
// All reads and writes go through an explicit scan/serialize boundary;
// schema changes are applied via goose migrations only.
type MirrorRepository interface {
	// SaveDocument upserts a document by id.
	SaveDocument(ctx context.Context, doc models.Document) error

	// GetDocument returns the document with the given id, or ErrEntityNotFound.
	GetDocument(ctx context.Context, id string) (models.Document, error)

	// AllDocuments returns every stored document, tombstoned ones included.
	AllDocuments(ctx context.Context) ([]models.Document, error)

	// DocumentsChangedSince returns documents updated at or after since.
	DocumentsChangedSince(ctx context.Context, since time.Time) ([]models.Document, error)

	// SoftDeleteDocument stamps the tombstone and bumps updated_at.
	SoftDeleteDocument(ctx context.Context, id string, at time.Time) error

	// SaveFolder upserts a folder by id.
	SaveFolder(ctx context.Context, f models.Folder) error

	// GetFolder returns the folder with the given id, or ErrEntityNotFound.
	GetFolder(ctx context.Context, id string) (models.Folder, error)

	// AllFolders returns every stored folder, tombstoned ones included.
	AllFolders(ctx context.Context) ([]models.Folder, error)

	// SoftDeleteFolder stamps the tombstone and bumps updated_at.
	SoftDeleteFolder(ctx context.Context, id string, at time.Time) error

	// SetSynced records a confirmed server write for the entity: the new
	// sync version, the content hash baseline, and the sync timestamp.
	SetSynced(ctx context.Context, entityType models.EntityType, id string, version int64, baseHash string, at time.Time) error
}
