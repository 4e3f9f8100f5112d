// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/qazuor/markview-sync/models"
)

const (
	upsertQueueItem = `
		INSERT INTO sync_queue (
			id,
			type,
			operation,
			payload,
			enqueued_at,
			retries
		) VALUES (?, ?, ?, ?, ?, 0)
		ON CONFLICT (id) DO UPDATE SET
			type        = excluded.type,
			operation   = excluded.operation,
			payload     = excluded.payload,
			enqueued_at = excluded.enqueued_at,
			retries     = 0;`

	removeQueueItem = `
		DELETE FROM sync_queue
		WHERE id = ?;`

	incrementQueueRetries = `
		UPDATE sync_queue
		SET retries = retries + 1
		WHERE id = ?;`

	countQueueItems = `
		SELECT COUNT(*) FROM sync_queue;`

	upsertDocument = `
		INSERT INTO documents (
			id,
			user_id,
			title,
			content,
			folder_id,
			sync_version,
			updated_at,
			deleted_at,
			synced_at,
			base_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			user_id      = excluded.user_id,
			title        = excluded.title,
			content      = excluded.content,
			folder_id    = excluded.folder_id,
			sync_version = excluded.sync_version,
			updated_at   = excluded.updated_at,
			deleted_at   = excluded.deleted_at,
			synced_at    = excluded.synced_at,
			base_hash    = excluded.base_hash;`

	upsertFolder = `
		INSERT INTO folders (
			id,
			user_id,
			name,
			parent_id,
			sync_version,
			updated_at,
			deleted_at,
			synced_at,
			base_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			user_id      = excluded.user_id,
			name         = excluded.name,
			parent_id    = excluded.parent_id,
			sync_version = excluded.sync_version,
			updated_at   = excluded.updated_at,
			deleted_at   = excluded.deleted_at,
			synced_at    = excluded.synced_at,
			base_hash    = excluded.base_hash;`

	softDeleteDocument = `
		UPDATE documents
		SET deleted_at = ?, updated_at = ?
		WHERE id = ?;`

	softDeleteFolder = `
		UPDATE folders
		SET deleted_at = ?, updated_at = ?
		WHERE id = ?;`

	setDocumentSynced = `
		UPDATE documents
		SET sync_version = ?, base_hash = ?, synced_at = ?
		WHERE id = ?;`

	setFolderSynced = `
		UPDATE folders
		SET sync_version = ?, base_hash = ?, synced_at = ?
		WHERE id = ?;`
)

var queueColumns = []string{"id", "type", "operation", "payload", "enqueued_at", "retries"}

var documentColumns = []string{
	"id", "user_id", "title", "content", "folder_id",
	"sync_version", "updated_at", "deleted_at", "synced_at", "base_hash",
}

var folderColumns = []string{
	"id", "user_id", "name", "parent_id",
	"sync_version", "updated_at", "deleted_at", "synced_at", "base_hash",
}

// buildSelectQueueQuery builds the FIFO queue listing, optionally filtered
// by entity type (the sync_queue table carries a secondary index on type).
func buildSelectQueueQuery(entityType *models.EntityType) (string, []any, error) {
	b := sq.Select(queueColumns...).
		From("sync_queue").
		OrderBy("enqueued_at ASC")

	if entityType != nil {
		b = b.Where(sq.Eq{"type": string(*entityType)})
	}

	return b.ToSql()
}

// buildSelectQueueItemQuery builds the single-item lookup by entity id.
func buildSelectQueueItemQuery(id string) (string, []any, error) {
	return sq.Select(queueColumns...).
		From("sync_queue").
		Where(sq.Eq{"id": id}).
		ToSql()
}

// buildSelectDocumentsQuery builds the documents listing; a non-nil since
// restricts it to rows updated at or after the given time.
func buildSelectDocumentsQuery(since *time.Time) (string, []any, error) {
	b := sq.Select(documentColumns...).
		From("documents").
		OrderBy("updated_at ASC")

	if since != nil {
		b = b.Where(sq.GtOrEq{"updated_at": *since})
	}

	return b.ToSql()
}

// buildSelectDocumentQuery builds the single-document lookup by id.
func buildSelectDocumentQuery(id string) (string, []any, error) {
	return sq.Select(documentColumns...).
		From("documents").
		Where(sq.Eq{"id": id}).
		ToSql()
}

// buildSelectFoldersQuery builds the full folders listing.
func buildSelectFoldersQuery() (string, []any, error) {
	return sq.Select(folderColumns...).
		From("folders").
		OrderBy("updated_at ASC").
		ToSql()
}

// buildSelectFolderQuery builds the single-folder lookup by id.
func buildSelectFolderQuery(id string) (string, []any, error) {
	return sq.Select(folderColumns...).
		From("folders").
		Where(sq.Eq{"id": id}).
		ToSql()
}
