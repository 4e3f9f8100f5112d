// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package engine

import (
	"context"
	"errors"
	"time"

	"github.com/qazuor/markview-sync/internal/conflict"
	"github.com/qazuor/markview-sync/internal/remote"
	"github.com/qazuor/markview-sync/internal/store"
	"github.com/qazuor/markview-sync/models"
)

// pull fetches server changes since the last successful sync (full listing
// when none) and merges them into the local mirror. Server changes never
// overwrite unsynced local edits; divergence becomes a recorded conflict.
func (e *Engine) pull(ctx context.Context) {
	var since *time.Time
	if last := e.state.LastSyncedAt(); !last.IsZero() {
		since = &last
	}

	e.state.SetState(models.SyncSyncing)

	docsResp, err := e.remote.FetchDocuments(ctx, since)
	if err != nil {
		e.handlePullFailure(err)
		return
	}
	foldersResp, err := e.remote.FetchFolders(ctx, since)
	if err != nil {
		e.handlePullFailure(err)
		return
	}

	for _, serverDoc := range docsResp.Documents {
		if ctx.Err() != nil {
			return
		}
		e.mergeDocument(ctx, serverDoc)
	}
	for _, serverFolder := range foldersResp.Folders {
		if ctx.Err() != nil {
			return
		}
		e.mergeFolder(ctx, serverFolder)
	}

	// The older of the two listing timestamps, so nothing changed between
	// the two fetches is skipped on the next delta.
	syncedAt := docsResp.SyncedAt
	if !foldersResp.SyncedAt.IsZero() && (syncedAt.IsZero() || foldersResp.SyncedAt.Before(syncedAt)) {
		syncedAt = foldersResp.SyncedAt
	}
	if syncedAt.IsZero() {
		syncedAt = e.clock.Now()
	}
	e.state.SetLastSyncedAt(syncedAt)

	if e.isOnline() && e.state.State() == models.SyncSyncing {
		e.state.SetState(models.SyncIdle)
	}
}

func (e *Engine) handlePullFailure(err error) {
	if errors.Is(err, remote.ErrUnauthorized) {
		e.logger.Error().Err(err).Msg("delta pull rejected, re-authentication required")
		e.state.SetState(models.SyncError)
		return
	}
	if remote.IsTransient(err) {
		e.logger.Debug().Err(err).Msg("delta pull failed, will retry on next cycle")
		if e.isOnline() {
			e.state.SetState(models.SyncIdle)
		}
		return
	}
	e.logger.Error().Err(err).Msg("delta pull failed")
	e.state.SetState(models.SyncError)
}

// mergeDocument reconciles one server document against the mirror.
func (e *Engine) mergeDocument(ctx context.Context, serverDoc models.Document) {
	local, err := e.mirror.GetDocument(ctx, serverDoc.ID)
	switch {
	case errors.Is(err, store.ErrEntityNotFound):
		if serverDoc.IsDeleted() {
			// Tombstone for an entity this device never had.
			return
		}
		if err := e.mirror.SaveDocument(ctx, e.asSyncedDocument(serverDoc)); err != nil {
			e.reportStorageFailure(err)
		}
		return
	case err != nil:
		e.reportStorageFailure(err)
		return
	}

	if serverDoc.IsDeleted() {
		queued, err := e.hasQueuedWrite(ctx, serverDoc.ID)
		if err != nil {
			e.reportStorageFailure(err)
			return
		}
		if queued {
			// Local edit still pending; the push will surface the conflict.
			return
		}
		if !local.IsDeleted() {
			if err := e.mirror.SoftDeleteDocument(ctx, serverDoc.ID, e.clock.Now()); err != nil {
				e.reportStorageFailure(err)
			}
		}
		return
	}

	if conflict.Detect(local, serverDoc) {
		c, err := conflict.NewDocumentConflict(local, serverDoc, e.clock.Now())
		if err != nil {
			e.logger.Error().Err(err).Str("id", local.ID).Msg("failed to build document conflict record")
			return
		}
		e.state.RecordConflict(c)
		return
	}

	if serverDoc.SyncVersion > local.SyncVersion {
		// Fast-forward: the server moved on and we have nothing unsynced.
		if err := e.mirror.SaveDocument(ctx, e.asSyncedDocument(serverDoc)); err != nil {
			e.reportStorageFailure(err)
		}
	}
}

// mergeFolder reconciles one server folder against the mirror.
func (e *Engine) mergeFolder(ctx context.Context, serverFolder models.Folder) {
	local, err := e.mirror.GetFolder(ctx, serverFolder.ID)
	switch {
	case errors.Is(err, store.ErrEntityNotFound):
		if serverFolder.IsDeleted() {
			return
		}
		if err := e.mirror.SaveFolder(ctx, e.asSyncedFolder(serverFolder)); err != nil {
			e.reportStorageFailure(err)
		}
		return
	case err != nil:
		e.reportStorageFailure(err)
		return
	}

	if serverFolder.IsDeleted() {
		queued, err := e.hasQueuedWrite(ctx, serverFolder.ID)
		if err != nil {
			e.reportStorageFailure(err)
			return
		}
		if queued {
			return
		}
		if !local.IsDeleted() {
			if err := e.mirror.SoftDeleteFolder(ctx, serverFolder.ID, e.clock.Now()); err != nil {
				e.reportStorageFailure(err)
			}
		}
		return
	}

	if conflict.DetectFolder(local, serverFolder) {
		c, err := conflict.NewFolderConflict(local, serverFolder, e.clock.Now())
		if err != nil {
			e.logger.Error().Err(err).Str("id", local.ID).Msg("failed to build folder conflict record")
			return
		}
		e.state.RecordConflict(c)
		return
	}

	if serverFolder.SyncVersion > local.SyncVersion {
		if err := e.mirror.SaveFolder(ctx, e.asSyncedFolder(serverFolder)); err != nil {
			e.reportStorageFailure(err)
		}
	}
}

// hasQueuedWrite reports whether a pending local mutation exists for id.
// A queue read failure is returned as such: "unreadable" must not be
// mistaken for "nothing queued" when deciding whether a server tombstone
// may delete local state.
func (e *Engine) hasQueuedWrite(ctx context.Context, id string) (bool, error) {
	_, err := e.queue.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrQueueItemNotFound):
		return false, nil
	default:
		return false, err
	}
}

// asSyncedDocument stamps a server copy as the new local baseline: the
// local content now matches the server, so the hash baseline and synced
// timestamp move forward with it.
func (e *Engine) asSyncedDocument(serverDoc models.Document) models.Document {
	now := e.clock.Now()
	serverDoc.BaseHash = serverDoc.ContentHash()
	serverDoc.SyncedAt = &now
	return serverDoc
}

func (e *Engine) asSyncedFolder(serverFolder models.Folder) models.Folder {
	now := e.clock.Now()
	serverFolder.BaseHash = serverFolder.ContentHash()
	serverFolder.SyncedAt = &now
	return serverFolder
}
