// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/qazuor/markview-sync/internal/conflict"
	"github.com/qazuor/markview-sync/internal/remote"
	"github.com/qazuor/markview-sync/models"
)

// drain delivers the pending queue to the server, FIFO. At most one pass
// runs at a time; a pass requested while another is in flight is simply
// skipped, the running pass will pick up anything enqueued meanwhile on the
// next trigger. A conflicted or failing entity never blocks delivery of
// unrelated entities.
func (e *Engine) drain(ctx context.Context) {
	e.mu.Lock()
	if e.draining || !e.online || e.stopped {
		e.mu.Unlock()
		return
	}
	e.draining = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.draining = false
		e.mu.Unlock()
	}()

	items, err := e.queue.GetAll(ctx)
	if err != nil {
		e.reportStorageFailure(err)
		return
	}
	if len(items) == 0 {
		return
	}

	e.state.SetState(models.SyncSyncing)

	for _, item := range items {
		if ctx.Err() != nil {
			return
		}
		e.deliver(ctx, item)
	}

	e.refreshPendingCount(ctx)

	if e.isOnline() && e.state.State() == models.SyncSyncing {
		e.state.SetState(models.SyncIdle)
	}
}

// deliver pushes one queue item to the server and applies the outcome:
// acknowledge, conflict, retry, or drop.
func (e *Engine) deliver(ctx context.Context, item models.QueueItem) {
	var err error
	if item.Operation == models.OperationDelete {
		err = e.deliverDelete(ctx, item)
	} else {
		err = e.deliverUpsert(ctx, item)
	}
	if err == nil {
		e.state.ClearError(item.ID)
		return
	}

	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		// Teardown or an engine restart raced the in-flight request. The
		// failure says nothing about the server, so the item keeps its
		// place and its retry budget for the next pass.
		return
	}

	if ce := remote.AsConflict(err); ce != nil {
		// Expected outcome: record for human resolution, keep the item
		// queued, keep draining the rest.
		e.recordConflict(item, ce)
		return
	}

	if remote.IsTransient(err) {
		e.handleTransientFailure(ctx, item, err)
		return
	}

	// Permanent rejection: retrying the same payload cannot succeed.
	e.logger.Error().Err(err).
		Str("id", item.ID).
		Str("operation", string(item.Operation)).
		Msg("dropping queue item after permanent failure")
	e.dropItem(ctx, item, err)
}

func (e *Engine) deliverUpsert(ctx context.Context, item models.QueueItem) error {
	now := e.clock.Now()

	if item.Type == models.EntityFolder {
		f, err := item.Folder()
		if err != nil {
			return fmt.Errorf("decode queued folder %s: %w", item.ID, err)
		}

		accepted, err := e.remote.UpsertFolder(ctx, f)
		if err != nil {
			return err
		}

		if err := e.queue.Remove(ctx, item.ID); err != nil {
			e.reportStorageFailure(err)
		}
		if err := e.mirror.SetSynced(ctx, item.Type, item.ID, accepted.SyncVersion, accepted.ContentHash(), now); err != nil {
			e.reportStorageFailure(err)
		}
		return nil
	}

	doc, err := item.Document()
	if err != nil {
		return fmt.Errorf("decode queued document %s: %w", item.ID, err)
	}

	accepted, err := e.remote.UpsertDocument(ctx, doc)
	if err != nil {
		return err
	}

	if err := e.queue.Remove(ctx, item.ID); err != nil {
		e.reportStorageFailure(err)
	}
	if err := e.mirror.SetSynced(ctx, item.Type, item.ID, accepted.SyncVersion, accepted.ContentHash(), now); err != nil {
		e.reportStorageFailure(err)
	}
	return nil
}

func (e *Engine) deliverDelete(ctx context.Context, item models.QueueItem) error {
	var err error
	if item.Type == models.EntityFolder {
		err = e.remote.DeleteFolder(ctx, item.ID)
	} else {
		err = e.remote.DeleteDocument(ctx, item.ID)
	}
	if err != nil {
		return err
	}

	if err := e.queue.Remove(ctx, item.ID); err != nil {
		e.reportStorageFailure(err)
	}
	return nil
}

func (e *Engine) handleTransientFailure(ctx context.Context, item models.QueueItem, cause error) {
	if item.Retries+1 >= e.cfg.MaxRetries {
		e.logger.Warn().Err(cause).
			Str("id", item.ID).
			Int("retries", item.Retries+1).
			Msg("dropping queue item after exhausting retries")
		e.dropItem(ctx, item, cause)
		return
	}

	e.logger.Debug().Err(cause).
		Str("id", item.ID).
		Int("retries", item.Retries+1).
		Msg("transient delivery failure, item stays queued")
	if err := e.queue.IncrementRetries(ctx, item.ID); err != nil {
		e.reportStorageFailure(err)
	}
}

// dropItem removes the item and surfaces a per-entity error. The failure is
// scoped to this entity; draining of others continues.
func (e *Engine) dropItem(ctx context.Context, item models.QueueItem, cause error) {
	if err := e.queue.Remove(ctx, item.ID); err != nil {
		e.reportStorageFailure(err)
	}

	e.state.RecordError(models.EntityError{
		EntityID:   item.ID,
		Type:       item.Type,
		Message:    cause.Error(),
		OccurredAt: e.clock.Now(),
	})
}

func (e *Engine) recordConflict(item models.QueueItem, ce *remote.ConflictError) {
	now := e.clock.Now()

	if item.Type == models.EntityFolder {
		local, err := item.Folder()
		if err != nil || ce.ServerFolder == nil {
			e.logger.Error().Err(err).Str("id", item.ID).Msg("conflict response missing usable folder snapshots")
			return
		}
		c, err := conflict.NewFolderConflict(local, *ce.ServerFolder, now)
		if err != nil {
			e.logger.Error().Err(err).Str("id", item.ID).Msg("failed to build folder conflict record")
			return
		}
		e.state.RecordConflict(c)
		return
	}

	local, err := item.Document()
	if err != nil || ce.ServerDocument == nil {
		e.logger.Error().Err(err).Str("id", item.ID).Msg("conflict response missing usable document snapshots")
		return
	}
	c, err := conflict.NewDocumentConflict(local, *ce.ServerDocument, now)
	if err != nil {
		e.logger.Error().Err(err).Str("id", item.ID).Msg("failed to build document conflict record")
		return
	}
	e.state.RecordConflict(c)
}
