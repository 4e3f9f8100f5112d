// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qazuor/markview-sync/internal/conflict"
	"github.com/qazuor/markview-sync/models"
)

// ResolveConflict applies the human decision for the pending conflict on
// entityID and schedules delivery of whatever the decision left to push.
// Returns ErrConflictNotFound when no conflict is pending for the entity.
func (e *Engine) ResolveConflict(ctx context.Context, entityID string, resolution models.Resolution) error {
	c, ok := e.state.Conflict(entityID)
	if !ok {
		return fmt.Errorf("resolve %s: %w", entityID, ErrConflictNotFound)
	}

	var err error
	if c.Type == models.EntityFolder {
		err = e.resolveFolderConflict(ctx, c, resolution)
	} else {
		err = e.resolveDocumentConflict(ctx, c, resolution)
	}
	if err != nil {
		return err
	}

	e.state.ClearConflict(entityID)
	e.refreshPendingCount(ctx)
	e.drain(ctx)
	return nil
}

func (e *Engine) resolveDocumentConflict(ctx context.Context, c models.Conflict, resolution models.Resolution) error {
	local, err := c.LocalDocument()
	if err != nil {
		return fmt.Errorf("decode local conflict snapshot %s: %w", c.EntityID, err)
	}
	server, err := c.ServerDocument()
	if err != nil {
		return fmt.Errorf("decode server conflict snapshot %s: %w", c.EntityID, err)
	}

	switch resolution {
	case models.ResolutionLocal:
		resolved := conflict.ResolveWithLocal(local, server)
		if err := e.mirror.SaveDocument(ctx, resolved); err != nil {
			e.reportStorageFailure(err)
			return err
		}
		return e.enqueueResolvedDocument(ctx, resolved)

	case models.ResolutionServer:
		resolved := conflict.ResolveWithServer(local, server)
		if err := e.queue.Remove(ctx, c.EntityID); err != nil {
			e.reportStorageFailure(err)
			return err
		}
		if err := e.mirror.SaveDocument(ctx, e.asSyncedDocument(resolved)); err != nil {
			e.reportStorageFailure(err)
			return err
		}
		return nil

	case models.ResolutionBoth:
		canonical, duplicate := conflict.ResolveWithBoth(local, server, e.clock.Now())
		if err := e.queue.Remove(ctx, c.EntityID); err != nil {
			e.reportStorageFailure(err)
			return err
		}
		if err := e.mirror.SaveDocument(ctx, e.asSyncedDocument(canonical)); err != nil {
			e.reportStorageFailure(err)
			return err
		}
		if err := e.mirror.SaveDocument(ctx, duplicate); err != nil {
			e.reportStorageFailure(err)
			return err
		}
		return e.enqueueResolvedDocument(ctx, duplicate)

	default:
		return fmt.Errorf("resolve %s: unknown resolution %q", c.EntityID, resolution)
	}
}

func (e *Engine) resolveFolderConflict(ctx context.Context, c models.Conflict, resolution models.Resolution) error {
	var local, server models.Folder
	if err := json.Unmarshal(c.Local, &local); err != nil {
		return fmt.Errorf("decode local conflict snapshot %s: %w", c.EntityID, err)
	}
	if err := json.Unmarshal(c.Server, &server); err != nil {
		return fmt.Errorf("decode server conflict snapshot %s: %w", c.EntityID, err)
	}

	switch resolution {
	case models.ResolutionLocal:
		resolved := conflict.ResolveFolderWithLocal(local, server)
		if err := e.mirror.SaveFolder(ctx, resolved); err != nil {
			e.reportStorageFailure(err)
			return err
		}
		return e.enqueueResolvedFolder(ctx, resolved)

	case models.ResolutionServer:
		resolved := conflict.ResolveFolderWithServer(local, server)
		if err := e.queue.Remove(ctx, c.EntityID); err != nil {
			e.reportStorageFailure(err)
			return err
		}
		if err := e.mirror.SaveFolder(ctx, e.asSyncedFolder(resolved)); err != nil {
			e.reportStorageFailure(err)
			return err
		}
		return nil

	case models.ResolutionBoth:
		canonical, duplicate := conflict.ResolveFolderWithBoth(local, server, e.clock.Now())
		if err := e.queue.Remove(ctx, c.EntityID); err != nil {
			e.reportStorageFailure(err)
			return err
		}
		if err := e.mirror.SaveFolder(ctx, e.asSyncedFolder(canonical)); err != nil {
			e.reportStorageFailure(err)
			return err
		}
		if err := e.mirror.SaveFolder(ctx, duplicate); err != nil {
			e.reportStorageFailure(err)
			return err
		}
		return e.enqueueResolvedFolder(ctx, duplicate)

	default:
		return fmt.Errorf("resolve %s: unknown resolution %q", c.EntityID, resolution)
	}
}

func (e *Engine) enqueueResolvedDocument(ctx context.Context, doc models.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal resolved document %s: %w", doc.ID, err)
	}

	item := models.QueueItem{
		ID:         doc.ID,
		Type:       models.EntityDocument,
		Operation:  models.OperationUpsert,
		Payload:    payload,
		EnqueuedAt: e.clock.Now(),
	}
	if err := e.queue.Add(ctx, item); err != nil {
		e.reportStorageFailure(err)
		return fmt.Errorf("enqueue resolved document %s: %w", doc.ID, err)
	}
	return nil
}

func (e *Engine) enqueueResolvedFolder(ctx context.Context, f models.Folder) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal resolved folder %s: %w", f.ID, err)
	}

	item := models.QueueItem{
		ID:         f.ID,
		Type:       models.EntityFolder,
		Operation:  models.OperationUpsert,
		Payload:    payload,
		EnqueuedAt: e.clock.Now(),
	}
	if err := e.queue.Add(ctx, item); err != nil {
		e.reportStorageFailure(err)
		return fmt.Errorf("enqueue resolved folder %s: %w", f.ID, err)
	}
	return nil
}
