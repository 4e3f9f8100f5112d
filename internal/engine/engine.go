// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

// Package engine orchestrates the sync lifecycle: it debounces local edits
// into the durable queue, drains the queue against the server, runs the
// periodic delta pull, reacts to push events and connectivity changes, and
// applies human conflict decisions.
//
// One Engine is constructed per process with an explicit Start/Shutdown
// lifecycle. All UI-visible effects go through the state store; the engine
// itself exposes no observable global state.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/qazuor/markview-sync/internal/config"
	"github.com/qazuor/markview-sync/internal/logger"
	"github.com/qazuor/markview-sync/internal/remote"
	"github.com/qazuor/markview-sync/internal/state"
	"github.com/qazuor/markview-sync/internal/store"
	"github.com/qazuor/markview-sync/models"
)

// ErrConflictNotFound is returned by ResolveConflict when no pending
// conflict exists for the entity.
var ErrConflictNotFound = errors.New("no pending conflict for entity")

// connectivity is the slice of the realtime channel the engine forwards
// online/offline signals to.
type connectivity interface {
	SetOnline(online bool)
}

// Engine is the sync orchestrator. Create one with New, launch background
// work with Start, and tear it down with Shutdown.
type Engine struct {
	cfg    config.Sync
	queue  store.QueueRepository
	mirror store.MirrorRepository
	remote remote.Client
	state  *state.Store
	clock  clockwork.Clock
	logger *logger.Logger

	// realtime receives forwarded connectivity signals; may be nil.
	realtime connectivity

	debounce *debouncer

	// pullCh requests an out-of-band delta pull from the run loop.
	pullCh chan struct{}

	mu          sync.Mutex
	draining    bool
	online      bool
	initialDone bool
	stopped     bool
	runCtx      context.Context
	cancel      context.CancelFunc

	wg sync.WaitGroup
}

// New wires an Engine from its collaborators. realtimeCh may be nil when no
// push channel is configured.
func New(cfg config.Sync, queue store.QueueRepository, mirror store.MirrorRepository, remoteClient remote.Client, stateStore *state.Store, realtimeCh connectivity, clock clockwork.Clock, log *logger.Logger) *Engine {
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = config.DefaultDebounceWindow
	}
	if cfg.AutoSyncInterval <= 0 {
		cfg.AutoSyncInterval = config.DefaultAutoSyncInterval
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = config.DefaultMaxRetries
	}

	e := &Engine{
		cfg:      cfg,
		queue:    queue,
		mirror:   mirror,
		remote:   remoteClient,
		state:    stateStore,
		realtime: realtimeCh,
		clock:    clock,
		logger:   log,
		pullCh:   make(chan struct{}, 1),
		online:   true,
	}
	e.debounce = newDebouncer(cfg.DebounceWindow, clock, e.onDebounceSettled)

	return e
}

// Start launches the background run loop: the one-shot initial pull
// followed by the periodic delta pull. Calling Start twice restarts the
// loop.
func (e *Engine) Start(ctx context.Context) {
	e.stopRunLoop()

	runCtx, cancel := context.WithCancel(ctx)

	e.mu.Lock()
	e.runCtx = runCtx
	e.cancel = cancel
	e.stopped = false
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.run(runCtx)
	}()
}

// Shutdown cancels every pending debounce timer and the run loop, then
// blocks until in-flight work has drained. No callback or state mutation
// happens after it returns.
func (e *Engine) Shutdown() {
	e.debounce.Close()
	e.stopRunLoop()
}

func (e *Engine) stopRunLoop() {
	e.mu.Lock()
	e.stopped = true
	cancel := e.cancel
	e.cancel = nil
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()
}

func (e *Engine) run(ctx context.Context) {
	if e.initialSyncEnabled() && !e.initialSyncDone() {
		e.pull(ctx)
		e.markInitialSyncDone()
	}

	ticker := e.clock.NewTicker(e.cfg.AutoSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if e.isOnline() {
				e.pull(ctx)
				e.drain(ctx)
			}
		case <-e.pullCh:
			if e.isOnline() {
				e.pull(ctx)
			}
		}
	}
}

// NotifyChange tells the engine an entity was edited locally. The edit is
// picked up from the mirror once the per-entity debounce window settles;
// intermediate keystrokes never reach the queue.
func (e *Engine) NotifyChange(entityType models.EntityType, id string) {
	e.debounce.Trigger(entityType, id)
}

// onDebounceSettled snapshots the entity from the mirror, enqueues the
// pending write, and runs a drain pass. Runs on a timer goroutine; the
// waitgroup registration under the mutex guarantees Shutdown blocks until
// any in-flight settle has finished.
func (e *Engine) onDebounceSettled(entityType models.EntityType, id string) {
	e.mu.Lock()
	ctx := e.runCtx
	if e.stopped || ctx == nil || ctx.Err() != nil {
		e.mu.Unlock()
		return
	}
	e.wg.Add(1)
	e.mu.Unlock()
	defer e.wg.Done()

	if err := e.enqueueUpsert(ctx, entityType, id); err != nil {
		e.reportStorageFailure(err)
		return
	}

	e.drain(ctx)
}

func (e *Engine) enqueueUpsert(ctx context.Context, entityType models.EntityType, id string) error {
	var payload json.RawMessage

	switch entityType {
	case models.EntityFolder:
		f, err := e.mirror.GetFolder(ctx, id)
		if err != nil {
			return fmt.Errorf("snapshot folder %s for enqueue: %w", id, err)
		}
		payload, err = json.Marshal(f)
		if err != nil {
			return fmt.Errorf("marshal folder %s: %w", id, err)
		}
	default:
		doc, err := e.mirror.GetDocument(ctx, id)
		if err != nil {
			return fmt.Errorf("snapshot document %s for enqueue: %w", id, err)
		}
		payload, err = json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal document %s: %w", id, err)
		}
	}

	item := models.QueueItem{
		ID:         id,
		Type:       entityType,
		Operation:  models.OperationUpsert,
		Payload:    payload,
		EnqueuedAt: e.clock.Now(),
	}
	if err := e.queue.Add(ctx, item); err != nil {
		return fmt.Errorf("enqueue %s %s: %w", entityType, id, err)
	}

	e.refreshPendingCount(ctx)
	return nil
}

// DeleteEntity soft-deletes the entity locally and enqueues the server
// delete immediately, bypassing the debounce window. A pending edit for the
// same entity is superseded by the delete.
func (e *Engine) DeleteEntity(ctx context.Context, entityType models.EntityType, id string) error {
	e.debounce.Cancel(entityType, id)

	now := e.clock.Now()
	var err error
	if entityType == models.EntityFolder {
		err = e.mirror.SoftDeleteFolder(ctx, id, now)
	} else {
		err = e.mirror.SoftDeleteDocument(ctx, id, now)
	}
	if err != nil {
		e.reportStorageFailure(err)
		return fmt.Errorf("soft delete %s %s: %w", entityType, id, err)
	}

	item := models.QueueItem{
		ID:         id,
		Type:       entityType,
		Operation:  models.OperationDelete,
		EnqueuedAt: now,
	}
	if err := e.queue.Add(ctx, item); err != nil {
		e.reportStorageFailure(err)
		return fmt.Errorf("enqueue delete %s %s: %w", entityType, id, err)
	}

	e.refreshPendingCount(ctx)
	e.drain(ctx)
	return nil
}

// SyncNow flushes every pending debounce into the queue and drains
// immediately, regardless of the auto-sync schedule.
func (e *Engine) SyncNow(ctx context.Context) {
	e.debounce.Flush()
	e.drain(ctx)
}

// SetOnline feeds the OS connectivity signal into the engine and forwards
// it to the realtime channel. Offline suspends draining and auto-sync;
// online resets to idle and triggers an immediate drain and pull.
func (e *Engine) SetOnline(ctx context.Context, online bool) {
	e.mu.Lock()
	e.online = online
	e.mu.Unlock()

	if e.realtime != nil {
		e.realtime.SetOnline(online)
	}

	if !online {
		e.state.SetState(models.SyncOffline)
		return
	}

	e.state.SetState(models.SyncIdle)
	e.requestPull()
	e.drain(ctx)
}

// RequestPull asks the run loop for an out-of-band delta pull. Used by the
// realtime channel: a push event means "something changed, re-fetch".
func (e *Engine) RequestPull() {
	e.requestPull()
}

// HandleRealtimeEvent is the push-channel handler. Any change event that
// survived the channel's own-device filter triggers a delta pull; the event
// payload itself is never treated as an incremental patch.
func (e *Engine) HandleRealtimeEvent(ev models.RealtimeEvent) {
	if _, ok := ev.EntityType(); !ok {
		return
	}

	e.logger.Debug().
		Str("kind", string(ev.Kind)).
		Str("entityId", ev.EntityID).
		Msg("push event received, scheduling delta pull")
	e.requestPull()
}

func (e *Engine) requestPull() {
	select {
	case e.pullCh <- struct{}{}:
	default:
	}
}

func (e *Engine) refreshPendingCount(ctx context.Context) {
	n, err := e.queue.Count(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("failed to count pending queue items")
		return
	}
	e.state.SetPendingCount(n)
}

// reportStorageFailure escalates a local storage failure to the global
// error state: an edit that cannot reach the durable queue would otherwise
// be silently lost.
func (e *Engine) reportStorageFailure(err error) {
	if errors.Is(err, store.ErrStorageUnavailable) {
		e.logger.Error().Err(err).Msg("local storage unavailable")
		e.state.SetState(models.SyncError)
		return
	}
	e.logger.Error().Err(err).Msg("local sync bookkeeping failed")
}

func (e *Engine) isOnline() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.online
}

func (e *Engine) initialSyncEnabled() bool {
	return e.cfg.InitialSync == nil || *e.cfg.InitialSync
}

func (e *Engine) initialSyncDone() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialDone
}

func (e *Engine) markInitialSyncDone() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialDone = true
}
