// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

// Package state holds the observable sync state consumed by the UI.
//
// The [Store] is the single source of truth for "what is the sync engine
// doing right now". Only the orchestrator mutates it; everything else reads
// snapshots or subscribes to change notifications. Snapshots are value
// copies, safe to hand across goroutines.
package state

import (
	"sync"
	"time"

	"github.com/qazuor/markview-sync/internal/logger"
	"github.com/qazuor/markview-sync/models"
)

// Store is the observable sync state. The zero value is not usable; create
// one with [New].
type Store struct {
	mu sync.RWMutex

	state        models.SyncState
	lastSyncedAt time.Time
	pendingCount int
	conflicts    []models.Conflict
	errors       []models.EntityError

	nextSubID   int
	subscribers map[int]chan models.SyncSnapshot

	logger *logger.Logger
}

// New returns a Store in the idle state with no pending work.
func New(log *logger.Logger) *Store {
	return &Store{
		state:       models.SyncIdle,
		subscribers: make(map[int]chan models.SyncSnapshot),
		logger:      log,
	}
}

// Snapshot returns a value copy of the current state.
func (s *Store) Snapshot() models.SyncSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() models.SyncSnapshot {
	snap := models.SyncSnapshot{
		State:        s.state,
		LastSyncedAt: s.lastSyncedAt,
		PendingCount: s.pendingCount,
	}
	if len(s.conflicts) > 0 {
		snap.Conflicts = make([]models.Conflict, len(s.conflicts))
		copy(snap.Conflicts, s.conflicts)
	}
	if len(s.errors) > 0 {
		snap.Errors = make([]models.EntityError, len(s.errors))
		copy(snap.Errors, s.errors)
	}
	return snap
}

// Subscribe registers a listener that receives a snapshot after every
// change. The channel has a single-slot buffer and stale snapshots are
// replaced rather than queued, so a slow subscriber sees the latest state,
// not every intermediate one. The returned cancel function unregisters the
// subscription and closes the channel.
func (s *Store) Subscribe() (<-chan models.SyncSnapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++

	ch := make(chan models.SyncSnapshot, 1)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}

	return ch, cancel
}

// publishLocked pushes the current snapshot to every subscriber without
// blocking. A full single-slot buffer is drained first so the subscriber
// always finds the most recent snapshot.
func (s *Store) publishLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// SetState moves the engine to the given phase.
func (s *Store) SetState(st models.SyncState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == st {
		return
	}

	s.logger.Debug().
		Str("from", string(s.state)).
		Str("to", string(st)).
		Msg("sync state transition")

	s.state = st
	s.publishLocked()
}

// State returns the current engine phase.
func (s *Store) State() models.SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetLastSyncedAt records the completion time of a fully successful sync.
func (s *Store) SetLastSyncedAt(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSyncedAt = at
	s.publishLocked()
}

// LastSyncedAt returns the time of the last fully successful sync.
func (s *Store) LastSyncedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSyncedAt
}

// SetPendingCount updates the number of queued local mutations.
func (s *Store) SetPendingCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingCount == n {
		return
	}
	s.pendingCount = n
	s.publishLocked()
}

// RecordConflict adds c to the unresolved set. A conflict already recorded
// for the same entity is superseded, not duplicated.
func (s *Store) RecordConflict(c models.Conflict) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.conflicts {
		if s.conflicts[i].EntityID == c.EntityID {
			s.conflicts[i] = c
			s.publishLocked()
			return
		}
	}

	s.conflicts = append(s.conflicts, c)
	s.publishLocked()
}

// ClearConflict removes the conflict for entityID after resolution.
func (s *Store) ClearConflict(entityID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.conflicts {
		if s.conflicts[i].EntityID == entityID {
			s.conflicts = append(s.conflicts[:i], s.conflicts[i+1:]...)
			s.publishLocked()
			return
		}
	}
}

// Conflicts returns the unresolved conflicts awaiting a decision.
func (s *Store) Conflicts() []models.Conflict {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Conflict, len(s.conflicts))
	copy(out, s.conflicts)
	return out
}

// Conflict returns the pending conflict for entityID, if any.
func (s *Store) Conflict(entityID string) (models.Conflict, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.conflicts {
		if s.conflicts[i].EntityID == entityID {
			return s.conflicts[i], true
		}
	}
	return models.Conflict{}, false
}

// RecordError surfaces a per-entity sync failure. An earlier error for the
// same entity is superseded.
func (s *Store) RecordError(e models.EntityError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.errors {
		if s.errors[i].EntityID == e.EntityID {
			s.errors[i] = e
			s.publishLocked()
			return
		}
	}

	s.errors = append(s.errors, e)
	s.publishLocked()
}

// ClearError drops the recorded failure for entityID, typically after the
// entity finally syncs.
func (s *Store) ClearError(entityID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.errors {
		if s.errors[i].EntityID == entityID {
			s.errors = append(s.errors[:i], s.errors[i+1:]...)
			s.publishLocked()
			return
		}
	}
}
