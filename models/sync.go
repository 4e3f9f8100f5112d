// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package models

import "time"

// SyncState is the engine-wide phase exposed to the UI. Transitions are
// driven only by the sync orchestrator.
type SyncState string

const (
	// SyncIdle means no drain pass is running and nothing is known to be wrong.
	SyncIdle SyncState = "idle"

	// SyncSyncing means a drain pass or delta pull is in flight.
	SyncSyncing SyncState = "syncing"

	// SyncOffline means connectivity is lost; draining and auto-sync are
	// suspended until an online signal arrives.
	SyncOffline SyncState = "offline"

	// SyncError means a global condition (e.g. local storage unavailable)
	// prevents syncing.
	SyncError SyncState = "error"
)

// ConnectionState is the realtime channel's lifecycle phase.
type ConnectionState string

const (
	// ConnDisconnected means no connection exists and none is being attempted.
	ConnDisconnected ConnectionState = "disconnected"

	// ConnConnecting means a dial is in flight.
	ConnConnecting ConnectionState = "connecting"

	// ConnConnected means the push channel is live.
	ConnConnected ConnectionState = "connected"

	// ConnReconnecting means the channel dropped and a backoff timer is
	// running before the next dial.
	ConnReconnecting ConnectionState = "reconnecting"
)

// EntityError is a per-entity sync failure surfaced to the UI. Entity-scoped
// failures never abort the drain pass for unrelated entities.
type EntityError struct {
	// EntityID is the entity whose sync failed.
	EntityID string `json:"entity_id"`

	// Type is the entity kind.
	Type EntityType `json:"type"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`

	// OccurredAt records when the failure was surfaced.
	OccurredAt time.Time `json:"occurred_at"`
}

// SyncSnapshot is the immutable view of engine state handed to subscribers.
type SyncSnapshot struct {
	// State is the current engine phase.
	State SyncState `json:"state"`

	// LastSyncedAt is the time of the last fully successful sync, zero if
	// no sync has completed yet.
	LastSyncedAt time.Time `json:"last_synced_at"`

	// PendingCount is the number of queued local mutations.
	PendingCount int `json:"pending_count"`

	// Conflicts are the unresolved conflicts awaiting a human decision.
	Conflicts []Conflict `json:"conflicts"`

	// Errors are the per-entity failures since the last successful sync of
	// each entity.
	Errors []EntityError `json:"errors"`
}
