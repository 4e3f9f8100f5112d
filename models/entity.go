// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// EntityType identifies which kind of syncable entity a queue item,
// conflict, or realtime event refers to.
type EntityType string

const (
	// EntityDocument is a markdown document.
	EntityDocument EntityType = "document"

	// EntityFolder is a folder in the document hierarchy.
	EntityFolder EntityType = "folder"
)

// Document is the primary syncable entity: a markdown document owned by a
// single user. The sync fields (SyncVersion, SyncedAt, BaseHash) are
// maintained exclusively by the sync engine; UI code must treat them as
// read-only.
type Document struct {
	// ID is the stable, client-generated identifier (UUID).
	ID string `json:"id"`

	// UserID is the owner of the document.
	UserID string `json:"user_id"`

	// Title is the human-readable document name.
	Title string `json:"title"`

	// Content is the full markdown body.
	Content string `json:"content"`

	// FolderID places the document in the folder hierarchy.
	// Nil means the document lives at the root.
	FolderID *string `json:"folder_id,omitempty"`

	// SyncVersion is the monotonic version counter. It starts at 0 and is
	// incremented once per accepted server write. A client write is only
	// accepted when it carries the version it last observed from the server.
	SyncVersion int64 `json:"sync_version"`

	// UpdatedAt is the timestamp of the last local modification.
	UpdatedAt time.Time `json:"updated_at"`

	// DeletedAt is the soft-delete tombstone. Non-nil means the document is
	// deleted but the deletion still has to propagate to other devices.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// SyncedAt is the last time the local copy matched the server copy.
	SyncedAt *time.Time `json:"synced_at,omitempty"`

	// BaseHash is the content hash at the moment the local copy last matched
	// the server. Conflict detection compares the current content hash
	// against this baseline instead of wall-clock timestamps, which are not
	// comparable across devices.
	BaseHash string `json:"base_hash,omitempty"`
}

// Folder groups documents into a hierarchy. It carries the same sync fields
// as Document and follows the same optimistic-concurrency rules.
type Folder struct {
	// ID is the stable, client-generated identifier (UUID).
	ID string `json:"id"`

	// UserID is the owner of the folder.
	UserID string `json:"user_id"`

	// Name is the human-readable folder name.
	Name string `json:"name"`

	// ParentID is the enclosing folder, nil for top-level folders.
	ParentID *string `json:"parent_id,omitempty"`

	// SyncVersion is the monotonic version counter, see Document.SyncVersion.
	SyncVersion int64 `json:"sync_version"`

	// UpdatedAt is the timestamp of the last local modification.
	UpdatedAt time.Time `json:"updated_at"`

	// DeletedAt is the soft-delete tombstone.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// SyncedAt is the last time the local copy matched the server copy.
	SyncedAt *time.Time `json:"synced_at,omitempty"`

	// BaseHash is the name hash at the last server match, see Document.BaseHash.
	BaseHash string `json:"base_hash,omitempty"`
}

// ContentHash returns the hex-encoded SHA-256 of the document content.
// It is the signal used for the conflict-detection baseline.
func (d *Document) ContentHash() string {
	return HashContent(d.Content)
}

// ContentHash returns the hash of the folder's syncable payload (its name).
func (f *Folder) ContentHash() string {
	return HashContent(f.Name)
}

// IsDeleted reports whether the document carries a tombstone.
func (d *Document) IsDeleted() bool { return d.DeletedAt != nil }

// IsDeleted reports whether the folder carries a tombstone.
func (f *Folder) IsDeleted() bool { return f.DeletedAt != nil }

// HasLocalChanges reports whether the document content diverged from the
// last server-confirmed baseline. A document that has never synced
// (empty BaseHash) always counts as locally changed.
func (d *Document) HasLocalChanges() bool {
	return d.BaseHash == "" || d.ContentHash() != d.BaseHash
}

// HasLocalChanges reports whether the folder diverged from the baseline.
func (f *Folder) HasLocalChanges() bool {
	return f.BaseHash == "" || f.ContentHash() != f.BaseHash
}

// HashContent computes the hex-encoded SHA-256 digest of s.
func HashContent(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
