package models

import (
	"encoding/json"
	"time"
)

// Resolution is the human decision applied to a pending conflict.
type Resolution string

const (
	// ResolutionLocal keeps the local copy and overwrites the server.
	ResolutionLocal Resolution = "local"

	// ResolutionServer accepts the server copy and discards local changes.
	ResolutionServer Resolution = "server"

	// ResolutionBoth accepts the server copy and preserves the local one as
	// a new entity with a conflict-suffixed name.
	ResolutionBoth Resolution = "both"
)

// Conflict captures a version-mismatch between a locally edited entity and
// a newer server copy. Conflicts are surfaced to a human for explicit
// resolution; the engine never merges content automatically.
type Conflict struct {
	// EntityID identifies the conflicted entity. A later detection for the
	// same id supersedes an earlier Conflict record.
	EntityID string `json:"entity_id"`

	// Type tells whether the snapshots hold a Document or a Folder.
	Type EntityType `json:"type"`

	// Local is the JSON snapshot of the local entity at detection time.
	Local json.RawMessage `json:"local"`

	// Server is the JSON snapshot of the authoritative server entity.
	Server json.RawMessage `json:"server"`

	// Diff summarises how far the two contents diverged. Presentation only,
	// never used for merge decisions.
	Diff DiffSummary `json:"diff"`

	// DetectedAt records when the mismatch was observed.
	DetectedAt time.Time `json:"detected_at"`
}

// DiffSummary is a line-based comparison of two contents, computed purely
// for presenting a conflict to the user.
type DiffSummary struct {
	// AddedLines is the number of lines present only in the server content.
	AddedLines int `json:"added_lines"`

	// RemovedLines is the number of lines present only in the local content.
	RemovedLines int `json:"removed_lines"`

	// ChangedPercentage is 100 * changedLines / max(localLines, serverLines).
	ChangedPercentage float64 `json:"changed_percentage"`
}

// LocalDocument decodes the local snapshot as a Document.
func (c *Conflict) LocalDocument() (Document, error) {
	var doc Document
	err := json.Unmarshal(c.Local, &doc)
	return doc, err
}

// ServerDocument decodes the server snapshot as a Document.
func (c *Conflict) ServerDocument() (Document, error) {
	var doc Document
	err := json.Unmarshal(c.Server, &doc)
	return doc, err
}
