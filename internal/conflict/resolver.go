// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

// Package conflict implements detection, presentation, and resolution of
// optimistic-concurrency conflicts between a locally edited entity and a
// newer server copy.
//
// Every function in this package is pure. Nothing here touches the queue,
// the mirror, or the server; resolution functions return the entities the
// caller must persist and push. Content is never merged automatically: a
// conflict is always put in front of a human, and the three resolution
// functions encode the three choices the human can make.
package conflict

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qazuor/markview-sync/models"
)

// conflictSuffix matches a trailing "(conflict YYYY-MM-DD)" marker so that
// resolving the same entity twice replaces the marker instead of stacking a
// second one.
var conflictSuffix = regexp.MustCompile(`(\s*\(conflict \d{4}-\d{2}-\d{2}\))+$`)

// Detect reports whether local and server are in conflict: the server moved
// past the version the client last observed AND the local copy carries
// unsynced edits. A local version ahead of or equal to the server's is never
// a conflict; neither is a server advance over an unmodified local copy,
// which is a plain fast-forward.
//
// Divergence is judged against the content-hash baseline recorded at the
// last server match, not against wall-clock timestamps, which are not
// comparable across devices.
func Detect(local, server models.Document) bool {
	if server.SyncVersion <= local.SyncVersion {
		return false
	}
	return local.HasLocalChanges()
}

// DetectFolder is the folder counterpart of Detect. The folder's syncable
// payload is its name.
func DetectFolder(local, server models.Folder) bool {
	if server.SyncVersion <= local.SyncVersion {
		return false
	}
	return local.HasLocalChanges()
}

// CalculateDiff produces a line-based summary of how far local and server
// content diverged. Added counts lines present only in the server content,
// removed counts lines present only in the local content, and the percentage
// is 100 * (added + removed) / max(localLines, serverLines), clamped to 100.
//
// The summary is presentation-only. It is never used for merge decisions.
func CalculateDiff(local, server string) models.DiffSummary {
	localLines := strings.Split(local, "\n")
	serverLines := strings.Split(server, "\n")

	counts := make(map[string]int, len(localLines))
	for _, line := range localLines {
		counts[line]++
	}

	var added int
	for _, line := range serverLines {
		if counts[line] > 0 {
			counts[line]--
			continue
		}
		added++
	}

	var removed int
	for _, remaining := range counts {
		removed += remaining
	}

	total := len(localLines)
	if len(serverLines) > total {
		total = len(serverLines)
	}

	var pct float64
	if total > 0 {
		pct = 100 * float64(added+removed) / float64(total)
		if pct > 100 {
			pct = 100
		}
	}

	return models.DiffSummary{
		AddedLines:        added,
		RemovedLines:      removed,
		ChangedPercentage: pct,
	}
}

// NewDocumentConflict builds the Conflict record surfaced to the user for a
// document, snapshotting both copies and their content diff.
func NewDocumentConflict(local, server models.Document, detectedAt time.Time) (models.Conflict, error) {
	localJSON, err := json.Marshal(local)
	if err != nil {
		return models.Conflict{}, fmt.Errorf("snapshot local document %s: %w", local.ID, err)
	}
	serverJSON, err := json.Marshal(server)
	if err != nil {
		return models.Conflict{}, fmt.Errorf("snapshot server document %s: %w", server.ID, err)
	}

	return models.Conflict{
		EntityID:   local.ID,
		Type:       models.EntityDocument,
		Local:      localJSON,
		Server:     serverJSON,
		Diff:       CalculateDiff(local.Content, server.Content),
		DetectedAt: detectedAt,
	}, nil
}

// NewFolderConflict builds the Conflict record for a folder. The diff
// compares the two names.
func NewFolderConflict(local, server models.Folder, detectedAt time.Time) (models.Conflict, error) {
	localJSON, err := json.Marshal(local)
	if err != nil {
		return models.Conflict{}, fmt.Errorf("snapshot local folder %s: %w", local.ID, err)
	}
	serverJSON, err := json.Marshal(server)
	if err != nil {
		return models.Conflict{}, fmt.Errorf("snapshot server folder %s: %w", server.ID, err)
	}

	return models.Conflict{
		EntityID:   local.ID,
		Type:       models.EntityFolder,
		Local:      localJSON,
		Server:     serverJSON,
		Diff:       CalculateDiff(local.Name, server.Name),
		DetectedAt: detectedAt,
	}, nil
}

// ResolveWithLocal keeps the local copy. The returned document carries the
// local payload with its version bumped past the server's current one, so
// the next push wins under optimistic concurrency.
func ResolveWithLocal(local, server models.Document) models.Document {
	resolved := local
	resolved.SyncVersion = server.SyncVersion + 1
	return resolved
}

// ResolveFolderWithLocal is the folder counterpart of ResolveWithLocal.
func ResolveFolderWithLocal(local, server models.Folder) models.Folder {
	resolved := local
	resolved.SyncVersion = server.SyncVersion + 1
	return resolved
}

// ResolveWithServer discards local edits and accepts the server copy
// verbatim. The caller must also drop any queued write for this id.
func ResolveWithServer(_, server models.Document) models.Document {
	return server
}

// ResolveFolderWithServer is the folder counterpart of ResolveWithServer.
func ResolveFolderWithServer(_, server models.Folder) models.Folder {
	return server
}

// ResolveWithBoth accepts the server copy as canonical and preserves the
// local edits in a brand-new document. The copy gets a fresh id, version
// zero, and a title suffixed with "(conflict YYYY-MM-DD)" for now's date.
// An existing suffix from an earlier conflict is replaced, not stacked.
func ResolveWithBoth(local, server models.Document, now time.Time) (canonical, duplicate models.Document) {
	duplicate = local
	duplicate.ID = uuid.NewString()
	duplicate.Title = ConflictTitle(local.Title, now)
	duplicate.SyncVersion = 0
	duplicate.UpdatedAt = now
	duplicate.SyncedAt = nil
	duplicate.BaseHash = ""

	return server, duplicate
}

// ResolveFolderWithBoth is the folder counterpart of ResolveWithBoth.
func ResolveFolderWithBoth(local, server models.Folder, now time.Time) (canonical, duplicate models.Folder) {
	duplicate = local
	duplicate.ID = uuid.NewString()
	duplicate.Name = ConflictTitle(local.Name, now)
	duplicate.SyncVersion = 0
	duplicate.UpdatedAt = now
	duplicate.SyncedAt = nil
	duplicate.BaseHash = ""

	return server, duplicate
}

// ConflictTitle appends a deterministic "(conflict YYYY-MM-DD)" marker to
// title, replacing any marker left by a previous conflict.
func ConflictTitle(title string, now time.Time) string {
	base := conflictSuffix.ReplaceAllString(title, "")
	return fmt.Sprintf("%s (conflict %s)", base, now.Format("2006-01-02"))
}
