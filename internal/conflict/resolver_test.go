// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qazuor/markview-sync/models"
)

func syncedDocument(id, content string, version int64) models.Document {
	return models.Document{
		ID:          id,
		Title:       "Notes",
		Content:     content,
		SyncVersion: version,
		BaseHash:    models.HashContent(content),
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		local  models.Document
		server models.Document
		want   bool
	}{
		{
			name: "server ahead and local edited",
			local: func() models.Document {
				d := syncedDocument("doc-1", "original", 1)
				d.Content = "edited offline"
				return d
			}(),
			server: syncedDocument("doc-1", "server edit", 2),
			want:   true,
		},
		{
			name:   "server ahead but local untouched is a fast-forward",
			local:  syncedDocument("doc-1", "original", 1),
			server: syncedDocument("doc-1", "server edit", 2),
			want:   false,
		},
		{
			name: "equal versions never conflict",
			local: func() models.Document {
				d := syncedDocument("doc-1", "original", 2)
				d.Content = "edited"
				return d
			}(),
			server: syncedDocument("doc-1", "server edit", 2),
			want:   false,
		},
		{
			name: "local ahead of server never conflicts",
			local: func() models.Document {
				d := syncedDocument("doc-1", "original", 3)
				d.Content = "edited"
				return d
			}(),
			server: syncedDocument("doc-1", "server edit", 2),
			want:   false,
		},
		{
			name: "never-synced local counts as edited",
			local: models.Document{
				ID:      "doc-1",
				Content: "fresh",
			},
			server: syncedDocument("doc-1", "server edit", 1),
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.local, tt.server))
		})
	}
}

func TestDetectFolder(t *testing.T) {
	local := models.Folder{ID: "folder-1", Name: "Renamed", SyncVersion: 1, BaseHash: models.HashContent("Work")}
	server := models.Folder{ID: "folder-1", Name: "Work archive", SyncVersion: 2}

	assert.True(t, DetectFolder(local, server))

	local.Name = "Work"
	assert.False(t, DetectFolder(local, server))
}

func TestCalculateDiff_SingleChangedLine(t *testing.T) {
	diff := CalculateDiff("a\nb\nc", "a\nx\nc")

	assert.Equal(t, 1, diff.AddedLines)
	assert.Equal(t, 1, diff.RemovedLines)
	assert.InDelta(t, 100*2.0/3.0, diff.ChangedPercentage, 0.01)
}

func TestCalculateDiff_Identical(t *testing.T) {
	diff := CalculateDiff("a\nb", "a\nb")

	assert.Zero(t, diff.AddedLines)
	assert.Zero(t, diff.RemovedLines)
	assert.Zero(t, diff.ChangedPercentage)
}

func TestCalculateDiff_ServerAppended(t *testing.T) {
	diff := CalculateDiff("a\nb", "a\nb\nc\nd")

	assert.Equal(t, 2, diff.AddedLines)
	assert.Zero(t, diff.RemovedLines)
	assert.InDelta(t, 50.0, diff.ChangedPercentage, 0.01)
}

func TestCalculateDiff_CompletelyDifferentClampsAt100(t *testing.T) {
	diff := CalculateDiff("a\nb\nc", "x\ny\nz")

	assert.Equal(t, 3, diff.AddedLines)
	assert.Equal(t, 3, diff.RemovedLines)
	assert.InDelta(t, 100.0, diff.ChangedPercentage, 0.01)
}

func TestNewDocumentConflict_Snapshots(t *testing.T) {
	local := syncedDocument("doc-1", "a\nb\nc", 1)
	local.Content = "a\nx\nc"
	server := syncedDocument("doc-1", "a\nb\nc\nd", 2)
	detectedAt := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

	c, err := NewDocumentConflict(local, server, detectedAt)
	require.NoError(t, err)

	assert.Equal(t, "doc-1", c.EntityID)
	assert.Equal(t, models.EntityDocument, c.Type)
	assert.Equal(t, detectedAt, c.DetectedAt)

	gotLocal, err := c.LocalDocument()
	require.NoError(t, err)
	assert.Equal(t, "a\nx\nc", gotLocal.Content)

	gotServer, err := c.ServerDocument()
	require.NoError(t, err)
	assert.Equal(t, int64(2), gotServer.SyncVersion)
}

func TestResolveWithLocal_BumpsPastServer(t *testing.T) {
	local := syncedDocument("doc-1", "local edit", 1)
	server := syncedDocument("doc-1", "server edit", 5)

	resolved := ResolveWithLocal(local, server)

	assert.Equal(t, "local edit", resolved.Content)
	assert.Equal(t, int64(6), resolved.SyncVersion)
}

func TestResolveWithServer_Verbatim(t *testing.T) {
	local := syncedDocument("doc-1", "local edit", 1)
	server := syncedDocument("doc-1", "server edit", 5)

	assert.Equal(t, server, ResolveWithServer(local, server))
}

func TestResolveWithBoth(t *testing.T) {
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	local := syncedDocument("doc-1", "local edit", 1)
	server := syncedDocument("doc-1", "server edit", 5)

	canonical, duplicate := ResolveWithBoth(local, server, now)

	assert.Equal(t, server, canonical)
	assert.NotEqual(t, local.ID, duplicate.ID)
	assert.NotEmpty(t, duplicate.ID)
	assert.Equal(t, "local edit", duplicate.Content)
	assert.Equal(t, "Notes (conflict 2026-05-02)", duplicate.Title)
	assert.Zero(t, duplicate.SyncVersion)
	assert.Empty(t, duplicate.BaseHash)
	assert.Nil(t, duplicate.SyncedAt)
}

func TestConflictTitle_ReplacesPriorSuffix(t *testing.T) {
	now := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Notes (conflict 2026-05-02)", ConflictTitle("Notes", now))
	assert.Equal(t, "Notes (conflict 2026-05-02)", ConflictTitle("Notes (conflict 2026-04-30)", now))
	assert.Equal(t, "Notes (conflict 2026-05-02)", ConflictTitle("Notes (conflict 2026-04-30) (conflict 2026-05-01)", now))
}
