// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qazuor/markview-sync/models"
)

type fireRecorder struct {
	mu    sync.Mutex
	fired []string
	ch    chan string
}

func newFireRecorder() *fireRecorder {
	return &fireRecorder{ch: make(chan string, 16)}
}

func (r *fireRecorder) fire(entityType models.EntityType, id string) {
	r.mu.Lock()
	r.fired = append(r.fired, string(entityType)+"/"+id)
	r.mu.Unlock()
	r.ch <- id
}

func (r *fireRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.fired))
	copy(out, r.fired)
	return out
}

func (r *fireRecorder) await(t *testing.T) string {
	t.Helper()
	select {
	case id := <-r.ch:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("debounce never fired")
		return ""
	}
}

func (r *fireRecorder) assertQuiet(t *testing.T) {
	t.Helper()
	select {
	case id := <-r.ch:
		t.Fatalf("unexpected debounce fire for %s", id)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDebouncer_RetriggerRestartsWindow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newFireRecorder()
	d := newDebouncer(3*time.Second, clock, rec.fire)
	defer d.Close()

	d.Trigger(models.EntityDocument, "doc-1")
	clock.Advance(2 * time.Second)
	rec.assertQuiet(t)

	// a keystroke inside the window restarts it
	d.Trigger(models.EntityDocument, "doc-1")
	clock.Advance(2 * time.Second)
	rec.assertQuiet(t)

	clock.Advance(1 * time.Second)
	assert.Equal(t, "doc-1", rec.await(t))
	assert.Equal(t, []string{"document/doc-1"}, rec.all())
}

func TestDebouncer_IndependentPerEntity(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newFireRecorder()
	d := newDebouncer(3*time.Second, clock, rec.fire)
	defer d.Close()

	d.Trigger(models.EntityDocument, "doc-1")
	d.Trigger(models.EntityFolder, "folder-1")
	// same id across entity kinds must not collide
	d.Trigger(models.EntityFolder, "doc-1")

	clock.Advance(3 * time.Second)

	got := map[string]bool{}
	for i := 0; i < 3; i++ {
		got[rec.await(t)] = true
	}
	fired := rec.all()
	require.Len(t, fired, 3)
	assert.Contains(t, fired, "document/doc-1")
	assert.Contains(t, fired, "folder/folder-1")
	assert.Contains(t, fired, "folder/doc-1")
}

func TestDebouncer_CancelDropsPendingFire(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newFireRecorder()
	d := newDebouncer(3*time.Second, clock, rec.fire)
	defer d.Close()

	d.Trigger(models.EntityDocument, "doc-1")
	d.Cancel(models.EntityDocument, "doc-1")

	clock.Advance(10 * time.Second)
	rec.assertQuiet(t)
}

func TestDebouncer_FlushFiresSynchronously(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newFireRecorder()
	d := newDebouncer(3*time.Second, clock, rec.fire)
	defer d.Close()

	d.Trigger(models.EntityDocument, "doc-1")
	d.Trigger(models.EntityFolder, "folder-1")

	d.Flush()

	fired := rec.all()
	assert.Len(t, fired, 2)

	// flushed timers must not fire again
	clock.Advance(10 * time.Second)
	assert.Len(t, rec.all(), 2)
}

func TestDebouncer_CloseSilencesEverything(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newFireRecorder()
	d := newDebouncer(3*time.Second, clock, rec.fire)

	d.Trigger(models.EntityDocument, "doc-1")
	d.Close()

	clock.Advance(10 * time.Second)
	rec.assertQuiet(t)

	// triggering after close is a no-op
	d.Trigger(models.EntityDocument, "doc-2")
	clock.Advance(10 * time.Second)
	rec.assertQuiet(t)
}
