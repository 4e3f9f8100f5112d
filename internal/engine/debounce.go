// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package engine

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/qazuor/markview-sync/models"
)

// debouncer coalesces rapid successive local edits of one entity into a
// single settle callback. Each entity gets its own timer; a new edit within
// the window resets it, so only the quiet period after the last keystroke
// fires.
type debouncer struct {
	window time.Duration
	clock  clockwork.Clock
	fire   func(entityType models.EntityType, id string)

	mu     sync.Mutex
	timers map[string]clockwork.Timer
	closed bool
}

func newDebouncer(window time.Duration, clock clockwork.Clock, fire func(models.EntityType, string)) *debouncer {
	return &debouncer{
		window: window,
		clock:  clock,
		fire:   fire,
		timers: make(map[string]clockwork.Timer),
	}
}

func debounceKey(entityType models.EntityType, id string) string {
	return string(entityType) + "/" + id
}

// Trigger starts or resets the timer for the entity. When the window
// settles without another Trigger, fire runs once in the timer's goroutine.
func (d *debouncer) Trigger(entityType models.EntityType, id string) {
	key := debounceKey(entityType, id)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	// Replace rather than reset: a callback of an expired timer that lost
	// the race to a newer edit must see a different stored timer and bail.
	if old, ok := d.timers[key]; ok {
		old.Stop()
	}

	var t clockwork.Timer
	t = d.clock.AfterFunc(d.window, func() {
		d.mu.Lock()
		if d.closed || d.timers[key] != t {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()

		d.fire(entityType, id)
	})
	d.timers[key] = t
}

// Cancel drops any pending timer for the entity without firing. Used when a
// delete supersedes a pending edit.
func (d *debouncer) Cancel(entityType models.EntityType, id string) {
	key := debounceKey(entityType, id)

	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
}

// Flush fires every pending entity immediately, synchronously, in the
// caller's goroutine. Timers whose callback is already running are skipped;
// they fire on their own.
func (d *debouncer) Flush() {
	type pending struct {
		entityType models.EntityType
		id         string
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	var flushed []pending
	for key, t := range d.timers {
		if !t.Stop() {
			continue
		}
		delete(d.timers, key)

		sep := -1
		for i := range key {
			if key[i] == '/' {
				sep = i
				break
			}
		}
		flushed = append(flushed, pending{
			entityType: models.EntityType(key[:sep]),
			id:         key[sep+1:],
		})
	}
	d.mu.Unlock()

	for _, p := range flushed {
		d.fire(p.entityType, p.id)
	}
}

// Close stops every pending timer without firing. No fire callback runs
// after Close returns for timers that had not yet fired.
func (d *debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
