// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qazuor/markview-sync/internal/config"
	"github.com/qazuor/markview-sync/internal/logger"
	"github.com/qazuor/markview-sync/models"
)

type fakeConn struct {
	frames chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		frames: make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (f *fakeConn) Read(ctx context.Context) (websocket.MessageType, []byte, error) {
	select {
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	case <-f.closed:
		return 0, nil, errors.New("connection closed")
	case frame := <-f.frames:
		return websocket.MessageText, frame, nil
	}
}

func (f *fakeConn) Close(websocket.StatusCode, string) error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) push(t *testing.T, ev models.RealtimeEvent) {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	f.frames <- data
}

func newTestChannel(t *testing.T, maxAttempts int, clock clockwork.Clock, handler Handler) *Channel {
	t.Helper()

	if handler == nil {
		handler = func(models.RealtimeEvent) {}
	}

	ch := NewChannel("ws://sync.test/sync/events", "device-self",
		config.Realtime{MaxReconnectAttempts: maxAttempts},
		func() string { return "token" }, handler, clock, logger.Nop())
	t.Cleanup(ch.Close)
	return ch
}

func waitDial(t *testing.T, dials <-chan struct{}) {
	t.Helper()
	select {
	case <-dials:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a dial attempt")
	}
}

func TestChannel_DeliversChangeEvents(t *testing.T) {
	fc := clockwork.NewFakeClock()
	events := make(chan models.RealtimeEvent, 16)
	ch := newTestChannel(t, 10, fc, func(ev models.RealtimeEvent) { events <- ev })

	wsConn := newFakeConn()
	ch.dial = func(context.Context, string, string, string) (conn, error) {
		return wsConn, nil
	}

	ch.Start(context.Background())

	require.Eventually(t, func() bool {
		return ch.State() == models.ConnConnected
	}, 2*time.Second, 10*time.Millisecond)

	wsConn.push(t, models.RealtimeEvent{Kind: models.EventConnected, ConnectionID: "conn-1"})
	wsConn.push(t, models.RealtimeEvent{Kind: models.EventHeartbeat})
	wsConn.push(t, models.RealtimeEvent{Kind: models.EventDocumentUpdated, EntityID: "doc-1", DeviceID: "device-other"})

	select {
	case ev := <-events:
		assert.Equal(t, models.EventDocumentUpdated, ev.Kind)
		assert.Equal(t, "doc-1", ev.EntityID)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change event")
	}

	assert.Equal(t, "conn-1", ch.ConnectionID())
	assert.False(t, ch.LastHeartbeat().IsZero())
}

func TestChannel_DropsOwnEchoes(t *testing.T) {
	fc := clockwork.NewFakeClock()
	events := make(chan models.RealtimeEvent, 16)
	ch := newTestChannel(t, 10, fc, func(ev models.RealtimeEvent) { events <- ev })

	wsConn := newFakeConn()
	ch.dial = func(context.Context, string, string, string) (conn, error) {
		return wsConn, nil
	}

	ch.Start(context.Background())

	wsConn.push(t, models.RealtimeEvent{Kind: models.EventDocumentUpdated, EntityID: "doc-1", DeviceID: "device-self"})
	wsConn.push(t, models.RealtimeEvent{Kind: models.EventFolderUpdated, EntityID: "folder-1", DeviceID: "device-other"})

	select {
	case ev := <-events:
		// the echo must have been swallowed, first delivery is the folder event
		assert.Equal(t, models.EventFolderUpdated, ev.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change event")
	}
}

func TestChannel_ReconnectBackoffDoubles(t *testing.T) {
	fc := clockwork.NewFakeClock()
	ch := newTestChannel(t, 10, fc, nil)

	dials := make(chan struct{}, 32)
	ch.dial = func(context.Context, string, string, string) (conn, error) {
		dials <- struct{}{}
		return nil, errors.New("dial refused")
	}

	ch.Start(context.Background())

	// first attempt fails, then waits 1s, 2s, 4s between retries
	waitDial(t, dials)
	fc.BlockUntil(1)
	assert.Equal(t, models.ConnReconnecting, ch.State())

	fc.Advance(time.Second)
	waitDial(t, dials)
	fc.BlockUntil(1)

	fc.Advance(2 * time.Second)
	waitDial(t, dials)
	fc.BlockUntil(1)

	fc.Advance(4 * time.Second)
	waitDial(t, dials)
}

func TestChannel_ContextCancelMidBackoffReportsDisconnected(t *testing.T) {
	fc := clockwork.NewFakeClock()
	ch := newTestChannel(t, 10, fc, nil)

	dials := make(chan struct{}, 4)
	ch.dial = func(context.Context, string, string, string) (conn, error) {
		dials <- struct{}{}
		return nil, errors.New("dial refused")
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch.Start(ctx)

	waitDial(t, dials)
	fc.BlockUntil(1)
	require.Equal(t, models.ConnReconnecting, ch.State())

	// cancelling the parent context, not Close, must still land on
	// disconnected rather than a stale reconnecting
	cancel()

	require.Eventually(t, func() bool {
		return ch.State() == models.ConnDisconnected
	}, 2*time.Second, 10*time.Millisecond)
}

func TestChannel_OnlineSignalResetsBackoff(t *testing.T) {
	fc := clockwork.NewFakeClock()
	ch := newTestChannel(t, 10, fc, nil)

	dials := make(chan struct{}, 32)
	ch.dial = func(context.Context, string, string, string) (conn, error) {
		dials <- struct{}{}
		return nil, errors.New("dial refused")
	}

	ch.Start(context.Background())

	waitDial(t, dials)
	fc.BlockUntil(1)

	// mid-backoff online signal reconnects immediately, no clock advance
	ch.SetOnline(true)
	waitDial(t, dials)

	// and the attempt counter is back to zero: next delay is 1s again
	fc.BlockUntil(1)
	fc.Advance(time.Second)
	waitDial(t, dials)
}

func TestChannel_GivesUpAfterMaxAttempts(t *testing.T) {
	fc := clockwork.NewFakeClock()
	ch := newTestChannel(t, 3, fc, nil)

	dials := make(chan struct{}, 32)
	ch.dial = func(context.Context, string, string, string) (conn, error) {
		dials <- struct{}{}
		return nil, errors.New("dial refused")
	}

	ch.Start(context.Background())

	waitDial(t, dials)
	fc.BlockUntil(1)
	fc.Advance(time.Second)

	waitDial(t, dials)
	fc.BlockUntil(1)
	fc.Advance(2 * time.Second)

	waitDial(t, dials)

	require.Eventually(t, func() bool {
		return ch.State() == models.ConnDisconnected
	}, 2*time.Second, 10*time.Millisecond)

	select {
	case <-dials:
		t.Fatal("channel must stop dialing after giving up")
	case <-time.After(100 * time.Millisecond):
	}

	// the next connectivity signal revives it
	ch.SetOnline(true)
	waitDial(t, dials)
}

func TestChannel_OfflineForceClosesAndSuspends(t *testing.T) {
	fc := clockwork.NewFakeClock()
	ch := newTestChannel(t, 10, fc, nil)

	var mu sync.Mutex
	conns := []*fakeConn{}
	ch.dial = func(context.Context, string, string, string) (conn, error) {
		mu.Lock()
		defer mu.Unlock()
		c := newFakeConn()
		conns = append(conns, c)
		return c, nil
	}

	ch.Start(context.Background())

	require.Eventually(t, func() bool {
		return ch.State() == models.ConnConnected
	}, 2*time.Second, 10*time.Millisecond)

	ch.SetOnline(false)

	require.Eventually(t, func() bool {
		return ch.State() == models.ConnDisconnected
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	first := conns[0]
	mu.Unlock()
	select {
	case <-first.closed:
	default:
		t.Fatal("offline signal must force-close the connection")
	}

	ch.SetOnline(true)

	require.Eventually(t, func() bool {
		return ch.State() == models.ConnConnected
	}, 2*time.Second, 10*time.Millisecond)
}

func TestChannel_CloseTearsDown(t *testing.T) {
	fc := clockwork.NewFakeClock()
	ch := newTestChannel(t, 10, fc, nil)

	wsConn := newFakeConn()
	ch.dial = func(context.Context, string, string, string) (conn, error) {
		return wsConn, nil
	}

	ch.Start(context.Background())
	require.Eventually(t, func() bool {
		return ch.State() == models.ConnConnected
	}, 2*time.Second, 10*time.Millisecond)

	ch.Close()

	assert.Equal(t, models.ConnDisconnected, ch.State())
	select {
	case <-wsConn.closed:
	default:
		t.Fatal("close must tear the connection down")
	}
}

func TestReconnectDelay_Capped(t *testing.T) {
	assert.Equal(t, time.Second, reconnectDelay(0))
	assert.Equal(t, 2*time.Second, reconnectDelay(1))
	assert.Equal(t, 4*time.Second, reconnectDelay(2))
	assert.Equal(t, 16*time.Second, reconnectDelay(4))
	assert.Equal(t, 30*time.Second, reconnectDelay(5))
	assert.Equal(t, 30*time.Second, reconnectDelay(20))
}
