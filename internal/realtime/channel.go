// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

// Package realtime maintains the websocket push channel that tells the
// client "something changed on the server, go fetch it".
//
// The channel runs an explicit state machine
// (disconnected, connecting, connected, reconnecting) with exponential
// reconnect backoff. Delivery is at-most-once per physical message and may
// duplicate across reconnects; consumers treat every event as a hint to
// re-fetch, never as an authoritative state patch.
package realtime

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/qazuor/markview-sync/internal/config"
	"github.com/qazuor/markview-sync/internal/logger"
	"github.com/qazuor/markview-sync/models"
)

const (
	dialTimeout        = 10 * time.Second
	baseReconnectDelay = time.Second
	maxReconnectDelay  = 30 * time.Second
)

// Handler receives decoded change events. It is called from the channel's
// read goroutine; implementations must not block for long.
type Handler func(models.RealtimeEvent)

// conn is the slice of *websocket.Conn the channel uses, extracted so tests
// can script connection behaviour.
type conn interface {
	Read(ctx context.Context) (websocket.MessageType, []byte, error)
	Close(code websocket.StatusCode, reason string) error
}

// dialFunc opens a websocket connection. The default implementation wraps
// [websocket.Dial].
type dialFunc func(ctx context.Context, url string, deviceID, token string) (conn, error)

// Channel is the client side of the push channel. Create one with
// [NewChannel], launch it with Start, and tear it down with Close.
type Channel struct {
	url         string
	deviceID    string
	maxAttempts int
	tokenFn     func() string
	handler     Handler
	clock       clockwork.Clock
	dial        dialFunc
	logger      *logger.Logger

	// wake interrupts a backoff or suspend wait after a connectivity signal.
	wake chan struct{}

	mu            sync.Mutex
	state         models.ConnectionState
	connectionID  string
	lastHeartbeat time.Time
	attempt       int
	online        bool
	conn          conn
	cancel        context.CancelFunc

	wg sync.WaitGroup
}

// NewChannel builds a Channel dialing wsURL. Events that do not originate
// from deviceID are passed to handler; tokenFn supplies the bearer token for
// each dial so a refreshed token is picked up on reconnect.
func NewChannel(wsURL, deviceID string, cfg config.Realtime, tokenFn func() string, handler Handler, clock clockwork.Clock, log *logger.Logger) *Channel {
	maxAttempts := cfg.MaxReconnectAttempts
	if maxAttempts <= 0 {
		maxAttempts = config.DefaultMaxReconnectAttempts
	}

	return &Channel{
		url:         strings.TrimSpace(wsURL),
		deviceID:    deviceID,
		maxAttempts: maxAttempts,
		tokenFn:     tokenFn,
		handler:     handler,
		clock:       clock,
		dial:        defaultDial,
		logger:      log,
		wake:        make(chan struct{}, 1),
		state:       models.ConnDisconnected,
		online:      true,
	}
}

func defaultDial(ctx context.Context, url string, deviceID, token string) (conn, error) {
	opts := &websocket.DialOptions{HTTPHeader: map[string][]string{
		"X-Device-Id": {deviceID},
	}}
	if token != "" {
		opts.HTTPHeader["Authorization"] = []string{"Bearer " + token}
	}

	c, _, err := websocket.Dial(ctx, url, opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Start stops any previous run and launches the connection loop in a
// background goroutine. The goroutine exits when ctx is cancelled or Close
// is called.
func (c *Channel) Start(ctx context.Context) {
	c.Close()

	runCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.cancel = cancel
	c.attempt = 0
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(runCtx)
	}()
}

// Close cancels the connection loop, force-closes any live connection, and
// blocks until the goroutine has exited. Safe to call when not running.
func (c *Channel) Close() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.closeConn()
	c.wg.Wait()
	c.setState(models.ConnDisconnected)
}

// SetOnline feeds the OS/browser connectivity signal into the channel.
// Going offline force-closes the connection and suspends reconnection;
// going online resets the attempt counter and reconnects immediately, even
// mid-backoff.
func (c *Channel) SetOnline(online bool) {
	c.mu.Lock()
	c.online = online
	if online {
		c.attempt = 0
	}
	c.mu.Unlock()

	if !online {
		c.closeConn()
	}
	c.notifyWake()
}

// State returns the current lifecycle phase.
func (c *Channel) State() models.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ConnectionID returns the server-assigned session id of the current
// connection, empty while disconnected.
func (c *Channel) ConnectionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectionID
}

// LastHeartbeat returns the time the most recent heartbeat was observed.
// Liveness diagnostics only.
func (c *Channel) LastHeartbeat() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastHeartbeat
}

func (c *Channel) run(ctx context.Context) {
	// Whatever path the loop exits through, the reported state must land
	// on disconnected, backoff and suspend waits included.
	defer c.setState(models.ConnDisconnected)

	for {
		if ctx.Err() != nil {
			return
		}

		if !c.isOnline() {
			c.setState(models.ConnDisconnected)
			if !c.waitWake(ctx) {
				return
			}
			continue
		}

		c.setState(models.ConnConnecting)

		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		wsConn, err := c.dial(dialCtx, c.url, c.deviceID, c.token())
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !c.backoff(ctx, err) {
				if ctx.Err() != nil {
					return
				}
				continue
			}
			continue
		}

		c.mu.Lock()
		c.conn = wsConn
		c.attempt = 0
		c.mu.Unlock()
		c.setState(models.ConnConnected)

		c.readLoop(ctx, wsConn)

		c.mu.Lock()
		c.conn = nil
		c.connectionID = ""
		c.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
	}
}

// backoff sleeps before the next dial attempt. It returns false when the
// attempt budget is exhausted and the channel has given up until the next
// online signal, or when ctx is done.
func (c *Channel) backoff(ctx context.Context, cause error) bool {
	c.mu.Lock()
	attempt := c.attempt
	c.attempt++
	c.mu.Unlock()

	if attempt+1 >= c.maxAttempts {
		c.logger.Warn().Err(cause).
			Int("attempts", attempt+1).
			Msg("push channel giving up until connectivity returns")
		c.setState(models.ConnDisconnected)
		c.waitWake(ctx)
		return false
	}

	delay := reconnectDelay(attempt)
	c.logger.Debug().Err(cause).
		Int("attempt", attempt).
		Dur("delay", delay).
		Msg("push channel reconnecting")
	c.setState(models.ConnReconnecting)

	select {
	case <-ctx.Done():
		return false
	case <-c.clock.After(delay):
		return true
	case <-c.wake:
		// Connectivity signal mid-backoff; re-evaluate immediately.
		return true
	}
}

// reconnectDelay is min(1s * 2^attempt, 30s).
func reconnectDelay(attempt int) time.Duration {
	delay := baseReconnectDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= maxReconnectDelay {
			return maxReconnectDelay
		}
	}
	return delay
}

func (c *Channel) readLoop(ctx context.Context, wsConn conn) {
	for {
		_, data, err := wsConn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Debug().Err(err).Msg("push channel read failed")
			}
			return
		}

		ev, err := models.DecodeRealtimeEvent(data)
		if err != nil {
			c.logger.Warn().Err(err).Msg("dropping undecodable push event")
			continue
		}

		if ev.DeviceID != "" && ev.DeviceID == c.deviceID {
			// Our own write echoed back.
			continue
		}

		switch ev.Kind {
		case models.EventConnected:
			c.mu.Lock()
			c.connectionID = ev.ConnectionID
			c.mu.Unlock()
			c.logger.Debug().Str("connectionId", ev.ConnectionID).Msg("push channel session established")
		case models.EventHeartbeat:
			c.mu.Lock()
			c.lastHeartbeat = c.clock.Now()
			c.mu.Unlock()
		default:
			c.handler(ev)
		}
	}
}

func (c *Channel) setState(st models.ConnectionState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == st {
		return
	}
	c.state = st
}

func (c *Channel) isOnline() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

func (c *Channel) token() string {
	if c.tokenFn == nil {
		return ""
	}
	return c.tokenFn()
}

func (c *Channel) closeConn() {
	c.mu.Lock()
	wsConn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if wsConn != nil {
		_ = wsConn.Close(websocket.StatusNormalClosure, "client closing")
	}
}

func (c *Channel) notifyWake() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// waitWake blocks until a connectivity signal or ctx cancellation. Returns
// false when ctx is done.
func (c *Channel) waitWake(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-c.wake:
		return true
	}
}
