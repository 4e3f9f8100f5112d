// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// markview-sync engine. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, an optional JSON file, and built-in defaults (in that order of
// precedence).
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the device identity and
	// the application version.
	App App `envPrefix:"APP_"`

	// Remote holds the addresses and timeouts for the sync server the
	// engine talks to.
	Remote Remote `envPrefix:"REMOTE_"`

	// Storage holds the local persistence settings (the durable queue and
	// entity mirror).
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds the orchestrator's timing and retry parameters.
	Sync Sync `envPrefix:"SYNC_"`

	// Realtime holds the push-channel reconnection parameters.
	Realtime Realtime `envPrefix:"REALTIME_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged below the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// DeviceID identifies this client session on the push channel so the
	// server can tag echoes of our own writes. Generated when empty.
	// Env: APP_DEVICE_ID
	DeviceID string `env:"DEVICE_ID"`

	// Version is the semantic version string of the running engine.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Remote holds network settings for the outbound transport layer.
type Remote struct {
	// BaseURL is the HTTP base of the sync REST surface
	// (e.g. "https://sync.example.com").
	// Env: REMOTE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// WebsocketURL is the push-channel endpoint
	// (e.g. "wss://sync.example.com/sync/events"). Derived from BaseURL
	// when empty.
	// Env: REMOTE_WEBSOCKET_URL
	WebsocketURL string `env:"WEBSOCKET_URL"`

	// AuthToken is the bearer token presented on every request and on the
	// push-channel handshake. Usually injected by the host application
	// after login; setting it here lets the binary run headless.
	// Env: REMOTE_AUTH_TOKEN
	AuthToken string `env:"AUTH_TOKEN"`

	// RequestTimeout is the maximum duration for a single outbound request
	// (e.g. "15s").
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage holds local persistence settings.
type Storage struct {
	// DB holds the SQLite database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database backing the
// sync queue and the entity mirror.
type DB struct {
	// DSN is the SQLite file path (":memory:" for tests).
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Sync holds the orchestrator's timing and retry parameters.
type Sync struct {
	// DebounceWindow is the per-entity quiet period after a local edit
	// before the edit is enqueued (default 3s).
	// Env: SYNC_DEBOUNCE_WINDOW
	DebounceWindow time.Duration `env:"DEBOUNCE_WINDOW"`

	// AutoSyncInterval is the period of the delta-pull timer (default 30s).
	// Env: SYNC_AUTO_SYNC_INTERVAL
	AutoSyncInterval time.Duration `env:"AUTO_SYNC_INTERVAL"`

	// MaxRetries caps transient delivery attempts per queue item before the
	// item is dropped and an error surfaced (default 3).
	// Env: SYNC_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`

	// InitialSync enables the one-shot full pull after authentication
	// (default true).
	// Env: SYNC_INITIAL_SYNC
	InitialSync *bool `env:"INITIAL_SYNC"`
}

// Realtime holds the push-channel reconnection parameters.
type Realtime struct {
	// MaxReconnectAttempts caps exponential-backoff reconnects before the
	// channel gives up and the engine degrades to polling (default 10).
	// Env: REALTIME_MAX_RECONNECT_ATTEMPTS
	MaxReconnectAttempts int `env:"MAX_RECONNECT_ATTEMPTS"`
}

// Default engine parameters, applied as the lowest-precedence config layer.
const (
	DefaultRequestTimeout       = 15 * time.Second
	DefaultDebounceWindow       = 3 * time.Second
	DefaultAutoSyncInterval     = 30 * time.Second
	DefaultMaxRetries           = 3
	DefaultMaxReconnectAttempts = 10
)

func defaults() *StructuredConfig {
	initialSync := true
	return &StructuredConfig{
		Remote: Remote{
			RequestTimeout: DefaultRequestTimeout,
		},
		Sync: Sync{
			DebounceWindow:   DefaultDebounceWindow,
			AutoSyncInterval: DefaultAutoSyncInterval,
			MaxRetries:       DefaultMaxRetries,
			InitialSync:      &initialSync,
		},
		Realtime: Realtime{
			MaxReconnectAttempts: DefaultMaxReconnectAttempts,
		},
	}
}

// GetConfig loads, merges, and validates the engine configuration from all
// sources: environment variables first, then command-line flags, then the
// optional JSON file, then defaults. Earlier sources win on conflicts.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
