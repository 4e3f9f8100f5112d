package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuild_DefaultsApplied verifies that a build from defaults alone yields
// the documented engine parameters.
func TestBuild_DefaultsApplied(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{
			Remote:  Remote{BaseURL: "http://localhost:8080"},
			Storage: Storage{DB: DB{DSN: ":memory:"}},
		},
		defaults(),
	)

	cfg, err := b.build()
	require.NoError(t, err)

	assert.Equal(t, DefaultDebounceWindow, cfg.Sync.DebounceWindow)
	assert.Equal(t, DefaultAutoSyncInterval, cfg.Sync.AutoSyncInterval)
	assert.Equal(t, DefaultMaxRetries, cfg.Sync.MaxRetries)
	assert.Equal(t, DefaultMaxReconnectAttempts, cfg.Realtime.MaxReconnectAttempts)
	assert.Equal(t, DefaultRequestTimeout, cfg.Remote.RequestTimeout)
	require.NotNil(t, cfg.Sync.InitialSync)
	assert.True(t, *cfg.Sync.InitialSync)
}

// TestBuild_EarlierLayersWin verifies mergo precedence: a value set in an
// earlier layer is not overwritten by later layers.
func TestBuild_EarlierLayersWin(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{
			Remote:  Remote{BaseURL: "http://from-env:8080"},
			Storage: Storage{DB: DB{DSN: "/tmp/env.db"}},
			Sync:    Sync{DebounceWindow: 5 * time.Second},
		},
		&StructuredConfig{
			Remote: Remote{BaseURL: "http://from-flags:8080"},
			Sync:   Sync{DebounceWindow: 10 * time.Second, AutoSyncInterval: time.Minute},
		},
		defaults(),
	)

	cfg, err := b.build()
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:8080", cfg.Remote.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Sync.DebounceWindow)
	// gap in the first layer is filled by the second
	assert.Equal(t, time.Minute, cfg.Sync.AutoSyncInterval)
	// gap in both layers is filled by defaults
	assert.Equal(t, DefaultMaxRetries, cfg.Sync.MaxRetries)
}

// TestBuild_ValidationFailure verifies that an invalid merged config is
// rejected with the matching sentinel error.
func TestBuild_ValidationFailure(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{
			Storage: Storage{DB: DB{DSN: ":memory:"}},
		},
		defaults(),
	)

	_, err := b.build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRemoteConfigs)
}

// TestValidate_RejectsBadWebsocketScheme verifies the websocket URL scheme check.
func TestValidate_RejectsBadWebsocketScheme(t *testing.T) {
	cfg := defaults()
	cfg.Remote.BaseURL = "http://localhost:8080"
	cfg.Remote.WebsocketURL = "http://localhost:8080/sync/events"
	cfg.Storage.DB.DSN = ":memory:"

	err := cfg.validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRemoteConfigs)
}

// TestValidate_NegativeRetries verifies that negative retry caps are rejected.
func TestValidate_NegativeRetries(t *testing.T) {
	cfg := defaults()
	cfg.Remote.BaseURL = "http://localhost:8080"
	cfg.Storage.DB.DSN = ":memory:"
	cfg.Sync.MaxRetries = -1

	err := cfg.validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSyncConfigs)
}
