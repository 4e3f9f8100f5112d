package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidRemoteConfigs indicates invalid sync-server settings
	// (for example, a missing base URL or non-positive request timeout).
	ErrInvalidRemoteConfigs = errors.New("invalid remote configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, an empty database path).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSyncConfigs indicates invalid orchestrator timing settings
	// (for example, a zero debounce window).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidRealtimeConfigs indicates invalid push-channel settings.
	ErrInvalidRealtimeConfigs = errors.New("invalid realtime configuration")
)
