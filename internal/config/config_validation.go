// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// engine invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error wrapping
// one of the sentinel errors from errors.go otherwise.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if cfg.Remote.BaseURL == "" {
		errs = append(errs, fmt.Errorf("%w: base URL is required", ErrInvalidRemoteConfigs))
	} else if _, err := url.ParseRequestURI(cfg.Remote.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("%w: base URL: %v", ErrInvalidRemoteConfigs, err))
	}

	if cfg.Remote.WebsocketURL != "" &&
		!strings.HasPrefix(cfg.Remote.WebsocketURL, "ws://") &&
		!strings.HasPrefix(cfg.Remote.WebsocketURL, "wss://") {
		errs = append(errs, fmt.Errorf("%w: websocket URL must use ws:// or wss://", ErrInvalidRemoteConfigs))
	}

	if cfg.Remote.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: request timeout must be positive", ErrInvalidRemoteConfigs))
	}

	if cfg.Storage.DB.DSN == "" {
		errs = append(errs, fmt.Errorf("%w: local database path is required", ErrInvalidStorageConfigs))
	}

	if cfg.Sync.DebounceWindow <= 0 {
		errs = append(errs, fmt.Errorf("%w: debounce window must be positive", ErrInvalidSyncConfigs))
	}
	if cfg.Sync.AutoSyncInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: auto-sync interval must be positive", ErrInvalidSyncConfigs))
	}
	if cfg.Sync.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%w: max retries must not be negative", ErrInvalidSyncConfigs))
	}

	if cfg.Realtime.MaxReconnectAttempts < 0 {
		errs = append(errs, fmt.Errorf("%w: max reconnect attempts must not be negative", ErrInvalidRealtimeConfigs))
	}

	return errors.Join(errs...)
}
