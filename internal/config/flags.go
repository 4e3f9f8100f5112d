package config

import (
	"flag"
	"os"
	"time"
)

// ParseFlags parses all configuration flags from os.Args.
//
// Flags:
//
//	-s server base URL (e.g. "https://sync.example.com")
//	-ws websocket push-channel URL
//	-t bearer auth token
//	-d local SQLite database path
//	-c/-config json file path with configs
//	-device-id stable per-session device identifier
//	-debounce debounce window for local edits (e.g. "3s")
//	-sync-interval auto-sync delta-pull period (e.g. "30s")
//	-request-timeout outbound request timeout (e.g. "15s")
func ParseFlags() *StructuredConfig {
	return parseFlags(flag.NewFlagSet(os.Args[0], flag.ExitOnError), os.Args[1:])
}

func parseFlags(fs *flag.FlagSet, args []string) *StructuredConfig {
	var baseURL string
	var websocketURL string
	var authToken string
	var databaseDSN string
	var jsonConfigPath string
	var deviceID string
	var debounceWindow time.Duration
	var syncInterval time.Duration
	var requestTimeout time.Duration

	fs.StringVar(&baseURL, "s", "", "Sync server base URL")
	fs.StringVar(&websocketURL, "ws", "", "Push channel websocket URL")
	fs.StringVar(&authToken, "t", "", "Bearer auth token")
	fs.StringVar(&databaseDSN, "d", "", "Local SQLite database path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&deviceID, "device-id", "", "Stable device identifier")
	fs.DurationVar(&debounceWindow, "debounce", 0, "Debounce window (e.g. 3s)")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Auto-sync interval (e.g. 30s)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g. 15s)")

	_ = fs.Parse(args)

	return &StructuredConfig{
		App: App{
			DeviceID: deviceID,
		},
		Remote: Remote{
			BaseURL:        baseURL,
			WebsocketURL:   websocketURL,
			AuthToken:      authToken,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Sync: Sync{
			DebounceWindow:   debounceWindow,
			AutoSyncInterval: syncInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
