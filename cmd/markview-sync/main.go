// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/qazuor/markview-sync/internal/config"
	"github.com/qazuor/markview-sync/internal/engine"
	"github.com/qazuor/markview-sync/internal/logger"
	"github.com/qazuor/markview-sync/internal/realtime"
	"github.com/qazuor/markview-sync/internal/remote"
	"github.com/qazuor/markview-sync/internal/state"
	"github.com/qazuor/markview-sync/internal/store"
	"github.com/qazuor/markview-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("markview-sync")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	remoteClient, err := remote.NewHTTPClient(cfg.Remote, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote client")
	}
	if cfg.Remote.AuthToken != "" {
		remoteClient.SetToken(cfg.Remote.AuthToken)
	}

	storages, err := store.NewClientStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	stateStore := state.New(log)
	clock := clockwork.NewRealClock()

	// The channel's event handler needs the engine and the engine forwards
	// connectivity signals to the channel, so the handler indirects through
	// the variable assigned below.
	var eng *engine.Engine
	handler := func(ev models.RealtimeEvent) {
		eng.HandleRealtimeEvent(ev)
	}

	wsURL := cfg.Remote.WebsocketURL
	if wsURL == "" {
		wsURL = deriveWebsocketURL(cfg.Remote.BaseURL)
	}
	channel := realtime.NewChannel(wsURL, remoteClient.DeviceID(), cfg.Realtime,
		remoteClient.Token, handler, clock, log)

	eng = engine.New(cfg.Sync, storages.Queue, storages.Mirror, remoteClient,
		stateStore, channel, clock, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshots, unsubscribe := stateStore.Subscribe()
	go func() {
		for snap := range snapshots {
			log.Debug().
				Str("state", string(snap.State)).
				Int("pending", snap.PendingCount).
				Int("conflicts", len(snap.Conflicts)).
				Msg("sync status changed")
		}
	}()

	eng.Start(ctx)
	channel.Start(ctx)
	log.Info().Str("server", cfg.Remote.BaseURL).Msg("sync engine running")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	channel.Close()
	eng.Shutdown()
	unsubscribe()
}

// deriveWebsocketURL maps the REST base URL onto the default push-channel
// endpoint: https://host -> wss://host/sync/events.
func deriveWebsocketURL(baseURL string) string {
	ws := baseURL
	switch {
	case strings.HasPrefix(ws, "https://"):
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	case strings.HasPrefix(ws, "http://"):
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	return strings.TrimRight(ws, "/") + "/sync/events"
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
