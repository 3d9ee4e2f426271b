// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HomeKeep Authors

package main

import (
	"context"
	"fmt"

	"github.com/homekeepapp/go-home-keeper/internal/adapter"
	"github.com/homekeepapp/go-home-keeper/internal/config"
	"github.com/homekeepapp/go-home-keeper/internal/handler"
	"github.com/homekeepapp/go-home-keeper/internal/logger"
	"github.com/homekeepapp/go-home-keeper/internal/registry"
	"github.com/homekeepapp/go-home-keeper/internal/server"
	"github.com/homekeepapp/go-home-keeper/internal/service"
	"github.com/homekeepapp/go-home-keeper/internal/store"
	"github.com/homekeepapp/go-home-keeper/internal/sync"
	"github.com/homekeepapp/go-home-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("home-keeper-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	storages, err := store.NewClientStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	transport := adapter.NewHTTPSyncTransport(adapter.HTTPClientConfig{
		BaseURL:  cfg.Adapter.HTTPAddress,
		DeviceID: cfg.App.DeviceID,
		Timeout:  cfg.Adapter.RequestTimeout,
	})

	reg := registry.New()

	protocol := sync.NewProtocol(
		storages.Entities,
		storages.Checkpoints,
		transport,
		reg,
		cfg.App.HomeID,
		cfg.App.DeviceID,
		log,
	)
	cleaner := sync.NewCleaner(
		storages.Entities,
		storages.State,
		reg,
		cfg.App.HomeID,
		cfg.Sync.TombstoneRetention,
		cfg.Sync.CleanupInterval,
		log,
	)
	scheduler := sync.NewScheduler(protocol, cleaner, storages.State, sync.NewBus(), sync.SchedulerConfig{
		HomeID:         cfg.App.HomeID,
		Interval:       cfg.Sync.Interval,
		DebounceWindow: cfg.Sync.DebounceWindow,
		RetryBase:      cfg.Sync.RetryBase,
		MaxRetries:     cfg.Sync.MaxRetries,
		DisableTimeout: cfg.Sync.DisableTimeout,
	}, log)
	defer scheduler.Close()

	unsubscribe := scheduler.AddListener(func(event models.SyncEvent) {
		if event.Type == models.SyncEventError {
			log.Err(event.Err).
				Str("entity_type", string(event.EntityType)).
				Msg("sync task failed permanently")
			return
		}
		if event.Changes != nil && !event.Changes.Unchanged {
			log.Debug().
				Str("entity_type", string(event.EntityType)).
				Str("event", string(event.Type)).
				Int("created", len(event.Changes.Created)).
				Int("updated", len(event.Changes.Updated)).
				Int("deleted", len(event.Changes.Deleted)).
				Msg("sync delta applied")
		}
	})
	defer unsubscribe()

	// local writes outside the sync pass schedule a push for their type
	unwatch := scheduler.WatchStore(storages.Entities, reg)
	defer unwatch()

	// pick up the durable sync switch left on by a previous run
	ctx := log.WithContext(context.Background())
	if err = scheduler.Resume(ctx); err != nil {
		log.Fatal().Err(err).Msg("resume sync engine")
	}

	entities := service.NewEntityService(storages.Entities, reg, scheduler, cfg.App.HomeID, log)

	handlers := handler.NewHandler(entities, scheduler, appVersion(cfg), log)
	srv, err := server.NewServer(handlers.Init(), cfg.API, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create control api server")
	}

	// blocks until a stop signal arrives and the server has drained
	srv.RunServer()
}

func appVersion(cfg *config.ClientConfig) string {
	if cfg.App.Version != "" {
		return cfg.App.Version
	}
	return buildVersion
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
