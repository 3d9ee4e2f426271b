// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HomeKeep Authors

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-home-keeper client. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// an optional JSON file, and built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the device identity and
	// the home scope this client operates on.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the local persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds network address and timeout settings for the outbound
	// sync transport.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds tuning knobs for the sync engine: scheduling intervals,
	// retry policy, and tombstone retention.
	Sync Sync `envPrefix:"SYNC_"`

	// API holds settings for the local control API the UI shell talks to.
	API API `envPrefix:"API_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values identifying this client
// installation.
type App struct {
	// DeviceID uniquely identifies this device to the sync server so it can
	// exclude the device's own changes from pull responses.
	// Env: APP_DEVICE_ID
	DeviceID string `env:"DEVICE_ID"`

	// HomeID is the owning scope every entity collection is stored and
	// synchronized under.
	// Env: APP_HOME_ID
	HomeID string `env:"HOME_ID"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for the local persistence backend.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path used to open the local database
	// (e.g. "/data/homekeep.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Adapter holds network and timeout settings for the outbound sync transport.
type Adapter struct {
	// HTTPAddress is the base URL of the sync server
	// (e.g. "https://sync.homekeep.app").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single outbound
	// request before the client cancels it (e.g. "15s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// API holds settings for the local control API served to the UI shell.
type API struct {
	// Address is the loopback listen address of the local control API
	// (e.g. "localhost:8799").
	// Env: API_ADDRESS
	Address string `env:"ADDRESS"`
}

// Sync holds tuning knobs for the sync engine.
type Sync struct {
	// Interval is the period of the fixed-interval trigger started by
	// enabling sync.
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// DebounceWindow is the minimum gap between executed syncs for the same
	// entity type; enqueue requests inside the window are dropped.
	// Env: SYNC_DEBOUNCE_WINDOW
	DebounceWindow time.Duration `env:"DEBOUNCE_WINDOW"`

	// RetryBase is the base delay of the exponential backoff applied to
	// failed tasks (delay = RetryBase * retryCount).
	// Env: SYNC_RETRY_BASE
	RetryBase time.Duration `env:"RETRY_BASE"`

	// MaxRetries is how many times a failed task is re-queued before it is
	// dropped and an error event is emitted.
	// Env: SYNC_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`

	// DisableTimeout bounds how long Disable waits for an in-flight task to
	// finish before returning anyway.
	// Env: SYNC_DISABLE_TIMEOUT
	DisableTimeout time.Duration `env:"DISABLE_TIMEOUT"`

	// TombstoneRetention is how long soft-deleted entities are kept before
	// the cleaner purges them permanently.
	// Env: SYNC_TOMBSTONE_RETENTION
	TombstoneRetention time.Duration `env:"TOMBSTONE_RETENTION"`

	// CleanupInterval is the minimum gap between tombstone cleanup passes
	// for the same entity type.
	// Env: SYNC_CLEANUP_INTERVAL
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (earlier sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
