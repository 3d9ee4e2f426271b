package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application identity settings derived from the
// shared structured config.
type ClientApp struct {
	// DeviceID identifies this device to the sync server.
	DeviceID string
	// HomeID is the scope all collections are stored and synced under.
	HomeID string
	// Version is the semantic version string reported by the control API.
	Version string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the sync server base URL.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path used by the client.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientSync contains sync engine tuning settings.
type ClientSync struct {
	// Interval defines the fixed-interval periodic sync trigger.
	Interval time.Duration
	// DebounceWindow is the per-entity-type minimum gap between syncs.
	DebounceWindow time.Duration
	// RetryBase is the base backoff delay for failed tasks.
	RetryBase time.Duration
	// MaxRetries caps automatic retries of a failed task.
	MaxRetries int
	// DisableTimeout bounds the wait for in-flight tasks on disable.
	DisableTimeout time.Duration
	// TombstoneRetention is how long tombstones survive before cleanup.
	TombstoneRetention time.Duration
	// CleanupInterval is the minimum gap between cleanup passes per type.
	CleanupInterval time.Duration
}

// ClientAPI contains settings for the local control API.
type ClientAPI struct {
	// Address is the listen address of the local control API.
	Address string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains client transport addresses and timeouts.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Sync contains sync engine settings.
	Sync ClientSync
	// API contains local control API settings.
	API ClientAPI
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			DeviceID: cfg.App.DeviceID,
			HomeID:   cfg.App.HomeID,
			Version:  cfg.App.Version,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Sync: ClientSync{
			Interval:           cfg.Sync.Interval,
			DebounceWindow:     cfg.Sync.DebounceWindow,
			RetryBase:          cfg.Sync.RetryBase,
			MaxRetries:         cfg.Sync.MaxRetries,
			DisableTimeout:     cfg.Sync.DisableTimeout,
			TombstoneRetention: cfg.Sync.TombstoneRetention,
			CleanupInterval:    cfg.Sync.CleanupInterval,
		},
		API: ClientAPI{
			Address: cfg.API.Address,
		},
	}

	return clientCfg, clientCfg.validate()
}
