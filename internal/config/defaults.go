package config

import "time"

// Default sync engine tunables applied when no other source sets them.
const (
	DefaultSyncInterval       = 5 * time.Second
	DefaultDebounceWindow     = 1 * time.Second
	DefaultRetryBase          = 2 * time.Second
	DefaultMaxRetries         = 3
	DefaultDisableTimeout     = 10 * time.Second
	DefaultTombstoneRetention = 7 * 24 * time.Hour
	DefaultCleanupInterval    = 24 * time.Hour
	DefaultRequestTimeout     = 15 * time.Second
)

// DefaultAPIAddress is the loopback address the local control API listens on
// when no other source sets it.
const DefaultAPIAddress = "localhost:8799"

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Adapter: Adapter{
			RequestTimeout: DefaultRequestTimeout,
		},
		Sync: Sync{
			Interval:           DefaultSyncInterval,
			DebounceWindow:     DefaultDebounceWindow,
			RetryBase:          DefaultRetryBase,
			MaxRetries:         DefaultMaxRetries,
			DisableTimeout:     DefaultDisableTimeout,
			TombstoneRetention: DefaultTombstoneRetention,
			CleanupInterval:    DefaultCleanupInterval,
		},
		API: API{
			Address: DefaultAPIAddress,
		},
	}
}
