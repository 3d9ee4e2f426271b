// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HomeKeep Authors

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The structured config is permissive by design: most fields are optional and
// defaulted, so validation happens on the narrower [ClientConfig] view.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.App.DeviceID == "" || cfg.App.HomeID == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Sync.Interval <= 0 || cfg.Sync.DebounceWindow <= 0 ||
		cfg.Sync.RetryBase <= 0 || cfg.Sync.MaxRetries <= 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.API.Address == "" {
		return ErrInvalidAPIConfigs
	}

	return nil
}
