package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing server address or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid client storage settings
	// (for example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// required by the client (for example, missing device or home id).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidSyncConfigs indicates invalid sync engine settings
	// (for example, a zero sync interval or retry budget).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidAPIConfigs indicates invalid local control API settings
	// (for example, an empty listen address).
	ErrInvalidAPIConfigs = errors.New("invalid api configuration")
)
