package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a sync server base URL
//	-d local database path (SQLite file)
//	-c/-config json file path with configs
//	-device-id device identifier reported to the sync server
//	-home-id home scope identifier
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-sync-interval periodic sync trigger interval (e.g., "5s")
//	-l local control API listen address
func ParseFlags() *StructuredConfig {
	var serverAddress string
	var databaseDSN string
	var jsonConfigPath string
	var deviceID string
	var homeID string
	var requestTimeout time.Duration
	var syncInterval time.Duration
	var apiAddress string

	flag.StringVar(&serverAddress, "a", "", "Sync server base URL")
	flag.StringVar(&apiAddress, "l", "", "Local control API listen address")
	flag.StringVar(&databaseDSN, "d", "", "Local database path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&deviceID, "device-id", "", "Device identifier")
	flag.StringVar(&homeID, "home-id", "", "Home scope identifier")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Periodic sync interval (e.g., 5s)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			DeviceID: deviceID,
			HomeID:   homeID,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Adapter: Adapter{
			HTTPAddress:    serverAddress,
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			Interval: syncInterval,
		},
		API: API{
			Address: apiAddress,
		},
		JSONFilePath: jsonConfigPath,
	}
}
