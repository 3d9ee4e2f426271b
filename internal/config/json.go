package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		DeviceID string `json:"device_id"`
		HomeID   string `json:"home_id"`
		Version  string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Sync struct {
		Interval           Duration `json:"interval"`
		DebounceWindow     Duration `json:"debounce_window"`
		RetryBase          Duration `json:"retry_base"`
		MaxRetries         int      `json:"max_retries"`
		DisableTimeout     Duration `json:"disable_timeout"`
		TombstoneRetention Duration `json:"tombstone_retention"`
		CleanupInterval    Duration `json:"cleanup_interval"`
	} `json:"sync,omitempty"`

	API struct {
		Address string `json:"address"`
	} `json:"api,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			DeviceID: jsonCfg.App.DeviceID,
			HomeID:   jsonCfg.App.HomeID,
			Version:  jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Sync: Sync{
			Interval:           time.Duration(jsonCfg.Sync.Interval),
			DebounceWindow:     time.Duration(jsonCfg.Sync.DebounceWindow),
			RetryBase:          time.Duration(jsonCfg.Sync.RetryBase),
			MaxRetries:         jsonCfg.Sync.MaxRetries,
			DisableTimeout:     time.Duration(jsonCfg.Sync.DisableTimeout),
			TombstoneRetention: time.Duration(jsonCfg.Sync.TombstoneRetention),
			CleanupInterval:    time.Duration(jsonCfg.Sync.CleanupInterval),
		},
		API: API{
			Address: jsonCfg.API.Address,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
