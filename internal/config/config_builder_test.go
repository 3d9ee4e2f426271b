package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that building with no configs returns a
// zero-value StructuredConfig.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Storage.DB.DSN)
}

// TestBuild_FirstSourceWins verifies the merge priority: a non-zero value
// from an earlier source is not overwritten by a later one (mergo semantics).
func TestBuild_FirstSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Storage: Storage{DB: DB{DSN: "/primary.db"}}},
		&StructuredConfig{Storage: Storage{DB: DB{DSN: "/secondary.db"}}},
	)

	cfg, err := b.build()

	require.NoError(t, err)
	assert.Equal(t, "/primary.db", cfg.Storage.DB.DSN)
}

// TestBuild_SourcesComplementEachOther verifies that zero fields are filled
// in from later sources.
func TestBuild_SourcesComplementEachOther(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{DeviceID: "device-1"}},
		&StructuredConfig{App: App{HomeID: "home-1"}},
	)

	cfg, err := b.build()

	require.NoError(t, err)
	assert.Equal(t, "device-1", cfg.App.DeviceID)
	assert.Equal(t, "home-1", cfg.App.HomeID)
}

// ── withDefaults ──────────────────────────────────────────────────────────────

// TestWithDefaults_FillsSyncTunables verifies that defaults land in every
// sync tunable when no other source sets them.
func TestWithDefaults_FillsSyncTunables(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()

	require.NoError(t, err)
	assert.Equal(t, DefaultSyncInterval, cfg.Sync.Interval)
	assert.Equal(t, DefaultDebounceWindow, cfg.Sync.DebounceWindow)
	assert.Equal(t, DefaultRetryBase, cfg.Sync.RetryBase)
	assert.Equal(t, DefaultMaxRetries, cfg.Sync.MaxRetries)
	assert.Equal(t, DefaultTombstoneRetention, cfg.Sync.TombstoneRetention)
	assert.Equal(t, DefaultAPIAddress, cfg.API.Address)
}

// TestWithDefaults_DoesNotOverride verifies that explicit values survive the
// defaults merge.
func TestWithDefaults_DoesNotOverride(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Sync: Sync{Interval: 42 * time.Second},
	})

	cfg, err := b.withDefaults().build()

	require.NoError(t, err)
	assert.Equal(t, 42*time.Second, cfg.Sync.Interval)
	assert.Equal(t, DefaultDebounceWindow, cfg.Sync.DebounceWindow)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

// TestWithJSON_MergesFileValues verifies that a JSON file referenced by an
// earlier source is parsed and merged.
func TestWithJSON_MergesFileValues(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"adapter": map[string]any{
			"http_address":    "https://json.example",
			"request_timeout": "20s",
		},
	})

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})

	cfg, err := b.withJSON().build()

	require.NoError(t, err)
	assert.Equal(t, "https://json.example", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 20*time.Second, cfg.Adapter.RequestTimeout)
}

// TestWithJSON_MissingFile verifies that a bad path surfaces as a build error.
func TestWithJSON_MissingFile(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/no/such/file.json"})

	_, err := b.withJSON().build()

	require.Error(t, err)
}

// ── ClientConfig validation ───────────────────────────────────────────────────

func validClientConfig() *ClientConfig {
	return &ClientConfig{
		App:     ClientApp{DeviceID: "d", HomeID: "h"},
		Adapter: ClientAdapter{HTTPAddress: "https://s", RequestTimeout: time.Second},
		Storage: ClientStorage{DB: ClientDB{DSN: "/db"}},
		Sync: ClientSync{
			Interval:       time.Second,
			DebounceWindow: time.Second,
			RetryBase:      time.Second,
			MaxRetries:     3,
		},
		API: ClientAPI{Address: "localhost:8799"},
	}
}

func TestClientConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ClientConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(*ClientConfig) {}, wantErr: nil},
		{name: "empty dsn", mutate: func(c *ClientConfig) { c.Storage.DB.DSN = "" }, wantErr: ErrInvalidStorageConfigs},
		{name: "no server address", mutate: func(c *ClientConfig) { c.Adapter.HTTPAddress = "" }, wantErr: ErrInvalidAdapterConfigs},
		{name: "no device id", mutate: func(c *ClientConfig) { c.App.DeviceID = "" }, wantErr: ErrInvalidAppConfigs},
		{name: "no home id", mutate: func(c *ClientConfig) { c.App.HomeID = "" }, wantErr: ErrInvalidAppConfigs},
		{name: "zero retries", mutate: func(c *ClientConfig) { c.Sync.MaxRetries = 0 }, wantErr: ErrInvalidSyncConfigs},
		{name: "zero debounce", mutate: func(c *ClientConfig) { c.Sync.DebounceWindow = 0 }, wantErr: ErrInvalidSyncConfigs},
		{name: "no api address", mutate: func(c *ClientConfig) { c.API.Address = "" }, wantErr: ErrInvalidAPIConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validClientConfig()
			tt.mutate(cfg)

			err := cfg.validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
