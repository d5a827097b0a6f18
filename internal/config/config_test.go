package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())

	timeout, err := c.GetImportTimeout()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, timeout)

	rate, err := c.GetScryfallRateLimit()
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, rate)

	assert.Equal(t, 1, c.Scryfall.BatchConcurrency)
	assert.Len(t, c.Import.MoxfieldEndpoints, 3)
	assert.Len(t, c.Import.ArchidektEndpoints, 2)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = 9000

[import]
timeout = "10s"

[app]
debug_mode = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, c.Server.Port)
	assert.Equal(t, "10s", c.Import.Timeout)
	assert.True(t, c.App.DebugMode)
	assert.Equal(t, "https://api.scryfall.com", c.Scryfall.BaseURL)
	assert.Equal(t, "60s", c.Server.RequestTimeout)
	assert.Len(t, c.Import.MoxfieldEndpoints, 3)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport ="), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config file")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	c := DefaultConfig()
	c.Storage.Path = "/tmp/decks.db"
	c.Scryfall.BatchConcurrency = 4
	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PLAYGROUP_PORT", "9191")
	t.Setenv("PLAYGROUP_DB_PATH", "/data/decks.db")
	t.Setenv("PLAYGROUP_IMPORT_TIMEOUT", "5s")
	t.Setenv("PLAYGROUP_SCRYFALL_URL", "http://catalog.local")
	t.Setenv("PLAYGROUP_BATCH_CONCURRENCY", "3")
	t.Setenv("PLAYGROUP_DEBUG", "true")

	c := DefaultConfig()
	require.NoError(t, c.ApplyEnv())

	assert.Equal(t, 9191, c.Server.Port)
	assert.Equal(t, "/data/decks.db", c.Storage.Path)
	assert.Equal(t, "5s", c.Import.Timeout)
	assert.Equal(t, "http://catalog.local", c.Scryfall.BaseURL)
	assert.Equal(t, 3, c.Scryfall.BatchConcurrency)
	assert.True(t, c.App.DebugMode)

	// Untouched fields keep their values.
	assert.Equal(t, "100ms", c.Scryfall.RateLimit)
}

func TestApplyEnvInvalidValue(t *testing.T) {
	t.Setenv("PLAYGROUP_PORT", "not-a-port")

	err := DefaultConfig().ApplyEnv()
	assert.ErrorContains(t, err, "parse env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"bad import timeout", func(c *Config) { c.Import.Timeout = "soon" }, "invalid import timeout"},
		{"negative rate limit", func(c *Config) { c.Scryfall.RateLimit = "-1s" }, "cannot be negative"},
		{"zero concurrency", func(c *Config) { c.Scryfall.BatchConcurrency = 0 }, "batch concurrency"},
		{"empty base url", func(c *Config) { c.Scryfall.BaseURL = "" }, "base url"},
		{"no endpoints", func(c *Config) { c.Import.MoxfieldEndpoints = nil }, "endpoints"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(c)
			assert.ErrorContains(t, c.Validate(), tt.errMsg)
		})
	}
}

func TestDatabasePath(t *testing.T) {
	c := DefaultConfig()
	c.Storage.Path = "/explicit/decks.db"

	path, err := c.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "/explicit/decks.db", path)
}
