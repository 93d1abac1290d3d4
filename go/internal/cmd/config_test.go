package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "STATE_STORE_URL", "DEFAULT_PLAYERS", "SNAPSHOT_INTERVAL",
		"FOOTBALL_API_URL", "MATCH_COMPETITIONS", "MATCH_POLL_INTERVAL", "MATCH_FETCH_TIMEOUT",
		"NATS_URL", "LOG_LEVEL", "ADMIN_KEY", "RESET_SECRET", "FOOTBALL_API_TOKEN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	config, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "3000", config.Server.Port)
	assert.Equal(t, "file://game-state.json", config.Store.URL)
	assert.Equal(t, []string{"Ruperto", "Juan", "Mauricio"}, config.Game.DefaultPlayers)
	assert.Equal(t, 5*time.Minute, config.Game.SnapshotInterval)
	assert.Empty(t, config.NATS.URL)
	assert.Empty(t, config.AdminKey)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tokenboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "8080"
store:
  url: sqlite://tokenboard.db
game:
  default_players: [Ana, Beto]
  snapshot_interval: 30s
matches:
  competitions: [PL]
  poll_interval: 2m
`), 0o644))

	t.Setenv("PORT", "9090")
	t.Setenv("MATCH_FETCH_TIMEOUT", "3")
	t.Setenv("RESET_SECRET", "s3cret")

	config, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, "sqlite://tokenboard.db", config.Store.URL)
	assert.Equal(t, []string{"Ana", "Beto"}, config.Game.DefaultPlayers)
	assert.Equal(t, 30*time.Second, config.Game.SnapshotInterval)
	assert.Equal(t, []string{"PL"}, config.Matches.Competitions)
	assert.Equal(t, 2*time.Minute, config.Matches.PollInterval)
	assert.Equal(t, 3*time.Second, config.Matches.FetchTimeout)
	assert.Equal(t, "s3cret", config.ResetSecret)
}

func TestLoadConfigBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tokenboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o644))

	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestStoreURLPostgresKeyword(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/tokenboard")
	assert.Equal(t, "postgres://u:p@db:5432/tokenboard", storeURL("postgres"))
	assert.Equal(t, "memory://", storeURL("memory://"))
}
