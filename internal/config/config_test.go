// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:3012", cfg.ServerURL)
	assert.Equal(t, 4, cfg.SwarmSize)
	assert.Equal(t, 4, cfg.LobbyMaxPlayers, "lobby capacity defaults to the swarm size")
	assert.Equal(t, "bot", cfg.PlayerNamePrefix)
	assert.Equal(t, 30*time.Second, cfg.SetupTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PALACE_SERVER_URL", "ws://example.test:3012")
	t.Setenv("SWARM_SIZE", "2")
	t.Setenv("LOBBY_MAX_PLAYERS", "5")
	t.Setenv("SETUP_TIMEOUT", "90s")
	t.Setenv("LOBBY_PASSWORD", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ws://example.test:3012", cfg.ServerURL)
	assert.Equal(t, 2, cfg.SwarmSize)
	assert.Equal(t, 5, cfg.LobbyMaxPlayers)
	assert.Equal(t, 90*time.Second, cfg.SetupTimeout)
	assert.Equal(t, "hunter2", cfg.LobbyPassword)
}

func TestLoad_UnparsableValuesFallBack(t *testing.T) {
	t.Setenv("SWARM_SIZE", "many")
	t.Setenv("SETUP_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.SwarmSize)
	assert.Equal(t, 30*time.Second, cfg.SetupTimeout)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("swarm size below one", func(t *testing.T) {
		t.Setenv("SWARM_SIZE", "0")
		t.Setenv("LOBBY_MAX_PLAYERS", "4")
		_, err := Load()
		assert.ErrorContains(t, err, "SWARM_SIZE")
	})

	t.Run("lobby too small for server rules", func(t *testing.T) {
		t.Setenv("SWARM_SIZE", "1")
		t.Setenv("LOBBY_MAX_PLAYERS", "1")
		_, err := Load()
		assert.ErrorContains(t, err, "LOBBY_MAX_PLAYERS")
	})

	t.Run("more bots than seats", func(t *testing.T) {
		t.Setenv("SWARM_SIZE", "6")
		t.Setenv("LOBBY_MAX_PLAYERS", "4")
		_, err := Load()
		assert.ErrorContains(t, err, "exceeds")
	})
}
