// internal/config/config.go

// Package config sources swarm configuration from the environment. cmd/swarm
// loads a .env file first via godotenv, so every knob can live there too.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything a swarm run needs.
type Config struct {
	// ServerURL is the websocket endpoint of the Palace server.
	ServerURL string
	// SwarmSize is how many bots to run concurrently.
	SwarmSize int
	// LobbyName and LobbyPassword describe the lobby the elected host creates.
	LobbyName     string
	LobbyPassword string
	// LobbyMaxPlayers is the lobby capacity. The host starts the game once
	// the server reports this many players. Defaults to SwarmSize.
	LobbyMaxPlayers int
	// PlayerNamePrefix names the bots ("<prefix>-0", "<prefix>-1", ...).
	PlayerNamePrefix string
	// SetupTimeout bounds every pre-game phase per bot: dialing, the lobby
	// election, joining, and waiting for the game to start. Without it a
	// host that never answers would hang the whole swarm.
	SetupTimeout time.Duration
	// LogLevel is a logrus level name.
	LogLevel string
	// RedisAddr enables the Redis action journal when non-empty.
	RedisAddr    string
	RedisDB      int
	JournalQueue string
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		ServerURL:        getEnv("PALACE_SERVER_URL", "ws://localhost:3012"),
		SwarmSize:        getEnvInt("SWARM_SIZE", 4),
		LobbyName:        getEnv("LOBBY_NAME", "palace bot lobby"),
		LobbyPassword:    getEnv("LOBBY_PASSWORD", "eggs"),
		LobbyMaxPlayers:  getEnvInt("LOBBY_MAX_PLAYERS", 0),
		PlayerNamePrefix: getEnv("PLAYER_NAME_PREFIX", "bot"),
		SetupTimeout:     getEnvDuration("SETUP_TIMEOUT", 30*time.Second),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		JournalQueue:     getEnv("JOURNAL_QUEUE_NAME", ""),
	}

	if cfg.LobbyMaxPlayers == 0 {
		cfg.LobbyMaxPlayers = cfg.SwarmSize
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("PALACE_SERVER_URL must not be empty")
	}
	if cfg.SwarmSize < 1 {
		return nil, fmt.Errorf("SWARM_SIZE must be at least 1, got %d", cfg.SwarmSize)
	}
	if cfg.LobbyMaxPlayers < 2 {
		return nil, fmt.Errorf("LOBBY_MAX_PLAYERS must be at least 2, got %d", cfg.LobbyMaxPlayers)
	}
	if cfg.SwarmSize > cfg.LobbyMaxPlayers {
		return nil, fmt.Errorf("SWARM_SIZE %d exceeds LOBBY_MAX_PLAYERS %d", cfg.SwarmSize, cfg.LobbyMaxPlayers)
	}
	if cfg.SetupTimeout <= 0 {
		return nil, fmt.Errorf("SETUP_TIMEOUT must be positive, got %s", cfg.SetupTimeout)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
