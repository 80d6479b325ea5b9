package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config carries all build-time/environment settings the application needs.
type Config struct {
	// APIBaseURL is the root URL of the remote product backend.
	APIBaseURL string
	// DistanceBaseURL is the root URL of the external distance-matrix service.
	DistanceBaseURL string
	// DistanceAPIKey authenticates distance lookups.
	DistanceAPIKey string
	// SessionFile is where the file storage adapter persists credentials.
	SessionFile string
	// RedisAddr, when set, switches session storage to redis.
	RedisAddr string
	// ListenAddr is the local address the view layer binds to.
	ListenAddr string
	LogLevel   string
}

const (
	defaultDistanceBaseURL = "https://maps.googleapis.com/maps/api"
	defaultListenAddr      = ":8643"
	defaultLogLevel        = "info"
)

// Load reads configuration from the environment. Missing required variables
// yield an error naming the variable so startup fails with a clear message
// instead of surfacing as a broken request later.
func Load() (Config, error) {
	cfg := Config{
		APIBaseURL:      os.Getenv("CARGOFLOW_API_BASE_URL"),
		DistanceBaseURL: envOr("CARGOFLOW_DISTANCE_BASE_URL", defaultDistanceBaseURL),
		DistanceAPIKey:  os.Getenv("CARGOFLOW_DISTANCE_API_KEY"),
		SessionFile:     os.Getenv("CARGOFLOW_SESSION_FILE"),
		RedisAddr:       os.Getenv("CARGOFLOW_REDIS_ADDR"),
		ListenAddr:      envOr("CARGOFLOW_LISTEN_ADDR", defaultListenAddr),
		LogLevel:        envOr("CARGOFLOW_LOG_LEVEL", defaultLogLevel),
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("config: CARGOFLOW_API_BASE_URL is required")
	}
	if cfg.DistanceAPIKey == "" {
		return Config{}, fmt.Errorf("config: CARGOFLOW_DISTANCE_API_KEY is required")
	}

	if cfg.SessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.SessionFile = filepath.Join(home, ".cargoflow", "session.json")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
