package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	defaultPort          = 8000
	defaultOpponentDelay = time.Second
	defaultAgentTimeout  = time.Second * 20
	defaultAgentApiUrl   = "https://api.tools.example.com"
)

type Config struct {
	Stage         string
	Port          int
	DatabaseUrl   string
	AgentApiUrl   string
	AgentApiToken string
	OpponentDelay time.Duration
	AgentTimeout  time.Duration
	LogLevel      log.Level
}

// PersistenceEnabled reports whether analytics and agent calls are stored.
func (c Config) PersistenceEnabled() bool {
	return c.DatabaseUrl != ""
}

// Load reads the configuration from the environment. Outside prod the
// given env files (".env" when none) are loaded first; a missing file is
// not an error.
func Load(envFiles ...string) (Config, error) {
	if os.Getenv("STAGE") != StageProd {
		if len(envFiles) == 0 {
			envFiles = []string{".env"}
		}
		for _, file := range envFiles {
			if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("load %s: %w", file, err)
			}
		}
	}

	cfg := Config{
		Stage:         os.Getenv("STAGE"),
		DatabaseUrl:   os.Getenv("DATABASE_URL"),
		AgentApiUrl:   strings.TrimRight(envOr("AGENT_API_URL", defaultAgentApiUrl), "/"),
		AgentApiToken: os.Getenv("AGENT_API_TOKEN"),
	}

	if cfg.Stage != StageDev && cfg.Stage != StageProd {
		return Config{}, fmt.Errorf("stage must be either %s or %s, got: %q", StageDev, StageProd, cfg.Stage)
	}

	var err error
	if cfg.Port, err = intEnv("PORT", defaultPort); err != nil {
		return Config{}, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("PORT out of range: %d", cfg.Port)
	}
	if cfg.OpponentDelay, err = durationEnv("OPPONENT_DELAY", defaultOpponentDelay); err != nil {
		return Config{}, err
	}
	if cfg.AgentTimeout, err = durationEnv("AGENT_TIMEOUT", defaultAgentTimeout); err != nil {
		return Config{}, err
	}

	cfg.LogLevel = log.InfoLevel
	if cfg.Stage == StageDev {
		cfg.LogLevel = log.DebugLevel
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if cfg.LogLevel, err = log.ParseLevel(raw); err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s must not be negative: %s", key, raw)
	}
	return v, nil
}
