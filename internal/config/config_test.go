package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"STAGE", "PORT", "DATABASE_URL", "AGENT_API_URL", "AGENT_API_TOKEN",
	"OPPONENT_DELAY", "AGENT_TIMEOUT", "LOG_LEVEL",
}

// clearEnv blanks every key so values from the host do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STAGE", StageProd)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StageProd, cfg.Stage)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, time.Second, cfg.OpponentDelay)
	assert.Equal(t, 20*time.Second, cfg.AgentTimeout)
	assert.Equal(t, log.InfoLevel, cfg.LogLevel)
	assert.Equal(t, defaultAgentApiUrl, cfg.AgentApiUrl)
	assert.False(t, cfg.PersistenceEnabled())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STAGE", StageDev)
	t.Setenv("PORT", "7171")
	t.Setenv("DATABASE_URL", "postgres://localhost/battleship")
	t.Setenv("AGENT_API_URL", "http://agents.local/")
	t.Setenv("AGENT_API_TOKEN", "secret")
	t.Setenv("OPPONENT_DELAY", "250ms")
	t.Setenv("AGENT_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 7171, cfg.Port)
	assert.Equal(t, "http://agents.local", cfg.AgentApiUrl)
	assert.Equal(t, "secret", cfg.AgentApiToken)
	assert.Equal(t, 250*time.Millisecond, cfg.OpponentDelay)
	assert.Equal(t, 5*time.Second, cfg.AgentTimeout)
	assert.Equal(t, log.WarnLevel, cfg.LogLevel)
	assert.True(t, cfg.PersistenceEnabled())
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("STAGE")
	os.Unsetenv("AGENT_API_TOKEN")

	file := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(file, []byte("STAGE=dev\nAGENT_API_TOKEN=from-file\n"), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, StageDev, cfg.Stage)
	assert.Equal(t, "from-file", cfg.AgentApiToken)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing stage", env: map[string]string{}},
		{name: "unknown stage", env: map[string]string{"STAGE": "staging"}},
		{name: "port not a number", env: map[string]string{"STAGE": StageProd, "PORT": "eighty"}},
		{name: "port out of range", env: map[string]string{"STAGE": StageProd, "PORT": "70000"}},
		{name: "bad delay", env: map[string]string{"STAGE": StageProd, "OPPONENT_DELAY": "soon"}},
		{name: "negative timeout", env: map[string]string{"STAGE": StageProd, "AGENT_TIMEOUT": "-1s"}},
		{name: "bad log level", env: map[string]string{"STAGE": StageProd, "LOG_LEVEL": "loud"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range test.env {
				t.Setenv(k, v)
			}

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
		})
	}
}
