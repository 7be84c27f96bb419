package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvDefaults(t *testing.T) {
	cfg, err := ParseEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "users.db", cfg.DBPath)
	assert.Equal(t, "web", cfg.StaticDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("DB_PATH", "/tmp/arena.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := ParseEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "/tmp/arena.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}
