package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8008", cfg.Addr)
	require.Equal(t, "parking.db", cfg.DBPath)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, 60*time.Second, cfg.CheckInterval)
	require.Empty(t, cfg.RedisURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PARK_ADDR", ":9999")
	t.Setenv("PARK_TOKEN_TTL", "30m")
	t.Setenv("PARK_CHECK_INTERVAL", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.Addr)
	require.Equal(t, 30*time.Minute, cfg.TokenTTL)
	require.Equal(t, 5*time.Second, cfg.CheckInterval)
}
