package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "LOG_PRETTY", "PROGRESS_TTL", "PROGRESS_BUFFER"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Minute, cfg.ProgressTTL)
	assert.Equal(t, 30*time.Second, cfg.ProgressBuffer)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PROGRESS_TTL", "5m")
	t.Setenv("PROGRESS_BUFFER", "45s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.ProgressTTL)
	assert.Equal(t, 45*time.Second, cfg.ProgressBuffer)
}

func TestLoadIgnoresBadDurations(t *testing.T) {
	t.Setenv("PROGRESS_TTL", "soon")
	t.Setenv("PROGRESS_BUFFER", "")

	cfg := Load()

	assert.Equal(t, 10*time.Minute, cfg.ProgressTTL)
	assert.Equal(t, 30*time.Second, cfg.ProgressBuffer)
}
