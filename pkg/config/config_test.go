package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Publish.MaxCarouselItems)
	assert.Equal(t, 3*time.Second, cfg.Publish.PollInterval)
	assert.Equal(t, "local", cfg.Storage.Type)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PUBLISH_MAX_POLL_ATTEMPTS", "2")
	t.Setenv("PUBLISH_POLL_INTERVAL", "5ms")
	t.Setenv("RUN_AUTO_MIGRATION", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, 2, cfg.Publish.MaxPollAttempts)
	assert.Equal(t, 5*time.Millisecond, cfg.Publish.PollInterval)
	assert.True(t, cfg.Database.Migrate)
	assert.Equal(t, 0, cfg.Redis.DB)
}
