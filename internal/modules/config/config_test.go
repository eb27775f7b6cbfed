package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("LOG_TAIL", "50")
	assert.Equal(t, 50, intFromEnv("LOG_TAIL", 200))

	// мусор в env не роняет конфиг, работает дефолт
	t.Setenv("LOG_TAIL", "junk")
	assert.Equal(t, 200, intFromEnv("LOG_TAIL", 200))
	assert.Equal(t, 200, intFromEnv("LOG_TAIL_MISSING", 200))

	t.Setenv("STATUS_POLL_INTERVAL", "7s")
	assert.Equal(t, 7*time.Second, durationFromEnv("STATUS_POLL_INTERVAL", "5s"))
	t.Setenv("STATUS_POLL_INTERVAL", "junk")
	assert.Equal(t, 5*time.Second, durationFromEnv("STATUS_POLL_INTERVAL", "5s"))

	assert.Equal(t, "x", getenvDefault("SOME_MISSING_KEY", "x"))
}
