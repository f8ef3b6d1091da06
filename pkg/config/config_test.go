package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("SESSION_TTL_MINUTES", "")
	t.Setenv("SESSION_COOKIE_NAME", "")
	t.Setenv("SESSION_SECURE", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 60, cfg.SessionTTLMinutes)
	assert.Equal(t, "session_id", cfg.SessionCookieName)
	assert.False(t, cfg.SessionSecure)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("SESSION_COOKIE_NAME", "sid")
	t.Setenv("SESSION_SECURE", "true")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 15, cfg.SessionTTLMinutes)
	assert.Equal(t, "sid", cfg.SessionCookieName)
	assert.True(t, cfg.SessionSecure)
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("SESSION_TTL_MINUTES", "soon")
	t.Setenv("SESSION_SECURE", "yep")

	cfg := Load()
	assert.Equal(t, 60, cfg.SessionTTLMinutes)
	assert.False(t, cfg.SessionSecure)
}
