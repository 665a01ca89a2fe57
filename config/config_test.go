package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "release", c.GinMode)
	assert.Equal(t, 60, c.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, "habitflow", c.DBName)
	assert.Equal(t, "3306", c.DBPort)
	assert.Equal(t, 6379, c.RedisPort)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 100, c.LogMaxSizeMB)
}

func TestApplyDefaultsKeepsExistingValues(t *testing.T) {
	c := AppConfig{AppPort: "9000", DBName: "custom", LogLevel: "debug"}
	applyDefaults(&c)

	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, "custom", c.DBName)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "3000")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_DB", "3")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	assert.Equal(t, "3000", c.AppPort)
	assert.Equal(t, "test-secret", c.JWTSecret)
	assert.Equal(t, "hunter2", c.AdminPassword)
	assert.Equal(t, 120, c.RateLimitPerMinute)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.Equal(t, 3, c.RedisDB)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim("a, b"))
	assert.Equal(t, []string{"a"}, splitAndTrim("a,,  ,"))
	assert.Empty(t, splitAndTrim(""))
}
