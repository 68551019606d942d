package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "contacts")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg := Load()
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 3600*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 10080*time.Minute, cfg.RefreshTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 600*time.Second, cfg.UserCacheTTL)
	assert.Equal(t, "8000", cfg.Port)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ALGORITHM", "HS512")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15")
	t.Setenv("REFRESH_TOKEN_EXPIRE_MINUTES", "1440")
	t.Setenv("USER_CACHE_TTL", "1m")

	cfg := Load()
	assert.Equal(t, "HS512", cfg.JWTAlgorithm)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 1440*time.Minute, cfg.RefreshTTL)
	assert.Equal(t, time.Minute, cfg.UserCacheTTL)
}

func TestParseDur_Invalid(t *testing.T) {
	assert.Equal(t, time.Second, parseDur("nonsense"))
}
