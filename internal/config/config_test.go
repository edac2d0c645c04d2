package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 365*24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, []string{"http://127.0.0.1:3000"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "argon2id", cfg.Password.Hasher)
	assert.False(t, cfg.HTTP.CookieSecure)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "30s")
	t.Setenv("REFRESH_TOKEN_TTL", "48h")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("PASSWORD_HASHER", "bcrypt")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 48*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.True(t, cfg.HTTP.CookieSecure)
	assert.Equal(t, "bcrypt", cfg.Password.Hasher)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Auth: AuthConfig{
				JWTSecret:       "s",
				AccessTokenTTL:  time.Minute,
				RefreshTokenTTL: time.Hour,
			},
			Password: PasswordConfig{Hasher: "argon2id"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"zero access ttl", func(c *Config) { c.Auth.AccessTokenTTL = 0 }},
		{"sub-second access ttl", func(c *Config) { c.Auth.AccessTokenTTL = 500 * time.Millisecond }},
		{"negative refresh ttl", func(c *Config) { c.Auth.RefreshTokenTTL = -time.Hour }},
		{"access not shorter than refresh", func(c *Config) { c.Auth.AccessTokenTTL = 2 * time.Hour }},
		{"unknown hasher", func(c *Config) { c.Password.Hasher = "md5" }},
	}

	c := valid()
	require.NoError(t, c.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
