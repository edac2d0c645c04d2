// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/ovaphlow/pitchfork/service-blog-go/internal/token"
)

// Config is the root configuration of the blog service.
type Config struct {
	HTTP     HTTPConfig
	Auth     AuthConfig
	Password PasswordConfig
}

// HTTPConfig holds server and cookie transport settings.
type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR" env-default:"0.0.0.0:8000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	CookieSecure    bool          `env:"COOKIE_SECURE" env-default:"false"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" env-default:"http://127.0.0.1:3000"`
}

// AuthConfig holds token signing parameters. The secret is read once at
// startup and treated as immutable afterwards.
type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET" env-required:"true"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" env-default:"8760h"`
}

// PasswordConfig selects the credential hashing algorithm.
type PasswordConfig struct {
	Hasher string `env:"PASSWORD_HASHER" env-default:"argon2id"`
}

// Load reads the configuration from environment variables and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks invariants that env tags cannot express.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.Auth.AccessTokenTTL < token.MinLifetime || c.Auth.RefreshTokenTTL < token.MinLifetime {
		return fmt.Errorf("token lifetimes must be at least %s", token.MinLifetime)
	}
	if c.Auth.AccessTokenTTL >= c.Auth.RefreshTokenTTL {
		return errors.New("ACCESS_TOKEN_TTL must be shorter than REFRESH_TOKEN_TTL")
	}
	switch c.Password.Hasher {
	case "argon2id", "bcrypt":
	default:
		return fmt.Errorf("unsupported PASSWORD_HASHER %q", c.Password.Hasher)
	}
	return nil
}
