// Package config reads process configuration from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type (
	Config struct {
		Dev          bool     `env:"DEV"`
		Debug        bool     `env:"DEBUG"`
		LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`
		Port         string   `env:"PORT" envDefault:"8080"`
		DatabaseURL  string   `env:"DATABASE_URL"`
		SettingsPath string   `env:"SETTINGS_PATH" envDefault:".travgram/settings.json"`
		CORSOrigins  []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

		Session SessionConfig `envPrefix:"SESSION_"`
		Auth    AuthConfig    `envPrefix:"AUTH_"`
		S3      S3Config      `envPrefix:"S3_"`
	}

	SessionConfig struct {
		Secret    string        `env:"SECRET,required"`
		TTL       time.Duration `env:"TTL" envDefault:"720h"`
		AutoLogin bool          `env:"AUTO_LOGIN" envDefault:"false"`
	}

	AuthConfig struct {
		BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
	}

	S3Config struct {
		Endpoint  string `env:"ENDPOINT"`
		AccessKey string `env:"ACCESS_KEY"`
		SecretKey string `env:"SECRET_KEY"`
		Bucket    string `env:"BUCKET" envDefault:"travgram"`
		UseSSL    bool   `env:"USE_SSL"`
	}
)

// Enabled reports whether profile images go to object storage.
func (c S3Config) Enabled() bool { return c.Endpoint != "" }

// Load reads the given .env files (default ".env") if present and parses the
// environment into a Config.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(cfg.Session.Secret) < 16 {
		return nil, errors.New("read config: SESSION_SECRET must be at least 16 bytes")
	}
	if cfg.S3.Enabled() && (cfg.S3.AccessKey == "" || cfg.S3.SecretKey == "") {
		return nil, errors.New("read config: S3_ACCESS_KEY and S3_SECRET_KEY are required with S3_ENDPOINT")
	}
	return cfg, nil
}
