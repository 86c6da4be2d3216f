// Package config reads the process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	CatalogSource string `env:"CATALOG_SOURCE" envDefault:"data.json"`
	AuditLog      string `env:"AUDIT_LOG" envDefault:"log.txt"`
	AssetRoot     string `env:"ASSET_ROOT" envDefault:"/static/images/"`
	CatalogCache  bool   `env:"CATALOG_CACHE" envDefault:"false"`

	AcceptedOrigins []string `env:"ACCEPTED_ORIGINS" envDefault:"*" envSeparator:","`

	ReadTimeoutSeconds  int `env:"READ_TIMEOUT_SECONDS" envDefault:"180"`
	WriteTimeoutSeconds int `env:"WRITE_TIMEOUT_SECONDS" envDefault:"180"`
	IdleTimeoutSeconds  int `env:"IDLE_TIMEOUT_SECONDS" envDefault:"180"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// AWSRegion is only consulted for s3:// catalog sources.
	AWSRegion string `env:"AWS_REGION"`
}

// Load reads the given dotenv files (".env" when none are named) into the
// environment and parses the result. Variables already set win over the
// files, and a missing file is only a warning.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load dotenv: %w", err)
		}
		log.Warn().Err(err).Msg("no .env file, using the process environment")
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Address binds to every interface so the server is reachable from outside
// a container.
func (c Config) Address() string {
	return net.JoinHostPort("0.0.0.0", c.Port)
}

func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	return level, nil
}
