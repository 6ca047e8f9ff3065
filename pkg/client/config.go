package client

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the identities and logging knobs of the inbound pipeline.
// Values come from the environment; the session store and transport layers
// carry their own configuration.
type Config struct {
	// SelfJID is this account's plain-namespace address.
	SelfJID string `env:"LUTRA_SELF_JID,required"`
	// SelfLID is this account's lid-namespace address.
	SelfLID string `env:"LUTRA_SELF_LID"`
	// LogLevel is a zerolog level name (trace, debug, info, warn, error).
	LogLevel string `env:"LUTRA_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("client: failed to parse environment config: %w", err)
	}
	return &cfg, nil
}

// ParseLogLevel resolves the configured level, falling back to info for
// unknown names.
func (c *Config) ParseLogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
