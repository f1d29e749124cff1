// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the core needs at startup. Game house edges are
// deliberately absent: resolvers take every input explicitly so the verifier
// can run them in isolation.
type Config struct {
	DatabasePath string `env:"FAIRCORE_DB_PATH" envDefault:"faircore.db"`

	MinBet int64 `env:"FAIRCORE_MIN_BET" envDefault:"1"`
	MaxBet int64 `env:"FAIRCORE_MAX_BET" envDefault:"100000000"`

	LedgerMaxRetries   uint64        `env:"FAIRCORE_LEDGER_MAX_RETRIES" envDefault:"3"`
	LedgerRetryBackoff time.Duration `env:"FAIRCORE_LEDGER_RETRY_BACKOFF" envDefault:"10ms"`

	LogLevel string `env:"FAIRCORE_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
