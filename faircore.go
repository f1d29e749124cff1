// Package faircore assembles the core from environment-driven configuration:
// the SQLite store, the balance ledger and the betting service, sharing one
// logger. Collaborators embed a Core instead of wiring the internals
// themselves.
package faircore

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lumenplay/faircore/internal/betting"
	"github.com/lumenplay/faircore/internal/config"
	"github.com/lumenplay/faircore/internal/games"
	"github.com/lumenplay/faircore/internal/ledger"
	"github.com/lumenplay/faircore/internal/store"
)

// Config re-exports the environment configuration so callers outside the
// module can load and pass it without importing internal packages.
type Config = config.Config

// LoadConfig parses the FAIRCORE_* environment variables.
func LoadConfig() (Config, error) {
	return config.Load()
}

// Core holds the wired services.
type Core struct {
	Store   *store.Store
	Ledger  *ledger.Ledger
	Betting *betting.Service
}

// New opens the database at cfg.DatabasePath and assembles the services.
// The ledger retry budget and the bet limits come from cfg; every registered
// game starts active with the same limits.
func New(cfg Config, log zerolog.Logger) (*Core, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.LogLevel, err)
	}
	log = log.Level(level)

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	lg := ledger.New(st, ledger.RetryPolicy{
		MaxRetries: cfg.LedgerMaxRetries,
		Backoff:    cfg.LedgerRetryBackoff,
	}, log)

	specs := games.List()
	configs := make(betting.StaticConfig, len(specs))
	for _, spec := range specs {
		configs[spec.ID] = betting.GameConfig{
			MinBet: cfg.MinBet,
			MaxBet: cfg.MaxBet,
			Active: true,
		}
	}

	return &Core{
		Store:   st,
		Ledger:  lg,
		Betting: betting.New(st, lg, configs, log),
	}, nil
}

// Close releases the database handle.
func (c *Core) Close() error {
	return c.Store.Close()
}
