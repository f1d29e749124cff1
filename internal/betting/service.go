// Package betting orchestrates bets over the ledger and the pure game
// resolvers: one-shot bets settle in a single call, interactive Mines runs a
// small state machine with status-guarded transitions.
package betting

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lumenplay/faircore/internal/engine"
	"github.com/lumenplay/faircore/internal/games"
	"github.com/lumenplay/faircore/internal/ledger"
	"github.com/lumenplay/faircore/internal/store"
)

// GameConfig is the read-only per-game configuration consumed from the
// platform's admin side.
type GameConfig struct {
	MinBet int64
	MaxBet int64
	Active bool
}

// ConfigProvider supplies game configuration during validation.
type ConfigProvider interface {
	GameConfig(gameID string) (GameConfig, error)
}

// StaticConfig is a fixed in-memory ConfigProvider.
type StaticConfig map[string]GameConfig

func (c StaticConfig) GameConfig(gameID string) (GameConfig, error) {
	cfg, ok := c[gameID]
	if !ok {
		return GameConfig{}, fmt.Errorf("no config for game %s", gameID)
	}
	return cfg, nil
}

// Service resolves bets against the ledger.
type Service struct {
	store   *store.Store
	ledger  *ledger.Ledger
	configs ConfigProvider
	log     zerolog.Logger
}

// New builds a betting service.
func New(st *store.Store, lg *ledger.Ledger, configs ConfigProvider, log zerolog.Logger) *Service {
	return &Service{store: st, ledger: lg, configs: configs, log: log}
}

// BetResult is the public outcome of a settled one-shot bet.
type BetResult struct {
	BetID        string          `json:"bet_id"`
	Status       store.BetStatus `json:"status"`
	Multiplier   float64         `json:"multiplier"`
	Payout       int64           `json:"payout"`
	GameData     map[string]any  `json:"game_data"`
	BalanceAfter int64           `json:"balance_after"`
}

// PlaceBet runs the one-shot pipeline: validate, debit + create the PENDING
// bet atomically, resolve through the pure engine, then credit and mark the
// terminal status atomically. Validation failures abort before any mutation;
// once the debit commits the engine cannot fail, so the bet always reaches
// WON or LOST.
func (s *Service) PlaceBet(ctx context.Context, userID, gameID string, amount int64, clientSeed string, nonce uint64, params map[string]any) (*BetResult, error) {
	game, err := games.Get(gameID)
	if err != nil {
		return nil, invalidf("game_id", "%v", err)
	}
	if err := s.validateAmount(gameID, amount); err != nil {
		return nil, err
	}
	if err := game.Validate(params); err != nil {
		return nil, invalidf("params", "%v", err)
	}

	serverSeed, err := engine.NewServerSeed()
	if err != nil {
		return nil, err
	}

	bet := store.Bet{
		ID:             uuid.NewString(),
		UserID:         userID,
		GameID:         gameID,
		Amount:         amount,
		Status:         store.BetStatusPending,
		ServerSeed:     serverSeed,
		ServerSeedHash: engine.HashServerSeed(serverSeed),
		ClientSeed:     clientSeed,
		Nonce:          nonce,
		GameData:       "{}",
		CreatedAt:      time.Now().UTC(),
	}

	err = s.store.WithTx(ctx, func(tx *sql.Tx) error {
		meta := map[string]any{"bet_id": bet.ID, "game_id": gameID}
		if _, err := s.ledger.ApplyTx(tx, userID, -amount, ledger.TypeBet, meta); err != nil {
			return err
		}
		return s.store.InsertBet(tx, bet)
	})
	if err != nil {
		return nil, err
	}

	// Pure resolution; cannot fail for params that passed validation.
	res, err := game.Resolve(engine.Seeds{Server: serverSeed, Client: clientSeed}, nonce, params)
	if err != nil {
		return nil, fmt.Errorf("resolve bet %s: %w", bet.ID, err)
	}

	payout := games.Payout(amount, res.Multiplier)
	status := store.BetStatusLost
	if payout > 0 {
		status = store.BetStatusWon
	}

	gameData, err := json.Marshal(res.Details)
	if err != nil {
		return nil, fmt.Errorf("marshal game data: %w", err)
	}

	var balanceAfter int64
	err = s.store.WithTx(ctx, func(tx *sql.Tx) error {
		if payout > 0 {
			credit, err := s.ledger.ApplyTx(tx, userID, payout, ledger.TypeWin, map[string]any{"bet_id": bet.ID})
			if err != nil {
				return err
			}
			balanceAfter = credit.BalanceAfter
		} else {
			bal, err := s.store.GetBalanceTx(tx, userID)
			if err != nil {
				return err
			}
			balanceAfter = bal.Balance
		}

		ok, err := s.store.ResolveBet(tx, bet.ID, status, string(gameData), res.Multiplier, payout, time.Now().UTC())
		if err != nil {
			return err
		}
		if !ok {
			return ErrBetAlreadyResolved
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("bet_id", bet.ID).
		Str("user_id", userID).
		Str("game_id", gameID).
		Int64("amount", amount).
		Str("status", string(status)).
		Float64("multiplier", res.Multiplier).
		Int64("payout", payout).
		Msg("bet settled")

	return &BetResult{
		BetID:        bet.ID,
		Status:       status,
		Multiplier:   res.Multiplier,
		Payout:       payout,
		GameData:     res.Details,
		BalanceAfter: balanceAfter,
	}, nil
}

func (s *Service) validateAmount(gameID string, amount int64) error {
	cfg, err := s.configs.GameConfig(gameID)
	if err != nil {
		return invalidf("game_id", "%v", err)
	}
	if !cfg.Active {
		return invalidf("game_id", "game %s is not active", gameID)
	}
	if amount <= 0 {
		return invalidf("amount", "must be positive, got %d", amount)
	}
	if amount < cfg.MinBet {
		return invalidf("amount", "%d below minimum bet %d", amount, cfg.MinBet)
	}
	if cfg.MaxBet > 0 && amount > cfg.MaxBet {
		return invalidf("amount", "%d above maximum bet %d", amount, cfg.MaxBet)
	}
	return nil
}

// Bet returns a stored bet. Seeds stay included because bets are exposed for
// verification only after resolution in this module's callers.
func (s *Service) Bet(ctx context.Context, betID string) (store.Bet, error) {
	bet, err := s.store.GetBet(ctx, betID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Bet{}, ErrBetNotFound
	}
	return bet, err
}
