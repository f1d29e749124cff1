package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("store: duplicate key")

// BetStatus is the lifecycle state of a bet.
type BetStatus string

const (
	BetStatusPending BetStatus = "PENDING"
	BetStatusWon     BetStatus = "WON"
	BetStatusLost    BetStatus = "LOST"
)

// Balance is an account balance row. Version is the optimistic-lock token;
// it increments on every successful mutation.
type Balance struct {
	UserID        string `json:"user_id" db:"user_id"`
	Balance       int64  `json:"balance" db:"balance"`
	LockedBalance int64  `json:"locked_balance" db:"locked_balance"`
	Version       int64  `json:"version" db:"version"`
}

// Transaction is one immutable entry in the append-only audit log. Rows are
// never updated or deleted; balance_after of one row equals balance_before
// of the account's next row.
type Transaction struct {
	ID            string    `json:"id" db:"id"`
	SeqDisplayID  string    `json:"seq_display_id" db:"seq_display_id"`
	UserID        string    `json:"user_id" db:"user_id"`
	Type          string    `json:"type" db:"type"`
	Amount        int64     `json:"amount" db:"amount"`
	BalanceBefore int64     `json:"balance_before" db:"balance_before"`
	BalanceAfter  int64     `json:"balance_after" db:"balance_after"`
	Metadata      string    `json:"metadata" db:"metadata"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Bet is a persisted bet. GameData holds the game-specific JSON blob; for
// interactive Mines it carries the full session state including the
// precommitted mine positions.
type Bet struct {
	ID             string     `json:"id" db:"id"`
	UserID         string     `json:"user_id" db:"user_id"`
	GameID         string     `json:"game_id" db:"game_id"`
	Amount         int64      `json:"amount" db:"amount"`
	Status         BetStatus  `json:"status" db:"status"`
	ServerSeed     string     `json:"server_seed" db:"server_seed"`
	ServerSeedHash string     `json:"server_seed_hash" db:"server_seed_hash"`
	ClientSeed     string     `json:"client_seed" db:"client_seed"`
	Nonce          uint64     `json:"nonce" db:"nonce"`
	GameData       string     `json:"game_data" db:"game_data"`
	Multiplier     float64    `json:"multiplier" db:"multiplier"`
	Payout         int64      `json:"payout" db:"payout"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
}
