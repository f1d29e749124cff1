package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertBet persists a new bet inside the caller's transaction.
func (s *Store) InsertBet(tx *sql.Tx, b Bet) error {
	_, err := tx.Exec(`
		INSERT INTO bets
			(id, user_id, game_id, amount, status, server_seed, server_seed_hash,
			 client_seed, nonce, game_data, multiplier, payout, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.UserID, b.GameID, b.Amount, string(b.Status), b.ServerSeed, b.ServerSeedHash,
		b.ClientSeed, int64(b.Nonce), b.GameData, b.Multiplier, b.Payout,
		b.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("insert bet: %w", err)
	}
	return nil
}

// GetBet reads a bet outside any transaction.
func (s *Store) GetBet(ctx context.Context, id string) (Bet, error) {
	row := s.db.QueryRowContext(ctx, betSelect+` WHERE id = ?`, id)
	return scanBet(row)
}

// GetBetTx reads a bet inside an open transaction. Interactive transitions
// use this so the read and the guarded write are one atomic unit.
func (s *Store) GetBetTx(tx *sql.Tx, id string) (Bet, error) {
	row := tx.QueryRow(betSelect+` WHERE id = ?`, id)
	return scanBet(row)
}

// UpdateBetGameData commits an intermediate interactive transition. The
// status guard makes the write conditional: if a concurrent transition
// already resolved the bet, zero rows match and the caller must reject.
func (s *Store) UpdateBetGameData(tx *sql.Tx, id, gameData string, multiplier float64) (bool, error) {
	res, err := tx.Exec(`
		UPDATE bets
		SET game_data = ?, multiplier = ?
		WHERE id = ? AND status = ?
	`, gameData, multiplier, id, string(BetStatusPending))
	if err != nil {
		return false, fmt.Errorf("update bet game data: %w", err)
	}
	return oneRow(res)
}

// ResolveBet moves a bet to a terminal status. Guarded on PENDING so two
// racing terminal transitions cannot both succeed.
func (s *Store) ResolveBet(tx *sql.Tx, id string, status BetStatus, gameData string,
	multiplier float64, payout int64, resolvedAt time.Time) (bool, error) {

	res, err := tx.Exec(`
		UPDATE bets
		SET status = ?, game_data = ?, multiplier = ?, payout = ?, resolved_at = ?
		WHERE id = ? AND status = ?
	`, string(status), gameData, multiplier, payout,
		resolvedAt.UTC().Format(timeFormat), id, string(BetStatusPending))
	if err != nil {
		return false, fmt.Errorf("resolve bet: %w", err)
	}
	return oneRow(res)
}

const betSelect = `
	SELECT id, user_id, game_id, amount, status, server_seed, server_seed_hash,
	       client_seed, nonce, game_data, multiplier, payout, created_at, resolved_at
	FROM bets`

func scanBet(row *sql.Row) (Bet, error) {
	var b Bet
	var status string
	var nonce int64
	var createdAt string
	var resolvedAt sql.NullString

	err := row.Scan(&b.ID, &b.UserID, &b.GameID, &b.Amount, &status, &b.ServerSeed,
		&b.ServerSeedHash, &b.ClientSeed, &nonce, &b.GameData, &b.Multiplier,
		&b.Payout, &createdAt, &resolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Bet{}, ErrNotFound
	}
	if err != nil {
		return Bet{}, fmt.Errorf("scan bet: %w", err)
	}

	b.Status = BetStatus(status)
	b.Nonce = uint64(nonce)
	if b.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return Bet{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if resolvedAt.Valid {
		t, err := time.Parse(timeFormat, resolvedAt.String)
		if err != nil {
			return Bet{}, fmt.Errorf("parse resolved_at %q: %w", resolvedAt.String, err)
		}
		b.ResolvedAt = &t
	}
	return b, nil
}

func oneRow(res sql.Result) (bool, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected == 1, nil
}
