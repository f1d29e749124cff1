package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateBalance inserts a fresh balance row at version 1.
func (s *Store) CreateBalance(ctx context.Context, userID string, initial int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balances (user_id, balance, locked_balance, version)
		VALUES (?, ?, 0, 1)
	`, userID, initial)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create balance for %s: %w", userID, ErrDuplicate)
		}
		return fmt.Errorf("create balance: %w", err)
	}
	return nil
}

// GetBalance reads a balance snapshot outside any transaction. This is the
// read half of the optimistic-lock cycle: the version it returns is what the
// subsequent compare-and-swap is conditioned on.
func (s *Store) GetBalance(ctx context.Context, userID string) (Balance, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, balance, locked_balance, version
		FROM balances WHERE user_id = ?
	`, userID)
	return scanBalance(row)
}

// GetBalanceTx reads a balance inside an open transaction.
func (s *Store) GetBalanceTx(tx *sql.Tx, userID string) (Balance, error) {
	row := tx.QueryRow(`
		SELECT user_id, balance, locked_balance, version
		FROM balances WHERE user_id = ?
	`, userID)
	return scanBalance(row)
}

// UpdateBalanceCAS writes the new balance only if the version is unchanged
// since it was read. Returns false when a concurrent writer won the race.
func (s *Store) UpdateBalanceCAS(tx *sql.Tx, userID string, newBalance, expectVersion int64) (bool, error) {
	res, err := tx.Exec(`
		UPDATE balances
		SET balance = ?, version = version + 1
		WHERE user_id = ? AND version = ?
	`, newBalance, userID, expectVersion)
	if err != nil {
		return false, fmt.Errorf("update balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected == 1, nil
}

func scanBalance(row *sql.Row) (Balance, error) {
	var b Balance
	err := row.Scan(&b.UserID, &b.Balance, &b.LockedBalance, &b.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return Balance{}, ErrNotFound
	}
	if err != nil {
		return Balance{}, fmt.Errorf("scan balance: %w", err)
	}
	return b, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
