package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const timeFormat = time.RFC3339Nano

// InsertTransaction appends one immutable record to the audit log. There is
// deliberately no update or delete counterpart.
func (s *Store) InsertTransaction(tx *sql.Tx, rec Transaction) error {
	_, err := tx.Exec(`
		INSERT INTO transactions
			(id, seq_display_id, user_id, type, amount, balance_before, balance_after, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.SeqDisplayID, rec.UserID, rec.Type, rec.Amount,
		rec.BalanceBefore, rec.BalanceAfter, rec.Metadata, rec.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert transaction %s: %w", rec.ID, ErrDuplicate)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListTransactions returns an account's records in sequence order. The
// display id is zero-padded base 36, so lexicographic order is numeric order.
func (s *Store) ListTransactions(ctx context.Context, userID string) ([]Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq_display_id, user_id, type, amount, balance_before, balance_after, metadata, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY seq_display_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var rec Transaction
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.SeqDisplayID, &rec.UserID, &rec.Type, &rec.Amount,
			&rec.BalanceBefore, &rec.BalanceAfter, &rec.Metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
