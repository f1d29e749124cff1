package store

import (
	"database/sql"
	"fmt"
)

// NextSequence claims the next value of the singleton transaction counter.
// The increment rides in the caller's transaction, so the claimed value and
// the record it labels commit or roll back together.
func (s *Store) NextSequence(tx *sql.Tx) (int64, error) {
	var claimed int64
	err := tx.QueryRow(`
		UPDATE sequence_counter
		SET next_id = next_id + 1
		WHERE id = 1
		RETURNING next_id - 1
	`).Scan(&claimed)
	if err != nil {
		return 0, fmt.Errorf("advance sequence counter: %w", err)
	}
	return claimed, nil
}
