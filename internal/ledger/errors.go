package ledger

import "errors"

var (
	// ErrInsufficientFunds rejects a mutation that would drive a balance
	// negative. Raised pre-write; no state changes.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")

	// ErrAccountNotFound means the balance row does not exist. Callers
	// should treat it as fatal misuse, not a transient condition.
	ErrAccountNotFound = errors.New("ledger: account not found")

	// ErrConflict is the internal optimistic-lock failure. It never escapes
	// Apply; exhausted retries surface ErrConflictExceededRetries instead.
	ErrConflict = errors.New("ledger: version conflict")

	// ErrConflictExceededRetries means contention on the account exhausted
	// the retry budget. Transient; the caller may retry the whole call.
	ErrConflictExceededRetries = errors.New("ledger: conflict retries exhausted")

	// ErrDuplicateAccount rejects creating an account that already exists.
	ErrDuplicateAccount = errors.New("ledger: account already exists")
)
