// Package ledger is the authoritative per-account balance store. Every
// mutation goes through one optimistically-locked operation that also
// appends an immutable transaction record labeled with a monotonic sequence
// id, so replaying the log in sequence order reconstructs every balance the
// account ever held.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/lumenplay/faircore/internal/store"
)

// TxType classifies a balance mutation. Only TypeAdjustment may drive a
// balance negative.
type TxType string

const (
	TypeDeposit     TxType = "DEPOSIT"
	TypeWithdrawal  TxType = "WITHDRAWAL"
	TypeBet         TxType = "BET"
	TypeWin         TxType = "WIN"
	TypeAdjustment  TxType = "ADJUSTMENT"
	TypeTransferIn  TxType = "TRANSFER_IN"
	TypeTransferOut TxType = "TRANSFER_OUT"
)

// RetryPolicy bounds the optimistic-lock conflict path. It applies to no
// other failure mode.
type RetryPolicy struct {
	MaxRetries uint64
	Backoff    time.Duration
}

// DefaultRetryPolicy allows three retries with a brief constant pause.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 3, Backoff: 10 * time.Millisecond}

// Ledger mutates balances and appends to the audit log.
type Ledger struct {
	store  *store.Store
	policy RetryPolicy
	log    zerolog.Logger
}

// New builds a ledger over the given store.
func New(st *store.Store, policy RetryPolicy, log zerolog.Logger) *Ledger {
	if policy.Backoff <= 0 {
		policy = DefaultRetryPolicy
	}
	return &Ledger{store: st, policy: policy, log: log}
}

// ApplyResult reports a committed mutation.
type ApplyResult struct {
	BalanceBefore int64  `json:"balance_before"`
	BalanceAfter  int64  `json:"balance_after"`
	TransactionID string `json:"transaction_id"`
	SeqDisplayID  string `json:"seq_display_id"`
}

// Apply atomically adds delta to the account balance and appends the audit
// record. Version conflicts retry within the policy budget; every other
// failure propagates immediately.
func (l *Ledger) Apply(ctx context.Context, userID string, delta int64, typ TxType, metadata map[string]any) (ApplyResult, error) {
	var out ApplyResult
	attempts := 0

	backoff := retry.WithMaxRetries(l.policy.MaxRetries, retry.NewConstant(l.policy.Backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		res, err := l.applyOnce(ctx, userID, delta, typ, metadata)
		if errors.Is(err, ErrConflict) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			l.log.Warn().
				Str("user_id", userID).
				Int64("delta", delta).
				Int("attempts", attempts).
				Msg("balance mutation exhausted retry budget")
			return ApplyResult{}, fmt.Errorf("apply %s to %s: %w", typ, userID, ErrConflictExceededRetries)
		}
		return ApplyResult{}, err
	}
	return out, nil
}

func (l *Ledger) applyOnce(ctx context.Context, userID string, delta int64, typ TxType, metadata map[string]any) (ApplyResult, error) {
	bal, err := l.store.GetBalance(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ApplyResult{}, fmt.Errorf("apply to %s: %w", userID, ErrAccountNotFound)
	}
	if err != nil {
		return ApplyResult{}, err
	}

	newBalance := bal.Balance + delta
	if newBalance < 0 && typ != TypeAdjustment {
		return ApplyResult{}, fmt.Errorf("apply %d to %s (balance %d): %w", delta, userID, bal.Balance, ErrInsufficientFunds)
	}

	var out ApplyResult
	err = l.store.WithTx(ctx, func(tx *sql.Tx) error {
		ok, err := l.store.UpdateBalanceCAS(tx, userID, newBalance, bal.Version)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConflict
		}
		out, err = l.appendRecord(tx, userID, delta, bal.Balance, newBalance, typ, metadata)
		return err
	})
	if err != nil {
		return ApplyResult{}, err
	}
	return out, nil
}

// ApplyTx performs a single-attempt mutation inside an already-open
// transaction. Composite units (transfers, interactive cash-outs) use it so
// the balance change, the audit record and the caller's own writes commit
// or roll back together.
func (l *Ledger) ApplyTx(tx *sql.Tx, userID string, delta int64, typ TxType, metadata map[string]any) (ApplyResult, error) {
	bal, err := l.store.GetBalanceTx(tx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ApplyResult{}, fmt.Errorf("apply to %s: %w", userID, ErrAccountNotFound)
	}
	if err != nil {
		return ApplyResult{}, err
	}

	newBalance := bal.Balance + delta
	if newBalance < 0 && typ != TypeAdjustment {
		return ApplyResult{}, fmt.Errorf("apply %d to %s (balance %d): %w", delta, userID, bal.Balance, ErrInsufficientFunds)
	}

	ok, err := l.store.UpdateBalanceCAS(tx, userID, newBalance, bal.Version)
	if err != nil {
		return ApplyResult{}, err
	}
	if !ok {
		return ApplyResult{}, ErrConflict
	}

	return l.appendRecord(tx, userID, delta, bal.Balance, newBalance, typ, metadata)
}

func (l *Ledger) appendRecord(tx *sql.Tx, userID string, delta, before, after int64, typ TxType, metadata map[string]any) (ApplyResult, error) {
	seq, err := l.store.NextSequence(tx)
	if err != nil {
		return ApplyResult{}, err
	}

	meta := "{}"
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return ApplyResult{}, fmt.Errorf("marshal metadata: %w", err)
		}
		meta = string(raw)
	}

	rec := store.Transaction{
		ID:            uuid.NewString(),
		SeqDisplayID:  DisplayID(seq),
		UserID:        userID,
		Type:          string(typ),
		Amount:        delta,
		BalanceBefore: before,
		BalanceAfter:  after,
		Metadata:      meta,
		CreatedAt:     time.Now().UTC(),
	}
	if err := l.store.InsertTransaction(tx, rec); err != nil {
		return ApplyResult{}, err
	}

	return ApplyResult{
		BalanceBefore: before,
		BalanceAfter:  after,
		TransactionID: rec.ID,
		SeqDisplayID:  rec.SeqDisplayID,
	}, nil
}

// TransferResult reports both halves of a committed transfer.
type TransferResult struct {
	Debit  ApplyResult `json:"debit"`
	Credit ApplyResult `json:"credit"`
}

// Transfer moves amount between two accounts as one all-or-nothing unit. A
// crash mid-sequence can never leave the debit without its matching credit.
func (l *Ledger) Transfer(ctx context.Context, fromID, toID string, amount int64, metadata map[string]any) (TransferResult, error) {
	if amount <= 0 {
		return TransferResult{}, fmt.Errorf("transfer amount must be positive, got %d", amount)
	}
	if fromID == toID {
		return TransferResult{}, fmt.Errorf("transfer from %s to itself", fromID)
	}

	var out TransferResult
	err := l.store.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		if out.Debit, err = l.ApplyTx(tx, fromID, -amount, TypeTransferOut, metadata); err != nil {
			return err
		}
		out.Credit, err = l.ApplyTx(tx, toID, amount, TypeTransferIn, metadata)
		return err
	})
	if err != nil {
		return TransferResult{}, err
	}
	return out, nil
}

// CreateAccount seeds a zero balance row, then deposits any opening balance
// through the normal audited path.
func (l *Ledger) CreateAccount(ctx context.Context, userID string, initial int64) error {
	if initial < 0 {
		return fmt.Errorf("initial balance must be non-negative, got %d", initial)
	}

	if err := l.store.CreateBalance(ctx, userID, 0); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("create account %s: %w", userID, ErrDuplicateAccount)
		}
		return err
	}

	if initial > 0 {
		if _, err := l.Apply(ctx, userID, initial, TypeDeposit, map[string]any{"reason": "opening balance"}); err != nil {
			return err
		}
	}
	return nil
}

// Balance returns the current account snapshot.
func (l *Ledger) Balance(ctx context.Context, userID string) (store.Balance, error) {
	bal, err := l.store.GetBalance(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Balance{}, fmt.Errorf("balance of %s: %w", userID, ErrAccountNotFound)
	}
	return bal, err
}

// History returns the account's audit records in sequence order.
func (l *Ledger) History(ctx context.Context, userID string) ([]store.Transaction, error) {
	return l.store.ListTransactions(ctx, userID)
}
