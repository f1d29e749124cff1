package betting

import (
	"errors"
	"fmt"
)

var (
	// ErrBetNotFound means no bet exists under the given id.
	ErrBetNotFound = errors.New("betting: bet not found")

	// ErrBetAlreadyResolved rejects a transition on a bet that reached a
	// terminal state, including the case where a concurrent transition won
	// the race for the same bet.
	ErrBetAlreadyResolved = errors.New("betting: bet already resolved")

	// ErrNoTilesRevealed rejects cashing out before any safe tile was
	// revealed.
	ErrNoTilesRevealed = errors.New("betting: no tiles revealed")
)

// ValidationError rejects a request before any state is mutated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("betting: invalid %s: %s", e.Field, e.Reason)
}

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
