// Package verify recomputes game outcomes from committed seeds and compares
// them against persisted results. It calls the exact resolver used at
// settlement time, so a clean report proves the outcome was not altered
// after the fact. Mismatches are reported, never corrected.
package verify

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lumenplay/faircore/internal/engine"
	"github.com/lumenplay/faircore/internal/games"
	"github.com/lumenplay/faircore/internal/store"
)

// Stored is the persisted outcome under audit.
type Stored struct {
	Amount     int64          `json:"amount"`
	Multiplier float64        `json:"multiplier"`
	Payout     int64          `json:"payout"`
	Details    map[string]any `json:"details,omitempty"`
}

// Report is the result of one verification.
type Report struct {
	Valid            bool         `json:"valid"`
	Recomputed       games.Result `json:"recomputed"`
	RecomputedPayout int64        `json:"recomputed_payout"`
	Mismatches       []string     `json:"mismatches,omitempty"`
}

// Bet recomputes the outcome for the given inputs and diffs it against the
// stored result, numerically for multiplier and payout and structurally for
// the game details.
func Bet(gameID, serverSeed, clientSeed string, nonce uint64, params map[string]any, stored Stored) (Report, error) {
	res, err := Manual(gameID, serverSeed, clientSeed, nonce, params)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Recomputed:       res,
		RecomputedPayout: games.Payout(stored.Amount, res.Multiplier),
	}

	if res.Multiplier != stored.Multiplier {
		report.Mismatches = append(report.Mismatches,
			fmt.Sprintf("multiplier: stored %v, recomputed %v", stored.Multiplier, res.Multiplier))
	}
	if report.RecomputedPayout != stored.Payout {
		report.Mismatches = append(report.Mismatches,
			fmt.Sprintf("payout: stored %d, recomputed %d", stored.Payout, report.RecomputedPayout))
	}
	if stored.Details != nil {
		same, err := sameJSON(stored.Details, res.Details)
		if err != nil {
			return Report{}, err
		}
		if !same {
			report.Mismatches = append(report.Mismatches, "details: stored game data differs from recomputation")
		}
	}

	report.Valid = len(report.Mismatches) == 0
	return report, nil
}

// StoredBet audits a persisted bet row end to end.
func StoredBet(bet store.Bet) (Report, error) {
	var details map[string]any
	if err := json.Unmarshal([]byte(bet.GameData), &details); err != nil {
		return Report{}, fmt.Errorf("unmarshal game data of bet %s: %w", bet.ID, err)
	}

	stored := Stored{
		Amount:     bet.Amount,
		Multiplier: bet.Multiplier,
		Payout:     bet.Payout,
		Details:    details,
	}

	// Interactive mines sessions persist session state rather than one-shot
	// details. The reveal sequence still replays through the one-shot
	// resolver, but the stored blob has a different shape, so only the
	// numeric outcome is compared.
	if bet.GameID == "mines" {
		if _, oneShot := details["reveals"]; !oneShot {
			if noReveals(details["revealed"]) {
				return Report{}, fmt.Errorf("bet %s: session has no revealed tiles to verify yet", bet.ID)
			}
			details["reveals"] = details["revealed"]
			stored.Details = nil
		}
	}

	params, err := paramsFromDetails(bet.GameID, details)
	if err != nil {
		return Report{}, fmt.Errorf("bet %s: %w", bet.ID, err)
	}

	return Bet(bet.GameID, bet.ServerSeed, bet.ClientSeed, bet.Nonce, params, stored)
}

// Manual recomputes an outcome for arbitrary, not necessarily persisted,
// inputs. This is the external-audit entry point.
func Manual(gameID, serverSeed, clientSeed string, nonce uint64, params map[string]any) (games.Result, error) {
	game, err := games.Get(gameID)
	if err != nil {
		return games.Result{}, err
	}
	return game.Resolve(engine.Seeds{Server: serverSeed, Client: clientSeed}, nonce, params)
}

// noReveals reports whether a persisted reveal list is absent or empty. The
// list arrives as []any after a JSON round trip and as []int when built in
// process.
func noReveals(v any) bool {
	switch list := v.(type) {
	case []any:
		return len(list) == 0
	case []int:
		return len(list) == 0
	}
	return true
}

// paramsFromDetails reconstructs resolver params from the evidence each
// resolver writes into its details, so a stored bet can be re-run without
// keeping the original request around.
func paramsFromDetails(gameID string, details map[string]any) (map[string]any, error) {
	var keys []string
	switch gameID {
	case "dice":
		keys = []string{"target", "direction"}
	case "plinko":
		keys = []string{"rows", "risk"}
	case "mines":
		keys = []string{"rows", "cols", "mines", "reveals"}
	default:
		return nil, fmt.Errorf("unknown game: %s", gameID)
	}

	params := make(map[string]any, len(keys))
	for _, k := range keys {
		v, ok := details[k]
		if !ok {
			return nil, fmt.Errorf("game data missing %s", k)
		}
		params[k] = v
	}
	return params, nil
}

// sameJSON compares two values through canonical JSON, which normalizes the
// int/float64 and []int/[]any differences a decode round trip introduces.
func sameJSON(a, b any) (bool, error) {
	ra, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("marshal stored details: %w", err)
	}
	rb, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("marshal recomputed details: %w", err)
	}
	return bytes.Equal(ra, rb), nil
}
