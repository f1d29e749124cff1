// Package games holds the pure bet resolvers. Every resolver maps
// (seeds, nonce, params) to an outcome and a final multiplier with no side
// effects and no ambient configuration reads, so the fairness verifier can
// call the identical function offline and reproduce the result bit for bit.
package games

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lumenplay/faircore/internal/engine"
)

// Result is the outcome of resolving a bet. Multiplier is the final payout
// multiplier (0 on a loss) and Details carries the game-specific evidence a
// verifier needs to audit the outcome.
type Result struct {
	Multiplier float64        `json:"multiplier"`
	Details    map[string]any `json:"details"`
}

// Spec describes a registered game.
type Spec struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Game is a pure bet resolver. Validate rejects malformed params before any
// money moves; Resolve never fails for params Validate accepted.
type Game interface {
	Spec() Spec
	Validate(params map[string]any) error
	Resolve(seeds engine.Seeds, nonce uint64, params map[string]any) (Result, error)
}

var registry = map[string]Game{
	"dice":   &DiceGame{},
	"plinko": &PlinkoGame{},
	"mines":  &MinesGame{},
}

// Get returns the resolver registered under the given id.
func Get(id string) (Game, error) {
	g, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("unknown game: %s", id)
	}
	return g, nil
}

// List returns the specs of all registered games, sorted by id.
func List() []Spec {
	specs := make([]Spec, 0, len(registry))
	for _, g := range registry {
		specs = append(specs, g.Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].ID < specs[j].ID })
	return specs
}

// Payout converts a multiplier into integer minor units, rounding half up.
// Decimal math keeps amount*multiplier exact where float64 would drift.
func Payout(amount int64, multiplier float64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(multiplier)).
		Round(0).
		IntPart()
}

// round4 rounds a multiplier to 4 decimal places, half up.
func round4(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(4).Float64()
	return f
}
