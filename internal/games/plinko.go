package games

import (
	"fmt"
	"math"

	"github.com/lumenplay/faircore/internal/engine"
)

// PlinkoGame drops a ball through rows of pegs; each row is an independent
// left/right decision at the 0.5 threshold and the landing bucket indexes a
// risk-tier payout table.
type PlinkoGame struct{}

const (
	plinkoMinRows = 8
	plinkoMaxRows = 16
)

// Spec returns metadata about the Plinko game.
func (g *PlinkoGame) Spec() Spec {
	return Spec{ID: "plinko", Name: "Plinko"}
}

// Validate checks the row count and risk tier.
func (g *PlinkoGame) Validate(params map[string]any) error {
	_, _, err := plinkoParams(params)
	return err
}

// Resolve draws one float per row and settles the bet.
func (g *PlinkoGame) Resolve(seeds engine.Seeds, nonce uint64, params map[string]any) (Result, error) {
	rows, risk, err := plinkoParams(params)
	if err != nil {
		return Result{}, err
	}

	table, _ := plinkoTable(risk)
	floats := engine.Floats(seeds.Server, seeds.Client, nonce, 0, rows)

	path := make([]string, rows)
	bucket := 0
	for i, f := range floats {
		if f >= 0.5 {
			bucket++
			path[i] = "right"
		} else {
			path[i] = "left"
		}
	}

	// Bucket is in [0, rows] by construction; clamp anyway so a table lookup
	// can never go out of bounds.
	if bucket < 0 {
		bucket = 0
	}
	if bucket > rows {
		bucket = rows
	}

	index := int(math.Round(float64(bucket) / float64(rows) * float64(len(table)-1)))
	multiplier := round4(table[index])

	return Result{
		Multiplier: multiplier,
		Details: map[string]any{
			"rows":        rows,
			"risk":        risk,
			"path":        path,
			"bucket":      bucket,
			"table_index": index,
			"multiplier":  multiplier,
		},
	}, nil
}

func plinkoParams(params map[string]any) (int, string, error) {
	rows, ok := intParam(params, "rows")
	if !ok {
		return 0, "", fmt.Errorf("plinko requires an integer rows param")
	}
	if rows < plinkoMinRows || rows > plinkoMaxRows {
		return 0, "", fmt.Errorf("plinko rows must be in [%d,%d], got %d", plinkoMinRows, plinkoMaxRows, rows)
	}

	risk, ok := stringParam(params, "risk")
	if !ok {
		return 0, "", fmt.Errorf("plinko requires a risk param")
	}
	if _, ok := plinkoTable(risk); !ok {
		return 0, "", fmt.Errorf("plinko risk must be low, medium or high, got %q", risk)
	}

	return rows, risk, nil
}
