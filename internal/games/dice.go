package games

import (
	"fmt"
	"math"

	"github.com/lumenplay/faircore/internal/engine"
)

// DiceGame implements the classic over/under roll on [1, 100].
type DiceGame struct{}

const diceHouseEdge = 0.01

// Spec returns metadata about the Dice game.
func (g *DiceGame) Spec() Spec {
	return Spec{ID: "dice", Name: "Dice"}
}

// Validate checks target and direction. Target ranges are chosen so the win
// probability is never zero: over needs target <= 99, under needs target >= 2.
func (g *DiceGame) Validate(params map[string]any) error {
	target, direction, err := diceParams(params)
	if err != nil {
		return err
	}

	switch direction {
	case "over":
		if target < 1 || target > 99 {
			return fmt.Errorf("dice target for over must be in [1,99], got %d", target)
		}
	case "under":
		if target < 2 || target > 100 {
			return fmt.Errorf("dice target for under must be in [2,100], got %d", target)
		}
	}
	return nil
}

// Resolve rolls once and settles the bet.
func (g *DiceGame) Resolve(seeds engine.Seeds, nonce uint64, params map[string]any) (Result, error) {
	if err := g.Validate(params); err != nil {
		return Result{}, err
	}
	target, direction, _ := diceParams(params)

	r := engine.Derive(seeds.Server, seeds.Client, nonce, 0)
	roll := int(math.Floor(r*100)) + 1 // [1, 100]

	var win bool
	var winProb float64
	switch direction {
	case "over":
		win = roll > target
		winProb = float64(100-target) / 100
	case "under":
		win = roll < target
		winProb = float64(target-1) / 100
	}

	multiplier := 0.0
	if win {
		multiplier = round4((1 - diceHouseEdge) / winProb)
	}

	return Result{
		Multiplier: multiplier,
		Details: map[string]any{
			"roll":            roll,
			"target":          target,
			"direction":       direction,
			"win":             win,
			"win_probability": winProb,
		},
	}, nil
}

func diceParams(params map[string]any) (int, string, error) {
	target, ok := intParam(params, "target")
	if !ok {
		return 0, "", fmt.Errorf("dice requires an integer target param")
	}

	direction, ok := stringParam(params, "direction")
	if !ok {
		return 0, "", fmt.Errorf("dice requires a direction param")
	}
	if direction != "over" && direction != "under" {
		return 0, "", fmt.Errorf("dice direction must be over or under, got %q", direction)
	}

	return target, direction, nil
}
