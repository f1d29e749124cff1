package games

import (
	"fmt"
	"math"
	"sort"

	"github.com/lumenplay/faircore/internal/engine"
)

// MinesGame is the one-shot variant: the player commits to a set of tiles up
// front and the bet settles in a single resolution. The interactive variant
// reuses MinePositions and MinesMultiplier but runs its own state machine.
type MinesGame struct{}

const (
	minesMinDim          = 2
	minesMaxDim          = 10
	minesHouseEdge       = 0.98
	minesMaxDrawsPerCell = 64
)

// Spec returns metadata about the Mines game.
func (g *MinesGame) Spec() Spec {
	return Spec{ID: "mines", Name: "Mines"}
}

// MinePositions derives the mine layout for a board. Draws map to cells via
// floor(r*totalCells); duplicates are discarded but still consume a cursor,
// so the layout is a pure function of the seeds and nonce. Rejection
// sampling is capped at totalCells*64 draws; past the cap the remaining
// mines are filled by scanning upward from the last drawn cell, which keeps
// the result deterministic and the loop provably finite. The caller
// guarantees 0 < minesCount < totalCells.
func MinePositions(serverSeed, clientSeed string, nonce uint64, totalCells, minesCount int) []int {
	taken := make(map[int]bool, minesCount)
	positions := make([]int, 0, minesCount)

	maxDraws := uint64(totalCells * minesMaxDrawsPerCell)
	last := 0
	for cursor := uint64(0); uint64(len(positions)) < uint64(minesCount) && cursor < maxDraws; cursor++ {
		r := engine.Derive(serverSeed, clientSeed, nonce, cursor)
		cell := int(math.Floor(r * float64(totalCells)))
		if cell >= totalCells {
			cell = totalCells - 1
		}
		last = cell

		if taken[cell] {
			continue
		}
		taken[cell] = true
		positions = append(positions, cell)
	}

	// Unreachable for an honest hash; keeps pathological inputs terminating.
	for i := 1; len(positions) < minesCount; i++ {
		cell := (last + i) % totalCells
		if taken[cell] {
			continue
		}
		taken[cell] = true
		positions = append(positions, cell)
	}

	sort.Ints(positions)
	return positions
}

// MinesMultiplier computes the running multiplier after `revealed` safe
// tiles on a board with `minesCount` mines. Zero reveals pay 1.0x. The
// formula is strictly non-decreasing in revealed for a fixed mine count.
func MinesMultiplier(totalCells, minesCount, revealed int) float64 {
	if revealed == 0 {
		return 1.0
	}

	maxSafe := float64(totalCells - minesCount)
	progress := float64(revealed) / maxSafe

	m := (1 + float64(minesCount)/5) * (1 + progress*progress*5) * minesHouseEdge
	return round4(m)
}

// Validate checks grid shape, mine count and the committed reveal set.
func (g *MinesGame) Validate(params map[string]any) error {
	_, err := minesParams(params)
	return err
}

// Resolve derives the mine layout and settles the committed reveals against
// it. Any revealed mine loses the whole bet.
func (g *MinesGame) Resolve(seeds engine.Seeds, nonce uint64, params map[string]any) (Result, error) {
	p, err := minesParams(params)
	if err != nil {
		return Result{}, err
	}

	totalCells := p.rows * p.cols
	positions := MinePositions(seeds.Server, seeds.Client, nonce, totalCells, p.mines)

	mineSet := make(map[int]bool, len(positions))
	for _, pos := range positions {
		mineSet[pos] = true
	}

	hit := -1
	for _, tile := range p.reveals {
		if mineSet[tile] {
			hit = tile
			break
		}
	}

	multiplier := 0.0
	if hit < 0 {
		multiplier = MinesMultiplier(totalCells, p.mines, len(p.reveals))
	}

	return Result{
		Multiplier: multiplier,
		Details: map[string]any{
			"rows":           p.rows,
			"cols":           p.cols,
			"mines":          p.mines,
			"mine_positions": positions,
			"reveals":        p.reveals,
			"hit_mine":       hit,
		},
	}, nil
}

type minesBet struct {
	rows    int
	cols    int
	mines   int
	reveals []int
}

func minesParams(params map[string]any) (minesBet, error) {
	var p minesBet
	var ok bool

	if p.rows, ok = intParam(params, "rows"); !ok {
		return p, fmt.Errorf("mines requires an integer rows param")
	}
	if p.cols, ok = intParam(params, "cols"); !ok {
		return p, fmt.Errorf("mines requires an integer cols param")
	}
	if p.rows < minesMinDim || p.rows > minesMaxDim || p.cols < minesMinDim || p.cols > minesMaxDim {
		return p, fmt.Errorf("mines grid must be between %dx%d and %dx%d, got %dx%d",
			minesMinDim, minesMinDim, minesMaxDim, minesMaxDim, p.rows, p.cols)
	}

	totalCells := p.rows * p.cols
	if p.mines, ok = intParam(params, "mines"); !ok {
		return p, fmt.Errorf("mines requires an integer mines param")
	}
	if p.mines <= 0 || p.mines >= totalCells {
		return p, fmt.Errorf("mines count must be in (0,%d), got %d", totalCells, p.mines)
	}

	if p.reveals, ok = intSliceParam(params, "reveals"); !ok {
		return p, fmt.Errorf("mines requires an integer array reveals param")
	}
	if len(p.reveals) == 0 {
		return p, fmt.Errorf("mines requires at least one revealed tile")
	}
	if len(p.reveals) > totalCells-p.mines {
		return p, fmt.Errorf("mines reveals %d exceed safe tiles %d", len(p.reveals), totalCells-p.mines)
	}

	seen := make(map[int]bool, len(p.reveals))
	for _, tile := range p.reveals {
		if tile < 0 || tile >= totalCells {
			return p, fmt.Errorf("mines reveal %d out of range [0,%d)", tile, totalCells)
		}
		if seen[tile] {
			return p, fmt.Errorf("mines reveal %d repeated", tile)
		}
		seen[tile] = true
	}

	return p, nil
}
