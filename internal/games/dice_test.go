package games

import (
	"math"
	"testing"

	"github.com/lumenplay/faircore/internal/engine"
)

func TestDiceResolveDeterministic(t *testing.T) {
	game := &DiceGame{}
	seeds := engine.Seeds{Server: "test_server_seed", Client: "test_client_seed"}
	params := map[string]any{"target": 50, "direction": "over"}

	a, err := game.Resolve(seeds, 1, params)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	b, err := game.Resolve(seeds, 1, params)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if a.Multiplier != b.Multiplier {
		t.Errorf("multiplier not deterministic: %v vs %v", a.Multiplier, b.Multiplier)
	}
	if a.Details["roll"] != b.Details["roll"] {
		t.Errorf("roll not deterministic: %v vs %v", a.Details["roll"], b.Details["roll"])
	}
}

func TestDiceWinMultiplier(t *testing.T) {
	game := &DiceGame{}
	seeds := engine.Seeds{Server: "test_server_seed", Client: "test_client_seed"}
	params := map[string]any{"target": 50, "direction": "over"}

	// Walk nonces until we find both a winning and a losing roll.
	var sawWin, sawLoss bool
	for nonce := uint64(0); nonce < 200 && !(sawWin && sawLoss); nonce++ {
		res, err := game.Resolve(seeds, nonce, params)
		if err != nil {
			t.Fatalf("Resolve() error at nonce %d: %v", nonce, err)
		}

		roll := res.Details["roll"].(int)
		if roll < 1 || roll > 100 {
			t.Fatalf("roll %d out of range [1,100]", roll)
		}

		if res.Details["win_probability"].(float64) != 0.5 {
			t.Errorf("win probability = %v, want 0.5", res.Details["win_probability"])
		}

		if roll > 50 {
			sawWin = true
			if math.Abs(res.Multiplier-1.98) > 1e-9 {
				t.Errorf("winning multiplier = %v, want 1.98", res.Multiplier)
			}
		} else {
			sawLoss = true
			if res.Multiplier != 0 {
				t.Errorf("losing multiplier = %v, want 0", res.Multiplier)
			}
		}
	}

	if !sawWin || !sawLoss {
		t.Fatalf("expected both outcomes within 200 nonces (win=%v loss=%v)", sawWin, sawLoss)
	}
}

func TestDiceValidate(t *testing.T) {
	game := &DiceGame{}

	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
	}{
		{"over mid target", map[string]any{"target": 50, "direction": "over"}, false},
		{"under mid target", map[string]any{"target": 50, "direction": "under"}, false},
		{"over max target", map[string]any{"target": 99, "direction": "over"}, false},
		{"under min target", map[string]any{"target": 2, "direction": "under"}, false},
		{"over 100 never wins", map[string]any{"target": 100, "direction": "over"}, true},
		{"under 1 never wins", map[string]any{"target": 1, "direction": "under"}, true},
		{"target too low", map[string]any{"target": 0, "direction": "over"}, true},
		{"bad direction", map[string]any{"target": 50, "direction": "sideways"}, true},
		{"missing target", map[string]any{"direction": "over"}, true},
		{"missing direction", map[string]any{"target": 50}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := game.Validate(tt.params)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDiceJSONShapedParams(t *testing.T) {
	game := &DiceGame{}
	seeds := engine.Seeds{Server: "s", Client: "c"}

	// After a JSON round trip numbers arrive as float64.
	native, err := game.Resolve(seeds, 3, map[string]any{"target": 75, "direction": "under"})
	if err != nil {
		t.Fatalf("Resolve() native params error: %v", err)
	}
	decoded, err := game.Resolve(seeds, 3, map[string]any{"target": float64(75), "direction": "under"})
	if err != nil {
		t.Fatalf("Resolve() decoded params error: %v", err)
	}

	if native.Multiplier != decoded.Multiplier {
		t.Errorf("multiplier differs across param shapes: %v vs %v", native.Multiplier, decoded.Multiplier)
	}
}
