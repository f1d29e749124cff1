package games

import (
	"testing"

	"github.com/lumenplay/faircore/internal/engine"
)

func TestPlinkoResolveDeterministic(t *testing.T) {
	game := &PlinkoGame{}
	seeds := engine.Seeds{Server: "test_server_seed", Client: "test_client_seed"}
	params := map[string]any{"rows": 16, "risk": "medium"}

	a, err := game.Resolve(seeds, 5, params)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	b, err := game.Resolve(seeds, 5, params)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if a.Multiplier != b.Multiplier {
		t.Errorf("multiplier not deterministic: %v vs %v", a.Multiplier, b.Multiplier)
	}

	pathA := a.Details["path"].([]string)
	pathB := b.Details["path"].([]string)
	for i := range pathA {
		if pathA[i] != pathB[i] {
			t.Fatalf("path differs at row %d: %s vs %s", i, pathA[i], pathB[i])
		}
	}
}

func TestPlinkoBucketMatchesPath(t *testing.T) {
	game := &PlinkoGame{}
	seeds := engine.Seeds{Server: "server", Client: "client"}

	for nonce := uint64(0); nonce < 50; nonce++ {
		res, err := game.Resolve(seeds, nonce, map[string]any{"rows": 12, "risk": "low"})
		if err != nil {
			t.Fatalf("Resolve() error at nonce %d: %v", nonce, err)
		}

		path := res.Details["path"].([]string)
		if len(path) != 12 {
			t.Fatalf("path length = %d, want 12", len(path))
		}

		rights := 0
		for _, step := range path {
			if step == "right" {
				rights++
			}
		}

		bucket := res.Details["bucket"].(int)
		if bucket != rights {
			t.Errorf("bucket = %d, want %d right steps", bucket, rights)
		}
		if bucket < 0 || bucket > 12 {
			t.Errorf("bucket %d out of range [0,12]", bucket)
		}
	}
}

func TestPlinkoTableMapping(t *testing.T) {
	// A 16-row board maps buckets 1:1 onto the 17-slot table; the extreme
	// buckets must land on the extreme table entries.
	game := &PlinkoGame{}
	seeds := engine.Seeds{Server: "server", Client: "client"}

	res, err := game.Resolve(seeds, 1, map[string]any{"rows": 16, "risk": "high"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	bucket := res.Details["bucket"].(int)
	index := res.Details["table_index"].(int)
	if bucket != index {
		t.Errorf("16-row board: table index %d, want bucket %d", index, bucket)
	}

	table := plinkoPayoutTables["high"]
	if res.Multiplier != round4(table[index]) {
		t.Errorf("multiplier %v does not match table entry %v", res.Multiplier, table[index])
	}
}

func TestPlinkoValidate(t *testing.T) {
	game := &PlinkoGame{}

	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
	}{
		{"valid low", map[string]any{"rows": 8, "risk": "low"}, false},
		{"valid high", map[string]any{"rows": 16, "risk": "high"}, false},
		{"rows too few", map[string]any{"rows": 7, "risk": "low"}, true},
		{"rows too many", map[string]any{"rows": 17, "risk": "low"}, true},
		{"unknown risk", map[string]any{"rows": 16, "risk": "extreme"}, true},
		{"missing rows", map[string]any{"risk": "low"}, true},
		{"missing risk", map[string]any{"rows": 16}, true},
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

func TestPlinkoTablesShape(t *testing.T) {
	for risk, table := range plinkoPayoutTables {
		if len(table) != 17 {
			t.Errorf("risk %s table has %d entries, want 17", risk, len(table))
		}
		for i, m := range table {
			if m <= 0 {
				t.Errorf("risk %s entry %d is %v, want > 0", risk, i, m)
			}
		}
	}
}
