package verify

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lumenplay/faircore/internal/games"
	"github.com/lumenplay/faircore/internal/store"
)

func TestRoundTripAlwaysValid(t *testing.T) {
	tests := []struct {
		name   string
		gameID string
		params map[string]any
	}{
		{"dice over", "dice", map[string]any{"target": 50, "direction": "over"}},
		{"dice under", "dice", map[string]any{"target": 30, "direction": "under"}},
		{"plinko", "plinko", map[string]any{"rows": 16, "risk": "high"}},
		{"mines", "mines", map[string]any{"rows": 5, "cols": 5, "mines": 3, "reveals": []int{0, 7, 13}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for nonce := uint64(0); nonce < 20; nonce++ {
				res, err := Manual(tt.gameID, "server_seed", "client_seed", nonce, tt.params)
				if err != nil {
					t.Fatalf("Manual() error: %v", err)
				}

				report, err := Bet(tt.gameID, "server_seed", "client_seed", nonce, tt.params, Stored{
					Amount:     100,
					Multiplier: res.Multiplier,
					Payout:     games.Payout(100, res.Multiplier),
					Details:    res.Details,
				})
				if err != nil {
					t.Fatalf("Bet() error: %v", err)
				}
				if !report.Valid {
					t.Fatalf("fresh result failed verification at nonce %d: %v", nonce, report.Mismatches)
				}
			}
		})
	}
}

func TestTamperedResultReported(t *testing.T) {
	params := map[string]any{"target": 50, "direction": "over"}

	res, err := Manual("dice", "server_seed", "client_seed", 1, params)
	if err != nil {
		t.Fatalf("Manual() error: %v", err)
	}

	report, err := Bet("dice", "server_seed", "client_seed", 1, params, Stored{
		Amount:     100,
		Multiplier: res.Multiplier + 1, // inflated after the fact
		Payout:     games.Payout(100, res.Multiplier+1),
	})
	if err != nil {
		t.Fatalf("Bet() error: %v", err)
	}

	if report.Valid {
		t.Fatal("tampered multiplier passed verification")
	}
	if len(report.Mismatches) != 2 {
		t.Errorf("got %d mismatches, want multiplier and payout: %v", len(report.Mismatches), report.Mismatches)
	}
	// The recomputation is reported, never written back.
	if report.Recomputed.Multiplier != res.Multiplier {
		t.Errorf("recomputed multiplier = %v, want %v", report.Recomputed.Multiplier, res.Multiplier)
	}
}

func TestUnknownGame(t *testing.T) {
	if _, err := Manual("roulette", "s", "c", 1, nil); err == nil {
		t.Error("Manual() accepted an unregistered game")
	}
}

func TestStoredBetOneShot(t *testing.T) {
	params := map[string]any{"target": 50, "direction": "over"}
	res, err := Manual("dice", "server_seed", "client_seed", 5, params)
	if err != nil {
		t.Fatalf("Manual() error: %v", err)
	}

	// Simulate a JSON round trip through the bets table.
	raw, err := json.Marshal(res.Details)
	if err != nil {
		t.Fatalf("marshal details: %v", err)
	}

	bet := store.Bet{
		ID:         "bet-1",
		GameID:     "dice",
		Amount:     100,
		ServerSeed: "server_seed",
		ClientSeed: "client_seed",
		Nonce:      5,
		GameData:   string(raw),
		Multiplier: res.Multiplier,
		Payout:     games.Payout(100, res.Multiplier),
		CreatedAt:  time.Now().UTC(),
	}

	report, err := StoredBet(bet)
	if err != nil {
		t.Fatalf("StoredBet() error: %v", err)
	}
	if !report.Valid {
		t.Errorf("stored dice bet failed verification: %v", report.Mismatches)
	}
}

func TestStoredBetInteractiveMines(t *testing.T) {
	// Interactive sessions persist state rather than one-shot details; the
	// verifier replays the reveal sequence through the pure resolver.
	positions := games.MinePositions("server_seed", "client_seed", 9, 25, 3)
	mineSet := make(map[int]bool)
	for _, pos := range positions {
		mineSet[pos] = true
	}

	var revealed []int
	for i := 0; i < 25 && len(revealed) < 2; i++ {
		if !mineSet[i] {
			revealed = append(revealed, i)
		}
	}

	multiplier := games.MinesMultiplier(25, 3, len(revealed))
	state := map[string]any{
		"rows":           5,
		"cols":           5,
		"mines":          3,
		"mine_positions": positions,
		"revealed":       revealed,
		"gems_revealed":  len(revealed),
		"multiplier":     multiplier,
		"game_ended":     true,
	}
	raw, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}

	bet := store.Bet{
		ID:         "bet-2",
		GameID:     "mines",
		Amount:     100,
		ServerSeed: "server_seed",
		ClientSeed: "client_seed",
		Nonce:      9,
		GameData:   string(raw),
		Multiplier: multiplier,
		Payout:     games.Payout(100, multiplier),
		CreatedAt:  time.Now().UTC(),
	}

	report, err := StoredBet(bet)
	if err != nil {
		t.Fatalf("StoredBet() error: %v", err)
	}
	if !report.Valid {
		t.Errorf("stored mines session failed verification: %v", report.Mismatches)
	}

	// A doctored multiplier must be flagged.
	bet.Multiplier = multiplier * 2
	bet.Payout = games.Payout(100, bet.Multiplier)
	report, err = StoredBet(bet)
	if err != nil {
		t.Fatalf("StoredBet() error: %v", err)
	}
	if report.Valid {
		t.Error("doctored mines session passed verification")
	}
}

func TestStoredBetMinesWithoutReveals(t *testing.T) {
	// A session where nothing has been revealed yet has no outcome to audit;
	// the verifier must say so instead of reporting a resolver failure.
	state := map[string]any{
		"rows":           5,
		"cols":           5,
		"mines":          3,
		"mine_positions": games.MinePositions("server_seed", "client_seed", 11, 25, 3),
		"revealed":       []int{},
		"gems_revealed":  0,
		"multiplier":     1.0,
		"game_ended":     false,
	}
	raw, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}

	bet := store.Bet{
		ID:         "bet-3",
		GameID:     "mines",
		Amount:     100,
		Status:     store.BetStatusPending,
		ServerSeed: "server_seed",
		ClientSeed: "client_seed",
		Nonce:      11,
		GameData:   string(raw),
		Multiplier: 1.0,
		CreatedAt:  time.Now().UTC(),
	}

	if _, err := StoredBet(bet); err == nil {
		t.Fatal("StoredBet() accepted a session with no reveals")
	} else if !strings.Contains(err.Error(), "no revealed tiles") {
		t.Errorf("StoredBet() error = %v, want a no-revealed-tiles explanation", err)
	}
}
