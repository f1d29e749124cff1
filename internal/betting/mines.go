package betting

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lumenplay/faircore/internal/engine"
	"github.com/lumenplay/faircore/internal/games"
	"github.com/lumenplay/faircore/internal/ledger"
	"github.com/lumenplay/faircore/internal/store"
)

// minesState is the session state serialized into the bet's game_data. The
// mine layout is committed here at start, before the first reveal, which is
// what makes it provably independent of the player's choices.
type minesState struct {
	Rows          int     `json:"rows"`
	Cols          int     `json:"cols"`
	Mines         int     `json:"mines"`
	MinePositions []int   `json:"mine_positions"`
	Revealed      []int   `json:"revealed"`
	GemsRevealed  int     `json:"gems_revealed"`
	Multiplier    float64 `json:"multiplier"`
	GameEnded     bool    `json:"game_ended"`
}

func (st *minesState) totalCells() int { return st.Rows * st.Cols }

func (st *minesState) isMine(tile int) bool {
	for _, pos := range st.MinePositions {
		if pos == tile {
			return true
		}
	}
	return false
}

func (st *minesState) isRevealed(tile int) bool {
	for _, t := range st.Revealed {
		if t == tile {
			return true
		}
	}
	return false
}

// MinesView is the public projection of an interactive session. Mine
// positions are withheld until the game ends.
type MinesView struct {
	BetID         string          `json:"bet_id"`
	Status        store.BetStatus `json:"status"`
	Rows          int             `json:"rows"`
	Cols          int             `json:"cols"`
	Mines         int             `json:"mines"`
	Revealed      []int           `json:"revealed"`
	GemsRevealed  int             `json:"gems_revealed"`
	Multiplier    float64         `json:"multiplier"`
	Payout        int64           `json:"payout"`
	GameEnded     bool            `json:"game_ended"`
	MinePositions []int           `json:"mine_positions,omitempty"`
}

const minesGameID = "mines"

// StartMines validates the request, debits the stake and creates a PENDING
// bet whose mine layout is derived from the seeds before any reveal.
func (s *Service) StartMines(ctx context.Context, userID string, amount int64, clientSeed string, nonce uint64, rows, cols, mines int) (*MinesView, error) {
	if err := s.validateAmount(minesGameID, amount); err != nil {
		return nil, err
	}
	if rows < 2 || rows > 10 || cols < 2 || cols > 10 {
		return nil, invalidf("grid", "must be between 2x2 and 10x10, got %dx%d", rows, cols)
	}
	totalCells := rows * cols
	if mines <= 0 || mines >= totalCells {
		return nil, invalidf("mines", "must be in (0,%d), got %d", totalCells, mines)
	}

	serverSeed, err := engine.NewServerSeed()
	if err != nil {
		return nil, err
	}

	state := minesState{
		Rows:          rows,
		Cols:          cols,
		Mines:         mines,
		MinePositions: games.MinePositions(serverSeed, clientSeed, nonce, totalCells, mines),
		Revealed:      []int{},
		Multiplier:    1.0,
	}
	gameData, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal mines state: %w", err)
	}

	bet := store.Bet{
		ID:             uuid.NewString(),
		UserID:         userID,
		GameID:         minesGameID,
		Amount:         amount,
		Status:         store.BetStatusPending,
		ServerSeed:     serverSeed,
		ServerSeedHash: engine.HashServerSeed(serverSeed),
		ClientSeed:     clientSeed,
		Nonce:          nonce,
		GameData:       string(gameData),
		Multiplier:     state.Multiplier,
		CreatedAt:      time.Now().UTC(),
	}

	err = s.store.WithTx(ctx, func(tx *sql.Tx) error {
		meta := map[string]any{"bet_id": bet.ID, "game_id": minesGameID}
		if _, err := s.ledger.ApplyTx(tx, userID, -amount, ledger.TypeBet, meta); err != nil {
			return err
		}
		return s.store.InsertBet(tx, bet)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("bet_id", bet.ID).
		Str("user_id", userID).
		Int64("amount", amount).
		Int("mines", mines).
		Int("cells", totalCells).
		Msg("mines session started")

	return minesView(bet, state), nil
}

// RevealTile uncovers one tile. A mine ends the session LOST with zero
// payout; a gem bumps the running multiplier. Revealing the last safe tile
// cashes the session out automatically. The read, the check and the guarded
// write share one transaction, so two racing calls cannot both commit.
func (s *Service) RevealTile(ctx context.Context, betID string, tile int) (*MinesView, error) {
	var view *MinesView
	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		bet, state, err := s.loadSession(tx, betID)
		if err != nil {
			return err
		}

		if tile < 0 || tile >= state.totalCells() {
			return invalidf("tile", "index %d out of range [0,%d)", tile, state.totalCells())
		}
		if state.isRevealed(tile) {
			return invalidf("tile", "index %d already revealed", tile)
		}

		if state.isMine(tile) {
			state.Revealed = append(state.Revealed, tile)
			state.GameEnded = true
			state.Multiplier = 0
			return s.endSession(tx, &bet, &state, store.BetStatusLost, 0, &view)
		}

		state.Revealed = append(state.Revealed, tile)
		state.GemsRevealed++
		state.Multiplier = games.MinesMultiplier(state.totalCells(), state.Mines, state.GemsRevealed)

		// Nothing left to reveal but mines: settle as a win.
		if state.GemsRevealed == state.totalCells()-state.Mines {
			state.GameEnded = true
			payout := games.Payout(bet.Amount, state.Multiplier)
			if _, err := s.ledger.ApplyTx(tx, bet.UserID, payout, ledger.TypeWin, map[string]any{"bet_id": bet.ID}); err != nil {
				return err
			}
			return s.endSession(tx, &bet, &state, store.BetStatusWon, payout, &view)
		}

		gameData, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("marshal mines state: %w", err)
		}
		ok, err := s.store.UpdateBetGameData(tx, bet.ID, string(gameData), state.Multiplier)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBetAlreadyResolved
		}

		bet.Multiplier = state.Multiplier
		view = minesView(bet, state)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// CashOut settles a running session at the current multiplier. Valid only
// while the game is live and at least one gem has been revealed.
func (s *Service) CashOut(ctx context.Context, betID string) (*MinesView, error) {
	var view *MinesView
	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		bet, state, err := s.loadSession(tx, betID)
		if err != nil {
			return err
		}
		if state.GemsRevealed == 0 {
			return ErrNoTilesRevealed
		}

		state.GameEnded = true
		payout := games.Payout(bet.Amount, state.Multiplier)
		if _, err := s.ledger.ApplyTx(tx, bet.UserID, payout, ledger.TypeWin, map[string]any{"bet_id": bet.ID}); err != nil {
			return err
		}
		return s.endSession(tx, &bet, &state, store.BetStatusWon, payout, &view)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("bet_id", betID).
		Float64("multiplier", view.Multiplier).
		Int64("payout", view.Payout).
		Msg("mines session cashed out")

	return view, nil
}

// Mines returns the public view of a session without mutating it.
func (s *Service) Mines(ctx context.Context, betID string) (*MinesView, error) {
	bet, err := s.store.GetBet(ctx, betID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrBetNotFound
	}
	if err != nil {
		return nil, err
	}
	if bet.GameID != minesGameID {
		return nil, invalidf("bet_id", "bet %s is not a mines session", betID)
	}

	var state minesState
	if err := json.Unmarshal([]byte(bet.GameData), &state); err != nil {
		return nil, fmt.Errorf("unmarshal mines state: %w", err)
	}
	return minesView(bet, state), nil
}

func (s *Service) loadSession(tx *sql.Tx, betID string) (store.Bet, minesState, error) {
	bet, err := s.store.GetBetTx(tx, betID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Bet{}, minesState{}, ErrBetNotFound
	}
	if err != nil {
		return store.Bet{}, minesState{}, err
	}
	if bet.GameID != minesGameID {
		return store.Bet{}, minesState{}, invalidf("bet_id", "bet %s is not a mines session", betID)
	}
	if bet.Status != store.BetStatusPending {
		return store.Bet{}, minesState{}, ErrBetAlreadyResolved
	}

	var state minesState
	if err := json.Unmarshal([]byte(bet.GameData), &state); err != nil {
		return store.Bet{}, minesState{}, fmt.Errorf("unmarshal mines state: %w", err)
	}
	if state.GameEnded {
		return store.Bet{}, minesState{}, ErrBetAlreadyResolved
	}
	return bet, state, nil
}

func (s *Service) endSession(tx *sql.Tx, bet *store.Bet, state *minesState, status store.BetStatus, payout int64, view **MinesView) error {
	gameData, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal mines state: %w", err)
	}

	ok, err := s.store.ResolveBet(tx, bet.ID, status, string(gameData), state.Multiplier, payout, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return ErrBetAlreadyResolved
	}

	bet.Status = status
	bet.Multiplier = state.Multiplier
	bet.Payout = payout
	*view = minesView(*bet, *state)
	return nil
}

func minesView(bet store.Bet, state minesState) *MinesView {
	v := &MinesView{
		BetID:        bet.ID,
		Status:       bet.Status,
		Rows:         state.Rows,
		Cols:         state.Cols,
		Mines:        state.Mines,
		Revealed:     state.Revealed,
		GemsRevealed: state.GemsRevealed,
		Multiplier:   state.Multiplier,
		Payout:       bet.Payout,
		GameEnded:    state.GameEnded,
	}
	if state.GameEnded {
		v.MinePositions = state.MinePositions
	}
	return v
}
