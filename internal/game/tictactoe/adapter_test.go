package tictactoe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
)

func TestAdapter_ApplyMove(t *testing.T) {
	adapter := NewAdapter()

	t.Run("Marks an empty cell", func(t *testing.T) {
		// Given: a fresh game
		raw := adapter.NewGame()

		// When: X plays cell 4
		next, outcome, err := adapter.ApplyMove(raw, entity.SeatX, json.RawMessage(`{"cell":4}`))

		// Then: the move lands and the game continues
		require.NoError(t, err)
		require.Empty(t, outcome.Winner)
		require.False(t, outcome.KeepTurn)

		board := Reconstruct(next)
		require.Equal(t, MarkX, board[4])
	})

	t.Run("Rejects an occupied cell", func(t *testing.T) {
		// Given: X already holds cell 4
		raw, _, err := adapter.ApplyMove(adapter.NewGame(), entity.SeatX, json.RawMessage(`{"cell":4}`))
		require.NoError(t, err)

		// When: O plays the same cell
		_, _, err = adapter.ApplyMove(raw, entity.SeatO, json.RawMessage(`{"cell":4}`))

		// Then: the move is refused as occupied
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
	})

	t.Run("Rejects an out-of-range cell", func(t *testing.T) {
		// When: a cell beyond the grid is played
		_, _, err := adapter.ApplyMove(adapter.NewGame(), entity.SeatX, json.RawMessage(`{"cell":9}`))

		// Then: the move is invalid
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
	})

	t.Run("Reports the winning move", func(t *testing.T) {
		// Given: X holds cells 0 and 1
		raw := marshalDocument(Board{MarkX, MarkX, "", MarkO, MarkO, "", "", "", ""})

		// When: X completes the row
		_, outcome, err := adapter.ApplyMove(raw, entity.SeatX, json.RawMessage(`{"cell":2}`))

		// Then: the outcome names X and the row
		require.NoError(t, err)
		require.Equal(t, MarkX, outcome.Winner)
		require.Len(t, outcome.Line, 3)
	})

	t.Run("Reconstructs a sparse document totally", func(t *testing.T) {
		// Given: a sparse wire document with a stray out-of-range key
		raw := json.RawMessage(`{"board":{"0":"X","8":"O","17":"X"}}`)

		// When: the board is rebuilt
		board := Reconstruct(raw)

		// Then: in-range cells land, the stray key is dropped
		require.Equal(t, MarkX, board[0])
		require.Equal(t, MarkO, board[8])
		for cell := 1; cell < 8; cell++ {
			require.Equal(t, EmptyCell, board[cell])
		}
	})
}
