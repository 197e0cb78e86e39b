package chess

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
)

func coordMove(t *testing.T, from, to string) json.RawMessage {
	t.Helper()

	payload, err := json.Marshal(Move{From: from, To: to})
	require.NoError(t, err)
	return payload
}

func TestAdapter_ApplyMove(t *testing.T) {
	adapter := NewAdapter(nil)

	t.Run("Legal opening move advances the position", func(t *testing.T) {
		// Given: a fresh game
		raw := adapter.NewGame()

		// When: white plays e2e4
		next, outcome, err := adapter.ApplyMove(raw, entity.SeatX, coordMove(t, "e2", "e4"))

		// Then: the position and history advance, the game continues
		require.NoError(t, err)
		require.Empty(t, outcome.Winner)

		doc := reconstruct(next)
		require.Equal(t, []string{"e2e4"}, doc.Moves)
		require.Contains(t, doc.FEN, " b ")
	})

	t.Run("Illegal move is refused", func(t *testing.T) {
		// When: white tries to jump a pawn three squares
		_, _, err := adapter.ApplyMove(adapter.NewGame(), entity.SeatX, coordMove(t, "e2", "e5"))

		// Then: the move is invalid
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
	})

	t.Run("Capture is recorded for the mover", func(t *testing.T) {
		// Given: a scholar's-mate-style sequence up to a capture
		raw := adapter.NewGame()
		var err error
		for _, move := range [][2]string{{"e2", "e4"}, {"d7", "d5"}} {
			raw, _, err = adapter.ApplyMove(raw, entity.SeatX, coordMove(t, move[0], move[1]))
			require.NoError(t, err)
		}

		// When: white takes the d5 pawn
		next, _, err := adapter.ApplyMove(raw, entity.SeatX, coordMove(t, "e4", "d5"))

		// Then: a pawn lands in white's captured list
		require.NoError(t, err)
		doc := reconstruct(next)
		require.Equal(t, []string{"p"}, doc.Captured[entity.SeatX])
	})

	t.Run("Checkmate names the winner", func(t *testing.T) {
		// Given: the fool's mate sequence
		raw := adapter.NewGame()
		var err error
		for _, move := range [][2]string{{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}} {
			raw, _, err = adapter.ApplyMove(raw, entity.SeatX, coordMove(t, move[0], move[1]))
			require.NoError(t, err)
		}

		// When: black delivers mate with the queen
		_, outcome, err := adapter.ApplyMove(raw, entity.SeatO, coordMove(t, "d8", "h4"))

		// Then: black wins
		require.NoError(t, err)
		require.Equal(t, string(entity.SeatO), outcome.Winner)
	})

	t.Run("Promotion requires the piece letter", func(t *testing.T) {
		// Given: a position with a white pawn one step from promotion
		raw := marshalDocument(document{FEN: "8/P6k/8/8/8/8/8/K7 w - - 0 1"})

		// When: the pawn advances without naming a piece
		_, _, err := adapter.ApplyMove(raw, entity.SeatX, coordMove(t, "a7", "a8"))

		// Then: the bare move is invalid
		require.ErrorIs(t, err, apperror.ErrInvalidMove)

		// When: the pawn advances naming the queen
		payload, merr := json.Marshal(Move{From: "a7", To: "a8", Promotion: "q"})
		require.NoError(t, merr)
		next, _, err := adapter.ApplyMove(raw, entity.SeatX, payload)

		// Then: the promotion is played
		require.NoError(t, err)
		doc := reconstruct(next)
		require.Equal(t, []string{"a7a8q"}, doc.Moves)
	})

	t.Run("Bot play without an engine reports unavailability", func(t *testing.T) {
		// When: a move suggestion is requested with no engine wired
		_, err := adapter.PickMove(context.Background(), adapter.NewGame(), entity.SeatX)

		// Then: the caller learns the engine is missing
		require.ErrorIs(t, err, ErrEngineUnavailable)
	})
}

func TestParseBestMove(t *testing.T) {
	t.Run("Bare coordinate move", func(t *testing.T) {
		require.Equal(t, "e2e4", parseBestMove("e2e4"))
	})

	t.Run("Verbose engine line", func(t *testing.T) {
		require.Equal(t, "e2e4", parseBestMove("bestmove e2e4 ponder d7d5"))
	})

	t.Run("Garbage yields nothing", func(t *testing.T) {
		require.Empty(t, parseBestMove("no idea what this is"))
	})
}
