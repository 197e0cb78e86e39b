package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBestMove(t *testing.T) {
	t.Run("Takes an immediate win", func(t *testing.T) {
		// Given: X can complete the top row
		board := Board{MarkX, MarkX, "", MarkO, MarkO, "", "", "", ""}

		// When: the search picks for X
		cell := BestMove(board, MarkX)

		// Then: it completes the row
		require.Equal(t, 2, cell)
	})

	t.Run("Blocks the opponent's win", func(t *testing.T) {
		// Given: O threatens the top row, X has no win of its own
		board := Board{MarkO, MarkO, "", MarkX, "", "", MarkX, "", ""}

		// When: the search picks for X
		cell := BestMove(board, MarkX)

		// Then: it blocks cell 2
		require.Equal(t, 2, cell)
	})

	t.Run("Prefers its own win over a block", func(t *testing.T) {
		// Given: both sides threaten a row; X to move
		board := Board{
			MarkX, MarkX, "",
			MarkO, MarkO, "",
			"", "", "",
		}

		// When: the search picks for X
		cell := BestMove(board, MarkX)

		// Then: it wins instead of blocking
		require.Equal(t, 2, cell)
	})

	t.Run("Never loses a full self-play game", func(t *testing.T) {
		// Given: an empty board with the search playing both sides
		var board Board
		turn := MarkX

		// When: the game is played out move by move
		outcome := Evaluate(board)
		for outcome == nil {
			cell := BestMove(board, turn)
			require.Equal(t, EmptyCell, board[cell])

			board[cell] = turn
			turn = toggleMark(turn)
			outcome = Evaluate(board)
		}

		// Then: perfect play against itself always draws
		require.Equal(t, "Draw", outcome.Winner)
	})

	t.Run("Never loses playing second against any opponent line", func(t *testing.T) {
		// Given: the search answers as O while X tries every possible line
		var explore func(board Board, turn string)
		explore = func(board Board, turn string) {
			if outcome := Evaluate(board); outcome != nil {
				require.NotEqual(t, MarkX, outcome.Winner)
				return
			}

			if turn == MarkO {
				cell := BestMove(board, MarkO)
				board[cell] = MarkO
				explore(board, MarkX)
				return
			}

			for cell := 0; cell < Size; cell++ {
				if board[cell] != EmptyCell {
					continue
				}
				next := board
				next[cell] = MarkX
				explore(next, MarkO)
			}
		}

		// When/Then: no opponent line ever beats the search
		explore(Board{}, MarkX)
	})

	t.Run("Ties break on the lowest cell", func(t *testing.T) {
		// Given: an empty board where every opening scores equally deep
		var board Board

		// When: the search picks the first move
		cell := BestMove(board, MarkX)

		// Then: the lowest-index best cell is chosen deterministically
		second := BestMove(board, MarkX)
		require.Equal(t, cell, second)
	})
}
