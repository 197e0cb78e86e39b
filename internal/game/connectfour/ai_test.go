package connectfour

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBestMove(t *testing.T) {
	t.Run("Takes an immediate win", func(t *testing.T) {
		// Given: X has three discs in a row on the bottom
		var board Board
		board[Rows-1][1] = MarkX
		board[Rows-1][2] = MarkX
		board[Rows-1][3] = MarkX
		board[Rows-2][1] = MarkO
		board[Rows-2][2] = MarkO

		// When: the search picks for X
		col := BestMove(board, MarkX)

		// Then: it completes the four on either open end
		require.Contains(t, []int{0, 4}, col)
	})

	t.Run("Blocks an immediate loss", func(t *testing.T) {
		// Given: O threatens a vertical four in column 5
		var board Board
		board[Rows-1][5] = MarkO
		board[Rows-2][5] = MarkO
		board[Rows-3][5] = MarkO
		board[Rows-1][0] = MarkX
		board[Rows-1][1] = MarkX

		// When: the search picks for X
		col := BestMove(board, MarkX)

		// Then: it caps the column
		require.Equal(t, 5, col)
	})

	t.Run("Opens in the center", func(t *testing.T) {
		// Given: an empty grid
		var board Board

		// When: the search picks the first move
		col := BestMove(board, MarkX)

		// Then: the center column scores highest
		require.Equal(t, 3, col)
	})

	t.Run("Skips full columns", func(t *testing.T) {
		// Given: the center column is full
		var board Board
		for row := 0; row < Rows; row++ {
			board[row][3] = []string{MarkX, MarkO}[row%2]
		}

		// When: the search picks for X
		col := BestMove(board, MarkX)

		// Then: a playable column is returned
		_, ok := DropRow(board, col)
		require.True(t, ok)
	})
}
