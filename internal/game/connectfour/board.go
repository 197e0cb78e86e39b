package connectfour

import (
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/game"
)

const (
	Rows = 6
	Cols = 7

	EmptyCell = ""

	MarkX = "X"
	MarkO = "O"

	winLength = 4
)

// Board is a dense 6×7 grid; row 0 is the top, discs fill bottom-up.
type Board [Rows][Cols]string

// directions for win scanning: right, down, down-right, down-left.
var directions = [][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// Evaluate scans every run of four in all four directions, so wins are
// detected anywhere in the grid including edge-adjacent runs. Draw is
// declared when the top row is full: drops always fill the lowest empty
// cell of a column, so a full top row implies a full board.
func Evaluate(board Board) *game.Outcome {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			mark := board[row][col]
			if mark == EmptyCell {
				continue
			}

			for _, dir := range directions {
				if line, ok := runFrom(board, row, col, dir, mark); ok {
					return &game.Outcome{Winner: mark, Line: line}
				}
			}
		}
	}

	for col := 0; col < Cols; col++ {
		if board[0][col] == EmptyCell {
			return nil
		}
	}

	return &game.Outcome{Winner: entity.WinnerDraw}
}

func runFrom(board Board, row, col int, dir [2]int, mark string) ([]game.Cell, bool) {
	endRow := row + (winLength-1)*dir[0]
	endCol := col + (winLength-1)*dir[1]
	if endRow < 0 || endRow >= Rows || endCol < 0 || endCol >= Cols {
		return nil, false
	}

	line := make([]game.Cell, 0, winLength)
	for step := 0; step < winLength; step++ {
		r, c := row+step*dir[0], col+step*dir[1]
		if board[r][c] != mark {
			return nil, false
		}
		line = append(line, game.Cell{Row: r, Col: c})
	}

	return line, true
}

// DropRow returns the row a disc dropped into col lands on, or false when
// the column is full or out of range.
func DropRow(board Board, col int) (int, bool) {
	if col < 0 || col >= Cols {
		return 0, false
	}
	for row := Rows - 1; row >= 0; row-- {
		if board[row][col] == EmptyCell {
			return row, true
		}
	}
	return 0, false
}

func toggleMark(mark string) string {
	if mark == MarkX {
		return MarkO
	}
	return MarkX
}
