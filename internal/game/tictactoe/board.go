package tictactoe

import (
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/game"
)

const (
	Size      = 9
	EmptyCell = ""

	MarkX = "X"
	MarkO = "O"
)

// Board is a dense 3×3 grid in row-major order. Array value semantics keep
// the search code free of explicit copies.
type Board [Size]string

// WinLines are the 8 uniform triples of a 3×3 grid.
var WinLines = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Evaluate scans the board for a terminal state. It returns the winning
// mark with its line, a draw when all 9 cells are filled, or nil while the
// game continues. It never mutates the board.
func Evaluate(board Board) *game.Outcome {
	for _, line := range WinLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != EmptyCell && a == b && b == c {
			return &game.Outcome{
				Winner: a,
				Line:   cellsOf(line),
			}
		}
	}

	for _, cell := range board {
		if cell == EmptyCell {
			return nil
		}
	}

	return &game.Outcome{Winner: entity.WinnerDraw}
}

func cellsOf(line [3]int) []game.Cell {
	cells := make([]game.Cell, 0, len(line))
	for _, index := range line {
		cells = append(cells, game.Cell{Row: index / 3, Col: index % 3})
	}
	return cells
}

func toggleMark(mark string) string {
	if mark == MarkX {
		return MarkO
	}
	return MarkX
}
