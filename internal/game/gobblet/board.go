package gobblet

import (
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/game"
)

const (
	Size = 9

	// piece sizes; a larger piece gobbles a smaller one
	SizeSmall  = 1
	SizeMedium = 2
	SizeLarge  = 3
)

// Piece is one gobbler. Stacks store pieces bottom-to-top; only the top of
// a stack is visible.
type Piece struct {
	Seat entity.Seat `json:"seat"`
	Size int         `json:"size"`
}

// Board is the dense form: 9 cells, each a stack of pieces.
type Board [Size][]Piece

// winLines mirror the tic-tac-toe triples; only topmost pieces count.
var winLines = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Top returns the visible piece of a cell, or false for an empty stack.
func (that *Board) Top(cell int) (Piece, bool) {
	stack := that[cell]
	if len(stack) == 0 {
		return Piece{}, false
	}
	return stack[len(stack)-1], true
}

// Evaluate checks the 8 lines against the topmost piece of each stack,
// regardless of what is buried underneath. The game defines no draw at
// this layer. When a move uncovers a line for the opponent while
// completing one for the mover, the uncovered line wins: it was on the
// board first.
func Evaluate(board Board, mover entity.Seat) *game.Outcome {
	var moverLine *game.Outcome

	for _, line := range winLines {
		seat, ok := lineOwner(board, line)
		if !ok {
			continue
		}

		outcome := &game.Outcome{
			Winner: string(seat),
			Line:   cellsOf(line),
		}

		if seat != mover {
			return outcome
		}
		if moverLine == nil {
			moverLine = outcome
		}
	}

	return moverLine
}

func lineOwner(board Board, line [3]int) (entity.Seat, bool) {
	first, ok := board.Top(line[0])
	if !ok {
		return "", false
	}
	for _, cell := range line[1:] {
		top, ok := board.Top(cell)
		if !ok || top.Seat != first.Seat {
			return "", false
		}
	}
	return first.Seat, true
}

func cellsOf(line [3]int) []game.Cell {
	cells := make([]game.Cell, 0, len(line))
	for _, index := range line {
		cells = append(cells, game.Cell{Row: index / 3, Col: index % 3})
	}
	return cells
}
