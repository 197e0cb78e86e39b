package connectfour

import (
	"math"

	"github.com/rikikangsc2r/minigames-backend/internal/entity"
)

const (
	searchDepth = 4

	winScore = 100000

	centerColumn = 3
	centerBonus  = 3

	windowFour        = 100
	windowThree       = 5
	windowTwo         = 2
	windowThreeThreat = 80
)

// searchOrder visits the columns center-out, which tightens the alpha-beta
// window early and prunes far more of the tree.
var searchOrder = [Cols]int{3, 2, 4, 1, 5, 0, 6}

// BestMove runs a depth-limited minimax with alpha-beta pruning and returns
// the chosen column. The board is passed by value; the search never touches
// the caller's copy. Callers never invoke it on a full board, so that case
// panics instead of guessing.
func BestMove(board Board, ai string) int {
	bestCol := -1
	bestScore := math.MinInt
	alpha, beta := math.MinInt, math.MaxInt

	for _, col := range searchOrder {
		row, ok := DropRow(board, col)
		if !ok {
			continue
		}

		next := board
		next[row][col] = ai
		score := search(next, ai, toggleMark(ai), 1, alpha, beta)

		if score > bestScore {
			bestScore = score
			bestCol = col
		}
		if score > alpha {
			alpha = score
		}
	}

	if bestCol < 0 {
		panic("connectfour: BestMove called on a full board")
	}

	return bestCol
}

func search(board Board, ai, turn string, depth, alpha, beta int) int {
	if outcome := Evaluate(board); outcome != nil {
		switch outcome.Winner {
		case ai:
			return winScore - depth
		case entity.WinnerDraw:
			return 0
		default:
			return -winScore + depth
		}
	}

	if depth == searchDepth {
		return heuristic(board, ai)
	}

	maximizing := turn == ai
	best := math.MinInt
	if !maximizing {
		best = math.MaxInt
	}

	for _, col := range searchOrder {
		row, ok := DropRow(board, col)
		if !ok {
			continue
		}

		next := board
		next[row][col] = turn
		score := search(next, ai, toggleMark(turn), depth+1, alpha, beta)

		if maximizing {
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if score < best {
				best = score
			}
			if best < beta {
				beta = best
			}
		}

		if alpha >= beta {
			break
		}
	}

	return best
}

// heuristic scores a non-terminal position for ai: a bonus per own disc in
// the center column plus a sliding 4-cell window score in every direction.
// The defensive weight on an opponent open three outbids any single
// offensive pattern short of a finished four.
func heuristic(board Board, ai string) int {
	score := 0

	for row := 0; row < Rows; row++ {
		if board[row][centerColumn] == ai {
			score += centerBonus
		}
	}

	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			for _, dir := range directions {
				score += scoreWindow(board, row, col, dir, ai)
			}
		}
	}

	return score
}

func scoreWindow(board Board, row, col int, dir [2]int, ai string) int {
	endRow := row + (winLength-1)*dir[0]
	endCol := col + (winLength-1)*dir[1]
	if endRow < 0 || endRow >= Rows || endCol < 0 || endCol >= Cols {
		return 0
	}

	own, foe, empty := 0, 0, 0
	for step := 0; step < winLength; step++ {
		switch board[row+step*dir[0]][col+step*dir[1]] {
		case ai:
			own++
		case EmptyCell:
			empty++
		default:
			foe++
		}
	}

	switch {
	case own == 4:
		return windowFour
	case own == 3 && empty == 1:
		return windowThree
	case own == 2 && empty == 2:
		return windowTwo
	case foe == 3 && empty == 1:
		return -windowThreeThreat
	default:
		return 0
	}
}
