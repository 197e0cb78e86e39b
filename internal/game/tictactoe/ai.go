package tictactoe

import (
	"math"

	"github.com/rikikangsc2r/minigames-backend/internal/entity"
)

// BestMove runs a full-depth minimax for the given mark and returns the
// chosen cell index. Wins are scored 10−depth and losses depth−10, so the
// search prefers the fastest win and the slowest loss; ties break on the
// lowest cell index. Callers never invoke it on a full board, so that case
// panics instead of guessing.
func BestMove(board Board, ai string) int {
	bestCell := -1
	bestScore := math.MinInt

	for cell := 0; cell < Size; cell++ {
		if board[cell] != EmptyCell {
			continue
		}

		board[cell] = ai
		score := minimax(board, ai, toggleMark(ai), 1)
		board[cell] = EmptyCell

		if score > bestScore {
			bestScore = score
			bestCell = cell
		}
	}

	if bestCell < 0 {
		panic("tictactoe: BestMove called on a full board")
	}

	return bestCell
}

func minimax(board Board, ai, turn string, depth int) int {
	if outcome := Evaluate(board); outcome != nil {
		switch outcome.Winner {
		case ai:
			return 10 - depth
		case entity.WinnerDraw:
			return 0
		default:
			return depth - 10
		}
	}

	best := math.MinInt
	if turn != ai {
		best = math.MaxInt
	}

	for cell := 0; cell < Size; cell++ {
		if board[cell] != EmptyCell {
			continue
		}

		board[cell] = turn
		score := minimax(board, ai, toggleMark(turn), depth+1)
		board[cell] = EmptyCell

		if turn == ai && score > best {
			best = score
		}
		if turn != ai && score < best {
			best = score
		}
	}

	return best
}
