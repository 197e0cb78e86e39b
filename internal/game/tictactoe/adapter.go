package tictactoe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/game"
	"github.com/rikikangsc2r/minigames-backend/internal/wire"
)

// document is the wire form of the game field: the board travels as a
// sparse index-keyed map because the transport drops empty slots.
type document struct {
	Board map[string]string `json:"board,omitempty"`
}

// Move is the payload of a tic-tac-toe turn.
type Move struct {
	Cell int `json:"cell"`
}

type Adapter struct{}

func NewAdapter() *Adapter {
	return &Adapter{}
}

func (that *Adapter) Kind() string {
	return entity.KindTicTacToe
}

func (that *Adapter) NewGame() json.RawMessage {
	return marshalDocument(Board{})
}

func (that *Adapter) RematchGame(_ json.RawMessage) json.RawMessage {
	return that.NewGame()
}

func (that *Adapter) ApplyMove(raw json.RawMessage, seat entity.Seat, move json.RawMessage) (json.RawMessage, game.Outcome, error) {
	board := Reconstruct(raw)

	var turn Move
	if err := json.Unmarshal(move, &turn); err != nil {
		return nil, game.Outcome{}, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	if turn.Cell < 0 || turn.Cell >= Size {
		return nil, game.Outcome{}, fmt.Errorf("%w: cell %d", apperror.ErrInvalidMove, turn.Cell)
	}
	if board[turn.Cell] != EmptyCell {
		return nil, game.Outcome{}, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, turn.Cell)
	}

	board[turn.Cell] = string(seat)

	if outcome := Evaluate(board); outcome != nil {
		return marshalDocument(board), *outcome, nil
	}

	return marshalDocument(board), game.Outcome{}, nil
}

// PickMove lets the engine play one side; it delegates to the minimax search.
func (that *Adapter) PickMove(_ context.Context, raw json.RawMessage, seat entity.Seat) (json.RawMessage, error) {
	board := Reconstruct(raw)

	cell := BestMove(board, string(seat))

	payload, err := json.Marshal(Move{Cell: cell})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal move: %w", err)
	}

	return payload, nil
}

// Reconstruct densifies the wire form back into a fixed-size board. It is
// total: missing or partial input yields an empty board.
func Reconstruct(raw json.RawMessage) Board {
	var doc document
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &doc)
	}

	var board Board
	copy(board[:], wire.DensifyVector(doc.Board, Size))
	return board
}

func marshalDocument(board Board) json.RawMessage {
	doc := document{
		Board: wire.SparsifyVector(board[:], func(cell string) bool { return cell != EmptyCell }),
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		// a map of strings always marshals
		panic(err)
	}

	return raw
}
