package connectfour

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/game"
	"github.com/rikikangsc2r/minigames-backend/internal/wire"
)

// document is the wire form of the game field; the grid travels as a
// sparse row-then-column keyed map.
type document struct {
	Board map[string]map[string]string `json:"board,omitempty"`
}

// Move is the payload of a connect-four turn; the disc lands on the lowest
// empty cell of the column.
type Move struct {
	Column int `json:"column"`
}

type Adapter struct{}

func NewAdapter() *Adapter {
	return &Adapter{}
}

func (that *Adapter) Kind() string {
	return entity.KindConnectFour
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

	if turn.Column < 0 || turn.Column >= Cols {
		return nil, game.Outcome{}, fmt.Errorf("%w: column %d", apperror.ErrInvalidMove, turn.Column)
	}

	row, ok := DropRow(board, turn.Column)
	if !ok {
		return nil, game.Outcome{}, fmt.Errorf("%w: column %d", apperror.ErrCellOccupied, turn.Column)
	}

	board[row][turn.Column] = string(seat)

	if outcome := Evaluate(board); outcome != nil {
		return marshalDocument(board), *outcome, nil
	}

	return marshalDocument(board), game.Outcome{}, nil
}

// PickMove lets the engine play one side; it delegates to the alpha-beta search.
func (that *Adapter) PickMove(_ context.Context, raw json.RawMessage, seat entity.Seat) (json.RawMessage, error) {
	board := Reconstruct(raw)

	col := BestMove(board, string(seat))

	payload, err := json.Marshal(Move{Column: col})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal move: %w", err)
	}

	return payload, nil
}

// Reconstruct densifies the wire form back into the fixed 6×7 grid. It is
// total: missing or partial input yields an empty grid.
func Reconstruct(raw json.RawMessage) Board {
	var doc document
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &doc)
	}

	var board Board
	for row, line := range wire.DensifyGrid(doc.Board, Rows, Cols) {
		copy(board[row][:], line)
	}
	return board
}

func marshalDocument(board Board) json.RawMessage {
	dense := make([][]string, Rows)
	for row := range dense {
		dense[row] = board[row][:]
	}

	doc := document{
		Board: wire.SparsifyGrid(dense, func(cell string) bool { return cell != EmptyCell }),
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}

	return raw
}
