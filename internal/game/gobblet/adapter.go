package gobblet

import (
	"encoding/json"
	"fmt"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/game"
	"github.com/rikikangsc2r/minigames-backend/internal/wire"
)

// FromReserve marks a placement from the player's reserve rather than a
// relocation from another cell.
const FromReserve = -1

// document is the wire form of the game field. Cells travel as a sparse
// index-keyed map of stacks; reserves hold the piece sizes each seat has
// not yet placed.
type document struct {
	Cells    map[string][]Piece    `json:"cells,omitempty"`
	Reserves map[entity.Seat][]int `json:"reserves,omitempty"`
}

// Move either places a reserve piece of Size onto To (From == FromReserve)
// or relocates the topmost own piece from one cell to another.
type Move struct {
	From int `json:"from"`
	To   int `json:"to"`
	Size int `json:"size,omitempty"`
}

// State is the dense form the rules operate on.
type State struct {
	Board    Board
	Reserves map[entity.Seat][]int
}

type Adapter struct{}

func NewAdapter() *Adapter {
	return &Adapter{}
}

func (that *Adapter) Kind() string {
	return entity.KindGobblet
}

func (that *Adapter) NewGame() json.RawMessage {
	return marshalDocument(State{
		Reserves: map[entity.Seat][]int{
			entity.SeatX: freshReserve(),
			entity.SeatO: freshReserve(),
		},
	})
}

func (that *Adapter) RematchGame(_ json.RawMessage) json.RawMessage {
	return that.NewGame()
}

func (that *Adapter) ApplyMove(raw json.RawMessage, seat entity.Seat, move json.RawMessage) (json.RawMessage, game.Outcome, error) {
	state := Reconstruct(raw)

	var turn Move
	if err := json.Unmarshal(move, &turn); err != nil {
		return nil, game.Outcome{}, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	if err := apply(&state, seat, turn); err != nil {
		return nil, game.Outcome{}, err
	}

	if outcome := Evaluate(state.Board, seat); outcome != nil {
		return marshalDocument(state), *outcome, nil
	}

	return marshalDocument(state), game.Outcome{}, nil
}

func apply(state *State, seat entity.Seat, turn Move) error {
	if turn.To < 0 || turn.To >= Size {
		return fmt.Errorf("%w: target cell %d", apperror.ErrInvalidMove, turn.To)
	}

	var piece Piece
	switch {
	case turn.From == FromReserve:
		if !takeFromReserve(state, seat, turn.Size) {
			return fmt.Errorf("%w: no size-%d piece in reserve", apperror.ErrInvalidMove, turn.Size)
		}
		piece = Piece{Seat: seat, Size: turn.Size}

	case turn.From >= 0 && turn.From < Size:
		if turn.From == turn.To {
			return fmt.Errorf("%w: moving a piece onto itself", apperror.ErrInvalidMove)
		}
		top, ok := state.Board.Top(turn.From)
		if !ok || top.Seat != seat {
			return fmt.Errorf("%w: cell %d has no piece of yours on top", apperror.ErrInvalidMove, turn.From)
		}
		piece = top

	default:
		return fmt.Errorf("%w: source cell %d", apperror.ErrInvalidMove, turn.From)
	}

	if top, ok := state.Board.Top(turn.To); ok && top.Size >= piece.Size {
		return fmt.Errorf("%w: cell %d holds an equal or larger piece", apperror.ErrCellOccupied, turn.To)
	}

	if turn.From != FromReserve {
		stack := state.Board[turn.From]
		state.Board[turn.From] = stack[:len(stack)-1]
	}
	state.Board[turn.To] = append(state.Board[turn.To], piece)

	return nil
}

func takeFromReserve(state *State, seat entity.Seat, size int) bool {
	reserve := state.Reserves[seat]
	for index, held := range reserve {
		if held == size {
			state.Reserves[seat] = append(reserve[:index:index], reserve[index+1:]...)
			return true
		}
	}
	return false
}

// Reconstruct densifies the wire form. It is total: missing or partial
// input yields empty cells and, when reserves are absent entirely, the
// full starting reserve for both seats.
func Reconstruct(raw json.RawMessage) State {
	var doc document
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &doc)
	}

	state := State{Reserves: doc.Reserves}
	copy(state.Board[:], wire.DensifyVector(doc.Cells, Size))

	if state.Reserves == nil {
		state.Reserves = map[entity.Seat][]int{
			entity.SeatX: freshReserve(),
			entity.SeatO: freshReserve(),
		}
	}
	for _, seat := range []entity.Seat{entity.SeatX, entity.SeatO} {
		if state.Reserves[seat] == nil {
			state.Reserves[seat] = []int{}
		}
	}

	return state
}

// two pieces of each size per side
func freshReserve() []int {
	return []int{SizeSmall, SizeSmall, SizeMedium, SizeMedium, SizeLarge, SizeLarge}
}

func marshalDocument(state State) json.RawMessage {
	doc := document{
		Cells:    wire.SparsifyVector(state.Board[:], func(stack []Piece) bool { return len(stack) > 0 }),
		Reserves: state.Reserves,
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}

	return raw
}
