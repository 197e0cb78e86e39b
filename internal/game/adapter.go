// Package game defines the capability set every game kind implements once,
// so the join/move/rematch machinery can be written generically and never
// against a concrete game's fields.
package game

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
)

// Cell addresses one board position in a terminal result.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Outcome is what applying a move produced beyond the new game document.
// Winner is empty while the game continues; KeepTurn leaves the turn with
// the mover (used by moves that are not plays, e.g. publishing a puzzle).
type Outcome struct {
	Winner   string
	Line     []Cell
	KeepTurn bool
}

// Adapter is implemented once per game kind.
type Adapter interface {
	Kind() string

	// NewGame returns the wire form of a fresh game document.
	NewGame() json.RawMessage

	// RematchGame returns the wire form the game document resets to when a
	// rematch begins. Most kinds start over; kinds that carry running
	// scores keep them from prev.
	RematchGame(prev json.RawMessage) json.RawMessage

	// ApplyMove reconstructs the dense state from raw (totally, tolerating
	// missing or partial data), validates and applies the move for seat,
	// and returns the new wire form. Turn ownership and the finished-game
	// check are the caller's concern; occupancy and shape are the
	// adapter's.
	ApplyMove(raw json.RawMessage, seat entity.Seat, move json.RawMessage) (json.RawMessage, Outcome, error)
}

// MovePicker is implemented by kinds that can play one side themselves.
type MovePicker interface {
	PickMove(ctx context.Context, raw json.RawMessage, seat entity.Seat) (json.RawMessage, error)
}

type Registry map[string]Adapter

func NewRegistry(adapters ...Adapter) Registry {
	registry := make(Registry, len(adapters))
	for _, adapter := range adapters {
		registry[adapter.Kind()] = adapter
	}
	return registry
}

func (that Registry) Lookup(kind string) (Adapter, error) {
	adapter, ok := that[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownGameKind, kind)
	}
	return adapter, nil
}
