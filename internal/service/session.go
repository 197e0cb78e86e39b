package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/game"
	"github.com/rikikangsc2r/minigames-backend/internal/repository"
)

// SessionService applies the move protocol: preconditions first (a failed
// precondition writes nothing), then the game adapter, then a partial
// patch carrying only the fields the move changed. Every participant
// re-derives its view from the next pushed snapshot, never from a local
// guess.
type SessionService interface {
	ApplyMove(ctx context.Context, roomID, deviceID string, move json.RawMessage) (*entity.Room, error)
}

type sessionService struct {
	logger *slog.Logger

	rooms repository.RoomRepository
	games game.Registry
}

func NewSessionService(logger *slog.Logger, rooms repository.RoomRepository, games game.Registry) SessionService {
	return &sessionService{
		logger: logger,

		rooms: rooms,
		games: games,
	}
}

func (that *sessionService) ApplyMove(ctx context.Context, roomID, deviceID string, move json.RawMessage) (*entity.Room, error) {
	room, err := that.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	seat, ok := room.SeatOf(deviceID)
	if !ok {
		return nil, apperror.ErrNotYourTurn
	}

	if err = confirmPlayable(room, seat); err != nil {
		return nil, err
	}

	adapter, err := that.games.Lookup(room.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to look up game kind: %w", err)
	}

	next, outcome, err := adapter.ApplyMove(room.Game, seat, move)
	if err != nil {
		return nil, fmt.Errorf("failed to apply move: %w", err)
	}

	patch := entity.Patch{
		entity.FieldGame: json.RawMessage(next),
	}
	if !outcome.KeepTurn {
		patch[entity.FieldCurrentPlayer] = seat.Opponent()
	}
	if outcome.Winner != "" {
		patch[entity.FieldWinner] = outcome.Winner
	}

	updated, err := that.rooms.Patch(ctx, roomID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to patch room: %w", err)
	}

	return updated, nil
}

// confirmPlayable checks the move preconditions against the canonical
// snapshot. None of these touch the record.
func confirmPlayable(room *entity.Room, seat entity.Seat) error {
	if room.IsFinished() {
		return apperror.ErrGameFinished
	}
	if !room.IsFull() {
		return apperror.ErrGameIsNotStarted
	}
	if room.CurrentPlayer != seat {
		return apperror.ErrNotYourTurn
	}

	return nil
}
