package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/game"
	"github.com/rikikangsc2r/minigames-backend/internal/repository"
)

// RematchService handles the two-phase next-game negotiation: each seat
// raises its ready flag, and once both are up the observer seated as the
// current starting player performs the reset.
type RematchService interface {
	SetReady(ctx context.Context, roomID, deviceID string) (*entity.Room, error)

	// Reset swaps the seats, flips the starting player, clears the winner
	// and both flags, and applies the game kind's rematch fields. It
	// re-checks BothReady inside the transaction, so a duplicate call
	// after the reset landed commits nothing.
	Reset(ctx context.Context, roomID string) (*entity.Room, error)
}

// Coordinator watches the snapshot stream for one seat and detects the
// edge into the both-ready condition. Detecting the edge rather than the
// level keeps the reset from re-firing on every later snapshot while the
// flags are still up; restricting it to the starting player's observer
// keeps the two sides from double-resetting.
type Coordinator struct {
	seat     entity.Seat
	bothSeen bool
}

func NewCoordinator(seat entity.Seat) *Coordinator {
	return &Coordinator{seat: seat}
}

// Observe feeds the next snapshot in; it reports whether this observer
// must perform the reset now.
func (that *Coordinator) Observe(room *entity.Room) bool {
	both := room.BothReady()
	edge := both && !that.bothSeen
	that.bothSeen = both

	// a bot room has only one human observer, so it always leads
	return edge && (room.StartingPlayer == that.seat || room.IsWithBot())
}

type rematchService struct {
	logger *slog.Logger

	rooms repository.RoomRepository
	games game.Registry
}

func NewRematchService(logger *slog.Logger, rooms repository.RoomRepository, games game.Registry) RematchService {
	return &rematchService{
		logger: logger,

		rooms: rooms,
		games: games,
	}
}

func (that *rematchService) SetReady(ctx context.Context, roomID, deviceID string) (*entity.Room, error) {
	// the flag is raised inside the transaction: two players pressing
	// "play again" at once must both land, a snapshot-based patch would
	// let the second writer clobber the first
	room, err := that.rooms.Update(ctx, roomID, func(current *entity.Room) (*entity.Room, error) {
		if current == nil {
			return nil, apperror.ErrRoomVanished
		}

		seat, ok := current.SeatOf(deviceID)
		if !ok {
			return nil, apperror.ErrNotYourTurn
		}

		if !current.IsFinished() {
			return nil, apperror.ErrGameIsNotStarted
		}

		current.Rematch[seat] = true
		if current.IsWithBot() {
			// the bot is always willing
			current.Rematch[seat.Opponent()] = true
		}

		return current, nil
	})
	if err != nil {
		return nil, err
	}

	return room, nil
}

func (that *rematchService) Reset(ctx context.Context, roomID string) (*entity.Room, error) {
	log := that.logger.With("method", "Reset", "roomID", roomID)

	room, err := that.rooms.Update(ctx, roomID, func(current *entity.Room) (*entity.Room, error) {
		if current == nil {
			return nil, apperror.ErrRoomVanished
		}
		if !current.BothReady() {
			// someone else already reset, or a flag went away
			return nil, nil
		}

		adapter, err := that.games.Lookup(current.Kind)
		if err != nil {
			return nil, fmt.Errorf("failed to look up game kind: %w", err)
		}

		// swapping the profiles makes the previous non-starter move first;
		// the starting-player label flips so the other seat leads the next
		// reset
		current.Players[entity.SeatX], current.Players[entity.SeatO] = current.Players[entity.SeatO], current.Players[entity.SeatX]
		current.StartingPlayer = current.StartingPlayer.Opponent()
		current.CurrentPlayer = entity.SeatX
		current.Winner = ""
		current.Rematch = map[entity.Seat]bool{entity.SeatX: false, entity.SeatO: false}
		current.Game = adapter.RematchGame(current.Game)

		return current, nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("rematch reset applied")

	return room, nil
}
