package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rikikangsc2r/minigames-backend/internal/game"
	"github.com/rikikangsc2r/minigames-backend/internal/repository"
)

var ErrBotCannotPlay = errors.New("game kind has no engine player")

// BotService plays the engine's seat in bot rooms. The search runs after a
// fixed think delay off the interaction path, and a per-room in-flight
// guard keeps rapid snapshots from firing two concurrent searches. Before
// writing, the move is validated against a fresh snapshot, so a stale
// schedule degrades into a no-op.
type BotService interface {
	// Schedule fires the bot's reply for the room after the think delay.
	// Calls while a reply is pending or running are no-ops.
	Schedule(ctx context.Context, roomID string)
}

type botService struct {
	logger *slog.Logger

	rooms   repository.RoomRepository
	games   game.Registry
	session SessionService

	thinkDelay time.Duration

	guards sync.Map // roomID -> *atomic.Bool
}

func NewBotService(logger *slog.Logger, rooms repository.RoomRepository, games game.Registry, session SessionService, thinkDelay time.Duration) BotService {
	return &botService{
		logger: logger,

		rooms:   rooms,
		games:   games,
		session: session,

		thinkDelay: thinkDelay,
	}
}

func (that *botService) Schedule(ctx context.Context, roomID string) {
	guard := that.guard(roomID)
	if !guard.CompareAndSwap(false, true) {
		return
	}

	go func() {
		defer guard.Store(false)

		select {
		case <-ctx.Done():
			return
		case <-time.After(that.thinkDelay):
		}

		if err := that.play(ctx, roomID); err != nil {
			that.logger.Error("bot failed to play", "roomID", roomID, "error", err)
		}
	}()
}

func (that *botService) play(ctx context.Context, roomID string) error {
	room, err := that.rooms.Get(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	seat, ok := room.SeatOf(BotDeviceID(roomID))
	if !ok || !room.IsWithBot() {
		return nil
	}

	// the schedule may be stale by now; the snapshot decides
	if room.IsFinished() || room.CurrentPlayer != seat {
		return nil
	}

	adapter, err := that.games.Lookup(room.Kind)
	if err != nil {
		return fmt.Errorf("failed to look up game kind: %w", err)
	}

	picker, ok := adapter.(game.MovePicker)
	if !ok {
		return fmt.Errorf("%w: %s", ErrBotCannotPlay, room.Kind)
	}

	move, err := picker.PickMove(ctx, room.Game, seat)
	if err != nil {
		return fmt.Errorf("failed to pick move: %w", err)
	}

	if _, err = that.session.ApplyMove(ctx, roomID, BotDeviceID(roomID), move); err != nil {
		return fmt.Errorf("failed to apply move: %w", err)
	}

	return nil
}

func (that *botService) guard(roomID string) *atomic.Bool {
	value, _ := that.guards.LoadOrStore(roomID, &atomic.Bool{})
	return value.(*atomic.Bool)
}
