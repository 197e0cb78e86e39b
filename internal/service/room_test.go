package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/game"
	"github.com/rikikangsc2r/minigames-backend/internal/game/tictactoe"
	"github.com/rikikangsc2r/minigames-backend/internal/repository"
	"github.com/rikikangsc2r/minigames-backend/internal/repository/storage"
)

type fixture struct {
	store *storage.MemoryStore
	rooms repository.RoomRepository
	games game.Registry
}

func newFixture() *fixture {
	store := storage.NewMemoryStore()
	return &fixture{
		store: store,
		rooms: repository.NewRoomRepository(store),
		games: game.NewRegistry(tictactoe.NewAdapter()),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func joinParams(roomID, deviceID string) JoinParams {
	return JoinParams{
		RoomID:   roomID,
		Kind:     entity.KindTicTacToe,
		Mode:     entity.ModeOnline,
		DeviceID: deviceID,
		Profile:  entity.PlayerProfile{DeviceID: deviceID, Name: deviceID},
	}
}

func TestRoomService_JoinOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("First joiner creates the room as X", func(t *testing.T) {
		// Given: an empty store
		fx := newFixture()
		svc := NewRoomService(testLogger(), fx.rooms, fx.games, time.Hour)

		// When: a device joins a missing room
		seat, room, err := svc.JoinOrCreate(ctx, joinParams("R1", "dev-1"))

		// Then: the room exists with the joiner seated as X
		require.NoError(t, err)
		require.Equal(t, entity.SeatX, seat)
		require.Equal(t, "dev-1", room.Players[entity.SeatX].DeviceID)
		require.Nil(t, room.Players[entity.SeatO])
		require.Equal(t, entity.SeatX, room.CurrentPlayer)
		require.NotEmpty(t, room.Game)
	})

	t.Run("Second joiner fills the O seat", func(t *testing.T) {
		// Given: a room with one player
		fx := newFixture()
		svc := NewRoomService(testLogger(), fx.rooms, fx.games, time.Hour)
		_, _, err := svc.JoinOrCreate(ctx, joinParams("R1", "dev-1"))
		require.NoError(t, err)

		// When: a second device joins
		seat, room, err := svc.JoinOrCreate(ctx, joinParams("R1", "dev-2"))

		// Then: it takes O and the room is full
		require.NoError(t, err)
		require.Equal(t, entity.SeatO, seat)
		require.True(t, room.IsFull())
	})

	t.Run("Rejoin is idempotent and writes nothing", func(t *testing.T) {
		// Given: a full room
		fx := newFixture()
		svc := NewRoomService(testLogger(), fx.rooms, fx.games, time.Hour)
		_, _, err := svc.JoinOrCreate(ctx, joinParams("R1", "dev-1"))
		require.NoError(t, err)
		_, _, err = svc.JoinOrCreate(ctx, joinParams("R1", "dev-2"))
		require.NoError(t, err)
		writes := fx.store.WriteCount("room:R1")

		// When: the first device joins again
		seat, room, err := svc.JoinOrCreate(ctx, joinParams("R1", "dev-1"))

		// Then: it gets its seat back and the record is untouched
		require.NoError(t, err)
		require.Equal(t, entity.SeatX, seat)
		require.Equal(t, "dev-1", room.Players[entity.SeatX].DeviceID)
		require.Equal(t, writes, fx.store.WriteCount("room:R1"))
	})

	t.Run("Third device is rejected without a write", func(t *testing.T) {
		// Given: a full room
		fx := newFixture()
		svc := NewRoomService(testLogger(), fx.rooms, fx.games, time.Hour)
		_, _, err := svc.JoinOrCreate(ctx, joinParams("R1", "dev-1"))
		require.NoError(t, err)
		_, _, err = svc.JoinOrCreate(ctx, joinParams("R1", "dev-2"))
		require.NoError(t, err)
		writes := fx.store.WriteCount("room:R1")

		// When: a third device tries to join
		_, _, err = svc.JoinOrCreate(ctx, joinParams("R1", "dev-3"))

		// Then: the join is refused and nothing was written
		require.ErrorIs(t, err, apperror.ErrRoomFull)
		require.Equal(t, writes, fx.store.WriteCount("room:R1"))
	})

	t.Run("Expired room is recycled silently", func(t *testing.T) {
		// Given: a room past its ttl
		fx := newFixture()
		svc := NewRoomService(testLogger(), fx.rooms, fx.games, time.Hour).(*roomService)
		_, _, err := svc.JoinOrCreate(ctx, joinParams("R1", "dev-1"))
		require.NoError(t, err)

		svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		// When: a new device joins the stale room
		seat, room, err := svc.JoinOrCreate(ctx, joinParams("R1", "dev-9"))

		// Then: a fresh room replaces it with the newcomer as X
		require.NoError(t, err)
		require.Equal(t, entity.SeatX, seat)
		require.Equal(t, "dev-9", room.Players[entity.SeatX].DeviceID)
		require.Nil(t, room.Players[entity.SeatO])
	})

	t.Run("Bot mode seats the engine immediately", func(t *testing.T) {
		// Given: an empty store
		fx := newFixture()
		svc := NewRoomService(testLogger(), fx.rooms, fx.games, time.Hour)

		params := joinParams("R1", "dev-1")
		params.Mode = entity.ModeBot

		// When: a device creates a bot room
		seat, room, err := svc.JoinOrCreate(ctx, params)

		// Then: the bot already holds O and the room is full
		require.NoError(t, err)
		require.Equal(t, entity.SeatX, seat)
		require.True(t, room.IsFull())
		require.Equal(t, BotDeviceID("R1"), room.Players[entity.SeatO].DeviceID)
	})

	t.Run("Unknown game kind is refused", func(t *testing.T) {
		// Given: a registry without the requested kind
		fx := newFixture()
		svc := NewRoomService(testLogger(), fx.rooms, fx.games, time.Hour)

		params := joinParams("R1", "dev-1")
		params.Kind = "checkers"

		// When: a device asks for it
		_, _, err := svc.JoinOrCreate(ctx, params)

		// Then: the kind is unknown
		require.ErrorIs(t, err, apperror.ErrUnknownGameKind)
	})
}

func TestRoomService_Leave(t *testing.T) {
	ctx := context.Background()

	// Given: a live room
	fx := newFixture()
	svc := NewRoomService(testLogger(), fx.rooms, fx.games, time.Hour)
	_, _, err := svc.JoinOrCreate(ctx, joinParams("R1", "dev-1"))
	require.NoError(t, err)

	// When: the player leaves
	require.NoError(t, svc.Leave(ctx, "R1"))

	// Then: the room is gone
	_, err = fx.rooms.Get(ctx, "R1")
	require.ErrorIs(t, err, repository.ErrRoomNotFound)
}
