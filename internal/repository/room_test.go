package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/testing/suite"
)

func TestRoomRepository_Update(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.RecordStore())

	// Given: no room yet
	// When: an update seats the creator
	room, err := roomRepo.Update(ctx, "R1", func(current *entity.Room) (*entity.Room, error) {
		require.Nil(t, current)
		return entity.NewRoom("R1", entity.KindTicTacToe, entity.ModeOnline,
			&entity.PlayerProfile{DeviceID: "dev-1", Name: "Ann"}, nil, time.Now()), nil
	})

	// Then: the room is stored and reconstructed
	require.NoError(t, err)
	require.Equal(t, "R1", room.ID)
	require.Equal(t, "dev-1", room.Players[entity.SeatX].DeviceID)

	// When: a later update sees the stored state
	room, err = roomRepo.Update(ctx, "R1", func(current *entity.Room) (*entity.Room, error) {
		require.NotNil(t, current)
		current.Players[entity.SeatO] = &entity.PlayerProfile{DeviceID: "dev-2", Name: "Ben"}
		return current, nil
	})

	// Then: both seats persist
	require.NoError(t, err)
	require.True(t, room.IsFull())
}

func TestRoomRepository_GetAndPatch(t *testing.T) {
	t.Run("Get_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		roomRepo := NewRoomRepository(st.RecordStore())

		// When: a missing room is fetched
		_, err := roomRepo.Get(ctx, "absent")

		// Then: the typed error comes back
		require.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("Patch_MergesFields", func(t *testing.T) {
		ctx, st := suite.New(t)

		roomRepo := NewRoomRepository(st.RecordStore())

		// Given: a stored room
		_, err := roomRepo.Update(ctx, "R1", func(*entity.Room) (*entity.Room, error) {
			return entity.NewRoom("R1", entity.KindTicTacToe, entity.ModeOnline,
				&entity.PlayerProfile{DeviceID: "dev-1", Name: "Ann"}, nil, time.Now()), nil
		})
		require.NoError(t, err)

		// When: only the winner field is patched
		room, err := roomRepo.Patch(ctx, "R1", entity.Patch{
			entity.FieldWinner: string(entity.SeatX),
		})

		// Then: the winner lands and the untouched fields survive
		require.NoError(t, err)
		require.Equal(t, string(entity.SeatX), room.Winner)
		require.Equal(t, "dev-1", room.Players[entity.SeatX].DeviceID)
	})

	t.Run("Patch_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		roomRepo := NewRoomRepository(st.RecordStore())

		// When: a missing room is patched
		_, err := roomRepo.Patch(ctx, "absent", entity.Patch{
			entity.FieldWinner: string(entity.SeatX),
		})

		// Then: the typed error comes back
		require.ErrorIs(t, err, ErrRoomNotFound)
	})
}

func TestRoomRepository_Subscribe(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.RecordStore())

	// Given: a subscription on the room key
	snapshots, err := roomRepo.Subscribe(ctx, "R1")
	require.NoError(t, err)

	receive := func() *entity.Room {
		select {
		case room := <-snapshots:
			return room
		case <-time.After(10 * time.Second):
			t.Fatal("timed out waiting for a snapshot")
			return nil
		}
	}

	// When: the room is created
	_, err = roomRepo.Update(ctx, "R1", func(*entity.Room) (*entity.Room, error) {
		return entity.NewRoom("R1", entity.KindTicTacToe, entity.ModeOnline,
			&entity.PlayerProfile{DeviceID: "dev-1", Name: "Ann"}, nil, time.Now()), nil
	})
	require.NoError(t, err)

	// Then: the snapshot arrives
	room := receive()
	require.NotNil(t, room)
	require.Equal(t, "R1", room.ID)

	// When: the winner is patched
	_, err = roomRepo.Patch(ctx, "R1", entity.Patch{entity.FieldWinner: string(entity.SeatX)})
	require.NoError(t, err)

	// Then: the full updated record is pushed
	room = receive()
	require.NotNil(t, room)
	require.Equal(t, string(entity.SeatX), room.Winner)
	require.Equal(t, "dev-1", room.Players[entity.SeatX].DeviceID)

	// When: the room is deleted
	require.NoError(t, roomRepo.Delete(ctx, "R1"))

	// Then: a nil room signals the vanish
	require.Nil(t, receive())
}
