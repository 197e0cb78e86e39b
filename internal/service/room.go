package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/game"
	"github.com/rikikangsc2r/minigames-backend/internal/repository"
)

// BotDeviceID is the engine's device identifier inside a room; it is
// derived from the room so every bot room gets a distinct seat holder.
func BotDeviceID(roomID string) string {
	return "bot:" + roomID
}

type RoomService interface {
	// JoinOrCreate resolves a join attempt in one atomic transaction:
	// a missing or expired room is (re)created with the joiner as X, a
	// device already seated gets its seat back unchanged, an open O seat
	// is filled, and a full room rejects with ErrRoomFull.
	JoinOrCreate(ctx context.Context, params JoinParams) (entity.Seat, *entity.Room, error)

	Leave(ctx context.Context, roomID string) error
}

type JoinParams struct {
	RoomID   string
	Kind     string
	Mode     string
	DeviceID string
	Profile  entity.PlayerProfile
}

type roomService struct {
	logger *slog.Logger

	rooms repository.RoomRepository
	games game.Registry

	ttl time.Duration
	now func() time.Time
}

func NewRoomService(logger *slog.Logger, rooms repository.RoomRepository, games game.Registry, ttl time.Duration) RoomService {
	return &roomService{
		logger: logger,

		rooms: rooms,
		games: games,

		ttl: ttl,
		now: time.Now,
	}
}

func (that *roomService) JoinOrCreate(ctx context.Context, params JoinParams) (entity.Seat, *entity.Room, error) {
	log := that.logger.With("method", "JoinOrCreate", "roomID", params.RoomID)

	adapter, err := that.games.Lookup(params.Kind)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up game kind: %w", err)
	}

	var seat entity.Seat

	room, err := that.rooms.Update(ctx, params.RoomID, func(current *entity.Room) (*entity.Room, error) {
		if current == nil || current.Expired(that.ttl, that.now()) {
			// stale rooms are recycled silently, any game in progress is discarded
			seat = entity.SeatX
			return that.freshRoom(params, adapter), nil
		}

		if held, ok := current.SeatOf(params.DeviceID); ok {
			// idempotent rejoin, nothing changes
			seat = held
			return nil, nil
		}

		if current.Players[entity.SeatO] == nil {
			seat = entity.SeatO
			current.Players[entity.SeatO] = &entity.PlayerProfile{
				DeviceID:  params.DeviceID,
				Name:      params.Profile.Name,
				AvatarURL: params.Profile.AvatarURL,
			}
			return current, nil
		}

		return nil, apperror.ErrRoomFull
	})
	if err != nil {
		return "", nil, err
	}

	log.Info("player joined room", "seat", seat)

	return seat, room, nil
}

func (that *roomService) Leave(ctx context.Context, roomID string) error {
	if err := that.rooms.Delete(ctx, roomID); err != nil {
		return fmt.Errorf("failed to remove room: %w", err)
	}

	return nil
}

func (that *roomService) freshRoom(params JoinParams, adapter game.Adapter) *entity.Room {
	creator := &entity.PlayerProfile{
		DeviceID:  params.DeviceID,
		Name:      params.Profile.Name,
		AvatarURL: params.Profile.AvatarURL,
	}

	room := entity.NewRoom(params.RoomID, params.Kind, params.Mode, creator, adapter.NewGame(), that.now())

	if room.IsWithBot() {
		room.Players[entity.SeatO] = &entity.PlayerProfile{
			DeviceID: BotDeviceID(params.RoomID),
			Name:     "Bot",
		}
	}

	return room
}
