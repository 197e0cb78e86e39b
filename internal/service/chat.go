package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/pkg"
	"github.com/rikikangsc2r/minigames-backend/internal/repository"
)

// ChatService appends to the room's bounded chat log. The whole truncated
// log is written back in one field patch; two truly simultaneous sends can
// drop one message under last-write-wins, which is an accepted limitation
// of the record's merge semantics.
type ChatService interface {
	Send(ctx context.Context, roomID, deviceID, messageType, content string) (*entity.Room, error)
}

type chatService struct {
	rooms repository.RoomRepository
	now   func() time.Time
}

func NewChatService(rooms repository.RoomRepository) ChatService {
	return &chatService{
		rooms: rooms,
		now:   time.Now,
	}
}

func (that *chatService) Send(ctx context.Context, roomID, deviceID, messageType, content string) (*entity.Room, error) {
	room, err := that.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	seat, ok := room.SeatOf(deviceID)
	if !ok {
		return nil, apperror.ErrNotYourTurn
	}

	log := append(room.ChatMessages, entity.ChatMessage{
		ID:        pkg.GenerateMessageID(),
		Sender:    seat,
		Type:      messageType,
		Content:   content,
		Timestamp: that.now().UnixMilli(),
	})

	// keep the newest entries, evict from the front
	if len(log) > entity.MaxChatMessages {
		log = log[len(log)-entity.MaxChatMessages:]
	}

	updated, err := that.rooms.Patch(ctx, roomID, entity.Patch{
		entity.FieldChatMessages: log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to patch room: %w", err)
	}

	return updated, nil
}
