package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/repository/storage"
)

var ErrRoomNotFound = errors.New("room not found")

const roomKeyPrefix = "room:"

// RoomRepository is the typed view of the record store for room records.
// Snapshots coming out of it are always reconstructed, so callers never
// see a structurally invalid room.
type RoomRepository interface {
	Get(ctx context.Context, id string) (*entity.Room, error)

	// Update runs fn atomically against the current room (nil when the
	// room does not exist). fn returning (nil, nil) commits nothing.
	Update(ctx context.Context, id string, fn func(current *entity.Room) (*entity.Room, error)) (*entity.Room, error)

	// Patch merges only the given top-level fields into the record.
	Patch(ctx context.Context, id string, patch entity.Patch) (*entity.Room, error)

	Delete(ctx context.Context, id string) error

	// Subscribe delivers every committed snapshot; a nil room signals the
	// record vanished. The channel closes when ctx is done.
	Subscribe(ctx context.Context, id string) (<-chan *entity.Room, error)
}

type dbRoom struct {
	store storage.RecordStore
}

func NewRoomRepository(store storage.RecordStore) RoomRepository {
	return &dbRoom{
		store: store,
	}
}

func (that *dbRoom) Get(ctx context.Context, id string) (*entity.Room, error) {
	raw, err := that.store.Get(ctx, roomKey(id))

	if errors.Is(err, storage.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return entity.ReconstructRoom(raw), nil
}

func (that *dbRoom) Update(ctx context.Context, id string, fn func(current *entity.Room) (*entity.Room, error)) (*entity.Room, error) {
	raw, err := that.store.Update(ctx, roomKey(id), func(current []byte) ([]byte, error) {
		var room *entity.Room
		if current != nil {
			room = entity.ReconstructRoom(current)
		}

		next, err := fn(room)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}

		encoded, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal room: %w", err)
		}

		return encoded, nil
	})
	if err != nil {
		return nil, err
	}

	return entity.ReconstructRoom(raw), nil
}

func (that *dbRoom) Patch(ctx context.Context, id string, patch entity.Patch) (*entity.Room, error) {
	fields := make(map[string]json.RawMessage, len(patch))
	for name, value := range patch {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %q: %w", name, err)
		}
		fields[name] = encoded
	}

	raw, err := that.store.Patch(ctx, roomKey(id), fields)

	if errors.Is(err, storage.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to patch room: %w", err)
	}

	return entity.ReconstructRoom(raw), nil
}

func (that *dbRoom) Delete(ctx context.Context, id string) error {
	if err := that.store.Delete(ctx, roomKey(id)); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}

func (that *dbRoom) Subscribe(ctx context.Context, id string) (<-chan *entity.Room, error) {
	raws, err := that.store.Subscribe(ctx, roomKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to room: %w", err)
	}

	out := make(chan *entity.Room, 16)

	go func() {
		defer close(out)

		for raw := range raws {
			var room *entity.Room
			if len(raw) > 0 {
				room = entity.ReconstructRoom(raw)
			}

			select {
			case out <- room:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func roomKey(id string) string {
	return roomKeyPrefix + id
}
