package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is the in-process RecordStore used by unit tests. It mirrors
// the Redis semantics: atomic updates, merge patches, and ordered snapshot
// delivery to subscribers. WriteCount exposes how many commits a key has
// seen, which lets tests assert that a rejected action produced no write.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]byte
	subs    map[string][]chan []byte
	writes  map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]byte),
		subs:    make(map[string][]chan []byte),
		writes:  make(map[string]int),
	}
}

func (that *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	value, ok := that.records[key]
	if !ok {
		return nil, ErrRecordNotFound
	}

	return append([]byte(nil), value...), nil
}

func (that *MemoryStore) Update(_ context.Context, key string, fn UpdateFunc) ([]byte, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var current []byte
	if value, ok := that.records[key]; ok {
		current = append([]byte(nil), value...)
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	if next == nil || bytes.Equal(next, current) {
		return current, nil
	}

	that.records[key] = next
	that.writes[key]++
	that.broadcast(key, next)

	return next, nil
}

func (that *MemoryStore) Patch(ctx context.Context, key string, fields map[string]json.RawMessage) ([]byte, error) {
	return that.Update(ctx, key, func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, ErrRecordNotFound
		}

		next, err := mergeFields(current, fields)
		if err != nil {
			return nil, fmt.Errorf("failed to merge fields: %w", err)
		}

		return next, nil
	})
}

func (that *MemoryStore) Delete(_ context.Context, key string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.records, key)
	that.broadcast(key, []byte{})

	return nil
}

func (that *MemoryStore) Subscribe(ctx context.Context, key string) (<-chan []byte, error) {
	that.mu.Lock()
	sub := make(chan []byte, 16)
	that.subs[key] = append(that.subs[key], sub)
	that.mu.Unlock()

	out := make(chan []byte, 16)

	go func() {
		defer close(out)
		defer that.unsubscribe(key, sub)

		for {
			select {
			case <-ctx.Done():
				return
			case payload, ok := <-sub:
				if !ok {
					return
				}
				select {
				case out <- payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// WriteCount reports how many commits the key has seen.
func (that *MemoryStore) WriteCount(key string) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.writes[key]
}

// broadcast fans the payload out; callers hold the lock.
func (that *MemoryStore) broadcast(key string, payload []byte) {
	for _, sub := range that.subs[key] {
		select {
		case sub <- append([]byte(nil), payload...):
		default:
			// a subscriber that stopped draining loses snapshots, not writers
		}
	}
}

func (that *MemoryStore) unsubscribe(key string, sub chan []byte) {
	that.mu.Lock()
	defer that.mu.Unlock()

	subs := that.subs[key]
	for index, candidate := range subs {
		if candidate == sub {
			that.subs[key] = append(subs[:index:index], subs[index+1:]...)
			return
		}
	}
}
