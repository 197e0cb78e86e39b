package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
)

const txRetries = 16

// RedisStore keeps records as plain keys and broadcasts every committed
// record on a per-key pub/sub channel, which gives subscribers a total
// order of snapshots per key.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an already connected client; the testing
// suite supplies one backed by a throwaway container.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (that *RedisStore) Close() error {
	return that.client.Close()
}

func (that *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := that.client.Get(ctx, key).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return value, nil
}

func (that *RedisStore) Update(ctx context.Context, key string, fn UpdateFunc) ([]byte, error) {
	var committed []byte
	var changed bool

	transaction := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			current = nil
		} else if err != nil {
			return fmt.Errorf("failed to get record: %w", err)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		if next == nil || bytes.Equal(next, current) {
			committed, changed = current, false
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to commit record: %w", err)
		}

		committed, changed = next, true
		return nil
	}

	for attempt := 0; attempt < txRetries; attempt++ {
		err := that.client.Watch(ctx, transaction, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if changed {
			that.publish(ctx, key, committed)
		}
		return committed, nil
	}

	return nil, apperror.ErrTransactionAborted
}

func (that *RedisStore) Patch(ctx context.Context, key string, fields map[string]json.RawMessage) ([]byte, error) {
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

func (that *RedisStore) Delete(ctx context.Context, key string) error {
	if err := that.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	// empty payload = record gone
	that.publish(ctx, key, []byte{})

	return nil
}

func (that *RedisStore) Subscribe(ctx context.Context, key string) (<-chan []byte, error) {
	sub := that.client.Subscribe(ctx, eventChannel(key))

	// confirm the subscription before promising deliveries
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan []byte, 16)

	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case message, ok := <-messages:
				if !ok {
					return
				}
				select {
				case out <- []byte(message.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (that *RedisStore) publish(ctx context.Context, key string, payload []byte) {
	_ = that.client.Publish(ctx, eventChannel(key), payload).Err()
}

func eventChannel(key string) string {
	return "events:" + key
}
