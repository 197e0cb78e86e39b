// Package storage provides the transactional keyed record store the whole
// session core is written against: atomic read-modify-write, partial
// top-level field patches, and a push subscription that delivers the full
// record on every change in a total order per key. Production runs on
// Redis; unit tests run on the in-memory implementation.
package storage

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrRecordNotFound = errors.New("record not found")

// UpdateFunc computes the next value of a record inside a transaction.
// current is nil when the record does not exist. Returning nil with no
// error commits nothing and leaves the record as it was; returning an
// error aborts the transaction without writing.
type UpdateFunc func(current []byte) ([]byte, error)

type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, error)

	// Update runs fn as an atomic read-modify-write. Contention is retried
	// with optimistic concurrency; after the retry budget it fails with
	// apperror.ErrTransactionAborted.
	Update(ctx context.Context, key string, fn UpdateFunc) ([]byte, error)

	// Patch merges the given top-level JSON fields into the record without
	// clobbering unspecified fields.
	Patch(ctx context.Context, key string, fields map[string]json.RawMessage) ([]byte, error)

	Delete(ctx context.Context, key string) error

	// Subscribe delivers the full record after every committed change. A
	// deleted record is signalled with an empty payload. The channel closes
	// when ctx is done.
	Subscribe(ctx context.Context, key string) (<-chan []byte, error)
}

// mergeFields overlays fields onto the record's top-level JSON object.
func mergeFields(current []byte, fields map[string]json.RawMessage) ([]byte, error) {
	record := make(map[string]json.RawMessage)
	if len(current) > 0 {
		if err := json.Unmarshal(current, &record); err != nil {
			return nil, err
		}
	}

	for name, value := range fields {
		record[name] = value
	}

	return json.Marshal(record)
}
