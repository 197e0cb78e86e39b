package pkg

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

const (
	roomCodeLength   = 6
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

var (
	ulidEntropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0) //nolint: gosec // ids, not secrets
	ulidEntropyMu sync.Mutex
)

// GenerateDeviceID mints the persisted-per-client identifier handed to a
// client that connects without one.
func GenerateDeviceID() string {
	return uuid.NewString()
}

// GenerateRoomCode returns a short shareable room identifier. The alphabet
// drops the lookalike characters.
func GenerateRoomCode() (string, error) {
	code := make([]byte, roomCodeLength)
	for index := range code {
		position, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		if err != nil {
			return "", err
		}
		code[index] = roomCodeAlphabet[position.Int64()]
	}

	return string(code), nil
}

// GenerateMessageID mints a chat message id; ulids sort by creation time,
// which keeps a sender's messages ordered.
func GenerateMessageID() string {
	ulidEntropyMu.Lock()
	defer ulidEntropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}
