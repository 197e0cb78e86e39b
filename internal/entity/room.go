package entity

import (
	"encoding/json"
	"time"
)

const (
	KindTicTacToe   = "tictactoe"
	KindConnectFour = "connectfour"
	KindGobblet     = "gobblet"
	KindChess       = "chess"
	KindCrossword   = "crossword"
)

const (
	ModeOnline = "online"
	ModeBot    = "bot"
)

// Top-level field names of the wire record. Patches address these; a patch
// only ever carries fields that actually changed.
const (
	FieldPlayers        = "players"
	FieldCurrentPlayer  = "current_player"
	FieldWinner         = "winner"
	FieldStartingPlayer = "starting_player"
	FieldRematch        = "rematch"
	FieldChatMessages   = "chat_messages"
	FieldGame           = "game"
)

// MaxChatMessages caps the shared chat log; the oldest entries are evicted.
const MaxChatMessages = 20

// Patch is a partial update of a room record, keyed by wire field name.
type Patch map[string]any

// PlayerProfile is supplied by the client on join and treated as opaque.
type PlayerProfile struct {
	DeviceID  string `json:"device_id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type ChatMessage struct {
	ID        string `json:"id"`
	Sender    Seat   `json:"sender"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// Room is the canonical, shared record of one game session. It is only
// ever mutated through the record store, either by a full transactional
// rewrite (join, rematch reset) or by a partial field patch (moves, chat,
// rematch flags).
type Room struct {
	ID             string                  `json:"id"`
	Kind           string                  `json:"kind"`
	Mode           string                  `json:"mode,omitempty"`
	Players        map[Seat]*PlayerProfile `json:"players,omitempty"`
	CreatedAt      int64                   `json:"created_at"`
	CurrentPlayer  Seat                    `json:"current_player"`
	Winner         string                  `json:"winner,omitempty"`
	StartingPlayer Seat                    `json:"starting_player"`
	Rematch        map[Seat]bool           `json:"rematch,omitempty"`
	ChatMessages   []ChatMessage           `json:"chat_messages,omitempty"`
	Game           json.RawMessage         `json:"game,omitempty"`
}

// NewRoom builds a fresh room with the creator seated as X.
func NewRoom(id, kind, mode string, creator *PlayerProfile, game json.RawMessage, now time.Time) *Room {
	return &Room{
		ID:   id,
		Kind: kind,
		Mode: mode,
		Players: map[Seat]*PlayerProfile{
			SeatX: creator,
		},
		CreatedAt:      now.UnixMilli(),
		CurrentPlayer:  SeatX,
		StartingPlayer: SeatX,
		Rematch:        map[Seat]bool{SeatX: false, SeatO: false},
		ChatMessages:   []ChatMessage{},
		Game:           game,
	}
}

// ReconstructRoom rebuilds a room from its raw wire form. It is total:
// missing, partial or empty input yields a structurally valid room with
// every collection at its empty default.
func ReconstructRoom(raw []byte) *Room {
	room := &Room{}
	if len(raw) > 0 {
		// malformed input keeps the defaults, it never fails
		_ = json.Unmarshal(raw, room)
	}

	if room.Players == nil {
		room.Players = map[Seat]*PlayerProfile{}
	}
	if room.Rematch == nil {
		room.Rematch = map[Seat]bool{SeatX: false, SeatO: false}
	}
	if room.ChatMessages == nil {
		room.ChatMessages = []ChatMessage{}
	}
	if !room.CurrentPlayer.Valid() {
		room.CurrentPlayer = SeatX
	}
	if !room.StartingPlayer.Valid() {
		room.StartingPlayer = SeatX
	}

	return room
}

// SeatOf resolves the seat already held by a device, making rejoin idempotent.
func (that *Room) SeatOf(deviceID string) (Seat, bool) {
	for _, seat := range []Seat{SeatX, SeatO} {
		if player := that.Players[seat]; player != nil && player.DeviceID == deviceID {
			return seat, true
		}
	}
	return "", false
}

func (that *Room) IsFull() bool {
	return that.Players[SeatX] != nil && that.Players[SeatO] != nil
}

func (that *Room) IsFinished() bool {
	return that.Winner != ""
}

func (that *Room) IsWithBot() bool {
	return that.Mode == ModeBot
}

// Expired reports whether the room is older than the ttl and may be
// silently recycled by the next join attempt.
func (that *Room) Expired(ttl time.Duration, now time.Time) bool {
	return now.UnixMilli()-that.CreatedAt > ttl.Milliseconds()
}

// BothReady reports whether both seats have raised their rematch flags
// on a finished game.
func (that *Room) BothReady() bool {
	return that.IsFinished() && that.Rematch[SeatX] && that.Rematch[SeatO]
}
