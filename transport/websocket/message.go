package websocket

import (
	"encoding/json"

	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/game/crossword"
)

// client -> server actions
const (
	ActionConnect   = "connect"
	ActionJoin      = "room:join"
	ActionTurn      = "room:turn"
	ActionChat      = "room:chat"
	ActionRematch   = "room:rematch"
	ActionLeave     = "room:leave"
	ActionQuestions = "room:questions"
)

// server -> client actions
const (
	ActionState    = "room:state"
	ActionReject   = "room:reject"
	ActionVanished = "room:vanished"
	ActionError    = "error"
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ConnectPayload assigns or echoes the device identifier. A client
// connecting without one gets a fresh identifier to persist.
type ConnectPayload struct {
	DeviceID string `json:"device_id"`
}

type JoinPayload struct {
	RoomID    string `json:"room_id"`
	Kind      string `json:"kind"`
	Mode      string `json:"mode,omitempty"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type TurnPayload struct {
	Move json.RawMessage `json:"move"`
}

type ChatPayload struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// StatePayload carries a full room snapshot; Seat is the receiver's seat.
type StatePayload struct {
	Seat entity.Seat  `json:"seat,omitempty"`
	Room *entity.Room `json:"room"`
}

// QuestionsPayload asks for raw question material from the external bank;
// the crossword creator lays the words out client-side before publishing.
type QuestionsPayload struct {
	Limit int `json:"limit,omitempty"`
}

type QuestionsReplyPayload struct {
	Questions []crossword.Question `json:"questions"`
}

type RejectPayload struct {
	Reason string `json:"reason"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

func newMessage(action string, payload any) (Message, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	return Message{Action: action, Payload: encoded}, nil
}
