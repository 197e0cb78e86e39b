package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gorilla/websocket"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/pkg"
	"github.com/rikikangsc2r/minigames-backend/internal/service"
)

// client is one connected participant. Outbound frames go through the send
// channel so the snapshot forwarder and the request handlers never write
// to the socket concurrently.
type client struct {
	server *Server
	logger *slog.Logger
	conn   *websocket.Conn
	send   chan Message

	deviceID string

	roomID      string
	seat        entity.Seat
	coordinator *service.Coordinator
	leaveRoom   context.CancelFunc
}

func newClient(server *Server, conn *websocket.Conn) *client {
	return &client{
		server: server,
		logger: server.logger.With("component", "ws-client"),
		conn:   conn,
		send:   make(chan Message, 16),
	}
}

func (that *client) writePump() {
	defer that.conn.Close()

	for message := range that.send {
		if err := that.conn.WriteJSON(message); err != nil {
			return
		}
	}
}

func (that *client) readPump(ctx context.Context) {
	defer func() {
		that.unsubscribe()
		close(that.send)
	}()

	for {
		var message Message
		if err := that.conn.ReadJSON(&message); err != nil {
			return
		}

		that.dispatch(ctx, message)
	}
}

func (that *client) dispatch(ctx context.Context, message Message) {
	log := that.logger.With("action", message.Action, "deviceID", that.deviceID)

	var err error
	switch message.Action {
	case ActionConnect:
		err = that.handleConnect(message)
	case ActionJoin:
		err = that.handleJoin(ctx, message)
	case ActionTurn:
		err = that.handleTurn(ctx, message)
	case ActionChat:
		err = that.handleChat(ctx, message)
	case ActionRematch:
		err = that.handleRematch(ctx)
	case ActionQuestions:
		err = that.handleQuestions(ctx, message)
	case ActionLeave:
		err = that.handleLeave(ctx)
	default:
		that.sendError("unknown action: " + message.Action)
		return
	}

	if err != nil {
		log.Error("failed to handle action", "error", err)
	}
}

func (that *client) handleConnect(message Message) error {
	var payload ConnectPayload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			that.sendError("malformed connect payload")
			return err
		}
	}

	that.deviceID = payload.DeviceID
	if that.deviceID == "" {
		that.deviceID = pkg.GenerateDeviceID()
	}

	return that.reply(ActionConnect, ConnectPayload{DeviceID: that.deviceID})
}

func (that *client) handleJoin(ctx context.Context, message Message) error {
	if that.deviceID == "" {
		that.sendError("connect first")
		return nil
	}

	var payload JoinPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		that.sendError("malformed join payload")
		return err
	}

	roomID := payload.RoomID
	if roomID == "" {
		code, err := pkg.GenerateRoomCode()
		if err != nil {
			that.sendError("failed to create a room")
			return err
		}
		roomID = code
	}

	mode := payload.Mode
	if mode == "" {
		mode = entity.ModeOnline
	}

	seat, room, err := that.server.room.JoinOrCreate(ctx, service.JoinParams{
		RoomID:   roomID,
		Kind:     payload.Kind,
		Mode:     mode,
		DeviceID: that.deviceID,
		Profile: entity.PlayerProfile{
			DeviceID:  that.deviceID,
			Name:      payload.Name,
			AvatarURL: payload.AvatarURL,
		},
	})
	if errors.Is(err, apperror.ErrRoomFull) {
		that.sendReject("room is full")
		return nil
	}
	if err != nil {
		that.sendError("failed to join, try again")
		return err
	}

	that.unsubscribe()

	that.roomID = roomID
	that.seat = seat
	that.coordinator = service.NewCoordinator(seat)

	if err = that.subscribe(ctx); err != nil {
		that.sendError("failed to join, try again")
		return err
	}

	return that.reply(ActionState, StatePayload{Seat: seat, Room: room})
}

func (that *client) handleTurn(ctx context.Context, message Message) error {
	if that.roomID == "" {
		that.sendError("join a room first")
		return nil
	}

	var payload TurnPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		that.sendError("malformed turn payload")
		return err
	}

	_, err := that.server.session.ApplyMove(ctx, that.roomID, that.deviceID, payload.Move)
	if isRuleViolation(err) {
		// rule violations are a no-op plus a cue, never an error upstream
		that.sendReject(err.Error())
		return nil
	}

	return err
}

func (that *client) handleChat(ctx context.Context, message Message) error {
	if that.roomID == "" {
		that.sendError("join a room first")
		return nil
	}

	var payload ChatPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		that.sendError("malformed chat payload")
		return err
	}

	_, err := that.server.chat.Send(ctx, that.roomID, that.deviceID, payload.Type, payload.Content)
	return err
}

func (that *client) handleRematch(ctx context.Context) error {
	if that.roomID == "" {
		that.sendError("join a room first")
		return nil
	}

	_, err := that.server.rematch.SetReady(ctx, that.roomID, that.deviceID)
	if isRuleViolation(err) {
		that.sendReject(err.Error())
		return nil
	}

	return err
}

// handleQuestions serves raw question material for the crossword creator.
// The fetch runs under its own deadline so a stalled question bank never
// pins the connection; an abort leaves the room untouched.
func (that *client) handleQuestions(ctx context.Context, message Message) error {
	if that.server.questions == nil {
		that.sendError("question bank is not configured")
		return nil
	}

	var payload QuestionsPayload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			that.sendError("malformed questions payload")
			return err
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, that.server.questionTimeout)
	defer cancel()

	questions, err := that.server.questions.Fetch(fetchCtx, payload.Limit)
	if err != nil {
		that.sendError("question bank is unavailable")
		return err
	}

	return that.reply(ActionQuestions, QuestionsReplyPayload{Questions: questions})
}

func (that *client) handleLeave(ctx context.Context) error {
	if that.roomID == "" {
		return nil
	}

	roomID := that.roomID
	that.unsubscribe()
	that.roomID = ""
	that.seat = ""
	that.coordinator = nil

	// removing the record pushes room:vanished to the other seat
	return that.server.room.Leave(ctx, roomID)
}

// subscribe forwards every committed snapshot to the client and runs the
// per-connection reactions: the rematch coordinator and, in bot rooms,
// the engine's turn.
func (that *client) subscribe(ctx context.Context) error {
	subCtx, cancel := context.WithCancel(ctx)

	snapshots, err := that.server.rooms.Subscribe(subCtx, that.roomID)
	if err != nil {
		cancel()
		return err
	}

	that.leaveRoom = cancel

	// the forwarder works on locals: the readPump rewrites the client's
	// room fields on a re-join or leave while an old forwarder may still
	// be draining buffered snapshots
	roomID := that.roomID
	seat := that.seat
	coordinator := that.coordinator

	go func() {
		for room := range snapshots {
			if room == nil {
				that.trySend(mustMessage(ActionVanished, RejectPayload{Reason: "room removed"}))
				return
			}

			that.trySend(mustMessage(ActionState, StatePayload{Seat: seat, Room: room}))

			if coordinator != nil && coordinator.Observe(room) {
				if _, err := that.server.rematch.Reset(subCtx, roomID); err != nil {
					that.logger.Error("failed to reset for rematch", "roomID", roomID, "error", err)
				}
			}

			if room.IsWithBot() && !room.IsFinished() {
				if botSeat, ok := room.SeatOf(service.BotDeviceID(roomID)); ok && room.CurrentPlayer == botSeat {
					that.server.bot.Schedule(subCtx, roomID)
				}
			}
		}
	}()

	return nil
}

func (that *client) unsubscribe() {
	if that.leaveRoom != nil {
		that.leaveRoom()
		that.leaveRoom = nil
	}
}

func (that *client) reply(action string, payload any) error {
	message, err := newMessage(action, payload)
	if err != nil {
		return err
	}

	that.trySend(message)
	return nil
}

func (that *client) sendReject(reason string) {
	that.trySend(mustMessage(ActionReject, RejectPayload{Reason: reason}))
}

func (that *client) sendError(text string) {
	that.trySend(mustMessage(ActionError, ErrorPayload{Error: text}))
}

// trySend never blocks a snapshot forwarder on a slow socket. A full
// buffer sheds the oldest queued frame, not the new one: the latest
// snapshot is the canonical state and must reach the client.
func (that *client) trySend(message Message) {
	defer func() {
		// send on a closed channel after disconnect is a no-op
		_ = recover()
	}()

	select {
	case that.send <- message:
		return
	default:
	}

	select {
	case <-that.send:
	default:
	}

	select {
	case that.send <- message:
	default:
	}
}

func mustMessage(action string, payload any) Message {
	message, err := newMessage(action, payload)
	if err != nil {
		panic(err)
	}
	return message
}

func isRuleViolation(err error) bool {
	return errors.Is(err, apperror.ErrNotYourTurn) ||
		errors.Is(err, apperror.ErrCellOccupied) ||
		errors.Is(err, apperror.ErrGameFinished) ||
		errors.Is(err, apperror.ErrGameIsNotStarted) ||
		errors.Is(err, apperror.ErrInvalidMove)
}
