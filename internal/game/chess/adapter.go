// Package chess carries turn and network plumbing only: move legality,
// termination and history come from the external rules engine
// (notnil/chess), best-move suggestions from an external HTTP service.
package chess

import (
	"context"
	"encoding/json"
	"fmt"

	chesslib "github.com/notnil/chess"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/game"
)

// Seat X is always white; the session layer alternates seats in lockstep
// with the side to move, so the two stay consistent.

// document is the wire form of the game field.
type document struct {
	FEN      string                   `json:"fen,omitempty"`
	Moves    []string                 `json:"moves,omitempty"`
	Captured map[entity.Seat][]string `json:"captured,omitempty"`
}

// Move is the payload of a chess turn in coordinate notation.
type Move struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

type Adapter struct {
	engine *EngineClient
}

// NewAdapter wires the optional suggestion engine; a nil client disables
// bot play for this kind but not regular games.
func NewAdapter(engine *EngineClient) *Adapter {
	return &Adapter{engine: engine}
}

func (that *Adapter) Kind() string {
	return entity.KindChess
}

func (that *Adapter) NewGame() json.RawMessage {
	return marshalDocument(document{
		FEN: chesslib.NewGame().FEN(),
		Captured: map[entity.Seat][]string{
			entity.SeatX: {},
			entity.SeatO: {},
		},
	})
}

func (that *Adapter) RematchGame(_ json.RawMessage) json.RawMessage {
	return that.NewGame()
}

func (that *Adapter) ApplyMove(raw json.RawMessage, seat entity.Seat, move json.RawMessage) (json.RawMessage, game.Outcome, error) {
	doc := reconstruct(raw)

	var turn Move
	if err := json.Unmarshal(move, &turn); err != nil {
		return nil, game.Outcome{}, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	position, err := gameFromFEN(doc.FEN)
	if err != nil {
		return nil, game.Outcome{}, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	legal := findLegalMove(position, turn)
	if legal == nil {
		return nil, game.Outcome{}, fmt.Errorf("%w: %s-%s", apperror.ErrInvalidMove, turn.From, turn.To)
	}

	if captured := capturedPiece(position, legal); captured != "" {
		doc.Captured[seat] = append(doc.Captured[seat], captured)
	}

	if err := position.Move(legal); err != nil {
		return nil, game.Outcome{}, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	doc.FEN = position.FEN()
	doc.Moves = append(doc.Moves, turn.From+turn.To+turn.Promotion)

	switch position.Outcome() {
	case chesslib.WhiteWon:
		return marshalDocument(doc), game.Outcome{Winner: string(entity.SeatX)}, nil
	case chesslib.BlackWon:
		return marshalDocument(doc), game.Outcome{Winner: string(entity.SeatO)}, nil
	case chesslib.Draw:
		return marshalDocument(doc), game.Outcome{Winner: entity.WinnerDraw}, nil
	default:
		return marshalDocument(doc), game.Outcome{}, nil
	}
}

// PickMove asks the external suggestion service for a best move; the
// service answers in compact coordinate notation (e2e4, e7e8q).
func (that *Adapter) PickMove(ctx context.Context, raw json.RawMessage, _ entity.Seat) (json.RawMessage, error) {
	if that.engine == nil {
		return nil, ErrEngineUnavailable
	}

	doc := reconstruct(raw)

	best, err := that.engine.BestMove(ctx, doc.FEN)
	if err != nil {
		return nil, fmt.Errorf("failed to get best move: %w", err)
	}
	if len(best) < 4 {
		return nil, fmt.Errorf("%w: suggestion %q", apperror.ErrInvalidMove, best)
	}

	payload, err := json.Marshal(Move{
		From:      best[0:2],
		To:        best[2:4],
		Promotion: best[4:],
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal move: %w", err)
	}

	return payload, nil
}

func gameFromFEN(fen string) (*chesslib.Game, error) {
	if fen == "" {
		return chesslib.NewGame(), nil
	}

	option, err := chesslib.FEN(fen)
	if err != nil {
		return nil, err
	}

	return chesslib.NewGame(option), nil
}

func findLegalMove(position *chesslib.Game, turn Move) *chesslib.Move {
	for _, candidate := range position.ValidMoves() {
		if candidate.S1().String() != turn.From || candidate.S2().String() != turn.To {
			continue
		}
		if promotionLetter(candidate.Promo()) != turn.Promotion {
			continue
		}
		return candidate
	}
	return nil
}

func promotionLetter(piece chesslib.PieceType) string {
	switch piece {
	case chesslib.Queen:
		return "q"
	case chesslib.Rook:
		return "r"
	case chesslib.Bishop:
		return "b"
	case chesslib.Knight:
		return "n"
	default:
		return ""
	}
}

// capturedPiece names the piece removed by the move, before it is played.
func capturedPiece(position *chesslib.Game, move *chesslib.Move) string {
	board := position.Position().Board()

	square := move.S2()
	if move.HasTag(chesslib.EnPassant) {
		// the captured pawn sits behind the target square
		if board.Piece(move.S1()).Color() == chesslib.White {
			square = chesslib.Square(int(move.S2()) - 8)
		} else {
			square = chesslib.Square(int(move.S2()) + 8)
		}
	}

	piece := board.Piece(square)
	if piece == chesslib.NoPiece {
		return ""
	}

	return pieceLetter(piece.Type())
}

func pieceLetter(piece chesslib.PieceType) string {
	switch piece {
	case chesslib.King:
		return "k"
	case chesslib.Queen:
		return "q"
	case chesslib.Rook:
		return "r"
	case chesslib.Bishop:
		return "b"
	case chesslib.Knight:
		return "n"
	case chesslib.Pawn:
		return "p"
	default:
		return ""
	}
}

// reconstruct is total: missing or partial input yields a fresh position
// with empty histories.
func reconstruct(raw json.RawMessage) document {
	var doc document
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &doc)
	}

	if doc.FEN == "" {
		doc.FEN = chesslib.NewGame().FEN()
	}
	if doc.Moves == nil {
		doc.Moves = []string{}
	}
	if doc.Captured == nil {
		doc.Captured = map[entity.Seat][]string{}
	}
	for _, seat := range []entity.Seat{entity.SeatX, entity.SeatO} {
		if doc.Captured[seat] == nil {
			doc.Captured[seat] = []string{}
		}
	}

	return doc
}

func marshalDocument(doc document) json.RawMessage {
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return raw
}
