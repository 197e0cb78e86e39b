// Package crossword holds the session side of the crossword game: the room
// creator generates a puzzle client-side (layout is a collaborator concern)
// and publishes it to the record; this core validates answer attempts and
// keeps per-seat scores and chances.
package crossword

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rikikangsc2r/minigames-backend/internal/apperror"
	"github.com/rikikangsc2r/minigames-backend/internal/entity"
	"github.com/rikikangsc2r/minigames-backend/internal/game"
)

const (
	// MoveTypePublish puts the generated puzzle on the record; only the
	// room creator (seat X) may do it and only once.
	MoveTypePublish = "publish"
	// MoveTypeAnswer is a guess for one clue.
	MoveTypeAnswer = "answer"

	startingChances = 3
)

// Clue is one placed word of the puzzle. Position and direction come from
// the creator's layout generator and are carried opaquely.
type Clue struct {
	Prompt      string `json:"prompt"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Direction   string `json:"direction"`
}

// document is the wire form of the game field. Solved maps clue index to
// the seat that solved it.
type document struct {
	Clues   []Clue                 `json:"clues,omitempty"`
	Solved  map[string]entity.Seat `json:"solved,omitempty"`
	Scores  map[entity.Seat]int    `json:"scores,omitempty"`
	Chances map[entity.Seat]int    `json:"chances,omitempty"`
}

type Move struct {
	Type  string `json:"type"`
	Clues []Clue `json:"clues,omitempty"`
	Clue  int    `json:"clue,omitempty"`
	Guess string `json:"guess,omitempty"`
}

type Adapter struct{}

func NewAdapter() *Adapter {
	return &Adapter{}
}

func (that *Adapter) Kind() string {
	return entity.KindCrossword
}

func (that *Adapter) NewGame() json.RawMessage {
	return marshalDocument(freshDocument(nil))
}

// RematchGame keeps nothing: a rematch gets a newly published puzzle.
func (that *Adapter) RematchGame(_ json.RawMessage) json.RawMessage {
	return that.NewGame()
}

func (that *Adapter) ApplyMove(raw json.RawMessage, seat entity.Seat, move json.RawMessage) (json.RawMessage, game.Outcome, error) {
	doc := reconstruct(raw)

	var turn Move
	if err := json.Unmarshal(move, &turn); err != nil {
		return nil, game.Outcome{}, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	switch turn.Type {
	case MoveTypePublish:
		return applyPublish(doc, seat, turn)
	case MoveTypeAnswer:
		return applyAnswer(doc, seat, turn)
	default:
		return nil, game.Outcome{}, fmt.Errorf("%w: move type %q", apperror.ErrInvalidMove, turn.Type)
	}
}

func applyPublish(doc document, seat entity.Seat, turn Move) (json.RawMessage, game.Outcome, error) {
	if seat != entity.SeatX {
		return nil, game.Outcome{}, fmt.Errorf("%w: only the room creator publishes the puzzle", apperror.ErrInvalidMove)
	}
	if len(doc.Clues) > 0 {
		return nil, game.Outcome{}, fmt.Errorf("%w: puzzle already published", apperror.ErrInvalidMove)
	}
	if len(turn.Clues) == 0 {
		return nil, game.Outcome{}, fmt.Errorf("%w: empty puzzle", apperror.ErrInvalidMove)
	}

	doc = freshDocument(turn.Clues)

	// publishing is not a play, the creator keeps the first turn
	return marshalDocument(doc), game.Outcome{KeepTurn: true}, nil
}

func applyAnswer(doc document, seat entity.Seat, turn Move) (json.RawMessage, game.Outcome, error) {
	if len(doc.Clues) == 0 {
		return nil, game.Outcome{}, fmt.Errorf("%w: puzzle not published yet", apperror.ErrInvalidMove)
	}
	if turn.Clue < 0 || turn.Clue >= len(doc.Clues) {
		return nil, game.Outcome{}, fmt.Errorf("%w: clue %d", apperror.ErrInvalidMove, turn.Clue)
	}

	clueKey := strconv.Itoa(turn.Clue)
	if _, taken := doc.Solved[clueKey]; taken {
		return nil, game.Outcome{}, fmt.Errorf("%w: clue %d", apperror.ErrCellOccupied, turn.Clue)
	}

	if normalize(turn.Guess) == normalize(doc.Clues[turn.Clue].Answer) {
		doc.Solved[clueKey] = seat
		doc.Scores[seat]++
	} else if doc.Chances[seat] > 0 {
		doc.Chances[seat]--
	}

	if winner, finished := terminal(doc); finished {
		return marshalDocument(doc), game.Outcome{Winner: winner}, nil
	}

	return marshalDocument(doc), game.Outcome{}, nil
}

// terminal reports the end of the puzzle: every clue solved, or both seats
// out of chances. The higher score wins.
func terminal(doc document) (string, bool) {
	allSolved := len(doc.Solved) == len(doc.Clues)
	outOfChances := doc.Chances[entity.SeatX] == 0 && doc.Chances[entity.SeatO] == 0

	if !allSolved && !outOfChances {
		return "", false
	}

	switch {
	case doc.Scores[entity.SeatX] > doc.Scores[entity.SeatO]:
		return string(entity.SeatX), true
	case doc.Scores[entity.SeatO] > doc.Scores[entity.SeatX]:
		return string(entity.SeatO), true
	default:
		return entity.WinnerDraw, true
	}
}

func normalize(answer string) string {
	return strings.ToUpper(strings.TrimSpace(answer))
}

func freshDocument(clues []Clue) document {
	if clues == nil {
		clues = []Clue{}
	}
	return document{
		Clues:  clues,
		Solved: map[string]entity.Seat{},
		Scores: map[entity.Seat]int{entity.SeatX: 0, entity.SeatO: 0},
		Chances: map[entity.Seat]int{
			entity.SeatX: startingChances,
			entity.SeatO: startingChances,
		},
	}
}

// reconstruct is total: missing or partial input defaults every collection
// and restores full chances for a seat the wire form dropped.
func reconstruct(raw json.RawMessage) document {
	var doc document
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &doc)
	}

	if doc.Clues == nil {
		doc.Clues = []Clue{}
	}
	if doc.Solved == nil {
		doc.Solved = map[string]entity.Seat{}
	}
	if doc.Scores == nil {
		doc.Scores = map[entity.Seat]int{}
	}
	if doc.Chances == nil {
		doc.Chances = map[entity.Seat]int{
			entity.SeatX: startingChances,
			entity.SeatO: startingChances,
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
