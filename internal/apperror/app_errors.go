package apperror

import "errors"

var (
	ErrRoomFull           = errors.New("room is full")
	ErrRoomVanished       = errors.New("room no longer exists")
	ErrTransactionAborted = errors.New("transaction aborted after retries")
	ErrGameFinished       = errors.New("game is already finished")
	ErrGameIsNotStarted   = errors.New("game is not started")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrInvalidMove        = errors.New("invalid move")
	ErrUnknownGameKind    = errors.New("unknown game kind")
)
