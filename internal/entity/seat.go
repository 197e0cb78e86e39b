package entity

const (
	SeatX = Seat("X")
	SeatO = Seat("O")

	// WinnerDraw marks a drawn game in Room.Winner; a decided game
	// stores the winning seat instead.
	WinnerDraw = "Draw"
)

// Seat is one of the two fixed player slots of a room. Seat X always
// belongs to the room creator.
type Seat string

func (that Seat) Valid() bool {
	return that == SeatX || that == SeatO
}

func (that Seat) Opponent() Seat {
	if that == SeatX {
		return SeatO
	}
	return SeatX
}
