package shahmat

// A CastleSide selects a castling wing.
type CastleSide uint8

const (
	// KingSide is castling toward the h-file.
	KingSide CastleSide = iota
	// QueenSide is castling toward the a-file.
	QueenSide
)

// CastleRights tracks the four castling permissions. During play rights are
// only ever revoked; a full position load is the only way they come back.
type CastleRights struct {
	WhiteKingSide  bool
	WhiteQueenSide bool
	BlackKingSide  bool
	BlackQueenSide bool
}

func (r CastleRights) can(c Color, side CastleSide) bool {
	switch {
	case c == White && side == KingSide:
		return r.WhiteKingSide
	case c == White && side == QueenSide:
		return r.WhiteQueenSide
	case c == Black && side == KingSide:
		return r.BlackKingSide
	case c == Black && side == QueenSide:
		return r.BlackQueenSide
	}
	return false
}

func (r *CastleRights) revoke(c Color, side CastleSide) {
	switch {
	case c == White && side == KingSide:
		r.WhiteKingSide = false
	case c == White && side == QueenSide:
		r.WhiteQueenSide = false
	case c == Black && side == KingSide:
		r.BlackKingSide = false
	case c == Black && side == QueenSide:
		r.BlackQueenSide = false
	}
}

// String implements the fmt.Stringer interface and returns the rights in
// position-text form ("KQkq" subset or "-").
func (r CastleRights) String() string {
	s := ""
	if r.WhiteKingSide {
		s += "K"
	}
	if r.WhiteQueenSide {
		s += "Q"
	}
	if r.BlackKingSide {
		s += "k"
	}
	if r.BlackQueenSide {
		s += "q"
	}
	if s == "" {
		return "-"
	}
	return s
}

// A Position is a full game position: piece placement, side to move,
// castling rights, en passant target and move counters. Exactly one king
// per color is assumed but not enforced on arbitrary imports.
type Position struct {
	board          Board
	turn           Color
	rights         CastleRights
	enPassant      Square
	halfMoveClock  int
	fullMoveNumber int
}

// StartingPosition returns the standard initial position.
func StartingPosition() *Position {
	return &Position{
		board: NewBoard(),
		turn:  White,
		rights: CastleRights{
			WhiteKingSide: true, WhiteQueenSide: true,
			BlackKingSide: true, BlackQueenSide: true,
		},
		enPassant:      NoSquare,
		fullMoveNumber: 1,
	}
}

// copy returns an independent copy of the position.
func (p *Position) copy() *Position {
	q := *p
	return &q
}

// Turn returns the side to move.
func (p *Position) Turn() Color {
	return p.turn
}

// Board returns a copy of the piece placement. Mutating it does not affect
// the position.
func (p *Position) Board() Board {
	return p.board.Copy()
}

// CastleRights returns the current castling permissions.
func (p *Position) CastleRights() CastleRights {
	return p.rights
}

// EnPassant returns the current en passant target square, or NoSquare. The
// target is only ever set for the ply immediately following a two-square
// pawn advance.
func (p *Position) EnPassant() Square {
	return p.enPassant
}

// HalfMoveClock returns the number of plies since the last pawn move or
// capture.
func (p *Position) HalfMoveClock() int {
	return p.halfMoveClock
}

// FullMoveNumber returns the move number, starting at 1 and incremented
// after each of Black's moves.
func (p *Position) FullMoveNumber() int {
	return p.fullMoveNumber
}

// String implements the fmt.Stringer interface and returns the position in
// the FEN-like text format.
func (p *Position) String() string {
	return encodeFEN(p)
}
