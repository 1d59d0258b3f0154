package shahmat

import "fmt"

// A Move is a from/to square pair with an optional promotion piece type.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
}

// String implements the fmt.Stringer interface and returns the move in
// coordinate notation ("e2e4", "e7e8q").
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPieceType {
		s += m.Promotion.String()
	}
	return s
}

// ParseMove parses coordinate notation as produced by Move.String.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("shahmat: invalid move %q", s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return Move{}, fmt.Errorf("shahmat: invalid move %q", s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("shahmat: invalid move %q", s)
	}
	move := Move{From: from, To: to}
	if len(s) == 5 {
		promo, ok := pieceTypeFromLetter(s[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("shahmat: invalid promotion in move %q", s)
		}
		move.Promotion = promo
	}
	return move, nil
}

// A MoveCategory classifies how a move mutates the board.
type MoveCategory uint8

const (
	// NormalMove relocates a single piece onto an empty square.
	NormalMove MoveCategory = iota
	// CaptureMove relocates a piece onto an enemy-occupied square.
	CaptureMove
	// CastleMove relocates the king two files and its rook alongside.
	CastleMove
	// EnPassantMove captures a pawn on a square other than the destination.
	EnPassantMove
	// PromotionMove replaces a pawn reaching the last rank.
	PromotionMove
)

var moveCategoryNames = [...]string{
	NormalMove:    "normal",
	CaptureMove:   "capture",
	CastleMove:    "castling",
	EnPassantMove: "en passant",
	PromotionMove: "promotion",
}

// String implements the fmt.Stringer interface.
func (c MoveCategory) String() string {
	if int(c) >= len(moveCategoryNames) {
		return "unknown"
	}
	return moveCategoryNames[c]
}

// A MoveRecord is one executed ply in the game history.
type MoveRecord struct {
	Move     Move
	Category MoveCategory
	// Captured is the piece actually taken, NoPiece if none. Unlike the
	// facade's count-diff tally this is exact.
	Captured Piece
	// Check reports whether the move left the opponent in check.
	Check bool
}
