package shahmat

// A Color identifies a side of the game.
type Color int8

const (
	// NoColor is the color of empty squares.
	NoColor Color = iota
	// White is the side that moves first.
	White
	// Black is the side that moves second.
	Black
)

// Other returns the opposing color. NoColor maps to itself.
func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

// String implements the fmt.Stringer interface and returns the color's
// position-text letter ("w" or "b").
func (c Color) String() string {
	switch c {
	case White:
		return "w"
	case Black:
		return "b"
	}
	return "-"
}

// Name returns the color's full name.
func (c Color) Name() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	}
	return "No Color"
}

// A PieceType is the type of a piece regardless of color.
type PieceType int8

const (
	// NoPieceType is the piece type of empty squares.
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeLetters = [...]byte{NoPieceType: '-', Pawn: 'p', Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q', King: 'k'}

// String implements the fmt.Stringer interface and returns the piece type's
// lower-case position-text letter.
func (t PieceType) String() string {
	if t < Pawn || t > King {
		return "-"
	}
	return string(rune(pieceTypeLetters[t]))
}

func pieceTypeFromLetter(c byte) (PieceType, bool) {
	for t := Pawn; t <= King; t++ {
		if pieceTypeLetters[t] == c {
			return t, true
		}
	}
	return NoPieceType, false
}

// promotionTypes is every piece type a pawn may promote to.
var promotionTypes = [4]PieceType{Queen, Rook, Bishop, Knight}

// A Piece is a colored piece. The zero value NoPiece marks an empty square.
type Piece struct {
	Type  PieceType
	Color Color
}

// NoPiece is the empty square value.
var NoPiece = Piece{}

// FENChar returns the piece's position-text letter, upper case for white.
func (p Piece) FENChar() byte {
	c := pieceTypeLetters[p.Type]
	if p.Color == White {
		c -= 'a' - 'A'
	}
	return c
}

func pieceFromFENChar(c byte) (Piece, bool) {
	color := Black
	if c >= 'A' && c <= 'Z' {
		color = White
		c += 'a' - 'A'
	}
	t, ok := pieceTypeFromLetter(c)
	if !ok {
		return NoPiece, false
	}
	return Piece{Type: t, Color: color}, true
}

var pieceGlyphs = map[Piece]rune{
	{King, White}: '♔', {Queen, White}: '♕', {Rook, White}: '♖',
	{Bishop, White}: '♗', {Knight, White}: '♘', {Pawn, White}: '♙',
	{King, Black}: '♚', {Queen, Black}: '♛', {Rook, Black}: '♜',
	{Bishop, Black}: '♝', {Knight, Black}: '♞', {Pawn, Black}: '♟',
}

// Glyph returns the unicode chess symbol for the piece, or a space for
// NoPiece.
func (p Piece) Glyph() rune {
	if g, ok := pieceGlyphs[p]; ok {
		return g
	}
	return ' '
}

// String implements the fmt.Stringer interface.
func (p Piece) String() string {
	if p == NoPiece {
		return "-"
	}
	return string(p.FENChar())
}
