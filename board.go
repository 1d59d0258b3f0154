package shahmat

import (
	"fmt"
	"strings"
)

// A Board is an 8×8 mailbox of pieces, indexed by file then rank. The zero
// value is an empty board.
type Board struct {
	grid [8][8]Piece
}

// NewBoard returns a board holding the standard 32-piece opening array.
func NewBoard() Board {
	var b Board
	backRow := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 0; file < 8; file++ {
		b.grid[file][0] = Piece{Type: backRow[file], Color: White}
		b.grid[file][1] = Piece{Type: Pawn, Color: White}
		b.grid[file][6] = Piece{Type: Pawn, Color: Black}
		b.grid[file][7] = Piece{Type: backRow[file], Color: Black}
	}
	return b
}

// PieceAt returns the piece on sq, or NoPiece when the square is empty or
// off the board.
func (b *Board) PieceAt(sq Square) Piece {
	if !sq.Valid() {
		return NoPiece
	}
	return b.grid[sq.File][sq.Rank]
}

// setPiece places p on sq. Squares off the board are ignored.
func (b *Board) setPiece(sq Square, p Piece) {
	if !sq.Valid() {
		return
	}
	b.grid[sq.File][sq.Rank] = p
}

// Copy returns an independent copy of the board.
func (b *Board) Copy() Board {
	return *b
}

// count returns the number of pieces of the given color and type.
func (b *Board) count(c Color, t PieceType) int {
	n := 0
	for file := 0; file < 8; file++ {
		for rank := 0; rank < 8; rank++ {
			if b.grid[file][rank] == (Piece{Type: t, Color: c}) {
				n++
			}
		}
	}
	return n
}

// find returns the square of the first piece equal to p, or NoSquare.
func (b *Board) find(p Piece) Square {
	for file := 0; file < 8; file++ {
		for rank := 0; rank < 8; rank++ {
			if b.grid[file][rank] == p {
				return Square{File: file, Rank: rank}
			}
		}
	}
	return NoSquare
}

// Draw returns a human-readable rendition of the board with rank 8 on top.
func (b *Board) Draw() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, " %d", rank+1)
		for file := 0; file < 8; file++ {
			p := b.grid[file][rank]
			sb.WriteByte(' ')
			if p == NoPiece {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(p.FENChar())
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	return sb.String()
}
