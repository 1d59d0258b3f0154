package shahmat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPosition is wrapped by every decodeFEN failure.
var ErrInvalidPosition = errors.New("shahmat: invalid position text")

// encodeFEN renders the position in the FEN-like text format: piece
// placement rank 8 first with run-length-encoded empties, active color,
// castling rights, en passant target, halfmove clock, fullmove number.
func encodeFEN(p *Position) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.board.grid[file][rank]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(piece.FENChar())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", p.turn, p.rights, p.enPassant, p.halfMoveClock, p.fullMoveNumber)
	return sb.String()
}

// decodeFEN parses the FEN-like text format. At least four fields are
// required; a missing halfmove clock defaults to 0 and a missing fullmove
// number to 1. The position is built fresh, so a failure never disturbs any
// existing state.
func decodeFEN(text string) (*Position, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: need at least 4 fields, got %d", ErrInvalidPosition, len(fields))
	}

	pos := &Position{enPassant: NoSquare, fullMoveNumber: 1}
	rows := strings.Split(fields[0], "/")
	if len(rows) != 8 {
		return nil, fmt.Errorf("%w: board has %d ranks", ErrInvalidPosition, len(rows))
	}
	for i, row := range rows {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			if c := row[j]; c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece, ok := pieceFromFENChar(row[j])
			if !ok || file > 7 {
				return nil, fmt.Errorf("%w: bad board row %q", ErrInvalidPosition, row)
			}
			pos.board.grid[file][rank] = piece
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: rank %d spans %d files", ErrInvalidPosition, rank+1, file)
		}
	}

	switch fields[1] {
	case "w":
		pos.turn = White
	case "b":
		pos.turn = Black
	default:
		return nil, fmt.Errorf("%w: bad active color %q", ErrInvalidPosition, fields[1])
	}

	if err := parseCastleRights(fields[2], &pos.rights); err != nil {
		return nil, err
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: bad en passant square %q", ErrInvalidPosition, fields[3])
		}
		pos.enPassant = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad halfmove clock %q", ErrInvalidPosition, fields[4])
		}
		pos.halfMoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: bad fullmove number %q", ErrInvalidPosition, fields[5])
		}
		pos.fullMoveNumber = n
	}
	return pos, nil
}

func parseCastleRights(s string, r *CastleRights) error {
	if s == "-" {
		return nil
	}
	if s == "" || len(s) > 4 {
		return fmt.Errorf("%w: bad castling rights %q", ErrInvalidPosition, s)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'K':
			r.WhiteKingSide = true
		case 'Q':
			r.WhiteQueenSide = true
		case 'k':
			r.BlackKingSide = true
		case 'q':
			r.BlackQueenSide = true
		default:
			return fmt.Errorf("%w: bad castling rights %q", ErrInvalidPosition, s)
		}
	}
	return nil
}
