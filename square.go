package shahmat

import "fmt"

// A Square addresses a board square by zero-based file (a-file = 0) and rank
// (first rank = 0). Squares off the board are valid values; every lookup
// treats them as empty rather than failing.
type Square struct {
	File int
	Rank int
}

// NoSquare is the absent square, used for cleared en passant targets.
var NoSquare = Square{File: -1, Rank: -1}

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool {
	return s.File >= 0 && s.File < 8 && s.Rank >= 0 && s.Rank < 8
}

// String implements the fmt.Stringer interface and returns the algebraic
// name of the square ("e4"), or "-" for squares off the board.
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + s.File), byte('1' + s.Rank)})
}

// ParseSquare parses an algebraic square name such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("shahmat: invalid square %q", s)
	}
	return Square{File: int(s[0] - 'a'), Rank: int(s[1] - '1')}, nil
}

// backRank returns the rank the color's pieces start on.
func backRank(c Color) int {
	if c == Black {
		return 7
	}
	return 0
}

// lastRank returns the rank the color's pawns promote on.
func lastRank(c Color) int {
	if c == Black {
		return 0
	}
	return 7
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
