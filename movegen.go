package shahmat

var (
	knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookDirs      = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs    = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs     = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// movesFrom lists destination squares for the piece on from. With
// respectOccupancy false the full movement pattern is produced, the mode
// premove hints use; with it true the list is pseudo-legal (own-king safety
// is filtered one layer up). Castling destinations are appended for the
// king only when withCastling is set, which keeps attack detection from
// re-entering castling validation.
func (p *Position) movesFrom(from Square, respectOccupancy, withCastling bool) []Square {
	piece := p.board.PieceAt(from)
	switch piece.Type {
	case Pawn:
		return p.pawnMovesFrom(from, piece.Color, respectOccupancy)
	case Knight:
		return p.offsetMovesFrom(from, piece.Color, knightOffsets[:], respectOccupancy)
	case Bishop:
		return p.rayMovesFrom(from, piece.Color, bishopDirs[:], respectOccupancy)
	case Rook:
		return p.rayMovesFrom(from, piece.Color, rookDirs[:], respectOccupancy)
	case Queen:
		return p.rayMovesFrom(from, piece.Color, queenDirs[:], respectOccupancy)
	case King:
		moves := p.offsetMovesFrom(from, piece.Color, kingOffsets[:], respectOccupancy)
		if withCastling {
			moves = append(moves, p.castleMovesFrom(from, piece.Color, respectOccupancy)...)
		}
		return moves
	}
	return nil
}

func (p *Position) pawnMovesFrom(from Square, c Color, respectOccupancy bool) []Square {
	dir, home := 1, 1
	if c == Black {
		dir, home = -1, 6
	}
	var moves []Square
	one := Square{File: from.File, Rank: from.Rank + dir}
	if one.Valid() && (!respectOccupancy || p.board.PieceAt(one) == NoPiece) {
		moves = append(moves, one)
	}
	if from.Rank == home {
		two := Square{File: from.File, Rank: from.Rank + 2*dir}
		if !respectOccupancy || (p.board.PieceAt(one) == NoPiece && p.board.PieceAt(two) == NoPiece) {
			moves = append(moves, two)
		}
	}
	for _, df := range [2]int{-1, 1} {
		diag := Square{File: from.File + df, Rank: from.Rank + dir}
		if !diag.Valid() {
			continue
		}
		if !respectOccupancy {
			moves = append(moves, diag)
			continue
		}
		target := p.board.PieceAt(diag)
		if (target != NoPiece && target.Color == c.Other()) || diag == p.enPassant {
			moves = append(moves, diag)
		}
	}
	return moves
}

func (p *Position) rayMovesFrom(from Square, c Color, dirs [][2]int, respectOccupancy bool) []Square {
	var moves []Square
	for _, d := range dirs {
		for sq := (Square{File: from.File + d[0], Rank: from.Rank + d[1]}); sq.Valid(); sq = (Square{File: sq.File + d[0], Rank: sq.Rank + d[1]}) {
			if !respectOccupancy {
				moves = append(moves, sq)
				continue
			}
			target := p.board.PieceAt(sq)
			if target == NoPiece {
				moves = append(moves, sq)
				continue
			}
			if target.Color != c {
				moves = append(moves, sq)
			}
			break
		}
	}
	return moves
}

func (p *Position) offsetMovesFrom(from Square, c Color, offsets [][2]int, respectOccupancy bool) []Square {
	var moves []Square
	for _, o := range offsets {
		sq := Square{File: from.File + o[0], Rank: from.Rank + o[1]}
		if !sq.Valid() {
			continue
		}
		if respectOccupancy {
			if target := p.board.PieceAt(sq); target != NoPiece && target.Color == c {
				continue
			}
		}
		moves = append(moves, sq)
	}
	return moves
}

// castleMovesFrom appends the castling destinations for a king standing on
// its home square. Hint mode lists both wings unconditionally; otherwise
// each wing is fully validated by canCastle.
func (p *Position) castleMovesFrom(from Square, c Color, respectOccupancy bool) []Square {
	home := backRank(c)
	if from != (Square{File: 4, Rank: home}) {
		return nil
	}
	if !respectOccupancy {
		return []Square{{File: 6, Rank: home}, {File: 2, Rank: home}}
	}
	var moves []Square
	if p.canCastle(c, KingSide) {
		moves = append(moves, Square{File: 6, Rank: home})
	}
	if p.canCastle(c, QueenSide) {
		moves = append(moves, Square{File: 2, Rank: home})
	}
	return moves
}

// PatternMoves lists every square the piece on from could reach by movement
// pattern alone, ignoring occupancy and king safety. This is the hint mode
// used to validate premoves; the legal generator walks the same traversal
// with occupancy respected, so hints and legal moves never diverge.
func (p *Position) PatternMoves(from Square) []Square {
	return p.movesFrom(from, false, true)
}

// LegalMovesFrom lists the fully legal destination squares for the piece on
// from, including castling.
func (p *Position) LegalMovesFrom(from Square) []Square {
	if p.board.PieceAt(from) == NoPiece {
		return nil
	}
	var legal []Square
	for _, to := range p.movesFrom(from, true, true) {
		if p.isMoveLegal(from, to) {
			legal = append(legal, to)
		}
	}
	return legal
}

// legalMoves enumerates every legal move for the side to move. A pawn move
// onto the last rank expands into one move per promotion piece instead of a
// single ambiguous move.
func (p *Position) legalMoves() []Move {
	var moves []Move
	for file := 0; file < 8; file++ {
		for rank := 0; rank < 8; rank++ {
			from := Square{File: file, Rank: rank}
			piece := p.board.PieceAt(from)
			if piece == NoPiece || piece.Color != p.turn {
				continue
			}
			for _, to := range p.LegalMovesFrom(from) {
				if piece.Type == Pawn && to.Rank == lastRank(piece.Color) {
					for _, promo := range promotionTypes {
						moves = append(moves, Move{From: from, To: to, Promotion: promo})
					}
					continue
				}
				moves = append(moves, Move{From: from, To: to})
			}
		}
	}
	return moves
}
