package shahmat

// attackedBy reports whether any piece of color c attacks sq, using basic
// piece reachability only. Castling is never considered here: canCastle
// calls this function, and allowing the reverse would recurse through
// castling validation.
func (p *Position) attackedBy(c Color, sq Square) bool {
	for file := 0; file < 8; file++ {
		for rank := 0; rank < 8; rank++ {
			from := Square{File: file, Rank: rank}
			piece := p.board.PieceAt(from)
			if piece == NoPiece || piece.Color != c {
				continue
			}
			for _, to := range p.movesFrom(from, true, false) {
				if to == sq {
					return true
				}
			}
		}
	}
	return false
}

// InCheck reports whether the king of color c is attacked. A position
// without that king reports false; arbitrary imports are trusted, not
// validated.
func (p *Position) InCheck(c Color) bool {
	kingSq := p.board.find(Piece{Type: King, Color: c})
	if kingSq == NoSquare {
		return false
	}
	return p.attackedBy(c.Other(), kingSq)
}

// isMoveLegal reports whether moving from→to leaves the mover's own king
// safe. The move is applied to the board and rolled back exactly, including
// the en passant state and any en passant pawn removal. Castling
// destinations are trusted here: canCastle fully validated them during
// generation, so re-simulating would duplicate work.
func (p *Position) isMoveLegal(from, to Square) bool {
	moving := p.board.PieceAt(from)
	if moving == NoPiece {
		return false
	}
	if moving.Type == King && abs(to.File-from.File) == 2 {
		return true
	}

	captured := p.board.PieceAt(to)
	savedEnPassant := p.enPassant
	epPawnSq := NoSquare
	var epPawn Piece
	if moving.Type == Pawn && to == p.enPassant && from.File != to.File {
		epPawnSq = Square{File: to.File, Rank: from.Rank}
		epPawn = p.board.PieceAt(epPawnSq)
		p.board.setPiece(epPawnSq, NoPiece)
	}
	p.board.setPiece(to, moving)
	p.board.setPiece(from, NoPiece)
	p.enPassant = NoSquare

	safe := !p.InCheck(moving.Color)

	p.board.setPiece(from, moving)
	p.board.setPiece(to, captured)
	if epPawnSq != NoSquare {
		p.board.setPiece(epPawnSq, epPawn)
	}
	p.enPassant = savedEnPassant
	return safe
}

// canCastle reports whether color c may castle on the given side right now:
// the right is intact, the king and corner rook are in place, the squares
// strictly between them are empty, and the king is neither in check nor
// crosses or lands on an attacked square. Traversed squares are tested by
// relocating the king onto each one and restoring it afterward.
func (p *Position) canCastle(c Color, side CastleSide) bool {
	if !p.rights.can(c, side) {
		return false
	}
	home := backRank(c)
	kingSq := Square{File: 4, Rank: home}
	king := Piece{Type: King, Color: c}
	if p.board.PieceAt(kingSq) != king {
		return false
	}
	rookFile := 7
	between := []int{5, 6}
	kingPath := []int{5, 6}
	if side == QueenSide {
		rookFile = 0
		between = []int{1, 2, 3}
		kingPath = []int{3, 2}
	}
	if p.board.PieceAt(Square{File: rookFile, Rank: home}) != (Piece{Type: Rook, Color: c}) {
		return false
	}
	for _, file := range between {
		if p.board.PieceAt(Square{File: file, Rank: home}) != NoPiece {
			return false
		}
	}
	enemy := c.Other()
	if p.attackedBy(enemy, kingSq) {
		return false
	}
	p.board.setPiece(kingSq, NoPiece)
	safe := true
	for _, file := range kingPath {
		sq := Square{File: file, Rank: home}
		p.board.setPiece(sq, king)
		attacked := p.attackedBy(enemy, sq)
		p.board.setPiece(sq, NoPiece)
		if attacked {
			safe = false
			break
		}
	}
	p.board.setPiece(kingSq, king)
	return safe
}
