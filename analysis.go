package shahmat

// A MoveAnalysis is the validated classification of a move attempt. It is
// the only input the executor accepts: the category is re-derived from the
// position, never taken from the caller.
type MoveAnalysis struct {
	// Valid reports whether the destination is in the legal-move set of the
	// piece on the source square for the side to move.
	Valid    bool
	Category MoveCategory
	// Captured is the piece the move would take, NoPiece if none.
	Captured Piece
	// RookMove is the companion rook relocation, castling moves only.
	RookMove Move
	// PromotionRequired is set when a pawn legally reaches the last rank
	// but no promotion piece was supplied. The move is legal yet
	// incomplete; nothing is mutated until a piece type arrives.
	PromotionRequired bool

	move  Move
	piece Piece
}

// Analyze validates a move attempt for the side to move and classifies it.
// Illegal attempts yield a zero MoveAnalysis rather than an error.
func (p *Position) Analyze(from, to Square, promotion PieceType) MoveAnalysis {
	if promotion == Pawn || promotion == King {
		return MoveAnalysis{}
	}
	piece := p.board.PieceAt(from)
	if piece == NoPiece || piece.Color != p.turn {
		return MoveAnalysis{}
	}
	legal := false
	for _, sq := range p.LegalMovesFrom(from) {
		if sq == to {
			legal = true
			break
		}
	}
	if !legal {
		return MoveAnalysis{}
	}

	a := MoveAnalysis{
		Valid:    true,
		Category: NormalMove,
		move:     Move{From: from, To: to, Promotion: promotion},
		piece:    piece,
	}
	switch {
	case piece.Type == King && abs(to.File-from.File) == 2:
		a.Category = CastleMove
		home := backRank(piece.Color)
		if to.File == 6 {
			a.RookMove = Move{From: Square{File: 7, Rank: home}, To: Square{File: 5, Rank: home}}
		} else {
			a.RookMove = Move{From: Square{File: 0, Rank: home}, To: Square{File: 3, Rank: home}}
		}
	case piece.Type == Pawn && to == p.enPassant && from.File != to.File:
		a.Category = EnPassantMove
		a.Captured = p.board.PieceAt(Square{File: to.File, Rank: from.Rank})
	case piece.Type == Pawn && to.Rank == lastRank(piece.Color):
		a.Category = PromotionMove
		a.Captured = p.board.PieceAt(to)
		if promotion == NoPieceType {
			a.PromotionRequired = true
		}
	case p.board.PieceAt(to) != NoPiece:
		a.Category = CaptureMove
		a.Captured = p.board.PieceAt(to)
	}
	if a.Category != PromotionMove {
		a.move.Promotion = NoPieceType
	}
	return a
}

// apply executes a validated analysis and returns whether the new side to
// move was left in check. Validation has fully completed by the time this
// runs; every branch leaves the position consistent, so mutation is
// all-or-nothing. Callers must not pass an analysis with Valid false or
// PromotionRequired set.
func (p *Position) apply(a MoveAnalysis) bool {
	from, to := a.move.From, a.move.To
	piece := a.piece

	// The target is valid for exactly one ply.
	p.enPassant = NoSquare

	switch a.Category {
	case CastleMove:
		p.board.setPiece(to, piece)
		p.board.setPiece(from, NoPiece)
		rook := p.board.PieceAt(a.RookMove.From)
		p.board.setPiece(a.RookMove.To, rook)
		p.board.setPiece(a.RookMove.From, NoPiece)
	case EnPassantMove:
		p.board.setPiece(Square{File: to.File, Rank: from.Rank}, NoPiece)
		p.board.setPiece(to, piece)
		p.board.setPiece(from, NoPiece)
	case PromotionMove:
		p.board.setPiece(to, Piece{Type: a.move.Promotion, Color: piece.Color})
		p.board.setPiece(from, NoPiece)
	default:
		p.board.setPiece(to, piece)
		p.board.setPiece(from, NoPiece)
		if piece.Type == Pawn && abs(to.Rank-from.Rank) == 2 {
			p.enPassant = Square{File: from.File, Rank: (from.Rank + to.Rank) / 2}
		}
	}

	p.revokeRightsFor(piece, from)
	p.revokeRightsAt(to)

	if piece.Type == Pawn || a.Captured != NoPiece {
		p.halfMoveClock = 0
	} else {
		p.halfMoveClock++
	}
	if p.turn == Black {
		p.fullMoveNumber++
	}
	p.turn = p.turn.Other()
	return p.InCheck(p.turn)
}

// revokeRightsFor revokes the castling rights lost by moving piece off from.
func (p *Position) revokeRightsFor(piece Piece, from Square) {
	if piece.Type == King {
		p.rights.revoke(piece.Color, KingSide)
		p.rights.revoke(piece.Color, QueenSide)
		return
	}
	if piece.Type == Rook {
		p.revokeRightsAt(from)
	}
}

// revokeRightsAt revokes the right tied to a corner square. Covers both a
// rook leaving its corner and a corner rook being captured.
func (p *Position) revokeRightsAt(sq Square) {
	switch sq {
	case Square{File: 0, Rank: 0}:
		p.rights.revoke(White, QueenSide)
	case Square{File: 7, Rank: 0}:
		p.rights.revoke(White, KingSide)
	case Square{File: 0, Rank: 7}:
		p.rights.revoke(Black, QueenSide)
	case Square{File: 7, Rank: 7}:
		p.rights.revoke(Black, KingSide)
	}
}
