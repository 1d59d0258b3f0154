/*
Package shahmat implements the rules engine and turn-coordination core of a
chessboard widget: legal move generation, check/checkmate/stalemate
detection, special moves (castling, en passant, promotion), a FEN-like
position codec, and a coordinator that arbitrates a single game between
human input, asynchronous external move sources and queued premoves.

Example usage:

	// Create new game
	game := NewGame()

	// Make moves by coordinates
	game.Move(Square{File: 4, Rank: 1}, Square{File: 4, Rank: 3}, NoPieceType) // e2e4

	// Inspect the game
	state := game.State()
	if state.GameOver {
		fmt.Printf("Game ended: %s\n", state.Result.Reason)
	}
*/
package shahmat

import "slices"

// A ResultReason describes how a game ended.
type ResultReason string

const (
	ReasonCheckmate   ResultReason = "checkmate"
	ReasonStalemate   ResultReason = "stalemate"
	ReasonDraw        ResultReason = "draw"
	ReasonResignation ResultReason = "resignation"
	ReasonTimeout     ResultReason = "timeout"
)

// A GameResult is the terminal outcome of a game. Winner is NoColor for
// stalemate and draws.
type GameResult struct {
	Winner Color
	Reason ResultReason
}

// A GameState is a per-ply snapshot of the game. It is recomputed fresh on
// every call and shares no state with the engine, so callers may hold onto
// it for as long as they like.
type GameState struct {
	// FEN is the position in the FEN-like text format.
	FEN  string
	Turn Color
	// LegalMoves enumerates every legal move for the side to move, with
	// promotions expanded to one move per promotion piece.
	LegalMoves []Move
	InCheck    bool
	GameOver   bool
	Result     *GameResult
	History    []MoveRecord
	// Captured approximates the pieces each color has lost; see
	// Game.CapturedTally for the caveat around promotions.
	Captured map[Color]map[PieceType]int
}

// A MoveResult reports the outcome of a move attempt.
type MoveResult struct {
	// Success is true when the move was executed.
	Success  bool
	Move     Move
	Category MoveCategory
	Captured Piece
	// RookMove is the companion rook relocation for castling moves.
	RookMove Move
	// PromotionRequired is set when the move is legal but a promotion piece
	// must still be chosen. The board has not been touched.
	PromotionRequired bool
	// Check reports whether the opponent was left in check.
	Check bool
}

// A Game owns a single position and its history. All methods are
// synchronous and operate on the one exclusively-owned position; the
// Coordinator layers turn arbitration and asynchrony on top.
type Game struct {
	pos     *Position
	history []MoveRecord
	result  *GameResult
}

// FEN takes position text and returns a function that updates the game to
// reflect it, dropping any existing history. The returned function is
// designed to be used in the NewGame constructor. An error is returned if
// the text cannot be parsed.
func FEN(text string) (func(*Game), error) {
	pos, err := decodeFEN(text)
	if err != nil {
		return nil, err
	}
	return func(g *Game) {
		g.pos = pos
		g.history = nil
		g.result = nil
	}, nil
}

// NewGame returns a new game in the standard starting position.
// Optional functions can be provided to configure the initial game state.
//
// Example:
//
//	// Standard game
//	game := NewGame()
//
//	// Game from position text
//	game := NewGame(FEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"))
func NewGame(options ...func(*Game)) *Game {
	game := &Game{pos: StartingPosition()}
	for _, f := range options {
		if f != nil {
			f(game)
		}
	}
	game.evaluatePositionStatus()
	return game
}

// evaluatePositionStatus derives checkmate and stalemate from the current
// position. Draw-by-repetition, the fifty-move rule and insufficient
// material are not detected.
func (g *Game) evaluatePositionStatus() {
	if g.result != nil {
		return
	}
	if len(g.pos.legalMoves()) > 0 {
		return
	}
	if g.pos.InCheck(g.pos.turn) {
		g.result = &GameResult{Winner: g.pos.turn.Other(), Reason: ReasonCheckmate}
	} else {
		g.result = &GameResult{Winner: NoColor, Reason: ReasonStalemate}
	}
}

// Turn returns the side to move.
func (g *Game) Turn() Color {
	return g.pos.turn
}

// Position returns a copy of the game's current position. Mutating it does
// not affect the game.
func (g *Game) Position() *Position {
	return g.pos.copy()
}

// FEN returns the position text of the current position.
func (g *Game) FEN() string {
	return encodeFEN(g.pos)
}

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool {
	return g.pos.InCheck(g.pos.turn)
}

// GameOver reports whether the game has ended.
func (g *Game) GameOver() bool {
	return g.result != nil
}

// Result returns the terminal outcome, or nil while the game is running.
func (g *Game) Result() *GameResult {
	if g.result == nil {
		return nil
	}
	result := *g.result
	return &result
}

// History returns a copy of the executed moves in order.
func (g *Game) History() []MoveRecord {
	return slices.Clone(g.history)
}

// LastMove returns the most recently executed move record.
func (g *Game) LastMove() (MoveRecord, bool) {
	if len(g.history) == 0 {
		return MoveRecord{}, false
	}
	return g.history[len(g.history)-1], true
}

// LegalMoves returns all legal moves in the current position, promotions
// expanded. The game is over exactly when this is empty or a terminal
// result has been recorded.
func (g *Game) LegalMoves() []Move {
	if g.result != nil {
		return nil
	}
	return g.pos.legalMoves()
}

// LegalMovesFrom returns the legal destination squares for the piece on
// from.
func (g *Game) LegalMovesFrom(from Square) []Square {
	return g.pos.LegalMovesFrom(from)
}

// PatternMoves returns the movement-pattern destination squares for the
// piece on from, ignoring occupancy. Widgets use this for premove hints.
func (g *Game) PatternMoves(from Square) []Square {
	return g.pos.PatternMoves(from)
}

// Analyze classifies a move attempt without executing it.
func (g *Game) Analyze(from, to Square, promotion PieceType) MoveAnalysis {
	return g.pos.Analyze(from, to, promotion)
}

// Move validates and executes a move attempt. Illegal attempts return a
// zero MoveResult; a legal pawn push to the last rank without a promotion
// piece returns PromotionRequired with the board untouched. Validation
// strictly precedes mutation, so no failure path leaves the position
// partially changed.
func (g *Game) Move(from, to Square, promotion PieceType) MoveResult {
	if g.result != nil {
		return MoveResult{}
	}
	a := g.pos.Analyze(from, to, promotion)
	if !a.Valid {
		return MoveResult{}
	}
	if a.PromotionRequired {
		return MoveResult{Move: a.move, Category: PromotionMove, PromotionRequired: true}
	}
	check := g.pos.apply(a)
	g.history = append(g.history, MoveRecord{
		Move:     a.move,
		Category: a.Category,
		Captured: a.Captured,
		Check:    check,
	})
	g.evaluatePositionStatus()
	return MoveResult{
		Success:  true,
		Move:     a.move,
		Category: a.Category,
		Captured: a.Captured,
		RookMove: a.RookMove,
		Check:    check,
	}
}

// Resign ends the game in favor of the other color. If the game has already
// ended the call is ignored.
func (g *Game) Resign(c Color) {
	if g.result != nil || c == NoColor {
		return
	}
	g.result = &GameResult{Winner: c.Other(), Reason: ReasonResignation}
}

// TimeoutLoss ends the game against the color whose clock ran out. Clocks
// themselves live with the caller.
func (g *Game) TimeoutLoss(c Color) {
	if g.result != nil || c == NoColor {
		return
	}
	g.result = &GameResult{Winner: c.Other(), Reason: ReasonTimeout}
}

// Draw ends the game as an agreed draw.
func (g *Game) Draw() {
	if g.result != nil {
		return
	}
	g.result = &GameResult{Winner: NoColor, Reason: ReasonDraw}
}

// Reset restores the standard opening array and clears history and result.
func (g *Game) Reset() {
	g.pos = StartingPosition()
	g.history = nil
	g.result = nil
}

// LoadPosition replaces the whole game with the given position text,
// clearing history and result. On failure the game is left untouched.
func (g *Game) LoadPosition(text string) error {
	pos, err := decodeFEN(text)
	if err != nil {
		return err
	}
	g.pos = pos
	g.history = nil
	g.result = nil
	g.evaluatePositionStatus()
	return nil
}

// Clone returns a deep copy of the game.
func (g *Game) Clone() *Game {
	clone := &Game{pos: g.pos.copy(), history: slices.Clone(g.history)}
	if g.result != nil {
		result := *g.result
		clone.result = &result
	}
	return clone
}

// initialCounts is the per-type piece count of the opening array.
var initialCounts = map[PieceType]int{Pawn: 8, Rook: 2, Knight: 2, Bishop: 2, Queen: 1, King: 1}

// CapturedTally approximates the pieces each color has lost by diffing the
// opening-array counts against the current board. Promotions skew the
// result: a promoted queen hides one captured pawn. MoveRecord.Captured in
// the history carries the exact captures when that matters; the tally is
// kept count-based so it stays meaningful for positions imported without a
// history.
func (g *Game) CapturedTally() map[Color]map[PieceType]int {
	tally := map[Color]map[PieceType]int{White: {}, Black: {}}
	for _, c := range []Color{White, Black} {
		for t, n := range initialCounts {
			if missing := n - g.pos.board.count(c, t); missing > 0 {
				tally[c][t] = missing
			}
		}
	}
	return tally
}

// State returns a freshly computed snapshot of the game.
func (g *Game) State() GameState {
	return GameState{
		FEN:        encodeFEN(g.pos),
		Turn:       g.pos.turn,
		LegalMoves: g.LegalMoves(),
		InCheck:    g.pos.InCheck(g.pos.turn),
		GameOver:   g.result != nil,
		Result:     g.Result(),
		History:    slices.Clone(g.history),
		Captured:   g.CapturedTally(),
	}
}
