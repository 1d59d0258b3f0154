package shahmat

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/exp/maps"
)

// A PlayerKind tells the coordinator who produces moves for a color.
type PlayerKind uint8

const (
	// HumanPlayer moves arrive through SubmitMove.
	HumanPlayer PlayerKind = iota
	// ExternalPlayer moves are requested from a MoveSource.
	ExternalPlayer
)

// A Phase is the coordinator's arbitration state.
type Phase uint8

const (
	// PhaseIdle is the state before Start and after Reset or LoadPosition.
	PhaseIdle Phase = iota
	// PhaseHumanToMove waits for SubmitMove from the side to move.
	PhaseHumanToMove
	// PhaseExternalMoveRequested has an external request issued (or failed
	// and awaiting a retry) but the source not yet running.
	PhaseExternalMoveRequested
	// PhaseExternalThinking has the external source computing a move.
	PhaseExternalThinking
	// PhaseAnimating holds after a committed move until AnimationDone. The
	// mutation is already committed; the phase only defers arbitration.
	PhaseAnimating
	// PhasePromotionPending waits for ProvidePromotion to complete a legal
	// but incomplete pawn push to the last rank.
	PhasePromotionPending
	// PhaseGameOver is terminal until Reset or LoadPosition.
	PhaseGameOver
)

var phaseNames = [...]string{
	PhaseIdle:                  "idle",
	PhaseHumanToMove:           "human to move",
	PhaseExternalMoveRequested: "external move requested",
	PhaseExternalThinking:      "external thinking",
	PhaseAnimating:             "animating",
	PhasePromotionPending:      "promotion pending",
	PhaseGameOver:              "game over",
}

// String implements the fmt.Stringer interface.
func (p Phase) String() string {
	if int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// A MoveSource produces a move for the side to move in the given state. The
// coordinator enforces its timeout through ctx and abandons sources that
// outlive it, so a source that ignores ctx still cannot stall the game.
type MoveSource func(ctx context.Context, state GameState, lastMove *Move) (Move, error)

// A MoveListener observes committed moves. Listeners run on the
// coordinator's goroutine with its lock held and must not call back into
// the coordinator.
type MoveListener func(result MoveResult, state GameState)

var defaultPlayers = map[Color]PlayerKind{White: HumanPlayer, Black: HumanPlayer}

// A Coordinator arbitrates a single Game between human input, asynchronous
// external move sources and queued premoves. It is the only layer that
// deals with asynchrony; the engine below it stays synchronous and is never
// touched by the coordinator except through full validate-then-execute
// calls.
//
// Every external request carries a monotonically increasing token. A
// response whose token is no longer current is discarded, so a reset or
// position load cancels an in-flight request by invalidation alone, without
// abort plumbing. At most one live request exists per turn.
type Coordinator struct {
	mu       sync.Mutex
	game     *Game
	players  map[Color]PlayerKind
	sources  map[Color]MoveSource
	timeout  time.Duration
	phase    Phase
	token    uint64
	premoves map[Color][]Move
	pending  *pendingPromotion
	onError  func(*GameError)
	onMove   MoveListener
	animated bool
}

type pendingPromotion struct {
	from, to Square
	color    Color
}

// A CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithExternalPlayer hands the given color to the external move source.
func WithExternalPlayer(c Color, source MoveSource) CoordinatorOption {
	return func(co *Coordinator) {
		co.players[c] = ExternalPlayer
		co.sources[c] = source
	}
}

// WithMoveTimeout bounds each external move request. Zero means no limit.
func WithMoveTimeout(d time.Duration) CoordinatorOption {
	return func(co *Coordinator) {
		co.timeout = d
	}
}

// WithErrorSink routes structured errors to f. The sink runs on the
// coordinator's goroutine with its lock held and must not call back in.
func WithErrorSink(f func(*GameError)) CoordinatorOption {
	return func(co *Coordinator) {
		co.onError = f
	}
}

// WithMoveListener registers f to observe every committed move.
func WithMoveListener(f MoveListener) CoordinatorOption {
	return func(co *Coordinator) {
		co.onMove = f
	}
}

// WithAnimation makes the coordinator hold in PhaseAnimating after each
// committed move until AnimationDone is called. Animation is presentation
// only: the move is committed before the phase is entered and the engine
// never waits on it.
func WithAnimation() CoordinatorOption {
	return func(co *Coordinator) {
		co.animated = true
	}
}

// NewCoordinator wires a coordinator around game. Both colors default to
// human players.
func NewCoordinator(game *Game, opts ...CoordinatorOption) *Coordinator {
	co := &Coordinator{
		game:     game,
		players:  maps.Clone(defaultPlayers),
		sources:  make(map[Color]MoveSource),
		premoves: make(map[Color][]Move),
		phase:    PhaseIdle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(co)
		}
	}
	return co
}

// Phase returns the current arbitration phase.
func (co *Coordinator) Phase() Phase {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.phase
}

// State returns a fresh snapshot of the underlying game.
func (co *Coordinator) State() GameState {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.game.State()
}

// Premoves returns a copy of the queued premoves for a color.
func (co *Coordinator) Premoves(c Color) []Move {
	co.mu.Lock()
	defer co.mu.Unlock()
	return slices.Clone(co.premoves[c])
}

// Start begins arbitration for the side to move. The coordinator stays idle
// until called.
func (co *Coordinator) Start() {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.phase != PhaseIdle {
		return
	}
	co.arbitrate()
}

// Stop abandons arbitration and returns to PhaseIdle without touching the
// game. Any in-flight external request is stranded by the token bump.
func (co *Coordinator) Stop() {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.token++
	co.phase = PhaseIdle
}

// Reset returns the game to the opening position, drops all premoves and
// forces PhaseIdle. The token bump strands any in-flight external request.
func (co *Coordinator) Reset() {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.token++
	co.game.Reset()
	co.premoves = make(map[Color][]Move)
	co.pending = nil
	co.phase = PhaseIdle
}

// LoadPosition replaces the game with the given position text and forces
// PhaseIdle. On parse failure nothing changes, not even the phase.
func (co *Coordinator) LoadPosition(text string) error {
	co.mu.Lock()
	defer co.mu.Unlock()
	if err := co.game.LoadPosition(text); err != nil {
		return err
	}
	co.token++
	co.premoves = make(map[Color][]Move)
	co.pending = nil
	co.phase = PhaseIdle
	return nil
}

// arbitrate decides the next phase for the side to move. Callers hold the
// mutex.
func (co *Coordinator) arbitrate() {
	if co.game.GameOver() {
		co.phase = PhaseGameOver
		return
	}
	turn := co.game.Turn()
	if co.players[turn] == ExternalPlayer {
		co.requestExternalMove(turn)
		return
	}
	if co.consumePremove(turn) {
		return
	}
	co.phase = PhaseHumanToMove
}

// requestExternalMove issues a tokened request to the color's move source.
// Callers hold the mutex.
func (co *Coordinator) requestExternalMove(turn Color) {
	source := co.sources[turn]
	if source == nil {
		// Misconfigured external color; fall back to human input.
		co.phase = PhaseHumanToMove
		return
	}
	co.token++
	token := co.token
	co.phase = PhaseExternalMoveRequested
	state := co.game.State()
	var last *Move
	if rec, ok := co.game.LastMove(); ok {
		move := rec.Move
		last = &move
	}
	go co.awaitExternalMove(token, turn, source, state, last)
}

// awaitExternalMove runs off the caller's goroutine: it invokes the source,
// enforces the timeout, and delivers the response only if its token is
// still current.
func (co *Coordinator) awaitExternalMove(token uint64, turn Color, source MoveSource, state GameState, last *Move) {
	co.mu.Lock()
	if token != co.token {
		co.mu.Unlock()
		return
	}
	co.phase = PhaseExternalThinking
	co.mu.Unlock()

	ctx := context.Background()
	if co.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, co.timeout)
		defer cancel()
	}

	type reply struct {
		move Move
		err  error
	}
	replies := make(chan reply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				replies <- reply{err: fmt.Errorf("move source panicked: %v", r)}
			}
		}()
		move, err := source(ctx, state, last)
		replies <- reply{move: move, err: err}
	}()

	var r reply
	select {
	case r = <-replies:
	case <-ctx.Done():
		r = reply{err: ctx.Err()}
	}
	co.deliverExternalMove(token, turn, r.move, r.err)
}

func (co *Coordinator) deliverExternalMove(token uint64, turn Color, move Move, err error) {
	co.mu.Lock()
	defer co.mu.Unlock()
	if token != co.token {
		// Superseded by a reset, load or retry; the board may have changed
		// since the request was issued.
		return
	}
	if err != nil {
		kind := ErrKindCallbackError
		if errors.Is(err, context.DeadlineExceeded) {
			kind = ErrKindTimeout
		}
		co.phase = PhaseExternalMoveRequested
		co.emitError(&GameError{Kind: kind, Player: turn, Message: "external move source failed", Cause: err})
		return
	}
	result := co.game.Move(move.From, move.To, move.Promotion)
	if !result.Success {
		message := "external source returned an illegal move"
		if result.PromotionRequired {
			message = "external source omitted the promotion piece"
		}
		mv := move
		co.phase = PhaseExternalMoveRequested
		co.emitError(&GameError{Kind: ErrKindInvalidMove, Player: turn, Move: &mv, Message: message})
		return
	}
	co.commit(result)
}

// RetryExternalMove re-issues the external request after a failure. It also
// invalidates any request still in flight, so there is never more than one
// live request.
func (co *Coordinator) RetryExternalMove() {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.phase != PhaseExternalMoveRequested && co.phase != PhaseExternalThinking {
		return
	}
	co.requestExternalMove(co.game.Turn())
}

// commit publishes a committed move and drives arbitration forward. Callers
// hold the mutex.
func (co *Coordinator) commit(result MoveResult) {
	if co.onMove != nil {
		co.onMove(result, co.game.State())
	}
	if co.animated {
		co.phase = PhaseAnimating
		return
	}
	co.arbitrate()
}

// AnimationDone reports that the consumer finished replaying the last
// committed move; arbitration resumes. A no-op outside PhaseAnimating.
func (co *Coordinator) AnimationDone() {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.phase != PhaseAnimating {
		return
	}
	co.arbitrate()
}

// SubmitMove is the human input path. When it is player's turn the move is
// validated and executed. Otherwise — including while an animation is
// pending — the attempt is queued as a premove. A legal pawn push to the
// last rank without a promotion piece parks the coordinator in
// PhasePromotionPending until ProvidePromotion supplies one.
func (co *Coordinator) SubmitMove(player Color, from, to Square, promotion PieceType) error {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.players[player] != HumanPlayer {
		return &GameError{Kind: ErrKindInvalidMove, Player: player, Message: "color is not human controlled"}
	}
	switch co.phase {
	case PhaseIdle:
		return &GameError{Kind: ErrKindInvalidMove, Player: player, Message: "coordinator not started"}
	case PhaseGameOver:
		return &GameError{Kind: ErrKindInvalidMove, Player: player, Message: "game is over"}
	case PhasePromotionPending:
		return &GameError{Kind: ErrKindInvalidMove, Player: player, Message: "a promotion piece is pending"}
	}
	if co.phase != PhaseHumanToMove || co.game.Turn() != player {
		return co.queuePremove(player, Move{From: from, To: to, Promotion: promotion})
	}
	result := co.game.Move(from, to, promotion)
	if result.PromotionRequired {
		co.pending = &pendingPromotion{from: from, to: to, color: player}
		co.phase = PhasePromotionPending
		return nil
	}
	if !result.Success {
		mv := Move{From: from, To: to, Promotion: promotion}
		gameErr := &GameError{Kind: ErrKindInvalidMove, Player: player, Move: &mv, Message: "illegal move"}
		co.emitError(gameErr)
		return gameErr
	}
	co.commit(result)
	return nil
}

// ProvidePromotion completes a move parked in PhasePromotionPending. An
// unacceptable piece type leaves the coordinator in the same phase.
func (co *Coordinator) ProvidePromotion(pt PieceType) error {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.phase != PhasePromotionPending || co.pending == nil {
		return &GameError{Kind: ErrKindInvalidMove, Player: NoColor, Message: "no promotion pending"}
	}
	pending := co.pending
	result := co.game.Move(pending.from, pending.to, pt)
	if !result.Success {
		mv := Move{From: pending.from, To: pending.to, Promotion: pt}
		gameErr := &GameError{Kind: ErrKindInvalidMove, Player: pending.color, Move: &mv, Message: "illegal promotion piece"}
		co.emitError(gameErr)
		return gameErr
	}
	co.pending = nil
	co.commit(result)
	return nil
}

// queuePremove validates the attempt against a projection of the board with
// the already-queued premoves applied and, if it fits the piece's movement
// pattern there, appends it to the player's queue. Callers hold the mutex.
func (co *Coordinator) queuePremove(player Color, move Move) error {
	projected := co.game.Position()
	for _, queued := range co.premoves[player] {
		piece := projected.board.PieceAt(queued.From)
		if queued.Promotion != NoPieceType {
			piece = Piece{Type: queued.Promotion, Color: player}
		}
		projected.board.setPiece(queued.To, piece)
		projected.board.setPiece(queued.From, NoPiece)
	}
	ok := projected.board.PieceAt(move.From).Color == player
	if ok {
		ok = false
		for _, sq := range projected.PatternMoves(move.From) {
			if sq == move.To {
				ok = true
				break
			}
		}
	}
	if !ok {
		mv := move
		gameErr := &GameError{Kind: ErrKindInvalidMove, Player: player, Move: &mv, Message: "premove does not fit any movement pattern"}
		co.emitError(gameErr)
		return gameErr
	}
	co.premoves[player] = append(co.premoves[player], move)
	return nil
}

// consumePremove pops the head of the player's queue and tries it against
// the real board. The remaining queue survives a successful head; an
// illegal head drops the whole queue silently, which is the premove
// contract. Returns true if a move was committed. Callers hold the mutex.
func (co *Coordinator) consumePremove(player Color) bool {
	queue := co.premoves[player]
	if len(queue) == 0 {
		return false
	}
	move := queue[0]
	co.premoves[player] = queue[1:]
	result := co.game.Move(move.From, move.To, move.Promotion)
	if !result.Success {
		delete(co.premoves, player)
		return false
	}
	co.commit(result)
	return true
}

func (co *Coordinator) emitError(err *GameError) {
	if co.onError != nil {
		co.onError(err)
	}
}
