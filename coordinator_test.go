package shahmat

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pollWait = 2 * time.Second
	pollTick = 5 * time.Millisecond
)

// chanSource returns a MoveSource fed by the test through a channel. It
// honors ctx so a stranded source goroutine unwinds with the test.
func chanSource(moves <-chan Move) MoveSource {
	return func(ctx context.Context, state GameState, lastMove *Move) (Move, error) {
		select {
		case move := <-moves:
			return move, nil
		case <-ctx.Done():
			return Move{}, ctx.Err()
		}
	}
}

func submit(t *testing.T, co *Coordinator, player Color, move string) {
	t.Helper()
	m := mustMove(move)
	require.NoError(t, co.SubmitMove(player, m.From, m.To, m.Promotion))
}

func TestCoordinatorIdleUntilStart(t *testing.T) {
	co := NewCoordinator(NewGame())
	require.Equal(t, PhaseIdle, co.Phase())
	err := co.SubmitMove(White, mustSquare("e2"), mustSquare("e4"), NoPieceType)
	var gameErr *GameError
	require.ErrorAs(t, err, &gameErr)
	require.Equal(t, ErrKindInvalidMove, gameErr.Kind)

	co.Start()
	require.Equal(t, PhaseHumanToMove, co.Phase())
	submit(t, co, White, "e2e4")
	require.Len(t, co.State().History, 1)
}

func TestSubmitForExternallyControlledColor(t *testing.T) {
	blocked := make(chan Move)
	defer close(blocked) // unblocks the stranded source; the reply is stale
	co := NewCoordinator(NewGame(), WithExternalPlayer(White, chanSource(blocked)))
	co.Start()
	err := co.SubmitMove(White, mustSquare("e2"), mustSquare("e4"), NoPieceType)
	var gameErr *GameError
	require.ErrorAs(t, err, &gameErr)
	require.Equal(t, ErrKindInvalidMove, gameErr.Kind)
	co.Stop()
}

func TestHumanThenExternalMove(t *testing.T) {
	blackMoves := make(chan Move, 1)
	co := NewCoordinator(NewGame(), WithExternalPlayer(Black, chanSource(blackMoves)))
	co.Start()
	require.Equal(t, PhaseHumanToMove, co.Phase())

	submit(t, co, White, "e2e4")
	blackMoves <- mustMove("e7e5")
	require.Eventually(t, func() bool {
		return len(co.State().History) == 2
	}, pollWait, pollTick)
	require.Equal(t, PhaseHumanToMove, co.Phase())
	require.Equal(t, "e7e5", co.State().History[1].Move.String())
	require.Equal(t, White, co.State().Turn)
}

func TestExternalSourceSeesLastMove(t *testing.T) {
	got := make(chan *Move, 1)
	co := NewCoordinator(NewGame(), WithExternalPlayer(Black,
		func(ctx context.Context, state GameState, lastMove *Move) (Move, error) {
			got <- lastMove
			return mustMove("e7e5"), nil
		}))
	co.Start()
	submit(t, co, White, "e2e4")
	select {
	case last := <-got:
		require.NotNil(t, last)
		require.Equal(t, "e2e4", last.String())
	case <-time.After(pollWait):
		t.Fatal("source never invoked")
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	release := make(chan Move)
	co := NewCoordinator(NewGame(), WithExternalPlayer(White, chanSource(release)))
	co.Start()
	require.Eventually(t, func() bool {
		return co.Phase() == PhaseExternalThinking
	}, pollWait, pollTick)

	co.Reset()
	require.Equal(t, PhaseIdle, co.Phase())

	release <- mustMove("e2e4")
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, co.State().History)
	assert.Equal(t, PhaseIdle, co.Phase())
}

func TestStopStrandsInFlightRequest(t *testing.T) {
	release := make(chan Move)
	co := NewCoordinator(NewGame(), WithExternalPlayer(White, chanSource(release)))
	co.Start()
	require.Eventually(t, func() bool {
		return co.Phase() == PhaseExternalThinking
	}, pollWait, pollTick)

	co.Stop()
	release <- mustMove("e2e4")
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, co.State().History)
}

func TestUncooperativeSourceTimesOut(t *testing.T) {
	errs := make(chan *GameError, 1)
	block := make(chan struct{})
	co := NewCoordinator(NewGame(),
		WithExternalPlayer(White, func(ctx context.Context, state GameState, lastMove *Move) (Move, error) {
			// Deliberately ignores ctx.
			<-block
			return Move{}, nil
		}),
		WithMoveTimeout(30*time.Millisecond),
		WithErrorSink(func(e *GameError) { errs <- e }),
	)
	co.Start()
	defer close(block)

	select {
	case e := <-errs:
		require.Equal(t, ErrKindTimeout, e.Kind)
		require.Equal(t, White, e.Player)
		require.ErrorIs(t, e, context.DeadlineExceeded)
	case <-time.After(pollWait):
		t.Fatal("timeout never surfaced")
	}
	require.Equal(t, PhaseExternalMoveRequested, co.Phase())
	assert.Empty(t, co.State().History)
}

func TestRetryAfterSourceError(t *testing.T) {
	errs := make(chan *GameError, 1)
	var calls atomic.Int32
	co := NewCoordinator(NewGame(),
		WithExternalPlayer(White, func(ctx context.Context, state GameState, lastMove *Move) (Move, error) {
			if calls.Add(1) == 1 {
				return Move{}, errors.New("engine crashed")
			}
			return mustMove("e2e4"), nil
		}),
		WithErrorSink(func(e *GameError) { errs <- e }),
	)
	co.Start()

	select {
	case e := <-errs:
		require.Equal(t, ErrKindCallbackError, e.Kind)
	case <-time.After(pollWait):
		t.Fatal("error never surfaced")
	}
	require.Equal(t, PhaseExternalMoveRequested, co.Phase())

	co.RetryExternalMove()
	require.Eventually(t, func() bool {
		return len(co.State().History) == 1
	}, pollWait, pollTick)
	require.Equal(t, "e2e4", co.State().History[0].Move.String())
	require.Equal(t, PhaseHumanToMove, co.Phase())
}

func TestIllegalExternalMoveSurfaced(t *testing.T) {
	errs := make(chan *GameError, 1)
	var calls atomic.Int32
	co := NewCoordinator(NewGame(),
		WithExternalPlayer(White, func(ctx context.Context, state GameState, lastMove *Move) (Move, error) {
			if calls.Add(1) == 1 {
				return mustMove("e2e5"), nil
			}
			return mustMove("e2e4"), nil
		}),
		WithErrorSink(func(e *GameError) { errs <- e }),
	)
	co.Start()

	select {
	case e := <-errs:
		require.Equal(t, ErrKindInvalidMove, e.Kind)
		require.NotNil(t, e.Move)
		require.Equal(t, "e2e5", e.Move.String())
	case <-time.After(pollWait):
		t.Fatal("error never surfaced")
	}
	assert.Empty(t, co.State().History)

	co.RetryExternalMove()
	require.Eventually(t, func() bool {
		return len(co.State().History) == 1
	}, pollWait, pollTick)
}

func TestPanickingSourceSurfaced(t *testing.T) {
	errs := make(chan *GameError, 1)
	co := NewCoordinator(NewGame(),
		WithExternalPlayer(White, func(ctx context.Context, state GameState, lastMove *Move) (Move, error) {
			panic("boom")
		}),
		WithErrorSink(func(e *GameError) { errs <- e }),
	)
	co.Start()

	select {
	case e := <-errs:
		require.Equal(t, ErrKindCallbackError, e.Kind)
		assert.ErrorContains(t, e.Cause, "panicked")
	case <-time.After(pollWait):
		t.Fatal("panic never surfaced")
	}
}

func TestPremoveQueuedWhileExternalThinks(t *testing.T) {
	blackMoves := make(chan Move)
	defer close(blackMoves)
	co := NewCoordinator(NewGame(), WithExternalPlayer(Black, chanSource(blackMoves)))
	co.Start()
	submit(t, co, White, "e2e4")
	require.Eventually(t, func() bool {
		return co.Phase() == PhaseExternalThinking
	}, pollWait, pollTick)

	submit(t, co, White, "d2d4")
	require.Len(t, co.Premoves(White), 1)

	blackMoves <- mustMove("e7e5")
	require.Eventually(t, func() bool {
		return len(co.State().History) == 3
	}, pollWait, pollTick)
	require.Equal(t, "d2d4", co.State().History[2].Move.String())
	require.Empty(t, co.Premoves(White))
	require.Eventually(t, func() bool {
		return co.Phase() == PhaseExternalThinking
	}, pollWait, pollTick)
	co.Stop()
}

func TestInvalidPremoveHeadClearsQueue(t *testing.T) {
	blackMoves := make(chan Move)
	co := NewCoordinator(NewGame(), WithExternalPlayer(Black, chanSource(blackMoves)))
	co.Start()
	submit(t, co, White, "e2e4")
	require.Eventually(t, func() bool {
		return co.Phase() == PhaseExternalThinking
	}, pollWait, pollTick)

	// The capture only works if Black actually puts a pawn on d5.
	submit(t, co, White, "e4d5")
	submit(t, co, White, "d5d6")
	require.Len(t, co.Premoves(White), 2)

	blackMoves <- mustMove("e7e5")
	require.Eventually(t, func() bool {
		return co.Phase() == PhaseHumanToMove
	}, pollWait, pollTick)
	assert.Len(t, co.State().History, 2)
	assert.Empty(t, co.Premoves(White), "an illegal head must drop the whole queue")
}

func TestPremoveMustFitMovementPattern(t *testing.T) {
	whiteMoves := make(chan Move)
	defer close(whiteMoves)
	co := NewCoordinator(NewGame(), WithExternalPlayer(White, chanSource(whiteMoves)))
	co.Start()

	submit(t, co, Black, "d7d5")
	err := co.SubmitMove(Black, mustSquare("e7"), mustSquare("e2"), NoPieceType)
	var gameErr *GameError
	require.ErrorAs(t, err, &gameErr)
	require.Equal(t, ErrKindInvalidMove, gameErr.Kind)
	require.Len(t, co.Premoves(Black), 1)
	co.Stop()
}

func TestPremoveValidatedAgainstProjectedBoard(t *testing.T) {
	whiteMoves := make(chan Move)
	defer close(whiteMoves)
	co := NewCoordinator(NewGame(), WithExternalPlayer(White, chanSource(whiteMoves)))
	co.Start()

	// After the queued knight hop, g8 is empty and f6 is a knight.
	submit(t, co, Black, "g8f6")
	err := co.SubmitMove(Black, mustSquare("g8"), mustSquare("h6"), NoPieceType)
	require.Error(t, err, "the projected source square is empty")
	submit(t, co, Black, "f6e4")
	require.Len(t, co.Premoves(Black), 2)
	co.Stop()
}

func TestPromotionFlowThroughCoordinator(t *testing.T) {
	fen, err := FEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	require.NoError(t, err)
	co := NewCoordinator(NewGame(fen))
	co.Start()

	require.NoError(t, co.SubmitMove(White, mustSquare("a7"), mustSquare("a8"), NoPieceType))
	require.Equal(t, PhasePromotionPending, co.Phase())

	err = co.SubmitMove(White, mustSquare("a1"), mustSquare("a2"), NoPieceType)
	require.Error(t, err, "no moves while a promotion is pending")

	err = co.ProvidePromotion(King)
	require.Error(t, err)
	require.Equal(t, PhasePromotionPending, co.Phase())

	require.NoError(t, co.ProvidePromotion(Queen))
	require.Equal(t, PhaseHumanToMove, co.Phase())
	state := co.State()
	require.Len(t, state.History, 1)
	require.Equal(t, PromotionMove, state.History[0].Category)
	require.Equal(t, "a7a8q", state.History[0].Move.String())
}

func TestProvidePromotionWithoutPending(t *testing.T) {
	co := NewCoordinator(NewGame())
	co.Start()
	require.Error(t, co.ProvidePromotion(Queen))
}

func TestAnimationDefersArbitration(t *testing.T) {
	co := NewCoordinator(NewGame(), WithAnimation())
	co.Start()

	submit(t, co, White, "e2e4")
	require.Equal(t, PhaseAnimating, co.Phase())

	// Input during the animation becomes a premove.
	submit(t, co, Black, "e7e5")
	require.Len(t, co.Premoves(Black), 1)

	co.AnimationDone()
	require.Equal(t, PhaseAnimating, co.Phase(), "the consumed premove starts its own animation")
	require.Len(t, co.State().History, 2)

	co.AnimationDone()
	require.Equal(t, PhaseHumanToMove, co.Phase())
	require.Equal(t, White, co.State().Turn)

	// AnimationDone outside the phase is a no-op.
	co.AnimationDone()
	require.Equal(t, PhaseHumanToMove, co.Phase())
}

func TestMoveListenerObservesCommits(t *testing.T) {
	var seen []string
	co := NewCoordinator(NewGame(), WithMoveListener(func(result MoveResult, state GameState) {
		seen = append(seen, result.Move.String())
	}))
	co.Start()
	submit(t, co, White, "e2e4")
	submit(t, co, Black, "e7e5")
	require.Equal(t, []string{"e2e4", "e7e5"}, seen)
}

func TestCheckmateEndsArbitration(t *testing.T) {
	fen, err := FEN("rnbqkbnr/pppp1ppp/4p3/8/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2")
	require.NoError(t, err)
	co := NewCoordinator(NewGame(fen))
	co.Start()

	submit(t, co, Black, "d8h4")
	require.Equal(t, PhaseGameOver, co.Phase())
	state := co.State()
	require.True(t, state.GameOver)
	require.Equal(t, ReasonCheckmate, state.Result.Reason)
	require.Equal(t, Black, state.Result.Winner)

	err = co.SubmitMove(White, mustSquare("e2"), mustSquare("e3"), NoPieceType)
	require.Error(t, err, "no input after the game ended")

	co.Reset()
	require.Equal(t, PhaseIdle, co.Phase())
	co.Start()
	require.Equal(t, PhaseHumanToMove, co.Phase())
	require.False(t, co.State().GameOver)
}

func TestLoadPositionThroughCoordinator(t *testing.T) {
	co := NewCoordinator(NewGame())
	co.Start()
	submit(t, co, White, "e2e4")

	require.Error(t, co.LoadPosition("not a position"))
	require.Len(t, co.State().History, 1, "a failed load must not disturb the game")

	require.NoError(t, co.LoadPosition("8/P6k/8/8/8/8/8/K7 w - - 0 1"))
	require.Equal(t, PhaseIdle, co.Phase())
	require.Empty(t, co.State().History)
	co.Start()
	require.Equal(t, PhaseHumanToMove, co.Phase())
}
