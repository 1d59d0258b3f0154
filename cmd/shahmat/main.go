// Command shahmat plays a demo game on the terminal: two random move
// sources driven through the turn coordinator, starting from the opening
// array or a position given with -fen.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/tibordp/shahmat"
)

func main() {
	var (
		fen     = flag.String("fen", "", "start from this position text instead of the opening array")
		maxPly  = flag.Int("moves", 300, "maximum number of plies to play")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed for the move sources")
		svgPath = flag.String("svg", "", "write the final position as SVG to this file")
	)
	flag.Parse()

	config := loadConfig()
	if !config.UseColor {
		color.NoColor = true
	}

	var options []func(*shahmat.Game)
	if *fen != "" {
		option, err := shahmat.FEN(*fen)
		if err != nil {
			log.Fatalf("bad position: %v", err)
		}
		options = append(options, option)
	}
	game := shahmat.NewGame(options...)

	// Turn order serializes source calls, so sharing one rng is fine.
	rng := rand.New(rand.NewSource(*seed))
	source := func(ctx context.Context, state shahmat.GameState, lastMove *shahmat.Move) (shahmat.Move, error) {
		if config.MoveDelayMs > 0 {
			select {
			case <-time.After(time.Duration(config.MoveDelayMs) * time.Millisecond):
			case <-ctx.Done():
				return shahmat.Move{}, ctx.Err()
			}
		}
		if len(state.LegalMoves) == 0 {
			return shahmat.Move{}, fmt.Errorf("no legal moves in %s", state.FEN)
		}
		return state.LegalMoves[rng.Intn(len(state.LegalMoves))], nil
	}

	var (
		done     = make(chan struct{})
		doneOnce sync.Once
		plies    int
	)
	coordinator := shahmat.NewCoordinator(game,
		shahmat.WithExternalPlayer(shahmat.White, source),
		shahmat.WithExternalPlayer(shahmat.Black, source),
		shahmat.WithMoveTimeout(5*time.Second),
		shahmat.WithErrorSink(func(err *shahmat.GameError) {
			log.Printf("error: %v", err)
		}),
		shahmat.WithMoveListener(func(result shahmat.MoveResult, state shahmat.GameState) {
			plies++
			fmt.Printf("%3d. %s %s (%s)\n", plies, state.Turn.Other().Name(), result.Move, result.Category)
			if state.GameOver || plies >= *maxPly {
				doneOnce.Do(func() { close(done) })
			}
		}),
	)
	coordinator.Start()
	<-done
	coordinator.Stop()

	fmt.Println()
	printBoard(game.Position(), config)
	fmt.Println(game.FEN())
	if result := game.Result(); result != nil {
		fmt.Printf("%s (%s)\n", result.Reason, result.Winner.Name())
	} else {
		fmt.Printf("stopped after %d plies\n", plies)
	}

	if *svgPath != "" {
		f, err := os.Create(*svgPath)
		if err != nil {
			log.Fatalf("svg: %v", err)
		}
		shahmat.RenderSVG(f, game.Position())
		if err := f.Close(); err != nil {
			log.Fatalf("svg: %v", err)
		}
	}
}

func printBoard(pos *shahmat.Position, config Config) {
	board := pos.Board()
	light := color.New(color.FgBlack, color.BgHiWhite)
	dark := color.New(color.FgBlack, color.BgCyan)
	for rank := 7; rank >= 0; rank-- {
		fmt.Printf("%d ", rank+1)
		for file := 0; file < 8; file++ {
			piece := board.PieceAt(shahmat.Square{File: file, Rank: rank})
			cell := "  "
			if piece != shahmat.NoPiece {
				if config.Unicode {
					cell = string(piece.Glyph()) + " "
				} else {
					cell = string(piece.FENChar()) + " "
				}
			}
			painter := light
			if (file+rank)%2 == 0 {
				painter = dark
			}
			painter.Print(cell)
		}
		fmt.Println()
	}
	fmt.Println("  a b c d e f g h")
}
