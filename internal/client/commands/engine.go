package commands

import (
	"fmt"
	"strconv"
	"strings"

	"checkers/internal/client/display"
	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
	"checkers/internal/server/game"
)

func (r *Registry) registerEngineCommands() {
	r.Register(&Command{
		Name:        "moves",
		ShortName:   "l",
		Description: "List legal moves for the side to move",
		Usage:       "moves",
		Handler:     legalMovesHandler,
	})

	r.Register(&Command{
		Name:        "eval",
		ShortName:   "e",
		Description: "Material evaluation of the current position",
		Usage:       "eval",
		Handler:     evalHandler,
	})

	r.Register(&Command{
		Name:        "depth",
		ShortName:   "d",
		Description: "Show or set the engine search depth",
		Usage:       fmt.Sprintf("depth [1-%d]", engine.MaxSearchDepth),
		Handler:     depthHandler,
	})

	r.Register(&Command{
		Name:        "squares",
		ShortName:   "q",
		Description: "Show square numbering used by move notation",
		Usage:       "squares",
		Handler:     squaresHandler,
	})

	r.Register(&Command{
		Name:        "theme",
		ShortName:   "t",
		Description: "Set board color theme",
		Usage:       "theme <off|brown|green|gray>",
		Handler:     themeHandler,
	})

	r.Register(&Command{
		Name:        "verbose",
		ShortName:   "v",
		Description: "Toggle search statistics and request tracing",
		Usage:       "verbose",
		Handler:     verboseHandler,
	})
}

// playEngineMove lets the configured engine, local or remote, play for the side to move
func playEngineMove(s Session, g *game.Game) (*game.MoveResult, error) {
	remote := s.GetRemote()
	if remote == nil {
		return g.PlayComputer(s.GetDepth())
	}

	if g.State() != core.StateOngoing {
		return nil, game.ErrGameOver
	}
	resp, err := remote.Search(g.Board().Rows(), g.NextTurnColor(), s.GetDepth())
	if err != nil {
		return nil, fmt.Errorf("remote search: %w", err)
	}
	if resp.Move == nil {
		return nil, game.ErrGameOver
	}

	m, err := board.ParseMove(resp.Move.Notation)
	if err != nil {
		return nil, fmt.Errorf("remote search returned %q: %w", resp.Move.Notation, err)
	}
	result, err := g.Play(m)
	if err != nil {
		return nil, fmt.Errorf("remote search returned %s: %w", m, err)
	}
	result.Score = resp.Score
	result.Depth = resp.Depth
	result.Nodes = resp.Nodes
	return result, nil
}

func legalMovesHandler(s Session, args []string) error {
	g, err := currentGame(s)
	if err != nil {
		return err
	}

	moves := g.LegalMoves()
	out := s.Output()
	if len(moves) == 0 {
		fmt.Fprintln(out, "No legal moves")
		return nil
	}

	notations := make([]string, len(moves))
	for i, m := range moves {
		notations[i] = m.String()
	}
	label := "Moves"
	if moves[0].IsJump() {
		label = "Captures (forced)"
	}
	fmt.Fprintf(out, "%s for %s: %s\n", label, display.ColorForTurn(g.NextTurnColor()), strings.Join(notations, " "))
	return nil
}

func evalHandler(s Session, args []string) error {
	g, err := currentGame(s)
	if err != nil {
		return err
	}

	b := g.Board()
	out := s.Output()
	for _, color := range []core.Color{core.ColorBlack, core.ColorWhite} {
		men, kings := b.Count(color)
		fmt.Fprintf(out, "%s: %d men, %d kings\n", display.ColorForTurn(color), men, kings)
	}
	turn := g.NextTurnColor()
	fmt.Fprintf(out, "Score for %s: %d\n", display.ColorForTurn(turn), engine.Evaluate(b, turn))
	return nil
}

func depthHandler(s Session, args []string) error {
	out := s.Output()
	if len(args) == 0 {
		fmt.Fprintf(out, "Search depth: %d\n", s.GetDepth())
		return nil
	}

	depth, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid depth: %s", args[0])
	}
	if err := engine.ValidateDepth(depth); err != nil {
		return err
	}
	s.SetDepth(depth)
	fmt.Fprintf(out, "Search depth set to %d\n", depth)
	return nil
}

func squaresHandler(s Session, args []string) error {
	display.RenderSquares(s.Output())
	return nil
}

func themeHandler(s Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: theme <off|brown|green|gray>")
	}
	theme, err := display.ParseTheme(args[0])
	if err != nil {
		return err
	}
	s.SetTheme(theme)
	fmt.Fprintf(s.Output(), "Theme set to %s\n", theme)
	return nil
}

func verboseHandler(s Session, args []string) error {
	s.SetVerbose(!s.IsVerbose())
	fmt.Fprintf(s.Output(), "Verbose: %v\n", s.IsVerbose())
	return nil
}
