// FILE: checkers/internal/client/commands/game.go
package commands

import (
	"fmt"
	"strconv"

	"checkers/internal/client/display"
	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/game"
)

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Start a new game",
		Usage:       "new [b|w] [layout turn]",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Play a move in PDN notation",
		Usage:       "move <pdn>   (e.g. 11-15, 22x15, 9x18x27)",
		Handler:     moveHandler,
	})

	r.Register(&Command{
		Name:        "computer",
		ShortName:   "c",
		Description: "Let the engine play for the side to move",
		Usage:       "computer",
		Handler:     computerMoveHandler,
	})

	r.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Description: "Undo moves",
		Usage:       "undo [count]",
		Handler:     undoHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "s",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "history",
		ShortName:   "h",
		Description: "Show the moves played so far",
		Usage:       "history",
		Handler:     historyHandler,
	})
}

// newGameHandler starts from the initial position, or from a layout string with its side to move.
// Black moves first in a regular game.
func newGameHandler(s Session, args []string) error {
	human := core.ColorBlack
	if len(args) > 0 {
		c, err := core.ParseColor(args[0])
		if err != nil {
			return err
		}
		human = c
	}

	initial := board.Starting()
	turn := core.ColorBlack
	switch len(args) {
	case 0, 1:
	case 3:
		b, err := board.ParseLayout(args[1])
		if err != nil {
			return err
		}
		t, err := core.ParseColor(args[2])
		if err != nil {
			return err
		}
		initial, turn = b, t
	default:
		return fmt.Errorf("usage: new [b|w] [layout turn]")
	}

	g := game.New(initial, turn, human)
	s.SetGame(g)

	out := s.Output()
	fmt.Fprintf(out, "%sNew game: you play %s%s\n", display.Cyan, display.ColorForTurn(human), display.Reset)
	display.RenderBoard(out, g.Board(), s.GetTheme())

	if g.State() != core.StateOngoing {
		showGameOver(s, g)
		return nil
	}
	return replyIfComputerTurn(s, g)
}

func moveHandler(s Session, args []string) error {
	g, err := currentGame(s)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: move <pdn>")
	}
	if g.IsComputerTurn() {
		return fmt.Errorf("it is the engine's turn: use 'computer'")
	}

	m, err := board.ParseMove(args[0])
	if err != nil {
		return err
	}
	result, err := g.Play(m)
	if err != nil {
		return err
	}

	showMove(s, "You", result)
	display.RenderBoard(s.Output(), g.Board(), s.GetTheme())
	if result.State != core.StateOngoing {
		showGameOver(s, g)
		return nil
	}
	return replyIfComputerTurn(s, g)
}

func computerMoveHandler(s Session, args []string) error {
	g, err := currentGame(s)
	if err != nil {
		return err
	}
	result, err := playEngineMove(s, g)
	if err != nil {
		return err
	}

	showMove(s, "Engine", result)
	display.RenderBoard(s.Output(), g.Board(), s.GetTheme())
	if result.State != core.StateOngoing {
		showGameOver(s, g)
	}
	return nil
}

// replyIfComputerTurn plays engine moves until the human is to move again.
// Passing sides do not exist in checkers, so this is at most one move.
func replyIfComputerTurn(s Session, g *game.Game) error {
	if !g.IsComputerTurn() {
		return nil
	}
	return computerMoveHandler(s, nil)
}

func undoHandler(s Session, args []string) error {
	g, err := currentGame(s)
	if err != nil {
		return err
	}

	count := 1
	if len(args) > 0 {
		count, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid undo count: %s", args[0])
		}
	}
	if err := g.UndoMoves(count); err != nil {
		return err
	}

	fmt.Fprintf(s.Output(), "Undid %d move(s)\n", count)
	display.RenderBoard(s.Output(), g.Board(), s.GetTheme())
	return nil
}

func showBoardHandler(s Session, args []string) error {
	g, err := currentGame(s)
	if err != nil {
		return err
	}

	out := s.Output()
	display.RenderBoard(out, g.Board(), s.GetTheme())
	fmt.Fprintf(out, "Layout: %s\n", g.Layout())
	if g.State() != core.StateOngoing {
		showGameOver(s, g)
		return nil
	}

	who := "you"
	if g.IsComputerTurn() {
		who = "engine"
	}
	fmt.Fprintf(out, "To move: %s (%s)\n", display.ColorForTurn(g.NextTurnColor()), who)
	if s.IsVerbose() {
		display.PrettyPrintJSON(out, g.CurrentSnapshot())
	}
	return nil
}

func historyHandler(s Session, args []string) error {
	g, err := currentGame(s)
	if err != nil {
		return err
	}

	out := s.Output()
	fmt.Fprintf(out, "You play %s\n", g.HumanColor().Name())
	fmt.Fprintf(out, "Starting layout: %s\n", g.InitialLayout())

	moves := g.Moves()
	for i := 0; i < len(moves); i += 2 {
		if i+1 < len(moves) {
			fmt.Fprintf(out, "%3d. %-10s %s\n", i/2+1, moves[i], moves[i+1])
		} else {
			fmt.Fprintf(out, "%3d. %s\n", i/2+1, moves[i])
		}
	}
	fmt.Fprintf(out, "Current layout: %s\n", g.Layout())
	fmt.Fprintf(out, "Game state: %s\n", g.State())
	return nil
}

func currentGame(s Session) (*game.Game, error) {
	g := s.GetGame()
	if g == nil {
		return nil, fmt.Errorf("no game in progress: use 'new'")
	}
	return g, nil
}

func showMove(s Session, who string, result *game.MoveResult) {
	out := s.Output()
	fmt.Fprintf(out, "%s (%s): %s%s%s", who, display.ColorForTurn(result.Color), display.Green, result.Move, display.Reset)
	if result.Jumped > 0 {
		fmt.Fprintf(out, " captures %d", result.Jumped)
	}
	if s.IsVerbose() && result.Depth > 0 {
		fmt.Fprintf(out, " (depth=%d, score=%d, nodes=%d)", result.Depth, result.Score, result.Nodes)
	}
	fmt.Fprintln(out)
}

func showGameOver(s Session, g *game.Game) {
	out := s.Output()
	winner := "Black"
	if g.State() == core.StateWhiteWins {
		winner = "White"
	}
	fmt.Fprintf(out, "\n%sGame over: %s wins%s\n", display.Magenta, winner, display.Reset)
	fmt.Fprintln(out, "Start a new game with 'new' or take moves back with 'undo'.")
}
