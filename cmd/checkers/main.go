// FILE: cmd/checkers/main.go
// Package main implements a terminal checkers player against the engine.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"checkers/internal/client/api"
	"checkers/internal/client/commands"
	"checkers/internal/client/display"
	"checkers/internal/client/session"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

func main() {
	var (
		depth     = flag.Int("depth", 6, "Engine search depth")
		color     = flag.String("color", "b", "Your side: b or w (Black moves first)")
		theme     = flag.String("theme", "", "Board theme: off, brown, green, gray (default brown on a terminal)")
		serverURL = flag.String("server", "", "Analysis server URL for engine moves (local search if empty)")
	)
	flag.Parse()

	if err := engine.ValidateDepth(*depth); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if _, err := core.ParseColor(*color); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Plain output when piped
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	themeName := *theme
	if themeName == "" {
		themeName = string(display.ThemeOff)
		if isTTY {
			themeName = string(display.ThemeBrown)
		}
	}
	boardTheme, err := display.ParseTheme(themeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("checkers"),
		HistoryFile:     ".checkers_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	s := &session.Session{
		Depth: *depth,
		Theme: boardTheme,
		Out:   rl.Stdout(),
	}
	if *serverURL != "" {
		s.Remote = api.New(*serverURL, s.Out)
	}

	fmt.Fprintf(s.Out, "%sCheckers%s\n", display.Cyan, display.Reset)
	if s.Remote != nil {
		fmt.Fprintf(s.Out, "%sEngine: %s (depth %d)%s\n", display.Cyan, s.Remote.BaseURL, s.Depth, display.Reset)
	} else {
		fmt.Fprintf(s.Out, "%sEngine: local (depth %d)%s\n", display.Cyan, s.Depth, display.Reset)
	}
	fmt.Fprintf(s.Out, "Type 'help' for commands, 'squares' for move notation\n")

	registry := commands.NewRegistry(s)
	registry.Execute("new " + *color)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			// ^C clears the line
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}
		if registry.Execute(line) {
			break
		}
	}
}

func buildPrompt(s *session.Session) string {
	promptStr := "checkers"
	if s.Username != "" {
		promptStr += display.Yellow + " [" + display.Magenta + s.Username + display.Yellow + "]"
	}

	if g := s.Game; g != nil {
		if g.State() != core.StateOngoing {
			promptStr += " - " + g.State().String()
		} else {
			who := "you"
			if g.IsComputerTurn() {
				who = "engine"
			}
			promptStr += fmt.Sprintf(" - %s(%s) #%d", display.ColorForTurn(g.NextTurnColor()), who, len(g.Moves())+1)
		}
	}

	return display.Prompt(promptStr)
}
