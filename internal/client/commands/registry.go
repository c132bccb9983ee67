// FILE: checkers/internal/client/commands/registry.go
package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"checkers/internal/client/api"
	"checkers/internal/client/display"
	"checkers/internal/server/board"
	"checkers/internal/server/game"
)

type Session interface {
	GetGame() *game.Game
	SetGame(*game.Game)
	GetDepth() int
	SetDepth(int)
	GetTheme() display.Theme
	SetTheme(display.Theme)
	GetRemote() *api.Client
	SetRemote(*api.Client)
	GetUsername() string
	SetUsername(string)
	IsVerbose() bool
	SetVerbose(bool)
	Output() io.Writer
}

// ErrExit is returned by the exit command to end the session
var ErrExit = errors.New("exit")

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(Session, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  Session
	commands map[string]*Command
}

func NewRegistry(session Session) *Registry {
	r := &Registry{
		session:  session,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()
	r.registerEngineCommands()
	r.registerRemoteCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the player",
		Usage:       "exit",
		Handler:     exitHandler,
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line and reports whether the session should end.
// A line that is not a command but parses as PDN is played as a move.
func (r *Registry) Execute(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}

	out := r.session.Output()
	cmdName := parts[0]
	args := parts[1:]

	cmd, exists := r.commands[cmdName]
	if !exists {
		if _, err := board.ParseMove(cmdName); err == nil {
			cmd, args = r.commands["move"], parts
		} else {
			fmt.Fprintf(out, "%sUnknown command: %s%s\n", display.Red, cmdName, display.Reset)
			fmt.Fprintf(out, "Type 'help' for available commands\n")
			return false
		}
	}

	if remote := r.session.GetRemote(); remote != nil {
		remote.SetVerbose(r.session.IsVerbose())
	}

	if err := cmd.Handler(r.session, args); err != nil {
		if errors.Is(err, ErrExit) {
			return true
		}
		fmt.Fprintf(out, "%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
	return false
}

func (r *Registry) helpHandler(s Session, args []string) error {
	out := s.Output()
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(out, "\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			fmt.Fprintf(out, "Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		fmt.Fprintf(out, "Usage: %s\n", cmd.Usage)
		return nil
	}

	fmt.Fprintf(out, "\n%sAvailable Commands:%s\n\n", display.Cyan, display.Reset)

	groups := []struct {
		title string
		names []string
	}{
		{"Game Commands", []string{"new", "move", "computer", "undo", "show", "history"}},
		{"Engine Commands", []string{"moves", "eval", "depth", "squares", "theme", "verbose"}},
		{"Server Commands", []string{"remote", "health", "login", "purge"}},
		{"Utility Commands", []string{"help", "exit"}},
	}

	for i, group := range groups {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s%s:%s\n", display.Yellow, group.title, display.Reset)
		for _, name := range group.names {
			cmd, exists := r.commands[name]
			if !exists {
				continue
			}
			shortPart := "    "
			if cmd.ShortName != "" {
				shortPart = fmt.Sprintf("[%s%s%s] ", display.Cyan, cmd.ShortName, display.Reset)
			}
			fmt.Fprintf(out, "  %s%-10s %s\n", shortPart, cmd.Name, cmd.Description)
		}
	}

	fmt.Fprintf(out, "\nType 'help <command>' for detailed usage\n")
	fmt.Fprintf(out, "A bare move such as '11-15' or '22x15' is played directly\n")
	return nil
}

func exitHandler(s Session, args []string) error {
	fmt.Fprintf(s.Output(), "%sGoodbye!%s\n", display.Cyan, display.Reset)
	return ErrExit
}
