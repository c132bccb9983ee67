// FILE: checkers/internal/client/session/session.go
package session

import (
	"io"

	"checkers/internal/client/api"
	"checkers/internal/client/display"
	"checkers/internal/server/game"
)

// Session holds the state of one terminal player
type Session struct {
	Game     *game.Game
	Depth    int
	Theme    display.Theme
	Remote   *api.Client
	Username string
	Verbose  bool
	Out      io.Writer
}

func (s *Session) GetGame() *game.Game {
	return s.Game
}

func (s *Session) SetGame(g *game.Game) {
	s.Game = g
}

func (s *Session) GetDepth() int {
	return s.Depth
}

func (s *Session) SetDepth(depth int) {
	s.Depth = depth
}

func (s *Session) GetTheme() display.Theme {
	return s.Theme
}

func (s *Session) SetTheme(theme display.Theme) {
	s.Theme = theme
}

// GetRemote returns the analysis server client, nil when searching locally
func (s *Session) GetRemote() *api.Client {
	return s.Remote
}

func (s *Session) SetRemote(c *api.Client) {
	s.Remote = c
}

func (s *Session) GetUsername() string {
	return s.Username
}

func (s *Session) SetUsername(username string) {
	s.Username = username
}

func (s *Session) IsVerbose() bool {
	return s.Verbose
}

func (s *Session) SetVerbose(v bool) {
	s.Verbose = v
}

func (s *Session) Output() io.Writer {
	return s.Out
}
