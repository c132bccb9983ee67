// FILE: checkers/internal/server/game/game.go
package game

import (
	"errors"
	"fmt"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
)

var (
	ErrGameOver    = errors.New("game is over")
	ErrIllegalMove = errors.New("illegal move")
)

type Snapshot struct {
	Layout       string     `json:"layout"`
	PreviousMove string     `json:"previousMove"`
	NextTurn     core.Color `json:"nextTurn"`

	position board.Board
}

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move   string     `json:"move"`
	Color  core.Color `json:"color"`
	State  core.State `json:"state"`
	Score  int        `json:"score"`
	Depth  int        `json:"depth"`
	Nodes  int64      `json:"nodes"`
	Jumped int        `json:"jumped"`
}

// Game is an in-memory game between a human side and the engine
type Game struct {
	snapshots  []Snapshot
	human      core.Color
	state      core.State
	lastResult *MoveResult
}

func New(initial *board.Board, startingTurn, human core.Color) *Game {
	g := &Game{
		snapshots: []Snapshot{
			{
				Layout:   initial.Layout(),
				NextTurn: startingTurn,
				position: *initial.Clone(),
			},
		},
		human: human,
	}
	g.state = engine.Outcome(initial, startingTurn)
	return g
}

// CurrentSnapshot returns the latest game snapshot
func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

// Board returns a copy of the current position
func (g *Game) Board() *board.Board {
	snap := g.CurrentSnapshot()
	return snap.position.Clone()
}

func (g *Game) Layout() string {
	return g.CurrentSnapshot().Layout
}

func (g *Game) NextTurnColor() core.Color {
	return g.CurrentSnapshot().NextTurn
}

func (g *Game) HumanColor() core.Color {
	return g.human
}

func (g *Game) IsComputerTurn() bool {
	return g.state == core.StateOngoing && g.NextTurnColor() != g.human
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

func (g *Game) State() core.State {
	return g.state
}

// LegalMoves lists the moves available to the side to move
func (g *Game) LegalMoves() []board.Move {
	if g.state != core.StateOngoing {
		return nil
	}
	snap := g.CurrentSnapshot()
	return engine.GenerateMoves(&snap.position, snap.NextTurn)
}

// Play applies a move for the side to move after checking it is legal
func (g *Game) Play(m board.Move) (*MoveResult, error) {
	if g.state != core.StateOngoing {
		return nil, ErrGameOver
	}

	b := g.Board()
	color := g.NextTurnColor()
	if !engine.IsLegal(b, color, m) {
		return nil, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	result := g.apply(b, m, color)
	result.Score = engine.Evaluate(g.Board(), color)
	return result, nil
}

// PlayComputer searches the current position and plays the chosen move
func (g *Game) PlayComputer(depth int) (*MoveResult, error) {
	if g.state != core.StateOngoing {
		return nil, ErrGameOver
	}
	if err := engine.ValidateDepth(depth); err != nil {
		return nil, err
	}

	b := g.Board()
	color := g.NextTurnColor()
	res := engine.Search(b, color, depth)
	if res.Move == nil {
		g.state = core.WinState(core.OppositeColor(color))
		return nil, ErrGameOver
	}

	result := g.apply(b, res.Move, color)
	result.Score = res.Score
	result.Depth = res.Depth
	result.Nodes = res.Nodes
	return result, nil
}

func (g *Game) apply(b *board.Board, m board.Move, color core.Color) *MoveResult {
	engine.ApplyMove(b, m)
	next := core.OppositeColor(color)

	g.snapshots = append(g.snapshots, Snapshot{
		Layout:       b.Layout(),
		PreviousMove: m.String(),
		NextTurn:     next,
		position:     *b,
	})
	g.state = engine.Outcome(b, next)

	g.lastResult = &MoveResult{
		Move:   m.String(),
		Color:  color,
		State:  g.state,
		Jumped: len(m.Captures()),
	}
	return g.lastResult
}

func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, availableMoves)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	snap := g.CurrentSnapshot()
	g.state = engine.Outcome(&snap.position, snap.NextTurn)
	g.lastResult = nil
	return nil
}

func (g *Game) Moves() []string {
	moves := []string{}
	for i := 1; i < len(g.snapshots); i++ {
		if g.snapshots[i].PreviousMove != "" {
			moves = append(moves, g.snapshots[i].PreviousMove)
		}
	}
	return moves
}

func (g *Game) InitialLayout() string {
	if len(g.snapshots) > 0 {
		return g.snapshots[0].Layout
	}
	return board.StartingLayout
}
