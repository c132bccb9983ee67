package game

import (
	"errors"
	"testing"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
)

func mustMove(t *testing.T, pdn string) board.Move {
	t.Helper()
	m, err := board.ParseMove(pdn)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", pdn, err)
	}
	return m
}

func TestPlayAndUndo(t *testing.T) {
	g := New(board.Starting(), core.ColorBlack, core.ColorBlack)
	if g.IsComputerTurn() {
		t.Fatal("human moves first")
	}

	if _, err := g.Play(mustMove(t, "9-13")); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if g.NextTurnColor() != core.ColorWhite || !g.IsComputerTurn() {
		t.Fatalf("turn did not pass to white")
	}

	res, err := g.PlayComputer(2)
	if err != nil {
		t.Fatalf("PlayComputer: %v", err)
	}
	if res.Color != core.ColorWhite || res.Nodes == 0 {
		t.Errorf("unexpected result %+v", res)
	}
	if moves := g.Moves(); len(moves) != 2 || moves[0] != "9-13" {
		t.Errorf("moves = %v", moves)
	}

	if err := g.UndoMoves(2); err != nil {
		t.Fatalf("UndoMoves: %v", err)
	}
	if g.Layout() != board.StartingLayout || g.NextTurnColor() != core.ColorBlack {
		t.Errorf("undo did not restore the start: %s", g.Layout())
	}
	if g.LastResult() != nil {
		t.Error("last result survived undo")
	}
	if err := g.UndoMoves(1); err == nil {
		t.Error("undo past the start accepted")
	}
}

func TestPlayRejectsIllegalMove(t *testing.T) {
	g := New(board.Starting(), core.ColorBlack, core.ColorBlack)
	if _, err := g.Play(board.Move{}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("empty move: %v", err)
	}
	if _, err := g.Play(mustMove(t, "21-17")); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("opponent's piece: %v", err)
	}
	if len(g.Moves()) != 0 {
		t.Error("rejected move recorded")
	}
}

func TestGameOver(t *testing.T) {
	b, err := board.ParseGrid([]string{
		"........",
		"........",
		".b......",
		"..w.....",
		"........",
		"........",
		"........",
		"........",
	})
	if err != nil {
		t.Fatal(err)
	}
	g := New(b, core.ColorBlack, core.ColorWhite)

	res, err := g.PlayComputer(3)
	if err != nil {
		t.Fatalf("PlayComputer: %v", err)
	}
	if res.Move != "9x18" || res.Jumped != 1 {
		t.Errorf("result = %+v", res)
	}
	if g.State() != core.StateBlackWins {
		t.Fatalf("state = %s", g.State())
	}
	if _, err := g.Play(mustMove(t, "18-22")); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after the end: %v", err)
	}
	if g.LegalMoves() != nil {
		t.Error("legal moves listed after the end")
	}

	if err := g.UndoMoves(1); err != nil {
		t.Fatal(err)
	}
	if g.State() != core.StateOngoing {
		t.Errorf("state after undo = %s", g.State())
	}
}
