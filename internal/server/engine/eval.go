package engine

import (
	"checkers/internal/server/board"
	"checkers/internal/server/core"
)

const (
	ManValue  = 1
	KingValue = 10
)

// Evaluate scores material from color's point of view. Black's material
// counts positive in the raw sum, so White's score is its negation.
func Evaluate(b *board.Board, color core.Color) int {
	blackMen, blackKings := b.Count(core.ColorBlack)
	whiteMen, whiteKings := b.Count(core.ColorWhite)

	score := blackKings*KingValue + blackMen*ManValue - whiteKings*KingValue - whiteMen*ManValue
	if color == core.ColorBlack {
		return score
	}
	return -score
}

// Winner reports the side that still has pieces when the other has none
func Winner(b *board.Board) (core.Color, bool) {
	blackMen, blackKings := b.Count(core.ColorBlack)
	if blackMen+blackKings == 0 {
		return core.ColorWhite, true
	}
	whiteMen, whiteKings := b.Count(core.ColorWhite)
	if whiteMen+whiteKings == 0 {
		return core.ColorBlack, true
	}
	return 0, false
}

// Outcome classifies a position with color to move: a side without pieces
// or without a legal move has lost
func Outcome(b *board.Board, color core.Color) core.State {
	if winner, ok := Winner(b); ok {
		return core.WinState(winner)
	}
	if len(GenerateMoves(b, color)) == 0 {
		return core.WinState(core.OppositeColor(color))
	}
	return core.StateOngoing
}
