package engine

import (
	"checkers/internal/server/board"
)

// ApplyMove executes m on b in place. Each hop removes the jumped piece, and a
// man is crowned when it lands on the far row or has just captured a king.
// The move is assumed legal.
func ApplyMove(b *board.Board, m board.Move) {
	for i := 1; i < len(m); i++ {
		from, to := m[i-1], m[i]
		mover := b.Occupant(from)
		b.Set(from, board.Empty)
		b.Set(to, mover)

		regicide := false
		if d := to.Row - from.Row; d == 2 || d == -2 {
			over := board.Midpoint(from, to)
			regicide = b.Occupant(over).IsKing()
			b.Set(over, board.Empty)
		}

		if promotes(mover, to, regicide) {
			b.Promote(to)
		}
	}
}

// Play returns a copy of b with m applied, leaving b untouched
func Play(b *board.Board, m board.Move) *board.Board {
	next := b.Clone()
	ApplyMove(next, m)
	return next
}

func promotes(mover board.Cell, to board.Pos, regicide bool) bool {
	if mover.IsKing() {
		return false
	}
	owner, ok := mover.Owner()
	if !ok {
		return false
	}
	return regicide || to.Row == backRank(owner)
}
