package engine

import (
	"checkers/internal/server/board"
	"checkers/internal/server/core"
)

// Diagonal steps in scan order: up-left, up-right, down-left, down-right
var directions = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// forward returns the row step a man of the given color advances by
func forward(color core.Color) int {
	if color == core.ColorBlack {
		return 1
	}
	return -1
}

// backRank returns the row on which a man of the given color is crowned
func backRank(color core.Color) int {
	if color == core.ColorBlack {
		return board.Size - 1
	}
	return 0
}

// movesAlong reports whether the piece may travel in the given row direction
func movesAlong(piece board.Cell, dr int) bool {
	if piece.IsKing() {
		return true
	}
	owner, ok := piece.Owner()
	return ok && dr == forward(owner)
}

// GenerateMoves returns every legal move for color. Captures are forced: when
// any jump chain exists only jump chains are returned.
func GenerateMoves(b *board.Board, color core.Color) []board.Move {
	if jumps := jumpMoves(b, color); len(jumps) > 0 {
		return jumps
	}
	return simpleMoves(b, color)
}

// IsLegal reports whether m is one of the moves GenerateMoves would return
func IsLegal(b *board.Board, color core.Color, m board.Move) bool {
	for _, legal := range GenerateMoves(b, color) {
		if legal.Equal(m) {
			return true
		}
	}
	return false
}

// scan visits every square, Black from row 7 upward and White from row 0 downward
func scan(color core.Color, visit func(p board.Pos)) {
	start, end, step := board.Size-1, -1, -1
	if color == core.ColorWhite {
		start, end, step = 0, board.Size, 1
	}
	for r := start; r != end; r += step {
		for c := 0; c < board.Size; c++ {
			visit(board.Pos{Row: r, Col: c})
		}
	}
}

func simpleMoves(b *board.Board, color core.Color) []board.Move {
	var moves []board.Move
	scan(color, func(from board.Pos) {
		piece := b.Occupant(from)
		if !piece.SameSide(color) {
			return
		}
		for _, d := range directions {
			if !movesAlong(piece, d[0]) {
				continue
			}
			to := from.Add(d[0], d[1])
			if to.InBounds() && b.Occupant(to).IsEmpty() {
				moves = append(moves, board.Move{from, to})
			}
		}
	})
	return moves
}

func jumpMoves(b *board.Board, color core.Color) []board.Move {
	s := &jumpSearch{b: b.Clone(), color: color}
	scan(color, func(from board.Pos) {
		piece := s.b.Occupant(from)
		if !piece.SameSide(color) {
			return
		}
		s.path = append(s.path[:0], from)
		s.extend(from, piece)
	})
	return s.moves
}

// hop is one capture inside a jump chain, with enough state to take it back
type hop struct {
	from     board.Pos
	over     board.Pos
	to       board.Pos
	mover    board.Cell
	captured board.Cell
}

// jumpSearch walks jump chains depth-first on its own board copy
type jumpSearch struct {
	b     *board.Board
	color core.Color
	path  board.Move
	moves []board.Move
}

func (s *jumpSearch) apply(h hop) {
	s.b.Set(h.from, board.Empty)
	s.b.Set(h.over, board.Empty)
	s.b.Set(h.to, h.mover)
	s.path = append(s.path, h.to)
}

func (s *jumpSearch) undo(h hop) {
	s.b.Set(h.to, board.Empty)
	s.b.Set(h.over, h.captured)
	s.b.Set(h.from, h.mover)
	s.path = s.path[:len(s.path)-1]
}

func (s *jumpSearch) record() {
	m := make(board.Move, len(s.path))
	copy(m, s.path)
	s.moves = append(s.moves, m)
}

// extend tries every capture from the chain's current square. A chain is
// recorded once it cannot grow, or immediately after it captures a king:
// taking a king always ends the move.
func (s *jumpSearch) extend(at board.Pos, mover board.Cell) {
	extended := false
	for _, d := range directions {
		if !movesAlong(mover, d[0]) {
			continue
		}
		over := at.Add(d[0], d[1])
		to := at.Add(2*d[0], 2*d[1])
		if !to.InBounds() {
			continue
		}
		captured := s.b.Occupant(over)
		if !captured.IsOpponent(s.color) || !s.b.Occupant(to).IsEmpty() {
			continue
		}

		extended = true
		h := hop{from: at, over: over, to: to, mover: mover, captured: captured}
		s.apply(h)
		if captured.IsKing() {
			s.record()
		} else {
			s.extend(to, mover)
		}
		s.undo(h)
	}

	if !extended && len(s.path) > 1 {
		s.record()
	}
}
