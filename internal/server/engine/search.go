package engine

import (
	"checkers/internal/server/board"
	"checkers/internal/server/core"
)

const (
	// WinScore is returned when one side has no pieces left
	WinScore = 99999
	// Infinity bounds the alpha-beta window
	Infinity = 999999
)

// Result is the outcome of one search call
type Result struct {
	Move  board.Move // nil when the side to move has no legal move
	Score int
	Nodes int64
	Depth int
}

// searcher holds the state of a single Search call
type searcher struct {
	best  board.Move
	nodes int64
}

// Search runs a depth-limited minimax search with alpha-beta pruning for
// color and returns the move chosen at the root. b is not modified.
func Search(b *board.Board, color core.Color, maxDepth int) Result {
	s := &searcher{}
	score := s.search(b.Clone(), 0, maxDepth, color, -Infinity, Infinity)
	return Result{Move: s.best, Score: score, Nodes: s.nodes, Depth: maxDepth}
}

// search scores b with color to move. Even depths maximize for the root side,
// odd depths minimize.
func (s *searcher) search(b *board.Board, depth, maxDepth int, color core.Color, alpha, beta int) int {
	s.nodes++
	maximizing := depth%2 == 0

	if winner, ok := Winner(b); ok {
		// color is the root side at even depth and its opponent at odd depth
		if (winner == color) == maximizing {
			return WinScore
		}
		return -WinScore
	}

	if depth >= maxDepth {
		score := Evaluate(b, color)
		if maximizing {
			return score
		}
		return -score
	}

	moves := GenerateMoves(b, color)
	if len(moves) == 0 {
		if maximizing {
			return -WinScore
		}
		return WinScore
	}

	best := -Infinity
	if !maximizing {
		best = Infinity
	}
	next := core.OppositeColor(color)

	for _, m := range moves {
		score := s.search(Play(b, m), depth+1, maxDepth, next, alpha, beta)

		if maximizing {
			if score > best {
				best = score
				if depth == 0 {
					s.best = m
				}
			}
			alpha = max(alpha, score)
		} else {
			if score < best {
				best = score
			}
			beta = min(beta, score)
		}

		if alpha >= beta {
			break
		}
	}

	return best
}
