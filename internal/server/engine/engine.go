package engine

import (
	"fmt"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
)

// MaxSearchDepth caps the plies a caller may request
const MaxSearchDepth = 12

// ValidationError reports input rejected before any search starts
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParsePosition converts a raw grid snapshot and color token into engine input
func ParsePosition(grid []string, turn string) (*board.Board, core.Color, error) {
	b, err := board.ParseGrid(grid)
	if err != nil {
		return nil, 0, &ValidationError{Field: "board", Err: err}
	}
	color, err := core.ParseColor(turn)
	if err != nil {
		return nil, 0, &ValidationError{Field: "turn", Err: err}
	}
	return b, color, nil
}

// ValidateDepth checks a requested search depth against MaxSearchDepth
func ValidateDepth(depth int) error {
	if depth < 1 || depth > MaxSearchDepth {
		return &ValidationError{
			Field: "depth",
			Err:   fmt.Errorf("must be between 1 and %d, got %d", MaxSearchDepth, depth),
		}
	}
	return nil
}

// BestMove searches one ply's decision for the side to move on a raw grid.
// A nil move with a nil error means the side to move has no legal move and
// has lost.
func BestMove(grid []string, turn string, maxDepth int) (board.Move, error) {
	b, color, err := ParsePosition(grid, turn)
	if err != nil {
		return nil, err
	}
	if err := ValidateDepth(maxDepth); err != nil {
		return nil, err
	}
	return Search(b, color, maxDepth).Move, nil
}
