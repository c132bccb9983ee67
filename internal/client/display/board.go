// FILE: checkers/internal/client/display/board.go
package display

import (
	"fmt"
	"io"
	"strings"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
)

// RenderBoard draws the board with the theme's square colors.
// Row and column indices run along the edges, square numbers on the right.
func RenderBoard(w io.Writer, b *board.Board, theme Theme) {
	colors := themes[theme]
	var sb strings.Builder

	sb.WriteString("\n   0 1 2 3 4 5 6 7\n")
	for r := 0; r < board.Size; r++ {
		sb.WriteString(fmt.Sprintf("%d  ", r))
		for c := 0; c < board.Size; c++ {
			p := board.Pos{Row: r, Col: c}
			cell := b.Occupant(p)

			symbol := byte(' ')
			if !cell.IsEmpty() {
				symbol = byte(cell)
			} else if theme == ThemeOff && board.IsPlayable(p) {
				symbol = '.'
			}

			if theme == ThemeOff {
				sb.WriteString(fmt.Sprintf("%c ", symbol))
				continue
			}

			bg := colors.lightBg
			if board.IsPlayable(p) {
				bg = colors.darkBg
			}
			fg := colors.black
			if owner, ok := cell.Owner(); ok && owner == core.ColorWhite {
				fg = colors.white
			}
			sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, fg, symbol, colors.reset))
		}
		first := board.SquareNumber(board.Pos{Row: r, Col: (r + 1) % 2})
		sb.WriteString(fmt.Sprintf("  %2d-%2d\n", first, first+3))
	}
	sb.WriteString("   0 1 2 3 4 5 6 7\n")

	fmt.Fprint(w, sb.String())
}

// RenderSquares prints the PDN square numbering of the playable squares
func RenderSquares(w io.Writer) {
	var sb strings.Builder
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			p := board.Pos{Row: r, Col: c}
			if board.IsPlayable(p) {
				sb.WriteString(fmt.Sprintf("%2d ", board.SquareNumber(p)))
			} else {
				sb.WriteString(" . ")
			}
		}
		sb.WriteString("\n")
	}
	fmt.Fprint(w, sb.String())
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(color core.Color) string {
	if color == core.ColorWhite {
		return Blue + "White" + Reset
	}
	return Red + "Black" + Reset
}
