package board

import (
	"fmt"
	"strings"

	"checkers/internal/server/core"
)

const (
	Size = 8

	StartingLayout = ".b.b.b.b/b.b.b.b./.b.b.b.b/......../......../w.w.w.w./.w.w.w.w/w.w.w.w."
)

// Cell holds the occupant of one square
type Cell byte

const (
	Empty     Cell = '.'
	BlackMan  Cell = 'b'
	BlackKing Cell = 'B'
	WhiteMan  Cell = 'w'
	WhiteKing Cell = 'W'
)

// Owner reports the color of the piece on the cell, false for empty cells
func (c Cell) Owner() (core.Color, bool) {
	switch c {
	case BlackMan, BlackKing:
		return core.ColorBlack, true
	case WhiteMan, WhiteKing:
		return core.ColorWhite, true
	default:
		return 0, false
	}
}

func (c Cell) IsEmpty() bool {
	return c == Empty || c == 0
}

func (c Cell) IsKing() bool {
	return c == BlackKing || c == WhiteKing
}

func (c Cell) SameSide(color core.Color) bool {
	owner, ok := c.Owner()
	return ok && owner == color
}

func (c Cell) IsOpponent(color core.Color) bool {
	owner, ok := c.Owner()
	return ok && owner != color
}

// Crowned returns the king of the cell's side; kings and empty cells are unchanged
func (c Cell) Crowned() Cell {
	switch c {
	case BlackMan:
		return BlackKing
	case WhiteMan:
		return WhiteKing
	default:
		return c
	}
}

// Pos is a zero-based (row, col) coordinate, row 0 at the top
type Pos struct {
	Row int
	Col int
}

func (p Pos) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Add offsets the position by a diagonal step
func (p Pos) Add(dr, dc int) Pos {
	return Pos{Row: p.Row + dr, Col: p.Col + dc}
}

// Board is an 8x8 grid; copying the value clones it
type Board struct {
	squares [Size][Size]Cell
}

// New returns a board with every square empty
func New() *Board {
	b := &Board{}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			b.squares[r][c] = Empty
		}
	}
	return b
}

// Starting returns the initial back-rank arrangement, Black on rows 0-2
func Starting() *Board {
	b, err := ParseLayout(StartingLayout)
	if err != nil {
		panic(err)
	}
	return b
}

// ParseGrid builds a board from 8 rows of 8 cell symbols
func ParseGrid(rows []string) (*Board, error) {
	if len(rows) != Size {
		return nil, fmt.Errorf("invalid board: expected %d rows, got %d", Size, len(rows))
	}

	b := &Board{}
	for r, row := range rows {
		if len(row) != Size {
			return nil, fmt.Errorf("invalid board: row %d has %d columns", r, len(row))
		}
		for c := 0; c < Size; c++ {
			cell, err := parseCell(row[c])
			if err != nil {
				return nil, fmt.Errorf("invalid board: row %d col %d: %w", r, c, err)
			}
			if cell != Empty && !IsPlayable(Pos{r, c}) {
				return nil, fmt.Errorf("invalid board: piece on non-playable square (%d,%d)", r, c)
			}
			b.squares[r][c] = cell
		}
	}

	return b, nil
}

// ParseLayout parses rows joined by '/'
func ParseLayout(layout string) (*Board, error) {
	return ParseGrid(strings.Split(layout, "/"))
}

func parseCell(ch byte) (Cell, error) {
	switch Cell(ch) {
	case Empty, BlackMan, BlackKing, WhiteMan, WhiteKing:
		return Cell(ch), nil
	case ' ':
		return Empty, nil
	default:
		return Empty, fmt.Errorf("unrecognized cell symbol %q", ch)
	}
}

func IsPlayable(p Pos) bool {
	return p.InBounds() && (p.Row+p.Col)%2 == 1
}

// Occupant returns the cell at p; out-of-bounds positions read as empty
func (b *Board) Occupant(p Pos) Cell {
	if !p.InBounds() {
		return Empty
	}
	return b.squares[p.Row][p.Col]
}

func (b *Board) Set(p Pos, c Cell) {
	b.squares[p.Row][p.Col] = c
}

// Promote converts a man on p into a king in place
func (b *Board) Promote(p Pos) {
	b.squares[p.Row][p.Col] = b.squares[p.Row][p.Col].Crowned()
}

func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}

// Count returns the number of men and kings of a color
func (b *Board) Count(color core.Color) (men, kings int) {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			cell := b.squares[r][c]
			if !cell.SameSide(color) {
				continue
			}
			if cell.IsKing() {
				kings++
			} else {
				men++
			}
		}
	}
	return men, kings
}

// Rows returns the grid as 8 strings of cell symbols
func (b *Board) Rows() []string {
	rows := make([]string, Size)
	for r := 0; r < Size; r++ {
		row := make([]byte, Size)
		for c := 0; c < Size; c++ {
			row[c] = byte(b.Occupant(Pos{r, c}))
			if b.squares[r][c] == 0 {
				row[c] = byte(Empty)
			}
		}
		rows[r] = string(row)
	}
	return rows
}

func (b *Board) Layout() string {
	return strings.Join(b.Rows(), "/")
}

// ToASCII creates an ASCII representation with square numbers on the side
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("   0 1 2 3 4 5 6 7\n")

	for r := 0; r < Size; r++ {
		sb.WriteString(fmt.Sprintf("%d  ", r))
		for c := 0; c < Size; c++ {
			cell := b.squares[r][c]
			if cell.IsEmpty() {
				cell = Empty
			}
			sb.WriteString(fmt.Sprintf("%c ", cell))
		}
		first := SquareNumber(Pos{r, (r + 1) % 2})
		sb.WriteString(fmt.Sprintf(" %2d-%2d\n", first, first+3))
	}
	sb.WriteString("   0 1 2 3 4 5 6 7")

	return sb.String()
}
