package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Move is an ordered path of squares. Two squares one step apart is a
// simple move; consecutive squares two steps apart form a jump chain.
type Move []Pos

func (m Move) From() Pos {
	return m[0]
}

func (m Move) To() Pos {
	return m[len(m)-1]
}

func (m Move) IsJump() bool {
	if len(m) < 2 {
		return false
	}
	dr := m[1].Row - m[0].Row
	return dr == 2 || dr == -2
}

// Captures returns the midpoint square of every hop in a jump chain
func (m Move) Captures() []Pos {
	if !m.IsJump() {
		return nil
	}
	captured := make([]Pos, 0, len(m)-1)
	for i := 1; i < len(m); i++ {
		captured = append(captured, Midpoint(m[i-1], m[i]))
	}
	return captured
}

func (m Move) Equal(other Move) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if m[i] != other[i] {
			return false
		}
	}
	return true
}

// Pairs returns the path as [row, col] pairs for JSON responses
func (m Move) Pairs() [][2]int {
	pairs := make([][2]int, len(m))
	for i, p := range m {
		pairs[i] = [2]int{p.Row, p.Col}
	}
	return pairs
}

// String renders PDN notation: "9-13" or "9x18x27"
func (m Move) String() string {
	if len(m) == 0 {
		return ""
	}
	sep := "-"
	if m.IsJump() {
		sep = "x"
	}
	parts := make([]string, len(m))
	for i, p := range m {
		parts[i] = strconv.Itoa(SquareNumber(p))
	}
	return strings.Join(parts, sep)
}

// ParseMove parses PDN notation. Only the square sequence is checked here,
// legality is the move generator's concern.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	sep := "-"
	if strings.Contains(s, "x") {
		sep = "x"
	}
	parts := strings.Split(s, sep)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid move %q: expected at least two squares", s)
	}

	m := make(Move, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid move %q: bad square %q", s, part)
		}
		p, err := SquarePos(n)
		if err != nil {
			return nil, fmt.Errorf("invalid move %q: %w", s, err)
		}
		m = append(m, p)
	}

	step, kind := 1, "step"
	if sep == "x" {
		step, kind = 2, "jump"
	}
	for i := 1; i < len(m); i++ {
		dr, dc := m[i].Row-m[i-1].Row, m[i].Col-m[i-1].Col
		if abs(dr) != step || abs(dc) != step {
			return nil, fmt.Errorf("invalid move %q: squares %d and %d are not a diagonal %s",
				s, SquareNumber(m[i-1]), SquareNumber(m[i]), kind)
		}
	}
	if sep == "-" && len(m) != 2 {
		return nil, fmt.Errorf("invalid move %q: simple moves have exactly two squares", s)
	}

	return m, nil
}

// SquareNumber maps a playable square to 1..32, counted row by row from the top
func SquareNumber(p Pos) int {
	return p.Row*4 + p.Col/2 + 1
}

func SquarePos(n int) (Pos, error) {
	if n < 1 || n > 32 {
		return Pos{}, fmt.Errorf("square %d out of range 1-32", n)
	}
	row := (n - 1) / 4
	col := ((n-1)%4)*2 + (row+1)%2
	return Pos{Row: row, Col: col}, nil
}

// Midpoint returns the square jumped over between two squares two steps apart
func Midpoint(a, b Pos) Pos {
	return Pos{Row: (a.Row + b.Row) / 2, Col: (a.Col + b.Col) / 2}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
