package board

import (
	"strings"
	"testing"

	"checkers/internal/server/core"
)

func TestStarting(t *testing.T) {
	b := Starting()
	for _, color := range []core.Color{core.ColorBlack, core.ColorWhite} {
		men, kings := b.Count(color)
		if men != 12 || kings != 0 {
			t.Errorf("%s: %d men, %d kings", color.Name(), men, kings)
		}
	}
	if b.Occupant(Pos{0, 1}) != BlackMan || b.Occupant(Pos{7, 0}) != WhiteMan {
		t.Errorf("unexpected corner pieces:\n%s", b.ToASCII())
	}
	if b.Layout() != StartingLayout {
		t.Errorf("layout = %s", b.Layout())
	}
}

func TestParseGridErrors(t *testing.T) {
	valid := strings.Split(StartingLayout, "/")
	replace := func(row int, s string) []string {
		rows := append([]string{}, valid...)
		rows[row] = s
		return rows
	}

	tests := []struct {
		name string
		rows []string
		want string
	}{
		{"too few rows", valid[:7], "expected 8 rows"},
		{"short row", replace(2, ".b.b.b."), "row 2 has 7 columns"},
		{"unknown symbol", replace(4, "...q...."), "unrecognized cell symbol"},
		{"light square", replace(4, "b......."), "non-playable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGrid(tt.rows)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseGridSpaces(t *testing.T) {
	b, err := ParseGrid([]string{" b      ", "        ", "        ", "        ", "        ", "        ", "        ", "      w "})
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	if got := b.Layout(); got != ".b....../......../......../......../......../......../......../......w." {
		t.Errorf("layout = %s", got)
	}
}

func TestCellPredicates(t *testing.T) {
	tests := []struct {
		cell     Cell
		owner    core.Color
		occupied bool
		king     bool
	}{
		{Empty, 0, false, false},
		{BlackMan, core.ColorBlack, true, false},
		{BlackKing, core.ColorBlack, true, true},
		{WhiteMan, core.ColorWhite, true, false},
		{WhiteKing, core.ColorWhite, true, true},
	}

	for _, tt := range tests {
		owner, ok := tt.cell.Owner()
		if owner != tt.owner || ok != tt.occupied {
			t.Errorf("%q: owner %v/%v", tt.cell, owner, ok)
		}
		if tt.cell.IsKing() != tt.king {
			t.Errorf("%q: IsKing = %v", tt.cell, tt.cell.IsKing())
		}
		if tt.cell.IsEmpty() == tt.occupied {
			t.Errorf("%q: IsEmpty = %v", tt.cell, tt.cell.IsEmpty())
		}
		if tt.occupied {
			if !tt.cell.SameSide(tt.owner) || tt.cell.IsOpponent(tt.owner) {
				t.Errorf("%q: wrong side checks", tt.cell)
			}
			if !tt.cell.IsOpponent(core.OppositeColor(tt.owner)) {
				t.Errorf("%q: not an opponent of %s", tt.cell, core.OppositeColor(tt.owner).Name())
			}
		} else if Empty.SameSide(core.ColorBlack) || Empty.IsOpponent(core.ColorWhite) {
			t.Error("empty cell reported as a piece")
		}
	}
}

func TestPromoteAndClone(t *testing.T) {
	b := Starting()
	clone := b.Clone()

	b.Promote(Pos{2, 1})
	b.Promote(Pos{5, 0})
	b.Promote(Pos{3, 0})

	if b.Occupant(Pos{2, 1}) != BlackKing || b.Occupant(Pos{5, 0}) != WhiteKing {
		t.Fatal("men not crowned")
	}
	if !b.Occupant(Pos{3, 0}).IsEmpty() {
		t.Fatal("promoting an empty square placed a piece")
	}
	b.Promote(Pos{2, 1})
	if b.Occupant(Pos{2, 1}) != BlackKing {
		t.Fatal("promoting a king changed it")
	}
	if clone.Occupant(Pos{2, 1}) != BlackMan {
		t.Fatal("clone shares state with the original")
	}
}

func TestOccupantOutOfBounds(t *testing.T) {
	b := Starting()
	for _, p := range []Pos{{-1, 0}, {0, 8}, {8, 8}, {3, -2}} {
		if !b.Occupant(p).IsEmpty() || IsPlayable(p) {
			t.Errorf("%v should read as an unplayable empty square", p)
		}
	}
}

func TestNewBoardIsEmpty(t *testing.T) {
	b := New()
	if got := b.Layout(); got != strings.Repeat("......../", 7)+"........" {
		t.Fatalf("layout = %s", got)
	}

	b.Set(Pos{5, 0}, WhiteMan)
	b.Set(Pos{2, 3}, BlackKing)
	if men, kings := b.Count(core.ColorWhite); men != 1 || kings != 0 {
		t.Errorf("white count = %d men %d kings", men, kings)
	}
	if men, kings := b.Count(core.ColorBlack); men != 0 || kings != 1 {
		t.Errorf("black count = %d men %d kings", men, kings)
	}
}

func TestZeroBoardRows(t *testing.T) {
	var b Board
	if got := b.Layout(); got != strings.Repeat("......../", 7)+"........" {
		t.Errorf("layout = %s", got)
	}
}

func TestSquareNumbers(t *testing.T) {
	seen := make(map[int]bool)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			p := Pos{r, c}
			if !IsPlayable(p) {
				continue
			}
			n := SquareNumber(p)
			if seen[n] {
				t.Fatalf("square %d assigned twice", n)
			}
			seen[n] = true
			back, err := SquarePos(n)
			if err != nil || back != p {
				t.Fatalf("SquarePos(%d) = %v, %v; want %v", n, back, err, p)
			}
		}
	}
	if len(seen) != 32 {
		t.Fatalf("%d squares numbered", len(seen))
	}
	if SquareNumber(Pos{0, 1}) != 1 || SquareNumber(Pos{7, 6}) != 32 {
		t.Error("corner numbering is off")
	}
	for _, n := range []int{0, 33, -4} {
		if _, err := SquarePos(n); err == nil {
			t.Errorf("SquarePos(%d) accepted", n)
		}
	}
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		in   string
		want Move
		err  bool
	}{
		{in: "9-13", want: Move{{2, 1}, {3, 0}}},
		{in: " 9-14 ", want: Move{{2, 1}, {3, 2}}},
		{in: "9x18x27", want: Move{{2, 1}, {4, 3}, {6, 5}}},
		{in: "22x15", want: Move{{5, 2}, {3, 4}}},
		{in: "9", err: true},
		{in: "9-13-17", err: true},
		{in: "9-18", err: true},
		{in: "9x13", err: true},
		{in: "9-40", err: true},
		{in: "a-b", err: true},
	}

	for _, tt := range tests {
		got, err := ParseMove(tt.in)
		if tt.err {
			if err == nil {
				t.Errorf("ParseMove(%q) = %v, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMove(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseMove(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if strings.TrimSpace(tt.in) != got.String() {
			t.Errorf("String() = %s, want %s", got.String(), strings.TrimSpace(tt.in))
		}
	}
}

func TestMoveCaptures(t *testing.T) {
	m := Move{{2, 1}, {4, 3}, {6, 5}}
	caps := m.Captures()
	if len(caps) != 2 || caps[0] != (Pos{3, 2}) || caps[1] != (Pos{5, 4}) {
		t.Errorf("captures = %v", caps)
	}
	if (Move{{2, 1}, {3, 0}}).Captures() != nil {
		t.Error("simple move reports captures")
	}
	if got := m.Pairs(); got[2] != [2]int{6, 5} {
		t.Errorf("pairs = %v", got)
	}
}

func TestToASCII(t *testing.T) {
	out := Starting().ToASCII()
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "0  . b . b") || !strings.HasSuffix(lines[1], " 1- 4") {
		t.Errorf("row 0 = %q", lines[1])
	}
	if !strings.HasSuffix(lines[8], "29-32") {
		t.Errorf("row 7 = %q", lines[8])
	}
}
