package engine

import (
	"errors"
	"math/rand/v2"
	"testing"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
)

func mustGrid(t *testing.T, rows ...string) *board.Board {
	t.Helper()
	b, err := board.ParseGrid(rows)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	return b
}

type position struct {
	b     *board.Board
	color core.Color
}

// randomPositions plays random legal games from the start and collects every
// position reached along the way
func randomPositions(games, plies int) []position {
	rng := rand.New(rand.NewPCG(7, 11))
	var out []position
	for g := 0; g < games; g++ {
		b := board.Starting()
		color := core.ColorBlack
		for p := 0; p < plies; p++ {
			out = append(out, position{b: b.Clone(), color: color})
			if _, over := Winner(b); over {
				break
			}
			moves := GenerateMoves(b, color)
			if len(moves) == 0 {
				break
			}
			ApplyMove(b, moves[rng.IntN(len(moves))])
			color = core.OppositeColor(color)
		}
	}
	return out
}

// canJumpFrom reports whether piece standing on at has any capture available
func canJumpFrom(b *board.Board, at board.Pos, piece board.Cell, color core.Color) bool {
	for _, d := range directions {
		if !piece.IsKing() && d[0] != forward(color) {
			continue
		}
		over, to := at.Add(d[0], d[1]), at.Add(2*d[0], 2*d[1])
		if to.InBounds() && b.Occupant(over).IsOpponent(color) && b.Occupant(to).IsEmpty() {
			return true
		}
	}
	return false
}

func TestStartingPositionMoves(t *testing.T) {
	tests := []struct {
		color core.Color
		first board.Move
	}{
		{core.ColorBlack, board.Move{{Row: 2, Col: 1}, {Row: 3, Col: 0}}},
		{core.ColorWhite, board.Move{{Row: 5, Col: 0}, {Row: 4, Col: 1}}},
	}

	for _, tt := range tests {
		moves := GenerateMoves(board.Starting(), tt.color)
		if len(moves) != 7 {
			t.Fatalf("%s: expected 7 opening moves, got %d", tt.color.Name(), len(moves))
		}
		if !moves[0].Equal(tt.first) {
			t.Errorf("%s: first move = %v, want %v", tt.color.Name(), moves[0], tt.first)
		}
		for _, m := range moves {
			if m.IsJump() || len(m) != 2 {
				t.Errorf("%s: unexpected move %v", tt.color.Name(), m)
			}
		}
	}
}

func TestForcedCapture(t *testing.T) {
	// Black has a quiet move with the man on 5 and a capture with the man on 9
	b := mustGrid(t,
		"...b....",
		"........",
		".b......",
		"..w.....",
		"........",
		"........",
		"........",
		"........",
	)
	moves := GenerateMoves(b, core.ColorBlack)
	if len(moves) != 1 {
		t.Fatalf("expected only the capture, got %v", moves)
	}
	if got := moves[0].String(); got != "9x18" {
		t.Errorf("capture = %s, want 9x18", got)
	}
	if IsLegal(b, core.ColorBlack, board.Move{{Row: 0, Col: 3}, {Row: 1, Col: 2}}) {
		t.Error("quiet move accepted while a capture is available")
	}
}

func TestForcedCaptureProperty(t *testing.T) {
	for i, pos := range randomPositions(40, 60) {
		moves := GenerateMoves(pos.b, pos.color)
		if len(jumpMoves(pos.b, pos.color)) == 0 {
			continue
		}
		for _, m := range moves {
			if !m.IsJump() {
				t.Fatalf("position %d (%s): simple move %v returned alongside captures",
					i, pos.b.Layout(), m)
			}
		}
	}
}

func TestMultiJumpIsOneMove(t *testing.T) {
	b := mustGrid(t,
		"........",
		"........",
		".b......",
		"..w.....",
		"........",
		"....w...",
		"........",
		"........",
	)
	moves := GenerateMoves(b, core.ColorBlack)
	if len(moves) != 1 {
		t.Fatalf("expected one chain, got %v", moves)
	}
	want := board.Move{{Row: 2, Col: 1}, {Row: 4, Col: 3}, {Row: 6, Col: 5}}
	if !moves[0].Equal(want) {
		t.Fatalf("chain = %v, want %v", moves[0], want)
	}
	if moves[0].String() != "9x18x27" {
		t.Errorf("notation = %s", moves[0].String())
	}

	ApplyMove(b, moves[0])
	men, kings := b.Count(core.ColorWhite)
	if men+kings != 0 {
		t.Errorf("both white men should be captured, %d left", men+kings)
	}
	if b.Occupant(want.To()) != board.BlackMan {
		t.Errorf("landing square holds %q, want an uncrowned black man", b.Occupant(want.To()))
	}
}

func TestRegicideEndsChain(t *testing.T) {
	grid := []string{
		"........",
		"........",
		".b......",
		"..W.....",
		"........",
		"....w...",
		"........",
		"........",
	}
	b := mustGrid(t, grid...)

	moves := GenerateMoves(b, core.ColorBlack)
	want := board.Move{{Row: 2, Col: 1}, {Row: 4, Col: 3}}
	if len(moves) != 1 || !moves[0].Equal(want) {
		t.Fatalf("moves = %v, want [%v]", moves, want)
	}

	best, err := BestMove(grid, "b", 3)
	if err != nil {
		t.Fatalf("BestMove: %v", err)
	}
	if !best.Equal(want) {
		t.Fatalf("BestMove = %v, want %v", best, want)
	}

	ApplyMove(b, best)
	if got := b.Occupant(want.To()); got != board.BlackKing {
		t.Errorf("capturer = %q, want black king", got)
	}
	if got := b.Occupant(board.Pos{Row: 5, Col: 4}); got != board.WhiteMan {
		t.Errorf("second white man should survive, found %q", got)
	}
}

func TestKingBranches(t *testing.T) {
	b := mustGrid(t,
		"........",
		"........",
		"........",
		"..w.w...",
		"...B....",
		"..w.w...",
		"........",
		"........",
	)
	moves := GenerateMoves(b, core.ColorBlack)
	want := []board.Move{
		{{Row: 4, Col: 3}, {Row: 2, Col: 1}},
		{{Row: 4, Col: 3}, {Row: 2, Col: 5}},
		{{Row: 4, Col: 3}, {Row: 6, Col: 1}},
		{{Row: 4, Col: 3}, {Row: 6, Col: 5}},
	}
	if len(moves) != len(want) {
		t.Fatalf("moves = %v, want %v", moves, want)
	}
	for i := range want {
		if !moves[i].Equal(want[i]) {
			t.Errorf("move %d = %v, want %v", i, moves[i], want[i])
		}
	}
}

func TestManCannotCaptureBackward(t *testing.T) {
	b := mustGrid(t,
		"........",
		"........",
		"........",
		"........",
		"...w....",
		"....b...",
		"........",
		"........",
	)
	for _, m := range GenerateMoves(b, core.ColorWhite) {
		if m.IsJump() {
			t.Fatalf("white man captured backward: %v", m)
		}
	}

	b.Promote(board.Pos{Row: 4, Col: 3})
	moves := GenerateMoves(b, core.ColorWhite)
	want := board.Move{{Row: 4, Col: 3}, {Row: 6, Col: 5}}
	if len(moves) != 1 || !moves[0].Equal(want) {
		t.Fatalf("king moves = %v, want [%v]", moves, want)
	}
}

func TestChainsAreMaximal(t *testing.T) {
	checked := 0
	for _, pos := range randomPositions(60, 80) {
		for _, m := range GenerateMoves(pos.b, pos.color) {
			if !m.IsJump() {
				continue
			}
			checked++

			b := pos.b.Clone()
			mover := b.Occupant(m.From())
			var lastCaptured board.Cell
			for i, over := range m.Captures() {
				lastCaptured = b.Occupant(over)
				if lastCaptured.IsKing() && i != len(m)-2 {
					t.Fatalf("%s: chain %v continues after capturing a king", pos.b.Layout(), m)
				}
				b.Set(m[i], board.Empty)
				b.Set(over, board.Empty)
				b.Set(m[i+1], mover)
			}
			if !lastCaptured.IsKing() && canJumpFrom(b, m.To(), mover, pos.color) {
				t.Fatalf("%s: chain %v could be extended", pos.b.Layout(), m)
			}
		}
	}
	if checked == 0 {
		t.Fatal("random games produced no captures")
	}
}

func TestPromotion(t *testing.T) {
	tests := []struct {
		name  string
		grid  []string
		move  board.Move
		crown bool
	}{
		{
			name:  "black reaches row 7",
			grid:  []string{"........", "........", "........", "........", "........", "........", ".b......", "........"},
			move:  board.Move{{Row: 6, Col: 1}, {Row: 7, Col: 0}},
			crown: true,
		},
		{
			name:  "white reaches row 0",
			grid:  []string{"........", "..w.....", "........", "........", "........", "........", "........", "........"},
			move:  board.Move{{Row: 1, Col: 2}, {Row: 0, Col: 1}},
			crown: true,
		},
		{
			name: "quiet move mid-board",
			grid: []string{"........", "........", "........", "....b...", "........", "........", "........", "........"},
			move: board.Move{{Row: 3, Col: 4}, {Row: 4, Col: 5}},
		},
		{
			name: "capture of a man mid-board",
			grid: []string{"........", "........", "...b....", "....w...", "........", "........", "........", "........"},
			move: board.Move{{Row: 3, Col: 4}, {Row: 1, Col: 2}},
		},
		{
			name:  "capture of a king mid-board",
			grid:  []string{"........", "........", "...B....", "....w...", "........", "........", "........", "........"},
			move:  board.Move{{Row: 3, Col: 4}, {Row: 1, Col: 2}},
			crown: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustGrid(t, tt.grid...)
			ApplyMove(b, tt.move)
			if got := b.Occupant(tt.move.To()).IsKing(); got != tt.crown {
				t.Fatalf("crowned = %v, want %v\n%s", got, tt.crown, b.ToASCII())
			}
			if !b.Occupant(tt.move.From()).IsEmpty() {
				t.Fatal("origin square not vacated")
			}
		})
	}
}

func TestPromotionProperty(t *testing.T) {
	for _, pos := range randomPositions(40, 80) {
		for _, m := range GenerateMoves(pos.b, pos.color) {
			before := pos.b.Occupant(m.From())
			capturedKing := false
			if captures := m.Captures(); len(captures) > 0 {
				capturedKing = pos.b.Occupant(captures[len(captures)-1]).IsKing()
			}

			after := Play(pos.b, m)
			want := before.IsKing() || m.To().Row == backRank(pos.color) || capturedKing
			if got := after.Occupant(m.To()).IsKing(); got != want {
				t.Fatalf("%s: move %v crowned=%v, want %v", pos.b.Layout(), m, got, want)
			}
		}
	}
}

func TestGenerateMovesLeavesBoardIntact(t *testing.T) {
	for _, pos := range randomPositions(10, 60) {
		layout := pos.b.Layout()
		GenerateMoves(pos.b, pos.color)
		if pos.b.Layout() != layout {
			t.Fatalf("board changed: %s -> %s", layout, pos.b.Layout())
		}
	}
}

func TestEvaluate(t *testing.T) {
	b := mustGrid(t,
		".B......",
		"........",
		"...b.b..",
		"........",
		"........",
		"..w.....",
		"........",
		"........",
	)
	if got := Evaluate(b, core.ColorBlack); got != 11 {
		t.Errorf("black score = %d, want 11", got)
	}
	if got := Evaluate(b, core.ColorWhite); got != -11 {
		t.Errorf("white score = %d, want -11", got)
	}
	if got := Evaluate(board.Starting(), core.ColorBlack); got != 0 {
		t.Errorf("starting score = %d, want 0", got)
	}
}

func TestEvaluateSymmetry(t *testing.T) {
	for _, pos := range randomPositions(20, 80) {
		black, white := Evaluate(pos.b, core.ColorBlack), Evaluate(pos.b, core.ColorWhite)
		if black != -white {
			t.Fatalf("%s: black %d, white %d", pos.b.Layout(), black, white)
		}
	}
}

func TestZeroDepthSearchIsEvaluation(t *testing.T) {
	for _, pos := range randomPositions(20, 60) {
		if _, over := Winner(pos.b); over {
			continue
		}
		s := &searcher{}
		got := s.search(pos.b, 0, 0, pos.color, -Infinity, Infinity)
		if want := Evaluate(pos.b, pos.color); got != want {
			t.Fatalf("%s: search = %d, evaluate = %d", pos.b.Layout(), got, want)
		}
	}
}

// minimax is the same search without pruning
func minimax(b *board.Board, depth, maxDepth int, color core.Color) (int, board.Move) {
	maximizing := depth%2 == 0
	if winner, ok := Winner(b); ok {
		if (winner == color) == maximizing {
			return WinScore, nil
		}
		return -WinScore, nil
	}
	if depth == maxDepth {
		if maximizing {
			return Evaluate(b, color), nil
		}
		return -Evaluate(b, color), nil
	}

	moves := GenerateMoves(b, color)
	if len(moves) == 0 {
		if maximizing {
			return -WinScore, nil
		}
		return WinScore, nil
	}

	best := -Infinity
	if !maximizing {
		best = Infinity
	}
	var bestMove board.Move
	for _, m := range moves {
		score, _ := minimax(Play(b, m), depth+1, maxDepth, core.OppositeColor(color))
		if (maximizing && score > best) || (!maximizing && score < best) {
			best, bestMove = score, m
		}
	}
	return best, bestMove
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	positions := []position{
		{board.Starting(), core.ColorBlack},
		{board.Starting(), core.ColorWhite},
		{mustGrid(t, "........", "........", ".b......", "..W.....", "........", "....w...", "........", "........"), core.ColorBlack},
		{mustGrid(t, "........", "........", "........", "..w.w...", "...B....", "..w.w...", "........", "........"), core.ColorWhite},
	}
	all := randomPositions(6, 40)
	for i := 5; i < len(all); i += 7 {
		positions = append(positions, all[i])
	}

	for _, pos := range positions {
		for depth := 1; depth <= 4; depth++ {
			wantScore, wantMove := minimax(pos.b, 0, depth, pos.color)
			got := Search(pos.b, pos.color, depth)
			if got.Score != wantScore || !got.Move.Equal(wantMove) {
				t.Fatalf("%s %s depth %d: alpha-beta (%d, %v), minimax (%d, %v)",
					pos.b.Layout(), pos.color, depth, got.Score, got.Move, wantScore, wantMove)
			}
		}
	}
}

func TestSearchStartingPosition(t *testing.T) {
	start := board.Starting()
	res := Search(start, core.ColorBlack, 2)
	if len(res.Move) != 2 {
		t.Fatalf("expected a simple move, got %v", res.Move)
	}
	from, to := res.Move.From(), res.Move.To()
	if start.Occupant(from) != board.BlackMan {
		t.Errorf("move starts from %q", start.Occupant(from))
	}
	if to.Row != from.Row+1 || (to.Col != from.Col-1 && to.Col != from.Col+1) {
		t.Errorf("move %v is not a forward diagonal step", res.Move)
	}
	if !start.Occupant(to).IsEmpty() {
		t.Errorf("destination %v is occupied", to)
	}
	if res.Nodes == 0 {
		t.Error("node counter not updated")
	}

	again := Search(start, core.ColorBlack, 2)
	if !again.Move.Equal(res.Move) || again.Score != res.Score {
		t.Errorf("repeated search differs: %v/%d vs %v/%d", again.Move, again.Score, res.Move, res.Score)
	}
	if start.Layout() != board.StartingLayout {
		t.Error("search modified the caller's board")
	}
}

func TestSearchTerminalPositions(t *testing.T) {
	tests := []struct {
		name   string
		grid   []string
		color  core.Color
		score  int
		noMove bool
	}{
		{
			name:   "no pieces left",
			grid:   []string{"........", "........", "........", "........", "........", "..w.....", "........", "........"},
			color:  core.ColorBlack,
			score:  -WinScore,
			noMove: true,
		},
		{
			name:   "blocked on the back rank",
			grid:   []string{".w......", "........", "........", "........", "........", "........", "........", "b......."},
			color:  core.ColorBlack,
			score:  -WinScore,
			noMove: true,
		},
		{
			name:  "last capture wins",
			grid:  []string{"........", "........", "........", "....w...", "...B....", "........", "........", "........"},
			color: core.ColorBlack,
			score: WinScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Search(mustGrid(t, tt.grid...), tt.color, 3)
			if res.Score != tt.score {
				t.Errorf("score = %d, want %d", res.Score, tt.score)
			}
			if (res.Move == nil) != tt.noMove {
				t.Errorf("move = %v, noMove %v", res.Move, tt.noMove)
			}
		})
	}
}

func TestBestMoveValidation(t *testing.T) {
	start := board.Starting().Rows()
	short := start[:7]
	badSymbol := append([]string{}, start...)
	badSymbol[3] = "...x...."
	offSquare := append([]string{}, start...)
	offSquare[3] = ".b......"

	tests := []struct {
		name  string
		grid  []string
		turn  string
		depth int
		field string
	}{
		{"seven rows", short, "b", 2, "board"},
		{"unknown symbol", badSymbol, "b", 2, "board"},
		{"piece on light square", offSquare, "b", 2, "board"},
		{"bad color", start, "red", 2, "turn"},
		{"zero depth", start, "b", 0, "depth"},
		{"depth too large", start, "w", MaxSearchDepth + 1, "depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BestMove(tt.grid, tt.turn, tt.depth)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %s, want %s", verr.Field, tt.field)
			}
		})
	}
}

func TestBestMoveNoLegalMove(t *testing.T) {
	grid := []string{".w......", "........", "........", "........", "........", "........", "........", "b......."}
	m, err := BestMove(grid, "b", 4)
	if err != nil {
		t.Fatalf("BestMove: %v", err)
	}
	if m != nil {
		t.Fatalf("expected no move, got %v", m)
	}
}

func TestIsLegal(t *testing.T) {
	b := board.Starting()
	for _, m := range GenerateMoves(b, core.ColorBlack) {
		if !IsLegal(b, core.ColorBlack, m) {
			t.Errorf("generated move %v rejected", m)
		}
		parsed, err := board.ParseMove(m.String())
		if err != nil || !IsLegal(b, core.ColorBlack, parsed) {
			t.Errorf("PDN round trip of %v failed: %v", m, err)
		}
	}

	illegal := []board.Move{
		{{Row: 2, Col: 1}, {Row: 1, Col: 0}}, // backward
		{{Row: 5, Col: 0}, {Row: 4, Col: 1}}, // opponent's piece
		{{Row: 1, Col: 0}, {Row: 2, Col: 1}}, // occupied destination
	}
	for _, m := range illegal {
		if IsLegal(b, core.ColorBlack, m) {
			t.Errorf("illegal move %v accepted", m)
		}
	}
}

func TestOutcome(t *testing.T) {
	if got := Outcome(board.Starting(), core.ColorBlack); got != core.StateOngoing {
		t.Errorf("starting outcome = %s", got)
	}
	blocked := mustGrid(t, ".w......", "........", "........", "........", "........", "........", "........", "b.......")
	if got := Outcome(blocked, core.ColorBlack); got != core.StateWhiteWins {
		t.Errorf("blocked outcome = %s, want white_wins", got)
	}
	empty := mustGrid(t, "........", "........", "........", "....b...", "........", "........", "........", "........")
	if got := Outcome(empty, core.ColorWhite); got != core.StateBlackWins {
		t.Errorf("outcome = %s, want black_wins", got)
	}
}
