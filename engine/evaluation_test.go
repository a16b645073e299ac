package engine_test

import (
	"errors"
	"testing"

	"minimax-engine/engine"
	"minimax-engine/rules"
)

func TestEvaluateStartingPosition(t *testing.T) {
	pos := mustGoose(t, rules.StartFEN)
	// Material and tables cancel; white has 20 moves.
	if got := engine.Evaluate(pos); got != 200 {
		t.Fatalf("start position: got %d want 200", got)
	}

	undo := pos.Apply(findMove(t, pos, "e2e4"))
	defer undo()
	// e2 is worth 50 to a white pawn and e4 only 25; black has 20 moves.
	if got := engine.Evaluate(pos); got != 225 {
		t.Fatalf("after e2e4: got %d want 225", got)
	}
}

func TestEvaluateMirroredPositionsAgree(t *testing.T) {
	pairs := [][2]string{
		{"4k3/8/8/8/3N4/8/P7/4K3 w - - 0 1", "4k3/p7/8/3n4/8/8/8/4K3 b - - 0 1"},
		{"r3k3/pp6/8/8/8/8/8/4K3 w - - 0 1", "4k3/8/8/8/8/8/PP6/R3K3 b - - 0 1"},
	}
	for _, p := range pairs {
		white := engine.Evaluate(mustGoose(t, p[0]))
		black := engine.Evaluate(mustGoose(t, p[1]))
		if white != black {
			t.Fatalf("mirrored positions disagree: %d vs %d (%s / %s)", white, black, p[0], p[1])
		}
	}
}

func TestEvaluateCheckAndTerminals(t *testing.T) {
	// White is in check with two king moves and a rook down.
	if got := engine.Evaluate(mustGoose(t, "k7/8/8/8/8/8/8/K6r w - - 0 1")); got != -530 {
		t.Fatalf("in check: got %d want -530", got)
	}
	if got := engine.Evaluate(mustGoose(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")); got != -engine.Checkmate {
		t.Fatalf("mated mover: got %d", got)
	}
}

// Draws are not short-circuited: the board terms still apply.
func TestEvaluateScoresDrawsOnTheBoard(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want int32
	}{
		// Black has no move and only a king against queen and king.
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", -900},
		// Knight on e3 is 2 from the centre; 7 king and 8 knight moves.
		{"insufficient material", "8/8/4k3/8/8/3KN3/8/8 w - - 0 1", 300 + 150},
		// 10 rook and 5 king moves.
		{"fifty-move rule", "4k3/8/8/8/8/8/8/R3K3 w - - 100 80", 500 + 150},
	}
	for _, c := range cases {
		pos := mustGoose(t, c.fen)
		if !engine.IsDraw(pos) {
			t.Fatalf("%s: %s is not a draw", c.name, c.fen)
		}
		if got := engine.Evaluate(pos); got != c.want {
			t.Fatalf("%s: got %d want %d", c.name, got, c.want)
		}
	}
}

func TestOrderingCapturesFirst(t *testing.T) {
	pos := mustGoose(t, "4k3/8/8/3q1r2/4P3/8/8/4K3 w - - 0 1")
	o := engine.NewOrderer(engine.NewKillerTable(), engine.NewHistoryTable())
	moves := o.Order(pos, pos.LegalMoves(), 3)
	if len(moves) != len(pos.LegalMoves()) {
		t.Fatalf("orderer dropped moves: %d of %d", len(moves), len(pos.LegalMoves()))
	}
	if moves[0].String() != "e4d5" || moves[1].String() != "e4f5" {
		t.Fatalf("expected PxQ then PxR first, got %s %s", moves[0], moves[1])
	}
}

func TestOrderingKillersAndHistory(t *testing.T) {
	pos := mustGoose(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	killers := engine.NewKillerTable()
	history := engine.NewHistoryTable()
	o := engine.NewOrderer(killers, history)

	kingMove := findMove(t, pos, "e1f2")
	killers.InsertKiller(kingMove, 3)
	moves := o.Order(pos, pos.LegalMoves(), 3)
	if moves[0].String() != "e4d5" || moves[1] != kingMove {
		t.Fatalf("killer should follow the capture: %v", moves)
	}
	if score := o.ScoreMove(pos, kingMove, 4); score != 0 {
		t.Fatalf("killer applied at another depth: %d", score)
	}

	pawnPush := findMove(t, pos, "e4e5")
	for i := 0; i < 200; i++ {
		history.Increment(pawnPush, 8)
	}
	if moves := o.Order(pos, pos.LegalMoves(), 3); moves[0] != pawnPush {
		t.Fatalf("history should lift e4e5 over the capture: %v", moves)
	}
}

func TestOrderingIsStableForQuietMoves(t *testing.T) {
	pos := mustGoose(t, rules.StartFEN)
	o := engine.NewOrderer(engine.NewKillerTable(), engine.NewHistoryTable())
	got := o.Order(pos, pos.LegalMoves(), 2)
	want := pos.LegalMoves()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("quiet moves reordered at %d: %s vs %s", i, got[i], want[i])
		}
	}
}

type mapBook map[string][]engine.BookEntry

func (b mapBook) Lookup(key string) ([]engine.BookEntry, error) { return b[key], nil }

type failingBook struct{}

func (failingBook) Lookup(string) ([]engine.BookEntry, error) {
	return nil, errors.New("book unavailable")
}

// fixedRand always draws the same numbers.
type fixedRand struct {
	f float64
	n int64
}

func (r fixedRand) Float64() float64     { return r.f }
func (r fixedRand) Int63n(n int64) int64 { return r.n % n }

func TestBookMoveUsed(t *testing.T) {
	pos := mustGoose(t, rules.StartFEN)
	book := mapBook{pos.Key(): {{Move: "e2e4", Weight: 8000}, {Move: "d2d4", Weight: 2000}}}
	cfg := testConfig(3)
	cfg.UseBook = true
	cfg.BookDeviation = 0.1
	e := newEngine(t, cfg, engine.Options{Book: book, Rand: fixedRand{f: 0.5, n: 8500}})

	res := e.Search(pos)
	if res.Source != engine.SourceBook || res.Move.String() != "d2d4" {
		t.Fatalf("expected book move d2d4, got %s from %s", res.Move, res.Source)
	}
	if res.Nodes != 0 {
		t.Fatalf("book move should not search, %d nodes", res.Nodes)
	}
}

func TestBookFallsBackToSearch(t *testing.T) {
	pos := mustGoose(t, rules.StartFEN)
	books := map[string]engine.BookSource{
		"lookup error": failingBook{},
		"illegal move": mapBook{pos.Key(): {{Move: "e2e5", Weight: 10000}}},
		"unknown key":  mapBook{},
	}
	for name, book := range books {
		cfg := testConfig(2)
		cfg.UseBook = true
		e := newEngine(t, cfg, engine.Options{Book: book, Rand: fixedRand{f: 0.5}})
		res := e.Search(pos)
		if res.Source != engine.SourceSearch || !isLegal(pos, res.Move) {
			t.Fatalf("%s: got %s from %s", name, res.Move, res.Source)
		}
	}
}

func TestBookDisabledOrDeviating(t *testing.T) {
	pos := mustGoose(t, rules.StartFEN)
	book := mapBook{pos.Key(): {{Move: "e2e4", Weight: 10000}}}

	cfg := testConfig(2)
	e := newEngine(t, cfg, engine.Options{Book: book, Rand: fixedRand{f: 0.5}})
	if res := e.Search(pos); res.Source != engine.SourceSearch {
		t.Fatalf("book used while disabled")
	}

	cfg.UseBook = true
	cfg.BookDeviation = 0.9
	e = newEngine(t, cfg, engine.Options{Book: book, Rand: fixedRand{f: 0.5}})
	if res := e.Search(pos); res.Source != engine.SourceSearch {
		t.Fatalf("book used although the deviation draw failed")
	}
}

func findMove(t *testing.T, pos engine.Position, uci string) engine.Move {
	t.Helper()
	for _, m := range pos.LegalMoves() {
		if m.String() == uci {
			return m
		}
	}
	t.Fatalf("move %s not legal in %s", uci, pos.Key())
	return engine.NoMove
}
