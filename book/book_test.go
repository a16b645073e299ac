package book

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"minimax-engine/engine"
	"minimax-engine/rules"
)

const startKey = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"

func sampleTable() Table {
	t := New()
	t.Add(startKey, "e2e4", 700)
	t.Add(startKey, "d2d4", 300)
	t.Add(startKey, "e2e4", 50)
	t.Add("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq -", "c7c5", 10)
	return t
}

func TestAddAccumulates(t *testing.T) {
	tbl := sampleTable()
	entries, err := tbl.Lookup(startKey)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(entries) != 2 || entries[0].Move != "e2e4" || entries[0].Weight != 750 {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if entries, _ := tbl.Lookup("8/8/8/8/8/8/8/8 w - -"); entries != nil {
		t.Fatalf("unknown key returned %+v", entries)
	}
	keys := tbl.Keys()
	if len(keys) != 2 || keys[0] > keys[1] {
		t.Fatalf("keys not sorted: %v", keys)
	}
}

func TestPrune(t *testing.T) {
	tbl := sampleTable()
	tbl.Prune(100)
	if len(tbl) != 1 {
		t.Fatalf("expected one position left, got %d", len(tbl))
	}
	if entries := tbl[startKey]; len(entries) != 2 {
		t.Fatalf("start position pruned: %+v", entries)
	}
	tbl.Prune(400)
	if entries := tbl[startKey]; len(entries) != 1 || entries[0].Move != "e2e4" {
		t.Fatalf("d2d4 should be pruned: %+v", entries)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"book.json", "book.json.zst"} {
		path := filepath.Join(dir, name)
		if err := sampleTable().Save(path); err != nil {
			t.Fatalf("%s: Save: %v", name, err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("%s: Load: %v", name, err)
		}
		entries := loaded[startKey]
		if len(entries) != 2 || entries[0] != (Entry{Move: "e2e4", Weight: 750}) || entries[1] != (Entry{Move: "d2d4", Weight: 300}) {
			t.Fatalf("%s: entries %+v", name, entries)
		}
	}

	plain, _ := os.ReadFile(filepath.Join(dir, "book.json"))
	packed, _ := os.ReadFile(filepath.Join(dir, "book.json.zst"))
	if len(packed) == 0 || string(packed) == string(plain) {
		t.Fatalf("zst file is not compressed")
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":   `{"a":`,
		"bad key":    `{"only placement": [{"move": "e2e4", "weight": 1}]}`,
		"bad move":   `{"` + startKey + `": [{"move": "e4", "weight": 1}]}`,
		"neg weight": `{"` + startKey + `": [{"move": "e2e4", "weight": -3}]}`,
	}
	for name, body := range cases {
		if _, err := Decode(strings.NewReader(body)); !errors.Is(err, ErrMalformedBook) {
			t.Fatalf("%s: expected ErrMalformedBook, got %v", name, err)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("missing file accepted")
	}
}

// alwaysBook makes every book draw succeed.
type alwaysBook struct{}

func (alwaysBook) Float64() float64     { return 0.5 }
func (alwaysBook) Int63n(n int64) int64 { return 0 }

func TestTableDrivesEngine(t *testing.T) {
	pos, err := rules.NewGoose(rules.StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Key() != startKey {
		t.Fatalf("canonical key mismatch: %q", pos.Key())
	}
	cfg := engine.DefaultConfig()
	cfg.TTSizeMB = 1
	tbl := New()
	tbl.Add(startKey, "e2e4", 12000)
	e, err := engine.New(cfg, engine.Options{Book: tbl, Rand: alwaysBook{}})
	if err != nil {
		t.Fatal(err)
	}
	res := e.Search(pos)
	if res.Source != engine.SourceBook || res.Move.String() != "e2e4" {
		t.Fatalf("expected e2e4 from the book, got %s (%s)", res.Move, res.Source)
	}
}

const samplePGN = `[Event "A"]
[White "w1"]
[Black "b1"]
[WhiteElo "2400"]
[BlackElo "2300"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 1-0

[Event "B"]
[White "w2"]
[Black "b2"]
[WhiteElo "2200"]
[BlackElo "2100"]
[Result "0-1"]

1. e4 c5 2. Nf3 d6 0-1

[Event "C"]
[White "w3"]
[Black "b3"]
[WhiteElo "1500"]
[BlackElo "1600"]
[Result "1/2-1/2"]

1. d4 d5 1/2-1/2

`

func TestBuildFromPGN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.pgn")
	if err := os.WriteFile(path, []byte(samplePGN), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, stats, err := BuildFromPGN(context.Background(), []string{path}, BuildOptions{
		MaxPly:    2,
		MinRating: 2000,
		Logger:    zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("BuildFromPGN: %v", err)
	}
	if stats.Games != 2 || stats.Skipped != 1 {
		t.Fatalf("stats %+v", stats)
	}
	start := tbl[startKey]
	if len(start) != 1 || start[0] != (Entry{Move: "e2e4", Weight: 2}) {
		t.Fatalf("start position entries %+v", start)
	}
	afterE4 := tbl[keyAfter(t, "e2e4")]
	if len(afterE4) != 2 {
		t.Fatalf("replies to e4: %+v", afterE4)
	}
	if len(tbl) != 2 {
		t.Fatalf("MaxPly 2 should record two positions, got %d", len(tbl))
	}
}

func keyAfter(t *testing.T, uci string) string {
	t.Helper()
	pos, err := rules.NewGoose(rules.StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range pos.LegalMoves() {
		if m.String() == uci {
			pos.Apply(m)
			return pos.Key()
		}
	}
	t.Fatalf("%s not legal from the start", uci)
	return ""
}

func TestBuildFromPGNCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.pgn")
	if err := os.WriteFile(path, []byte(samplePGN), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := BuildFromPGN(ctx, []string{path}, BuildOptions{Logger: zerolog.Nop()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
