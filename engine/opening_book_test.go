package engine

import (
	"math"
	"math/rand"
	"testing"
)

// scriptedRand replays fixed draws.
type scriptedRand struct {
	floats []float64
	ints   []int64
}

func (r *scriptedRand) Float64() float64 {
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRand) Int63n(n int64) int64 {
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func TestUseProbability(t *testing.T) {
	cases := []struct {
		move, weight int
		want         float64
	}{
		{1, 10000, 0.95},
		{1, 20000, 0.95},
		{10, 10000, 0.5},
		{10, 5000, 0.25},
		{20, 10000, 0},
		{35, 10000, 0},
		{1, 0, 0},
	}
	for _, c := range cases {
		if got := UseProbability(c.move, c.weight); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("UseProbability(%d, %d): got %v want %v", c.move, c.weight, got, c.want)
		}
	}
}

func TestChooseWeightedFrequencies(t *testing.T) {
	entries := []BookEntry{{Move: "e2e4", Weight: 700}, {Move: "d2d4", Weight: 300}}
	rng := rand.New(rand.NewSource(1))
	const draws = 10000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		e, ok := ChooseWeighted(entries, rng)
		if !ok {
			t.Fatalf("draw %d: nothing chosen", i)
		}
		counts[e.Move]++
	}
	share := float64(counts["e2e4"]) / draws
	if math.Abs(share-0.7) > 0.03 {
		t.Fatalf("e2e4 chosen %.3f of the time, want 0.70±0.03", share)
	}
}

func TestChooseWeightedSkipsNonPositive(t *testing.T) {
	entries := []BookEntry{{Move: "a2a3", Weight: 0}, {Move: "h2h3", Weight: -5}, {Move: "g1f3", Weight: 1}}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		if e, ok := ChooseWeighted(entries, rng); !ok || e.Move != "g1f3" {
			t.Fatalf("got %+v %v", e, ok)
		}
	}
	if _, ok := ChooseWeighted([]BookEntry{{Move: "a2a3"}}, rng); ok {
		t.Fatalf("zero total weight must not choose")
	}
}

func TestSelectBookMoveThresholds(t *testing.T) {
	entries := []BookEntry{{Move: "e2e4", Weight: 6000}, {Move: "d2d4", Weight: 4000}}

	used := SelectBookMove(entries, 1, 0.1, &scriptedRand{floats: []float64{0.5, 0.5}, ints: []int64{6500}})
	if !used.Used || used.Entry.Move != "d2d4" {
		t.Fatalf("expected d2d4 from the book, got %+v", used)
	}
	if math.Abs(used.Probability-0.95) > 1e-9 {
		t.Fatalf("probability %v", used.Probability)
	}

	// First draw above the use probability.
	if d := SelectBookMove(entries, 1, 0.1, &scriptedRand{floats: []float64{0.96, 0.5}}); d.Used {
		t.Fatalf("book used although r1 >= p")
	}
	// Second draw not above the deviation.
	if d := SelectBookMove(entries, 1, 0.1, &scriptedRand{floats: []float64{0.1, 0.05}}); d.Used {
		t.Fatalf("book used although r2 <= deviation")
	}
	// Past the horizon the book is never used.
	if d := SelectBookMove(entries, 25, 0, &scriptedRand{floats: []float64{0, 0.9}}); d.Used || d.Probability != 0 {
		t.Fatalf("book used at move 25: %+v", d)
	}
	if d := SelectBookMove(nil, 1, 0, &scriptedRand{}); d.Used {
		t.Fatalf("empty entries used")
	}
}
