package engine

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

const (
	// Total book weight at which a position counts as fully known.
	bookWeightSaturation = 10000
	// Full moves over which the urge to play from the book fades out.
	bookMoveHorizon = 20
)

// BookEntry is one candidate move of a book position, in UCI notation,
// with its relative popularity.
type BookEntry struct {
	Move   string `json:"move"`
	Weight int    `json:"weight"`
}

// BookSource is a read-only opening table keyed by Position.Key.
type BookSource interface {
	Lookup(key string) ([]BookEntry, error)
}

// RandomSource is the randomness the book selector draws from; *rand.Rand
// satisfies it.
type RandomSource interface {
	Float64() float64
	Int63n(n int64) int64
}

func newDefaultRand() RandomSource {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// UseProbability is the chance of trusting the book: it decays linearly to
// zero over the first twenty full moves and grows linearly with how much
// weight the book carries for the position.
func UseProbability(moveNumber, totalWeight int) float64 {
	moveDecay := max(0, 1-float64(moveNumber)/bookMoveHorizon)
	weightFactor := min(1, float64(totalWeight)/bookWeightSaturation)
	return moveDecay * weightFactor
}

// ChooseWeighted picks an entry with probability proportional to its weight.
// Entries with a non-positive weight are never picked.
func ChooseWeighted(entries []BookEntry, rng RandomSource) (BookEntry, bool) {
	total := totalWeight(entries)
	if total <= 0 {
		return BookEntry{}, false
	}
	choice := rng.Int63n(int64(total))
	var current int64
	for _, e := range entries {
		if e.Weight <= 0 {
			continue
		}
		current += int64(e.Weight)
		if current > choice {
			return e, true
		}
	}
	return BookEntry{}, false
}

func totalWeight(entries []BookEntry) int {
	total := 0
	for _, e := range entries {
		if e.Weight > 0 {
			total += e.Weight
		}
	}
	return total
}

// BookDecision records why the selector did or did not play from the book.
type BookDecision struct {
	Entry       BookEntry
	Probability float64
	Used        bool
}

// SelectBookMove decides whether to play from entries. Two independent draws
// are made: the book is used only when the first falls below the use
// probability and the second exceeds deviation.
func SelectBookMove(entries []BookEntry, moveNumber int, deviation float64, rng RandomSource) BookDecision {
	total := totalWeight(entries)
	if total <= 0 {
		return BookDecision{}
	}
	d := BookDecision{Probability: UseProbability(moveNumber, total)}
	r1, r2 := rng.Float64(), rng.Float64()
	if !(r1 < d.Probability && r2 > deviation) {
		return d
	}
	d.Entry, d.Used = ChooseWeighted(entries, rng)
	return d
}

// bookMove consults the configured book. Every failure is logged and reported
// as "no book move" so the caller falls through to the search.
func (e *Engine) bookMove(pos Position, log zerolog.Logger) (Move, bool) {
	if e.book == nil || !e.cfg.UseBook {
		return NoMove, false
	}
	key := pos.Key()
	entries, err := e.book.Lookup(key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("opening book lookup failed")
		return NoMove, false
	}
	if len(entries) == 0 {
		return NoMove, false
	}

	d := SelectBookMove(entries, pos.FullmoveNumber(), e.cfg.BookDeviation, e.rng)
	if !d.Used {
		log.Debug().Float64("probability", d.Probability).Msg("deviating from book deliberately")
		return NoMove, false
	}
	for _, m := range pos.LegalMoves() {
		if m.String() == d.Entry.Move {
			log.Debug().Str("move", d.Entry.Move).Float64("probability", d.Probability).Msg("using book move")
			return m, true
		}
	}
	log.Warn().Str("key", key).Str("move", d.Entry.Move).Msg("book move is not legal in position")
	return NoMove, false
}
