package engine

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Source tells where a returned move came from.
type Source string

const (
	SourceNone   Source = "none"
	SourceBook   Source = "book"
	SourceSearch Source = "search"
)

// Result is the outcome of one Search call.
type Result struct {
	Move    Move
	Score   int32
	Depth   int
	Nodes   uint64
	Source  Source
	Elapsed time.Duration
	Stats   CutStatistics
}

// Found reports whether a move was produced.
func (r Result) Found() bool { return !r.Move.IsZero() }

// Info is reported after every completed iteration.
type Info struct {
	Depth    int
	Score    int32
	Nodes    uint64
	Elapsed  time.Duration
	Hashfull int
	PV       []Move
}

type Options struct {
	Book    BookSource
	Rand    RandomSource
	Clock   Clock
	Orderer MoveOrderer
	Logger  *zerolog.Logger
	OnInfo  func(Info)
}

// Engine owns the search tables for one game. It is not safe for concurrent use.
type Engine struct {
	cfg     Config
	tt      *TransTable
	killers *KillerTable
	history *HistoryTable
	orderer MoveOrderer
	book    BookSource
	rng     RandomSource
	clock   Clock
	log     zerolog.Logger
	onInfo  func(Info)

	timeHandler TimeHandler
	stats       CutStatistics
	stopped     bool
}

func New(cfg Config, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:     cfg,
		tt:      NewTransTable(cfg.TTSizeMB),
		killers: NewKillerTable(),
		history: NewHistoryTable(),
		orderer: opts.Orderer,
		book:    opts.Book,
		rng:     opts.Rand,
		clock:   opts.Clock,
		onInfo:  opts.OnInfo,
		log:     zerolog.Nop(),
	}
	if opts.Logger != nil {
		e.log = *opts.Logger
	}
	if e.orderer == nil {
		e.orderer = NewOrderer(e.killers, e.history)
	}
	if e.clock == nil {
		e.clock = SystemClock
	}
	if e.rng == nil {
		e.rng = newDefaultRand()
	}
	return e, nil
}

func (e *Engine) Config() Config { return e.cfg }

// SetConfig swaps the options; the transposition table is reallocated only
// when its size changes.
func (e *Engine) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.TTSizeMB != e.cfg.TTSizeMB {
		e.tt.Resize(cfg.TTSizeMB)
	}
	e.cfg = cfg
	return nil
}

func (e *Engine) SetBook(book BookSource) { e.book = book }

func (e *Engine) SetInfoHandler(fn func(Info)) { e.onInfo = fn }

// Killers and History expose the ordering tables learned so far this game.
func (e *Engine) Killers() *KillerTable { return e.killers }

func (e *Engine) History() *HistoryTable { return e.history }

// NewGame forgets everything learned in the previous game.
func (e *Engine) NewGame() {
	e.tt.Clear()
	e.killers.ClearKillers()
	e.history.Clear()
}

// GetMove returns the move to play in pos, or false when there is none.
// pos is restored before GetMove returns.
func (e *Engine) GetMove(pos Position) (Move, bool) {
	res := e.Search(pos)
	return res.Move, res.Found()
}

// Search runs the opening book and, failing that, iterative deepening up to
// the configured depth within the configured time limit.
func (e *Engine) Search(pos Position) Result {
	log := e.log.With().Str("search_id", uuid.NewString()).Logger()

	e.timeHandler.StartTime(e.clock, e.cfg.Budget())
	e.stopped = false
	e.stats.reset()
	e.tt.NewSearch()

	rootMoves := pos.LegalMoves()
	if len(rootMoves) == 0 {
		log.Debug().Bool("draw", IsDraw(pos)).Msg("no legal moves")
		return Result{Source: SourceNone}
	}

	if m, ok := e.bookMove(pos, log); ok {
		return Result{Move: m, Source: SourceBook, Elapsed: e.timeHandler.Elapsed()}
	}

	res := Result{Source: SourceNone}
	for depth := 1; depth <= e.cfg.MaxDepth; depth++ {
		if e.timeHandler.TimeStatus() {
			break
		}
		move, score, complete := e.rootSearch(pos, rootMoves, int8(depth), res.Move)
		if !move.IsZero() {
			res.Move = move
			res.Score = score
			res.Depth = depth
			res.Source = SourceSearch
		}
		if !complete {
			log.Debug().Int("depth", depth).Msg("iteration cut short by time limit")
			break
		}
		e.reportIteration(pos, depth, move, score)
	}

	res.Nodes = e.stats.Nodes
	res.Stats = e.stats
	res.Elapsed = e.timeHandler.Elapsed()
	log.Debug().
		Str("move", res.Move.String()).
		Int("depth", res.Depth).
		Int32("score", res.Score).
		Object("stats", e.stats).
		Dur("elapsed", res.Elapsed).
		Msg("search complete")
	return res
}

// rootSearch searches every root move at depth, the previous iteration's best
// first. When time runs out the best of the fully searched moves is returned
// with complete set to false.
func (e *Engine) rootSearch(pos Position, rootMoves []Move, depth int8, prevBest Move) (best Move, bestScore int32, complete bool) {
	moves := e.orderer.Order(pos, slices.Clone(rootMoves), depth)
	if !prevBest.IsZero() {
		moves = moveToFront(moves, prevBest)
	}

	alpha, beta := -MaxScore, MaxScore
	bestScore = -MaxScore
	for _, move := range moves {
		if e.timeHandler.TimeStatus() {
			e.stopped = true
			return best, bestScore, false
		}
		score := e.child(pos, move, depth-1, 1, alpha, beta)
		if e.stopped {
			return best, bestScore, false
		}
		if score > alpha {
			alpha = score
			bestScore = score
			best = move
		}
		if !best.IsZero() {
			e.history.Increment(best, depth)
		}
	}
	if e.cfg.UseTT && !best.IsZero() {
		e.tt.Store(pos.Hash(), depth, 0, best, bestScore, ExactBound)
	}
	return best, bestScore, true
}

func (e *Engine) reportIteration(pos Position, depth int, best Move, score int32) {
	if e.onInfo == nil {
		return
	}
	e.onInfo(Info{
		Depth:    depth,
		Score:    score,
		Nodes:    e.stats.Nodes,
		Elapsed:  e.timeHandler.Elapsed(),
		Hashfull: e.tt.Hashfull(),
		PV:       e.principalVariation(pos, best, depth),
	})
}

// principalVariation starts from the root best move and follows the best
// moves stored in the transposition table.
func (e *Engine) principalVariation(pos Position, best Move, depth int) []Move {
	if best.IsZero() {
		return nil
	}
	pv := []Move{best}
	undos := []func(){pos.Apply(best)}
	defer func() {
		for i := len(undos) - 1; i >= 0; i-- {
			undos[i]()
		}
	}()
	for len(pv) < depth {
		entry, found := e.tt.getEntry(pos.Hash())
		if !found || entry.Move.IsZero() {
			break
		}
		next := entry.Move
		legal := false
		for _, m := range pos.LegalMoves() {
			if m == next {
				legal = true
				break
			}
		}
		if !legal {
			break
		}
		pv = append(pv, next)
		undos = append(undos, pos.Apply(next))
	}
	return pv
}
