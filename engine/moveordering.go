package engine

import "slices"

type move struct {
	move  Move
	score int64
}

type moveList struct {
	moves []move
}

/*
	Move ordering offsets
	- Captures first, most valuable victim taken by least valuable attacker on top
	- Killer matches for this depth next
	- History accumulates on top of both, so a quiet move that keeps refuting
	  lines may eventually climb over the captures
*/
const (
	captureOffset int64 = 10000
	killerOffset  int64 = 9000
)

// MoveOrderer returns moves, the legal moves of pos, best candidates first.
type MoveOrderer interface {
	Order(pos Position, moves []Move, depth int8) []Move
}

// Orderer is the default MoveOrderer. It only reads the tables it is given.
type Orderer struct {
	Killers *KillerTable
	History *HistoryTable
}

func NewOrderer(killers *KillerTable, history *HistoryTable) *Orderer {
	return &Orderer{Killers: killers, History: history}
}

func (o *Orderer) Order(pos Position, moves []Move, depth int8) []Move {
	list := o.scoreMoves(pos, moves, depth)
	slices.SortStableFunc(list.moves, func(a, b move) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})
	ordered := make([]Move, len(list.moves))
	for i, m := range list.moves {
		ordered[i] = m.move
	}
	return ordered
}

// ScoreMove is the ordering key of a single move.
func (o *Orderer) ScoreMove(pos Position, m Move, depth int8) int64 {
	var score int64
	if pos.IsCapture(m) {
		victim := PieceValue[pos.CapturedPiece(m)]
		attacker := PieceValue[pos.MovingPiece(m)]
		score = captureOffset + int64(victim) - int64(attacker)
	}
	if o.Killers != nil && o.Killers.IsKiller(m, depth) {
		score += killerOffset
	}
	if o.History != nil {
		score += o.History.Score(m)
	}
	return score
}

func (o *Orderer) scoreMoves(pos Position, moves []Move, depth int8) moveList {
	list := moveList{moves: make([]move, len(moves))}
	for i, m := range moves {
		list.moves[i] = move{move: m, score: o.ScoreMove(pos, m, depth)}
	}
	return list
}

// moveToFront moves best to index 0 keeping the relative order of the rest.
func moveToFront(moves []Move, best Move) []Move {
	idx := slices.Index(moves, best)
	if idx <= 0 {
		return moves
	}
	copy(moves[1:idx+1], moves[:idx])
	moves[0] = best
	return moves
}
