package engine

import "fmt"

// MaxDepthLimit bounds the iterative-deepening horizon and sizes the
// depth-indexed tables.
const MaxDepthLimit = 64

// historyMax keeps history scores far from overflowing once ordering offsets are added.
const historyMax int64 = 1 << 48

/*
HISTORY
Every time a move refutes a node, or stays the best root move for another
iteration, it gets depth*depth added. The table is never reset during a game
and never decays; the score saturates at historyMax.
*/
type HistoryTable struct {
	historyMove [64][64]int64
}

func NewHistoryTable() *HistoryTable { return &HistoryTable{} }

// Increment adds depth² to the (from, to) entry of move.
func (h *HistoryTable) Increment(move Move, depth int8) {
	if depth <= 0 {
		return
	}
	bonus := int64(depth) * int64(depth)
	cur := &h.historyMove[move.From][move.To]
	*cur = min(*cur+bonus, historyMax)
}

func (h *HistoryTable) Score(move Move) int64 {
	return h.historyMove[move.From][move.To]
}

// Clear the values in the history table.
func (h *HistoryTable) Clear() {
	h.historyMove = [64][64]int64{}
}

// isMateScore reports whether score encodes a forced mate.
func isMateScore(score int32) bool {
	return abs(score) > Checkmate-MaxDepthLimit*2
}

// FormatScore renders a mover-relative score the way UCI "info" lines expect,
// either "cp N" or "mate N" counted in full moves.
func FormatScore(score int32) string {
	if isMateScore(score) {
		plies := Checkmate - abs(score)
		mateIn := (plies + 1) / 2
		if score < 0 {
			mateIn = -mateIn
		}
		return fmt.Sprintf("mate %d", mateIn)
	}
	return fmt.Sprintf("cp %d", score)
}
