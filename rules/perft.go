package rules

import "minimax-engine/engine"

// Perft counts leaf nodes of the legal move tree, depth plies deep.
func Perft(pos engine.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := pos.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		nodes += perftChild(pos, m, depth-1)
	}
	return nodes
}

func perftChild(pos engine.Position, m engine.Move, depth int) uint64 {
	undo := pos.Apply(m)
	defer undo()
	return Perft(pos, depth)
}

// PerftDivide reports the node count below each root move.
func PerftDivide(pos engine.Position, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth <= 0 {
		return out
	}
	for _, m := range pos.LegalMoves() {
		out[m.String()] = perftChild(pos, m, depth-1)
	}
	return out
}
