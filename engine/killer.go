package engine

// KillerTable remembers, per remaining depth and origin square, the
// destination of the last quiet refutation found there.
type KillerTable struct {
	KillerMoves [MaxDepthLimit + 1][64]Square
}

func NewKillerTable() *KillerTable {
	k := &KillerTable{}
	k.ClearKillers()
	return k
}

func (k *KillerTable) InsertKiller(move Move, depth int8) {
	if depth < 0 || int(depth) > MaxDepthLimit {
		return
	}
	k.KillerMoves[depth][move.From] = move.To
}

// IsKiller reports whether move matches the stored killer for (depth, move.From).
func (k *KillerTable) IsKiller(move Move, depth int8) bool {
	if depth < 0 || int(depth) > MaxDepthLimit {
		return false
	}
	return k.KillerMoves[depth][move.From] == move.To
}

// Clear the killer moves table.
func (k *KillerTable) ClearKillers() {
	for depth := range k.KillerMoves {
		for from := range k.KillerMoves[depth] {
			k.KillerMoves[depth][from] = NoSquare
		}
	}
}
