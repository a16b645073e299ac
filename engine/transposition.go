package engine

import (
	"unsafe"
)

// Bound tells how a stored score relates to the true value of the node.
type Bound uint8

const (
	// Flags
	NoBound    Bound = iota
	UpperBound       // failed low: value <= score
	LowerBound       // failed high: value >= score
	ExactBound

	// In MB
	DefaultTTSize = 16
	clusterSize   = 4
)

type TransTable struct {
	entries      []TTEntry
	clusterCount uint64
	age          uint8
}

type TTEntry struct {
	Hash  uint64
	Move  Move
	Score int32
	Depth int8
	Flag  Bound
	Age   uint8
}

// NewTransTable allocates a table of roughly sizeMB megabytes, split into
// clusters of four entries.
func NewTransTable(sizeMB int) *TransTable {
	TT := &TransTable{}
	TT.init(sizeMB)
	return TT
}

func (TT *TransTable) init(sizeMB int) {
	if sizeMB <= 0 {
		sizeMB = DefaultTTSize
	}
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	totalBytes := uint64(sizeMB) * 1024 * 1024
	clusterCount := totalBytes / (entrySize * clusterSize)
	if clusterCount == 0 {
		clusterCount = 1
	}
	TT.clusterCount = clusterCount
	TT.entries = make([]TTEntry, TT.clusterCount*clusterSize)
	TT.age = 0
}

// Resize reallocates the table, dropping every entry.
func (TT *TransTable) Resize(sizeMB int) {
	TT.init(sizeMB)
}

func (TT *TransTable) Clear() {
	clear(TT.entries)
	TT.age = 0
}

// NewSearch marks the start of a new search so entries written by earlier
// searches become preferred replacement victims.
func (TT *TransTable) NewSearch() {
	TT.age++
}

// Capacity is the number of entry slots.
func (TT *TransTable) Capacity() int { return len(TT.entries) }

// Hashfull returns the permille of the first thousand slots in use, as UCI reports it.
func (TT *TransTable) Hashfull() int {
	n := min(1000, len(TT.entries))
	if n == 0 {
		return 0
	}
	used := 0
	for i := 0; i < n; i++ {
		if TT.entries[i].Hash != 0 && TT.entries[i].Age == TT.age {
			used++
		}
	}
	return used * 1000 / n
}

func (TT *TransTable) getEntry(hash uint64) (entry *TTEntry, found bool) {
	if TT.clusterCount == 0 {
		return nil, false
	}
	start := int((hash % TT.clusterCount) * clusterSize)
	for i := 0; i < clusterSize; i++ {
		next := &TT.entries[start+i]
		if next.Hash == hash {
			return next, true
		}
	}
	return nil, false
}

// Probe looks hash up and reports a score usable at this node: the stored
// entry must be at least as deep as depth and its bound must settle the
// [alpha, beta] window. The entry is returned whenever the hash matches so
// callers can still use its move.
func (TT *TransTable) Probe(hash uint64, depth int8, alpha, beta int32, ply int8) (score int32, usable bool, entry *TTEntry) {
	entry, found := TT.getEntry(hash)
	if !found {
		return 0, false, nil
	}
	if entry.Depth < depth {
		return 0, false, entry
	}
	norm := scoreFromTT(entry.Score, ply)
	switch entry.Flag {
	case ExactBound:
		return norm, true, entry
	case UpperBound:
		if norm <= alpha {
			return norm, true, entry
		}
	case LowerBound:
		if norm >= beta {
			return norm, true, entry
		}
	}
	return 0, false, entry
}

/*
Replacement: an entry for the same position is always overwritten, then any
empty slot is taken, and otherwise the slot with the lowest depth is evicted,
where every search an entry has aged costs it two plies.
*/
func (TT *TransTable) Store(hash uint64, depth int8, ply int8, move Move, score int32, flag Bound) {
	if TT.clusterCount == 0 {
		return
	}
	base := int((hash % TT.clusterCount) * clusterSize)

	targetIdx := -1
	for i := 0; i < clusterSize; i++ {
		if TT.entries[base+i].Hash == hash {
			targetIdx = base + i
			break
		}
	}
	if targetIdx == -1 {
		for i := 0; i < clusterSize; i++ {
			if TT.entries[base+i].Hash == 0 {
				targetIdx = base + i
				break
			}
		}
	}
	if targetIdx == -1 {
		targetIdx = base
		worst := TT.replaceWeight(&TT.entries[base])
		for i := 1; i < clusterSize; i++ {
			if w := TT.replaceWeight(&TT.entries[base+i]); w < worst {
				worst = w
				targetIdx = base + i
			}
		}
	}

	entry := &TT.entries[targetIdx]
	entry.Hash = hash
	entry.Depth = depth
	entry.Move = move
	entry.Flag = flag
	entry.Score = scoreToTT(score, ply)
	entry.Age = TT.age
}

func (TT *TransTable) replaceWeight(e *TTEntry) int {
	aged := int(TT.age - e.Age)
	return int(e.Depth) - 2*aged
}

// Mate scores are stored relative to the node, not the root.
func scoreToTT(score int32, ply int8) int32 {
	if isMateScore(score) {
		if score > 0 {
			return score + int32(ply)
		}
		return score - int32(ply)
	}
	return score
}

func scoreFromTT(score int32, ply int8) int32 {
	if isMateScore(score) {
		if score > 0 {
			return score - int32(ply)
		}
		return score + int32(ply)
	}
	return score
}
