package engine

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
)

// negamax returns the value of pos for the side to move, searched depth plies
// deep inside the [alpha, beta] window. ply is the distance from the root.
func (e *Engine) negamax(pos Position, depth, ply int8, alpha, beta int32, allowNull bool) int32 {
	e.stats.Nodes++
	if !e.stopped && e.timeHandler.TimeStatus() {
		e.stopped = true
	}

	posHash := pos.Hash()

	/*
		TRANSPOSITION TABLE LOOKUP
	*/
	if e.cfg.UseTT {
		ttScore, usable, ttEntry := e.tt.Probe(posHash, depth, alpha, beta, ply)
		if ttEntry != nil {
			e.stats.TTHits++
		}
		if usable {
			e.stats.TTCutoffs++
			return ttScore
		}
	}

	// Leaf: horizon or out of time
	if depth <= 0 || e.stopped {
		score := leafScore(pos, pos.LegalMoves(), ply)
		if e.cfg.UseTT && !e.stopped {
			e.tt.Store(posHash, 0, ply, NoMove, score, ExactBound)
		}
		return score
	}
	moves := pos.LegalMoves()
	if isTerminal(pos, moves) {
		score := leafScore(pos, moves, ply)
		if e.cfg.UseTT {
			// Terminal values hold at any depth.
			e.tt.Store(posHash, MaxDepthLimit, ply, NoMove, score, ExactBound)
		}
		return score
	}

	/*
		NULL MOVE PRUNING
		Skipped at the root, in check, right after another pass and when the
		mover has only king and pawns left (zugzwang risk).
	*/
	if e.cfg.NullMove && allowNull && ply > 0 && int(depth) >= e.cfg.NullMinDepth &&
		!pos.InCheck() && hasNonPawnMaterial(pos) {
		R := int8(e.cfg.NullReduction)
		score := e.nullChild(pos, depth-1-R, ply+1, beta-1, beta)
		if score >= beta {
			e.stats.NullMoveCutoffs++
			return beta
		}
	}

	moves = e.orderer.Order(pos, moves, depth)
	origAlpha := alpha
	bestScore := -MaxScore
	bestMove := NoMove

	for i, move := range moves {
		score := e.searchMoveWithPVS(pos, move, i == 0, depth, ply, alpha, beta)

		if score > bestScore {
			bestScore = score
			bestMove = move
		}
		if e.stopped {
			break
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			e.stats.BetaCutoffs++
			e.killers.InsertKiller(move, depth)
			e.history.Increment(move, depth)
			break
		}
	}

	if e.cfg.UseTT && !e.stopped {
		flag := ExactBound
		if bestScore <= origAlpha {
			flag = UpperBound
		} else if bestScore >= beta {
			flag = LowerBound
		}
		e.tt.Store(posHash, depth, ply, bestMove, bestScore, flag)
	}
	return bestScore
}

// searchMoveWithPVS performs a Principal Variation Search for a move:
// the first move gets the full window, later moves a null window first and a
// full re-search only when they land strictly inside (alpha, beta).
func (e *Engine) searchMoveWithPVS(pos Position, move Move, first bool, depth, ply int8, alpha, beta int32) int32 {
	if first {
		return e.child(pos, move, depth-1, ply+1, alpha, beta)
	}
	score := e.child(pos, move, depth-1, ply+1, alpha, alpha+1)
	if score > alpha && score < beta && !e.stopped {
		e.stats.PVSReSearches++
		score = e.child(pos, move, depth-1, ply+1, alpha, beta)
	}
	return score
}

// child plays move, searches the resulting position and returns its value
// from the mover's side. The undo runs on every exit path.
func (e *Engine) child(pos Position, move Move, depth, ply int8, alpha, beta int32) int32 {
	undo := pos.Apply(move)
	defer undo()
	return -e.negamax(pos, depth, ply, -beta, -alpha, true)
}

func (e *Engine) nullChild(pos Position, depth, ply int8, alpha, beta int32) int32 {
	undo := pos.ApplyNull()
	defer undo()
	return -e.negamax(pos, depth, ply, -beta, -alpha, false)
}

// leafScore is the static evaluation, with mates scored so that nearer mates
// are preferred. moves are the legal moves of pos.
func leafScore(pos Position, moves []Move, ply int8) int32 {
	score := evaluate(pos, moves)
	if score == -Checkmate {
		return -Checkmate + int32(ply)
	}
	return score
}

// isTerminal reports a game-over position: no legal move, or a draw the rules
// engine declares without one being forced.
func isTerminal(pos Position, moves []Move) bool {
	return len(moves) == 0 || pos.IsInsufficientMaterial() || pos.IsFiftyMoveDraw()
}
