package engine

// Material values indexed by PieceType.
var PieceValue = [7]int32{
	NoPieceType: 0,
	Pawn:        100,
	Knight:      320,
	Bishop:      330,
	Rook:        500,
	Queen:       900,
	King:        20000,
}

// PawnTable is indexed by square (a1 = 0) for white pawns and by the vertically
// mirrored square for black pawns.
var PawnTable = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

const (
	MobilityWeight   int32 = 10
	PawnCountBonus   int32 = 5
	CheckPenalty     int32 = 50
	CenterDistWeight int32 = 10
)

// centerDistance is the Manhattan distance from sq to the centre point
// (3.5, 3.5). Both offsets are half-integers so the sum is whole.
func centerDistance(sq Square) int32 {
	f := abs(2*sq.File() - 7)
	r := abs(2*sq.Rank() - 7)
	return int32((f + r) / 2)
}

// Evaluate scores pos from the side to move's point of view. Only checkmate
// ends the evaluation early, with -Checkmate for the mated mover; stalemate and
// other draws are scored on the board like any position.
func Evaluate(pos Position) int32 {
	return evaluate(pos, pos.LegalMoves())
}

// evaluate is Evaluate with the legal moves of pos already generated.
func evaluate(pos Position, moves []Move) int32 {
	inCheck := pos.InCheck()
	if len(moves) == 0 && inCheck {
		return -Checkmate
	}

	whiteToMove := pos.SideToMove() == White

	// Everything below is accumulated from white's point of view.
	var score int32
	for sq := Square(0); sq < 64; sq++ {
		p := pos.PieceAt(sq)
		if p.Type == NoPieceType {
			continue
		}
		value := PieceValue[p.Type]
		switch p.Type {
		case Pawn:
			if p.Color == White {
				value += PawnTable[sq]
			} else {
				value += PawnTable[sq^56]
			}
			value += PawnCountBonus
		case Knight, Bishop:
			value -= centerDistance(sq) * CenterDistWeight
		}
		if p.Color == White {
			score += value
		} else {
			score -= value
		}
	}

	mobility := int32(len(moves)) * MobilityWeight
	if whiteToMove {
		score += mobility
	} else {
		score -= mobility
	}

	if inCheck {
		if whiteToMove {
			score -= CheckPenalty
		} else {
			score += CheckPenalty
		}
	}

	if !whiteToMove {
		return -score
	}
	return score
}
