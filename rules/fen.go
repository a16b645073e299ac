package rules

import (
	"strings"

	"minimax-engine/engine"
)

// canonicalKey keeps placement, side, castling and en passant of a FEN.
func canonicalKey(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

// nullMoveFEN hands the move to the other side and clears en passant.
func nullMoveFEN(fen string) string {
	fields := strings.Fields(fen)
	for len(fields) < 6 {
		switch len(fields) {
		case 4:
			fields = append(fields, "0")
		case 5:
			fields = append(fields, "1")
		default:
			fields = append(fields, "-")
		}
	}
	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	fields[3] = "-"
	return strings.Join(fields, " ")
}

// insufficientMaterial covers bare kings, a single minor piece, and bishops
// that all stand on squares of one colour.
func insufficientMaterial(pos engine.Position) bool {
	var minors, knights int
	bishopColours := [2]bool{}
	for sq := engine.Square(0); sq < 64; sq++ {
		p := pos.PieceAt(sq)
		switch p.Type {
		case engine.Pawn, engine.Rook, engine.Queen:
			return false
		case engine.Knight:
			minors++
			knights++
		case engine.Bishop:
			minors++
			bishopColours[(sq.File()+sq.Rank())&1] = true
		}
	}
	if minors <= 1 {
		return true
	}
	// Any number of bishops on one colour complex cannot mate.
	return knights == 0 && !(bishopColours[0] && bishopColours[1])
}
