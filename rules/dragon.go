package rules

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"

	"minimax-engine/engine"
)

// Dragon adapts a dragontoothmg board to engine.Position.
type Dragon struct {
	b dragontoothmg.Board
}

var _ engine.Position = (*Dragon)(nil)

func NewDragon(fen string) (d *Dragon, err error) {
	// ParseFen panics on malformed input.
	defer func() {
		if r := recover(); r != nil {
			d, err = nil, fmt.Errorf("%w: %v", ErrInvalidFEN, r)
		}
	}()
	return &Dragon{b: dragontoothmg.ParseFen(fen)}, nil
}

func (d *Dragon) FEN() string { return d.b.ToFen() }

func (d *Dragon) LegalMoves() []engine.Move {
	native := d.b.GenerateLegalMoves()
	moves := make([]engine.Move, len(native))
	for i := range native {
		moves[i] = dragonMove(native[i])
	}
	return moves
}

func dragonMove(m dragontoothmg.Move) engine.Move {
	return engine.Move{
		From:      engine.Square(m.From()),
		To:        engine.Square(m.To()),
		Promotion: dragonPieceType(m.Promote()),
		Code:      uint32(m),
	}
}

// Apply panics when m is not legal in the current position; dragontoothmg
// would otherwise play it and corrupt the board.
func (d *Dragon) Apply(m engine.Move) func() {
	native := dragontoothmg.Move(m.Code)
	for _, legal := range d.b.GenerateLegalMoves() {
		if legal == native {
			return d.b.Apply(native)
		}
	}
	panic(fmt.Sprintf("rules: illegal move %s in %s", m, d.b.ToFen()))
}

// ApplyNull re-reads the position with the other side to move; the undo
// restores the saved board value.
func (d *Dragon) ApplyNull() func() {
	saved := d.b
	d.b = dragontoothmg.ParseFen(nullMoveFEN(d.b.ToFen()))
	return func() { d.b = saved }
}

func (d *Dragon) IsCapture(m engine.Move) bool {
	return dragontoothmg.IsCapture(dragontoothmg.Move(m.Code), &d.b)
}

func (d *Dragon) CapturedPiece(m engine.Move) engine.PieceType {
	if !d.IsCapture(m) {
		return engine.NoPieceType
	}
	theirs := &d.b.Black
	if !d.b.Wtomove {
		theirs = &d.b.White
	}
	if pt, occupied := getPieceTypeAtPosition(uint8(m.To), theirs); occupied {
		return pt
	}
	// Only en passant captures onto an empty square.
	return engine.Pawn
}

func (d *Dragon) MovingPiece(m engine.Move) engine.PieceType {
	ours := &d.b.White
	if !d.b.Wtomove {
		ours = &d.b.Black
	}
	pt, _ := getPieceTypeAtPosition(uint8(m.From), ours)
	return pt
}

func (d *Dragon) InCheck() bool { return d.b.OurKingInCheck() }

func (d *Dragon) IsCheckmate() bool {
	return d.b.OurKingInCheck() && len(d.b.GenerateLegalMoves()) == 0
}

func (d *Dragon) IsStalemate() bool {
	return !d.b.OurKingInCheck() && len(d.b.GenerateLegalMoves()) == 0
}

func (d *Dragon) IsInsufficientMaterial() bool { return insufficientMaterial(d) }

func (d *Dragon) IsFiftyMoveDraw() bool { return d.b.Halfmoveclock >= 100 }

func (d *Dragon) SideToMove() engine.Color {
	if d.b.Wtomove {
		return engine.White
	}
	return engine.Black
}

func (d *Dragon) FullmoveNumber() int { return int(d.b.Fullmoveno) }

func (d *Dragon) PieceAt(sq engine.Square) engine.Piece {
	if pt, ok := getPieceTypeAtPosition(uint8(sq), &d.b.White); ok {
		return engine.Piece{Type: pt, Color: engine.White}
	}
	if pt, ok := getPieceTypeAtPosition(uint8(sq), &d.b.Black); ok {
		return engine.Piece{Type: pt, Color: engine.Black}
	}
	return engine.Piece{}
}

func (d *Dragon) Key() string { return canonicalKey(d.b.ToFen()) }

func (d *Dragon) Hash() uint64 { return d.b.Hash() }

// Nice helper to get what piece is at a square :)
func getPieceTypeAtPosition(position uint8, bitboards *dragontoothmg.Bitboards) (pieceType engine.PieceType, occupied bool) {
	mask := uint64(1) << position
	switch {
	case bitboards.Pawns&mask != 0:
		return engine.Pawn, true
	case bitboards.Knights&mask != 0:
		return engine.Knight, true
	case bitboards.Bishops&mask != 0:
		return engine.Bishop, true
	case bitboards.Rooks&mask != 0:
		return engine.Rook, true
	case bitboards.Queens&mask != 0:
		return engine.Queen, true
	case bitboards.Kings&mask != 0:
		return engine.King, true
	}
	return engine.NoPieceType, false
}

func dragonPieceType(p dragontoothmg.Piece) engine.PieceType {
	switch p {
	case dragontoothmg.Pawn:
		return engine.Pawn
	case dragontoothmg.Knight:
		return engine.Knight
	case dragontoothmg.Bishop:
		return engine.Bishop
	case dragontoothmg.Rook:
		return engine.Rook
	case dragontoothmg.Queen:
		return engine.Queen
	case dragontoothmg.King:
		return engine.King
	}
	return engine.NoPieceType
}
