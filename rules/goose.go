package rules

import (
	"errors"
	"fmt"
	"strings"

	gm "github.com/Oliverans/GooseEngineMG/goosemg"

	"minimax-engine/engine"
)

var ErrInvalidFEN = errors.New("invalid FEN")

const StartFEN = gm.FENStartPos

// Goose adapts a GooseEngineMG board to engine.Position.
type Goose struct {
	b *gm.Board
}

var _ engine.Position = (*Goose)(nil)

func NewGoose(fen string) (*Goose, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 || (fields[1] != "w" && fields[1] != "b") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFEN, fen)
	}
	b, err := gm.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return &Goose{b: b}, nil
}

// FEN serializes the current position.
func (g *Goose) FEN() string { return g.b.ToFEN() }

func (g *Goose) LegalMoves() []engine.Move {
	native := g.b.GenerateMoves()
	moves := make([]engine.Move, len(native))
	for i, m := range native {
		moves[i] = gooseMove(m)
	}
	return moves
}

func gooseMove(m gm.Move) engine.Move {
	return engine.Move{
		From:      engine.Square(m.From()),
		To:        engine.Square(m.To()),
		Promotion: goosePieceType(m.PromotionPiece()),
		Code:      uint32(m),
	}
}

// Apply panics when m is not legal in the current position. MakeMove only
// rejects moves into check, so the code is checked against the move list first.
func (g *Goose) Apply(m engine.Move) func() {
	native := gm.Move(m.Code)
	for _, legal := range g.b.GenerateMoves() {
		if legal == native {
			return g.b.Apply(native)
		}
	}
	panic(fmt.Sprintf("rules: illegal move %s in %s", m, g.b.ToFEN()))
}

// ApplyNull passes the turn and clears the en passant square; the undo
// restores the Zobrist key exactly.
func (g *Goose) ApplyNull() func() {
	return g.b.ApplyNullMove()
}

func (g *Goose) IsCapture(m engine.Move) bool {
	native := gm.Move(m.Code)
	return native.CapturedPiece() != gm.NoPiece || native.Flags() == gm.FlagEnPassant
}

func (g *Goose) CapturedPiece(m engine.Move) engine.PieceType {
	native := gm.Move(m.Code)
	if native.Flags() == gm.FlagEnPassant {
		return engine.Pawn
	}
	return goosePieceType(native.CapturedPiece())
}

func (g *Goose) MovingPiece(m engine.Move) engine.PieceType {
	return goosePieceType(gm.Move(m.Code).MovedPiece())
}

func (g *Goose) InCheck() bool { return g.b.OurKingInCheck() }

func (g *Goose) IsCheckmate() bool { return g.b.InCheckmate() }

func (g *Goose) IsStalemate() bool { return g.b.InStalemate() }

func (g *Goose) IsInsufficientMaterial() bool { return insufficientMaterial(g) }

func (g *Goose) IsFiftyMoveDraw() bool { return g.b.HalfmoveClock() >= 100 }

func (g *Goose) SideToMove() engine.Color {
	if g.b.SideToMove() == gm.White {
		return engine.White
	}
	return engine.Black
}

func (g *Goose) FullmoveNumber() int { return g.b.FullmoveNumber() }

func (g *Goose) PieceAt(sq engine.Square) engine.Piece {
	return goosePiece(g.b.PieceAt(gm.Square(sq)))
}

func (g *Goose) Key() string { return canonicalKey(g.b.ToFEN()) }

func (g *Goose) Hash() uint64 { return g.b.Hash() }

func goosePiece(p gm.Piece) engine.Piece {
	switch p {
	case gm.WhitePawn:
		return engine.Piece{Type: engine.Pawn, Color: engine.White}
	case gm.WhiteKnight:
		return engine.Piece{Type: engine.Knight, Color: engine.White}
	case gm.WhiteBishop:
		return engine.Piece{Type: engine.Bishop, Color: engine.White}
	case gm.WhiteRook:
		return engine.Piece{Type: engine.Rook, Color: engine.White}
	case gm.WhiteQueen:
		return engine.Piece{Type: engine.Queen, Color: engine.White}
	case gm.WhiteKing:
		return engine.Piece{Type: engine.King, Color: engine.White}
	case gm.BlackPawn:
		return engine.Piece{Type: engine.Pawn, Color: engine.Black}
	case gm.BlackKnight:
		return engine.Piece{Type: engine.Knight, Color: engine.Black}
	case gm.BlackBishop:
		return engine.Piece{Type: engine.Bishop, Color: engine.Black}
	case gm.BlackRook:
		return engine.Piece{Type: engine.Rook, Color: engine.Black}
	case gm.BlackQueen:
		return engine.Piece{Type: engine.Queen, Color: engine.Black}
	case gm.BlackKing:
		return engine.Piece{Type: engine.King, Color: engine.Black}
	}
	return engine.Piece{}
}

func goosePieceType(p gm.Piece) engine.PieceType { return goosePiece(p).Type }
