package engine

import "fmt"

type Square int8

const NoSquare Square = -1

// File returns 0..7 for a..h.
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns 0..7 for 1..8.
func (sq Square) Rank() int { return int(sq) >> 3 }

func (sq Square) String() string {
	if sq < 0 || sq > 63 {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color { return c ^ 1 }

type Piece struct {
	Type  PieceType
	Color Color
}

// Move is a move as reported by the rules engine. Code carries the rules
// engine's native encoding and is handed back to Position.Apply untouched.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
	Code      uint32
}

// NoMove is the zero Move.
var NoMove Move

func (m Move) IsZero() bool { return m == NoMove }

// String renders the move in UCI long algebraic form, e.g. e2e4 or e7e8q.
func (m Move) String() string {
	if m.IsZero() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	switch m.Promotion {
	case Knight:
		s += "n"
	case Bishop:
		s += "b"
	case Rook:
		s += "r"
	case Queen:
		s += "q"
	}
	return s
}

// Position is the rules engine as seen by the search. Implementations own
// legality, check and draw detection; the engine only mutates a Position
// through the undo closures returned by Apply and ApplyNull.
type Position interface {
	LegalMoves() []Move
	// Apply plays m, which must come from LegalMoves, and returns the
	// function restoring the previous position.
	Apply(m Move) (undo func())
	// ApplyNull passes the turn. Callers must not pass while in check.
	ApplyNull() (undo func())

	IsCapture(m Move) bool
	CapturedPiece(m Move) PieceType
	MovingPiece(m Move) PieceType

	InCheck() bool
	IsCheckmate() bool
	IsStalemate() bool
	IsInsufficientMaterial() bool
	IsFiftyMoveDraw() bool

	SideToMove() Color
	FullmoveNumber() int
	PieceAt(sq Square) Piece

	// Key is the canonical serialization: placement, side to move,
	// castling rights and en passant square.
	Key() string
	Hash() uint64
}

// IsDraw reports a draw the rules engine recognises.
func IsDraw(pos Position) bool {
	return pos.IsStalemate() || pos.IsInsufficientMaterial() || pos.IsFiftyMoveDraw()
}

// hasNonPawnMaterial reports whether the side to move owns a piece other than
// its king and pawns. Null moves are skipped without one.
func hasNonPawnMaterial(pos Position) bool {
	side := pos.SideToMove()
	for sq := Square(0); sq < 64; sq++ {
		p := pos.PieceAt(sq)
		if p.Color != side {
			continue
		}
		switch p.Type {
		case Knight, Bishop, Rook, Queen:
			return true
		}
	}
	return false
}
