package rules

import (
	"testing"

	"minimax-engine/engine"
)

const pos6 = "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10"

func benchPerft(b *testing.B, be backend, fen string, depth int) {
	pos, err := be.new(fen)
	if err != nil {
		b.Fatalf("%s: parse %q: %v", be.name, fen, err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Perft(pos, depth)
	}
}

func BenchmarkPerftInitialD4(b *testing.B) {
	for _, be := range backends {
		b.Run(be.name, func(b *testing.B) { benchPerft(b, be, StartFEN, 4) })
	}
}

func BenchmarkPerftKiwipeteD3(b *testing.B) {
	for _, be := range backends {
		b.Run(be.name, func(b *testing.B) { benchPerft(b, be, kiwipete, 3) })
	}
}

func benchLegalMoves(b *testing.B, be backend, fen string) {
	pos, err := be.new(fen)
	if err != nil {
		b.Fatalf("%s: parse %q: %v", be.name, fen, err)
	}
	var moves []engine.Move
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		moves = pos.LegalMoves()
	}
	_ = moves
}

func BenchmarkLegalMoves(b *testing.B) {
	for _, fen := range []string{StartFEN, kiwipete, pos6} {
		for _, be := range backends {
			b.Run(be.name, func(b *testing.B) { benchLegalMoves(b, be, fen) })
		}
	}
}

func BenchmarkApplyUndo(b *testing.B) {
	for _, be := range backends {
		b.Run(be.name, func(b *testing.B) {
			pos, err := be.new(kiwipete)
			if err != nil {
				b.Fatal(err)
			}
			moves := pos.LegalMoves()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				undo := pos.Apply(moves[i%len(moves)])
				undo()
			}
		})
	}
}
