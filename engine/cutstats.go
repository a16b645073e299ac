package engine

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// CutStatistics collects counts for each pruning/cutoff mechanism of one search.
type CutStatistics struct {
	Nodes           uint64
	TTHits          uint64
	TTCutoffs       uint64
	NullMoveCutoffs uint64
	BetaCutoffs     uint64
	PVSReSearches   uint64
}

func (c *CutStatistics) reset() {
	*c = CutStatistics{}
}

// MarshalZerologObject lets the statistics ride along a log event.
func (c CutStatistics) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("nodes", c.Nodes).
		Uint64("tt_hits", c.TTHits).
		Uint64("tt_cutoffs", c.TTCutoffs).
		Uint64("null_cutoffs", c.NullMoveCutoffs).
		Uint64("beta_cutoffs", c.BetaCutoffs).
		Uint64("pvs_researches", c.PVSReSearches)
}

// Dump writes the statistics as UCI "info string" lines.
func (c CutStatistics) Dump(w io.Writer) {
	fmt.Fprintln(w, "info string Cut statistics:")
	fmt.Fprintf(w, "info string   Nodes: %d\n", c.Nodes)
	fmt.Fprintf(w, "info string   TT hits: %d\n", c.TTHits)
	fmt.Fprintf(w, "info string   TT cutoffs: %d\n", c.TTCutoffs)
	fmt.Fprintf(w, "info string   Null-move cutoffs: %d\n", c.NullMoveCutoffs)
	fmt.Fprintf(w, "info string   Beta cutoffs: %d\n", c.BetaCutoffs)
	fmt.Fprintf(w, "info string   PVS re-searches: %d\n", c.PVSReSearches)
}
