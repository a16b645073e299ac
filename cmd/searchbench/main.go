package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"

	"minimax-engine/engine"
	"minimax-engine/logx"
	"minimax-engine/rules"
)

func main() {
	depthFlag := flag.Int("depth", 6, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", rules.StartFEN, "FEN to search")
	nullFlag := flag.Bool("null", true, "enable null move pruning")
	ttFlag := flag.Bool("tt", true, "enable the transposition table")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	logLevel := flag.String("loglevel", "warn", "log level for stderr")
	flag.Parse()

	log := logx.New(os.Stderr, logx.ParseLevel(*logLevel))

	cfg := engine.DefaultConfig()
	cfg.MaxDepth = *depthFlag
	cfg.TimeLimit = 0
	cfg.UseBook = false
	cfg.NullMove = *nullFlag
	cfg.UseTT = *ttFlag
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid search options")
	}

	if err := run(cfg, *fenFlag, *repeatFlag, *cpuProfile, *memProfile, log); err != nil {
		log.Fatal().Err(err).Msg("searchbench")
	}
}

// run returns instead of exiting so the deferred profile writers always run.
func run(cfg engine.Config, fen string, repeat int, cpuProfile, memProfile string, log zerolog.Logger) error {
	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return fmt.Errorf("create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	fmt.Printf("searchbench: fen=%q depth=%d repeat=%d\n", fen, cfg.MaxDepth, repeat)

	var totalNodes uint64
	startAll := time.Now()
	for i := 0; i < repeat; i++ {
		pos, err := rules.NewGoose(fen)
		if err != nil {
			return err
		}
		// A fresh engine per run keeps the tables cold.
		eng, err := engine.New(cfg, engine.Options{Logger: &log})
		if err != nil {
			return err
		}
		res := eng.Search(pos)
		totalNodes += res.Nodes
		fmt.Printf("iteration %d: bestmove %s score %s depth %d nodes %d time=%v\n",
			i+1, res.Move, engine.FormatScore(res.Score), res.Depth, res.Nodes, res.Elapsed)
		if i == repeat-1 {
			res.Stats.Dump(os.Stdout)
		}
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v nps: %.0f\n", totalElapsed, float64(totalNodes)/totalElapsed.Seconds())

	if memProfile != "" {
		f, err := os.Create(memProfile)
		if err != nil {
			return fmt.Errorf("create memory profile: %w", err)
		}
		defer f.Close()

		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("write memory profile: %w", err)
		}
	}
	return nil
}
