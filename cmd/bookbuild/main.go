package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minimax-engine/book"
	"minimax-engine/logx"
)

func main() {
	out := flag.String("out", "book.json.zst", "output book (.json or .json.zst)")
	maxPly := flag.Int("max-ply", 20, "plies per game added to the book")
	minRating := flag.Int("min-rating", 0, "skip games where either player is rated below this")
	minWeight := flag.Int("min-weight", 2, "drop moves seen fewer times than this")
	logLevel := flag.String("loglevel", "info", "log level")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] games.pgn[.zst] ...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := logx.New(os.Stderr, logx.ParseLevel(*logLevel))
	logger.Info().
		Strs("pgn", flag.Args()).
		Str("out", *out).
		Int("max_ply", *maxPly).
		Int("rating_min", *minRating).
		Msg("building opening book")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	tbl, stats, err := book.BuildFromPGN(ctx, flag.Args(), book.BuildOptions{
		MaxPly:    *maxPly,
		MinRating: *minRating,
		MinWeight: *minWeight,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("build book")
	}
	if err := tbl.Save(*out); err != nil {
		logger.Fatal().Err(err).Str("out", *out).Msg("save book")
	}
	logger.Info().
		Int64("games", stats.Games).
		Int64("skipped", stats.Skipped).
		Int("positions", stats.Positions).
		Dur("elapsed", time.Since(start)).
		Msg("book written")
}
