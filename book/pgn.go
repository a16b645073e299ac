package book

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/freeeve/pgn/v3"
	"github.com/rs/zerolog"

	"minimax-engine/engine"
	"minimax-engine/rules"
)

// BuildOptions configures BuildFromPGN.
type BuildOptions struct {
	MaxPly    int            // plies recorded per game, default 20
	MinRating int            // both players must be rated at least this
	MinWeight int            // moves played fewer times are pruned, default 1
	Logger    zerolog.Logger // progress logging
}

// BuildStats summarizes one build.
type BuildStats struct {
	Games     int64
	Skipped   int64
	Positions int
}

// BuildFromPGN replays the games of every PGN file (plain or .zst) and counts
// how often each move was played from each position in the first MaxPly plies.
func BuildFromPGN(ctx context.Context, paths []string, opts BuildOptions) (Table, BuildStats, error) {
	if opts.MaxPly <= 0 {
		opts.MaxPly = 20
	}
	if opts.MinWeight <= 0 {
		opts.MinWeight = 1
	}
	log := opts.Logger

	t := New()
	var stats BuildStats
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return t, stats, err
		}
		if err := addFile(ctx, t, path, opts, &stats); err != nil {
			return t, stats, fmt.Errorf("ingest %s: %w", path, err)
		}
	}
	t.Prune(opts.MinWeight)
	stats.Positions = len(t)
	log.Info().
		Int64("games", stats.Games).
		Int64("skipped", stats.Skipped).
		Int("positions", stats.Positions).
		Msg("book build complete")
	return t, stats, nil
}

func addFile(ctx context.Context, t Table, path string, opts BuildOptions, stats *BuildStats) error {
	log := opts.Logger.With().Str("file", filepath.Base(path)).Logger()
	log.Info().Msg("starting file ingest")

	startTime := time.Now()
	lastLog := startTime
	parser := pgn.Games(path)

	stopped := false
gameLoop:
	for game := range parser.Games {
		select {
		case <-ctx.Done():
			if !stopped {
				parser.Stop()
				stopped = true
			}
			break gameLoop
		default:
		}

		whiteRating := parseRating(game.Tags["WhiteElo"])
		blackRating := parseRating(game.Tags["BlackElo"])
		if whiteRating < opts.MinRating || blackRating < opts.MinRating {
			stats.Skipped++
			continue
		}
		if addGame(t, game, opts.MaxPly) == 0 {
			stats.Skipped++
			continue
		}
		stats.Games++

		if time.Since(lastLog) > 10*time.Second {
			log.Info().
				Int64("games", stats.Games).
				Int64("skipped", stats.Skipped).
				Int("positions", len(t)).
				Msg("ingest progress")
			lastLog = time.Now()
		}
	}
	if stopped {
		return ctx.Err()
	}
	if err := parser.Err(); err != nil {
		return err
	}
	log.Info().Dur("elapsed", time.Since(startTime)).Msg("file ingest complete")
	return nil
}

// addGame records the first maxPly moves of game and returns how many were recorded.
func addGame(t Table, game *pgn.Game, maxPly int) int {
	board, err := rules.NewGoose(rules.StartFEN)
	if err != nil {
		return 0
	}
	pos := pgn.NewStartingPosition()
	recorded := 0
	for _, mv := range game.Moves {
		if recorded >= maxPly {
			break
		}
		if err := pgn.ApplyMove(pos, mv); err != nil {
			break
		}
		move, ok := matchPlacement(board, pos.ToFEN())
		if !ok {
			break
		}
		t.Add(board.Key(), move.String(), 1)
		board.Apply(move)
		recorded++
	}
	return recorded
}

// matchPlacement finds the legal move of board leading to the placement and
// side to move of fen.
func matchPlacement(board *rules.Goose, fen string) (engine.Move, bool) {
	want := placementAndSide(fen)
	for _, m := range board.LegalMoves() {
		undo := board.Apply(m)
		got := placementAndSide(board.FEN())
		undo()
		if got == want {
			return m, true
		}
	}
	return engine.NoMove, false
}

func placementAndSide(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return fen
	}
	return fields[0] + " " + fields[1]
}

func parseRating(s string) int {
	if s == "" || s == "?" || s == "-" {
		return 0
	}
	r, _ := strconv.Atoi(s)
	return r
}
