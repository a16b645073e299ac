package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"minimax-engine/book"
	"minimax-engine/engine"
	"minimax-engine/logx"
	"minimax-engine/rules"
)

func main() {
	configPath := flag.String("config", "", "JSON engine config (defaults when empty)")
	bookPath := flag.String("book", "", "opening book (.json or .json.zst)")
	logLevel := flag.String("loglevel", "info", "log level for stderr")
	flag.Parse()

	log := logx.New(os.Stderr, logx.ParseLevel(*logLevel))

	cfg := engine.DefaultConfig()
	if *configPath != "" {
		loaded, err := engine.LoadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
		cfg = loaded
	}

	s, err := newSession(os.Stdout, log, cfg, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("create engine")
	}
	if *bookPath != "" {
		s.loadBook(*bookPath)
	}
	uciLoop(os.Stdin, s)
}

// session is the state of one UCI conversation.
type session struct {
	out      io.Writer
	log      zerolog.Logger
	eng      *engine.Engine
	board    *rules.Goose
	cutStats bool
}

// newSession creates the engine; a nil rng seeds one from the clock.
func newSession(out io.Writer, log zerolog.Logger, cfg engine.Config, rng engine.RandomSource) (*session, error) {
	s := &session{out: out, log: log}
	eng, err := engine.New(cfg, engine.Options{Logger: &log, Rand: rng})
	if err != nil {
		return nil, err
	}
	eng.SetInfoHandler(s.printInfo)
	s.eng = eng
	s.board, err = rules.NewGoose(rules.StartFEN)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) println(a ...any) { fmt.Fprintln(s.out, a...) }

func (s *session) printf(format string, a ...any) { fmt.Fprintf(s.out, format, a...) }

func (s *session) printInfo(info engine.Info) {
	pv := make([]string, len(info.PV))
	for i, m := range info.PV {
		pv[i] = m.String()
	}
	s.printf("info depth %d score %s nodes %d time %d hashfull %d pv %s\n",
		info.Depth, engine.FormatScore(info.Score), info.Nodes, info.Elapsed.Milliseconds(),
		info.Hashfull, strings.Join(pv, " "))
}

func (s *session) loadBook(path string) {
	tbl, err := book.Load(path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("opening book not loaded")
		s.println("info string could not load book", path)
		return
	}
	s.eng.SetBook(tbl)
	s.log.Info().Str("path", path).Int("positions", len(tbl)).Msg("opening book loaded")
}

func uciLoop(in io.Reader, s *session) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			s.println("id name minimax-engine")
			s.println("id author minimax-engine developers")
			s.printOptions()
			s.println("uciok")
		case "isready":
			s.println("readyok")
		case "ucinewgame":
			s.eng.NewGame()
			s.board, _ = rules.NewGoose(rules.StartFEN)
		case "position":
			s.position(tokens[1:])
		case "go":
			s.goCommand(tokens[1:])
		case "setoption":
			s.setOption(tokens[1:])
		case "eval":
			s.printf("info string eval %s\n", engine.FormatScore(engine.Evaluate(s.board)))
		case "moveordering":
			o := engine.NewOrderer(s.eng.Killers(), s.eng.History())
			moves := o.Order(s.board, s.board.LegalMoves(), 1)
			names := make([]string, len(moves))
			for i, m := range moves {
				names[i] = m.String()
			}
			s.println("info string moveordering", strings.Join(names, " "))
		case "d":
			s.println("info string fen", s.board.FEN())
		case "stop":
			// Searches run to completion before the next command is read.
		case "quit":
			return
		default:
			s.println("info string Unknown command:", line)
		}
	}
}

func (s *session) printOptions() {
	cfg := s.eng.Config()
	s.printf("option name MaxDepth type spin default %d min 1 max %d\n", cfg.MaxDepth, engine.MaxDepthLimit)
	s.printf("option name TimeLimit type string default %g\n", cfg.TimeLimit)
	s.printf("option name UseBook type check default %t\n", cfg.UseBook)
	s.printf("option name BookDeviation type string default %g\n", cfg.BookDeviation)
	s.printf("option name BookFile type string default <empty>\n")
	s.printf("option name NullMove type check default %t\n", cfg.NullMove)
	s.printf("option name NullReduction type spin default %d min 1 max 4\n", cfg.NullReduction)
	s.printf("option name NullMinDepth type spin default %d min 1 max %d\n", cfg.NullMinDepth, engine.MaxDepthLimit)
	s.printf("option name UseTT type check default %t\n", cfg.UseTT)
	s.printf("option name Hash type spin default %d min 1 max 4096\n", cfg.TTSizeMB)
	s.printf("option name CutStats type check default false\n")
}

// position handles "startpos [moves ...]" and "fen <fen> [moves ...]".
func (s *session) position(args []string) {
	if len(args) == 0 {
		s.println("info string Malformed position command")
		return
	}
	var fen string
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		fen = rules.StartFEN
	case "fen":
		i := 0
		for i < len(rest) && strings.ToLower(rest[i]) != "moves" {
			i++
		}
		fen = strings.Join(rest[:i], " ")
		rest = rest[i:]
	default:
		s.println("info string Invalid position subcommand")
		return
	}
	board, err := rules.NewGoose(fen)
	if err != nil {
		s.println("info string Invalid fen position:", err)
		return
	}
	if len(rest) > 0 && strings.ToLower(rest[0]) == "moves" {
		for _, moveStr := range rest[1:] {
			if !applyUCIMove(board, strings.ToLower(moveStr)) {
				s.println("info string Move", moveStr, "not found for position", board.FEN())
				break
			}
		}
	}
	s.board = board
}

func applyUCIMove(pos engine.Position, uci string) bool {
	for _, m := range pos.LegalMoves() {
		if m.String() == uci {
			pos.Apply(m)
			return true
		}
	}
	return false
}

// goCommand runs one search. The configured options apply unless the command
// carries its own depth or clock.
func (s *session) goCommand(args []string) {
	base := s.eng.Config()
	cfg := base

	var wTime, bTime, wInc, bInc, moveTime, depth int
	timed := false
	for i := 0; i < len(args); i++ {
		token := strings.ToLower(args[i])
		var target *int
		switch token {
		case "infinite":
			cfg.TimeLimit = 0
			continue
		case "wtime":
			target = &wTime
		case "btime":
			target = &bTime
		case "winc":
			target = &wInc
		case "binc":
			target = &bInc
		case "movetime":
			target = &moveTime
		case "depth":
			target = &depth
		default:
			s.println("info string Unknown go subcommand", token)
			continue
		}
		if i+1 >= len(args) {
			s.println("info string Malformed go command option", token)
			break
		}
		i++
		v, err := strconv.Atoi(args[i])
		if err != nil {
			s.println("info string Malformed go command option; could not convert", token)
			continue
		}
		*target = v
		if token != "depth" {
			timed = true
		}
	}

	if timed {
		var budget time.Duration
		switch {
		case moveTime > 0:
			budget = time.Duration(moveTime) * time.Millisecond
		case s.board.SideToMove() == engine.White:
			budget = engine.AllocateMoveTime(wTime, wInc, s.board.FullmoveNumber())
		default:
			budget = engine.AllocateMoveTime(bTime, bInc, s.board.FullmoveNumber())
		}
		cfg.TimeLimit = budget.Seconds()
		cfg.MaxDepth = engine.MaxDepthLimit
	}
	if depth > 0 {
		cfg.MaxDepth = min(depth, engine.MaxDepthLimit)
		if !timed {
			cfg.TimeLimit = 0
		}
	}

	if err := s.eng.SetConfig(cfg); err != nil {
		s.println("info string", err)
		s.println("bestmove 0000")
		return
	}
	res := s.eng.Search(s.board)
	if err := s.eng.SetConfig(base); err != nil {
		s.log.Error().Err(err).Msg("restore engine config")
	}

	if s.cutStats {
		res.Stats.Dump(s.out)
	}
	if res.Source == engine.SourceBook {
		s.println("info string book move")
	}
	s.println("bestmove", res.Move.String())
}

// setOption handles "name <name> value <value>".
func (s *session) setOption(args []string) {
	var name, value []string
	target := &name
	for _, tok := range args {
		switch strings.ToLower(tok) {
		case "name":
			target = &name
			continue
		case "value":
			target = &value
			continue
		}
		*target = append(*target, tok)
	}
	key := strings.ToLower(strings.Join(name, ""))
	val := strings.Join(value, " ")

	cfg := s.eng.Config()
	var err error
	switch key {
	case "maxdepth":
		cfg.MaxDepth, err = strconv.Atoi(val)
	case "timelimit":
		cfg.TimeLimit, err = strconv.ParseFloat(val, 64)
	case "usebook":
		cfg.UseBook, err = strconv.ParseBool(val)
	case "bookdeviation":
		cfg.BookDeviation, err = strconv.ParseFloat(val, 64)
	case "nullmove":
		cfg.NullMove, err = strconv.ParseBool(val)
	case "nullreduction":
		cfg.NullReduction, err = strconv.Atoi(val)
	case "nullmindepth":
		cfg.NullMinDepth, err = strconv.Atoi(val)
	case "usett":
		cfg.UseTT, err = strconv.ParseBool(val)
	case "hash":
		cfg.TTSizeMB, err = strconv.Atoi(val)
	case "bookfile":
		s.loadBook(val)
		return
	case "cutstats":
		s.cutStats, err = strconv.ParseBool(val)
		if err != nil {
			s.println("info string Malformed option value", val)
		}
		return
	default:
		s.println("info string Unknown option", strings.Join(name, " "))
		return
	}
	if err != nil {
		s.println("info string Malformed option value", val)
		return
	}
	if err := s.eng.SetConfig(cfg); err != nil {
		s.println("info string", err)
	}
}
