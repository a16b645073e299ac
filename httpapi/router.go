package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"minimax-engine/engine"
	"minimax-engine/rules"
)

// PositionParser turns a FEN into a rules-engine position.
type PositionParser func(fen string) (engine.Position, error)

// GoosePositions parses FENs with the GooseEngineMG adapter.
func GoosePositions(fen string) (engine.Position, error) { return rules.NewGoose(fen) }

// Handler serves moves from a single engine. Requests are serialized because
// an engine is single-threaded.
type Handler struct {
	mu     sync.Mutex
	eng    *engine.Engine
	parse  PositionParser
	log    zerolog.Logger
	served uint64
}

// NewRouter wires the move endpoint and health checks around eng.
func NewRouter(log zerolog.Logger, eng *engine.Engine, parse PositionParser) http.Handler {
	if parse == nil {
		parse = GoosePositions
	}
	h := &Handler{eng: eng, parse: parse, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(func(next http.Handler) http.Handler { return AccessLog(log, next) })
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Get("/readyz", h.health)
	r.Post("/v1/move", h.move)
	r.Post("/v1/newgame", h.newGame)
	return r
}

type moveRequest struct {
	FEN      string   `json:"fen"`
	MaxDepth int      `json:"max_depth,omitempty"`
	Seconds  *float64 `json:"time_limit_seconds,omitempty"`
}

type moveResponse struct {
	Move      string `json:"move"`
	Source    string `json:"source"`
	Score     int32  `json:"score"`
	ScoreText string `json:"score_text,omitempty"`
	Depth     int    `json:"depth"`
	Nodes     uint64 `json:"nodes"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	served := h.served
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "served": served})
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}
	pos, err := h.parse(req.FEN)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, rules.ErrInvalidFEN) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	base := h.eng.Config()
	cfg := base
	if req.MaxDepth > 0 {
		cfg.MaxDepth = req.MaxDepth
	}
	if req.Seconds != nil {
		cfg.TimeLimit = *req.Seconds
	}
	if err := h.eng.SetConfig(cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	defer func() {
		if err := h.eng.SetConfig(base); err != nil {
			h.log.Error().Err(err).Msg("restore engine config")
		}
	}()

	start := time.Now()
	res := h.eng.Search(pos)
	h.served++

	resp := moveResponse{
		Source:    string(res.Source),
		Score:     res.Score,
		Depth:     res.Depth,
		Nodes:     res.Nodes,
		ElapsedMs: time.Since(start).Milliseconds(),
	}
	if res.Found() {
		resp.Move = res.Move.String()
		resp.ScoreText = engine.FormatScore(res.Score)
	}
	h.log.Info().
		Str("rid", middleware.GetReqID(r.Context())).
		Str("move", resp.Move).
		Str("source", resp.Source).
		Int("depth", resp.Depth).
		Uint64("nodes", resp.Nodes).
		Msg("move served")
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) newGame(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.eng.NewGame()
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
