package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minimax-engine/book"
	"minimax-engine/engine"
	"minimax-engine/httpapi"
	"minimax-engine/logx"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	configPath := flag.String("config", "", "JSON engine config (defaults when empty)")
	bookPath := flag.String("book", "", "opening book (.json or .json.zst)")
	logLevel := flag.String("loglevel", "info", "log level")
	flag.Parse()

	logger := logx.New(os.Stderr, logx.ParseLevel(*logLevel))

	cfg := engine.DefaultConfig()
	if *configPath != "" {
		loaded, err := engine.LoadConfig(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
		cfg = loaded
	}

	opts := engine.Options{Logger: &logger}
	if *bookPath != "" {
		tbl, err := book.Load(*bookPath)
		if err != nil {
			logger.Warn().Err(err).Str("path", *bookPath).Msg("opening book not loaded")
		} else {
			opts.Book = tbl
			logger.Info().Str("path", *bookPath).Int("positions", len(tbl)).Msg("opening book loaded")
		}
	}
	eng, err := engine.New(cfg, opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("create engine")
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewRouter(logger, eng, nil),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	logger.Info().Str("addr", *addr).Int("max_depth", cfg.MaxDepth).Float64("time_limit", cfg.TimeLimit).Msg("move server listening")
	var runErr error
	select {
	case <-sigCtx.Done():
		logger.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			logger.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			logger.Error().Err(closeErr).Msg("forced close failed")
		}
	}
	if runErr != nil {
		logger.Error().Err(runErr).Msg("exiting after server error")
		os.Exit(1)
	}
}
