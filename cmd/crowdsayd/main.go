// Package main provides the crowdsay worker entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/crowdsay/crowdsay/internal/config"
	"github.com/crowdsay/crowdsay/internal/embedding"
	"github.com/crowdsay/crowdsay/internal/semantic"
	"github.com/crowdsay/crowdsay/internal/store"
	"github.com/crowdsay/crowdsay/internal/tally"
	"github.com/crowdsay/crowdsay/internal/worker"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	port := flag.Int("port", 0, "HTTP port (default: config)")
	dbPath := flag.String("db", "", "Database path (default: ~/.crowdsay/crowdsay.db)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	// Optional .env for local development.
	_ = godotenv.Load()

	cfg := config.Load()
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	if cfg.DBPath == config.DBPath() {
		if err := config.EnsureDataDir(); err != nil {
			log.Fatal().Err(err).Msg("Failed to create data directory")
		}
	}

	st, err := store.NewStore(store.Config{Path: cfg.DBPath, MaxConns: cfg.MaxConns})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer st.Close()

	questions := store.NewQuestionStore(st)
	answers := store.NewAnswerStore(st)

	// The embedder is optional: without one, clustering falls back to
	// fuzzy matching. Initialization is lazy, so a misconfigured endpoint
	// surfaces on first tally rather than at startup.
	var matcher *semantic.Matcher
	if cfg.EmbedURL != "" {
		matcher = semantic.NewMatcher(func() (semantic.Embedder, error) {
			return embedding.NewService(embedding.Config{
				BaseURL:   cfg.EmbedURL,
				Model:     cfg.EmbedModel,
				CacheSize: cfg.EmbedCacheSize,
				Timeout:   cfg.EmbedTimeout,
			})
		}, cfg.SimCacheSize)
	} else {
		log.Info().Msg("No embedding endpoint configured, using fuzzy matching only")
	}

	tallySvc := tally.NewService(questions, answers, matcher, cfg.TopAnswers)
	srv := worker.NewServer(questions, answers, tallySvc)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Graceful shutdown failed")
		}
		cancel()
	}()

	log.Info().
		Int("port", cfg.Port).
		Str("db", cfg.DBPath).
		Str("version", Version).
		Msg("Starting crowdsay worker")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("HTTP server failed")
	}
	<-ctx.Done()
}
