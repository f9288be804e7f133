package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/anchorwatch/anchor/internal/analyzer"
	"github.com/anchorwatch/anchor/internal/api"
	"github.com/anchorwatch/anchor/internal/bridge"
	"github.com/anchorwatch/anchor/internal/bus"
	"github.com/anchorwatch/anchor/internal/config"
	"github.com/anchorwatch/anchor/internal/engine"
	"github.com/anchorwatch/anchor/internal/publish"
	"github.com/anchorwatch/anchor/internal/risk"
	"github.com/anchorwatch/anchor/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("anchor starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.Default()
	b := bus.New(logger)
	defer b.Close()

	// Embeddings: external service when configured, local hashed-TF fallback
	// otherwise.
	var embedder analyzer.Embedder
	if cfg.EmbedServiceURL != "" {
		embedder = analyzer.NewHTTPEmbedder(cfg.EmbedServiceURL)
		slog.Info("using embedding service", "url", cfg.EmbedServiceURL)
	} else {
		embedder = analyzer.NewLocalEmbedder()
		slog.Info("using local embedder")
	}

	semantic, err := analyzer.NewSemanticExtractor(ctx, embedder)
	if err != nil {
		slog.Error("failed to build semantic extractor", "error", err)
		os.Exit(1)
	}

	extractors := []analyzer.Extractor{
		analyzer.NewKeywordExtractor(),
		analyzer.NewProsodicExtractor(),
		analyzer.NewSentimentExtractor(),
		semantic,
	}

	registry := session.NewRegistry(session.Config{
		MinWords:           cfg.MinWords,
		TriggerInterval:    cfg.TriggerInterval,
		WindowChunks:       cfg.WindowChunks,
		HistoryCapacity:    cfg.HistoryCapacity,
		EscalationDelta:    cfg.EscalationDelta,
		DurationBonusAfter: cfg.DurationBonusAfter,
		DurationBonus:      cfg.DurationBonus,
	}, cfg.SessionTTL)

	eng := engine.New(engine.Options{
		Bus:        b,
		Registry:   registry,
		Extractors: extractors,
		Publisher:  publish.New(b, logger),
		Logger:     logger,
		Thresholds: risk.Thresholds{
			Medium:             cfg.MediumThreshold,
			High:               cfg.HighThreshold,
			SimilarityRelevant: cfg.SimilarityRelevant,
			SimilarityStrong:   cfg.SimilarityStrong,
		},
		ExtractorTimeout: cfg.ExtractorTimeout,
		TriggerInterval:  cfg.TriggerInterval,
	})
	go eng.Run(ctx)

	// NATS bridge (optional — the engine is fully functional in-process)
	if cfg.NatsURL != "" {
		br, err := bridge.New(cfg.NatsURL, cfg.NatsToken, b, logger)
		if err != nil {
			slog.Error("failed to start NATS bridge", "error", err)
			os.Exit(1)
		}
		defer br.Close()
	} else {
		slog.Warn("NATS not configured — running in-process only")
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, registry)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("anchor ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("anchor stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
