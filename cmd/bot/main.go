package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	aiAdapter "github.com/threadpulse/threadpulse/internal/adapters/ai"
	"github.com/threadpulse/threadpulse/internal/adapters/config"
	"github.com/threadpulse/threadpulse/internal/adapters/database"
	slackadapter "github.com/threadpulse/threadpulse/internal/adapters/slack"
	"github.com/threadpulse/threadpulse/internal/analytics"
	"github.com/threadpulse/threadpulse/internal/dispatcher"
	"github.com/threadpulse/threadpulse/internal/health"
	"github.com/threadpulse/threadpulse/internal/messages"
	"github.com/threadpulse/threadpulse/internal/sentiment"
	"github.com/threadpulse/threadpulse/pkg/logger"
	"github.com/threadpulse/threadpulse/pkg/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env is a local development convenience, absent in production
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("ThreadPulse starting...")

	db, err := initDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// Sentiment machinery
	emojiScores := sentiment.NewEmojiScores()
	scorer := sentiment.NewTextScorer()
	aggregator := sentiment.NewAggregator(emojiScores)
	fallback := initFallback(cfg)

	// Slack and persistence
	slackClient := slackadapter.New(&cfg.Slack)
	repo := messages.NewRepository(db)
	recalc := messages.NewRecalculator(repo, aggregator)
	analyzer := sentiment.NewThreadAnalyzer(slackClient, scorer, fallback, emojiScores)

	// Optional sentiment-history sink
	history, historyWorker := initAnalytics(ctx, cfg)
	if historyWorker != nil {
		defer historyWorker.Stop(shutdownTimeout)
	}

	// HTTP surfaces
	healthServer := health.NewServer(cfg.Server.HealthPort, db)
	go func() {
		if err := healthServer.Start(); err != nil {
			logger.Error("health server failed", zap.Error(err))
		}
	}()

	server := dispatcher.NewServer(cfg, slackClient, repo, recalc, scorer, fallback, analyzer, history)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("dispatcher server failed", zap.Error(err))
		}
	}()

	healthServer.SetReady(true)
	logger.Info("✅ ThreadPulse ready",
		zap.String("events_port", cfg.Server.Port),
		zap.String("health_port", cfg.Server.HealthPort),
	)

	// Wait for shutdown signal
	<-ctx.Done()

	healthServer.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("dispatcher shutdown failed", zap.Error(err))
	}
	if err := healthServer.Stop(shutdownCtx); err != nil {
		logger.Error("health shutdown failed", zap.Error(err))
	}
	if history != nil {
		history.Flush(shutdownCtx)
	}

	logger.Info("✅ Shutdown complete")
	return nil
}

// initDatabase initializes the PostgreSQL connection and runs migrations
func initDatabase(cfg *config.Config) (*database.DB, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(db.Conn(), "./migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// initFallback assembles the LLM fallback chain from enabled providers.
// Returns nil when no provider is configured, which disables the chain.
func initFallback(cfg *config.Config) *sentiment.FallbackScorer {
	providers := []aiAdapter.Provider{
		aiAdapter.NewGeminiProvider(&cfg.AI.Gemini),
		aiAdapter.NewOpenAIProvider(&cfg.AI.OpenAI),
	}

	var oracles []sentiment.Oracle
	for _, p := range providers {
		if !p.IsEnabled() {
			continue
		}
		oracles = append(oracles, p)
		logger.Info("✅ sentiment fallback provider initialized",
			zap.String("provider", p.Name()),
		)
	}

	if len(oracles) == 0 {
		logger.Info("no LLM provider configured, lexicon-only scoring")
		return nil
	}

	return sentiment.NewFallbackScorer(cfg.AI.DefaultModel, oracles)
}

// initAnalytics connects the optional ClickHouse history sink. Failure is
// non-fatal: the tracker runs without analytics.
func initAnalytics(ctx context.Context, cfg *config.Config) (*analytics.Writer, *worker.PeriodicWorker) {
	if !cfg.Analytics.Enabled {
		return nil, nil
	}

	ch, err := database.NewClickHouse(cfg.Analytics.DSN)
	if err != nil {
		logger.Warn("ClickHouse not available, analytics disabled", zap.Error(err))
		return nil, nil
	}

	repo := analytics.NewRepository(ch.DB())
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Warn("ClickHouse schema setup failed, analytics disabled", zap.Error(err))
		ch.Close()
		return nil, nil
	}

	writer := analytics.NewWriter(repo, cfg.Analytics.BatchSize)
	pw := worker.RunBackground(ctx, writer, cfg.Analytics.FlushInterval)

	logger.Info("✅ sentiment history sink initialized",
		zap.Int("batch_size", cfg.Analytics.BatchSize),
		zap.Duration("flush_interval", cfg.Analytics.FlushInterval),
	)

	return writer, pw
}
