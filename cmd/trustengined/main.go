package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/altcred/trustengine/internal/application/usecase"
	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/port"
	"github.com/altcred/trustengine/internal/domain/service"
	"github.com/altcred/trustengine/internal/infrastructure/adapter"
	"github.com/altcred/trustengine/internal/infrastructure/config"
	infrakafka "github.com/altcred/trustengine/internal/infrastructure/kafka"
	pgRepo "github.com/altcred/trustengine/internal/infrastructure/persistence/postgres"
	"github.com/altcred/trustengine/internal/presentation/rest"
	pkgkafka "github.com/altcred/trustengine/pkg/kafka"
	"github.com/altcred/trustengine/pkg/observability"
	pkgpostgres "github.com/altcred/trustengine/pkg/postgres"
)

const (
	scoringEventsTopic = "trust-scoring-events"
	loanOutcomesTopic  = "loan-outcomes"
	outcomeGroup       = "trust-scoring-engine"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})
	slog.SetDefault(logger)

	logger.Info("starting trust-scoring-engine",
		"http_port", cfg.HTTPPort,
		"ai_provider", cfg.AI.Provider,
		"demo_mode", cfg.DemoMode,
	)

	// Prometheus metrics.
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	scoringMetrics := observability.NewScoringMetrics()

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Run database migrations.
	if migErr := pkgpostgres.RunMigrations(dbCfg.DSN(), "file://internal/infrastructure/persistence/postgres/migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Wire infrastructure adapters.
	stateRepo := pgRepo.NewModelStateRepo(pool)
	scoreRepo := pgRepo.NewScoreRepo(pool)
	outcomeRepo := pgRepo.NewOutcomeRepo(pool)

	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: outcomeGroup,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLEnabled,
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	}

	var publisher port.EventPublisher = infrakafka.NoopPublisher{}
	if cfg.Kafka.Enabled {
		producer, err := pkgkafka.NewProducer(kafkaCfg, scoringEventsTopic)
		if err != nil {
			logger.Error("failed to create kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = infrakafka.NewEventPublisher(producer, logger)
	}

	// Domain services. The adaptive model picks up persisted state when it
	// exists, otherwise it starts from priors.
	ruleScorer := service.NewRuleScorer()
	translator := service.NewEligibilityTranslator()
	adaptiveCfg := service.AdaptiveConfig{
		LearningRate:            cfg.Adaptive.LearningRate,
		ConfidenceTargetSamples: cfg.Adaptive.ConfidenceTarget,
	}

	state, err := stateRepo.Load(ctx)
	switch {
	case errors.Is(err, port.ErrNotFound):
		state = model.NewModelState()
		logger.Info("no persisted model state, starting from priors")
	case err != nil:
		state = model.NewModelState()
		logger.Warn("failed to load model state, starting from priors", "error", err)
	default:
		logger.Info("loaded persisted model state",
			"training_samples", state.TrainingSamples,
			"version", state.Version,
		)
	}
	adaptive := service.NewAdaptiveModel(state, adaptiveCfg, ruleScorer)
	scoringMetrics.TrainingSamples.Set(float64(state.TrainingSamples))

	// External AI scorer. The wrapper always falls back to the rule-based
	// scorer, so wiring it is safe even when no provider is configured.
	var provider port.AIProvider
	switch cfg.AI.Provider {
	case "gemini":
		provider = adapter.NewGeminiClient(cfg.AI.GeminiAPIKey, nil)
	case "grok":
		provider = adapter.NewGrokClient(cfg.AI.GrokAPIKey, nil)
	}
	external := adapter.NewAIScorer(provider, ruleScorer, adapter.AIScorerConfig{
		Timeout: cfg.AI.Timeout,
	}, logger)
	external.OnFallback = scoringMetrics.AIFallbacks.Inc

	aiEnabled := cfg.AI.Enabled() && provider != nil && provider.Ready()
	policy := service.NewSelectionPolicy(cfg.Adaptive.SampleThreshold, aiEnabled, cfg.DemoMode)

	// Wire use cases.
	calculateUC := usecase.NewCalculateScoreUseCase(ruleScorer, adaptive, external, policy, translator, scoreRepo, publisher, logger)
	getScoreUC := usecase.NewGetScoreUseCase(scoreRepo)
	historyUC := usecase.NewGetScoreHistoryUseCase(scoreRepo)
	outcomeUC := usecase.NewRecordOutcomeUseCase(adaptive, outcomeRepo, stateRepo, publisher, logger)
	trainUC := usecase.NewTrainFromHistoryUseCase(adaptive, outcomeRepo, stateRepo, publisher, logger)
	seedUC := usecase.NewSeedModelUseCase(adaptive, stateRepo, publisher, cfg.Adaptive.Seed, logger)
	resetUC := usecase.NewResetModelUseCase(adaptive, stateRepo, publisher, adaptiveCfg, logger)
	statsUC := usecase.NewGetModelStatsUseCase(adaptive, policy, adaptiveCfg)

	if cfg.Adaptive.SeedOnStartup {
		if _, err := seedUC.Execute(ctx); err != nil {
			logger.Warn("startup model seeding failed", "error", err)
		}
	}

	// HTTP server.
	mux := http.NewServeMux()
	healthHandler := rest.NewHealthHandler(logger, map[string]rest.ReadinessCheck{
		"postgres": func(ctx context.Context) error {
			return pkgpostgres.HealthCheck(ctx, pool)
		},
	})
	healthHandler.RegisterRoutes(mux)

	scoringHandler := rest.NewScoringHandler(
		calculateUC, getScoreUC, historyUC, outcomeUC,
		trainUC, seedUC, resetUC, statsUC,
		scoringMetrics, logger,
	)
	scoringHandler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Training feed: consume labelled loan outcomes from Kafka.
	var outcomeConsumer *infrakafka.OutcomeConsumer
	if cfg.Kafka.Enabled {
		outcomeConsumer, err = infrakafka.NewOutcomeConsumer(kafkaCfg, loanOutcomesTopic, outcomeUC, logger)
		if err != nil {
			logger.Error("failed to create outcome consumer", "error", err)
			os.Exit(1)
		}

		go func() {
			if err := outcomeConsumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("outcome consumer error: %w", err)
			}
		}()
	}

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if outcomeConsumer != nil {
		if err := outcomeConsumer.Close(); err != nil {
			logger.Error("outcome consumer close error", "error", err)
		}
	}

	logger.Info("trust-scoring-engine stopped")
}
