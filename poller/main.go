// Long-running counterpart to the Lambda entrypoint: runs the same
// fetch-and-publish cycle on a cron schedule and exposes health and metrics
// over HTTP. Meant for compose setups and plain containers without AWS Lambda.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"guardian-ingest/internal/config"
	"guardian-ingest/internal/guardian"
	"guardian-ingest/internal/ingest"
	"guardian-ingest/internal/logger"
	"guardian-ingest/internal/secrets"
	"guardian-ingest/internal/sink"
)

func main() {
	log := logger.New("poller")
	cfg, err := config.LoadPoller()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithDefaultRegion(cfg.Region))
	if err != nil {
		log.Error("load aws config", slog.Any("err", err))
		os.Exit(1)
	}

	store := secrets.New(secretsmanager.NewFromConfig(awsCfg), log)
	source := guardian.New(guardian.Config{
		Endpoint:   cfg.GuardianEndpoint,
		SearchTerm: cfg.SearchTerm,
		FromDate:   cfg.FromDate,
		PageSize:   cfg.PageSize,
		OrderBy:    cfg.OrderBy,
		Timeout:    cfg.FetchTimeout,
	}, store.KeyFunc(cfg.SecretName), log)

	var dest ingest.MessageSink
	switch cfg.Sink {
	case config.SinkKafka:
		kafkaSink := sink.NewKafka(sink.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic), log)
		defer kafkaSink.Close()
		dest = kafkaSink
	default:
		dest = sink.NewSQS(sqs.NewFromConfig(awsCfg), cfg.QueueURL, log)
	}

	runner := ingest.New(source, dest, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/health", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		log.Info("http server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, func() {
		runOnce(ctx, log, runner, cfg.CycleTimeout)
	}); err != nil {
		log.Error("invalid schedule", slog.String("schedule", cfg.Schedule), slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("poller started",
		slog.String("schedule", cfg.Schedule),
		slog.String("sink", cfg.Sink),
		slog.String("search_term", cfg.SearchTerm),
	)

	// Run immediately on start, then on schedule.
	runOnce(ctx, log, runner, cfg.CycleTimeout)
	c.Start()

	<-ctx.Done()
	log.Info("shutdown signal received")

	<-c.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

func runOnce(ctx context.Context, log *slog.Logger, runner *ingest.Runner, timeout time.Duration) {
	subCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := runner.Run(subCtx); err != nil {
		log.Warn("cycle failed (will retry on next schedule)", slog.Any("err", err))
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
