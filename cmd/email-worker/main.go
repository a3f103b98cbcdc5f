package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"worktracker.service/internal/config"
	"worktracker.service/internal/core"
	"worktracker.service/internal/ports/repository"
	"worktracker.service/internal/worker"
	"worktracker.service/internal/worker/email"
	"worktracker.service/pkg/aws"
	"worktracker.service/pkg/database"
	"worktracker.service/pkg/logger"
	"worktracker.service/pkg/metrics"
	"worktracker.service/pkg/telemetry"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}
	logger.Setup(cfg.IsLocalDev)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("Invalid TIMEZONE")
	}

	shutdownTracer, err := telemetry.InitTracer("worktracker-email-worker", cfg.OTLPEndpoint, cfg.IsLocalDev)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	// DB connection. The API owns migrations.
	db, dialect, err := database.OpenPlain(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}
	defer db.Close()
	log.Info().Msg("Successfully connected to the database.")

	// AWS SDK Config
	awsCfg, err := aws.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}

	// Initialize Dependencies
	sqsClient := sqs.NewFromConfig(awsCfg)
	sesClient := ses.NewFromConfig(awsCfg)
	sessionRepo := repository.NewWorkSessionRepository(db, dialect)
	emailService := core.NewSESEmailService(sesClient, cfg.SenderEmail, loc)
	processor := email.NewProcessor(emailService, sessionRepo, cfg.ParentEmail)
	m := metrics.New(prometheus.DefaultRegisterer)

	metricsSrv := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: promhttp.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics listener stopped")
		}
	}()

	// Start Worker
	ctx, cancel := context.WithCancel(context.Background())
	app := worker.NewWorker("email", sqsClient, cfg.NotifySQSQueueURL, processor, m)
	app.Concurrency = cfg.WorkerConcurrency

	done := make(chan struct{})
	go func() {
		app.Start(ctx)
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down worker...")

	// Cancel the context to signal the worker to stop polling, then wait for
	// in-flight messages.
	cancel()
	<-done

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	_ = metricsSrv.Shutdown(shutdownCtx)

	log.Info().Msg("Worker exited gracefully")
}
