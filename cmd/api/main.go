// Entry point for REST API
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"worktracker.service/internal/api"
	"worktracker.service/internal/config"
	"worktracker.service/internal/core"
	"worktracker.service/internal/ports/messaging"
	"worktracker.service/internal/ports/repository"
	"worktracker.service/internal/ports/sessions"
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

	// Configure structured logging
	logger.Setup(cfg.IsLocalDev)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("Invalid TIMEZONE")
	}

	// Configure OpenTelemetry Tracing
	shutdownTracer, err := telemetry.InitTracer("worktracker-api", cfg.OTLPEndpoint, cfg.IsLocalDev)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	// DB connection
	db, dialect, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}
	defer db.Close()
	if err := database.Migrate(db, dialect); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}
	log.Info().Str("driver", string(dialect)).Msg("Successfully connected to the database.")

	active := newActiveSessionStore(cfg)
	producer := newProducer(cfg)
	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize dependencies
	jobRepo := repository.NewJobRepository(db, dialect)
	sessionRepo := repository.NewWorkSessionRepository(db, dialect)
	attendanceRepo := repository.NewAttendanceRepository(db, dialect)

	services := api.Services{
		Jobs:       core.NewJobService(jobRepo, m),
		Sessions:   core.NewSessionService(jobRepo, sessionRepo, active, producer, m),
		Attendance: core.NewAttendanceService(attendanceRepo, producer, m, loc),
		Dashboard:  core.NewDashboardService(sessionRepo, attendanceRepo, loc),
	}

	// Setup router and server
	router := api.NewRouter(services, promhttp.Handler())

	// Wrap the router with OpenTelemetry middleware to create spans for each request
	handler := otelhttp.NewHandler(router, "api")

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.ServerPort).Str("timezone", loc.String()).Msg("API Service starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the requests it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

// newActiveSessionStore uses Redis when REDIS_ADDR is set so several API
// replicas share in-progress sessions.
func newActiveSessionStore(cfg config.Config) sessions.Store {
	if cfg.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR not set, keeping active sessions in memory")
		return sessions.NewMemoryStore(cfg.ActiveSessionTTL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := sessions.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Error connecting to redis")
	}
	return sessions.NewRedisStore(client, cfg.ActiveSessionTTL)
}

func newProducer(cfg config.Config) messaging.EventProducer {
	if !cfg.EventsEnabled {
		log.Info().Msg("Event publishing disabled")
		return messaging.NopProducer{}
	}

	// AWS SDK Config
	awsCfg, err := aws.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}
	return messaging.NewSQSProducer(sqs.NewFromConfig(awsCfg), cfg.NotifySQSQueueURL, cfg.WebhookSQSQueueURL)
}
