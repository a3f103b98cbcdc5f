package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Setup configures the global zerolog logger.
func Setup(isLocalDev bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if isLocalDev {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// EnrichContextWithLogger adds a zerolog logger to the context with trace information.
// Without a recording span the global logger is attached so log.Ctx never falls
// back to the disabled logger.
func EnrichContextWithLogger(ctx context.Context) context.Context {
	l := log.Logger

	span := trace.SpanFromContext(ctx)
	if sCtx := span.SpanContext(); span.IsRecording() && sCtx.HasTraceID() {
		l = l.With().
			Str("trace_id", sCtx.TraceID().String()).
			Str("span_id", sCtx.SpanID().String()).
			Logger()
	}

	return l.WithContext(ctx)
}

// WithWorker tags the context logger with the acting worker's name.
func WithWorker(ctx context.Context, workerName string) context.Context {
	if workerName == "" {
		return ctx
	}
	l := log.Ctx(ctx).With().Str("worker_name", workerName).Logger()
	return l.WithContext(ctx)
}
