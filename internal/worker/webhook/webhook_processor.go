package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"worktracker.service/internal/ports/messaging"
	"worktracker.service/internal/worker"
)

// WebhookProcessor forwards events from the webhook queue. A circuit breaker
// stops it from hammering an endpoint that keeps failing.
type WebhookProcessor struct {
	client Client
	cb     *gobreaker.CircuitBreaker
}

// NewProcessor creates a new processor for the webhook queue.
func NewProcessor(client Client) *WebhookProcessor {
	settings := gobreaker.Settings{
		Name:        "webhook",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate is at least 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		// A rejected event says nothing about the endpoint's health.
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			return err == nil || (errors.As(err, &statusErr) && statusErr.Permanent())
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	}

	return &WebhookProcessor{
		client: client,
		cb:     gobreaker.NewCircuitBreaker(settings),
	}
}

func (p *WebhookProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	if msg.Body == nil {
		return false, 0, errors.New("empty message body")
	}

	var event messaging.Event
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal webhook event")
		return false, 0, err // Do not retry on malformed message
	}

	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.client.Deliver(ctx, []byte(*msg.Body))
	})
	if err == nil {
		log.Ctx(ctx).Info().Str("event_type", string(event.EventType)).Msg("Event delivered to webhook")
		return false, 0, nil
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Permanent() {
		return false, 0, fmt.Errorf("webhook rejected event: %w", err)
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		log.Ctx(ctx).Warn().Msg("Circuit breaker is open; skipping webhook call")
	}
	return true, worker.CalculateBackoff(worker.ReceiveCount(msg)), err
}

// State exposes the breaker state for logging and tests.
func (p *WebhookProcessor) State() gobreaker.State {
	return p.cb.State()
}
