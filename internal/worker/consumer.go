package worker

import (
	"context"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"

	"worktracker.service/pkg/logger"
	"worktracker.service/pkg/metrics"
	"worktracker.service/pkg/telemetry"
)

var receiveCountAttr = []types.MessageSystemAttributeName{
	types.MessageSystemAttributeNameApproximateReceiveCount,
}

type SQSClient interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error)
}

// Processor is a generic interface for any type that can process a message from SQS.
// This lets us reuse the main worker logic for different kinds of jobs.
type Processor interface {
	Process(ctx context.Context, msg types.Message) (shouldRetry bool, retryDelay int32, err error)
}

// Worker is our generic SQS message consumer. It polls a queue and passes
// messages off to a Processor.
type Worker struct {
	client    SQSClient
	queueURL  string
	processor Processor
	name      string
	metrics   *metrics.Metrics
	// Concurrency controls how many messages can be processed at the same time.
	Concurrency int
	// WaitTimeSeconds is the long-poll duration for each receive.
	WaitTimeSeconds int32
}

// NewWorker creates a new SQS worker, ready to be started. name labels its
// log lines and metrics.
func NewWorker(name string, client SQSClient, url string, proc Processor, m *metrics.Metrics) *Worker {
	return &Worker{
		client:          client,
		queueURL:        url,
		processor:       proc,
		name:            name,
		metrics:         m,
		Concurrency:     10,
		WaitTimeSeconds: 20,
	}
}

// Start kicks off the worker's main loop for polling the SQS queue.
// Cancelling ctx stops polling only. Messages already received are still
// processed and acknowledged, and Start returns once they are.
func (w *Worker) Start(ctx context.Context) {
	concurrency := w.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	log.Info().Str("worker", w.name).Int("concurrency", concurrency).Msg("SQS Worker started. Polling for messages...")

	messagesCh := make(chan types.Message, concurrency)
	drainCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.processMessages(drainCtx, messagesCh)
		}()
	}

	w.pollMessages(ctx, messagesCh, concurrency)
	wg.Wait()
}

// pollMessages is the poller loop that fetches messages from SQS and sends them to a channel.
func (w *Worker) pollMessages(ctx context.Context, messagesCh chan<- types.Message, batch int) {
	defer close(messagesCh) // Close channel to signal processors to stop

	if batch > 10 {
		batch = 10 // SQS maximum
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("worker", w.name).Msg("Poller shutting down...")
			return
		default:
			output, err := w.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
				QueueUrl:                    &w.queueURL,
				MaxNumberOfMessages:         int32(batch),
				WaitTimeSeconds:             w.WaitTimeSeconds,
				MessageAttributeNames:       []string{"All"}, // Request attributes to get trace context
				MessageSystemAttributeNames: receiveCountAttr,
			})
			if err != nil {
				if ctx.Err() == nil {
					log.Error().Err(err).Str("worker", w.name).Msg("Error receiving messages")
				}
				continue
			}
			if len(output.Messages) > 0 {
				log.Debug().Str("worker", w.name).Int("count", len(output.Messages)).Msg("Received messages")
			}
			for _, msg := range output.Messages {
				messagesCh <- msg
			}
		}
	}
}

// processMessages runs in a goroutine, listening for messages on a channel and processing them.
func (w *Worker) processMessages(ctx context.Context, messagesCh <-chan types.Message) {
	for msg := range messagesCh {
		w.handleSingleMessage(ctx, msg)
	}
}

// handleSingleMessage calls the processor and then decides whether to delete
// the message or change its visibility for a retry.
func (w *Worker) handleSingleMessage(ctx context.Context, msg types.Message) {
	ctx, span := telemetry.StartSpanFromSQSMessage(ctx, msg)
	defer span.End()

	ctx = logger.EnrichContextWithLogger(ctx)
	ctx = logger.WithWorker(ctx, telemetry.GetWorkerNameFromContext(ctx))

	shouldRetry, retryDelay, err := w.processor.Process(ctx, msg)

	if err != nil && shouldRetry {
		log.Ctx(ctx).Warn().Err(err).Int32("retry_delay", retryDelay).Int("receive_count", ReceiveCount(msg)).Msg("Processing failed, will retry")
		w.metrics.ObserveMessage(w.name, "retry")

		_, visErr := w.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
			QueueUrl:          &w.queueURL,
			ReceiptHandle:     msg.ReceiptHandle,
			VisibilityTimeout: retryDelay,
		})
		if visErr != nil {
			log.Ctx(ctx).Error().Err(visErr).Msg("Failed to change message visibility")
		}
		return
	}

	if err == nil {
		w.metrics.ObserveMessage(w.name, "ok")
	} else {
		// An unrecoverable error occurred (e.g., bad message format).
		log.Ctx(ctx).Error().Err(err).Msg("Unrecoverable error processing message, dropping it")
		w.metrics.ObserveMessage(w.name, "dropped")
	}

	if _, delErr := w.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      &w.queueURL,
		ReceiptHandle: msg.ReceiptHandle,
	}); delErr != nil {
		log.Ctx(ctx).Error().Err(delErr).Msg("Failed to delete message")
	}
}

// ReceiveCount is how many times SQS has delivered msg, 1 on first delivery.
func ReceiveCount(msg types.Message) int {
	raw, ok := msg.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
