package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// EventProducer is the output port the services publish domain events through.
type EventProducer interface {
	Publish(ctx context.Context, event Event) error
}

// MessageSender puts one message on a named destination.
type MessageSender interface {
	SendMessage(ctx context.Context, destination string, body []byte, attrs map[string]string) error
}

// eventTypeAttr lets queue subscribers filter without parsing the body.
const eventTypeAttr = "eventType"

// Producer fans every event out to the notify queue (e-mail) and the webhook queue.
type Producer struct {
	sender          MessageSender
	notifyQueueURL  string
	webhookQueueURL string
}

func NewProducer(sender MessageSender, notifyQueueURL, webhookQueueURL string) *Producer {
	return &Producer{
		sender:          sender,
		notifyQueueURL:  notifyQueueURL,
		webhookQueueURL: webhookQueueURL,
	}
}

func NewSQSProducer(client SQSClient, notifyQueueURL, webhookQueueURL string) *Producer {
	return NewProducer(NewSQSSender(client), notifyQueueURL, webhookQueueURL)
}

// Publish sends the event to both queues. A failure on one queue does not
// stop delivery to the other; both errors are returned joined.
func (p *Producer) Publish(ctx context.Context, event Event) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("app.workerName", event.WorkerName),
			attribute.String("app.eventType", string(event.EventType)),
		)
	}

	attrs := map[string]string{eventTypeAttr: string(event.EventType)}
	return errors.Join(
		p.send(ctx, p.notifyQueueURL, b, attrs),
		p.send(ctx, p.webhookQueueURL, b, attrs),
	)
}

// send skips destinations that are not configured.
func (p *Producer) send(ctx context.Context, destination string, body []byte, attrs map[string]string) error {
	if destination == "" {
		return nil
	}
	if err := p.sender.SendMessage(ctx, destination, body, attrs); err != nil {
		return fmt.Errorf("failed to send message to %s: %w", destination, err)
	}
	return nil
}

// NopProducer drops every event. It is used when EVENTS_ENABLED is false.
type NopProducer struct{}

func (NopProducer) Publish(context.Context, Event) error { return nil }
