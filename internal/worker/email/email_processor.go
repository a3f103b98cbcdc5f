package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"

	"worktracker.service/internal/core"
	"worktracker.service/internal/ports/messaging"
	"worktracker.service/internal/ports/repository"
	"worktracker.service/internal/worker"
)

// EmailProcessor turns events on the notify queue into e-mails to the parent.
type EmailProcessor struct {
	emailService core.EmailService
	sessions     repository.WorkSessionRepository
	recipient    string
}

// NewProcessor sets up a new processor for handling email-related jobs.
// Session summaries are built from the stored session, not the event, so the
// description is always the one that was saved.
func NewProcessor(emailService core.EmailService, sessions repository.WorkSessionRepository, recipient string) *EmailProcessor {
	return &EmailProcessor{
		emailService: emailService,
		sessions:     sessions,
		recipient:    recipient,
	}
}

// Process is the main entry point for handling a message from the notify queue.
// It tries to send an email and will tell the worker to retry if something goes wrong.
func (p *EmailProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	if msg.Body == nil {
		return false, 0, errors.New("empty message body")
	}

	var event messaging.Event
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal notify event")
		return false, 0, err // Do not retry on malformed message
	}

	var err error
	switch event.EventType {
	case messaging.EventWorkSessionCompleted:
		session, getErr := p.sessions.GetWorkSession(ctx, event.WorkSessionID)
		if errors.Is(getErr, repository.ErrNotFound) {
			return false, 0, fmt.Errorf("work session %s: %w", event.WorkSessionID, getErr)
		}
		if getErr != nil {
			// If we can't get the record, retry after a short delay.
			return true, 10, fmt.Errorf("failed to get work session for email: %w", getErr)
		}
		err = p.emailService.SendSessionSummary(ctx, p.recipient, *session)

	case messaging.EventCheckIn, messaging.EventCheckOut:
		err = p.emailService.SendAttendanceNotice(ctx, p.recipient, event)

	default:
		log.Ctx(ctx).Warn().Str("event_type", string(event.EventType)).Msg("No e-mail for event type, skipping")
		return false, 0, nil
	}

	if err != nil {
		return true, worker.CalculateBackoff(worker.ReceiveCount(msg)), fmt.Errorf("send email: %w", err)
	}

	log.Ctx(ctx).Info().Str("event_type", string(event.EventType)).Msg("Notification e-mail sent")
	return false, 0, nil
}
