package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"worktracker.service/internal/core/duration"
	"worktracker.service/internal/core/model"
	"worktracker.service/internal/ports/messaging"
	"worktracker.service/pkg/telemetry"
)

type EmailService interface {
	SendSessionSummary(ctx context.Context, to string, session model.WorkSession) error
	SendAttendanceNotice(ctx context.Context, to string, event messaging.Event) error
}

// SESClient is the part of the SES API the e-mail service uses.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESEmailService struct {
	client SESClient
	sender string
	loc    *time.Location
}

func NewSESEmailService(client SESClient, sender string, loc *time.Location) *SESEmailService {
	if loc == nil {
		loc = time.Local
	}
	return &SESEmailService{client: client, sender: sender, loc: loc}
}

func (s *SESEmailService) SendSessionSummary(ctx context.Context, to string, session model.WorkSession) error {
	subject := fmt.Sprintf("%s finished %q", session.WorkerName, session.JobTitle)

	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\n%s completed %q.\n\n", session.WorkerName, session.JobTitle)
	fmt.Fprintf(&b, "Started:  %s\n", session.StartTime.In(s.loc).Format("Mon Jan 2 15:04"))
	fmt.Fprintf(&b, "Finished: %s\n", session.EndTime.In(s.loc).Format("Mon Jan 2 15:04"))
	fmt.Fprintf(&b, "Time:     %s\n\n", duration.FormatMinutes(session.Duration))
	fmt.Fprintf(&b, "What was done:\n%s\n", session.Description)

	return s.send(ctx, to, subject, b.String())
}

func (s *SESEmailService) SendAttendanceNotice(ctx context.Context, to string, event messaging.Event) error {
	at := event.OccurredAt.In(s.loc).Format("15:04")

	var subject, body string
	switch event.EventType {
	case messaging.EventCheckIn:
		subject = fmt.Sprintf("%s checked in", event.WorkerName)
		body = fmt.Sprintf("%s checked in at %s.", event.WorkerName, at)
		if event.IsLateCheckIn {
			body += " This is a late check-in."
		}
	case messaging.EventCheckOut:
		subject = fmt.Sprintf("%s checked out", event.WorkerName)
		body = fmt.Sprintf("%s checked out at %s.", event.WorkerName, at)
		if event.IsEarlyCheckOut {
			body += " This is an early check-out."
		}
	default:
		return fmt.Errorf("no attendance notice for event type %q", event.EventType)
	}

	return s.send(ctx, to, subject, body)
}

func (s *SESEmailService) send(ctx context.Context, to, subject, body string) error {
	tracer := otel.Tracer("ses-email-service")
	ctx, span := tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if name := telemetry.GetWorkerNameFromContext(ctx); name != "" {
		span.SetAttributes(attribute.String("app.workerName", name))
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}
