package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktracker.service/internal/core/model"
	"worktracker.service/internal/ports/messaging"
	"worktracker.service/internal/ports/repository"
	"worktracker.service/pkg/database"
	"worktracker.service/pkg/database/dbtest"
)

type fakeEmail struct {
	summaries []model.WorkSession
	notices   []messaging.Event
	err       error
}

func (f *fakeEmail) SendSessionSummary(_ context.Context, _ string, s model.WorkSession) error {
	if f.err != nil {
		return f.err
	}
	f.summaries = append(f.summaries, s)
	return nil
}

func (f *fakeEmail) SendAttendanceNotice(_ context.Context, _ string, e messaging.Event) error {
	if f.err != nil {
		return f.err
	}
	f.notices = append(f.notices, e)
	return nil
}

func msg(body string) types.Message {
	return types.Message{MessageId: aws.String("m"), Body: aws.String(body)}
}

func TestEmailProcessorSessionSummary(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewWorkSessionRepository(dbtest.NewSQLite(t), database.SQLite)
	start := time.Date(2026, 10, 14, 16, 0, 0, 0, time.UTC)
	session, err := repo.CreateWorkSession(ctx, model.WorkSession{
		JobTitle: "Dishes", WorkerName: "sam", StartTime: start, EndTime: start.Add(time.Hour), Duration: 60, Description: "done",
	})
	require.NoError(t, err)

	emails := &fakeEmail{}
	p := NewProcessor(emails, repo, "parent@home")

	retry, _, err := p.Process(ctx, msg(`{"eventType":"work_session.completed","workerName":"sam","workSessionId":"`+session.ID+`"}`))
	require.NoError(t, err)
	assert.False(t, retry)
	require.Len(t, emails.summaries, 1)
	assert.Equal(t, "done", emails.summaries[0].Description)

	retry, _, err = p.Process(ctx, msg(`{"eventType":"work_session.completed","workSessionId":"00000000-0000-0000-0000-000000000000"}`))
	assert.Error(t, err)
	assert.False(t, retry, "a missing session will not appear later")
}

func TestEmailProcessorAttendanceAndRetries(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewWorkSessionRepository(dbtest.NewSQLite(t), database.SQLite)
	emails := &fakeEmail{}
	p := NewProcessor(emails, repo, "parent@home")

	retry, _, err := p.Process(ctx, msg(`{"eventType":"attendance.check_in","workerName":"sam","isLateCheckIn":true}`))
	require.NoError(t, err)
	assert.False(t, retry)
	require.Len(t, emails.notices, 1)
	assert.True(t, emails.notices[0].IsLateCheckIn)

	retry, _, err = p.Process(ctx, msg(`{"eventType":"something.else"}`))
	assert.NoError(t, err)
	assert.False(t, retry)

	retry, _, err = p.Process(ctx, msg(`not json`))
	assert.Error(t, err)
	assert.False(t, retry)

	emails.err = errors.New("ses throttled")
	m := msg(`{"eventType":"attendance.check_out","workerName":"sam"}`)
	m.Attributes = map[string]string{"ApproximateReceiveCount": "2"}
	retry, delay, err := p.Process(ctx, m)
	assert.Error(t, err)
	assert.True(t, retry)
	assert.Equal(t, int32(40), delay)
}
