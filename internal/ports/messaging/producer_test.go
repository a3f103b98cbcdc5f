package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	destination string
	body        []byte
	attrs       map[string]string
}

type fakeSender struct {
	sent    []sentMessage
	failFor string
}

func (f *fakeSender) SendMessage(_ context.Context, destination string, body []byte, attrs map[string]string) error {
	if destination == f.failFor {
		return errors.New("queue unavailable")
	}
	f.sent = append(f.sent, sentMessage{destination: destination, body: body, attrs: attrs})
	return nil
}

func TestProducerPublishFansOut(t *testing.T) {
	sender := &fakeSender{}
	p := NewProducer(sender, "notify", "webhook")

	event := Event{
		EventType:  EventCheckIn,
		WorkerName: "sam",
		OccurredAt: time.Date(2026, 10, 14, 16, 30, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "notify", sender.sent[0].destination)
	assert.Equal(t, "webhook", sender.sent[1].destination)
	assert.Equal(t, "attendance.check_in", sender.sent[1].attrs["eventType"])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(sender.sent[0].body, &decoded))
	assert.Equal(t, "attendance.check_in", decoded["eventType"])
	assert.Equal(t, "sam", decoded["workerName"])
	assert.NotContains(t, decoded, "workSessionId")
}

func TestProducerPublishKeepsGoingAfterOneQueueFails(t *testing.T) {
	sender := &fakeSender{failFor: "notify"}
	p := NewProducer(sender, "notify", "webhook")

	err := p.Publish(context.Background(), Event{EventType: EventCheckOut, WorkerName: "sam"})
	assert.ErrorContains(t, err, "notify")
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "webhook", sender.sent[0].destination)
}

func TestProducerSkipsUnconfiguredQueue(t *testing.T) {
	sender := &fakeSender{}
	p := NewProducer(sender, "notify", "")

	require.NoError(t, p.Publish(context.Background(), Event{EventType: EventCheckOut}))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "notify", sender.sent[0].destination)
}

type fakeSQS struct {
	input *sqs.SendMessageInput
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	return &sqs.SendMessageOutput{MessageId: aws.String("1")}, nil
}

func TestSQSSender(t *testing.T) {
	client := &fakeSQS{}
	s := NewSQSSender(client)

	require.NoError(t, s.SendMessage(context.Background(), "http://queue", []byte(`{"a":1}`), map[string]string{"eventType": "attendance.check_out"}))
	assert.Equal(t, "http://queue", aws.ToString(client.input.QueueUrl))
	assert.Equal(t, `{"a":1}`, aws.ToString(client.input.MessageBody))
	require.Contains(t, client.input.MessageAttributes, "eventType")
	assert.Equal(t, "attendance.check_out", aws.ToString(client.input.MessageAttributes["eventType"].StringValue))
}
