package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery_bot/models"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishTicketIssued(t *testing.T) {
	writer := &recordingWriter{}
	producer := &Producer{writer: writer}
	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	err := producer.PublishTicketIssued(context.Background(), &models.Ticket{
		UserID:       42,
		Username:     "alice",
		Wallet:       "So11111111111111111111111111111111111111112",
		TicketNumber: "LB-ABCD-EFGH",
		CreatedAt:    created,
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "42", string(msg.Key))

	var event TicketIssuedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, TypeTicketIssued, event.Type)
	assert.Equal(t, int64(42), event.UserID)
	assert.Equal(t, "LB-ABCD-EFGH", event.TicketNumber)
	assert.True(t, created.Equal(event.CreatedAt))

	require.NoError(t, producer.Close())
	assert.True(t, writer.closed)
}

func TestPublishTicketIssuedPropagatesWriterError(t *testing.T) {
	producer := &Producer{writer: &recordingWriter{err: errors.New("no brokers")}}

	err := producer.PublishTicketIssued(context.Background(), &models.Ticket{UserID: 1})
	assert.EqualError(t, err, "no brokers")
}
