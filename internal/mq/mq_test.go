package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type fakeDelivery struct {
	acked, nacked, requeued bool
}

func (d *fakeDelivery) Ack(bool) error {
	d.acked = true
	return nil
}

func (d *fakeDelivery) Nack(_, requeue bool) error {
	d.nacked = true
	d.requeued = requeue
	return nil
}

func TestPublishReadingStored(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{channel: ch, exchange: "events", routingKey: "sensor.reading.stored", logger: zap.NewNop()}

	event := ReadingStoredEvent{ReadingID: "r-1", DeviceID: "esp32_garage", Temperature: 25.5, Humidity: 70, AlertSent: true}
	require.NoError(t, p.PublishReadingStored(context.Background(), event))

	assert.Equal(t, "events", ch.exchange)
	assert.Equal(t, "sensor.reading.stored", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, "r-1", ch.msg.MessageId)

	var decoded ReadingStoredEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, event, decoded)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublishReadingStored_Error(t *testing.T) {
	p := &Publisher{channel: &fakeChannel{err: errors.New("channel closed")}, logger: zap.NewNop()}

	err := p.PublishReadingStored(context.Background(), ReadingStoredEvent{ReadingID: "r-1"})

	assert.ErrorContains(t, err, "channel closed")
}

func TestConsumerHandle(t *testing.T) {
	c := &Consumer{logger: zap.NewNop()}

	c.messageProcessor = func(context.Context, []byte) error { return nil }
	ok := &fakeDelivery{}
	c.handle(context.Background(), "sensor.reading.raw", []byte(`{}`), ok)
	assert.True(t, ok.acked)
	assert.False(t, ok.nacked)

	c.messageProcessor = func(context.Context, []byte) error { return errors.New("invalid") }
	bad := &fakeDelivery{}
	c.handle(context.Background(), "sensor.reading.raw", []byte(`{}`), bad)
	assert.True(t, bad.nacked)
	assert.False(t, bad.requeued, "failed messages must be dead-lettered, not requeued")
	assert.False(t, bad.acked)
}
