package notify

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/segmentio/kafka-go"

	"github.com/xenking/order-processor/internal/domain/order"
)

// EventOrderProcessed is the EventType of messages published by Kafka.
const EventOrderProcessed = "OrderProcessed"

var _ order.Notifier = (*Kafka)(nil)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes an OrderProcessed event per order. Messages are keyed by
// order ID so that all events of one order land on the same partition.
type Kafka struct {
	w   messageWriter
	now func() time.Time
}

// NewKafka returns a Kafka notifier publishing to topic.
func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		now: time.Now,
	}
}

// Notify publishes the event synchronously.
func (k *Kafka) Notify(ctx context.Context, o *order.Order) error {
	msg := kafka.Message{
		Key:   []byte(o.ID),
		Value: encodeEvent(o, k.now()),
	}
	if err := k.w.WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(err, "publish order %s", o.ID)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (k *Kafka) Close() error {
	return k.w.Close()
}

func encodeEvent(o *order.Order, at time.Time) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("EventType")
	e.Str(EventOrderProcessed)
	e.FieldStart("OrderId")
	e.Str(o.ID)
	e.FieldStart("Email")
	e.Str(o.Email)
	e.FieldStart("CustomerType")
	e.Str(o.CustomerType.String())
	e.FieldStart("Total")
	e.Num(jx.Num(o.Total.String()))
	e.FieldStart("OccurredAt")
	e.Str(at.UTC().Format(time.RFC3339Nano))
	e.ObjEnd()
	return e.Bytes()
}
