package notify

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Astemirdum/library-management/pkg/notification"
)

type amqpSink struct {
	mu    sync.Mutex
	ch    *amqp.Channel
	queue string
}

// NewAMQPSink declares the durable queue and publishes to it through the default exchange.
func NewAMQPSink(conn *amqp.Connection, queue string) (Sink, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "channel open")
	}
	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, errors.Wrap(err, "queue declare")
	}
	return &amqpSink{ch: ch, queue: queue}, nil
}

func (s *amqpSink) Publish(ctx context.Context, event notification.Event) error {
	body, err := event.Encode()
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}
	// amqp channels are not safe for concurrent publishing
	s.mu.Lock()
	defer s.mu.Unlock()
	if err = s.ch.PublishWithContext(ctx, "", s.queue, false, false, pub); err != nil {
		return errors.Wrap(err, "publish")
	}
	return nil
}
