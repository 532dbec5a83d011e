package consumer

import (
	"context"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/pkg/notification"
)

const maxBackoff = 30 * time.Second

// ConsumeAMQP reconnects with exponential backoff until ctx is done.
func ConsumeAMQP(ctx context.Context, url, queue string, deliver deliver, log *zap.Logger) {
	log = log.Named("amqp-consumer")
	backoff := time.Second
	for ctx.Err() == nil {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Error("dial", zap.Duration("retry_in", backoff), zap.Error(err))
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, queue, deliver, log)
		_ = conn.Close()
		if err != nil {
			log.Error("consume loop ended, reconnecting", zap.Error(err))
			if !sleep(ctx, 2*time.Second) {
				return
			}
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queue string, deliver deliver, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "channel open")
	}
	defer func() { _ = ch.Close() }()

	if err = ch.Qos(50, 0, false); err != nil {
		log.Warn("set QoS", zap.Error(err))
	}
	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "queue declare")
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return errors.Wrap(err, "queue consume")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err = handleDelivery(ctx, d.Body, deliver); err != nil {
				log.Error("handle delivery", zap.String("message_id", d.MessageId), zap.Error(err))
				// no requeue: a poison message would loop forever
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func handleDelivery(ctx context.Context, body []byte, deliver deliver) error {
	event, err := notification.Decode(body)
	if err != nil {
		return errors.Wrap(err, "decode")
	}
	return deliver(ctx, event)
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
