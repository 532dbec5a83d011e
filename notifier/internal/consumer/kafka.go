package consumer

import (
	"context"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/pkg/notification"
)

type deliver func(ctx context.Context, event notification.Event) error

// Consumer is a sarama.ConsumerGroupHandler feeding notification events to deliver.
type Consumer struct {
	deliverHandler deliver
	log            *zap.Logger
	ready          chan bool
}

func NewConsumer(deliver deliver, log *zap.Logger) *Consumer {
	return &Consumer{
		deliverHandler: deliver,
		log:            log.Named("consumer"),
		ready:          make(chan bool),
	}
}

// Ready is closed once the first session is set up.
func (consumer *Consumer) Ready() <-chan bool {
	return consumer.ready
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	select {
	case <-consumer.ready:
	default:
		close(consumer.ready)
	}
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			consumer.handle(session.Context(), message)
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// handle drops undecodable or undeliverable messages after logging them.
func (consumer *Consumer) handle(ctx context.Context, message *sarama.ConsumerMessage) {
	event, err := notification.Decode(message.Value)
	if err != nil {
		consumer.log.Error("decode", zap.Int64("offset", message.Offset), zap.Error(err))
		return
	}
	if err = consumer.deliverHandler(ctx, event); err != nil {
		consumer.log.Error("consumer.deliverHandler", zap.String("event_id", event.ID), zap.Error(err))
		return
	}
	consumer.log.Debug("Message claimed:", zap.String("event_id", event.ID), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
}
