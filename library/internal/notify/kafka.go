package notify

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-management/pkg/notification"
)

type kafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaSink(producer sarama.SyncProducer, topic string) Sink {
	return &kafkaSink{
		producer: producer,
		topic:    topic,
	}
}

func (s *kafkaSink) Publish(ctx context.Context, event notification.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := event.Encode()
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(event.Email),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err = s.producer.SendMessage(msg); err != nil {
		return errors.Wrap(err, "producer.SendMessage")
	}
	return nil
}
