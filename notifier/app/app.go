package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-management/notifier/config"
	"github.com/Astemirdum/library-management/notifier/internal/consumer"
	"github.com/Astemirdum/library-management/notifier/internal/mailer"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "notifier")
	m := mailer.New(cfg.From, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	switch cfg.Transport {
	case config.TransportKafka:
		group, err := kafka.NewConsumer(cfg.Kafka, kafka.NotifierConsumerGroup)
		if err != nil {
			return fmt.Errorf("kafka.NewConsumer %w", err)
		}
		g.Go(func() error {
			kafka.Consume(ctx, group, consumer.NewConsumer(m.Send, log), log, kafka.NotificationTopic)
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			return group.Close()
		})
	case config.TransportAMQP:
		g.Go(func() error {
			consumer.ConsumeAMQP(ctx, cfg.AMQP.URL, cfg.AMQP.Queue, m.Send, log)
			return nil
		})
	default:
		return fmt.Errorf("unknown transport %q", cfg.Transport)
	}

	log.Info("notifier started", zap.String("transport", cfg.Transport))
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}
