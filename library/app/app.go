package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/config"
	"github.com/Astemirdum/library-management/library/internal/cache"
	"github.com/Astemirdum/library-management/library/internal/handler"
	"github.com/Astemirdum/library-management/library/internal/notify"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/library/internal/server"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/library/migrations"
	"github.com/Astemirdum/library-management/pkg/circuit_breaker"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
	"github.com/Astemirdum/library-management/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "library")
	ctx := context.Background()

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	repo, closeRepo, err := newRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	closers = append(closers, closeRepo)

	sink, closeSink, err := newSink(cfg, log)
	if err != nil {
		return err
	}
	closers = append(closers, closeSink)
	dispatcher := notify.NewDispatcher(sink, circuit_breaker.New(cfg.Notifier.CircuitBreaker), log)

	opts := make([]service.Option, 0, 1)
	rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		// the cache is optional; run without it
		log.Warn("redis disabled", zap.Error(err))
	}
	if rdb != nil {
		closers = append(closers, func() { _ = rdb.Close() })
		opts = append(opts, service.WithBookCache(cache.NewBookCache(rdb, cfg.Redis.TTL, log)))
	}
	svc := service.NewService(repo, dispatcher, log, opts...)

	h := handler.New(svc, log,
		handler.WithJWTSecret(cfg.Auth.JWTSecret),
		handler.WithProduction(cfg.IsProduction()),
	)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
	return nil
}

func newRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Repository, func(), error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("in-memory storage: data is lost on restart")
		return repository.NewMemoryRepository(), func() {}, nil
	}
	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return nil, nil, fmt.Errorf("db init %w", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("repo %w", err)
	}
	return repo, db.Close, nil
}

func newSink(cfg *config.Config, log *zap.Logger) (notify.Sink, func(), error) {
	switch cfg.Notifier.Transport {
	case config.NotifierKafka:
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return nil, nil, fmt.Errorf("kafka.NewProducer %w", err)
		}
		return notify.NewKafkaSink(producer, kafka.NotificationTopic), closeProducer(producer, log), nil
	case config.NotifierAMQP:
		conn, err := amqp.Dial(cfg.AMQP.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("amqp.Dial %w", err)
		}
		sink, err := notify.NewAMQPSink(conn, cfg.AMQP.Queue)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return sink, func() { _ = conn.Close() }, nil
	default:
		return notify.NewLogSink(log), func() {}, nil
	}
}

func closeProducer(producer sarama.SyncProducer, log *zap.Logger) func() {
	return func() {
		if err := producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
}
