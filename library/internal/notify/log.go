package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/pkg/notification"
)

type logSink struct {
	log *zap.Logger
}

// NewLogSink writes events to the logger only.
func NewLogSink(log *zap.Logger) Sink {
	return &logSink{log: log.Named("notify-log")}
}

func (s *logSink) Publish(_ context.Context, event notification.Event) error {
	s.log.Info("notification",
		zap.String("id", event.ID),
		zap.String("kind", string(event.Kind)),
		zap.String("email", event.Email),
		zap.String("title", event.Title),
		zap.Time("date", event.Date))
	return nil
}
