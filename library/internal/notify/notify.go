package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/circuit_breaker"
	"github.com/Astemirdum/library-management/pkg/notification"
)

//go:generate go run github.com/golang/mock/mockgen -source=notify.go -destination=mocks/mock.go

// Sink delivers one event to a transport.
type Sink interface {
	Publish(ctx context.Context, event notification.Event) error
}

const publishTimeout = 3 * time.Second

// Dispatcher turns lifecycle transitions into events.
// Delivery failures are logged and never reach the caller.
type Dispatcher struct {
	sink Sink
	cb   circuit_breaker.CircuitBreaker
	now  func() time.Time
	log  *zap.Logger
}

func NewDispatcher(sink Sink, cb circuit_breaker.CircuitBreaker, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		sink: sink,
		cb:   cb,
		now:  time.Now,
		log:  log.Named("notify"),
	}
}

func (d *Dispatcher) NotifyOverdue(ctx context.Context, user model.User, book model.Book, dueDate time.Time) {
	d.dispatch(ctx, notification.KindOverdue, user, book, dueDate)
}

func (d *Dispatcher) NotifyLoanReturned(ctx context.Context, user model.User, book model.Book, returnDate time.Time) {
	d.dispatch(ctx, notification.KindLoanReturned, user, book, returnDate)
}

func (d *Dispatcher) NotifyReservationFulfilled(ctx context.Context, user model.User, book model.Book, expiryDate time.Time) {
	d.dispatch(ctx, notification.KindReservationFulfilled, user, book, expiryDate)
}

func (d *Dispatcher) NotifyReservationExpired(ctx context.Context, user model.User, book model.Book, expiryDate time.Time) {
	d.dispatch(ctx, notification.KindReservationExpired, user, book, expiryDate)
}

func (d *Dispatcher) dispatch(ctx context.Context, kind notification.Kind, user model.User, book model.Book, date time.Time) {
	event := notification.NewEvent(kind, user.Email, user.Name, book.Title, date, d.now())

	// the request may already be finished when the sink is slow
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := d.cb.Call(func() error {
		return d.sink.Publish(ctx, event)
	})
	if err != nil {
		d.log.Error("publish",
			zap.String("kind", string(kind)),
			zap.String("event_id", event.ID),
			zap.Int64("user_id", user.ID),
			zap.Int64("book_id", book.ID),
			zap.Stringer("cb_state", d.cb.State()),
			zap.Error(err))
		return
	}
	d.log.Debug("published", zap.String("kind", string(kind)), zap.String("event_id", event.ID))
}
