package mailer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/pkg/notification"
)

type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Mailer renders notification e-mails and logs them instead of sending.
type Mailer struct {
	from string
	log  *zap.Logger
}

func New(from string, log *zap.Logger) *Mailer {
	return &Mailer{
		from: from,
		log:  log.Named("mailer"),
	}
}

func Render(from string, e notification.Event) (Message, error) {
	date := e.Date.Format(time.DateOnly)
	msg := Message{From: from, To: e.Email}
	switch e.Kind {
	case notification.KindOverdue:
		msg.Subject = "Overdue book: " + e.Title
		msg.Body = fmt.Sprintf("Dear %s,\n\n%q was due on %s. Please return it as soon as possible.", e.Name, e.Title, date)
	case notification.KindLoanReturned:
		msg.Subject = "Book returned: " + e.Title
		msg.Body = fmt.Sprintf("Dear %s,\n\nwe received %q on %s. Thank you.", e.Name, e.Title, date)
	case notification.KindReservationFulfilled:
		msg.Subject = "Reserved book available: " + e.Title
		msg.Body = fmt.Sprintf("Dear %s,\n\n%q is available again. Your reservation is valid until %s.", e.Name, e.Title, date)
	case notification.KindReservationExpired:
		msg.Subject = "Reservation expired: " + e.Title
		msg.Body = fmt.Sprintf("Dear %s,\n\nyour reservation of %q expired on %s.", e.Name, e.Title, date)
	default:
		return Message{}, fmt.Errorf("unknown notification kind %q", e.Kind)
	}
	return msg, nil
}

func (m *Mailer) Send(_ context.Context, e notification.Event) error {
	if e.Email == "" {
		return fmt.Errorf("event %s has no recipient", e.ID)
	}
	msg, err := Render(m.from, e)
	if err != nil {
		return err
	}
	m.log.Info("mail sent",
		zap.String("event_id", e.ID),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body))
	return nil
}
