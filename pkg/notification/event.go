// Package notification holds the event shared by the library service and the notifier.
package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/Astemirdum/library-management/pkg/jsonx"
)

type Kind string

const (
	KindOverdue              Kind = "loan_overdue"
	KindLoanReturned         Kind = "loan_returned"
	KindReservationFulfilled Kind = "reservation_fulfilled"
	KindReservationExpired   Kind = "reservation_expired"
)

type Event struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Title string `json:"title"`
	// Date is the due, return or expiry date depending on Kind.
	Date       time.Time `json:"date"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewEvent(kind Kind, email, name, title string, date, now time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		Email:      email,
		Name:       name,
		Title:      title,
		Date:       date,
		OccurredAt: now,
	}
}

func (e Event) Encode() ([]byte, error) {
	return jsonx.JSON.Marshal(e)
}

func Decode(data []byte) (Event, error) {
	var e Event
	err := jsonx.JSON.Unmarshal(data, &e)
	return e, err
}
