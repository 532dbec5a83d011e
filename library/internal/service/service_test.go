package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/library/internal/service"
)

var day0 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) advanceDays(n int) {
	c.set(c.Now().AddDate(0, 0, n))
}

type sent struct {
	kind  string
	email string
	title string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sent
}

func (n *recordingNotifier) add(kind string, user model.User, book model.Book) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sent{kind: kind, email: user.Email, title: book.Title})
}

func (n *recordingNotifier) NotifyOverdue(_ context.Context, user model.User, book model.Book, _ time.Time) {
	n.add("overdue", user, book)
}

func (n *recordingNotifier) NotifyLoanReturned(_ context.Context, user model.User, book model.Book, _ time.Time) {
	n.add("returned", user, book)
}

func (n *recordingNotifier) NotifyReservationFulfilled(_ context.Context, user model.User, book model.Book, _ time.Time) {
	n.add("fulfilled", user, book)
}

func (n *recordingNotifier) NotifyReservationExpired(_ context.Context, user model.User, book model.Book, _ time.Time) {
	n.add("expired", user, book)
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.kind)
	}
	return out
}

type fixture struct {
	svc      *service.Service
	clock    *fakeClock
	notifier *recordingNotifier
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clock := &fakeClock{now: day0}
	notifier := &recordingNotifier{}
	svc := service.NewService(repository.NewMemoryRepository(), notifier, zap.NewNop(), service.WithClock(clock))
	return fixture{svc: svc, clock: clock, notifier: notifier}
}

func (f fixture) user(t *testing.T, email string, role model.Role) model.Caller {
	t.Helper()
	ctx := context.Background()
	u, err := f.svc.RegisterUser(ctx, model.CreateUserRequest{Name: email, Email: email})
	require.NoError(t, err)
	if role != model.RoleStudent {
		u, err = f.svc.UpdateUser(ctx, u.ID, model.UpdateUserRequest{Role: &role})
		require.NoError(t, err)
	}
	return model.Caller{UserID: u.ID, Role: u.Role}
}

func (f fixture) book(t *testing.T, isbn string, copies int) model.Book {
	t.Helper()
	b, err := f.svc.CreateBook(context.Background(), model.CreateBookRequest{
		Title: "Title " + isbn, Author: "Author", ISBN: isbn, TotalCopies: copies,
	})
	require.NoError(t, err)
	return b
}

func (f fixture) available(t *testing.T, id int64) int {
	t.Helper()
	b, err := f.svc.GetBook(context.Background(), id)
	require.NoError(t, err)
	require.GreaterOrEqual(t, b.AvailableCopies, 0)
	require.LessOrEqual(t, b.AvailableCopies, b.TotalCopies)
	return b.AvailableCopies
}

func TestService_CreateLoan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("due date by role", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		student := f.user(t, "s@x.io", model.RoleStudent)
		staff := f.user(t, "t@x.io", model.RoleStaff)
		book := f.book(t, "1", 2)

		loan, err := f.svc.CreateLoan(ctx, student, model.CreateLoanRequest{BookID: book.ID})
		require.NoError(t, err)
		require.Equal(t, model.LoanStatusBorrowed, loan.Status)
		require.Equal(t, day0.AddDate(0, 0, 14), loan.DueDate)
		require.Nil(t, loan.ReturnDate)

		loan, err = f.svc.CreateLoan(ctx, staff, model.CreateLoanRequest{BookID: book.ID})
		require.NoError(t, err)
		require.Equal(t, day0.AddDate(0, 0, 30), loan.DueDate)
		require.Equal(t, 0, f.available(t, book.ID))
	})

	t.Run("no copies left", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		a := f.user(t, "a@x.io", model.RoleStudent)
		b := f.user(t, "b@x.io", model.RoleStudent)
		book := f.book(t, "1", 1)

		_, err := f.svc.CreateLoan(ctx, a, model.CreateLoanRequest{BookID: book.ID})
		require.NoError(t, err)
		_, err = f.svc.CreateLoan(ctx, b, model.CreateLoanRequest{BookID: book.ID})
		require.ErrorIs(t, err, errs.ErrConflict)

		loans, err := f.svc.ListActiveLoans(ctx, b, b.UserID)
		require.NoError(t, err)
		require.Empty(t, loans)
		require.Equal(t, 0, f.available(t, book.ID))
	})

	t.Run("one active loan per pair", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		a := f.user(t, "a@x.io", model.RoleStudent)
		book := f.book(t, "1", 3)

		_, err := f.svc.CreateLoan(ctx, a, model.CreateLoanRequest{BookID: book.ID})
		require.NoError(t, err)
		_, err = f.svc.CreateLoan(ctx, a, model.CreateLoanRequest{BookID: book.ID})
		require.ErrorIs(t, err, errs.ErrConflict)
		require.Equal(t, 2, f.available(t, book.ID))
	})

	t.Run("missing user or book", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		admin := f.user(t, "a@x.io", model.RoleAdmin)
		book := f.book(t, "1", 1)

		_, err := f.svc.CreateLoan(ctx, admin, model.CreateLoanRequest{BookID: 999})
		require.ErrorIs(t, err, errs.ErrNotFound)
		_, err = f.svc.CreateLoan(ctx, admin, model.CreateLoanRequest{BookID: book.ID, UserID: 999})
		require.ErrorIs(t, err, errs.ErrNotFound)
		require.Equal(t, 1, f.available(t, book.ID))
	})

	t.Run("student for another member", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		a := f.user(t, "a@x.io", model.RoleStudent)
		b := f.user(t, "b@x.io", model.RoleStudent)
		book := f.book(t, "1", 1)

		_, err := f.svc.CreateLoan(ctx, a, model.CreateLoanRequest{BookID: book.ID, UserID: b.UserID})
		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("suspended member", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		a := f.user(t, "a@x.io", model.RoleStudent)
		book := f.book(t, "1", 1)
		suspended := model.UserStatusSuspended
		_, err := f.svc.UpdateUser(ctx, a.UserID, model.UpdateUserRequest{Status: &suspended})
		require.NoError(t, err)

		_, err = f.svc.CreateLoan(ctx, a, model.CreateLoanRequest{BookID: book.ID})
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestService_CreateLoan_LastCopyRace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	book := f.book(t, "1", 1)

	const members = 16
	callers := make([]model.Caller, members)
	for i := range callers {
		callers[i] = f.user(t, string(rune('a'+i))+"@x.io", model.RoleStudent)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for _, c := range callers {
		c := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.CreateLoan(ctx, c, model.CreateLoanRequest{BookID: book.ID}); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, granted)
	require.Equal(t, 0, f.available(t, book.ID))
}

func TestService_ReturnLoan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("twice", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		a := f.user(t, "a@x.io", model.RoleStudent)
		book := f.book(t, "1", 2)
		loan, err := f.svc.CreateLoan(ctx, a, model.CreateLoanRequest{BookID: book.ID})
		require.NoError(t, err)
		f.clock.advanceDays(3)

		returned, err := f.svc.ReturnLoan(ctx, a, loan.ID)
		require.NoError(t, err)
		require.Equal(t, model.LoanStatusReturned, returned.Status)
		require.NotNil(t, returned.ReturnDate)
		require.Equal(t, day0.AddDate(0, 0, 3), *returned.ReturnDate)
		require.Equal(t, 2, f.available(t, book.ID))

		_, err = f.svc.ReturnLoan(ctx, a, loan.ID)
		require.ErrorIs(t, err, errs.ErrConflict)
		require.Equal(t, 2, f.available(t, book.ID))
		require.Equal(t, []string{"returned"}, f.notifier.kinds())
	})

	t.Run("authorization", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		owner := f.user(t, "a@x.io", model.RoleStudent)
		other := f.user(t, "b@x.io", model.RoleStudent)
		staff := f.user(t, "c@x.io", model.RoleStaff)
		book := f.book(t, "1", 2)
		loan, err := f.svc.CreateLoan(ctx, owner, model.CreateLoanRequest{BookID: book.ID})
		require.NoError(t, err)

		_, err = f.svc.ReturnLoan(ctx, other, loan.ID)
		require.ErrorIs(t, err, errs.ErrForbidden)
		require.Equal(t, 1, f.available(t, book.ID))

		_, err = f.svc.ReturnLoan(ctx, staff, loan.ID)
		require.NoError(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		admin := f.user(t, "a@x.io", model.RoleAdmin)
		_, err := f.svc.ReturnLoan(ctx, admin, 42)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_SweepOverdue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	student := f.user(t, "s@x.io", model.RoleStudent)
	staff := f.user(t, "t@x.io", model.RoleStaff)
	book := f.book(t, "1", 2)

	studentLoan, err := f.svc.CreateLoan(ctx, student, model.CreateLoanRequest{BookID: book.ID})
	require.NoError(t, err)
	_, err = f.svc.CreateLoan(ctx, staff, model.CreateLoanRequest{BookID: book.ID})
	require.NoError(t, err)

	f.clock.set(day0.AddDate(0, 0, 14))
	moved, err := f.svc.SweepOverdue(ctx)
	require.NoError(t, err)
	require.Empty(t, moved)

	f.clock.set(day0.AddDate(0, 0, 15))
	moved, err = f.svc.SweepOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, moved, 1)
	require.Equal(t, studentLoan.ID, moved[0].ID)
	require.Equal(t, model.LoanStatusOverdue, moved[0].Status)
	require.True(t, moved[0].FineAmount.IsZero())

	f.clock.set(day0.AddDate(0, 0, 16))
	moved, err = f.svc.SweepOverdue(ctx)
	require.NoError(t, err)
	require.Empty(t, moved)

	loan, err := f.svc.GetLoan(ctx, student, studentLoan.ID)
	require.NoError(t, err)
	require.Equal(t, model.LoanStatusOverdue, loan.Status)
	require.True(t, loan.FineAmount.IsZero())
	require.Equal(t, []string{"overdue"}, f.notifier.kinds())

	active, err := f.svc.ListActiveLoans(ctx, student, student.UserID)
	require.NoError(t, err)
	require.Len(t, active, 1)

	returned, err := f.svc.ReturnLoan(ctx, student, studentLoan.ID)
	require.NoError(t, err)
	require.Equal(t, model.LoanStatusReturned, returned.Status)
}

func TestService_ListActiveLoans_Order(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "a@x.io", model.RoleStudent)
	first := f.book(t, "1", 1)
	second := f.book(t, "2", 1)
	third := f.book(t, "3", 1)

	l1, err := f.svc.CreateLoan(ctx, a, model.CreateLoanRequest{BookID: first.ID})
	require.NoError(t, err)
	f.clock.advanceDays(1)
	l2, err := f.svc.CreateLoan(ctx, a, model.CreateLoanRequest{BookID: second.ID})
	require.NoError(t, err)
	l3, err := f.svc.CreateLoan(ctx, a, model.CreateLoanRequest{BookID: third.ID})
	require.NoError(t, err)
	_, err = f.svc.ReturnLoan(ctx, a, l1.ID)
	require.NoError(t, err)

	loans, err := f.svc.ListActiveLoans(ctx, a, a.UserID)
	require.NoError(t, err)
	require.Len(t, loans, 2)
	require.Equal(t, l3.ID, loans[0].ID)
	require.Equal(t, l2.ID, loans[1].ID)

	other := f.user(t, "b@x.io", model.RoleStudent)
	_, err = f.svc.ListActiveLoans(ctx, other, a.UserID)
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestService_Fines(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "a@x.io", model.RoleStudent)
	book := f.book(t, "1", 1)
	loan, err := f.svc.CreateLoan(ctx, a, model.CreateLoanRequest{BookID: book.ID})
	require.NoError(t, err)

	_, err = f.svc.SetFine(ctx, loan.ID, decimal.NewFromInt(-1))
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.svc.PayFine(ctx, loan.ID)
	require.ErrorIs(t, err, errs.ErrConflict)

	loan, err = f.svc.SetFine(ctx, loan.ID, decimal.RequireFromString("2.50"))
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("2.5").Equal(loan.FineAmount))

	stats, err := f.svc.DashboardStats(ctx)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("2.5").Equal(stats.OutstandingFines))

	loan, err = f.svc.PayFine(ctx, loan.ID)
	require.NoError(t, err)
	require.True(t, loan.FinePaid)

	_, err = f.svc.PayFine(ctx, loan.ID)
	require.ErrorIs(t, err, errs.ErrConflict)
	_, err = f.svc.SetFine(ctx, loan.ID, decimal.NewFromInt(5))
	require.ErrorIs(t, err, errs.ErrConflict)

	_, err = f.svc.SetFine(ctx, 999, decimal.NewFromInt(5))
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestService_Reservations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("fulfilled on return", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		x := f.user(t, "x@x.io", model.RoleStudent)
		y := f.user(t, "y@x.io", model.RoleStudent)
		z := f.user(t, "z@x.io", model.RoleStudent)
		book := f.book(t, "A", 1)

		loan, err := f.svc.CreateLoan(ctx, y, model.CreateLoanRequest{BookID: book.ID})
		require.NoError(t, err)

		rsv, err := f.svc.CreateReservation(ctx, x, model.CreateReservationRequest{BookID: book.ID})
		require.NoError(t, err)
		require.Equal(t, model.ReservationStatusPending, rsv.Status)
		require.Equal(t, day0.AddDate(0, 0, 7), rsv.ExpiryDate)

		_, err = f.svc.CreateReservation(ctx, x, model.CreateReservationRequest{BookID: book.ID})
		require.ErrorIs(t, err, errs.ErrConflict)

		_, err = f.svc.ReturnLoan(ctx, y, loan.ID)
		require.NoError(t, err)
		require.Equal(t, 1, f.available(t, book.ID))

		active, err := f.svc.ListActiveReservations(ctx, x, x.UserID)
		require.NoError(t, err)
		require.Empty(t, active)

		_, err = f.svc.CreateReservation(ctx, z, model.CreateReservationRequest{BookID: book.ID})
		require.ErrorIs(t, err, errs.ErrConflict)

		_, err = f.svc.CreateLoan(ctx, y, model.CreateLoanRequest{BookID: book.ID})
		require.NoError(t, err)
		_, err = f.svc.CreateReservation(ctx, z, model.CreateReservationRequest{BookID: book.ID})
		require.NoError(t, err)

		require.Equal(t, []string{"fulfilled", "returned"}, f.notifier.kinds())
		require.Equal(t, "x@x.io", f.notifier.events[0].email)
	})

	t.Run("oldest pending first", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		holder := f.user(t, "h@x.io", model.RoleStudent)
		first := f.user(t, "f@x.io", model.RoleStudent)
		second := f.user(t, "s@x.io", model.RoleStudent)
		book := f.book(t, "A", 1)
		_, err := f.svc.CreateLoan(ctx, holder, model.CreateLoanRequest{BookID: book.ID})
		require.NoError(t, err)

		r1, err := f.svc.CreateReservation(ctx, first, model.CreateReservationRequest{BookID: book.ID})
		require.NoError(t, err)
		r2, err := f.svc.CreateReservation(ctx, second, model.CreateReservationRequest{BookID: book.ID})
		require.NoError(t, err)

		got, ok, err := f.svc.FulfillOldestPending(ctx, book.ID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, r1.ID, got.ID)

		got, ok, err = f.svc.FulfillOldestPending(ctx, book.ID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, r2.ID, got.ID)

		_, ok, err = f.svc.FulfillOldestPending(ctx, book.ID)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("expiry sweep and cancel", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		holder := f.user(t, "h@x.io", model.RoleStudent)
		member := f.user(t, "m@x.io", model.RoleStudent)
		book := f.book(t, "A", 1)
		_, err := f.svc.CreateLoan(ctx, holder, model.CreateLoanRequest{BookID: book.ID})
		require.NoError(t, err)
		rsv, err := f.svc.CreateReservation(ctx, member, model.CreateReservationRequest{BookID: book.ID})
		require.NoError(t, err)

		f.clock.set(day0.AddDate(0, 0, 8))
		expired, err := f.svc.SweepExpired(ctx)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		require.Equal(t, rsv.ID, expired[0].ID)
		require.Equal(t, model.ReservationStatusExpired, expired[0].Status)

		again, err := f.svc.SweepExpired(ctx)
		require.NoError(t, err)
		require.Empty(t, again)

		_, err = f.svc.CancelReservation(ctx, member, rsv.ID)
		require.ErrorIs(t, err, errs.ErrConflict)
		require.Equal(t, []string{"expired"}, f.notifier.kinds())
	})

	t.Run("cancel authorization", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		holder := f.user(t, "h@x.io", model.RoleStudent)
		owner := f.user(t, "o@x.io", model.RoleStudent)
		staff := f.user(t, "s@x.io", model.RoleStaff)
		admin := f.user(t, "a@x.io", model.RoleAdmin)
		book := f.book(t, "A", 1)
		_, err := f.svc.CreateLoan(ctx, holder, model.CreateLoanRequest{BookID: book.ID})
		require.NoError(t, err)
		rsv, err := f.svc.CreateReservation(ctx, owner, model.CreateReservationRequest{BookID: book.ID})
		require.NoError(t, err)

		_, err = f.svc.CancelReservation(ctx, staff, rsv.ID)
		require.ErrorIs(t, err, errs.ErrForbidden)
		_, err = f.svc.CancelReservation(ctx, holder, rsv.ID)
		require.ErrorIs(t, err, errs.ErrForbidden)

		cancelled, err := f.svc.CancelReservation(ctx, admin, rsv.ID)
		require.NoError(t, err)
		require.Equal(t, model.ReservationStatusCancelled, cancelled.Status)

		_, err = f.svc.CancelReservation(ctx, owner, rsv.ID)
		require.ErrorIs(t, err, errs.ErrConflict)
		_, err = f.svc.CancelReservation(ctx, owner, 999)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("book available", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		member := f.user(t, "m@x.io", model.RoleStudent)
		book := f.book(t, "A", 1)
		_, err := f.svc.CreateReservation(ctx, member, model.CreateReservationRequest{BookID: book.ID})
		require.ErrorIs(t, err, errs.ErrConflict)
		_, err = f.svc.CreateReservation(ctx, member, model.CreateReservationRequest{BookID: 999})
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_Catalog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "a@x.io", model.RoleStudent)
	b := f.user(t, "b@x.io", model.RoleStudent)
	book := f.book(t, "1", 2)

	_, err := f.svc.CreateBook(ctx, model.CreateBookRequest{Title: "Dup", Author: "A", ISBN: "1", TotalCopies: 1})
	require.ErrorIs(t, err, errs.ErrConflict)

	zero := 0
	_, err = f.svc.UpdateBook(ctx, book.ID, model.UpdateBookRequest{TotalCopies: &zero})
	require.ErrorIs(t, err, errs.ErrValidation)
	got, err := f.svc.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.TotalCopies)
	require.Equal(t, 2, got.AvailableCopies)

	loanA, err := f.svc.CreateLoan(ctx, a, model.CreateLoanRequest{BookID: book.ID})
	require.NoError(t, err)
	loanB, err := f.svc.CreateLoan(ctx, b, model.CreateLoanRequest{BookID: book.ID})
	require.NoError(t, err)

	one := 1
	_, err = f.svc.UpdateBook(ctx, book.ID, model.UpdateBookRequest{TotalCopies: &one})
	require.ErrorIs(t, err, errs.ErrConflict)

	five := 5
	updated, err := f.svc.UpdateBook(ctx, book.ID, model.UpdateBookRequest{TotalCopies: &five})
	require.NoError(t, err)
	require.Equal(t, 5, updated.TotalCopies)
	require.Equal(t, 3, updated.AvailableCopies)

	require.ErrorIs(t, f.svc.DeleteBook(ctx, book.ID), errs.ErrConflict)
	_, err = f.svc.ReturnLoan(ctx, a, loanA.ID)
	require.NoError(t, err)
	_, err = f.svc.ReturnLoan(ctx, b, loanB.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteBook(ctx, book.ID))

	_, err = f.svc.GetBook(ctx, book.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestService_DashboardStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "a@x.io", model.RoleStudent)
	b := f.user(t, "b@x.io", model.RoleStudent)
	one := f.book(t, "1", 1)
	f.book(t, "2", 3)

	_, err := f.svc.CreateLoan(ctx, a, model.CreateLoanRequest{BookID: one.ID})
	require.NoError(t, err)
	_, err = f.svc.CreateReservation(ctx, b, model.CreateReservationRequest{BookID: one.ID})
	require.NoError(t, err)
	f.clock.advanceDays(20)
	_, err = f.svc.SweepOverdue(ctx)
	require.NoError(t, err)

	stats, err := f.svc.DashboardStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.TotalBooks)
	require.Equal(t, int64(4), stats.TotalCopies)
	require.Equal(t, int64(3), stats.AvailableCopies)
	require.Equal(t, int64(2), stats.Users)
	require.Equal(t, int64(1), stats.ActiveLoans)
	require.Equal(t, int64(1), stats.OverdueLoans)
	require.Equal(t, int64(1), stats.PendingReservations)
}
