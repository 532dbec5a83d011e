package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

// memoryRepository keeps every table in maps guarded by one mutex.
// It honours the same contract as the postgres repository and backs tests and STORAGE=memory runs.
type memoryRepository struct {
	mu sync.Mutex

	seq          int64
	books        map[int64]model.Book
	users        map[int64]model.User
	loans        map[int64]model.Loan
	reservations map[int64]model.Reservation
}

func NewMemoryRepository() *memoryRepository {
	return &memoryRepository{
		books:        make(map[int64]model.Book),
		users:        make(map[int64]model.User),
		loans:        make(map[int64]model.Loan),
		reservations: make(map[int64]model.Reservation),
	}
}

var _ Repository = (*memoryRepository)(nil)

func (m *memoryRepository) nextID() int64 {
	m.seq++
	return m.seq
}

func (m *memoryRepository) CreateBook(_ context.Context, book model.Book) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.books {
		if b.ISBN == book.ISBN {
			return model.Book{}, errs.Conflict("%s", constraintMessages["books_isbn_key"])
		}
	}
	book.ID = m.nextID()
	m.books[book.ID] = book
	return book, nil
}

func (m *memoryRepository) GetBook(_ context.Context, id int64) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return model.Book{}, bookNotFound(id)
	}
	return book, nil
}

func (m *memoryRepository) ListBooks(_ context.Context, filter model.BookFilter) (model.ListBooks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]model.Book, 0, len(m.books))
	for _, b := range m.books {
		if filter.Title != "" && !containsFold(b.Title, filter.Title) {
			continue
		}
		if filter.Author != "" && !containsFold(b.Author, filter.Author) {
			continue
		}
		if filter.Category != "" && b.Category != filter.Category {
			continue
		}
		if filter.OnlyAvailable && b.AvailableCopies == 0 {
			continue
		}
		items = append(items, b)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Title != items[j].Title {
			return items[i].Title < items[j].Title
		}
		return items[i].ID < items[j].ID
	})
	items = page(items, filter.Page, filter.Size)
	return model.ListBooks{
		Paging: model.Paging{Page: filter.Page, PageSize: filter.Size, TotalElements: len(items)},
		Items:  items,
	}, nil
}

func (m *memoryRepository) UpdateBook(_ context.Context, id int64, req model.UpdateBookRequest, at time.Time) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return model.Book{}, bookNotFound(id)
	}
	if req.ISBN != nil && *req.ISBN != book.ISBN {
		for _, b := range m.books {
			if b.ISBN == *req.ISBN {
				return model.Book{}, errs.Conflict("%s", constraintMessages["books_isbn_key"])
			}
		}
		book.ISBN = *req.ISBN
	}
	if req.TotalCopies != nil {
		available := book.AvailableCopies + (*req.TotalCopies - book.TotalCopies)
		if available < 0 {
			return model.Book{}, errs.Conflict("total copies of book %d cannot drop below the copies on loan", id)
		}
		book.TotalCopies, book.AvailableCopies = *req.TotalCopies, available
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Category != nil {
		book.Category = *req.Category
	}
	book.UpdatedAt = at
	m.books[id] = book
	return book, nil
}

func (m *memoryRepository) DeleteBook(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return bookNotFound(id)
	}
	for _, l := range m.loans {
		if l.BookID == id && l.Status.IsActive() {
			return errs.Conflict("book %d has active loans", id)
		}
	}
	for rid, r := range m.reservations {
		if r.BookID == id && r.Status == model.ReservationStatusPending {
			r.Status = model.ReservationStatusCancelled
			m.reservations[rid] = r
		}
	}
	delete(m.books, id)
	return nil
}

func (m *memoryRepository) CreateUser(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return model.User{}, errs.Conflict("%s", constraintMessages["users_email_key"])
		}
	}
	user.ID = m.nextID()
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepository) GetUser(_ context.Context, id int64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return model.User{}, userNotFound(id)
	}
	return user, nil
}

func (m *memoryRepository) ListUsers(_ context.Context, pageNum, size int) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return page(users, pageNum, size), nil
}

func (m *memoryRepository) UpdateUser(_ context.Context, id int64, req model.UpdateUserRequest) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return model.User{}, userNotFound(id)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	m.users[id] = user
	return user, nil
}

func (m *memoryRepository) CreateLoan(_ context.Context, loan model.Loan) (model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[loan.BookID]
	if !ok {
		return model.Loan{}, bookNotFound(loan.BookID)
	}
	if book.AvailableCopies <= 0 {
		return model.Loan{}, errs.Conflict("book %d has no available copies", loan.BookID)
	}
	if _, ok = m.users[loan.UserID]; !ok {
		return model.Loan{}, errs.NotFound("referenced entity does not exist")
	}
	for _, l := range m.loans {
		if l.UserID == loan.UserID && l.BookID == loan.BookID && l.Status.IsActive() {
			return model.Loan{}, errs.Conflict("%s", constraintMessages["loans_one_active_per_user_book"])
		}
	}
	book.AvailableCopies--
	book.UpdatedAt = loan.BorrowDate
	m.books[book.ID] = book

	loan.ID = m.nextID()
	loan.Status = model.LoanStatusBorrowed
	loan.ReturnDate = nil
	loan.FineAmount = decimal.Zero
	loan.FinePaid = false
	m.loans[loan.ID] = loan
	return loan, nil
}

func (m *memoryRepository) GetLoan(_ context.Context, id int64) (model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loan, ok := m.loans[id]
	if !ok {
		return model.Loan{}, loanNotFound(id)
	}
	return loan, nil
}

func (m *memoryRepository) ReturnLoan(_ context.Context, id int64, at time.Time) (model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loan, ok := m.loans[id]
	if !ok {
		return model.Loan{}, loanNotFound(id)
	}
	if !loan.Status.IsActive() {
		return model.Loan{}, errs.Conflict("loan %d is already returned", id)
	}
	returnedAt := at
	loan.Status = model.LoanStatusReturned
	loan.ReturnDate = &returnedAt
	m.loans[id] = loan

	if book, ok := m.books[loan.BookID]; ok && book.AvailableCopies < book.TotalCopies {
		book.AvailableCopies++
		book.UpdatedAt = at
		m.books[book.ID] = book
	}
	return loan, nil
}

func (m *memoryRepository) MarkOverdue(_ context.Context, now time.Time) ([]model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	moved := make([]model.Loan, 0)
	for id, l := range m.loans {
		if l.Status == model.LoanStatusBorrowed && l.DueDate.Before(now) {
			l.Status = model.LoanStatusOverdue
			m.loans[id] = l
			moved = append(moved, l)
		}
	}
	sort.Slice(moved, func(i, j int) bool { return moved[i].ID < moved[j].ID })
	return moved, nil
}

func (m *memoryRepository) ListActiveLoans(_ context.Context, userID int64) ([]model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loans := make([]model.Loan, 0)
	for _, l := range m.loans {
		if l.UserID == userID && l.Status.IsActive() {
			loans = append(loans, l)
		}
	}
	sort.Slice(loans, func(i, j int) bool {
		if !loans[i].BorrowDate.Equal(loans[j].BorrowDate) {
			return loans[i].BorrowDate.After(loans[j].BorrowDate)
		}
		return loans[i].ID > loans[j].ID
	})
	return loans, nil
}

func (m *memoryRepository) SetFine(_ context.Context, id int64, amount decimal.Decimal) (model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loan, ok := m.loans[id]
	if !ok {
		return model.Loan{}, loanNotFound(id)
	}
	if loan.FinePaid {
		return model.Loan{}, errs.Conflict("fine of loan %d is already paid", id)
	}
	loan.FineAmount = amount
	m.loans[id] = loan
	return loan, nil
}

func (m *memoryRepository) PayFine(_ context.Context, id int64) (model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loan, ok := m.loans[id]
	if !ok {
		return model.Loan{}, loanNotFound(id)
	}
	if loan.FinePaid || !loan.FineAmount.IsPositive() {
		return model.Loan{}, errs.Conflict("loan %d has no outstanding fine", id)
	}
	loan.FinePaid = true
	m.loans[id] = loan
	return loan, nil
}

func (m *memoryRepository) CreateReservation(_ context.Context, rsv model.Reservation) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[rsv.UserID]; !ok {
		return model.Reservation{}, errs.NotFound("referenced entity does not exist")
	}
	for _, r := range m.reservations {
		if r.UserID == rsv.UserID && r.BookID == rsv.BookID && r.Status == model.ReservationStatusPending {
			return model.Reservation{}, errs.Conflict("%s", constraintMessages["reservations_one_pending_per_user_book"])
		}
	}
	rsv.ID = m.nextID()
	rsv.Status = model.ReservationStatusPending
	m.reservations[rsv.ID] = rsv
	return rsv, nil
}

func (m *memoryRepository) GetReservation(_ context.Context, id int64) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rsv, ok := m.reservations[id]
	if !ok {
		return model.Reservation{}, reservationNotFound(id)
	}
	return rsv, nil
}

func (m *memoryRepository) CancelReservation(_ context.Context, id int64) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rsv, ok := m.reservations[id]
	if !ok {
		return model.Reservation{}, reservationNotFound(id)
	}
	if rsv.Status != model.ReservationStatusPending {
		return model.Reservation{}, errs.Conflict("reservation %d is %s", id, rsv.Status)
	}
	rsv.Status = model.ReservationStatusCancelled
	m.reservations[id] = rsv
	return rsv, nil
}

func (m *memoryRepository) ExpireReservations(_ context.Context, now time.Time) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	moved := make([]model.Reservation, 0)
	for id, r := range m.reservations {
		if r.Status == model.ReservationStatusPending && r.ExpiryDate.Before(now) {
			r.Status = model.ReservationStatusExpired
			m.reservations[id] = r
			moved = append(moved, r)
		}
	}
	sort.Slice(moved, func(i, j int) bool { return moved[i].ID < moved[j].ID })
	return moved, nil
}

func (m *memoryRepository) FulfillOldestPending(_ context.Context, bookID int64) (model.Reservation, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var (
		oldest model.Reservation
		found  bool
	)
	for _, r := range m.reservations {
		if r.BookID != bookID || r.Status != model.ReservationStatusPending {
			continue
		}
		if !found || r.ReservationDate.Before(oldest.ReservationDate) ||
			(r.ReservationDate.Equal(oldest.ReservationDate) && r.ID < oldest.ID) {
			oldest, found = r, true
		}
	}
	if !found {
		return model.Reservation{}, false, nil
	}
	oldest.Status = model.ReservationStatusFulfilled
	m.reservations[oldest.ID] = oldest
	return oldest, true, nil
}

func (m *memoryRepository) ListPendingReservations(_ context.Context, userID int64) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]model.Reservation, 0)
	for _, r := range m.reservations {
		if r.UserID == userID && r.Status == model.ReservationStatusPending {
			items = append(items, r)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].ReservationDate.Equal(items[j].ReservationDate) {
			return items[i].ReservationDate.After(items[j].ReservationDate)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (m *memoryRepository) BookTotals(_ context.Context) (books, copies, available int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.books {
		books++
		copies += int64(b.TotalCopies)
		available += int64(b.AvailableCopies)
	}
	return books, copies, available, nil
}

func (m *memoryRepository) CountUsers(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memoryRepository) CountLoans(_ context.Context, status model.LoanStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, l := range m.loans {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *memoryRepository) CountReservations(_ context.Context, status model.ReservationStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.reservations {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *memoryRepository) OutstandingFines(_ context.Context) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, l := range m.loans {
		if !l.FinePaid {
			total = total.Add(l.FineAmount)
		}
	}
	return total, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func page[T any](items []T, pageNum, size int) []T {
	if pageNum <= 0 || size <= 0 {
		return items
	}
	from := (pageNum - 1) * size
	if from >= len(items) {
		return items[:0]
	}
	to := from + size
	if to > len(items) {
		to = len(items)
	}
	return items[from:to]
}
