package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RoleStudent Role = "student"
)

// IsLibrarian reports whether the role may act on other members' loans.
func (r Role) IsLibrarian() bool {
	return r == RoleAdmin || r == RoleStaff
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

type LoanStatus string

const (
	LoanStatusBorrowed LoanStatus = "borrowed"
	LoanStatusReturned LoanStatus = "returned"
	LoanStatusOverdue  LoanStatus = "overdue"
)

func (s LoanStatus) IsActive() bool {
	return s == LoanStatusBorrowed || s == LoanStatusOverdue
}

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusFulfilled ReservationStatus = "fulfilled"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusExpired   ReservationStatus = "expired"
)

type Book struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	ISBN            string    `json:"isbn" db:"isbn"`
	Category        string    `json:"category" db:"category"`
	TotalCopies     int       `json:"totalCopies" db:"total_copies"`
	AvailableCopies int       `json:"availableCopies" db:"available_copies"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

type User struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Email     string     `json:"email" db:"email"`
	Role      Role       `json:"role" db:"role"`
	Status    UserStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

type Loan struct {
	ID         int64           `json:"id" db:"id"`
	UserID     int64           `json:"userId" db:"user_id"`
	BookID     int64           `json:"bookId" db:"book_id"`
	BorrowDate time.Time       `json:"borrowDate" db:"borrow_date"`
	DueDate    time.Time       `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time      `json:"returnDate" db:"return_date"`
	Status     LoanStatus      `json:"status" db:"status"`
	FineAmount decimal.Decimal `json:"fineAmount" db:"fine_amount"`
	FinePaid   bool            `json:"finePaid" db:"fine_paid"`
}

type Reservation struct {
	ID              int64             `json:"id" db:"id"`
	UserID          int64             `json:"userId" db:"user_id"`
	BookID          int64             `json:"bookId" db:"book_id"`
	ReservationDate time.Time         `json:"reservationDate" db:"reservation_date"`
	ExpiryDate      time.Time         `json:"expiryDate" db:"expiry_date"`
	Status          ReservationStatus `json:"status" db:"status"`
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type BookFilter struct {
	Title         string
	Author        string
	Category      string
	OnlyAvailable bool
	Page          int
	Size          int
}

type DashboardStats struct {
	TotalBooks          int64           `json:"totalBooks"`
	TotalCopies         int64           `json:"totalCopies"`
	AvailableCopies     int64           `json:"availableCopies"`
	Users               int64           `json:"users"`
	ActiveLoans         int64           `json:"activeLoans"`
	OverdueLoans        int64           `json:"overdueLoans"`
	PendingReservations int64           `json:"pendingReservations"`
	OutstandingFines    decimal.Decimal `json:"outstandingFines"`
}

// Caller is the authenticated member a request acts for.
type Caller struct {
	UserID int64
	Role   Role
}

// CanActFor reports whether the caller may act on resources owned by userID.
func (c Caller) CanActFor(userID int64) bool {
	return c.UserID == userID || c.Role.IsLibrarian()
}
