package handler

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	CreateLoan(ctx context.Context, caller model.Caller, req model.CreateLoanRequest) (model.Loan, error)
	GetLoan(ctx context.Context, caller model.Caller, id int64) (model.Loan, error)
	ReturnLoan(ctx context.Context, caller model.Caller, id int64) (model.Loan, error)
	SweepOverdue(ctx context.Context) ([]model.Loan, error)
	ListActiveLoans(ctx context.Context, caller model.Caller, userID int64) ([]model.Loan, error)
	SetFine(ctx context.Context, id int64, amount decimal.Decimal) (model.Loan, error)
	PayFine(ctx context.Context, id int64) (model.Loan, error)

	CreateReservation(ctx context.Context, caller model.Caller, req model.CreateReservationRequest) (model.Reservation, error)
	CancelReservation(ctx context.Context, caller model.Caller, id int64) (model.Reservation, error)
	SweepExpired(ctx context.Context) ([]model.Reservation, error)
	ListActiveReservations(ctx context.Context, caller model.Caller, userID int64) ([]model.Reservation, error)

	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error)
	UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error

	RegisterUser(ctx context.Context, req model.CreateUserRequest) (model.User, error)
	GetUser(ctx context.Context, caller model.Caller, id int64) (model.User, error)
	ListUsers(ctx context.Context, page, size int) ([]model.User, error)
	UpdateUser(ctx context.Context, id int64, req model.UpdateUserRequest) (model.User, error)

	DashboardStats(ctx context.Context) (model.DashboardStats, error)
}

var _ LibraryService = (*service.Service)(nil)
