package model

import "github.com/shopspring/decimal"

type CreateLoanRequest struct {
	BookID int64 `json:"bookId" validate:"required,gt=0"`
	// UserID defaults to the caller when zero.
	UserID int64 `json:"userId" validate:"gte=0"`
}

type CreateReservationRequest struct {
	BookID int64 `json:"bookId" validate:"required,gt=0"`
	UserID int64 `json:"userId" validate:"gte=0"`
}

type SetFineRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

type CreateBookRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Author      string `json:"author" validate:"required,max=255"`
	ISBN        string `json:"isbn" validate:"required,max=32"`
	Category    string `json:"category" validate:"max=128"`
	TotalCopies int    `json:"totalCopies" validate:"required,gte=1"`
}

type UpdateBookRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Author      *string `json:"author" validate:"omitempty,min=1,max=255"`
	ISBN        *string `json:"isbn" validate:"omitempty,min=1,max=32"`
	Category    *string `json:"category" validate:"omitempty,max=128"`
	TotalCopies *int    `json:"totalCopies" validate:"omitempty,gte=1"`
}

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}

type UpdateUserRequest struct {
	Role   *Role       `json:"role" validate:"omitempty,oneof=admin staff student"`
	Status *UserStatus `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}
