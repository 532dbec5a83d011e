package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

func (s *Service) CreateLoan(ctx context.Context, caller model.Caller, req model.CreateLoanRequest) (model.Loan, error) {
	userID := req.UserID
	if userID == 0 {
		userID = caller.UserID
	}
	if !caller.CanActFor(userID) {
		return model.Loan{}, errs.Forbidden("students may only borrow for themselves")
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return model.Loan{}, err
	}
	if user.Status != model.UserStatusActive {
		return model.Loan{}, errs.Conflict("user %d is %s", user.ID, user.Status)
	}

	now := s.clock.Now()
	loan, err := s.repo.CreateLoan(ctx, model.Loan{
		UserID:     user.ID,
		BookID:     req.BookID,
		BorrowDate: now,
		DueDate:    now.Add(loanPeriod(user.Role)),
	})
	if err != nil {
		return model.Loan{}, err
	}
	s.books.Invalidate(ctx, loan.BookID)
	s.log.Info("loan created", zap.Int64("loan_id", loan.ID), zap.Int64("user_id", loan.UserID), zap.Int64("book_id", loan.BookID))
	return loan, nil
}

func (s *Service) GetLoan(ctx context.Context, caller model.Caller, id int64) (model.Loan, error) {
	loan, err := s.repo.GetLoan(ctx, id)
	if err != nil {
		return model.Loan{}, err
	}
	if !caller.CanActFor(loan.UserID) {
		return model.Loan{}, errs.Forbidden("loan %d belongs to another member", id)
	}
	return loan, nil
}

// ReturnLoan gives the copy back and then offers it to the oldest pending reservation.
// Fulfillment and notification failures do not undo the return.
func (s *Service) ReturnLoan(ctx context.Context, caller model.Caller, id int64) (model.Loan, error) {
	loan, err := s.GetLoan(ctx, caller, id)
	if err != nil {
		return model.Loan{}, err
	}
	loan, err = s.repo.ReturnLoan(ctx, id, s.clock.Now())
	if err != nil {
		return model.Loan{}, err
	}
	s.books.Invalidate(ctx, loan.BookID)

	if _, _, err = s.FulfillOldestPending(ctx, loan.BookID); err != nil {
		s.log.Error("FulfillOldestPending", zap.Int64("book_id", loan.BookID), zap.Error(err))
	}
	if user, book, ok := s.recipient(ctx, loan.UserID, loan.BookID); ok {
		s.notifier.NotifyLoanReturned(ctx, user, book, *loan.ReturnDate)
	}
	return loan, nil
}

func (s *Service) SweepOverdue(ctx context.Context) ([]model.Loan, error) {
	moved, err := s.repo.MarkOverdue(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	for _, loan := range moved {
		if user, book, ok := s.recipient(ctx, loan.UserID, loan.BookID); ok {
			s.notifier.NotifyOverdue(ctx, user, book, loan.DueDate)
		}
	}
	if len(moved) > 0 {
		s.log.Info("overdue sweep", zap.Int("moved", len(moved)))
	}
	return moved, nil
}

func (s *Service) ListActiveLoans(ctx context.Context, caller model.Caller, userID int64) ([]model.Loan, error) {
	if !caller.CanActFor(userID) {
		return nil, errs.Forbidden("loans of member %d are not visible", userID)
	}
	return s.repo.ListActiveLoans(ctx, userID)
}

func (s *Service) SetFine(ctx context.Context, id int64, amount decimal.Decimal) (model.Loan, error) {
	if amount.IsNegative() {
		return model.Loan{}, errs.Validation("fine amount must not be negative")
	}
	return s.repo.SetFine(ctx, id, amount.Round(2))
}

func (s *Service) PayFine(ctx context.Context, id int64) (model.Loan, error) {
	return s.repo.PayFine(ctx, id)
}
