package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/model"
)

// CreateLoan godoc
// @Summary  Borrow a book
// @Tags     loans
// @Accept   json
// @Produce  json
// @Param    request body model.CreateLoanRequest true "loan"
// @Success  201 {object} model.LoanResponse
// @Router   /api/v1/loans [post]
func (h *Handler) CreateLoan(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	var req model.CreateLoanRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	loan, err := h.librarySvc.CreateLoan(c.Request().Context(), cl, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, model.LoanResponse{Loan: loan})
}

func (h *Handler) GetLoan(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	loan, err := h.librarySvc.GetLoan(c.Request().Context(), cl, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.LoanResponse{Loan: loan})
}

// ReturnLoan godoc
// @Summary  Return a borrowed book
// @Tags     loans
// @Produce  json
// @Param    id path int true "loan id"
// @Success  200 {object} model.LoanResponse
// @Router   /api/v1/loans/{id}/return [put]
func (h *Handler) ReturnLoan(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	loan, err := h.librarySvc.ReturnLoan(c.Request().Context(), cl, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.LoanResponse{Loan: loan})
}

func (h *Handler) CheckOverdue(c echo.Context) error {
	loans, err := h.librarySvc.SweepOverdue(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.OverdueLoansResponse{OverdueLoans: loans})
}

// GetActiveLoans serves both /loans/user and /loans/user/:userId.
func (h *Handler) GetActiveLoans(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	userID := cl.UserID
	if c.Param("userId") != "" {
		if userID, err = pathID(c, "userId"); err != nil {
			return err
		}
	}
	loans, err := h.librarySvc.ListActiveLoans(c.Request().Context(), cl, userID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.ActiveLoansResponse{ActiveLoans: loans})
}

func (h *Handler) SetFine(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.SetFineRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	loan, err := h.librarySvc.SetFine(c.Request().Context(), id, *req.Amount)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.LoanResponse{Loan: loan})
}

func (h *Handler) PayFine(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	loan, err := h.librarySvc.PayFine(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.LoanResponse{Loan: loan})
}
