package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/model"
)

// CreateReservation godoc
// @Summary  Reserve a book that has no free copy
// @Tags     reservations
// @Accept   json
// @Produce  json
// @Param    request body model.CreateReservationRequest true "reservation"
// @Success  201 {object} model.ReservationResponse
// @Router   /api/v1/reservations [post]
func (h *Handler) CreateReservation(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	var req model.CreateReservationRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	rsv, err := h.librarySvc.CreateReservation(c.Request().Context(), cl, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, model.ReservationResponse{Reservation: rsv})
}

func (h *Handler) CancelReservation(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	rsv, err := h.librarySvc.CancelReservation(c.Request().Context(), cl, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.ReservationResponse{Reservation: rsv})
}

func (h *Handler) CheckExpired(c echo.Context) error {
	expired, err := h.librarySvc.SweepExpired(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.ExpiredReservationsResponse{ExpiredReservations: expired})
}

func (h *Handler) GetActiveReservations(c echo.Context) error {
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
	items, err := h.librarySvc.ListActiveReservations(c.Request().Context(), cl, userID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.ActiveReservationsResponse{ActiveReservations: items})
}
