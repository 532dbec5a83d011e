package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/model"
)

// RegisterUser is public: new members start as active students.
func (h *Handler) RegisterUser(c echo.Context) error {
	var req model.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.librarySvc.RegisterUser(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, model.UserResponse{User: user})
}

func (h *Handler) GetUser(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.librarySvc.GetUser(c.Request().Context(), cl, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.UserResponse{User: user})
}

func (h *Handler) ListUsers(c echo.Context) error {
	page, size, err := paging(c)
	if err != nil {
		return err
	}
	users, err := h.librarySvc.ListUsers(c.Request().Context(), page, size)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.UsersResponse{Users: users})
}

func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.UpdateUserRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	user, err := h.librarySvc.UpdateUser(c.Request().Context(), id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.UserResponse{User: user})
}

func (h *Handler) DashboardStats(c echo.Context) error {
	stats, err := h.librarySvc.DashboardStats(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
