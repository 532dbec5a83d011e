package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/jsonx"
	md "github.com/Astemirdum/library-management/pkg/middleware"
	"github.com/Astemirdum/library-management/pkg/validate"
	_ "github.com/Astemirdum/library-management/swagger"
)

const internalErrorMessage = "internal server error"

type Handler struct {
	librarySvc LibraryService
	log        *zap.Logger

	jwtSecret  []byte
	production bool
}

type Option func(h *Handler)

func WithJWTSecret(secret string) Option {
	return func(h *Handler) {
		h.jwtSecret = []byte(secret)
	}
}

// WithProduction hides the details of unexpected errors from responses.
func WithProduction(production bool) Option {
	return func(h *Handler) {
		h.production = production
	}
}

func New(librarySvc LibraryService, log *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		librarySvc: librarySvc,
		log:        log.Named("handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HideBanner = true
	e.JSONSerializer = jsonx.Serializer{}
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		md.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	api.POST("/users", h.RegisterUser)

	api = api.Group("", md.JwtAuthentication(h.jwtSecret))
	librarian := md.RequireRole(string(model.RoleAdmin), string(model.RoleStaff))
	admin := md.RequireRole(string(model.RoleAdmin))

	api.POST("/loans", h.CreateLoan)
	api.GET("/loans/check-overdue", h.CheckOverdue, librarian)
	api.GET("/loans/user", h.GetActiveLoans)
	api.GET("/loans/user/:userId", h.GetActiveLoans)
	api.GET("/loans/:id", h.GetLoan)
	api.PUT("/loans/:id/return", h.ReturnLoan)
	api.PUT("/loans/:id/fine", h.SetFine, librarian)
	api.PUT("/loans/:id/fine/pay", h.PayFine, librarian)

	api.POST("/reservations", h.CreateReservation)
	api.GET("/reservations/check-expired", h.CheckExpired, librarian)
	api.GET("/reservations/user", h.GetActiveReservations)
	api.GET("/reservations/user/:userId", h.GetActiveReservations)
	api.PUT("/reservations/:id/cancel", h.CancelReservation)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)
	api.POST("/books", h.CreateBook, librarian)
	api.PUT("/books/:id", h.UpdateBook, librarian)
	api.DELETE("/books/:id", h.DeleteBook, librarian)

	api.GET("/users", h.ListUsers, librarian)
	api.GET("/users/:id", h.GetUser)
	api.PATCH("/users/:id", h.UpdateUser, admin)

	api.GET("/dashboard/stats", h.DashboardStats, librarian)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the errs taxonomy onto response codes.
func (h *Handler) httpError(err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.log.Error("unexpected", zap.Error(err))
	if h.production {
		return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func caller(c echo.Context) (model.Caller, error) {
	id, ok := md.GetIdentity(c.Request().Context())
	if !ok {
		return model.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return model.Caller{UserID: id.UserID, Role: model.Role(id.Role)}, nil
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is invalid")
	}
	return id, nil
}

// bind decodes and validates the request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func paging(c echo.Context) (page, size int, err error) {
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil || page < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil || size < 0 || size > 100 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "size is invalid")
		}
	}
	return page, size, nil
}
