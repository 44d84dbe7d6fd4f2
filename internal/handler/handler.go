package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libraflow/borrowing-service/internal/errs"
	"github.com/libraflow/borrowing-service/internal/model"
	"github.com/libraflow/borrowing-service/pkg/validate"
)

type Handler struct {
	borrowingSvc BorrowingService
	log          *zap.Logger
}

func New(borrowingSvc BorrowingService, log *zap.Logger) *Handler {
	return &Handler{
		borrowingSvc: borrowingSvc,
		log:          log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(requestLoggerConfig(h.log)),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
	)

	api.POST("/items", h.CreateItem)
	api.GET("/items/:itemUid", h.GetItem)

	api.POST("/checkouts", h.CreateCheckout, userName)
	api.GET("/checkouts", h.GetCheckouts, userName)
	api.GET("/checkouts/:checkoutUid", h.GetCheckout)
	api.POST("/checkouts/:checkoutUid/complete", h.CompleteCheckout, userName)
	api.POST("/checkouts/:checkoutUid/cancel", h.CancelCheckout, userName)
	api.POST("/checkouts/:checkoutUid/return", h.ReturnCheckout, userName)

	api.GET("/borrowings", h.GetBorrowings, userName)
	api.GET("/borrowings/:borrowingUid/fine", h.GetFine)

	api.GET("/audit", h.GetAuditLog)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) CreateItem(c echo.Context) error {
	var req model.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := h.borrowingSvc.CreateItem(c.Request().Context(), req)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) GetItem(c echo.Context) error {
	itemUid := c.Param("itemUid")
	if itemUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "itemUid is empty")
	}
	item, err := h.borrowingSvc.GetItem(c.Request().Context(), itemUid)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) CreateCheckout(c echo.Context) error {
	var req model.CreateCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	name, err := getUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	req.Username = name

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	co, err := h.borrowingSvc.CreateCheckout(c.Request().Context(), req)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusCreated, co)
}

func (h *Handler) GetCheckouts(c echo.Context) error {
	name, err := getUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	items, err := h.borrowingSvc.GetCheckouts(c.Request().Context(), name)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetCheckout(c echo.Context) error {
	checkoutUid := c.Param("checkoutUid")
	if checkoutUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "checkoutUid is empty")
	}
	co, err := h.borrowingSvc.GetCheckout(c.Request().Context(), checkoutUid)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, co)
}

func (h *Handler) CompleteCheckout(c echo.Context) error {
	name, err := getUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	checkoutUid := c.Param("checkoutUid")
	if checkoutUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "checkoutUid is empty")
	}
	resp, err := h.borrowingSvc.CompleteCheckout(c.Request().Context(), name, checkoutUid)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) CancelCheckout(c echo.Context) error {
	name, err := getUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	checkoutUid := c.Param("checkoutUid")
	if checkoutUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "checkoutUid is empty")
	}
	var req model.CancelCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	co, err := h.borrowingSvc.CancelCheckout(c.Request().Context(), name, checkoutUid, req.Reason)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, co)
}

func (h *Handler) ReturnCheckout(c echo.Context) error {
	name, err := getUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	checkoutUid := c.Param("checkoutUid")
	if checkoutUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "checkoutUid is empty")
	}
	resp, err := h.borrowingSvc.ReturnCheckout(c.Request().Context(), name, checkoutUid)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetBorrowings(c echo.Context) error {
	name, err := getUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	items, err := h.borrowingSvc.GetBorrowings(c.Request().Context(), name)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetFine(c echo.Context) error {
	borrowingUid := c.Param("borrowingUid")
	if borrowingUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "borrowingUid is empty")
	}
	fine, err := h.borrowingSvc.CurrentFine(c.Request().Context(), borrowingUid)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, fine)
}

func (h *Handler) GetAuditLog(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	log, err := h.borrowingSvc.GetAuditLog(c.Request().Context(), page, size)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, log)
}

func httpErr(err error) *echo.HTTPError {
	msg := err.Error()
	switch {
	case errors.Is(err, errs.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, msg)
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, msg)
	case errors.Is(err, errs.ErrOutOfStock),
		errors.Is(err, errs.ErrInvalidStateTransition),
		errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, msg)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, msg)
	}
}
