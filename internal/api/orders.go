package api

import (
	"net/http"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/entity"
	"ecommerce-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrder handles POST /orders: the authenticated user's cart is
// converted into a pending order.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	info := entity.CustomerInfo{}
	if err := c.Bind(&info); err != nil {
		return respondError(c, apperr.Validation("invalid request payload"))
	}

	order, err := h.orders.CreateFromCart(c.Request().Context(), userID, info)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// ListOrders handles GET /orders: the caller's own orders.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	orders, err := h.orders.ListMine(c.Request().Context(), userID,
		intQuery(c, "skip", 0), intQuery(c, "limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// ListAllOrders handles GET /orders/all (admin), optionally filtered
// by ?status=.
func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	_, isAdmin, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	orders, err := h.orders.ListAllOrders(c.Request().Context(), isAdmin,
		c.QueryParam("status"), intQuery(c, "skip", 0), intQuery(c, "limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, isAdmin, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	order, err := h.orders.Get(c.Request().Context(), id, userID, isAdmin)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateOrder handles PATCH /orders/:id for customer info changes.
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	userID, isAdmin, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	info := entity.CustomerInfo{}
	if err := c.Bind(&info); err != nil {
		return respondError(c, apperr.Validation("invalid request payload"))
	}

	order, err := h.orders.UpdateCustomerInfo(c.Request().Context(), id, userID, isAdmin, info)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus handles PATCH /orders/:id/status (admin).
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	userID, isAdmin, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	payload := struct {
		Status string `json:"status"`
	}{}
	if err := c.Bind(&payload); err != nil {
		return respondError(c, apperr.Validation("invalid request payload"))
	}

	order, err := h.orders.UpdateStatus(c.Request().Context(), id, userID, isAdmin, payload.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// CancelOrder handles POST /orders/:id/cancel.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	userID, isAdmin, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	order, err := h.orders.Cancel(c.Request().Context(), id, userID, isAdmin)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
