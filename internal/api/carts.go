package api

import (
	"net/http"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	cart, err := h.carts.Get(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /cart/items.
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	payload := struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	}{}
	if err := c.Bind(&payload); err != nil {
		return respondError(c, apperr.Validation("invalid request payload"))
	}

	cart, err := h.carts.AddItem(c.Request().Context(), userID, payload.ProductID, payload.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

// UpdateItem handles PUT /cart/items/:productId.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	productID, err := intParam(c, "productId")
	if err != nil {
		return respondError(c, err)
	}

	payload := struct {
		Quantity int `json:"quantity"`
	}{}
	if err := c.Bind(&payload); err != nil {
		return respondError(c, apperr.Validation("invalid request payload"))
	}

	cart, err := h.carts.UpdateItem(c.Request().Context(), userID, productID, payload.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /cart/items/:productId.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	productID, err := intParam(c, "productId")
	if err != nil {
		return respondError(c, err)
	}

	cart, err := h.carts.RemoveItem(c.Request().Context(), userID, productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

// ClearCart handles DELETE /cart.
func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	removed, err := h.carts.Clear(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":       "cart cleared",
		"items_removed": removed,
	})
}
