package api

import (
	"net/http"

	"ecommerce-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type WishlistHandler struct {
	wishlist *service.WishlistService
}

func NewWishlistHandler(wishlist *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

func (h *WishlistHandler) ListWishlist(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	items, err := h.wishlist.List(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// AddToWishlist handles POST /wishlist/:productId.
func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	productID, err := intParam(c, "productId")
	if err != nil {
		return respondError(c, err)
	}

	items, err := h.wishlist.Add(c.Request().Context(), userID, productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, items)
}

// RemoveFromWishlist handles DELETE /wishlist/:productId.
func (h *WishlistHandler) RemoveFromWishlist(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	productID, err := intParam(c, "productId")
	if err != nil {
		return respondError(c, err)
	}

	items, err := h.wishlist.Remove(c.Request().Context(), userID, productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
