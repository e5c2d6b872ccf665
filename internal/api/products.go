package api

import (
	"net/http"
	"strconv"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/entity"
	"ecommerce-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListProducts handles GET /products with optional category filter and
// pagination.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	filter := entity.ProductFilter{
		Skip:  intQuery(c, "skip", 0),
		Limit: intQuery(c, "limit", 100),
	}
	if raw := c.QueryParam("category_id"); raw != "" {
		categoryID, err := strconv.Atoi(raw)
		if err != nil {
			return respondError(c, apperr.Validation("invalid category_id"))
		}
		filter.CategoryID = &categoryID
	}

	products, err := h.products.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// SearchProducts handles GET /products/search?name=
func (h *ProductHandler) SearchProducts(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return respondError(c, apperr.Validation("name query parameter is required"))
	}

	products, err := h.products.List(c.Request().Context(), entity.ProductFilter{
		Name:  name,
		Skip:  intQuery(c, "skip", 0),
		Limit: intQuery(c, "limit", 100),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// LowStockProducts handles GET /products/low-stock?threshold=
func (h *ProductHandler) LowStockProducts(c echo.Context) error {
	threshold := intQuery(c, "threshold", 10)
	products, err := h.products.List(c.Request().Context(), entity.ProductFilter{
		MaxStock: &threshold,
		Limit:    100,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	product, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return respondError(c, err)
	}

	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return respondError(c, apperr.Validation("invalid request payload"))
	}

	created, err := h.products.Create(c.Request().Context(), &product)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return respondError(c, err)
	}
	id, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return respondError(c, apperr.Validation("invalid request payload"))
	}
	product.ID = id

	updated, err := h.products.Update(c.Request().Context(), &product)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return respondError(c, err)
	}
	id, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func requireAdmin(c echo.Context) error {
	_, isAdmin, err := currentUser(c)
	if err != nil {
		return err
	}
	if !isAdmin {
		return apperr.Forbidden("admin role required")
	}
	return nil
}
