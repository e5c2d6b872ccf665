package api

import (
	"net/http"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/entity"
	"ecommerce-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context(),
		intQuery(c, "skip", 0), intQuery(c, "limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	category, err := h.categories.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return respondError(c, err)
	}

	category := entity.Category{}
	if err := c.Bind(&category); err != nil {
		return respondError(c, apperr.Validation("invalid request payload"))
	}

	created, err := h.categories.Create(c.Request().Context(), &category)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return respondError(c, err)
	}
	id, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	category := entity.Category{}
	if err := c.Bind(&category); err != nil {
		return respondError(c, apperr.Validation("invalid request payload"))
	}
	category.ID = id

	updated, err := h.categories.Update(c.Request().Context(), &category)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return respondError(c, err)
	}
	id, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.categories.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
