package api

import (
	"net/http"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/entity"
	"ecommerce-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// ListProductReviews handles GET /products/:id/reviews.
func (h *ReviewHandler) ListProductReviews(c echo.Context) error {
	productID, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	reviews, err := h.reviews.ListForProduct(c.Request().Context(), productID,
		intQuery(c, "skip", 0), intQuery(c, "limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}

// CreateReview handles POST /products/:id/reviews.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	productID, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	payload := struct {
		Rating  int    `json:"rating"`
		Title   string `json:"title"`
		Comment string `json:"comment"`
	}{}
	if err := c.Bind(&payload); err != nil {
		return respondError(c, apperr.Validation("invalid request payload"))
	}

	review, err := h.reviews.Create(c.Request().Context(), &entity.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    payload.Rating,
		Title:     payload.Title,
		Comment:   payload.Comment,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, review)
}

// UpdateReview handles PUT /reviews/:id.
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	userID, isAdmin, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	payload := struct {
		Rating  int    `json:"rating"`
		Title   string `json:"title"`
		Comment string `json:"comment"`
	}{}
	if err := c.Bind(&payload); err != nil {
		return respondError(c, apperr.Validation("invalid request payload"))
	}

	review, err := h.reviews.Update(c.Request().Context(), id, userID, isAdmin,
		payload.Rating, payload.Title, payload.Comment)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, review)
}

// DeleteReview handles DELETE /reviews/:id.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	userID, isAdmin, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.reviews.Delete(c.Request().Context(), id, userID, isAdmin); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
