package service

import (
	"context"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/entity"
)

// ReviewStore is the persistence contract for reviews.
type ReviewStore interface {
	GetByID(ctx context.Context, id int) (*entity.Review, error)
	ListByProduct(ctx context.Context, productID, skip, limit int) ([]*entity.Review, error)
	Summary(ctx context.Context, productID int) (*entity.ReviewSummary, error)
	Create(ctx context.Context, review *entity.Review) (*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) (*entity.Review, error)
	Delete(ctx context.Context, id int) error
}

type ReviewService struct {
	reviews  ReviewStore
	products ProductStore
}

func NewReviewService(reviews ReviewStore, products ProductStore) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

// ProductReviews bundles a product's reviews with their aggregate.
type ProductReviews struct {
	Summary *entity.ReviewSummary `json:"summary"`
	Reviews []*entity.Review      `json:"reviews"`
}

func (s *ReviewService) ListForProduct(ctx context.Context, productID, skip, limit int) (*ProductReviews, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	skip, limit = normalizePage(skip, limit)

	reviews, err := s.reviews.ListByProduct(ctx, productID, skip, limit)
	if err != nil {
		return nil, err
	}
	summary, err := s.reviews.Summary(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductReviews{Summary: summary, Reviews: reviews}, nil
}

func (s *ReviewService) Create(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	if review.Rating < 1 || review.Rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}
	if _, err := s.products.GetByID(ctx, review.ProductID); err != nil {
		return nil, err
	}
	return s.reviews.Create(ctx, review)
}

// Update modifies a review; only its author (or an admin) may.
func (s *ReviewService) Update(ctx context.Context, reviewID, userID int, isAdmin bool, rating int, title, comment string) (*entity.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && review.UserID != userID {
		return nil, apperr.Forbidden("you do not have permission to modify this review")
	}
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	review.Rating = rating
	review.Title = title
	review.Comment = comment
	return s.reviews.Update(ctx, review)
}

func (s *ReviewService) Delete(ctx context.Context, reviewID, userID int, isAdmin bool) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !isAdmin && review.UserID != userID {
		return apperr.Forbidden("you do not have permission to delete this review")
	}
	return s.reviews.Delete(ctx, reviewID)
}
