package service

import (
	"context"
	"testing"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewStore struct {
	reviews map[int]*entity.Review
	nextID  int
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: map[int]*entity.Review{}}
}

func (s *fakeReviewStore) GetByID(_ context.Context, id int) (*entity.Review, error) {
	r, ok := s.reviews[id]
	if !ok {
		return nil, apperr.NotFound("review with id %d not found", id)
	}
	cp := *r
	return &cp, nil
}

func (s *fakeReviewStore) ListByProduct(_ context.Context, productID, _, _ int) ([]*entity.Review, error) {
	reviews := []*entity.Review{}
	for _, r := range s.reviews {
		if r.ProductID == productID {
			cp := *r
			reviews = append(reviews, &cp)
		}
	}
	return reviews, nil
}

func (s *fakeReviewStore) Summary(_ context.Context, productID int) (*entity.ReviewSummary, error) {
	summary := &entity.ReviewSummary{ProductID: productID}
	total := 0
	for _, r := range s.reviews {
		if r.ProductID == productID {
			summary.ReviewCount++
			total += r.Rating
		}
	}
	if summary.ReviewCount > 0 {
		summary.AverageRating = entity.Round2(float64(total) / float64(summary.ReviewCount))
	}
	return summary, nil
}

func (s *fakeReviewStore) Create(_ context.Context, review *entity.Review) (*entity.Review, error) {
	for _, r := range s.reviews {
		if r.UserID == review.UserID && r.ProductID == review.ProductID {
			return nil, apperr.Conflict("user %d already reviewed product %d", review.UserID, review.ProductID)
		}
	}
	s.nextID++
	cp := *review
	cp.ID = s.nextID
	s.reviews[cp.ID] = &cp
	return &cp, nil
}

func (s *fakeReviewStore) Update(_ context.Context, review *entity.Review) (*entity.Review, error) {
	if _, ok := s.reviews[review.ID]; !ok {
		return nil, apperr.NotFound("review with id %d not found", review.ID)
	}
	cp := *review
	s.reviews[review.ID] = &cp
	return &cp, nil
}

func (s *fakeReviewStore) Delete(_ context.Context, id int) error {
	if _, ok := s.reviews[id]; !ok {
		return apperr.NotFound("review with id %d not found", id)
	}
	delete(s.reviews, id)
	return nil
}

func newReviewFixture() (*world, *ReviewService, *fakeReviewStore) {
	w := newWorld()
	store := newFakeReviewStore()
	return w, NewReviewService(store, &fakeProductStore{w}), store
}

func TestCreateReview(t *testing.T) {
	w, svc, _ := newReviewFixture()
	product := w.addProduct("Ramen", 1.20, 50)

	created, err := svc.Create(context.Background(), &entity.Review{
		ProductID: product.ID, UserID: 1, Rating: 4, Title: "Good",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = svc.Create(context.Background(), &entity.Review{ProductID: product.ID, UserID: 1, Rating: 6})
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = svc.Create(context.Background(), &entity.Review{ProductID: 999, UserID: 1, Rating: 4})
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	_, err = svc.Create(context.Background(), &entity.Review{ProductID: product.ID, UserID: 1, Rating: 3})
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err), "one review per user per product")
}

func TestListForProductAggregates(t *testing.T) {
	w, svc, _ := newReviewFixture()
	product := w.addProduct("Ramen", 1.20, 50)

	for userID, rating := range map[int]int{1: 5, 2: 4, 3: 3} {
		_, err := svc.Create(context.Background(), &entity.Review{
			ProductID: product.ID, UserID: userID, Rating: rating,
		})
		require.NoError(t, err)
	}

	result, err := svc.ListForProduct(context.Background(), product.ID, 0, 100)
	require.NoError(t, err)
	assert.Len(t, result.Reviews, 3)
	assert.Equal(t, 3, result.Summary.ReviewCount)
	assert.Equal(t, 4.0, result.Summary.AverageRating)
}

func TestReviewUpdateAndDeleteRequireAuthor(t *testing.T) {
	w, svc, _ := newReviewFixture()
	product := w.addProduct("Ramen", 1.20, 50)

	created, err := svc.Create(context.Background(), &entity.Review{
		ProductID: product.ID, UserID: 1, Rating: 4,
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, 2, false, 1, "", "terrible")
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	updated, err := svc.Update(context.Background(), created.ID, 1, false, 5, "Great", "even better")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	err = svc.Delete(context.Background(), created.ID, 2, false)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	err = svc.Delete(context.Background(), created.ID, 2, true)
	assert.NoError(t, err, "admins may delete any review")
}
