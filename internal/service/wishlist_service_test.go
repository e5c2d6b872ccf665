package service

import (
	"context"
	"testing"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWishlistStore struct {
	w     *world
	items map[int][]int // userID -> productIDs
}

func (s *fakeWishlistStore) ListByUser(_ context.Context, userID int) ([]*entity.WishlistItem, error) {
	items := []*entity.WishlistItem{}
	for _, productID := range s.items[userID] {
		item := &entity.WishlistItem{UserID: userID, ProductID: productID}
		if p, ok := s.w.products[productID]; ok {
			item.Product = cloneProduct(p)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *fakeWishlistStore) Add(_ context.Context, userID, productID int) error {
	for _, existing := range s.items[userID] {
		if existing == productID {
			return apperr.Conflict("product %d is already in the wishlist", productID)
		}
	}
	s.items[userID] = append(s.items[userID], productID)
	return nil
}

func (s *fakeWishlistStore) Remove(_ context.Context, userID, productID int) error {
	for i, existing := range s.items[userID] {
		if existing == productID {
			s.items[userID] = append(s.items[userID][:i], s.items[userID][i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("product %d not found in wishlist", productID)
}

func TestWishlistAddListRemove(t *testing.T) {
	w := newWorld()
	svc := NewWishlistService(&fakeWishlistStore{w: w, items: map[int][]int{}}, &fakeProductStore{w})
	product := w.addProduct("Ramen", 1.20, 50)

	items, err := svc.Add(context.Background(), 1, product.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Ramen", items[0].Product.Name)

	_, err = svc.Add(context.Background(), 1, product.ID)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	_, err = svc.Add(context.Background(), 1, 999)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	items, err = svc.Remove(context.Background(), 1, product.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.Remove(context.Background(), 1, product.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
