package service

import (
	"context"

	"ecommerce-backend/internal/entity"
)

// WishlistStore is the persistence contract for wishlists.
type WishlistStore interface {
	ListByUser(ctx context.Context, userID int) ([]*entity.WishlistItem, error)
	Add(ctx context.Context, userID, productID int) error
	Remove(ctx context.Context, userID, productID int) error
}

type WishlistService struct {
	wishlist WishlistStore
	products ProductStore
}

func NewWishlistService(wishlist WishlistStore, products ProductStore) *WishlistService {
	return &WishlistService{wishlist: wishlist, products: products}
}

func (s *WishlistService) List(ctx context.Context, userID int) ([]*entity.WishlistItem, error) {
	return s.wishlist.ListByUser(ctx, userID)
}

func (s *WishlistService) Add(ctx context.Context, userID, productID int) ([]*entity.WishlistItem, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	if err := s.wishlist.Add(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.wishlist.ListByUser(ctx, userID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID int) ([]*entity.WishlistItem, error) {
	if err := s.wishlist.Remove(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.wishlist.ListByUser(ctx, userID)
}
