package service

import (
	"context"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/entity"
)

// CartStore is the persistence contract for carts and their items.
type CartStore interface {
	GetByUserID(ctx context.Context, userID int) (*entity.Cart, error)
	Create(ctx context.Context, userID int) (*entity.Cart, error)
	CreateItem(ctx context.Context, cartID, productID, quantity int) error
	UpdateItemQuantity(ctx context.Context, cartID, productID, quantity int) error
	DeleteItem(ctx context.Context, cartID, productID int) error
	Clear(ctx context.Context, cartID int) (int, error)
}

// CartView is a cart plus its live totals, recomputed from current
// product prices on every response.
type CartView struct {
	*entity.Cart
	TotalItems  int     `json:"total_items"`
	TotalAmount float64 `json:"total_amount"`
}

type CartService struct {
	carts    CartStore
	products ProductStore
}

func NewCartService(carts CartStore, products ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) Get(ctx context.Context, userID int) (*CartView, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildCartView(cart), nil
}

// getOrCreate fetches the user's cart, creating it lazily on first
// use.
func (s *CartService) getOrCreate(ctx context.Context, userID int) (*entity.Cart, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}
	return s.carts.Create(ctx, userID)
}

// AddItem merges the requested quantity into an existing cart item or
// creates a new one. The stock check covers what is already in the
// cart, and the error reports both amounts.
func (s *CartService) AddItem(ctx context.Context, userID, productID, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be greater than 0")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if existing := cart.FindItem(productID); existing != nil {
		newQuantity := existing.Quantity + quantity
		if product.Stock < newQuantity {
			return nil, &apperr.StockError{
				ProductID:   productID,
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   quantity,
				InCart:      existing.Quantity,
			}
		}
		if err := s.carts.UpdateItemQuantity(ctx, cart.ID, productID, newQuantity); err != nil {
			return nil, err
		}
	} else {
		if product.Stock < quantity {
			return nil, &apperr.StockError{
				ProductID:   productID,
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   quantity,
			}
		}
		if err := s.carts.CreateItem(ctx, cart.ID, productID, quantity); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, userID)
}

// UpdateItem sets a cart item's quantity outright.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be greater than 0")
	}

	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.Stock < quantity {
		return nil, &apperr.StockError{
			ProductID:   productID,
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   quantity,
		}
	}

	if err := s.carts.UpdateItemQuantity(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID int) (*CartView, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.carts.DeleteItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// Clear empties the cart and reports how many items were removed. The
// cart row itself survives.
func (s *CartService) Clear(ctx context.Context, userID int) (int, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.carts.Clear(ctx, cart.ID)
}

func buildCartView(cart *entity.Cart) *CartView {
	return &CartView{
		Cart:        cart,
		TotalItems:  cart.TotalItems(),
		TotalAmount: cart.TotalAmount(),
	}
}
