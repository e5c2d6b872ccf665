package service

import (
	"context"
	"path"
	"sync"
	"time"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/entity"
)

// world is an in-memory stand-in for the MySQL-backed repositories.
// A single mutex plays the role of the database's row locking, so the
// conditional stock decrement keeps its all-or-nothing semantics under
// concurrent callers.
type world struct {
	mu       sync.Mutex
	products map[int]*entity.Product
	carts    map[int]*entity.Cart
	orders   map[int]*entity.Order

	nextProductID int
	nextCartID    int
	nextOrderID   int
	nextItemID    int
}

func newWorld() *world {
	return &world{
		products: map[int]*entity.Product{},
		carts:    map[int]*entity.Cart{},
		orders:   map[int]*entity.Order{},
	}
}

func (w *world) addProduct(name string, price float64, stock int) *entity.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextProductID++
	p := &entity.Product{
		ID:        w.nextProductID,
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	w.products[p.ID] = p
	return cloneProduct(p)
}

func (w *world) addCart(userID int, items ...entity.CartItem) *entity.Cart {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addCartLocked(userID, items...)
}

func (w *world) addCartLocked(userID int, items ...entity.CartItem) *entity.Cart {
	w.nextCartID++
	cart := &entity.Cart{ID: w.nextCartID, UserID: userID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	for _, item := range items {
		w.nextItemID++
		item.ID = w.nextItemID
		item.CartID = cart.ID
		cart.Items = append(cart.Items, item)
	}
	w.carts[cart.ID] = cart
	return cart
}

func (w *world) stockOf(productID int) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.products[productID].Stock
}

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p
	return &cp
}

func cloneCart(c *entity.Cart, products map[int]*entity.Product) *entity.Cart {
	cp := *c
	cp.Items = make([]entity.CartItem, len(c.Items))
	for i, item := range c.Items {
		cp.Items[i] = item
		if p, ok := products[item.ProductID]; ok {
			cp.Items[i].Product = cloneProduct(p)
		}
	}
	return &cp
}

func cloneOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp
}

// fakeProductStore implements ProductStore over the world.

type fakeProductStore struct{ w *world }

func (s *fakeProductStore) GetByID(_ context.Context, id int) (*entity.Product, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	p, ok := s.w.products[id]
	if !ok {
		return nil, apperr.NotFound("product with id %d not found", id)
	}
	return cloneProduct(p), nil
}

func (s *fakeProductStore) List(_ context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	products := []*entity.Product{}
	for _, p := range s.w.products {
		if filter.MaxStock != nil && p.Stock >= *filter.MaxStock {
			continue
		}
		products = append(products, cloneProduct(p))
	}
	return products, nil
}

func (s *fakeProductStore) Create(_ context.Context, p *entity.Product) (*entity.Product, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	s.w.nextProductID++
	cp := *p
	cp.ID = s.w.nextProductID
	s.w.products[cp.ID] = &cp
	return cloneProduct(&cp), nil
}

func (s *fakeProductStore) Update(_ context.Context, p *entity.Product) (*entity.Product, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if _, ok := s.w.products[p.ID]; !ok {
		return nil, apperr.NotFound("product with id %d not found", p.ID)
	}
	cp := *p
	s.w.products[p.ID] = &cp
	return cloneProduct(&cp), nil
}

func (s *fakeProductStore) Delete(_ context.Context, id int) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if _, ok := s.w.products[id]; !ok {
		return apperr.NotFound("product with id %d not found", id)
	}
	delete(s.w.products, id)
	return nil
}

// fakeCartStore implements CartStore over the world.

type fakeCartStore struct{ w *world }

func (s *fakeCartStore) cartByUserLocked(userID int) *entity.Cart {
	for _, cart := range s.w.carts {
		if cart.UserID == userID {
			return cart
		}
	}
	return nil
}

func (s *fakeCartStore) GetByUserID(_ context.Context, userID int) (*entity.Cart, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	cart := s.cartByUserLocked(userID)
	if cart == nil {
		return nil, apperr.NotFound("cart not found for user %d", userID)
	}
	return cloneCart(cart, s.w.products), nil
}

func (s *fakeCartStore) Create(_ context.Context, userID int) (*entity.Cart, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if cart := s.cartByUserLocked(userID); cart != nil {
		return cloneCart(cart, s.w.products), nil
	}
	return cloneCart(s.w.addCartLocked(userID), s.w.products), nil
}

func (s *fakeCartStore) CreateItem(_ context.Context, cartID, productID, quantity int) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	cart, ok := s.w.carts[cartID]
	if !ok {
		return apperr.NotFound("cart %d not found", cartID)
	}
	s.w.nextItemID++
	cart.Items = append(cart.Items, entity.CartItem{
		ID: s.w.nextItemID, CartID: cartID, ProductID: productID, Quantity: quantity, AddedAt: time.Now(),
	})
	return nil
}

func (s *fakeCartStore) UpdateItemQuantity(_ context.Context, cartID, productID, quantity int) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	cart, ok := s.w.carts[cartID]
	if !ok {
		return apperr.NotFound("cart %d not found", cartID)
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return apperr.NotFound("product %d not found in cart", productID)
}

func (s *fakeCartStore) DeleteItem(_ context.Context, cartID, productID int) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	cart, ok := s.w.carts[cartID]
	if !ok {
		return apperr.NotFound("cart %d not found", cartID)
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("product %d not found in cart", productID)
}

func (s *fakeCartStore) Clear(_ context.Context, cartID int) (int, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	cart, ok := s.w.carts[cartID]
	if !ok {
		return 0, apperr.NotFound("cart %d not found", cartID)
	}
	removed := len(cart.Items)
	cart.Items = nil
	return removed, nil
}

// fakeOrderStore implements OrderStore with the same atomic semantics
// the SQL repository gets from its transaction: stock checks and
// decrements happen under one lock, all-or-nothing.

type fakeOrderStore struct{ w *world }

func (s *fakeOrderStore) CreateFromCart(_ context.Context, cart *entity.Cart, info entity.CustomerInfo) (*entity.Order, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	for _, item := range cart.Items {
		p, ok := s.w.products[item.ProductID]
		if !ok {
			return nil, apperr.NotFound("product with id %d not found", item.ProductID)
		}
		if p.Stock < item.Quantity {
			return nil, &apperr.StockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   item.Quantity,
			}
		}
	}

	s.w.nextOrderID++
	order := &entity.Order{
		ID:              s.w.nextOrderID,
		UserID:          cart.UserID,
		Status:          entity.StatusPending,
		CustomerName:    info.Name,
		CustomerEmail:   info.Email,
		CustomerPhone:   info.Phone,
		ShippingAddress: info.ShippingAddress,
		Notes:           info.Notes,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	total := 0.0
	for _, item := range cart.Items {
		p := s.w.products[item.ProductID]
		p.Stock -= item.Quantity
		subtotal := entity.Round2(float64(item.Quantity) * p.Price)
		total += subtotal
		s.w.nextItemID++
		order.Items = append(order.Items, entity.OrderItem{
			ID: s.w.nextItemID, OrderID: order.ID, ProductID: p.ID,
			Quantity: item.Quantity, UnitPrice: p.Price, Subtotal: subtotal,
		})
	}
	order.TotalAmount = entity.Round2(total)
	s.w.orders[order.ID] = order

	if stored, ok := s.w.carts[cart.ID]; ok {
		stored.Items = nil
	}
	return cloneOrder(order), nil
}

func (s *fakeOrderStore) GetWithItems(_ context.Context, id int) (*entity.Order, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	order, ok := s.w.orders[id]
	if !ok {
		return nil, apperr.NotFound("order with id %d not found", id)
	}
	return cloneOrder(order), nil
}

func (s *fakeOrderStore) ListByUser(_ context.Context, userID, _, _ int) ([]*entity.Order, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	orders := []*entity.Order{}
	for _, order := range s.w.orders {
		if order.UserID == userID {
			orders = append(orders, cloneOrder(order))
		}
	}
	return orders, nil
}

func (s *fakeOrderStore) ListByStatus(_ context.Context, status entity.OrderStatus, _, _ int) ([]*entity.Order, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	orders := []*entity.Order{}
	for _, order := range s.w.orders {
		if order.Status == status {
			orders = append(orders, cloneOrder(order))
		}
	}
	return orders, nil
}

func (s *fakeOrderStore) ListAll(_ context.Context, _, _ int) ([]*entity.Order, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	orders := []*entity.Order{}
	for _, order := range s.w.orders {
		orders = append(orders, cloneOrder(order))
	}
	return orders, nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, id int, from, to entity.OrderStatus) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	order, ok := s.w.orders[id]
	if !ok {
		return apperr.NotFound("order with id %d not found", id)
	}
	if order.Status != from {
		return apperr.InvalidState("order %d is no longer in status '%s'", id, from)
	}
	order.Status = to
	return nil
}

func (s *fakeOrderStore) Cancel(_ context.Context, id int) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	order, ok := s.w.orders[id]
	if !ok {
		return apperr.NotFound("order with id %d not found", id)
	}
	if !order.Status.Cancellable() {
		return apperr.InvalidState("order %d can no longer be cancelled", id)
	}
	order.Status = entity.StatusCancelled
	for _, item := range order.Items {
		if p, ok := s.w.products[item.ProductID]; ok {
			p.Stock += item.Quantity
		}
	}
	return nil
}

func (s *fakeOrderStore) UpdateCustomerInfo(_ context.Context, id int, info entity.CustomerInfo) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	order, ok := s.w.orders[id]
	if !ok {
		return apperr.NotFound("order with id %d not found", id)
	}
	order.CustomerName = info.Name
	order.CustomerEmail = info.Email
	order.CustomerPhone = info.Phone
	order.ShippingAddress = info.ShippingAddress
	order.Notes = info.Notes
	return nil
}

// fakeCache implements cache.Client in memory and records deletions so
// tests can assert invalidation fired.

type fakeCache struct {
	mu              sync.Mutex
	entries         map[string]string
	deletedKeys     []string
	deletedPatterns []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	return value, ok
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
		c.deletedKeys = append(c.deletedKeys, key)
	}
}

func (c *fakeCache) DeletePattern(_ context.Context, pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletedPatterns = append(c.deletedPatterns, pattern)
	deleted := 0
	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
			deleted++
		}
	}
	return deleted
}

func (c *fakeCache) Close() error { return nil }

// fakeEvents records published order events.

type fakeEvents struct {
	mu     sync.Mutex
	events []string
}

func (e *fakeEvents) PublishOrderEvent(_ context.Context, eventType string, _ *entity.Order) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, eventType)
}
