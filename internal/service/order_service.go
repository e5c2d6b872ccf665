package service

import (
	"context"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/cache"
	"ecommerce-backend/internal/entity"
)

// OrderStore is the persistence contract for orders. CreateFromCart
// and Cancel are atomic units: stock movement, order rows and cart
// clearing commit together or not at all.
type OrderStore interface {
	CreateFromCart(ctx context.Context, cart *entity.Cart, info entity.CustomerInfo) (*entity.Order, error)
	GetWithItems(ctx context.Context, id int) (*entity.Order, error)
	ListByUser(ctx context.Context, userID, skip, limit int) ([]*entity.Order, error)
	ListByStatus(ctx context.Context, status entity.OrderStatus, skip, limit int) ([]*entity.Order, error)
	ListAll(ctx context.Context, skip, limit int) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id int, from, to entity.OrderStatus) error
	Cancel(ctx context.Context, id int) error
	UpdateCustomerInfo(ctx context.Context, id int, info entity.CustomerInfo) error
}

type OrderService struct {
	orders OrderStore
	carts  CartStore
	cache  cache.Client
	events EventPublisher
}

func NewOrderService(orders OrderStore, carts CartStore, cacheClient cache.Client, events EventPublisher) *OrderService {
	return &OrderService{
		orders: orders,
		carts:  carts,
		cache:  cacheClient,
		events: events,
	}
}

// CreateFromCart converts the user's cart into a pending order. Stock
// validation, decrement, order creation and cart clearing happen in
// one transaction in the store; this layer validates input, fires
// cache invalidation for the touched products and publishes the
// creation event after commit.
func (s *OrderService) CreateFromCart(ctx context.Context, userID int, info entity.CustomerInfo) (*entity.Order, error) {
	if err := validateCustomerInfo(info); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperr.Validation("cart is empty, cannot create an order")
	}

	order, err := s.orders.CreateFromCart(ctx, cart, info)
	if err != nil {
		logger.Error().Err(err).Int("user_id", userID).Msg("Error creating order from cart")
		return nil, err
	}

	s.invalidateAfterStockChange(ctx, order)
	s.events.PublishOrderEvent(ctx, "created", order)

	logger.Info().Int("order_id", order.ID).Int("user_id", userID).
		Float64("total", order.TotalAmount).Msg("Order created")
	return order, nil
}

// Get returns an order; non-admin callers only see their own.
func (s *OrderService) Get(ctx context.Context, orderID, userID int, isAdmin bool) (*entity.Order, error) {
	order, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		return nil, apperr.Forbidden("you do not have permission to view this order")
	}
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID, skip, limit int) ([]*entity.Order, error) {
	skip, limit = normalizePage(skip, limit)
	return s.orders.ListByUser(ctx, userID, skip, limit)
}

// ListAllOrders is admin-only; an optional status filters the result.
func (s *OrderService) ListAllOrders(ctx context.Context, isAdmin bool, status string, skip, limit int) ([]*entity.Order, error) {
	if !isAdmin {
		return nil, apperr.Forbidden("admin role required")
	}
	skip, limit = normalizePage(skip, limit)

	if status != "" {
		parsed, err := entity.ParseOrderStatus(status)
		if err != nil {
			return nil, apperr.Validation("invalid order status %q", status)
		}
		return s.orders.ListByStatus(ctx, parsed, skip, limit)
	}
	return s.orders.ListAll(ctx, skip, limit)
}

// UpdateStatus moves an order through the lifecycle state machine.
// Admin only. A transition to cancelled goes through Cancel so stock
// restoration stays atomic with the flip.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, userID int, isAdmin bool, newStatus string) (*entity.Order, error) {
	if !isAdmin {
		return nil, apperr.Forbidden("admin role required to change order status")
	}

	parsed, err := entity.ParseOrderStatus(newStatus)
	if err != nil {
		return nil, apperr.Validation("invalid order status %q", newStatus)
	}

	if parsed == entity.StatusCancelled {
		return s.Cancel(ctx, orderID, userID, isAdmin)
	}

	order, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch {
	case order.Status == entity.StatusCancelled:
		return nil, apperr.InvalidState("cannot modify a cancelled order")
	case order.Status == entity.StatusDelivered && parsed != entity.StatusDelivered:
		return nil, apperr.InvalidState("cannot change the status of a delivered order")
	case !order.Status.CanTransitionTo(parsed):
		return nil, apperr.InvalidState("cannot move order from status '%s' to '%s'", order.Status, parsed)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, order.Status, parsed); err != nil {
		return nil, err
	}

	updated, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.events.PublishOrderEvent(ctx, "status_updated", updated)
	logger.Info().Int("order_id", orderID).Str("from", string(order.Status)).
		Str("to", string(parsed)).Msg("Order status updated")
	return updated, nil
}

// UpdateCustomerInfo rewrites the shipping snapshot on an order that
// is not yet terminal. Owner or admin only.
func (s *OrderService) UpdateCustomerInfo(ctx context.Context, orderID, userID int, isAdmin bool, info entity.CustomerInfo) (*entity.Order, error) {
	order, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		return nil, apperr.Forbidden("you do not have permission to modify this order")
	}
	if order.Status == entity.StatusCancelled {
		return nil, apperr.InvalidState("cannot modify a cancelled order")
	}
	if err := validateCustomerInfo(info); err != nil {
		return nil, err
	}

	if err := s.orders.UpdateCustomerInfo(ctx, orderID, info); err != nil {
		return nil, err
	}
	return s.orders.GetWithItems(ctx, orderID)
}

// Cancel cancels an order and restores its stock. Authorization comes
// before any state check; the terminal-state checks produce explicit
// errors rather than silently succeeding on a second cancel.
func (s *OrderService) Cancel(ctx context.Context, orderID, userID int, isAdmin bool) (*entity.Order, error) {
	order, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		return nil, apperr.Forbidden("you do not have permission to cancel this order")
	}

	if order.Status == entity.StatusCancelled {
		return nil, apperr.InvalidState("order is already cancelled")
	}
	if !order.Status.Cancellable() {
		return nil, apperr.InvalidState("cannot cancel an order in status '%s'", order.Status)
	}

	// The store re-checks the status under the transaction, so a
	// concurrent cancel between the read above and here still restores
	// stock exactly once.
	if err := s.orders.Cancel(ctx, orderID); err != nil {
		return nil, err
	}

	cancelled, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.invalidateAfterStockChange(ctx, cancelled)
	s.events.PublishOrderEvent(ctx, "cancelled", cancelled)

	logger.Info().Int("order_id", orderID).Msg("Order cancelled, stock restored")
	return cancelled, nil
}

// invalidateAfterStockChange drops cache entries for every product the
// order touched: their stock just changed, so detail views and any
// cached list may be stale.
func (s *OrderService) invalidateAfterStockChange(ctx context.Context, order *entity.Order) {
	keys := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		keys = append(keys, cache.DetailKey(productsEntity, item.ProductID))
	}
	s.cache.Delete(ctx, keys...)
	s.cache.DeletePattern(ctx, cache.ListPattern(productsEntity))
}

func validateCustomerInfo(info entity.CustomerInfo) error {
	switch {
	case info.Name == "":
		return apperr.Validation("customer name is required")
	case info.Email == "":
		return apperr.Validation("customer email is required")
	case info.Phone == "":
		return apperr.Validation("customer phone is required")
	case info.ShippingAddress == "":
		return apperr.Validation("shipping address is required")
	}
	return nil
}

func normalizePage(skip, limit int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	return skip, limit
}
