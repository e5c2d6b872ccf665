package repository

import (
	"context"
	"database/sql"
	"errors"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/entity"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

// CreateFromCart converts cart items into an order in a single
// transaction: conditional stock decrements, order insert, batch item
// insert with order-time price snapshots, cart clear. Any failure
// rolls back the whole unit; no partial order ever exists.
//
// The decrement is the guarded form
//
//	UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?
//
// so two concurrent checkouts of the last unit serialize on the row
// and exactly one of them sees RowsAffected == 1.
func (r *OrderRepository) CreateFromCart(ctx context.Context, cart *entity.Cart, info entity.CustomerInfo) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	items := make([]entity.OrderItem, 0, len(cart.Items))
	total := 0.0

	for _, cartItem := range cart.Items {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`,
			cartItem.Quantity, cartItem.ProductID, cartItem.Quantity)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if affected == 0 {
			// Re-read inside the same tx to report the real shortfall.
			var name string
			var stock int
			err := tx.QueryRowContext(ctx, `SELECT name, stock FROM products WHERE id = ?`, cartItem.ProductID).
				Scan(&name, &stock)
			tx.Rollback()
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return nil, apperr.NotFound("product with id %d not found", cartItem.ProductID)
				}
				return nil, err
			}
			return nil, &apperr.StockError{
				ProductID:   cartItem.ProductID,
				ProductName: name,
				Available:   stock,
				Requested:   cartItem.Quantity,
			}
		}

		// Snapshot the price as of this transaction, not the price the
		// cart was loaded with.
		var price float64
		err = tx.QueryRowContext(ctx, `SELECT price FROM products WHERE id = ?`, cartItem.ProductID).Scan(&price)
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		subtotal := entity.Round2(float64(cartItem.Quantity) * price)
		total += subtotal
		items = append(items, entity.OrderItem{
			ProductID: cartItem.ProductID,
			Quantity:  cartItem.Quantity,
			UnitPrice: price,
			Subtotal:  subtotal,
		})
	}

	orderQuery := `INSERT INTO orders (user_id, status, total_amount, customer_name, customer_email, customer_phone, shipping_address, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery, cart.UserID, entity.StatusPending, entity.Round2(total),
		info.Name, info.Email, info.Phone, info.ShippingAddress, info.Notes)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Batch insert the order items.
	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal) VALUES `
	var values []interface{}
	for _, item := range items {
		itemQuery += "(?, ?, ?, ?, ?),"
		values = append(values, orderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal)
	}
	itemQuery = itemQuery[:len(itemQuery)-1]

	_, err = tx.ExecContext(ctx, itemQuery, values...)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Clear the cart; the cart row survives for reuse.
	_, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cart.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetWithItems(ctx, int(orderID))
}

const orderColumns = `id, user_id, status, total_amount, customer_name, customer_email, customer_phone, shipping_address, COALESCE(notes, ''), created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*entity.Order, error) {
	order := &entity.Order{}
	err := row.Scan(&order.ID, &order.UserID, &order.Status, &order.TotalAmount,
		&order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
		&order.ShippingAddress, &order.Notes, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) GetWithItems(ctx context.Context, id int) (*entity.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("order with id %d not found", id)
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price, subtotal FROM order_items WHERE order_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := entity.OrderItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Subtotal)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}

func (r *OrderRepository) list(ctx context.Context, where string, args []interface{}, skip, limit int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*entity.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID, skip, limit int) ([]*entity.Order, error) {
	return r.list(ctx, `WHERE user_id = ?`, []interface{}{userID}, skip, limit)
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status entity.OrderStatus, skip, limit int) ([]*entity.Order, error) {
	return r.list(ctx, `WHERE status = ?`, []interface{}{status}, skip, limit)
}

func (r *OrderRepository) ListAll(ctx context.Context, skip, limit int) ([]*entity.Order, error) {
	return r.list(ctx, ``, nil, skip, limit)
}

// UpdateStatus flips the status only if the order is still in the
// expected state, so concurrent transitions cannot leapfrog each
// other.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, from, to entity.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.InvalidState("order %d is no longer in status '%s'", id, from)
	}
	return nil
}

// Cancel flips the order to cancelled and restores each item's stock
// in one transaction. The guarded flip runs first: if a concurrent
// request already cancelled (or shipped) the order, zero rows are
// affected and nothing is restored, which keeps cancellation
// restore-once.
func (r *OrderRepository) Cancel(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ? AND status IN (?, ?, ?)`,
		entity.StatusCancelled, id, entity.StatusPending, entity.StatusConfirmed, entity.StatusProcessing)
	if err != nil {
		tx.Rollback()
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected == 0 {
		tx.Rollback()
		return apperr.InvalidState("order %d can no longer be cancelled", id)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT product_id, quantity FROM order_items WHERE order_id = ?`, id)
	if err != nil {
		tx.Rollback()
		return err
	}

	type restore struct{ productID, quantity int }
	restores := []restore{}
	for rows.Next() {
		var item restore
		if err := rows.Scan(&item.productID, &item.quantity); err != nil {
			rows.Close()
			tx.Rollback()
			return err
		}
		restores = append(restores, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		tx.Rollback()
		return err
	}
	rows.Close()

	for _, item := range restores {
		_, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock + ? WHERE id = ?`, item.quantity, item.productID)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// UpdateCustomerInfo rewrites the shipping snapshot fields. Status is
// untouched; callers enforce the state machine first.
func (r *OrderRepository) UpdateCustomerInfo(ctx context.Context, id int, info entity.CustomerInfo) error {
	query := `UPDATE orders SET customer_name = ?, customer_email = ?, customer_phone = ?, shipping_address = ?, notes = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, info.Name, info.Email, info.Phone, info.ShippingAddress, info.Notes, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("order with id %d not found", id)
	}
	return nil
}
