package repository

import (
	"context"
	"database/sql"
	"errors"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/entity"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db}
}

// GetByUserID loads a cart with its items and their products in one
// join, so callers always work on a fully materialized snapshot.
func (r *CartRepository) GetByUserID(ctx context.Context, userID int) (*entity.Cart, error) {
	cart := &entity.Cart{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = ?`, userID).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("cart not found for user %d", userID)
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return cart, nil
}

func (r *CartRepository) loadItems(ctx context.Context, cartID int) ([]entity.CartItem, error) {
	query := `SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.added_at,
			p.id, p.name, p.description, p.price, p.stock, COALESCE(p.image_url, ''), p.category_id, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = ?
		ORDER BY ci.id`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []entity.CartItem{}
	for rows.Next() {
		item := entity.CartItem{Product: &entity.Product{}}
		p := item.Product
		err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.AddedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *CartRepository) Create(ctx context.Context, userID int) (*entity.Cart, error) {
	_, err := r.db.ExecContext(ctx, `INSERT INTO carts (user_id) VALUES (?)`, userID)
	if err != nil {
		// Concurrent first-add from the same user; the cart exists now.
		if !isDuplicate(err) {
			return nil, err
		}
	}
	return r.GetByUserID(ctx, userID)
}

func (r *CartRepository) CreateItem(ctx context.Context, cartID, productID, quantity int) error {
	query := `INSERT INTO cart_items (cart_id, product_id, quantity) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, cartID, productID, quantity)
	return err
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartID, productID, quantity int) error {
	query := `UPDATE cart_items SET quantity = ? WHERE cart_id = ? AND product_id = ?`
	res, err := r.db.ExecContext(ctx, query, quantity, cartID, productID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("product %d not found in cart", productID)
	}
	return nil
}

func (r *CartRepository) DeleteItem(ctx context.Context, cartID, productID int) error {
	query := `DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`
	res, err := r.db.ExecContext(ctx, query, cartID, productID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("product %d not found in cart", productID)
	}
	return nil
}

// Clear removes every item from a cart. The cart row itself survives
// for reuse. Returns the number of items removed.
func (r *CartRepository) Clear(ctx context.Context, cartID int) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}
