package repository

import (
	"context"
	"database/sql"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/entity"
)

type WishlistRepository struct {
	db *sql.DB
}

func NewWishlistRepository(db *sql.DB) *WishlistRepository {
	return &WishlistRepository{db}
}

func (r *WishlistRepository) ListByUser(ctx context.Context, userID int) ([]*entity.WishlistItem, error) {
	query := `SELECT w.id, w.user_id, w.product_id, w.added_at,
			p.id, p.name, p.description, p.price, p.stock, COALESCE(p.image_url, ''), p.category_id, p.created_at, p.updated_at
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = ?
		ORDER BY w.added_at DESC, w.id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*entity.WishlistItem{}
	for rows.Next() {
		item := &entity.WishlistItem{Product: &entity.Product{}}
		p := item.Product
		err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.AddedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *WishlistRepository) Add(ctx context.Context, userID, productID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wishlist_items (user_id, product_id) VALUES (?, ?)`, userID, productID)
	if err != nil {
		if isDuplicate(err) {
			return apperr.Conflict("product %d is already in the wishlist", productID)
		}
		return err
	}
	return nil
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, productID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("product %d not found in wishlist", productID)
	}
	return nil
}
