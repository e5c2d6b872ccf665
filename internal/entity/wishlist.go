package entity

import "time"

// WishlistItem marks a product as saved by a user. One row per
// (user, product) pair.
type WishlistItem struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`

	Product *Product `json:"product,omitempty"`
}

/*
MySQL schema:

CREATE TABLE wishlist_items (
	id INT AUTO_INCREMENT PRIMARY KEY,
	user_id INT NOT NULL,
	product_id INT NOT NULL,
	added_at DATETIME NOT NULL,
	UNIQUE KEY uq_user_product (user_id, product_id),
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
);
*/
