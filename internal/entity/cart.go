package entity

import "time"

// Cart is the per-user staging area of intended purchases. One cart per
// user; the row survives being emptied or checked out.
type Cart struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem holds a product and quantity. At most one row per
// (cart, product) pair; adding the same product merges quantities.
type CartItem struct {
	ID        int       `json:"id"`
	CartID    int       `json:"cart_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`

	// Product is eager-loaded by the repository so totals and stock
	// checks never trigger follow-up queries.
	Product *Product `json:"product,omitempty"`
}

// TotalItems is the live sum of quantities across the cart.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalAmount is the live total at current product prices, unlike order
// totals which snapshot prices at creation time.
func (c *Cart) TotalAmount() float64 {
	total := 0.0
	for _, item := range c.Items {
		if item.Product != nil {
			total += float64(item.Quantity) * item.Product.Price
		}
	}
	return Round2(total)
}

// FindItem returns the cart item for a product, or nil.
func (c *Cart) FindItem(productID int) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

/*
MySQL schema:

CREATE TABLE carts (
	id INT AUTO_INCREMENT PRIMARY KEY,
	user_id INT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE cart_items (
	id INT AUTO_INCREMENT PRIMARY KEY,
	cart_id INT NOT NULL,
	product_id INT NOT NULL,
	quantity INT NOT NULL,
	added_at DATETIME NOT NULL,
	UNIQUE KEY uq_cart_product (cart_id, product_id),
	FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE,
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
);
*/
