package entity

import "time"

// Review is a per-user-per-product rating. The (user, product) pair is
// unique; rating is 1 to 5.
type Review struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	UserID    int       `json:"user_id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewSummary aggregates a product's reviews.
type ReviewSummary struct {
	ProductID     int     `json:"product_id"`
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

/*
MySQL schema:

CREATE TABLE reviews (
	id INT AUTO_INCREMENT PRIMARY KEY,
	product_id INT NOT NULL,
	user_id INT NOT NULL,
	rating INT NOT NULL,
	title VARCHAR(200),
	comment TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE KEY uq_user_product (user_id, product_id),
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
);
*/
