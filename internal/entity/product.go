package entity

import "time"

type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url,omitempty"`
	CategoryID  *int      `json:"category_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductFilter narrows product listings. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID *int
	Name       string
	MaxStock   *int
	Skip       int
	Limit      int
}

/*
MySQL schema:

CREATE TABLE products (
	id INT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(200) NOT NULL,
	description TEXT NOT NULL,
	price DOUBLE NOT NULL,
	stock INT NOT NULL DEFAULT 0,
	image_url VARCHAR(500),
	category_id INT NULL REFERENCES categories(id),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	INDEX idx_category_stock (category_id, stock)
);
*/
