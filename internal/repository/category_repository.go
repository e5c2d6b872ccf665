package repository

import (
	"context"
	"database/sql"
	"errors"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/entity"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the ER_DUP_ENTRY error number.
const mysqlDuplicateEntry = 1062

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db}
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*entity.Category, error) {
	query := `SELECT id, name, COALESCE(description, ''), created_at, updated_at FROM categories WHERE id = ?`
	category := &entity.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&category.ID, &category.Name,
		&category.Description, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("category with id %d not found", id)
		}
		return nil, err
	}
	return category, nil
}

func (r *CategoryRepository) List(ctx context.Context, skip, limit int) ([]*entity.Category, error) {
	query := `SELECT id, name, COALESCE(description, ''), created_at, updated_at FROM categories ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*entity.Category{}
	for rows.Next() {
		category := &entity.Category{}
		err := rows.Scan(&category.ID, &category.Name, &category.Description,
			&category.CreatedAt, &category.UpdatedAt)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Create(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	query := `INSERT INTO categories (name, description) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, category.Name, category.Description)
	if err != nil {
		if isDuplicate(err) {
			return nil, apperr.Conflict("category %q already exists", category.Name)
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, int(id))
}

func (r *CategoryRepository) Update(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	query := `UPDATE categories SET name = ?, description = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, category.Name, category.Description, category.ID)
	if err != nil {
		if isDuplicate(err) {
			return nil, apperr.Conflict("category %q already exists", category.Name)
		}
		return nil, err
	}
	return r.GetByID(ctx, category.ID)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("category with id %d not found", id)
	}
	return nil
}

func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
