package repository

import (
	"context"
	"database/sql"
	"errors"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/entity"
)

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db}
}

const reviewColumns = `id, product_id, user_id, rating, COALESCE(title, ''), COALESCE(comment, ''), created_at, updated_at`

func scanReview(row interface{ Scan(...interface{}) error }) (*entity.Review, error) {
	review := &entity.Review{}
	err := row.Scan(&review.ID, &review.ProductID, &review.UserID, &review.Rating,
		&review.Title, &review.Comment, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int) (*entity.Review, error) {
	review, err := scanReview(r.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("review with id %d not found", id)
		}
		return nil, err
	}
	return review, nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID, skip, limit int) ([]*entity.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE product_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		productID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []*entity.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) Summary(ctx context.Context, productID int) (*entity.ReviewSummary, error) {
	summary := &entity.ReviewSummary{ProductID: productID}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM reviews WHERE product_id = ?`, productID).
		Scan(&summary.ReviewCount, &summary.AverageRating)
	if err != nil {
		return nil, err
	}
	summary.AverageRating = entity.Round2(summary.AverageRating)
	return summary, nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	query := `INSERT INTO reviews (product_id, user_id, rating, title, comment) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, review.ProductID, review.UserID, review.Rating,
		nullableString(review.Title), nullableString(review.Comment))
	if err != nil {
		if isDuplicate(err) {
			return nil, apperr.Conflict("user %d has already reviewed product %d", review.UserID, review.ProductID)
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, int(id))
}

func (r *ReviewRepository) Update(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	query := `UPDATE reviews SET rating = ?, title = ?, comment = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, review.Rating,
		nullableString(review.Title), nullableString(review.Comment), review.ID)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, review.ID)
}

func (r *ReviewRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("review with id %d not found", id)
	}
	return nil
}
