package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Kiepon/store-backend/internal/domain"
	"github.com/Kiepon/store-backend/pkg/database"
	apperrors "github.com/Kiepon/store-backend/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `id, product_id, user_id, comment, grade, is_active, created_at`

// ListActive returns all active reviews, newest first.
func (r *ReviewRepository) ListActive(ctx context.Context) ([]domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE is_active = TRUE
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// ListActiveByProduct returns active reviews for a single product, newest first.
func (r *ReviewRepository) ListActiveByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE product_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by product: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// GetActiveByID returns a single active review by its ID.
func (r *ReviewRepository) GetActiveByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE id = $1 AND is_active = TRUE`

	var rv domain.Review

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rv.ID,
		&rv.ProductID,
		&rv.UserID,
		&rv.Comment,
		&rv.Grade,
		&rv.IsActive,
		&rv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &rv, nil
}

// Create inserts the review and recomputes the product rating atomically.
// The rating is the average grade over the product's active reviews, or 0
// when none remain.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO reviews (id, product_id, user_id, comment, grade, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = tx.Exec(ctx, insertQuery,
		review.ID,
		review.ProductID,
		review.UserID,
		review.Comment,
		review.Grade,
		review.IsActive,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	if err := recomputeProductRating(ctx, tx, review.ProductID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// SoftDelete marks the review inactive and recomputes the product rating
// atomically.
func (r *ReviewRepository) SoftDelete(ctx context.Context, review *domain.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	updateQuery := `
		UPDATE reviews
		SET is_active = FALSE
		WHERE id = $1 AND is_active = TRUE`

	tag, err := tx.Exec(ctx, updateQuery, review.ID)
	if err != nil {
		return fmt.Errorf("deactivate review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("review", review.ID)
	}

	if err := recomputeProductRating(ctx, tx, review.ProductID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// recomputeProductRating writes the average grade of the product's active
// reviews onto the product row, using 0 when no active reviews remain.
func recomputeProductRating(ctx context.Context, tx pgx.Tx, productID string) error {
	query := `
		UPDATE products
		SET rating = (
			SELECT COALESCE(AVG(grade), 0)
			FROM reviews
			WHERE product_id = $1 AND is_active = TRUE
		)
		WHERE id = $1`

	if _, err := tx.Exec(ctx, query, productID); err != nil {
		return fmt.Errorf("update product rating: %w", err)
	}

	return nil
}

func scanReviews(rows pgx.Rows) ([]domain.Review, error) {
	var reviews []domain.Review

	for rows.Next() {
		var rv domain.Review

		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserID,
			&rv.Comment,
			&rv.Grade,
			&rv.IsActive,
			&rv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}

		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}
