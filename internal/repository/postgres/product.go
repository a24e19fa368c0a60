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

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// GetActive returns an active product by its ID.
func (r *ProductRepository) GetActive(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, name, rating, is_active
		FROM products
		WHERE id = $1 AND is_active = TRUE`

	var p domain.Product

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Rating,
		&p.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}
