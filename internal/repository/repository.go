// Package repository defines the persistence interfaces consumed by the
// service layer. Implementations live in the postgres subpackage.
package repository

import (
	"context"

	"github.com/Kiepon/store-backend/internal/domain"
)

// ReviewRepository persists reviews and keeps the denormalized product
// rating consistent with the set of active reviews.
type ReviewRepository interface {
	// ListActive returns all active reviews, newest first.
	ListActive(ctx context.Context) ([]domain.Review, error)

	// ListActiveByProduct returns active reviews for one product, newest first.
	ListActiveByProduct(ctx context.Context, productID string) ([]domain.Review, error)

	// GetActiveByID returns a single active review or ErrNotFound.
	GetActiveByID(ctx context.Context, id string) (*domain.Review, error)

	// Create inserts the review and recomputes the product rating in the
	// same transaction.
	Create(ctx context.Context, review *domain.Review) error

	// SoftDelete marks the review inactive and recomputes the product
	// rating in the same transaction.
	SoftDelete(ctx context.Context, review *domain.Review) error
}

// ProductRepository reads the product catalog as seen by this service.
type ProductRepository interface {
	// GetActive returns an active product or ErrNotFound.
	GetActive(ctx context.Context, id string) (*domain.Product, error)
}

// PaymentRepository persists initiated payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
}
