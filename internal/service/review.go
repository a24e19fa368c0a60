package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Kiepon/store-backend/internal/domain"
	"github.com/Kiepon/store-backend/internal/event"
	"github.com/Kiepon/store-backend/internal/repository"
	apperrors "github.com/Kiepon/store-backend/pkg/errors"
)

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	ProductID string
	UserID    string
	Comment   string
	Grade     int
}

// DeleteReviewInput identifies the review to delete and who is asking.
type DeleteReviewInput struct {
	ReviewID string
	UserID   string
	Role     string
}

// ReviewService implements the business logic for review operations.
type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	events   *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	events *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		products: products,
		events:   events,
		logger:   logger,
	}
}

// ListReviews returns all active reviews.
func (s *ReviewService) ListReviews(ctx context.Context) ([]domain.Review, error) {
	reviews, err := s.reviews.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// ListProductReviews returns active reviews for one product. The product
// must exist and be active.
func (s *ReviewService) ListProductReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	if _, err := s.products.GetActive(ctx, productID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list product reviews: %w", err)
	}
	return reviews, nil
}

// CreateReview creates a review on an active product and updates the
// product's aggregate rating.
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user_id is required")
	}
	if input.Grade < domain.MinGrade || input.Grade > domain.MaxGrade {
		return nil, apperrors.InvalidInput(fmt.Sprintf("grade must be between %d and %d", domain.MinGrade, domain.MaxGrade))
	}

	if _, err := s.products.GetActive(ctx, input.ProductID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Comment:   input.Comment,
		Grade:     input.Grade,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.String("user_id", review.UserID),
		slog.Int("grade", review.Grade),
	)

	if err := s.events.PublishReviewCreated(ctx, review); err != nil {
		// Event publishing is best effort; the review is already committed.
		s.logger.WarnContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	return review, nil
}

// DeleteReview soft-deletes a review and updates the product's aggregate
// rating. Only the review's author or an admin may delete it.
func (s *ReviewService) DeleteReview(ctx context.Context, input *DeleteReviewInput) error {
	review, err := s.reviews.GetActiveByID(ctx, input.ReviewID)
	if err != nil {
		return err
	}

	if review.UserID != input.UserID && input.Role != domain.RoleAdmin {
		return apperrors.Forbidden("only the review author or an admin can delete a review")
	}

	if err := s.reviews.SoftDelete(ctx, review); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.String("deleted_by", input.UserID),
	)

	if err := s.events.PublishReviewDeleted(ctx, review, input.UserID); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.deleted event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}
