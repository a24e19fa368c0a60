// Package event publishes store domain events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/Kiepon/store-backend/pkg/kafka"
	"github.com/Kiepon/store-backend/pkg/logger"

	"github.com/Kiepon/store-backend/internal/domain"
)

// Kafka topic constants for store domain events.
const (
	TopicReviewCreated  = "store.review.created"
	TopicReviewDeleted  = "store.review.deleted"
	TopicPaymentCreated = "store.payment.created"
)

// Aggregate type constants.
const (
	AggregateTypeReview  = "review"
	AggregateTypePayment = "payment"
)

// Source identifier for events originating from this service.
const SourceStoreBackend = "store-backend"

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Grade     int    `json:"grade"`
}

// ReviewDeletedData is the payload for a review.deleted event.
type ReviewDeletedData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	DeletedBy string `json:"deleted_by"`
}

// PaymentCreatedData is the payload for a payment.created event.
type PaymentCreatedData struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	GatewayPaymentID string `json:"gateway_payment_id"`
}

// Producer publishes store domain events to Kafka. A nil Producer is safe to
// use and publishes nothing, which keeps event publishing optional in
// development.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// publish wraps data in an envelope, tags it with the request correlation ID
// and sends it to topic.
func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceStoreBackend, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	if p == nil {
		return nil
	}

	data := ReviewCreatedData{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Grade:     review.Grade,
	}
	if err := p.publish(ctx, TopicReviewCreated, review.ID, AggregateTypeReview, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
	)
	return nil
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, review *domain.Review, deletedBy string) error {
	if p == nil {
		return nil
	}

	data := ReviewDeletedData{
		ID:        review.ID,
		ProductID: review.ProductID,
		DeletedBy: deletedBy,
	}
	if err := p.publish(ctx, TopicReviewDeleted, review.ID, AggregateTypeReview, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published review.deleted event",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
	)
	return nil
}

// PublishPaymentCreated publishes a payment.created event.
func (p *Producer) PublishPaymentCreated(ctx context.Context, payment *domain.Payment) error {
	if p == nil {
		return nil
	}

	data := PaymentCreatedData{
		ID:               payment.ID,
		OrderID:          payment.OrderID,
		Amount:           payment.Amount.StringFixed(2),
		Currency:         payment.Currency,
		Status:           payment.Status,
		GatewayPaymentID: payment.GatewayPaymentID,
	}
	if err := p.publish(ctx, TopicPaymentCreated, payment.ID, AggregateTypePayment, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published payment.created event",
		slog.String("payment_id", payment.ID),
		slog.String("order_id", payment.OrderID),
	)
	return nil
}
