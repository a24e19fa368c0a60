package domain

import (
	"time"
)

// Grade bounds for a review.
const (
	MinGrade = 1
	MaxGrade = 5
)

// Review represents a product review submitted by a user. Reviews are never
// hard-deleted; IsActive false marks a soft-deleted review that is kept for
// history but excluded from listings and rating aggregation.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Comment   string    `json:"comment,omitempty"`
	Grade     int       `json:"grade"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
