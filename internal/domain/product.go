package domain

// Product is the catalog entity reviews are attached to. It is owned by the
// catalog; this service only reads it and maintains the derived Rating field,
// the arithmetic mean of grades over the product's active reviews (0.0 when
// none exist).
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Rating   float64 `json:"rating"`
	IsActive bool    `json:"is_active"`
}
