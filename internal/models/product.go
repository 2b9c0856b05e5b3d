package models

import "time"

// Product is catalog entity. ProductID is the human-assigned identifier,
// immutable after creation.
type Product struct {
	ID            uint64
	ProductID     string
	Name          string
	AltNames      []string
	Description   string
	LabelledPrice float64
	Price         float64
	Images        []string
	Stock         int
	IsAvailable   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
