package models

import "time"

// Review is product review entity.
type Review struct {
	ID        string
	Email     string
	ProductID string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
