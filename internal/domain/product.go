package domain

import (
	"errors"
	"strings"
)

const MaxRating = 5

var (
	ErrInvalidProductID     = errors.New("product id is required")
	ErrInvalidProductCost   = errors.New("product cost must not be negative")
	ErrInvalidProductRating = errors.New("product rating must be between 0 and 5")
)

// Product represents a catalog entry as returned by the backend.
// Products are replaced wholesale on every fetch or search, never patched.
type Product struct {
	ID       string
	Name     string
	Category string
	Cost     float64
	Rating   int
	Image    string
}

// Validate performs shape validation on the product
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrInvalidProductID
	}
	if p.Cost < 0 {
		return ErrInvalidProductCost
	}
	if p.Rating < 0 || p.Rating > MaxRating {
		return ErrInvalidProductRating
	}
	return nil
}

// Matches reports whether the product name or category contains the query,
// ignoring case. An empty query matches everything.
func (p Product) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Category), q)
}
