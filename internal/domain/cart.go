package domain

import (
	"errors"
	"strings"
)

var ErrInvalidCartReference = errors.New("cart reference product id is required")

// CartReference is the backend-held (productId, qty) pair.
type CartReference struct {
	ProductID string
	Qty       int
}

// Validate performs shape validation on the reference
func (r CartReference) Validate() error {
	if strings.TrimSpace(r.ProductID) == "" {
		return ErrInvalidCartReference
	}
	return nil
}

// Deleted reports whether the reference no longer represents a cart line.
func (r CartReference) Deleted() bool {
	return r.Qty <= 0
}

// CartLineItem is a cart reference denormalized with its catalog product.
type CartLineItem struct {
	Product
	Qty int
}

// Subtotal returns qty * cost for the line.
func (l CartLineItem) Subtotal() float64 {
	return float64(l.Qty) * l.Cost
}

// ContainsProduct reports whether any line item carries the given product id.
func ContainsProduct(items []CartLineItem, productID string) bool {
	for _, item := range items {
		if item.ID == productID {
			return true
		}
	}
	return false
}

// QuantityOf returns the quantity held for productID, or 0.
func QuantityOf(items []CartLineItem, productID string) int {
	for _, item := range items {
		if item.ID == productID {
			return item.Qty
		}
	}
	return 0
}
