package dto

import "github.com/mrops-br/storefront-cart/internal/domain"

// CartItem is both the POST /cart body and an element of the cart list response
type CartItem struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// ToCartItems converts domain references to their wire shape
func ToCartItems(refs []domain.CartReference) []CartItem {
	items := make([]CartItem, len(refs))
	for i, r := range refs {
		items[i] = CartItem{ProductID: r.ProductID, Qty: r.Qty}
	}
	return items
}

// ToReferences converts a decoded cart list, validating each entry.
func ToReferences(items []CartItem) ([]domain.CartReference, error) {
	refs := make([]domain.CartReference, len(items))
	for i, item := range items {
		refs[i] = domain.CartReference{ProductID: item.ProductID, Qty: item.Qty}
		if err := refs[i].Validate(); err != nil {
			return nil, err
		}
	}
	return refs, nil
}
