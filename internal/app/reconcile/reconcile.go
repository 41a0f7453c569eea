// Package reconcile joins backend cart references against the product catalog.
//
// Everything here is pure: no I/O, no shared state. Catalog and cart data are
// fetched independently and can be transiently out of sync, so references
// without a catalog entry are dropped rather than reported.
package reconcile

import "github.com/mrops-br/storefront-cart/internal/domain"

// Reconcile produces one line item per reference whose product is in the
// catalog, in reference order. Deleted references (qty <= 0) and repeated
// product ids after the first are skipped.
func Reconcile(refs []domain.CartReference, catalog []domain.Product) []domain.CartLineItem {
	if len(refs) == 0 || len(catalog) == 0 {
		return []domain.CartLineItem{}
	}

	index := make(map[string]int, len(catalog))
	for i, p := range catalog {
		if _, dup := index[p.ID]; !dup {
			index[p.ID] = i
		}
	}

	items := make([]domain.CartLineItem, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if ref.Deleted() {
			continue
		}
		if _, ok := seen[ref.ProductID]; ok {
			continue
		}
		i, ok := index[ref.ProductID]
		if !ok {
			continue
		}
		seen[ref.ProductID] = struct{}{}
		items = append(items, domain.CartLineItem{Product: catalog[i], Qty: ref.Qty})
	}
	return items
}

// TotalCartValue returns the sum of qty * cost over items.
func TotalCartValue(items []domain.CartLineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Subtotal()
	}
	return sum
}

// TotalItemCount returns the sum of quantities, not the number of lines.
func TotalItemCount(items []domain.CartLineItem) int {
	var sum int
	for _, item := range items {
		sum += item.Qty
	}
	return sum
}

// References converts line items back to the references they were built from.
func References(items []domain.CartLineItem) []domain.CartReference {
	refs := make([]domain.CartReference, len(items))
	for i, item := range items {
		refs[i] = domain.CartReference{ProductID: item.ID, Qty: item.Qty}
	}
	return refs
}
