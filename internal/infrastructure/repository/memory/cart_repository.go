package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/storefront-cart/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CartRepository is an in-memory implementation of domain.CartRepository
type CartRepository struct {
	mu     sync.Mutex
	carts  map[string][]domain.CartReference
	tracer trace.Tracer
	logger *slog.Logger
}

// NewCartRepository creates an empty cart repository
func NewCartRepository(tracer trace.Tracer, logger *slog.Logger) *CartRepository {
	return &CartRepository{
		carts:  make(map[string][]domain.CartReference),
		tracer: tracer,
		logger: logger,
	}
}

// Get returns the account's cart lines in the order they were first added
func (r *CartRepository) Get(ctx context.Context, accountID string) ([]domain.CartReference, error) {
	_, span := r.tracer.Start(ctx, "CartRepository.Get")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	refs := append([]domain.CartReference{}, r.carts[accountID]...)
	span.SetAttributes(attribute.Int("cart.lines", len(refs)))
	span.SetStatus(codes.Ok, "Cart retrieved")
	return refs, nil
}

// SetQty stores qty as the absolute quantity; qty <= 0 removes the line.
// It returns the complete cart after the change.
func (r *CartRepository) SetQty(ctx context.Context, accountID, productID string, qty int) ([]domain.CartReference, error) {
	ctx, span := r.tracer.Start(ctx, "CartRepository.SetQty")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", productID),
		attribute.Int("cart.qty", qty),
	)

	r.mu.Lock()
	defer r.mu.Unlock()

	refs := r.carts[accountID]
	idx := -1
	for i, ref := range refs {
		if ref.ProductID == productID {
			idx = i
			break
		}
	}

	next := make([]domain.CartReference, 0, len(refs)+1)
	switch {
	case qty <= 0:
		for i, ref := range refs {
			if i != idx {
				next = append(next, ref)
			}
		}
	case idx >= 0:
		next = append(next, refs...)
		next[idx].Qty = qty
	default:
		next = append(next, refs...)
		next = append(next, domain.CartReference{ProductID: productID, Qty: qty})
	}
	r.carts[accountID] = next

	r.logger.DebugContext(ctx, "Cart updated in repository",
		slog.String("account_id", accountID),
		slog.String("product_id", productID),
		slog.Int("qty", qty),
	)

	span.SetStatus(codes.Ok, "Cart updated")
	return append([]domain.CartReference{}, next...), nil
}
