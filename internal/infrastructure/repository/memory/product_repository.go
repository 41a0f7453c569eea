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

// ProductRepository is an in-memory implementation of domain.ProductRepository.
// Products are returned in the order they were seeded.
type ProductRepository struct {
	mu       sync.RWMutex
	products []domain.Product
	index    map[string]int
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository creates a repository holding seed
func NewProductRepository(seed []domain.Product, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	r := &ProductRepository{
		products: make([]domain.Product, 0, len(seed)),
		index:    make(map[string]int, len(seed)),
		tracer:   tracer,
		logger:   logger,
	}
	for _, p := range seed {
		if _, dup := r.index[p.ID]; dup {
			continue
		}
		r.index[p.ID] = len(r.products)
		r.products = append(r.products, p)
	}
	return r
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	i, exists := r.index[id]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found",
			slog.String("product_id", id),
		)
		return nil, domain.ErrProductNotFound
	}

	product := r.products[i]
	span.SetStatus(codes.Ok, "Product found")
	return &product, nil
}

// FindAll retrieves all products
func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := append([]domain.Product{}, r.products...)

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// Search returns the products whose name or category contains query
func (r *ProductRepository) Search(ctx context.Context, query string) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Search")
	defer span.End()

	span.SetAttributes(attribute.String("search.query", query))

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := []domain.Product{}
	for _, p := range r.products {
		if p.Matches(query) {
			products = append(products, p)
		}
	}

	r.logger.DebugContext(ctx, "Products searched in repository",
		slog.String("query", query),
		slog.Int("count", len(products)),
	)

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products searched")
	return products, nil
}
