package service

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/mrops-br/storefront-cart/internal/app/catalog"
	"github.com/mrops-br/storefront-cart/internal/app/debounce"
	"github.com/mrops-br/storefront-cart/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CatalogService loads and searches the product catalog
type CatalogService struct {
	gateway    CatalogGateway
	store      *catalog.Store
	cart       *CartService
	tracer     trace.Tracer
	logger     *slog.Logger
	operations metric.Int64Counter
	searchSeq  atomic.Uint64
}

// NewCatalogService creates a new catalog service. cart may be nil; when set,
// its view is re-reconciled every time a catalog arrives.
func NewCatalogService(
	gateway CatalogGateway,
	store *catalog.Store,
	cart *CartService,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CatalogService {
	operations, _ := meter.Int64Counter(
		"storefront.catalog.operations",
		metric.WithDescription("Total number of catalog loads and searches"),
	)

	return &CatalogService{
		gateway:    gateway,
		store:      store,
		cart:       cart,
		tracer:     tracer,
		logger:     logger,
		operations: operations,
	}
}

// LoadCatalog fetches the full catalog, installs it and refreshes the cart view
func (s *CatalogService) LoadCatalog(ctx context.Context) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.LoadCatalog")
	defer span.End()

	s.logger.InfoContext(ctx, "Loading catalog")

	products, err := s.gateway.FetchCatalog(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load catalog")
		s.logger.ErrorContext(ctx, "Failed to load catalog",
			slog.String("error", err.Error()),
		)
		s.record(ctx, "load", "failure")
		return nil, err
	}

	s.store.Replace(products)
	if s.cart != nil {
		s.cart.RefreshView(ctx)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.record(ctx, "load", "success")
	s.logger.InfoContext(ctx, "Catalog loaded successfully",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Catalog loaded successfully")
	return s.store.All(), nil
}

// Search queries the backend and installs the result as the filtered view.
// It returns the filtered view after the search. A server fault falls back
// to the full catalog and still reports the failure. A response to an older
// search that arrives after a newer one was issued is not installed.
func (s *CatalogService) Search(ctx context.Context, text string) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Search")
	defer span.End()

	seq := s.searchSeq.Add(1)
	span.SetAttributes(attribute.String("search.query", text))

	products, err := s.gateway.SearchCatalog(ctx, text)
	if seq != s.searchSeq.Load() {
		s.logger.DebugContext(ctx, "Discarding stale search result",
			slog.String("query", text),
		)
		s.record(ctx, "search", "superseded")
		span.SetStatus(codes.Ok, "Search superseded")
		return s.store.Filtered(), nil
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Search failed")
		s.logger.WarnContext(ctx, "Search failed",
			slog.String("query", text),
			slog.String("kind", string(domain.KindOf(err))),
			slog.String("error", err.Error()),
		)
		s.record(ctx, "search", "failure")

		if f, ok := domain.AsFailure(err); ok && f.Kind == domain.KindServerError && f.Status >= http.StatusInternalServerError {
			s.store.ResetFilter()
			return s.store.Filtered(), err
		}
		return nil, err
	}

	s.store.SetFiltered(products)

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.record(ctx, "search", "success")
	s.logger.InfoContext(ctx, "Search completed",
		slog.String("query", text),
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Search completed")
	return s.store.Filtered(), nil
}

// NewSearchDebouncer returns a debouncer that runs Search with the latest
// input once typing settles and hands the outcome to onResult.
func (s *CatalogService) NewSearchDebouncer(
	ctx context.Context,
	settle time.Duration,
	onResult func(query string, products []domain.Product, err error),
) *debounce.Debouncer {
	return debounce.New(settle, func(text string) {
		products, err := s.Search(ctx, text)
		if onResult != nil {
			onResult(text, products, err)
		}
	})
}

// Filtered returns the current filtered view
func (s *CatalogService) Filtered() []domain.Product {
	return s.store.Filtered()
}

func (s *CatalogService) record(ctx context.Context, operation, result string) {
	s.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
