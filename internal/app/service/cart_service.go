package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/storefront-cart/internal/app/catalog"
	"github.com/mrops-br/storefront-cart/internal/app/reconcile"
	"github.com/mrops-br/storefront-cart/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Intent distinguishes the two ways a quantity change is requested.
type Intent int

const (
	// IntentAddNew is the "add to cart" button: first add, rejected if the
	// product is already in the cart.
	IntentAddNew Intent = iota + 1
	// IntentAdjustQuantity is the +/- control on an existing line.
	IntentAdjustQuantity
)

func (i Intent) String() string {
	switch i {
	case IntentAddNew:
		return "add_new"
	case IntentAdjustQuantity:
		return "adjust_quantity"
	default:
		return "unknown"
	}
}

func (i Intent) preventsDuplicate() bool {
	return i == IntentAddNew
}

// MutationState is where a quantity change attempt ended up.
type MutationState string

const (
	StateIdle       MutationState = "idle"
	StateValidating MutationState = "validating"
	StateRejected   MutationState = "rejected"
	StateCalling    MutationState = "calling"
	StateApplied    MutationState = "applied"
	StateFailed     MutationState = "failed"
	// StateSuperseded means the backend accepted the change but a response to
	// a later request for the same product was already applied.
	StateSuperseded MutationState = "superseded"
)

// MutationResult reports the outcome of RequestQuantityChange
type MutationResult struct {
	State    MutationState
	Sequence uint64
	Items    []domain.CartLineItem
}

// CartService coordinates cart mutations against the remote cart store and
// owns the published cart view. The view is only ever replaced, never
// patched: by an applied mutation, a cart load, or RefreshView.
type CartService struct {
	gateway   CartGateway
	catalog   *catalog.Store
	tracer    trace.Tracer
	logger    *slog.Logger
	mutations metric.Int64Counter

	mu        sync.Mutex
	refs      []domain.CartReference
	view      []domain.CartLineItem
	epoch     uint64
	issued    map[string]uint64
	applied   map[string]uint64
	listeners []func([]domain.CartLineItem)
}

// NewCartService creates a new cart service
func NewCartService(
	gateway CartGateway,
	store *catalog.Store,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CartService {
	mutations, _ := meter.Int64Counter(
		"storefront.cart.mutations",
		metric.WithDescription("Total number of cart quantity change attempts"),
	)

	return &CartService{
		gateway:   gateway,
		catalog:   store,
		tracer:    tracer,
		logger:    logger,
		mutations: mutations,
		refs:      []domain.CartReference{},
		view:      []domain.CartLineItem{},
		issued:    make(map[string]uint64),
		applied:   make(map[string]uint64),
	}
}

// View returns the published cart view. Callers must not modify it.
func (s *CartService) View() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Totals returns the cart value and the number of units in the published view.
func (s *CartService) Totals() (float64, int) {
	view := s.View()
	return reconcile.TotalCartValue(view), reconcile.TotalItemCount(view)
}

// Subscribe registers fn to be called with every newly published view.
func (s *CartService) Subscribe(fn func([]domain.CartLineItem)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// LoadCart fetches the cart references and publishes the reconciled view.
// Without a token it does nothing.
func (s *CartService) LoadCart(ctx context.Context, id domain.Identity) ([]domain.CartLineItem, error) {
	if !id.LoggedIn() {
		return s.View(), nil
	}

	ctx, span := s.tracer.Start(ctx, "CartService.LoadCart")
	defer span.End()

	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	refs, err := s.gateway.FetchCart(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch cart")
		s.logger.ErrorContext(ctx, "Failed to fetch cart",
			slog.String("kind", string(domain.KindOf(err))),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.mu.Lock()
	if s.epoch != epoch {
		// A mutation response landed while the fetch was in flight and is newer.
		view := s.view
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "Discarding stale cart fetch")
		span.SetStatus(codes.Ok, "Cart fetch superseded")
		return view, nil
	}
	view, listeners := s.publishLocked(refs)
	s.mu.Unlock()
	s.notify(listeners, view)

	span.SetAttributes(attribute.Int("cart.lines", len(view)))
	s.logger.InfoContext(ctx, "Cart loaded",
		slog.Int("references", len(refs)),
		slog.Int("lines", len(view)),
	)
	span.SetStatus(codes.Ok, "Cart loaded")
	return view, nil
}

// RefreshView re-runs reconciliation over the last authoritative references
// and the current catalog. Called when the catalog arrives or changes.
func (s *CartService) RefreshView(ctx context.Context) []domain.CartLineItem {
	s.mu.Lock()
	view, listeners := s.publishLocked(s.refs)
	s.mu.Unlock()
	s.notify(listeners, view)

	s.logger.DebugContext(ctx, "Cart view refreshed", slog.Int("lines", len(view)))
	return view
}

// AddToCart adds one unit of a product that is not in the cart yet.
func (s *CartService) AddToCart(ctx context.Context, id domain.Identity, productID string) (*MutationResult, error) {
	return s.RequestQuantityChange(ctx, id, productID, 1, IntentAddNew)
}

// Increment adds one unit to an existing line.
func (s *CartService) Increment(ctx context.Context, id domain.Identity, productID string) (*MutationResult, error) {
	qty := domain.QuantityOf(s.View(), productID) + 1
	return s.RequestQuantityChange(ctx, id, productID, qty, IntentAdjustQuantity)
}

// Decrement removes one unit; at zero the backend drops the line.
func (s *CartService) Decrement(ctx context.Context, id domain.Identity, productID string) (*MutationResult, error) {
	qty := domain.QuantityOf(s.View(), productID) - 1
	return s.RequestQuantityChange(ctx, id, productID, qty, IntentAdjustQuantity)
}

// SetQuantity asks for an absolute quantity of an existing or new line.
func (s *CartService) SetQuantity(ctx context.Context, id domain.Identity, productID string, qty int) (*MutationResult, error) {
	return s.RequestQuantityChange(ctx, id, productID, qty, IntentAdjustQuantity)
}

// RequestQuantityChange validates the request, sends the desired absolute
// quantity to the backend and, on success, publishes the view reconciled
// from the backend's full reference list. On any failure the published view
// is left as it was.
func (s *CartService) RequestQuantityChange(
	ctx context.Context,
	id domain.Identity,
	productID string,
	desiredQty int,
	intent Intent,
) (*MutationResult, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.RequestQuantityChange")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", productID),
		attribute.Int("cart.desired_qty", desiredQty),
		attribute.String("cart.intent", intent.String()),
	)

	// Validating
	if !id.LoggedIn() {
		return s.reject(ctx, span, intent, domain.NewFailure(domain.KindUnauthenticated, "", 0, nil))
	}

	s.mu.Lock()
	if intent.preventsDuplicate() && domain.ContainsProduct(s.view, productID) {
		s.mu.Unlock()
		return s.reject(ctx, span, intent, domain.NewFailure(domain.KindDuplicateItem, "", 0, nil))
	}
	s.issued[productID]++
	seq := s.issued[productID]
	s.mu.Unlock()

	span.SetAttributes(attribute.Int64("cart.sequence", int64(seq)))

	// Calling
	s.logger.InfoContext(ctx, "Requesting cart quantity change",
		slog.String("product_id", productID),
		slog.Int("qty", desiredQty),
		slog.String("intent", intent.String()),
		slog.Uint64("sequence", seq),
	)

	refs, err := s.gateway.MutateCart(ctx, id, productID, desiredQty)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Cart mutation failed")
		s.logger.ErrorContext(ctx, "Cart mutation failed",
			slog.String("product_id", productID),
			slog.String("kind", string(domain.KindOf(err))),
			slog.String("error", err.Error()),
		)
		s.record(ctx, intent, StateFailed)
		return &MutationResult{State: StateFailed, Sequence: seq, Items: s.View()}, err
	}

	s.mu.Lock()
	if seq <= s.applied[productID] {
		view := s.view
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "Discarding out-of-order cart response",
			slog.String("product_id", productID),
			slog.Uint64("sequence", seq),
		)
		s.record(ctx, intent, StateSuperseded)
		span.SetStatus(codes.Ok, "Cart response superseded")
		return &MutationResult{State: StateSuperseded, Sequence: seq, Items: view}, nil
	}
	s.applied[productID] = seq
	s.epoch++
	view, listeners := s.publishLocked(refs)
	s.mu.Unlock()
	s.notify(listeners, view)

	s.record(ctx, intent, StateApplied)
	s.logger.InfoContext(ctx, "Cart quantity change applied",
		slog.String("product_id", productID),
		slog.Int("lines", len(view)),
	)
	span.SetStatus(codes.Ok, "Cart updated")
	return &MutationResult{State: StateApplied, Sequence: seq, Items: view}, nil
}

func (s *CartService) reject(ctx context.Context, span trace.Span, intent Intent, failure *domain.Failure) (*MutationResult, error) {
	span.RecordError(failure)
	span.SetStatus(codes.Error, failure.Message)
	s.logger.WarnContext(ctx, "Cart quantity change rejected",
		slog.String("kind", string(failure.Kind)),
	)
	s.record(ctx, intent, StateRejected)
	return &MutationResult{State: StateRejected, Items: s.View()}, failure
}

func (s *CartService) record(ctx context.Context, intent Intent, state MutationState) {
	s.mutations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("intent", intent.String()),
			attribute.String("result", string(state)),
		),
	)
}

// publishLocked stores refs as the authoritative list and replaces the view.
func (s *CartService) publishLocked(refs []domain.CartReference) ([]domain.CartLineItem, []func([]domain.CartLineItem)) {
	s.refs = append([]domain.CartReference{}, refs...)
	s.view = reconcile.Reconcile(s.refs, s.catalog.All())
	return s.view, append([]func([]domain.CartLineItem){}, s.listeners...)
}

func (s *CartService) notify(listeners []func([]domain.CartLineItem), view []domain.CartLineItem) {
	for _, fn := range listeners {
		fn(view)
	}
}
