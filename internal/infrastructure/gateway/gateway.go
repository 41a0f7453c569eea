// Package gateway talks to the remote storefront backend over HTTP and
// translates every outcome into a payload or a *domain.Failure.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/mrops-br/storefront-cart/internal/app/dto"
	"github.com/mrops-br/storefront-cart/internal/domain"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// RequestIDHeader carries a per-call id the backend can log
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes = 4 << 20
)

// Gateway is the remote cart and catalog client
type Gateway struct {
	baseURL  *url.URL
	client   *http.Client
	tracer   trace.Tracer
	logger   *slog.Logger
	requests metric.Int64Counter
}

// NewGateway creates a gateway for the backend at cfg.BaseURL
func NewGateway(
	cfg *config.ClientConfig,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) (*Gateway, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: scheme and host are required", cfg.BaseURL)
	}

	requests, _ := meter.Int64Counter(
		"storefront.gateway.requests",
		metric.WithDescription("Total number of backend requests by operation and result"),
	)

	return &Gateway{
		baseURL: base,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
		tracer:   tracer,
		logger:   logger,
		requests: requests,
	}, nil
}

// FetchCart returns the authoritative cart references. Without a token it
// returns nothing and issues no request.
func (g *Gateway) FetchCart(ctx context.Context, id domain.Identity) ([]domain.CartReference, error) {
	if !id.LoggedIn() {
		g.logger.DebugContext(ctx, "Skipping cart fetch without token")
		return nil, nil
	}

	var items []dto.CartItem
	if err := g.do(ctx, "fetch_cart", http.MethodGet, "/cart", nil, id.Token, nil, &items); err != nil {
		return nil, err
	}
	return decodeReferences(items)
}

// FetchCatalog returns the full product catalog
func (g *Gateway) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	var list []dto.ProductResponse
	if err := g.do(ctx, "fetch_catalog", http.MethodGet, "/products", nil, "", nil, &list); err != nil {
		return nil, err
	}
	return decodeProducts(list)
}

// SearchCatalog returns the products matching query. A 404 from the backend
// means no match and yields an empty result.
func (g *Gateway) SearchCatalog(ctx context.Context, query string) ([]domain.Product, error) {
	var list []dto.ProductResponse
	err := g.do(ctx, "search_catalog", http.MethodGet, "/products/search", url.Values{"value": {query}}, "", nil, &list)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return []domain.Product{}, nil
		}
		return nil, err
	}
	return decodeProducts(list)
}

// MutateCart asks the backend to hold exactly qty of productID. The returned
// list is the complete cart and replaces any locally held references.
func (g *Gateway) MutateCart(ctx context.Context, id domain.Identity, productID string, qty int) ([]domain.CartReference, error) {
	if !id.LoggedIn() {
		return nil, domain.NewFailure(domain.KindUnauthenticated, "", 0, nil)
	}

	body := dto.CartItem{ProductID: productID, Qty: qty}
	var items []dto.CartItem
	if err := g.do(ctx, "mutate_cart", http.MethodPost, "/cart", nil, id.Token, body, &items); err != nil {
		return nil, err
	}
	return decodeReferences(items)
}

// Login exchanges credentials for an identity
func (g *Gateway) Login(ctx context.Context, creds domain.Credentials) (domain.Identity, error) {
	body := dto.LoginRequest{Username: creds.Username, Password: creds.Password}
	var resp dto.LoginResponse
	if err := g.do(ctx, "login", http.MethodPost, "/auth/login", nil, "", body, &resp); err != nil {
		return domain.Anonymous, err
	}
	if resp.Token == "" {
		return domain.Anonymous, domain.NewFailure(domain.KindServerError, "login response carried no token", 0, nil)
	}
	return domain.Identity{Token: resp.Token, Username: resp.Username, Balance: resp.Balance}, nil
}

// Register creates a backend account
func (g *Gateway) Register(ctx context.Context, creds domain.Credentials) error {
	body := dto.LoginRequest{Username: creds.Username, Password: creds.Password}
	var resp dto.StatusResponse
	return g.do(ctx, "register", http.MethodPost, "/auth/register", nil, "", body, &resp)
}

func (g *Gateway) do(
	ctx context.Context,
	operation, method, path string,
	query url.Values,
	token string,
	body any,
	out any,
) (err error) {
	ctx, span := g.tracer.Start(ctx, "Gateway."+operation, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	requestID := uuid.NewString()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
		attribute.String("request.id", requestID),
	)

	defer func() {
		result := "success"
		if err != nil {
			result = string(domain.KindOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, domain.DisplayMessage(err))
		} else {
			span.SetStatus(codes.Ok, "Request completed")
		}
		g.requests.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", operation),
				attribute.String("result", result),
			),
		)
	}()

	target := g.baseURL.JoinPath(path)
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return domain.NewFailure(domain.KindServerError, "", 0, fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return domain.NewFailure(domain.KindNetworkError, "", 0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.ErrorContext(ctx, "Backend unreachable",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		return domain.NewFailure(domain.KindNetworkError, "", 0, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.NewFailure(domain.KindNetworkError, "", resp.StatusCode, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.Unmarshal(raw, out); err != nil {
			g.logger.ErrorContext(ctx, "Malformed backend response",
				slog.String("operation", operation),
				slog.String("error", err.Error()),
			)
			return domain.NewFailure(domain.KindServerError, "", resp.StatusCode, fmt.Errorf("decode response: %w", err))
		}
		g.logger.DebugContext(ctx, "Backend request completed",
			slog.String("operation", operation),
			slog.Int("status", resp.StatusCode),
		)
		return nil
	}

	failure := failureFromResponse(resp.StatusCode, raw)
	g.logger.WarnContext(ctx, "Backend request failed",
		slog.String("operation", operation),
		slog.Int("status", resp.StatusCode),
		slog.String("kind", string(failure.Kind)),
		slog.String("message", failure.Message),
	)
	return failure
}

// failureFromResponse maps a non-2xx status to the failure taxonomy, keeping
// the server-supplied message when the body carries one.
func failureFromResponse(status int, raw []byte) *domain.Failure {
	var body dto.StatusResponse
	_ = json.Unmarshal(raw, &body)

	switch {
	case status == http.StatusUnauthorized:
		return domain.NewFailure(domain.KindUnauthenticated, body.Message, status, nil)
	case status == http.StatusNotFound:
		return domain.NewFailure(domain.KindNotFound, body.Message, status, nil)
	default:
		return domain.NewFailure(domain.KindServerError, body.Message, status, nil)
	}
}

func decodeProducts(list []dto.ProductResponse) ([]domain.Product, error) {
	products, err := dto.ToProducts(list)
	if err != nil {
		return nil, domain.NewFailure(domain.KindServerError, "", 0, fmt.Errorf("invalid product: %w", err))
	}
	return products, nil
}

func decodeReferences(items []dto.CartItem) ([]domain.CartReference, error) {
	refs, err := dto.ToReferences(items)
	if err != nil {
		return nil, domain.NewFailure(domain.KindServerError, "", 0, fmt.Errorf("invalid cart reference: %w", err))
	}
	return refs, nil
}
