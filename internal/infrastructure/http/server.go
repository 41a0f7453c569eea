package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/storefront-cart/internal/domain"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/config"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/http/handler"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/http/middleware"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// APIPrefix is the path every storefront route is mounted under
const APIPrefix = "/api/v1"

const shutdownTimeout = 5 * time.Second

// Handlers groups the route handlers the server mounts
type Handlers struct {
	Products *handler.ProductHandler
	Cart     *handler.CartHandler
	Auth     *handler.AuthHandler
}

// Server represents the development storefront backend
type Server struct {
	router    *chi.Mux
	config    *config.ServerConfig
	handlers  Handlers
	accounts  domain.AccountRepository
	logger    *slog.Logger
	telemetry *telemetry.Telemetry
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	handlers Handlers,
	accounts domain.AccountRepository,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		handlers:  handlers,
		accounts:  accounts,
		logger:    logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.HTTPRouteContext())

	meter := s.telemetry.MeterProvider.Meter(telemetry.InstrumentationName)
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Route(APIPrefix, func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handlers.Products.ListProducts)
			r.Get("/search", s.handlers.Products.SearchProducts)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.BearerAuth(s.accounts, s.logger))
			r.Get("/", s.handlers.Cart.GetCart)
			r.Post("/", s.handlers.Cart.UpdateCart)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handlers.Auth.Register)
			r.Post("/login", s.handlers.Auth.Login)
		})
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint over the OpenTelemetry exporter's registry
	s.router.Get("/metrics", promhttp.HandlerFor(s.telemetry.Registry, promhttp.HandlerOpts{}).ServeHTTP)
}

// Handler returns the router wrapped with otelhttp server instrumentation
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "storefront-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("http.route", middleware.RoutePattern(r)),
			}
		}),
	)
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.InfoContext(ctx, "Starting HTTP server",
		slog.String("address", addr),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
