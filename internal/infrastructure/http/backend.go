package http

import (
	"github.com/mrops-br/storefront-cart/internal/domain"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/config"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/http/handler"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/repository/memory"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/telemetry"
)

// NewDevelopmentServer wires in-memory repositories seeded with catalog
// into a ready-to-serve backend.
func NewDevelopmentServer(cfg *config.ServerConfig, catalog []domain.Product, telem *telemetry.Telemetry) *Server {
	tracer := telem.TracerProvider.Tracer(telemetry.InstrumentationName)
	logger := telem.Logger

	products := memory.NewProductRepository(catalog, tracer, logger)
	accounts := memory.NewAccountRepository(tracer, logger)
	carts := memory.NewCartRepository(tracer, logger)

	handlers := Handlers{
		Products: handler.NewProductHandler(products, logger),
		Cart:     handler.NewCartHandler(carts, products, logger),
		Auth:     handler.NewAuthHandler(accounts, logger),
	}

	return NewServer(cfg, handlers, accounts, logger, telem)
}
