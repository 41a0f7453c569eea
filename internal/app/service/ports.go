package service

import (
	"context"

	"github.com/mrops-br/storefront-cart/internal/domain"
)

// CartGateway is the remote cart store
type CartGateway interface {
	FetchCart(ctx context.Context, id domain.Identity) ([]domain.CartReference, error)
	MutateCart(ctx context.Context, id domain.Identity, productID string, qty int) ([]domain.CartReference, error)
}

// CatalogGateway is the remote product catalog
type CatalogGateway interface {
	FetchCatalog(ctx context.Context) ([]domain.Product, error)
	SearchCatalog(ctx context.Context, query string) ([]domain.Product, error)
}

// AuthGateway is the remote account boundary
type AuthGateway interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.Identity, error)
	Register(ctx context.Context, creds domain.Credentials) error
}
