package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("Product doesn't exist")
	ErrUsernameTaken   = errors.New("Username is already taken")
	ErrUserNotFound    = errors.New("Username does not exist")
	ErrInvalidPassword = errors.New("Password is incorrect")
	ErrSessionNotFound = errors.New("Protected route, Oauth2 Bearer token not found")
)

// Account is a registered storefront user as held by the backend.
type Account struct {
	ID       string
	Username string
	Password string
	Token    string
	Balance  float64
}

// ProductRepository defines the contract for catalog storage
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	Search(ctx context.Context, query string) ([]Product, error)
}

// AccountRepository defines the contract for account and session storage
type AccountRepository interface {
	Create(ctx context.Context, username, password string) (*Account, error)
	Authenticate(ctx context.Context, username, password string) (*Account, error)
	FindByToken(ctx context.Context, token string) (*Account, error)
}

// CartRepository defines the contract for per-account cart storage.
// SetQty stores an absolute quantity; qty <= 0 removes the line.
type CartRepository interface {
	Get(ctx context.Context, accountID string) ([]CartReference, error)
	SetQty(ctx context.Context, accountID, productID string, qty int) ([]CartReference, error)
}
