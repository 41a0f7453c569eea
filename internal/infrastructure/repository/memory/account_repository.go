package memory

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mrops-br/storefront-cart/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBalance is the wallet balance of a newly registered account
const DefaultBalance = 5000

// AccountRepository is an in-memory implementation of domain.AccountRepository.
// Each successful login issues a fresh token; earlier tokens stay valid.
type AccountRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*domain.Account
	byToken    map[string]*domain.Account
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewAccountRepository creates an empty account repository
func NewAccountRepository(tracer trace.Tracer, logger *slog.Logger) *AccountRepository {
	return &AccountRepository{
		byUsername: make(map[string]*domain.Account),
		byToken:    make(map[string]*domain.Account),
		tracer:     tracer,
		logger:     logger,
	}
}

// Create registers a new account
func (r *AccountRepository) Create(ctx context.Context, username, password string) (*domain.Account, error) {
	ctx, span := r.tracer.Start(ctx, "AccountRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("user.name", username))

	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(username)
	if _, exists := r.byUsername[key]; exists {
		span.SetStatus(codes.Error, "Username taken")
		return nil, domain.ErrUsernameTaken
	}

	account := &domain.Account{
		ID:       uuid.NewString(),
		Username: username,
		Password: password,
		Balance:  DefaultBalance,
	}
	r.byUsername[key] = account

	r.logger.InfoContext(ctx, "Account created in repository",
		slog.String("account_id", account.ID),
		slog.String("username", username),
	)

	span.SetStatus(codes.Ok, "Account created")
	copied := *account
	return &copied, nil
}

// Authenticate checks the password and issues a session token
func (r *AccountRepository) Authenticate(ctx context.Context, username, password string) (*domain.Account, error) {
	ctx, span := r.tracer.Start(ctx, "AccountRepository.Authenticate")
	defer span.End()

	span.SetAttributes(attribute.String("user.name", username))

	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.byUsername[strings.ToLower(username)]
	if !exists {
		span.SetStatus(codes.Error, "Unknown user")
		return nil, domain.ErrUserNotFound
	}
	if subtle.ConstantTimeCompare([]byte(account.Password), []byte(password)) != 1 {
		span.SetStatus(codes.Error, "Wrong password")
		r.logger.WarnContext(ctx, "Password mismatch", slog.String("username", username))
		return nil, domain.ErrInvalidPassword
	}

	account.Token = uuid.NewString()
	r.byToken[account.Token] = account

	span.SetStatus(codes.Ok, "Authenticated")
	copied := *account
	return &copied, nil
}

// FindByToken resolves a session token
func (r *AccountRepository) FindByToken(ctx context.Context, token string) (*domain.Account, error) {
	_, span := r.tracer.Start(ctx, "AccountRepository.FindByToken")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.byToken[token]
	if !exists {
		span.SetStatus(codes.Error, "Session not found")
		return nil, domain.ErrSessionNotFound
	}

	span.SetAttributes(attribute.String("account.id", account.ID))
	span.SetStatus(codes.Ok, "Session found")
	copied := *account
	return &copied, nil
}
