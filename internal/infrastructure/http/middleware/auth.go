package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mrops-br/storefront-cart/internal/domain"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/http/response"
)

type accountKey struct{}

// WithAccount stores the authenticated account in ctx
func WithAccount(ctx context.Context, account *domain.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, account)
}

// AccountFromContext returns the account set by BearerAuth
func AccountFromContext(ctx context.Context) (*domain.Account, bool) {
	account, ok := ctx.Value(accountKey{}).(*domain.Account)
	return account, ok
}

// BearerAuth resolves the Authorization bearer token to an account and
// answers 401 when it is missing or unknown.
func BearerAuth(accounts domain.AccountRepository, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.Error(w, http.StatusUnauthorized, domain.ErrSessionNotFound)
				return
			}

			account, err := accounts.FindByToken(r.Context(), token)
			if err != nil {
				logger.WarnContext(r.Context(), "Rejected bearer token",
					slog.String("error", err.Error()),
				)
				response.Error(w, http.StatusUnauthorized, domain.ErrSessionNotFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
