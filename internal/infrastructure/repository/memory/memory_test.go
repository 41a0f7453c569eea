package memory

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mrops-br/storefront-cart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

var (
	testTracer = tracenoop.NewTracerProvider().Tracer("test")
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func TestProductRepository(t *testing.T) {
	seed := DefaultCatalog()
	repo := NewProductRepository(append(seed, seed[0]), testTracer, testLogger)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed, all, "seed order kept, duplicate ids dropped")

	p, err := repo.FindByID(ctx, "upLK9JbQ4rMhTwt4")
	require.NoError(t, err)
	assert.Equal(t, "Basketball", p.Name)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	found, err := repo.Search(ctx, "FASHION")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.Search(ctx, "no such thing")
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestDefaultCatalogIsValid(t *testing.T) {
	for _, p := range DefaultCatalog() {
		assert.NoError(t, p.Validate(), p.ID)
	}
}

func TestAccountRepository(t *testing.T) {
	repo := NewAccountRepository(testTracer, testLogger)
	ctx := context.Background()

	created, err := repo.Create(ctx, "crio.do", "learnbydoing")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, float64(DefaultBalance), created.Balance)

	_, err = repo.Create(ctx, "CRIO.DO", "other-password")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = repo.Authenticate(ctx, "nobody", "learnbydoing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.Authenticate(ctx, "crio.do", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	first, err := repo.Authenticate(ctx, "crio.do", "learnbydoing")
	require.NoError(t, err)
	second, err := repo.Authenticate(ctx, "crio.do", "learnbydoing")
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	for _, token := range []string{first.Token, second.Token} {
		account, err := repo.FindByToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, created.ID, account.ID)
	}

	_, err = repo.FindByToken(ctx, "forged")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestCartRepository_SetQty(t *testing.T) {
	repo := NewCartRepository(testTracer, testLogger)
	ctx := context.Background()

	refs, err := repo.Get(ctx, "acct")
	require.NoError(t, err)
	assert.Empty(t, refs)

	_, err = repo.SetQty(ctx, "acct", "a", 1)
	require.NoError(t, err)
	refs, err = repo.SetQty(ctx, "acct", "b", 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartReference{{ProductID: "a", Qty: 1}, {ProductID: "b", Qty: 2}}, refs)

	refs, err = repo.SetQty(ctx, "acct", "a", 5)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartReference{{ProductID: "a", Qty: 5}, {ProductID: "b", Qty: 2}}, refs, "absolute, position kept")

	refs, err = repo.SetQty(ctx, "acct", "a", 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartReference{{ProductID: "b", Qty: 2}}, refs)

	refs, err = repo.SetQty(ctx, "acct", "missing", -1)
	require.NoError(t, err)
	assert.Len(t, refs, 1)

	other, err := repo.Get(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCartRepository_ReturnsCopies(t *testing.T) {
	repo := NewCartRepository(testTracer, testLogger)
	ctx := context.Background()

	refs, err := repo.SetQty(ctx, "acct", "a", 1)
	require.NoError(t, err)
	refs[0].Qty = 99

	stored, err := repo.Get(ctx, "acct")
	require.NoError(t, err)
	assert.Equal(t, 1, stored[0].Qty)
}
