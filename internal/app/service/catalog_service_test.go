package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mrops-br/storefront-cart/internal/app/catalog"
	"github.com/mrops-br/storefront-cart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(gw *fakeGateway) (*CatalogService, *catalog.Store) {
	store := catalog.NewStore()
	return NewCatalogService(gw, store, nil, testTracer, testMeter, testLogger), store
}

func TestLoadCatalog(t *testing.T) {
	gw := &fakeGateway{products: testCatalog()}
	svc, store := newCatalogFixture(gw)

	products, err := svc.LoadCatalog(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.True(t, store.Loaded())
	assert.Equal(t, products, svc.Filtered())
}

func TestLoadCatalog_FailureKeepsPreviousCatalog(t *testing.T) {
	gw := &fakeGateway{products: testCatalog()}
	svc, store := newCatalogFixture(gw)
	_, err := svc.LoadCatalog(context.Background())
	require.NoError(t, err)

	gw.catalogErr = domain.NewFailure(domain.KindServerError, "", 500, nil)
	_, err = svc.LoadCatalog(context.Background())

	assert.ErrorIs(t, err, domain.ErrServerError)
	assert.Len(t, store.All(), 3)
}

func TestSearch_InstallsResult(t *testing.T) {
	gw := &fakeGateway{
		products: testCatalog(),
		search: func(query string) ([]domain.Product, error) {
			return []domain.Product{testCatalog()[1]}, nil
		},
	}
	svc, store := newCatalogFixture(gw)
	_, err := svc.LoadCatalog(context.Background())
	require.NoError(t, err)

	products, err := svc.Search(context.Background(), "ball")

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p2", products[0].ID)
	assert.Len(t, store.All(), 3)
}

func TestSearch_EmptyResult(t *testing.T) {
	gw := &fakeGateway{products: testCatalog()}
	svc, _ := newCatalogFixture(gw)
	_, err := svc.LoadCatalog(context.Background())
	require.NoError(t, err)

	products, err := svc.Search(context.Background(), "nothing-matches")

	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Empty(t, svc.Filtered())
}

func TestSearch_ServerFaultFallsBackToFullCatalog(t *testing.T) {
	gw := &fakeGateway{
		products: testCatalog(),
		search: func(string) ([]domain.Product, error) {
			return nil, domain.NewFailure(domain.KindServerError, "", 500, nil)
		},
	}
	svc, store := newCatalogFixture(gw)
	_, err := svc.LoadCatalog(context.Background())
	require.NoError(t, err)
	store.SetFiltered(testCatalog()[:1])

	products, err := svc.Search(context.Background(), "phone")

	assert.ErrorIs(t, err, domain.ErrServerError)
	assert.Len(t, products, 3)
	assert.Len(t, svc.Filtered(), 3)
}

func TestSearch_NetworkErrorLeavesView(t *testing.T) {
	gw := &fakeGateway{
		products: testCatalog(),
		search: func(string) ([]domain.Product, error) {
			return nil, domain.NewFailure(domain.KindNetworkError, "", 0, nil)
		},
	}
	svc, store := newCatalogFixture(gw)
	_, err := svc.LoadCatalog(context.Background())
	require.NoError(t, err)
	store.SetFiltered(testCatalog()[:1])

	products, err := svc.Search(context.Background(), "phone")

	assert.ErrorIs(t, err, domain.ErrNetworkError)
	assert.Nil(t, products)
	assert.Len(t, svc.Filtered(), 1)
}

func TestSearch_StaleResponseNotInstalled(t *testing.T) {
	slowEntered := make(chan struct{})
	slowRelease := make(chan struct{})
	gw := &fakeGateway{
		search: func(query string) ([]domain.Product, error) {
			if query == "slow" {
				close(slowEntered)
				<-slowRelease
				return []domain.Product{{ID: "stale"}}, nil
			}
			return []domain.Product{{ID: "fresh"}}, nil
		},
	}
	svc, _ := newCatalogFixture(gw)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Search(ctx, "slow")
		assert.NoError(t, err)
	}()
	<-slowEntered

	_, err := svc.Search(ctx, "fast")
	require.NoError(t, err)

	close(slowRelease)
	wg.Wait()

	require.Len(t, svc.Filtered(), 1)
	assert.Equal(t, "fresh", svc.Filtered()[0].ID)
}

func TestSearchDebouncer_RapidInputSearchesOnceWithLastText(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newCatalogFixture(gw)

	results := make(chan string, 4)
	d := svc.NewSearchDebouncer(context.Background(), 50*time.Millisecond,
		func(query string, _ []domain.Product, err error) {
			assert.NoError(t, err)
			results <- query
		})
	defer d.Stop()

	d.OnInput("b")
	d.OnInput("ba")
	d.OnInput("bas")

	select {
	case q := <-results:
		assert.Equal(t, "bas", q)
	case <-time.After(time.Second):
		t.Fatal("debounced search never fired")
	}

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []string{"bas"}, gw.searchLog())
}
