package reconcile

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/mrops-br/storefront-cart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "iPhone XR", Category: "Phones", Cost: 10, Rating: 4},
		{ID: "p2", Name: "Basketball", Category: "Sports", Cost: 5, Rating: 5},
		{ID: "p3", Name: "Tan Leatherette Weekender Duffle", Category: "Fashion", Cost: 1, Rating: 3},
	}
}

func TestReconcile_WorkedExample(t *testing.T) {
	refs := []domain.CartReference{{ProductID: "p1", Qty: 2}, {ProductID: "p2", Qty: 1}}

	items := Reconcile(refs, sampleCatalog())

	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, 2, items[0].Qty)
	assert.Equal(t, "iPhone XR", items[0].Name)
	assert.Equal(t, "p2", items[1].ID)
	assert.Equal(t, 1, items[1].Qty)
	assert.Equal(t, 25.0, TotalCartValue(items))
	assert.Equal(t, 3, TotalItemCount(items))
}

func TestReconcile_KeepsReferenceOrder(t *testing.T) {
	refs := []domain.CartReference{{ProductID: "p3", Qty: 1}, {ProductID: "p1", Qty: 4}}

	items := Reconcile(refs, sampleCatalog())

	require.Len(t, items, 2)
	assert.Equal(t, "p3", items[0].ID)
	assert.Equal(t, "p1", items[1].ID)
}

func TestReconcile_DropsOrphans(t *testing.T) {
	refs := []domain.CartReference{{ProductID: "gone", Qty: 3}, {ProductID: "p2", Qty: 1}}

	items := Reconcile(refs, sampleCatalog())

	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)
}

func TestReconcile_EmptyCatalog(t *testing.T) {
	refs := []domain.CartReference{{ProductID: "p1", Qty: 1}}

	items := Reconcile(refs, nil)

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestReconcile_SkipsDeletedAndRepeated(t *testing.T) {
	refs := []domain.CartReference{
		{ProductID: "p1", Qty: 0},
		{ProductID: "p2", Qty: 2},
		{ProductID: "p2", Qty: 7},
	}

	items := Reconcile(refs, sampleCatalog())

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Qty)
}

func TestTotals_Empty(t *testing.T) {
	assert.Equal(t, 0.0, TotalCartValue(nil))
	assert.Equal(t, 0, TotalItemCount(nil))
	assert.Equal(t, 0.0, TotalCartValue([]domain.CartLineItem{}))
	assert.Equal(t, 0, TotalItemCount([]domain.CartLineItem{}))
}

func TestReferences(t *testing.T) {
	refs := []domain.CartReference{{ProductID: "p1", Qty: 2}, {ProductID: "p2", Qty: 1}}

	assert.Equal(t, refs, References(Reconcile(refs, sampleCatalog())))
}

// Randomized check of the orphan and idempotence properties.
func TestReconcile_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		var catalog []domain.Product
		inCatalog := map[string]bool{}
		for n := rng.Intn(8); n > 0; n-- {
			id := fmt.Sprintf("p%d", rng.Intn(12))
			catalog = append(catalog, domain.Product{ID: id, Cost: float64(rng.Intn(100))})
			inCatalog[id] = true
		}

		var refs []domain.CartReference
		for n := rng.Intn(8); n > 0; n-- {
			refs = append(refs, domain.CartReference{
				ProductID: fmt.Sprintf("p%d", rng.Intn(12)),
				Qty:       rng.Intn(5) - 1,
			})
		}

		first := Reconcile(refs, catalog)
		second := Reconcile(refs, catalog)
		assert.Equal(t, first, second, "round %d", round)

		for _, item := range first {
			assert.True(t, inCatalog[item.ID], "round %d: orphan %s", round, item.ID)
			assert.Positive(t, item.Qty)
		}
	}
}
