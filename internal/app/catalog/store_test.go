package catalog

import (
	"testing"

	"github.com/mrops-br/storefront-cart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReplaceAndFilter(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Loaded())
	assert.Empty(t, s.All())

	products := []domain.Product{
		{ID: "p1", Name: "iPhone XR", Category: "Phones"},
		{ID: "p2", Name: "Basketball", Category: "Sports"},
	}
	s.Replace(products)

	assert.True(t, s.Loaded())
	assert.Equal(t, products, s.All())
	assert.Equal(t, products, s.Filtered())

	s.SetFiltered(products[1:])
	require.Len(t, s.Filtered(), 1)
	assert.Equal(t, "p2", s.Filtered()[0].ID)
	assert.Len(t, s.All(), 2)

	s.ResetFilter()
	assert.Len(t, s.Filtered(), 2)
}

func TestStore_ReplaceCopiesInput(t *testing.T) {
	s := NewStore()
	products := []domain.Product{{ID: "p1", Name: "before"}}
	s.Replace(products)

	products[0].Name = "after"

	assert.Equal(t, "before", s.All()[0].Name)
}

func TestStore_Lookup(t *testing.T) {
	s := NewStore()
	s.Replace([]domain.Product{{ID: "p1", Cost: 10}, {ID: "p2", Cost: 5}})

	p, ok := s.Lookup("p2")
	require.True(t, ok)
	assert.Equal(t, 5.0, p.Cost)

	_, ok = s.Lookup("missing")
	assert.False(t, ok)
}

func TestStore_SetFilteredEmpty(t *testing.T) {
	s := NewStore()
	s.Replace([]domain.Product{{ID: "p1"}})

	s.SetFiltered(nil)

	assert.NotNil(t, s.Filtered())
	assert.Empty(t, s.Filtered())
}
