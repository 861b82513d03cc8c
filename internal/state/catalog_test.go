package state

import (
	"testing"

	"github.com/fjod/shop-sphere/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceCatalog_FetchLifecycle(t *testing.T) {
	s := NewAppState().Catalog
	assert.Equal(t, domain.StatusIdle, s.Status)

	s = ReduceCatalog(s, FetchPending{Kind: FetchAll})
	assert.Equal(t, domain.StatusLoading, s.Status)

	s = ReduceCatalog(s, ProductsFetched{Kind: FetchAll, Items: []domain.Product{product(1, 10), product(2, 5)}})
	assert.Equal(t, domain.StatusSucceeded, s.Status)
	assert.Len(t, s.Items, 2)
}

func TestReduceCatalog_SuccessReplacesWholesale(t *testing.T) {
	s := ReduceCatalog(NewAppState().Catalog, ProductsFetched{Items: []domain.Product{product(1, 10), product(2, 5)}})
	s = ReduceCatalog(s, ProductsFetched{Kind: FetchByCategory, Items: []domain.Product{product(9, 1)}})

	require.Len(t, s.Items, 1)
	assert.Equal(t, int64(9), s.Items[0].ID)

	s = ReduceCatalog(s, CategoriesFetched{Categories: []string{"electronics", "jewelery"}})
	assert.Equal(t, []string{"electronics", "jewelery"}, s.Categories)
	assert.Len(t, s.Items, 1)
}

func TestReduceCatalog_FailureKeepsData(t *testing.T) {
	s := ReduceCatalog(NewAppState().Catalog, ProductsFetched{Items: []domain.Product{product(1, 10)}})
	s = ReduceCatalog(s, FetchFailed{Kind: FetchByCategory, Message: "GET /products/category/x: request failed with status code 500"})

	assert.Equal(t, domain.StatusFailed, s.Status)
	assert.Equal(t, "GET /products/category/x: request failed with status code 500", s.Error)
	assert.Len(t, s.Items, 1)
}

func TestReduceCatalog_FallbackMessages(t *testing.T) {
	tests := map[FetchKind]string{
		FetchAll:        "Failed to fetch products",
		FetchByID:       "Failed to fetch product details",
		FetchCategories: "Failed to fetch categories",
		FetchByCategory: "Failed to filter products",
	}
	for kind, want := range tests {
		t.Run(string(kind), func(t *testing.T) {
			s := ReduceCatalog(NewAppState().Catalog, FetchFailed{Kind: kind})
			assert.Equal(t, want, s.Error)
		})
	}
}

func TestReduceCatalog_PendingClearsError(t *testing.T) {
	s := ReduceCatalog(NewAppState().Catalog, FetchFailed{Kind: FetchAll})
	s = ReduceCatalog(s, FetchPending{Kind: FetchCategories})
	assert.Equal(t, domain.StatusLoading, s.Status)
	assert.Empty(t, s.Error)
}

func TestReduceCatalog_SelectedProduct(t *testing.T) {
	p := product(5, 12.5)
	s := ReduceCatalog(NewAppState().Catalog, ProductFetched{Product: p})
	require.NotNil(t, s.SelectedProduct)
	assert.Equal(t, p, *s.SelectedProduct)

	found, ok := s.FindProduct(5)
	assert.True(t, ok)
	assert.Equal(t, p, found)

	s = ReduceCatalog(s, ClearSelectedProduct{})
	assert.Nil(t, s.SelectedProduct)
	_, ok = s.FindProduct(5)
	assert.False(t, ok)
}

func TestCatalogState_FindProductInItems(t *testing.T) {
	s := ReduceCatalog(NewAppState().Catalog, ProductsFetched{Items: []domain.Product{product(1, 10), product(2, 5)}})

	found, ok := s.FindProduct(2)
	assert.True(t, ok)
	assert.Equal(t, 5.0, found.Price)
}
