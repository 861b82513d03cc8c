package state

import (
	"errors"
	"slices"

	"github.com/fjod/shop-sphere/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogState tracks a single status shared by every fetch kind; the most recent
// transition wins regardless of which fetch caused it.
type CatalogState struct {
	Items           []domain.Product     `json:"items"`
	SelectedProduct *domain.Product      `json:"selectedProduct"`
	Categories      []string             `json:"categories"`
	Status          domain.RequestStatus `json:"status"`
	Error           string               `json:"error,omitempty"`
}

// FallbackMessage is recorded when a failed fetch carries no message of its own.
func FallbackMessage(kind FetchKind) string {
	switch kind {
	case FetchByID:
		return "Failed to fetch product details"
	case FetchCategories:
		return "Failed to fetch categories"
	case FetchByCategory:
		return "Failed to filter products"
	default:
		return "Failed to fetch products"
	}
}

func ReduceCatalog(s CatalogState, action Action) CatalogState {
	switch a := action.(type) {
	case FetchPending:
		s.Status = domain.StatusLoading
		s.Error = ""
	case ProductsFetched:
		s.Status = domain.StatusSucceeded
		s.Items = nonNil(a.Items)
	case ProductFetched:
		p := a.Product
		s.Status = domain.StatusSucceeded
		s.SelectedProduct = &p
	case CategoriesFetched:
		s.Status = domain.StatusSucceeded
		s.Categories = nonNil(a.Categories)
	case FetchFailed:
		s.Status = domain.StatusFailed
		s.Error = a.Message
		if s.Error == "" {
			s.Error = FallbackMessage(a.Kind)
		}
	case ClearSelectedProduct:
		s.SelectedProduct = nil
	}
	return s
}

// FindProduct looks through the loaded list, then the selected product.
func (s CatalogState) FindProduct(id int64) (domain.Product, bool) {
	i := slices.IndexFunc(s.Items, func(p domain.Product) bool { return p.ID == id })
	if i >= 0 {
		return s.Items[i], true
	}
	if s.SelectedProduct != nil && s.SelectedProduct.ID == id {
		return *s.SelectedProduct, true
	}
	return domain.Product{}, false
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
