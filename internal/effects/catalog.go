package effects

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/fjod/shop-sphere/internal/catalog"
	"github.com/fjod/shop-sphere/internal/domain"
	"github.com/fjod/shop-sphere/internal/state"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const lookupTimeout = 30 * time.Second

// StalePolicy decides what happens when an older fetch resolves after a newer one
// aimed at the same field.
type StalePolicy int

const (
	// LastArrivalWins applies every resolution in arrival order.
	LastArrivalWins StalePolicy = iota
	// DropSuperseded ignores a resolution once a newer fetch of the same field has started.
	DropSuperseded
)

func (p StalePolicy) String() string {
	if p == DropSuperseded {
		return "drop-superseded"
	}
	return "last-arrival-wins"
}

type target int

const (
	targetItems target = iota
	targetSelected
	targetCategories
)

// Catalog runs product fetches against the remote client and feeds the results to the store.
type Catalog struct {
	client CatalogClient
	store  Dispatcher
	policy StalePolicy
	log    *zap.Logger

	generations [3]atomic.Uint64
	lookups     singleflight.Group
}

func NewCatalog(client CatalogClient, store Dispatcher, policy StalePolicy, log *zap.Logger) *Catalog {
	return &Catalog{
		client: client,
		store:  store,
		policy: policy,
		log:    log,
	}
}

func (c *Catalog) FetchProducts(ctx context.Context) state.AppState {
	return c.run(ctx, state.FetchAll, targetItems, func(ctx context.Context) (state.Action, error) {
		items, err := c.client.List(ctx)
		if err != nil {
			return nil, err
		}
		return state.ProductsFetched{Kind: state.FetchAll, Items: items}, nil
	})
}

// FetchProductDetails also returns this call's own outcome, since a concurrent fetch
// of another id may replace the selected product before the caller reads the state.
// An unknown id yields state.ErrProductNotFound.
func (c *Catalog) FetchProductDetails(ctx context.Context, id int64) (domain.Product, state.AppState, error) {
	var (
		product  domain.Product
		fetchErr error
	)
	s := c.run(ctx, state.FetchByID, targetSelected, func(ctx context.Context) (state.Action, error) {
		p, err := c.client.GetByID(ctx, id)
		if err != nil {
			fetchErr = err
			return nil, err
		}
		product = *p
		return state.ProductFetched{Product: *p}, nil
	})
	if errors.Is(fetchErr, catalog.ErrNotFound) {
		return domain.Product{}, s, fmt.Errorf("%w: %d", state.ErrProductNotFound, id)
	}
	if fetchErr != nil {
		return domain.Product{}, s, fmt.Errorf("fetch product %d: %w", id, fetchErr)
	}
	return product, s, nil
}

func (c *Catalog) FetchCategories(ctx context.Context) state.AppState {
	return c.run(ctx, state.FetchCategories, targetCategories, func(ctx context.Context) (state.Action, error) {
		categories, err := c.client.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		return state.CategoriesFetched{Categories: categories}, nil
	})
}

func (c *Catalog) FetchProductsByCategory(ctx context.Context, name string) state.AppState {
	return c.run(ctx, state.FetchByCategory, targetItems, func(ctx context.Context) (state.Action, error) {
		items, err := c.client.ListByCategory(ctx, name)
		if err != nil {
			return nil, err
		}
		return state.ProductsFetched{Kind: state.FetchByCategory, Items: items}, nil
	})
}

// LookupProduct resolves a product for cart and wishlist operations without touching
// the catalog slice: the loaded state first, then the remote client. Concurrent lookups
// of the same id share one request.
func (c *Catalog) LookupProduct(ctx context.Context, id int64) (domain.Product, error) {
	if p, ok := c.store.Snapshot().Catalog.FindProduct(id); ok {
		return p, nil
	}

	// The shared call outlives any single caller; each caller stops waiting on its own ctx.
	ch := c.lookups.DoChan(strconv.FormatInt(id, 10), func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		return c.client.GetByID(shared, id)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return domain.Product{}, fmt.Errorf("lookup product %d: %w", id, ctx.Err())
	}
	v, err := res.Val, res.Err
	if errors.Is(err, catalog.ErrNotFound) {
		return domain.Product{}, fmt.Errorf("%w: %d", state.ErrProductNotFound, id)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("lookup product %d: %w", id, err)
	}
	return *v.(*domain.Product), nil
}

func (c *Catalog) run(ctx context.Context, kind state.FetchKind, t target, call func(context.Context) (state.Action, error)) state.AppState {
	gen := c.generations[t].Add(1)
	c.store.Dispatch(state.FetchPending{Kind: kind})

	action, err := call(ctx)

	if c.policy == DropSuperseded && c.generations[t].Load() != gen {
		c.log.Debug("dropping superseded catalog response",
			zap.String("kind", string(kind)),
			zap.Uint64("generation", gen),
		)
		return c.store.Snapshot()
	}

	if err != nil {
		c.log.Warn("catalog fetch failed", zap.String("kind", string(kind)), zap.Error(err))
		return c.store.Dispatch(state.FetchFailed{Kind: kind, Message: catalogMessage(err)})
	}
	return c.store.Dispatch(action)
}

// catalogMessage keeps the status line of an HTTP failure. Anything else gets the
// kind's fallback message from the reducer.
func catalogMessage(err error) string {
	var httpErr *catalog.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("Request failed with status code %d", httpErr.StatusCode)
	}
	return ""
}
