package features

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/fjod/shop-sphere/internal/catalog"
	"github.com/fjod/shop-sphere/internal/domain"
	"github.com/fjod/shop-sphere/internal/effects"
	"github.com/fjod/shop-sphere/internal/persist"
	"github.com/fjod/shop-sphere/internal/state"
	"github.com/fjod/shop-sphere/internal/storage"
	"go.uber.org/zap"
)

var (
	allProducts = []domain.Product{
		{ID: 1, Title: "Backpack", Price: 109.95, Category: "men's clothing"},
		{ID: 9, Title: "External Hard Drive", Price: 64, Category: "electronics"},
		{ID: 14, Title: "Monitor", Price: 999.99, Category: "electronics"},
	}
	electronics = []domain.Product{allProducts[1], allProducts[2]}
)

// gatedCatalog holds each call until its gate is closed.
type gatedCatalog struct {
	gates   map[string]chan struct{}
	started chan string
}

func newGatedCatalog() *gatedCatalog {
	return &gatedCatalog{
		gates: map[string]chan struct{}{
			"list":     make(chan struct{}),
			"category": make(chan struct{}),
		},
		started: make(chan string, 2),
	}
}

func (g *gatedCatalog) hold(ctx context.Context, name string) error {
	g.started <- name
	select {
	case <-g.gates[name]:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *gatedCatalog) List(ctx context.Context) ([]domain.Product, error) {
	if err := g.hold(ctx, "list"); err != nil {
		return nil, err
	}
	return allProducts, nil
}

func (g *gatedCatalog) ListByCategory(ctx context.Context, name string) ([]domain.Product, error) {
	if err := g.hold(ctx, "category"); err != nil {
		return nil, err
	}
	if name != "electronics" {
		return []domain.Product{}, nil
	}
	return electronics, nil
}

func (g *gatedCatalog) GetByID(context.Context, int64) (*domain.Product, error) {
	return nil, catalog.ErrNotFound
}

func (g *gatedCatalog) ListCategories(context.Context) ([]string, error) {
	return []string{"electronics", "men's clothing"}, nil
}

type stubAuth struct {
	token string
}

func (s *stubAuth) Login(context.Context, domain.Credentials) (*catalog.LoginResponse, error) {
	if s.token == "" {
		return nil, &catalog.HTTPError{Method: "POST", Path: "/auth/login", StatusCode: 401, Body: "username or password is incorrect"}
	}
	return &catalog.LoginResponse{Token: s.token}, nil
}

func (s *stubAuth) Register(context.Context, domain.SignUpData) (*catalog.RegisterResponse, error) {
	return &catalog.RegisterResponse{ID: 11}, nil
}

type storefrontTestContext struct {
	ctx    context.Context
	cancel context.CancelFunc
	kv     *storage.MemoryStore
	store  *state.Store
	auth   *stubAuth
	policy effects.StalePolicy

	catalogClient *gatedCatalog
	fetches       sync.WaitGroup
	categoryDone  chan struct{}
}

func (c *storefrontTestContext) reset() {
	if c.cancel != nil {
		c.cancel()
	}
	c.ctx, c.cancel = context.WithTimeout(context.Background(), 10*time.Second)
	c.kv = storage.NewMemoryStore()
	c.auth = &stubAuth{}
	c.policy = effects.LastArrivalWins
	c.catalogClient = nil
	c.categoryDone = nil
	c.boot()
}

// boot builds a fresh store hydrated from the shared storage, like a process start.
func (c *storefrontTestContext) boot() {
	p := persist.New(c.kv, zap.NewNop())
	c.store = state.NewStore(p.Hydrate(c.ctx))
	c.store.Subscribe(p.Observe)
}

func (c *storefrontTestContext) anEmptyStore() error {
	c.reset()
	return nil
}

func (c *storefrontTestContext) theAppRestarts() error {
	c.boot()
	return nil
}

func (c *storefrontTestContext) iAddProductPricedAtToTheCart(id int64, price float64) error {
	c.store.Dispatch(state.AddToCart{Product: domain.Product{ID: id, Title: "Product " + strconv.FormatInt(id, 10), Price: price}})
	return nil
}

func (c *storefrontTestContext) iIncreaseProductInTheCart(id int64) error {
	c.store.Dispatch(state.IncreaseCart{ID: id})
	return nil
}

func (c *storefrontTestContext) iDecreaseProductInTheCart(id int64) error {
	c.store.Dispatch(state.DecreaseCart{ID: id})
	return nil
}

func (c *storefrontTestContext) iSetTheQuantityOfProductTo(id int64, qty int) error {
	c.store.Dispatch(state.UpdateCartQuantity{ID: id, Quantity: qty})
	return nil
}

func (c *storefrontTestContext) theCartContains(table *godog.Table) error {
	items := c.store.Snapshot().Cart.Items
	rows := table.Rows[1:]
	if len(items) != len(rows) {
		return fmt.Errorf("expected %d line items, got %d", len(rows), len(items))
	}
	for i, row := range rows {
		id, err := strconv.ParseInt(row.Cells[0].Value, 10, 64)
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return err
		}
		if items[i].ID != id || items[i].CartQuantity != qty {
			return fmt.Errorf("line %d: expected product %d x%d, got product %d x%d",
				i, id, qty, items[i].ID, items[i].CartQuantity)
		}
	}
	return nil
}

func (c *storefrontTestContext) theCartIsEmpty() error {
	if n := len(c.store.Snapshot().Cart.Items); n != 0 {
		return fmt.Errorf("expected an empty cart, got %d line items", n)
	}
	return nil
}

func (c *storefrontTestContext) theCartTotalQuantityIs(expected int) error {
	if got := c.store.Snapshot().Cart.Quantity; got != expected {
		return fmt.Errorf("expected total quantity %d, got %d", expected, got)
	}
	return nil
}

func (c *storefrontTestContext) theCartTotalAmountIs(expected string) error {
	if got := c.store.Snapshot().Cart.Amount.StringFixed(2); got != expected {
		return fmt.Errorf("expected total amount %s, got %s", expected, got)
	}
	return nil
}

func (c *storefrontTestContext) iAddProductToTheWishlist(id int64) error {
	c.store.Dispatch(state.AddToWishlist{Product: domain.Product{ID: id}})
	return nil
}

func (c *storefrontTestContext) iRemoveProductFromTheWishlist(id int64) error {
	c.store.Dispatch(state.RemoveFromWishlist{ID: id})
	return nil
}

func (c *storefrontTestContext) theWishlistHasItems(expected int) error {
	if got := c.store.Snapshot().Wishlist.Count(); got != expected {
		return fmt.Errorf("expected %d wishlist items, got %d", expected, got)
	}
	return nil
}

func (c *storefrontTestContext) theLoginServiceAnswersWithToken(token string) error {
	c.auth.token = token
	return nil
}

func (c *storefrontTestContext) iLogInAs(username string) error {
	a := effects.NewAuth(c.auth, c.store, domain.Credentials{}, zap.NewNop())
	s := a.Login(c.ctx, domain.Credentials{Username: username, Password: "83r5^_"})
	if s.Auth.Error != "" {
		return errors.New(s.Auth.Error)
	}
	return nil
}

func (c *storefrontTestContext) iLogOut() error {
	effects.NewAuth(c.auth, c.store, domain.Credentials{}, zap.NewNop()).Logout()
	return nil
}

func (c *storefrontTestContext) iAmAuthenticatedWithToken(token string) error {
	s := c.store.Snapshot().Auth
	if !s.Authenticated || s.Token != token {
		return fmt.Errorf("expected an authenticated session with token %q, got %+v", token, s)
	}
	return nil
}

func (c *storefrontTestContext) iAmNotAuthenticated() error {
	s := c.store.Snapshot().Auth
	if s.Authenticated || s.Token != "" {
		return fmt.Errorf("expected no session, got %+v", s)
	}
	return nil
}

func (c *storefrontTestContext) storedToken() (string, bool) {
	return storage.NewValue[string](c.kv, persist.KeyToken, zap.NewNop()).Load(c.ctx)
}

func (c *storefrontTestContext) storageHoldsTheToken(token string) error {
	got, ok := c.storedToken()
	if !ok || got != token {
		return fmt.Errorf("expected stored token %q, got %q", token, got)
	}
	return nil
}

func (c *storefrontTestContext) storageHoldsNoToken() error {
	if got, ok := c.storedToken(); ok {
		return fmt.Errorf("expected no stored token, got %q", got)
	}
	return nil
}

func (c *storefrontTestContext) theStalePolicyIs(name string) error {
	switch name {
	case effects.LastArrivalWins.String():
		c.policy = effects.LastArrivalWins
	case effects.DropSuperseded.String():
		c.policy = effects.DropSuperseded
	default:
		return fmt.Errorf("unknown stale policy %q", name)
	}
	return nil
}

func (c *storefrontTestContext) effects() *effects.Catalog {
	if c.catalogClient == nil {
		c.catalogClient = newGatedCatalog()
	}
	return effects.NewCatalog(c.catalogClient, c.store, c.policy, zap.NewNop())
}

func (c *storefrontTestContext) awaitStart(name string) error {
	select {
	case got := <-c.catalogClient.started:
		if got != name {
			return fmt.Errorf("expected %s fetch to start, got %s", name, got)
		}
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

func (c *storefrontTestContext) aFetchOfAllProductsIsInFlight() error {
	eff := c.effects()
	c.fetches.Add(1)
	go func() {
		defer c.fetches.Done()
		eff.FetchProducts(c.ctx)
	}()
	return c.awaitStart("list")
}

func (c *storefrontTestContext) productsInCategoryAreFetchedAndResolveFirst(name string) error {
	eff := c.effects()
	c.categoryDone = make(chan struct{})
	c.fetches.Add(1)
	go func() {
		defer c.fetches.Done()
		defer close(c.categoryDone)
		eff.FetchProductsByCategory(c.ctx, name)
	}()
	if err := c.awaitStart("category"); err != nil {
		return err
	}
	close(c.catalogClient.gates["category"])
	<-c.categoryDone
	return nil
}

func (c *storefrontTestContext) theFetchOfAllProductsResolves() error {
	close(c.catalogClient.gates["list"])
	c.fetches.Wait()
	return nil
}

func (c *storefrontTestContext) theCatalogShowsProducts(expected int) error {
	s := c.store.Snapshot().Catalog
	if s.Status != domain.StatusSucceeded {
		return fmt.Errorf("expected status %s, got %s", domain.StatusSucceeded, s.Status)
	}
	if len(s.Items) != expected {
		return fmt.Errorf("expected %d products, got %d", expected, len(s.Items))
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &storefrontTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.cancel()
		return ctx, nil
	})

	ctx.Step(`^an empty store$`, tc.anEmptyStore)
	ctx.Step(`^the app restarts$`, tc.theAppRestarts)

	ctx.Step(`^I add product (\d+) priced at (\d+(?:\.\d+)?) to the cart$`, tc.iAddProductPricedAtToTheCart)
	ctx.Step(`^I increase product (\d+) in the cart$`, tc.iIncreaseProductInTheCart)
	ctx.Step(`^I decrease product (\d+) in the cart$`, tc.iDecreaseProductInTheCart)
	ctx.Step(`^I set the quantity of product (\d+) to (-?\d+)$`, tc.iSetTheQuantityOfProductTo)
	ctx.Step(`^the cart contains:$`, tc.theCartContains)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the cart total quantity is (\d+)$`, tc.theCartTotalQuantityIs)
	ctx.Step(`^the cart total amount is "([^"]*)"$`, tc.theCartTotalAmountIs)

	ctx.Step(`^I add product (\d+) to the wishlist$`, tc.iAddProductToTheWishlist)
	ctx.Step(`^I remove product (\d+) from the wishlist$`, tc.iRemoveProductFromTheWishlist)
	ctx.Step(`^the wishlist has (\d+) items?$`, tc.theWishlistHasItems)

	ctx.Step(`^the login service answers with token "([^"]*)"$`, tc.theLoginServiceAnswersWithToken)
	ctx.Step(`^I log in as "([^"]*)"$`, tc.iLogInAs)
	ctx.Step(`^I log out$`, tc.iLogOut)
	ctx.Step(`^I am authenticated with token "([^"]*)"$`, tc.iAmAuthenticatedWithToken)
	ctx.Step(`^I am not authenticated$`, tc.iAmNotAuthenticated)
	ctx.Step(`^storage holds the token "([^"]*)"$`, tc.storageHoldsTheToken)
	ctx.Step(`^storage holds no token$`, tc.storageHoldsNoToken)

	ctx.Step(`^the stale policy is "([^"]*)"$`, tc.theStalePolicyIs)
	ctx.Step(`^a fetch of all products is in flight$`, tc.aFetchOfAllProductsIsInFlight)
	ctx.Step(`^products in category "([^"]*)" are fetched and resolve first$`, tc.productsInCategoryAreFetchedAndResolveFirst)
	ctx.Step(`^the fetch of all products resolves$`, tc.theFetchOfAllProductsResolves)
	ctx.Step(`^the catalog shows (\d+) products$`, tc.theCatalogShowsProducts)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"."},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
