package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/repository"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCartStore keeps snapshots in memory, one per user, like the carts
// collection.
type fakeCartStore struct {
	carts    map[string][]model.CartLine
	failNext bool
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string][]model.CartLine)}
}

func (f *fakeCartStore) Get(_ context.Context, userID string) ([]model.CartLine, error) {
	lines, ok := f.carts[userID]
	if !ok {
		return []model.CartLine{}, nil
	}
	out := make([]model.CartLine, len(lines))
	copy(out, lines)
	return out, nil
}

func (f *fakeCartStore) Replace(_ context.Context, userID string, lines []model.CartLine) error {
	if f.failNext {
		f.failNext = false
		return errors.New("backend unavailable")
	}
	snap := make([]model.CartLine, len(lines))
	copy(snap, lines)
	f.carts[userID] = snap
	return nil
}

type fakeCatalog struct {
	products map[string]*model.Product
	failWith error
}

func newFakeCatalog(ps ...*model.Product) *fakeCatalog {
	m := make(map[string]*model.Product)
	for _, p := range ps {
		m[p.ProductID] = p
	}
	return &fakeCatalog{products: m}
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (*model.Product, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func flatProduct(id, priceBRL, priceUSD string) *model.Product {
	return &model.Product{
		ProductID: id,
		Name:      "Savage Clear " + id,
		Category:  model.CategorySavage,
		InStock:   true,
		Flat: &model.FlatPricing{
			PriceBRL: decimal.RequireFromString(priceBRL),
			PriceUSD: decimal.RequireFromString(priceUSD),
		},
	}
}

const testUser = "user-1"

func newCartService(ps ...*model.Product) (*services.CartService, *fakeCartStore) {
	store := newFakeCartStore()
	return services.NewCartService(store, newFakeCatalog(ps...), nil), store
}

func TestAddLevelingMergeRules(t *testing.T) {
	t.Parallel()

	svc, _ := newCartService(levelingProduct())
	ctx := context.Background()

	req := services.AddRequest{ProductID: "lvl-1", Job: "WAR", StartLevel: 1, EndLevel: 50}
	require.NoError(t, svc.Add(ctx, testUser, req))

	// same product, distinct job -> second line
	req.Job = "WHM"
	require.NoError(t, svc.Add(ctx, testUser, req))

	cart, err := svc.Get(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	// same product, same job -> rejected, cart unchanged
	err = svc.Add(ctx, testUser, services.AddRequest{ProductID: "lvl-1", Job: "WAR", StartLevel: 60, EndLevel: 70})
	assert.ErrorIs(t, err, services.ErrDuplicateJob)

	cart, err = svc.Get(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestAddLevelingValidatesJob(t *testing.T) {
	t.Parallel()

	svc, _ := newCartService(levelingProduct())
	ctx := context.Background()

	err := svc.Add(ctx, testUser, services.AddRequest{ProductID: "lvl-1", StartLevel: 1, EndLevel: 50})
	assert.Error(t, err)

	err = svc.Add(ctx, testUser, services.AddRequest{ProductID: "lvl-1", Job: "BRD", StartLevel: 1, EndLevel: 50})
	assert.Error(t, err)
}

func TestAddFlatMergesQuantity(t *testing.T) {
	t.Parallel()

	svc, _ := newCartService(flatProduct("sav-1", "100.00", "20.00"))
	ctx := context.Background()

	req := services.AddRequest{ProductID: "sav-1"}
	require.NoError(t, svc.Add(ctx, testUser, req))
	require.NoError(t, svc.Add(ctx, testUser, req))

	cart, err := svc.Get(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "200.00", cart.TotalBRL)
}

func TestAddGilNeverMergesAndGuardsPool(t *testing.T) {
	t.Parallel()

	svc, _ := newCartService(gilProduct("100", "40"))
	ctx := context.Background()

	// 61 > 100-40 remaining
	err := svc.Add(ctx, testUser, services.AddRequest{ProductID: "gil-1", GilAmount: decimal.RequireFromString("61")})
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	// 60 exactly drains what remains
	require.NoError(t, svc.Add(ctx, testUser, services.AddRequest{ProductID: "gil-1", GilAmount: decimal.RequireFromString("60")}))

	// carted lines count against the pool: 1 more is too much
	err = svc.Add(ctx, testUser, services.AddRequest{ProductID: "gil-1", GilAmount: decimal.RequireFromString("1")})
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	cart, err := svc.Get(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, int64(60_000_000), cart.Items[0].TotalGil)
	assert.Equal(t, "300.00", cart.TotalUSD)
}

func TestAddGilDistinctDrawsAreDistinctLines(t *testing.T) {
	t.Parallel()

	svc, _ := newCartService(gilProduct("100", "0"))
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, testUser, services.AddRequest{ProductID: "gil-1", GilAmount: decimal.RequireFromString("10")}))
	require.NoError(t, svc.Add(ctx, testUser, services.AddRequest{ProductID: "gil-1", GilAmount: decimal.RequireFromString("10")}))

	cart, err := svc.Get(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.NotEqual(t, cart.Items[0].LineID, cart.Items[1].LineID)
}

func TestAddOutOfStockRejected(t *testing.T) {
	t.Parallel()

	p := flatProduct("sav-1", "100.00", "20.00")
	p.InStock = false
	svc, _ := newCartService(p)

	err := svc.Add(context.Background(), testUser, services.AddRequest{ProductID: "sav-1"})
	assert.ErrorIs(t, err, services.ErrOutOfStock)
}

func TestUpdateQuantity(t *testing.T) {
	t.Parallel()

	svc, _ := newCartService(flatProduct("sav-1", "100.00", "20.00"), gilProduct("100", "0"))
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, testUser, services.AddRequest{ProductID: "sav-1"}))
	require.NoError(t, svc.Add(ctx, testUser, services.AddRequest{ProductID: "gil-1", GilAmount: decimal.RequireFromString("5")}))

	cart, err := svc.Get(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	flatLine, gilLine := cart.Items[0], cart.Items[1]

	require.NoError(t, svc.UpdateQuantity(ctx, testUser, flatLine.LineID, 5))
	cart, err = svc.Get(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	// gil lines have fixed quantity
	assert.Error(t, svc.UpdateQuantity(ctx, testUser, gilLine.LineID, 2))

	// qty < 1 removes
	require.NoError(t, svc.UpdateQuantity(ctx, testUser, flatLine.LineID, 0))
	cart, err = svc.Get(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestRemoveAndClear(t *testing.T) {
	t.Parallel()

	svc, store := newCartService(flatProduct("sav-1", "100.00", "20.00"))
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, testUser, services.AddRequest{ProductID: "sav-1"}))
	cart, err := svc.Get(ctx, testUser)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, testUser, cart.Items[0].LineID))
	assert.Empty(t, store.carts[testUser])

	require.NoError(t, svc.Add(ctx, testUser, services.AddRequest{ProductID: "sav-1"}))
	require.NoError(t, svc.Clear(ctx, testUser))
	assert.Empty(t, store.carts[testUser])
}

func TestLoadPrunesStaleLines(t *testing.T) {
	t.Parallel()

	stale := flatProduct("sav-2", "80.00", "16.00")
	svc, store := newCartService(flatProduct("sav-1", "100.00", "20.00"), stale)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, testUser, services.AddRequest{ProductID: "sav-1"}))
	require.NoError(t, svc.Add(ctx, testUser, services.AddRequest{ProductID: "sav-2"}))

	// product goes out of stock after being carted
	stale.InStock = false

	cart, err := svc.Load(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "sav-1", cart.Items[0].ProductID)
	assert.Equal(t, []string{stale.Name}, cart.RemovedLines)

	// pruned snapshot was persisted
	assert.Len(t, store.carts[testUser], 1)
}

func TestLoadPrunesDeletedProducts(t *testing.T) {
	t.Parallel()

	store := newFakeCartStore()
	catalog := newFakeCatalog(flatProduct("sav-1", "100.00", "20.00"), flatProduct("sav-2", "80.00", "16.00"))
	svc := services.NewCartService(store, catalog, nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, testUser, services.AddRequest{ProductID: "sav-1"}))
	require.NoError(t, svc.Add(ctx, testUser, services.AddRequest{ProductID: "sav-2"}))

	// product deleted from the catalog after being carted
	delete(catalog.products, "sav-2")

	cart, err := svc.Load(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "sav-1", cart.Items[0].ProductID)
	assert.Equal(t, []string{"Savage Clear sav-2"}, cart.RemovedLines)
	assert.Len(t, store.carts[testUser], 1)
}

func TestLoadAbortsOnCatalogFailure(t *testing.T) {
	t.Parallel()

	store := newFakeCartStore()
	catalog := newFakeCatalog(flatProduct("sav-1", "100.00", "20.00"))
	svc := services.NewCartService(store, catalog, nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, testUser, services.AddRequest{ProductID: "sav-1"}))

	// a backend outage is not "product gone": no pruning, error surfaces
	catalog.failWith = errors.New("connection refused")
	_, err := svc.Load(ctx, testUser)
	require.Error(t, err)
	assert.Len(t, store.carts[testUser], 1)

	// the cart is intact once the backend recovers
	catalog.failWith = nil
	cart, err := svc.Load(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Empty(t, cart.RemovedLines)
}

func TestAddSurfacesPersistenceFailure(t *testing.T) {
	t.Parallel()

	store := newFakeCartStore()
	svc := services.NewCartService(store, newFakeCatalog(flatProduct("sav-1", "100.00", "20.00")), nil)

	store.failNext = true
	err := svc.Add(context.Background(), testUser, services.AddRequest{ProductID: "sav-1"})
	require.Error(t, err)

	// nothing half-written
	assert.Empty(t, store.carts[testUser])
}

func TestGilDecrements(t *testing.T) {
	t.Parallel()

	lines := []model.CartLine{
		{ProductID: "sav-1", Category: model.CategorySavage, Quantity: 2},
		{ProductID: "gil-1", Category: model.CategoryGil, GilAmount: decimal.RequireFromString("10")},
		{ProductID: "gil-1", Category: model.CategoryGil, GilAmount: decimal.RequireFromString("5")},
	}

	decs := services.GilDecrements(lines)
	require.Len(t, decs, 2)
	assert.Equal(t, "gil-1", decs[0].ProductID)
	assert.Equal(t, "10", decs[0].Amount.String())
	assert.Equal(t, "5", decs[1].Amount.String())
}
