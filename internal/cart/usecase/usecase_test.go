package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifmaliki/shopcore/internal/auth"
	"github.com/hanifmaliki/shopcore/internal/cart/dto"
	"github.com/hanifmaliki/shopcore/internal/inventory"
	invdto "github.com/hanifmaliki/shopcore/internal/inventory/dto"
	"github.com/hanifmaliki/shopcore/internal/model"
	"github.com/hanifmaliki/shopcore/internal/product"
	"github.com/hanifmaliki/shopcore/pkg/logger"
)

// ---- fakes ----

type fakeCartStore struct {
	carts map[string]*model.Cart // by cart id
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[string]*model.Cart{}}
}

func (r *fakeCartStore) GetByUser(_ context.Context, userID string) (*model.Cart, error) {
	for _, c := range r.carts {
		if c.UserID != nil && *c.UserID == userID {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCartStore) GetBySession(_ context.Context, sessionID string) (*model.Cart, error) {
	for _, c := range r.carts {
		if c.SessionID != nil && *c.SessionID == sessionID {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCartStore) GetByID(_ context.Context, id string) (*model.Cart, error) {
	return r.carts[id], nil
}

func (r *fakeCartStore) Create(_ context.Context, c *model.Cart) error {
	r.carts[c.ID] = c
	return nil
}

func (r *fakeCartStore) GetItemByID(_ context.Context, itemID string) (*model.CartItem, error) {
	for _, c := range r.carts {
		for i := range c.Items {
			if c.Items[i].ID == itemID {
				return &c.Items[i], nil
			}
		}
	}
	return nil, nil
}

func (r *fakeCartStore) InsertItem(_ context.Context, item *model.CartItem) error {
	c, ok := r.carts[item.CartID]
	if !ok {
		return nil
	}
	c.Items = append(c.Items, *item)
	return nil
}

func (r *fakeCartStore) UpdateItemQuantity(_ context.Context, itemID string, qty int) error {
	for _, c := range r.carts {
		for i := range c.Items {
			if c.Items[i].ID == itemID {
				c.Items[i].Quantity = qty
				return nil
			}
		}
	}
	return nil
}

func (r *fakeCartStore) DeleteItem(_ context.Context, itemID string) error {
	for _, c := range r.carts {
		for i := range c.Items {
			if c.Items[i].ID == itemID {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *fakeCartStore) ClearItems(_ context.Context, cartID string) error {
	if c, ok := r.carts[cartID]; ok {
		c.Items = nil
	}
	return nil
}

func (r *fakeCartStore) DeleteCart(_ context.Context, cartID string) error {
	delete(r.carts, cartID)
	return nil
}

type fakeCatalog struct {
	products map[string]*model.Product
}

func (f *fakeCatalog) FindByID(_ context.Context, id string) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeCatalog) FindByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) FindVariant(_ context.Context, productID, variantID string) (*model.ProductVariant, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i], nil
		}
	}
	return nil, product.ErrVariantNotFound
}

// stockReader serves GetStock from a fixed availability table; the other
// ledger operations are unused by the cart.
type stockReader struct {
	available map[string]int
}

func stockKey(productID string, variantID *string) string {
	if variantID == nil {
		return productID
	}
	return productID + "/" + *variantID
}

func (f *stockReader) GetStock(_ context.Context, productID string, variantID *string) (*model.InventoryRecord, error) {
	return &model.InventoryRecord{
		ProductID: productID,
		VariantID: variantID,
		Quantity:  f.available[stockKey(productID, variantID)],
	}, nil
}

func (f *stockReader) Reserve(_ context.Context, _ string, _ *string, _ int) error { return nil }

func (f *stockReader) Release(_ context.Context, _ string, _ *string, _ int) error { return nil }

func (f *stockReader) ConfirmReservation(_ context.Context, _ string, _ *string, _ int, _ string) error {
	return nil
}

func (f *stockReader) AdjustQuantity(_ context.Context, _ *invdto.AdjustQuantityInput) (*model.InventoryRecord, error) {
	return nil, nil
}

func (f *stockReader) CanFulfill(_ context.Context, _ string, _ *string, _ int) (bool, error) {
	return true, nil
}

func (f *stockReader) ListLowStock(_ context.Context, _, _ int) ([]model.InventoryRecord, int, error) {
	return nil, 0, nil
}

func (f *stockReader) ListMovements(_ context.Context, _ *invdto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return nil, 0, nil
}

// ---- fixtures ----

type cartFixture struct {
	store   *fakeCartStore
	catalog *fakeCatalog
	stock   *stockReader
	uc      *cartUseCase
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		store:   newFakeCartStore(),
		catalog: &fakeCatalog{products: map[string]*model.Product{}},
		stock:   &stockReader{available: map[string]int{}},
	}
	f.catalog.products["p1"] = &model.Product{
		BaseModel:      model.BaseModel{ID: "p1"},
		SKU:            "COF-001",
		Name:           "Arabica Beans 1kg",
		BasePrice:      50000,
		WeightGrams:    1000,
		TrackInventory: true,
		IsActive:       true,
	}
	f.catalog.products["p2"] = &model.Product{
		BaseModel:      model.BaseModel{ID: "p2"},
		SKU:            "GRD",
		Name:           "Grinder",
		BasePrice:      90000,
		WeightGrams:    1500,
		HasVariants:    true,
		TrackInventory: true,
		IsActive:       true,
		Variants: []model.ProductVariant{{
			BaseModel:       model.BaseModel{ID: "v1"},
			ProductID:       "p2",
			SKU:             "GRD-XL",
			VariantName:     "XL",
			PriceAdjustment: 10000,
			IsActive:        true,
		}},
	}
	f.stock.available["p1"] = 10
	f.stock.available["p2/v1"] = 5
	f.uc = NewCartUseCase(f.store, f.catalog, f.stock, logger.NewNop()).(*cartUseCase)
	return f
}

func strPtr(s string) *string { return &s }

func (f *cartFixture) seedGuestCart(sessionID string, items ...model.CartItem) *model.Cart {
	c := &model.Cart{
		BaseModel: model.BaseModel{ID: uuid.New().String()},
		SessionID: strPtr(sessionID),
	}
	for i := range items {
		items[i].ID = uuid.New().String()
		items[i].CartID = c.ID
	}
	c.Items = items
	f.store.carts[c.ID] = c
	return c
}

// ---- tests ----

func TestAddItem(t *testing.T) {
	ctx := context.Background()
	owner := auth.Owner{UserID: "u1"}

	t.Run("creates cart lazily and snapshots price", func(t *testing.T) {
		f := newCartFixture()

		c, err := f.uc.AddItem(ctx, owner, &dto.AddItemInput{ProductID: "p1", Quantity: 2})
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, int64(50000), c.Items[0].Price)
		assert.Equal(t, "COF-001", c.Items[0].SKU)
		assert.Equal(t, 1000, c.Items[0].WeightGrams)
		assert.Equal(t, int64(100000), c.Subtotal())
	})

	t.Run("variant line uses variant sku and adjusted price", func(t *testing.T) {
		f := newCartFixture()

		c, err := f.uc.AddItem(ctx, owner, &dto.AddItemInput{ProductID: "p2", VariantID: strPtr("v1"), Quantity: 1})
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, "GRD-XL", c.Items[0].SKU)
		assert.Equal(t, int64(100000), c.Items[0].Price)
	})

	t.Run("same pair merges into one line, price stays locked", func(t *testing.T) {
		f := newCartFixture()

		_, err := f.uc.AddItem(ctx, owner, &dto.AddItemInput{ProductID: "p1", Quantity: 2})
		require.NoError(t, err)

		// Catalog price changes between adds; the line keeps the first price.
		f.catalog.products["p1"].BasePrice = 60000

		c, err := f.uc.AddItem(ctx, owner, &dto.AddItemInput{ProductID: "p1", Quantity: 3})
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, 5, c.Items[0].Quantity)
		assert.Equal(t, int64(50000), c.Items[0].Price)
	})

	t.Run("merged quantity is checked against stock", func(t *testing.T) {
		f := newCartFixture()

		_, err := f.uc.AddItem(ctx, owner, &dto.AddItemInput{ProductID: "p1", Quantity: 8})
		require.NoError(t, err)

		_, err = f.uc.AddItem(ctx, owner, &dto.AddItemInput{ProductID: "p1", Quantity: 3})
		require.Error(t, err)
		var insuff *inventory.InsufficientStockError
		require.ErrorAs(t, err, &insuff)
		assert.Equal(t, 11, insuff.Requested)
		assert.Equal(t, 10, insuff.Available)
	})

	t.Run("untracked product skips the stock check", func(t *testing.T) {
		f := newCartFixture()
		f.catalog.products["p1"].TrackInventory = false
		f.stock.available["p1"] = 0

		_, err := f.uc.AddItem(ctx, owner, &dto.AddItemInput{ProductID: "p1", Quantity: 99})
		assert.NoError(t, err)
	})

	t.Run("inactive product is rejected", func(t *testing.T) {
		f := newCartFixture()
		f.catalog.products["p1"].IsActive = false

		_, err := f.uc.AddItem(ctx, owner, &dto.AddItemInput{ProductID: "p1", Quantity: 1})
		assert.ErrorIs(t, err, ErrProductInactive)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newCartFixture()
		_, err := f.uc.AddItem(ctx, owner, &dto.AddItemInput{ProductID: "ghost", Quantity: 1})
		assert.ErrorIs(t, err, product.ErrProductNotFound)
	})

	t.Run("quantity below one is rejected", func(t *testing.T) {
		f := newCartFixture()
		_, err := f.uc.AddItem(ctx, owner, &dto.AddItemInput{ProductID: "p1", Quantity: 0})
		assert.Error(t, err)
	})
}

func TestUpdateItemQuantity(t *testing.T) {
	ctx := context.Background()
	owner := auth.Owner{UserID: "u1"}

	f := newCartFixture()
	c, err := f.uc.AddItem(ctx, owner, &dto.AddItemInput{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	itemID := c.Items[0].ID

	// The new absolute quantity is what gets checked, not the delta.
	require.NoError(t, f.uc.UpdateItemQuantity(ctx, itemID, 10))

	err = f.uc.UpdateItemQuantity(ctx, itemID, 11)
	var insuff *inventory.InsufficientStockError
	require.ErrorAs(t, err, &insuff)
	assert.Equal(t, 11, insuff.Requested)

	assert.Error(t, f.uc.UpdateItemQuantity(ctx, itemID, 0))
}

func TestGetCart(t *testing.T) {
	ctx := context.Background()

	f := newCartFixture()
	c, err := f.uc.GetCart(ctx, auth.Owner{UserID: "nobody"})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Empty(t, c.Items)
}

func TestMergeGuestCart(t *testing.T) {
	ctx := context.Background()

	t.Run("guest lines move into the user cart", func(t *testing.T) {
		f := newCartFixture()
		guest := f.seedGuestCart("sess-1",
			model.CartItem{ProductID: "p1", ProductName: "Arabica Beans 1kg", SKU: "COF-001", Quantity: 2, Price: 50000, WeightGrams: 1000},
			model.CartItem{ProductID: "p2", VariantID: strPtr("v1"), ProductName: "Grinder", SKU: "GRD-XL", Quantity: 1, Price: 100000, WeightGrams: 1500},
		)

		skipped, err := f.uc.MergeGuestCart(ctx, "sess-1", "u1")
		require.NoError(t, err)
		assert.Equal(t, 0, skipped)

		userCart, err := f.store.GetByUser(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, userCart)
		assert.Len(t, userCart.Items, 2)

		// Guest cart is gone after the merge.
		assert.NotContains(t, f.store.carts, guest.ID)
	})

	t.Run("overlapping lines merge quantities", func(t *testing.T) {
		f := newCartFixture()
		_, err := f.uc.AddItem(ctx, auth.Owner{UserID: "u1"}, &dto.AddItemInput{ProductID: "p1", Quantity: 2})
		require.NoError(t, err)
		f.seedGuestCart("sess-1",
			model.CartItem{ProductID: "p1", ProductName: "Arabica Beans 1kg", SKU: "COF-001", Quantity: 3, Price: 50000, WeightGrams: 1000},
		)

		skipped, err := f.uc.MergeGuestCart(ctx, "sess-1", "u1")
		require.NoError(t, err)
		assert.Equal(t, 0, skipped)

		userCart, _ := f.store.GetByUser(ctx, "u1")
		require.Len(t, userCart.Items, 1)
		assert.Equal(t, 5, userCart.Items[0].Quantity)
	})

	t.Run("unmergeable lines are skipped not fatal", func(t *testing.T) {
		f := newCartFixture()
		f.stock.available["p2/v1"] = 0
		f.seedGuestCart("sess-1",
			model.CartItem{ProductID: "p1", ProductName: "Arabica Beans 1kg", SKU: "COF-001", Quantity: 2, Price: 50000, WeightGrams: 1000},
			model.CartItem{ProductID: "p2", VariantID: strPtr("v1"), ProductName: "Grinder", SKU: "GRD-XL", Quantity: 1, Price: 100000, WeightGrams: 1500},
			model.CartItem{ProductID: "deleted-product", ProductName: "Old", SKU: "OLD", Quantity: 1, Price: 1000, WeightGrams: 100},
		)

		skipped, err := f.uc.MergeGuestCart(ctx, "sess-1", "u1")
		require.NoError(t, err)
		assert.Equal(t, 2, skipped)

		userCart, _ := f.store.GetByUser(ctx, "u1")
		require.Len(t, userCart.Items, 1)
		assert.Equal(t, "p1", userCart.Items[0].ProductID)
	})

	t.Run("no guest cart is a clean no-op", func(t *testing.T) {
		f := newCartFixture()
		skipped, err := f.uc.MergeGuestCart(ctx, "missing-session", "u1")
		require.NoError(t, err)
		assert.Equal(t, 0, skipped)
	})
}
