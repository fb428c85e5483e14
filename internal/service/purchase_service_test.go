package service

import (
	"context"
	"testing"
	"time"

	"stoktakip/internal/apierror"
	"stoktakip/internal/dto"
	"stoktakip/internal/kvstore/memory"
	"stoktakip/internal/model"
	"stoktakip/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type purchaseFixture struct {
	store     *memory.Store
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	purchases repository.PurchaseRepository
	ledger    StockLedger
	svc       PurchaseService
}

func newPurchaseFixture(t *testing.T) *purchaseFixture {
	t.Helper()
	store := memory.New()
	products := repository.NewProductRepository(store)
	suppliers := repository.NewSupplierRepository(store)
	purchases := repository.NewPurchaseRepository(store)
	ledger := NewStockLedger(products, nil)
	return &purchaseFixture{
		store:     store,
		products:  products,
		suppliers: suppliers,
		purchases: purchases,
		ledger:    ledger,
		svc:       NewPurchaseService(purchases, suppliers, products, ledger),
	}
}

func newTestSupplier(t *testing.T, suppliers repository.SupplierRepository) *model.Supplier {
	t.Helper()
	s := &model.Supplier{
		ID:        uuid.NewString(),
		Name:      "Aksesuar Toptan Ltd",
		Phone:     "02121234567",
		Balance:   decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, suppliers.Create(context.Background(), s))
	return s
}

func TestPurchaseCreateRaisesStockAndBalance(t *testing.T) {
	f := newPurchaseFixture(t)
	supplier := newTestSupplier(t, f.suppliers)
	p := newTestProduct(t, f.products, "Charger", 3)

	resp, err := f.svc.Create(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: supplier.ID,
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(45)},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalCost.Equal(decimal.NewFromInt(450)), "total %s", resp.TotalCost)

	got, err := f.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 13, got.Stock)

	sup, err := f.suppliers.FindByID(context.Background(), supplier.ID)
	require.NoError(t, err)
	assert.True(t, sup.Balance.Equal(decimal.NewFromInt(450)))
}

func TestPurchaseCreateUnknownSupplierOrProduct(t *testing.T) {
	f := newPurchaseFixture(t)
	supplier := newTestSupplier(t, f.suppliers)

	_, err := f.svc.Create(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: "missing",
		Items:      []dto.PurchaseItemRequest{{ProductID: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, apierror.ErrNotFound)

	_, err = f.svc.Create(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: supplier.ID,
		Items:      []dto.PurchaseItemRequest{{ProductID: "missing", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestPurchaseDeleteReversesStockAndBalance(t *testing.T) {
	f := newPurchaseFixture(t)
	supplier := newTestSupplier(t, f.suppliers)
	p := newTestProduct(t, f.products, "Charger", 0)

	resp, err := f.svc.Create(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: supplier.ID,
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(20)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), resp.ID))

	got, err := f.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	sup, err := f.suppliers.FindByID(context.Background(), supplier.ID)
	require.NoError(t, err)
	assert.True(t, sup.Balance.IsZero())

	_, err = f.purchases.FindByID(context.Background(), resp.ID)
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

// Deleting a purchase whose goods were already sold on would drive stock
// negative, so it must be rejected with the stock untouched.
func TestPurchaseDeleteRejectedWhenGoodsAlreadySold(t *testing.T) {
	f := newPurchaseFixture(t)
	supplier := newTestSupplier(t, f.suppliers)
	p := newTestProduct(t, f.products, "Charger", 0)

	resp, err := f.svc.Create(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: supplier.ID,
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(20)},
		},
	})
	require.NoError(t, err)

	// Sell 3 of the 5 purchased units.
	require.NoError(t, f.ledger.Apply(context.Background(), []StockDelta{{ProductID: p.ID, Quantity: 3}}))

	err = f.svc.Delete(context.Background(), resp.ID)
	var insufficient *apierror.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	// Nothing moved: purchase still exists, stock and balance unchanged.
	got, err := f.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
	_, err = f.purchases.FindByID(context.Background(), resp.ID)
	assert.NoError(t, err)
}

func TestPurchaseDeleteToleratesDeletedSupplier(t *testing.T) {
	f := newPurchaseFixture(t)
	supplier := newTestSupplier(t, f.suppliers)
	p := newTestProduct(t, f.products, "Charger", 0)

	resp, err := f.svc.Create(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: supplier.ID,
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.suppliers.Delete(context.Background(), supplier.ID))
	require.NoError(t, f.svc.Delete(context.Background(), resp.ID))

	got, err := f.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}
