package service

import (
	"context"
	"sync"
	"testing"

	"stoktakip/internal/apierror"
	"stoktakip/internal/dto"
	"stoktakip/internal/kvstore/memory"
	"stoktakip/internal/model"
	"stoktakip/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phoneFixture struct {
	phones repository.PhoneRepository
	sales  repository.PhoneSaleRepository
	svc    PhoneService
}

func newPhoneFixture(t *testing.T) *phoneFixture {
	t.Helper()
	store := memory.New()
	phones := repository.NewPhoneRepository(store)
	sales := repository.NewPhoneSaleRepository(store)
	return &phoneFixture{phones: phones, sales: sales, svc: NewPhoneService(phones, sales)}
}

func (f *phoneFixture) create(t *testing.T, imei string) *dto.PhoneResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), dto.CreatePhoneRequest{
		Brand:         "Samsung",
		Model:         "Galaxy S23",
		IMEI:          imei,
		PurchasePrice: decimal.NewFromInt(500),
		SalePrice:     decimal.NewFromInt(650),
	})
	require.NoError(t, err)
	return resp
}

func TestPhoneCreateRejectsDuplicateIMEI(t *testing.T) {
	f := newPhoneFixture(t)
	f.create(t, "350000000000001")

	_, err := f.svc.Create(context.Background(), dto.CreatePhoneRequest{
		Brand:         "Samsung",
		Model:         "Galaxy S23",
		IMEI:          "350000000000001",
		PurchasePrice: decimal.NewFromInt(500),
		SalePrice:     decimal.NewFromInt(650),
	})
	assert.ErrorIs(t, err, apierror.ErrInvalid)
}

func TestPhoneSellFlipsStatusAndRecordsSale(t *testing.T) {
	f := newPhoneFixture(t)
	phone := f.create(t, "350000000000002")

	sale, err := f.svc.Sell(context.Background(), phone.ID, dto.SellPhoneRequest{
		SalePrice: decimal.NewFromInt(700),
	})
	require.NoError(t, err)
	assert.Equal(t, phone.ID, sale.PhoneID)
	assert.True(t, sale.Profit.Equal(decimal.NewFromInt(200)), "profit %s", sale.Profit)

	got, err := f.svc.Get(context.Background(), phone.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PhoneSold, got.Status)

	// A sold device cannot be sold again.
	_, err = f.svc.Sell(context.Background(), phone.ID, dto.SellPhoneRequest{SalePrice: decimal.NewFromInt(700)})
	assert.ErrorIs(t, err, apierror.ErrInvalid)
}

// Two clerks selling the same device at once: the versioned status flip lets
// exactly one sale through.
func TestPhoneSellConcurrentSingleWinner(t *testing.T) {
	f := newPhoneFixture(t)
	phone := f.create(t, "350000000000003")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Sell(context.Background(), phone.ID, dto.SellPhoneRequest{
				SalePrice: decimal.NewFromInt(700),
			})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	sales, err := f.svc.ListSales(context.Background())
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestPhoneDeleteSaleReturnsDeviceToStock(t *testing.T) {
	f := newPhoneFixture(t)
	phone := f.create(t, "350000000000004")

	sale, err := f.svc.Sell(context.Background(), phone.ID, dto.SellPhoneRequest{
		SalePrice: decimal.NewFromInt(700),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSale(context.Background(), sale.ID))

	got, err := f.svc.Get(context.Background(), phone.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PhoneAvailable, got.Status)

	sales, err := f.svc.ListSales(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestPhoneDeleteRejectedWhileSold(t *testing.T) {
	f := newPhoneFixture(t)
	phone := f.create(t, "350000000000005")

	_, err := f.svc.Sell(context.Background(), phone.ID, dto.SellPhoneRequest{
		SalePrice: decimal.NewFromInt(700),
	})
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), phone.ID)
	assert.ErrorIs(t, err, apierror.ErrInvalid)
}
