package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"stoktakip/internal/kvstore/memory"
	"stoktakip/internal/model"
	"stoktakip/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(t *testing.T, repairID string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(RepairRevenuePayload{RepairID: repairID})
	require.NoError(t, err)
	return raw
}

func seedRepair(t *testing.T, repairs repository.RepairRepository, status string) *model.RepairRecord {
	t.Helper()
	now := time.Now().UTC()
	rec := &model.RepairRecord{
		ID:            "r1",
		CustomerName:  "Mehmet Kaya",
		CustomerPhone: "05551112233",
		DeviceInfo:    "iPhone 12 Pro",
		RepairCost:    decimal.NewFromInt(200),
		PartsCost:     decimal.NewFromInt(80),
		Profit:        decimal.NewFromInt(120),
		Status:        status,
		CreatedAt:     now,
	}
	if status == model.RepairDelivered {
		rec.DeliveredAt = &now
	}
	require.NoError(t, repairs.Save(context.Background(), rec))
	return rec
}

func TestProcessRecoversMissingRevenueRecord(t *testing.T) {
	store := memory.New()
	repairs := repository.NewRepairRepository(store)
	sales := repository.NewSaleRepository(store)
	w := NewRepairRevenueWorker(repairs, sales)

	rec := seedRepair(t, repairs, model.RepairDelivered)

	require.NoError(t, w.Process(context.Background(), payload(t, rec.ID)))

	got, err := repairs.FindByID(context.Background(), rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SaleID)

	sale, err := sales.FindByID(context.Background(), *got.SaleID)
	require.NoError(t, err)
	assert.True(t, sale.TotalPrice.Equal(decimal.NewFromInt(200)))
	assert.True(t, sale.TotalProfit.Equal(decimal.NewFromInt(120)))

	// Reprocessing the same job is a no-op thanks to the SaleID marker.
	require.NoError(t, w.Process(context.Background(), payload(t, rec.ID)))
	all, err := sales.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProcessSkipsUndeliveredRepairs(t *testing.T) {
	store := memory.New()
	repairs := repository.NewRepairRepository(store)
	sales := repository.NewSaleRepository(store)
	w := NewRepairRevenueWorker(repairs, sales)

	rec := seedRepair(t, repairs, model.RepairCompleted)

	require.NoError(t, w.Process(context.Background(), payload(t, rec.ID)))

	all, err := sales.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProcessDoesNotRetryBadInput(t *testing.T) {
	store := memory.New()
	w := NewRepairRevenueWorker(repository.NewRepairRepository(store), repository.NewSaleRepository(store))

	// Malformed payloads and unknown repairs are dropped, not retried.
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`not json`)))
	assert.NoError(t, w.Process(context.Background(), payload(t, "missing")))
}
