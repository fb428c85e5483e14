package worker

// repair_revenue_worker.go
// Retries the synthetic-sale synthesis for delivered repairs whose revenue
// record is missing. This is the recovery path for the documented partial
// failure: status=delivered persisted, sale write failed. The repair's SaleID
// marker guarantees the retry writes at most one sale.

import (
	"context"
	"encoding/json"
	"time"

	"stoktakip/internal/model"
	"stoktakip/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type RepairRevenueWorker struct {
	repairs repository.RepairRepository
	sales   repository.SaleRepository
}

func NewRepairRevenueWorker(repairs repository.RepairRepository, sales repository.SaleRepository) *RepairRevenueWorker {
	return &RepairRevenueWorker{repairs: repairs, sales: sales}
}

// Process handles one repair-revenue job. Returns a non-nil error when the
// job should be retried.
func (w *RepairRevenueWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload RepairRevenuePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("repair_revenue_worker: invalid payload")
		return nil // malformed jobs are not retryable
	}

	rec, err := w.repairs.FindByID(ctx, payload.RepairID)
	if err != nil {
		log.Error().Err(err).Str("repair_id", payload.RepairID).Msg("repair_revenue_worker: repair not found")
		return nil
	}

	if rec.Status != model.RepairDelivered || rec.SaleID != nil {
		// Either not yet delivered or the sale already exists — nothing to do.
		return nil
	}

	deliveredAt := time.Now().UTC()
	if rec.DeliveredAt != nil {
		deliveredAt = *rec.DeliveredAt
	}

	saleID := uuid.NewString()
	sale := model.SyntheticSale(rec, saleID, deliveredAt)
	if err := w.sales.Save(ctx, sale); err != nil {
		return err
	}

	rec.SaleID = &saleID
	if err := w.repairs.Save(ctx, rec); err != nil {
		// The sale exists but the marker write failed. Remove the sale so the
		// next attempt starts clean rather than risking a duplicate.
		_ = w.sales.Delete(ctx, saleID)
		return err
	}

	log.Info().
		Str("repair_id", rec.ID).
		Str("sale_id", saleID).
		Msg("repair_revenue_worker: revenue record recovered")
	return nil
}
