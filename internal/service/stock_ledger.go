package service

import (
	"context"
	"errors"
	"fmt"

	"stoktakip/internal/apierror"
	"stoktakip/internal/model"
	"stoktakip/internal/repository"
	"stoktakip/internal/worker"

	"github.com/rs/zerolog/log"
)

// StockDelta is one quantity change against one product.
type StockDelta struct {
	ProductID string
	Quantity  int
}

// StockLedger is the single authority over Product.Stock. Every decrement it
// applies is matched by an increment on the inverse lifecycle event, and stock
// never goes negative: Apply checks every item before mutating any of them.
type StockLedger interface {
	// Apply subtracts each delta's quantity from its product's stock.
	// All-or-nothing: if any product's stock is below the requested quantity
	// the call returns *apierror.InsufficientStockError naming the first
	// failing product and no product has been mutated.
	Apply(ctx context.Context, items []StockDelta) error

	// Release adds each delta's quantity back unconditionally. A missing
	// product is logged and skipped — deleting a sale whose product was
	// later removed must not hard-fail the whole deletion.
	Release(ctx context.Context, items []StockDelta) error
}

// maxVersionRetries bounds the read-modify-write loop on version conflicts.
const maxVersionRetries = 5

type stockLedger struct {
	products   repository.ProductRepository
	dispatcher *worker.Dispatcher
}

func NewStockLedger(products repository.ProductRepository, dispatcher *worker.Dispatcher) StockLedger {
	return &stockLedger{products: products, dispatcher: dispatcher}
}

// coalesce merges duplicate product ids so the pre-flight check sees the full
// requested quantity per product, not per line.
func coalesce(items []StockDelta) []StockDelta {
	byID := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		if _, seen := byID[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		byID[it.ProductID] += it.Quantity
	}
	out := make([]StockDelta, 0, len(order))
	for _, id := range order {
		out = append(out, StockDelta{ProductID: id, Quantity: byID[id]})
	}
	return out
}

func (l *stockLedger) Apply(ctx context.Context, items []StockDelta) error {
	deltas := coalesce(items)

	// Pre-flight: every product must cover its quantity before anything moves.
	for _, d := range deltas {
		p, err := l.products.FindByID(ctx, d.ProductID)
		if err != nil {
			return err
		}
		if p.Stock < d.Quantity {
			return &apierror.InsufficientStockError{
				ProductID: d.ProductID,
				Requested: d.Quantity,
				Available: p.Stock,
			}
		}
	}

	// Commit the decrements. A concurrent sale can still turn a passing
	// check into a failure — in that case the deltas already applied by this
	// call are rolled back before the error surfaces.
	for i, d := range deltas {
		if err := l.decrement(ctx, d.ProductID, d.Quantity); err != nil {
			l.rollback(ctx, deltas[:i])
			return err
		}
	}
	return nil
}

// decrement performs one versioned stock subtraction with bounded retry.
func (l *stockLedger) decrement(ctx context.Context, productID string, qty int) error {
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		p, err := l.products.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if p.Stock < qty {
			return &apierror.InsufficientStockError{
				ProductID: productID,
				Requested: qty,
				Available: p.Stock,
			}
		}
		p.Stock -= qty
		err = l.products.Update(ctx, p)
		if errors.Is(err, apierror.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return err
		}
		l.notifyLowStock(ctx, p)
		return nil
	}
	return fmt.Errorf("stock decrement for product %s: %w", productID, apierror.ErrVersionConflict)
}

// rollback releases deltas applied before a mid-commit failure.
func (l *stockLedger) rollback(ctx context.Context, applied []StockDelta) {
	if len(applied) == 0 {
		return
	}
	log.Warn().Int("items", len(applied)).Msg("stock ledger: rolling back partially applied deltas")
	if err := l.Release(ctx, applied); err != nil {
		log.Error().Err(err).Msg("stock ledger: rollback failed — stock requires manual reconciliation")
	}
}

func (l *stockLedger) Release(ctx context.Context, items []StockDelta) error {
	for _, d := range coalesce(items) {
		if err := l.increment(ctx, d.ProductID, d.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (l *stockLedger) increment(ctx context.Context, productID string, qty int) error {
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		p, err := l.products.FindByID(ctx, productID)
		if errors.Is(err, apierror.ErrNotFound) {
			log.Warn().
				Str("product_id", productID).
				Int("quantity", qty).
				Msg("stock ledger: release target no longer exists, skipping")
			return nil
		}
		if err != nil {
			return err
		}
		p.Stock += qty
		err = l.products.Update(ctx, p)
		if errors.Is(err, apierror.ErrVersionConflict) {
			continue
		}
		return err
	}
	return fmt.Errorf("stock release for product %s: %w", productID, apierror.ErrVersionConflict)
}

// notifyLowStock enqueues a low-stock alert when a decrement crosses the
// product's minimum. Best effort — stock correctness never depends on it.
func (l *stockLedger) notifyLowStock(ctx context.Context, p *model.Product) {
	if l.dispatcher == nil || p.Stock >= p.MinStock {
		return
	}
	payload := worker.StockAlertPayload{
		ProductID:   p.ID,
		ProductName: p.Name,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
	}
	if err := l.dispatcher.EnqueueStockAlert(ctx, payload); err != nil {
		log.Warn().Err(err).Str("product_id", p.ID).Msg("stock ledger: failed to enqueue low-stock alert")
	}
}
