package service

import (
	"context"
	"errors"
	"time"

	"stoktakip/internal/apierror"
	"stoktakip/internal/dto"
	"stoktakip/internal/model"
	"stoktakip/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PurchaseService is the mirror of SaleService: a purchase raises stock and
// the supplier balance, deleting one lowers them again. Deletion fails with
// an insufficient-stock error when the purchased goods were already sold on.
type PurchaseService interface {
	Create(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)
	Get(ctx context.Context, id string) (*dto.PurchaseResponse, error)
	List(ctx context.Context) ([]dto.PurchaseResponse, error)
	Delete(ctx context.Context, id string) error
}

type purchaseService struct {
	purchases repository.PurchaseRepository
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	ledger    StockLedger
}

func NewPurchaseService(
	purchases repository.PurchaseRepository,
	suppliers repository.SupplierRepository,
	products repository.ProductRepository,
	ledger StockLedger,
) PurchaseService {
	return &purchaseService{purchases: purchases, suppliers: suppliers, products: products, ledger: ledger}
}

// Create runs in four steps:
//  1. Resolve the supplier and every product; snapshot product names so the
//     purchase document stays readable after a product is renamed or deleted.
//  2. Release the quantities into stock through the ledger.
//  3. Raise the supplier balance by the total cost.
//  4. Persist the purchase document. If a later step fails the earlier ones
//     are undone so stock and balance stay consistent with the stored docs.
func (s *purchaseService) Create(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	items := make([]model.PurchaseItem, 0, len(req.Items))
	deltas := make([]StockDelta, 0, len(req.Items))
	total := decimal.Zero
	for _, it := range req.Items {
		p, err := s.products.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, model.PurchaseItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
		deltas = append(deltas, StockDelta{ProductID: p.ID, Quantity: it.Quantity})
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	purchase := &model.Purchase{
		ID:         uuid.NewString(),
		SupplierID: supplier.ID,
		Items:      items,
		TotalCost:  total,
		Date:       time.Now().UTC(),
		Notes:      req.Notes,
	}

	if err := s.ledger.Release(ctx, deltas); err != nil {
		return nil, err
	}
	if err := s.adjustSupplierBalance(ctx, supplier.ID, total); err != nil {
		s.undoStock(ctx, purchase.ID, deltas)
		return nil, err
	}
	if err := s.purchases.Save(ctx, purchase); err != nil {
		if berr := s.adjustSupplierBalance(ctx, supplier.ID, total.Neg()); berr != nil {
			log.Error().Err(berr).Str("supplier_id", supplier.ID).
				Msg("purchase save failed and balance rollback failed — balance requires manual reconciliation")
		}
		s.undoStock(ctx, purchase.ID, deltas)
		return nil, err
	}

	return purchaseToResponse(purchase), nil
}

// Delete reverses a purchase. The stock decrement goes through the ledger's
// all-or-nothing Apply so a purchase whose goods were already sold cannot be
// deleted into negative stock.
func (s *purchaseService) Delete(ctx context.Context, id string) error {
	purchase, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return err
	}

	deltas := make([]StockDelta, 0, len(purchase.Items))
	for _, it := range purchase.Items {
		deltas = append(deltas, StockDelta{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	if err := s.ledger.Apply(ctx, deltas); err != nil {
		return err
	}
	if err := s.adjustSupplierBalance(ctx, purchase.SupplierID, purchase.TotalCost.Neg()); err != nil {
		// A deleted supplier does not block the purchase deletion.
		if !errors.Is(err, apierror.ErrNotFound) {
			if rerr := s.ledger.Release(ctx, deltas); rerr != nil {
				log.Error().Err(rerr).Str("purchase_id", id).
					Msg("purchase delete aborted and stock rollback failed — stock requires manual reconciliation")
			}
			return err
		}
		log.Warn().Str("purchase_id", id).Str("supplier_id", purchase.SupplierID).
			Msg("supplier missing on purchase deletion, balance restore skipped")
	}
	return s.purchases.Delete(ctx, id)
}

// adjustSupplierBalance adds delta to the supplier's balance (clamped at
// zero) with the usual bounded retry on version conflicts.
func (s *purchaseService) adjustSupplierBalance(ctx context.Context, supplierID string, delta decimal.Decimal) error {
	var err error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		var supplier *model.Supplier
		supplier, err = s.suppliers.FindByID(ctx, supplierID)
		if err != nil {
			return err
		}
		supplier.Balance = decimal.Max(decimal.Zero, supplier.Balance.Add(delta))
		err = s.suppliers.Update(ctx, supplier)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apierror.ErrVersionConflict) {
			return err
		}
	}
	return err
}

func (s *purchaseService) undoStock(ctx context.Context, purchaseID string, deltas []StockDelta) {
	if err := s.ledger.Apply(ctx, deltas); err != nil {
		log.Error().Err(err).Str("purchase_id", purchaseID).
			Msg("purchase create failed and stock rollback failed — stock requires manual reconciliation")
	}
}

func (s *purchaseService) Get(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	purchase, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) List(ctx context.Context) ([]dto.PurchaseResponse, error) {
	purchases, err := s.purchases.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		out = append(out, *purchaseToResponse(&purchases[i]))
	}
	return out, nil
}

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, dto.PurchaseItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.Round(2),
		})
	}
	return &dto.PurchaseResponse{
		ID:         p.ID,
		SupplierID: p.SupplierID,
		Items:      items,
		TotalCost:  p.TotalCost.Round(2),
		Date:       p.Date.Format(time.RFC3339),
		Notes:      p.Notes,
	}
}
