package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stoktakip/internal/apierror"
	"stoktakip/internal/dto"
	"stoktakip/internal/model"
	"stoktakip/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SaleService orchestrates the sale lifecycle against the stock ledger.
// State machine per sale: Pending → Committed (create), Committed → Reversed
// (delete). No partial state is ever persisted: the sale document is written
// only after every stock decrement committed, and on deletion the stock is
// restored before the document disappears.
type SaleService interface {
	Create(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, id string) (*dto.SaleResponse, error)
	List(ctx context.Context) (*dto.SaleListResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateSaleRequest) (*dto.SaleResponse, error)
	Delete(ctx context.Context, id string) error
}

type saleService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	ledger   StockLedger
}

func NewSaleService(sales repository.SaleRepository, products repository.ProductRepository, ledger StockLedger) SaleService {
	return &saleService{sales: sales, products: products, ledger: ledger}
}

// ── Create ────────────────────────────────────────────────────────────────────
// Ordering per the partial-failure policy:
//  1. Resolve every product and snapshot its prices (no mutation yet).
//  2. Apply stock decrements — all-or-nothing; InsufficientStock aborts here
//     with zero mutation and no sale document.
//  3. Persist the sale. If this write fails the decrements are released so
//     stock stays correct.

func (s *saleService) Create(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("sale requires at least one item: %w", apierror.ErrInvalid)
	}

	// 1. Resolve products, snapshot prices.
	items := make([]model.SaleItem, 0, len(req.Items))
	deltas := make([]StockDelta, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be positive for product %s: %w", it.ProductID, apierror.ErrInvalid)
		}
		p, err := s.products.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", it.ProductID, err)
		}
		qty := decimal.NewFromInt(int64(it.Quantity))
		items = append(items, model.SaleItem{
			ProductID:     p.ID,
			ProductName:   p.Name,
			Quantity:      it.Quantity,
			SalePrice:     p.SalePrice,
			PurchasePrice: p.PurchasePrice,
			Profit:        p.SalePrice.Sub(p.PurchasePrice).Mul(qty),
			CategoryID:    p.CategoryID,
		})
		deltas = append(deltas, StockDelta{ProductID: p.ID, Quantity: it.Quantity})
	}

	// 2. Stock decrements — all-or-nothing.
	if err := s.ledger.Apply(ctx, deltas); err != nil {
		return nil, err
	}

	// 3. Persist the committed sale.
	sale := &model.Sale{
		ID:             uuid.NewString(),
		Items:          items,
		Date:           time.Now().UTC(),
		PaymentMethod:  req.PaymentMethod,
		PaymentDetails: req.PaymentDetails,
		CustomerInfo:   req.CustomerInfo,
	}
	sale.TotalPrice, sale.TotalProfit = saleTotals(items)

	if err := s.sales.Save(ctx, sale); err != nil {
		// Undo the decrements so stock stays correct; the sale never existed.
		if relErr := s.ledger.Release(ctx, deltas); relErr != nil {
			log.Error().Err(relErr).Str("sale_id", sale.ID).
				Msg("sale create: failed to release stock after aborted commit — manual reconciliation required")
		}
		return nil, err
	}

	return saleToResponse(sale), nil
}

// ── Delete ────────────────────────────────────────────────────────────────────
// Stock is restored BEFORE the sale record is removed: a crash between the two
// steps leaves stock correct and only a dangling sale document to garbage-
// collect, never lost inventory.

func (s *saleService) Delete(ctx context.Context, id string) error {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return err
	}

	deltas := make([]StockDelta, 0, len(sale.Items))
	for _, it := range sale.Items {
		// Synthetic repair items never touched the ledger on the way in.
		if strings.HasPrefix(it.ProductID, model.SyntheticProductPrefix) {
			continue
		}
		deltas = append(deltas, StockDelta{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if err := s.ledger.Release(ctx, deltas); err != nil {
		return err
	}

	return s.sales.Delete(ctx, id)
}

// ── Update ────────────────────────────────────────────────────────────────────
// Replaces financial fields only; explicitly does NOT re-run the stock ledger.
// Edits are treated as financial corrections, not inventory events.

func (s *saleService) Update(ctx context.Context, id string, req dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items := make([]model.SaleItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be positive for product %s: %w", it.ProductID, apierror.ErrInvalid)
		}
		qty := decimal.NewFromInt(int64(it.Quantity))
		items = append(items, model.SaleItem{
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			Quantity:      it.Quantity,
			SalePrice:     it.SalePrice,
			PurchasePrice: it.PurchasePrice,
			Profit:        it.SalePrice.Sub(it.PurchasePrice).Mul(qty),
			CategoryID:    it.CategoryID,
		})
	}

	sale.Items = items
	sale.TotalPrice, sale.TotalProfit = saleTotals(items)
	sale.PaymentMethod = req.PaymentMethod
	sale.PaymentDetails = req.PaymentDetails
	sale.CustomerInfo = req.CustomerInfo

	if err := s.sales.Save(ctx, sale); err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *saleService) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context) (*dto.SaleListResponse, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{Data: data, Total: len(data)}, nil
}

// saleTotals computes totals from the unrounded per-item products so repeated
// small lines never accumulate rounding drift. Rounding to 2 places happens
// only at the response boundary.
func saleTotals(items []model.SaleItem) (totalPrice, totalProfit decimal.Decimal) {
	totalPrice = decimal.Zero
	totalProfit = decimal.Zero
	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		totalPrice = totalPrice.Add(it.SalePrice.Mul(qty))
		totalProfit = totalProfit.Add(it.Profit)
	}
	return totalPrice, totalProfit
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			Quantity:      it.Quantity,
			SalePrice:     it.SalePrice.Round(2),
			PurchasePrice: it.PurchasePrice.Round(2),
			Profit:        it.Profit.Round(2),
			CategoryID:    it.CategoryID,
		})
	}
	return &dto.SaleResponse{
		ID:             sale.ID,
		Items:          items,
		TotalPrice:     sale.TotalPrice.Round(2),
		TotalProfit:    sale.TotalProfit.Round(2),
		Date:           sale.Date.Format(time.RFC3339),
		PaymentMethod:  sale.PaymentMethod,
		PaymentDetails: sale.PaymentDetails,
		CustomerInfo:   sale.CustomerInfo,
	}
}
