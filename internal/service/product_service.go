package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stoktakip/internal/apierror"
	"stoktakip/internal/dto"
	"stoktakip/internal/model"
	"stoktakip/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id string) (*dto.ProductResponse, error)
	GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error)
	List(ctx context.Context) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id string) error

	// AdjustStock routes manual corrections through the stock ledger so they
	// get the same non-negative guarantee and low-stock alerting as sales.
	AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
}

type productService struct {
	products repository.ProductRepository
	ledger   StockLedger
}

func NewProductService(products repository.ProductRepository, ledger StockLedger) ProductService {
	return &productService{products: products, ledger: ledger}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.Barcode != nil && *req.Barcode != "" {
		existing, err := s.products.FindByBarcode(ctx, *req.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("barcode %s is already in use: %w", *req.Barcode, apierror.ErrInvalid)
		}
	}

	p := &model.Product{
		ID:            uuid.NewString(),
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		Stock:         req.Stock,
		MinStock:      req.MinStock,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		Barcode:       req.Barcode,
		Description:   req.Description,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

// Update edits catalog fields. Stock is re-read from the stored document on
// every attempt so a concurrent ledger write is never overwritten.
func (s *productService) Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if req.Barcode != nil && *req.Barcode != "" && (p.Barcode == nil || *p.Barcode != *req.Barcode) {
			other, err := s.products.FindByBarcode(ctx, *req.Barcode)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != id {
				return nil, fmt.Errorf("barcode %s is already in use: %w", *req.Barcode, apierror.ErrInvalid)
			}
		}
		p.Name = req.Name
		p.CategoryID = req.CategoryID
		p.MinStock = req.MinStock
		p.PurchasePrice = req.PurchasePrice
		p.SalePrice = req.SalePrice
		p.Barcode = req.Barcode
		p.Description = req.Description
		err = s.products.Update(ctx, p)
		if err == nil {
			return productToResponse(p), nil
		}
		if !errors.Is(err, apierror.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *productService) AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	if req.Quantity == 0 {
		return nil, fmt.Errorf("adjustment quantity cannot be zero: %w", apierror.ErrInvalid)
	}

	delta := []StockDelta{{ProductID: id, Quantity: req.Quantity}}
	var err error
	if req.Quantity > 0 {
		err = s.ledger.Release(ctx, delta)
	} else {
		delta[0].Quantity = -req.Quantity
		err = s.ledger.Apply(ctx, delta)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("product_id", id).Int("quantity", req.Quantity).
		Str("reason", req.Reason).Msg("manual stock adjustment")

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}

func (s *productService) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	p, err := s.products.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product with barcode %s: %w", barcode, apierror.ErrNotFound)
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		Stock:         p.Stock,
		MinStock:      p.MinStock,
		PurchasePrice: p.PurchasePrice.Round(2),
		SalePrice:     p.SalePrice.Round(2),
		Barcode:       p.Barcode,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}
