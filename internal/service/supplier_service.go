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
	"github.com/shopspring/decimal"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	Get(ctx context.Context, id string) (*dto.SupplierResponse, error)
	List(ctx context.Context) ([]dto.SupplierResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, id string) error
}

type supplierService struct {
	suppliers repository.SupplierRepository
}

func NewSupplierService(suppliers repository.SupplierRepository) SupplierService {
	return &supplierService{suppliers: suppliers}
}

func (s *supplierService) Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier := &model.Supplier{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Balance:   decimal.Zero,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

// Update edits profile fields; Balance is carried over from the stored
// document so a concurrent purchase write is never overwritten.
func (s *supplierService) Update(ctx context.Context, id string, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		supplier, err := s.suppliers.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		supplier.Name = req.Name
		supplier.Phone = req.Phone
		supplier.Email = req.Email
		supplier.Notes = req.Notes
		err = s.suppliers.Update(ctx, supplier)
		if err == nil {
			return supplierToResponse(supplier), nil
		}
		if !errors.Is(err, apierror.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *supplierService) Delete(ctx context.Context, id string) error {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !supplier.Balance.IsZero() {
		return fmt.Errorf("supplier %s has an open balance: %w", id, apierror.ErrInvalid)
	}
	return s.suppliers.Delete(ctx, id)
}

func (s *supplierService) Get(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, *supplierToResponse(&suppliers[i]))
	}
	return out, nil
}

func supplierToResponse(s *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		Email:     s.Email,
		Balance:   s.Balance.Round(2),
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}
