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

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id string) (*dto.CustomerResponse, error)
	List(ctx context.Context) ([]dto.CustomerResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, id string) error
}

type customerService struct {
	customers repository.CustomerRepository
}

func NewCustomerService(customers repository.CustomerRepository) CustomerService {
	return &customerService{customers: customers}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := &model.Customer{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Debt:      decimal.Zero,
		Credit:    decimal.Zero,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

// Update edits profile fields only. Debt and Credit belong to the customer
// ledger; they are carried over from the stored document on every write, and
// the versioned update retries if the ledger races this edit.
func (s *customerService) Update(ctx context.Context, id string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		customer, err := s.customers.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		customer.Name = req.Name
		customer.Phone = req.Phone
		customer.Email = req.Email
		customer.Notes = req.Notes
		err = s.customers.Update(ctx, customer)
		if err == nil {
			return customerToResponse(customer), nil
		}
		if !errors.Is(err, apierror.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *customerService) Delete(ctx context.Context, id string) error {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !customer.Debt.IsZero() || !customer.Credit.IsZero() {
		return fmt.Errorf("customer %s has an open balance: %w", id, apierror.ErrInvalid)
	}
	return s.customers.Delete(ctx, id)
}

func (s *customerService) Get(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, *customerToResponse(&customers[i]))
	}
	return out, nil
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Debt:      c.Debt.Round(2),
		Credit:    c.Credit.Round(2),
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
