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

// PhoneService manages serialized device stock: one document per IMEI with
// an available/sold status instead of a quantity. Selling flips the status
// under a versioned write so two clerks cannot sell the same device.
type PhoneService interface {
	Create(ctx context.Context, req dto.CreatePhoneRequest) (*dto.PhoneResponse, error)
	Get(ctx context.Context, id string) (*dto.PhoneResponse, error)
	List(ctx context.Context) ([]dto.PhoneResponse, error)
	Update(ctx context.Context, id string, req dto.UpdatePhoneRequest) (*dto.PhoneResponse, error)
	Delete(ctx context.Context, id string) error

	Sell(ctx context.Context, phoneID string, req dto.SellPhoneRequest) (*dto.PhoneSaleResponse, error)
	ListSales(ctx context.Context) ([]dto.PhoneSaleResponse, error)
	DeleteSale(ctx context.Context, saleID string) error
}

type phoneService struct {
	phones repository.PhoneRepository
	sales  repository.PhoneSaleRepository
}

func NewPhoneService(phones repository.PhoneRepository, sales repository.PhoneSaleRepository) PhoneService {
	return &phoneService{phones: phones, sales: sales}
}

func (s *phoneService) Create(ctx context.Context, req dto.CreatePhoneRequest) (*dto.PhoneResponse, error) {
	if err := s.checkIMEI(ctx, req.IMEI, ""); err != nil {
		return nil, err
	}
	phone := &model.PhoneStock{
		ID:            uuid.NewString(),
		Brand:         req.Brand,
		Model:         req.Model,
		IMEI:          req.IMEI,
		Color:         req.Color,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		Status:        model.PhoneAvailable,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.phones.Create(ctx, phone); err != nil {
		return nil, err
	}
	return phoneToResponse(phone), nil
}

func (s *phoneService) Update(ctx context.Context, id string, req dto.UpdatePhoneRequest) (*dto.PhoneResponse, error) {
	phone, err := s.phones.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if phone.IMEI != req.IMEI {
		if err := s.checkIMEI(ctx, req.IMEI, id); err != nil {
			return nil, err
		}
	}
	phone.Brand = req.Brand
	phone.Model = req.Model
	phone.IMEI = req.IMEI
	phone.Color = req.Color
	phone.PurchasePrice = req.PurchasePrice
	phone.SalePrice = req.SalePrice
	if err := s.phones.Update(ctx, phone); err != nil {
		return nil, err
	}
	return phoneToResponse(phone), nil
}

// Sell flips the device to sold and appends a PhoneSale. The status flip is a
// versioned write, so concurrent sells of the same device collapse to one
// winner; the losers see a conflict against the now-sold document and fail.
func (s *phoneService) Sell(ctx context.Context, phoneID string, req dto.SellPhoneRequest) (*dto.PhoneSaleResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		phone, err := s.phones.FindByID(ctx, phoneID)
		if err != nil {
			return nil, err
		}
		if phone.Status != model.PhoneAvailable {
			return nil, fmt.Errorf("phone %s is already sold: %w", phoneID, apierror.ErrInvalid)
		}
		phone.Status = model.PhoneSold
		if err := s.phones.Update(ctx, phone); err != nil {
			if errors.Is(err, apierror.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		sale := &model.PhoneSale{
			ID:            uuid.NewString(),
			PhoneID:       phone.ID,
			Brand:         phone.Brand,
			Model:         phone.Model,
			IMEI:          phone.IMEI,
			SalePrice:     req.SalePrice,
			PurchasePrice: phone.PurchasePrice,
			Profit:        req.SalePrice.Sub(phone.PurchasePrice),
			CustomerInfo:  req.CustomerInfo,
			Date:          time.Now().UTC(),
		}
		if err := s.sales.Save(ctx, sale); err != nil {
			if rerr := s.markAvailable(ctx, phone.ID); rerr != nil {
				log.Error().Err(rerr).Str("phone_id", phone.ID).
					Msg("phone sale save failed and status rollback failed — device stuck as sold")
			}
			return nil, err
		}
		return phoneSaleToResponse(sale), nil
	}
	return nil, lastErr
}

// DeleteSale removes a sale record and returns the device to stock.
func (s *phoneService) DeleteSale(ctx context.Context, saleID string) error {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return err
	}
	if err := s.markAvailable(ctx, sale.PhoneID); err != nil {
		// The device may have been deleted since; the sale record still goes.
		if !errors.Is(err, apierror.ErrNotFound) {
			return err
		}
		log.Warn().Str("phone_id", sale.PhoneID).Str("sale_id", saleID).
			Msg("phone missing on sale deletion, status restore skipped")
	}
	return s.sales.Delete(ctx, saleID)
}

func (s *phoneService) markAvailable(ctx context.Context, phoneID string) error {
	var err error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		var phone *model.PhoneStock
		phone, err = s.phones.FindByID(ctx, phoneID)
		if err != nil {
			return err
		}
		if phone.Status == model.PhoneAvailable {
			return nil
		}
		phone.Status = model.PhoneAvailable
		err = s.phones.Update(ctx, phone)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apierror.ErrVersionConflict) {
			return err
		}
	}
	return err
}

func (s *phoneService) Delete(ctx context.Context, id string) error {
	phone, err := s.phones.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if phone.Status == model.PhoneSold {
		return fmt.Errorf("sold phone cannot be deleted, delete its sale first: %w", apierror.ErrInvalid)
	}
	return s.phones.Delete(ctx, id)
}

func (s *phoneService) checkIMEI(ctx context.Context, imei, selfID string) error {
	phones, err := s.phones.List(ctx)
	if err != nil {
		return err
	}
	for i := range phones {
		if phones[i].IMEI == imei && phones[i].ID != selfID {
			return fmt.Errorf("IMEI %s is already registered: %w", imei, apierror.ErrInvalid)
		}
	}
	return nil
}

func (s *phoneService) Get(ctx context.Context, id string) (*dto.PhoneResponse, error) {
	phone, err := s.phones.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return phoneToResponse(phone), nil
}

func (s *phoneService) List(ctx context.Context) ([]dto.PhoneResponse, error) {
	phones, err := s.phones.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PhoneResponse, 0, len(phones))
	for i := range phones {
		out = append(out, *phoneToResponse(&phones[i]))
	}
	return out, nil
}

func (s *phoneService) ListSales(ctx context.Context) ([]dto.PhoneSaleResponse, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PhoneSaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, *phoneSaleToResponse(&sales[i]))
	}
	return out, nil
}

func phoneToResponse(p *model.PhoneStock) *dto.PhoneResponse {
	return &dto.PhoneResponse{
		ID:            p.ID,
		Brand:         p.Brand,
		Model:         p.Model,
		IMEI:          p.IMEI,
		Color:         p.Color,
		PurchasePrice: p.PurchasePrice.Round(2),
		SalePrice:     p.SalePrice.Round(2),
		Status:        p.Status,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

func phoneSaleToResponse(s *model.PhoneSale) *dto.PhoneSaleResponse {
	return &dto.PhoneSaleResponse{
		ID:            s.ID,
		PhoneID:       s.PhoneID,
		Brand:         s.Brand,
		Model:         s.Model,
		IMEI:          s.IMEI,
		SalePrice:     s.SalePrice.Round(2),
		PurchasePrice: s.PurchasePrice.Round(2),
		Profit:        s.Profit.Round(2),
		CustomerInfo:  s.CustomerInfo,
		Date:          s.Date.Format(time.RFC3339),
	}
}
