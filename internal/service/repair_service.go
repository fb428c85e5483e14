package service

import (
	"context"
	"fmt"
	"time"

	"stoktakip/internal/apierror"
	"stoktakip/internal/dto"
	"stoktakip/internal/model"
	"stoktakip/internal/repository"
	"stoktakip/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RepairService manages repair records and the repair-to-sale bridge.
// Status transitions are forward-only (in_progress → completed → delivered),
// and the delivered transition synthesizes exactly one sale inside the
// transition itself — a direct status call can never produce a delivered
// repair that silently misses its revenue record.
type RepairService interface {
	Create(ctx context.Context, req dto.CreateRepairRequest) (*dto.RepairResponse, error)
	Get(ctx context.Context, id string) (*dto.RepairResponse, error)
	List(ctx context.Context) ([]dto.RepairResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateRepairRequest) (*dto.RepairResponse, error)
	UpdateStatus(ctx context.Context, id, status string) (*dto.RepairResponse, error)
	Delete(ctx context.Context, id string) error
}

type repairService struct {
	repairs    repository.RepairRepository
	sales      repository.SaleRepository
	dispatcher *worker.Dispatcher
}

func NewRepairService(repairs repository.RepairRepository, sales repository.SaleRepository, dispatcher *worker.Dispatcher) RepairService {
	return &repairService{repairs: repairs, sales: sales, dispatcher: dispatcher}
}

func (s *repairService) Create(ctx context.Context, req dto.CreateRepairRequest) (*dto.RepairResponse, error) {
	rec := &model.RepairRecord{
		ID:                 uuid.NewString(),
		CustomerID:         req.CustomerID,
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		DeviceInfo:         req.DeviceInfo,
		IMEI:               req.IMEI,
		ProblemDescription: req.ProblemDescription,
		RepairCost:         req.RepairCost,
		PartsCost:          req.PartsCost,
		Profit:             req.RepairCost.Sub(req.PartsCost),
		Status:             model.RepairInProgress,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.repairs.Save(ctx, rec); err != nil {
		return nil, err
	}
	return repairToResponse(rec), nil
}

func (s *repairService) Update(ctx context.Context, id string, req dto.UpdateRepairRequest) (*dto.RepairResponse, error) {
	rec, err := s.repairs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status == model.RepairDelivered {
		return nil, fmt.Errorf("delivered repair cannot be edited: %w", apierror.ErrInvalid)
	}

	rec.CustomerName = req.CustomerName
	rec.CustomerPhone = req.CustomerPhone
	rec.DeviceInfo = req.DeviceInfo
	rec.IMEI = req.IMEI
	rec.ProblemDescription = req.ProblemDescription
	rec.RepairCost = req.RepairCost
	rec.PartsCost = req.PartsCost
	rec.Profit = req.RepairCost.Sub(req.PartsCost)

	if err := s.repairs.Save(ctx, rec); err != nil {
		return nil, err
	}
	return repairToResponse(rec), nil
}

// UpdateStatus enforces the forward-only state machine. Setting delivered on
// a completed repair runs the sale synthesis (see deliver); re-delivering a
// repair that is already delivered without a revenue record retries the
// synthesis instead of failing, which is the documented recovery path.
func (s *repairService) UpdateStatus(ctx context.Context, id, status string) (*dto.RepairResponse, error) {
	rec, err := s.repairs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if model.StatusRank(status) == 0 {
		return nil, fmt.Errorf("unknown repair status %q: %w", status, apierror.ErrInvalid)
	}
	if model.StatusRank(status) < model.StatusRank(rec.Status) {
		return nil, fmt.Errorf("repair status cannot regress from %s to %s: %w", rec.Status, status, apierror.ErrInvalid)
	}

	if status == model.RepairDelivered {
		return s.deliver(ctx, rec)
	}

	if status != rec.Status {
		rec.Status = status
		if err := s.repairs.Save(ctx, rec); err != nil {
			return nil, err
		}
	}
	return repairToResponse(rec), nil
}

// deliver performs the repair-to-sale bridge:
//  1. Only a completed repair may transition to delivered (skipping straight
//     from in_progress is rejected).
//  2. status=delivered + deliveredAt are persisted first — the repair's
//     delivered state is the operational source of truth.
//  3. The synthetic sale is persisted and recorded on the repair via SaleID.
//     If the sale write fails after step 2, the repair stays delivered with
//     an empty SaleID and a retry job is enqueued; the SaleID marker keeps
//     the synthesis exactly-once across retries.
func (s *repairService) deliver(ctx context.Context, rec *model.RepairRecord) (*dto.RepairResponse, error) {
	switch rec.Status {
	case model.RepairCompleted:
		now := time.Now().UTC()
		rec.Status = model.RepairDelivered
		rec.DeliveredAt = &now
		if err := s.repairs.Save(ctx, rec); err != nil {
			return nil, err
		}
	case model.RepairDelivered:
		if rec.SaleID != nil {
			// Already delivered with its revenue record — idempotent no-op.
			return repairToResponse(rec), nil
		}
		// Partial-failure recovery: fall through to re-attempt synthesis.
	default:
		return nil, fmt.Errorf("repair must be completed before delivery (current: %s): %w", rec.Status, apierror.ErrInvalid)
	}

	saleID := uuid.NewString()
	sale := model.SyntheticSale(rec, saleID, *rec.DeliveredAt)
	if err := s.sales.Save(ctx, sale); err != nil {
		s.scheduleRevenueRetry(ctx, rec.ID, err)
		return repairToResponse(rec), nil
	}

	rec.SaleID = &saleID
	if err := s.repairs.Save(ctx, rec); err != nil {
		// Sale exists but the marker write failed — remove the sale so the
		// retry starts clean instead of risking a duplicate revenue record.
		_ = s.sales.Delete(ctx, saleID)
		rec.SaleID = nil
		s.scheduleRevenueRetry(ctx, rec.ID, err)
		return repairToResponse(rec), nil
	}

	return repairToResponse(rec), nil
}

func (s *repairService) scheduleRevenueRetry(ctx context.Context, repairID string, cause error) {
	log.Warn().Err(cause).
		Str("repair_id", repairID).
		Msg("repair delivered without revenue record — scheduling synthesis retry")
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.EnqueueRepairRevenue(ctx, worker.RepairRevenuePayload{RepairID: repairID}); err != nil {
		log.Error().Err(err).Str("repair_id", repairID).
			Msg("failed to enqueue repair revenue retry — requires manual reconciliation")
	}
}

func (s *repairService) Get(ctx context.Context, id string) (*dto.RepairResponse, error) {
	rec, err := s.repairs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return repairToResponse(rec), nil
}

func (s *repairService) List(ctx context.Context) ([]dto.RepairResponse, error) {
	recs, err := s.repairs.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RepairResponse, 0, len(recs))
	for i := range recs {
		out = append(out, *repairToResponse(&recs[i]))
	}
	return out, nil
}

func (s *repairService) Delete(ctx context.Context, id string) error {
	rec, err := s.repairs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.Status == model.RepairDelivered {
		return fmt.Errorf("delivered repair cannot be deleted: %w", apierror.ErrInvalid)
	}
	return s.repairs.Delete(ctx, id)
}

func repairToResponse(rec *model.RepairRecord) *dto.RepairResponse {
	resp := &dto.RepairResponse{
		ID:                 rec.ID,
		CustomerID:         rec.CustomerID,
		CustomerName:       rec.CustomerName,
		CustomerPhone:      rec.CustomerPhone,
		DeviceInfo:         rec.DeviceInfo,
		IMEI:               rec.IMEI,
		ProblemDescription: rec.ProblemDescription,
		RepairCost:         rec.RepairCost.Round(2),
		PartsCost:          rec.PartsCost.Round(2),
		Profit:             rec.Profit.Round(2),
		Status:             rec.Status,
		CreatedAt:          rec.CreatedAt.Format(time.RFC3339),
		SaleID:             rec.SaleID,
	}
	if rec.DeliveredAt != nil {
		s := rec.DeliveredAt.Format(time.RFC3339)
		resp.DeliveredAt = &s
	}
	return resp
}
