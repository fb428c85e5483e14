package repository

import (
	"context"
	"sort"

	"stoktakip/internal/kvstore"
	"stoktakip/internal/model"
)

// RepairRepository persists repair records.
type RepairRepository interface {
	Save(ctx context.Context, rec *model.RepairRecord) error
	FindByID(ctx context.Context, id string) (*model.RepairRecord, error)
	List(ctx context.Context) ([]model.RepairRecord, error)
	Delete(ctx context.Context, id string) error
}

type repairRepo struct{ store kvstore.Store }

func NewRepairRepository(store kvstore.Store) RepairRepository {
	return &repairRepo{store: store}
}

func (r *repairRepo) Save(ctx context.Context, rec *model.RepairRecord) error {
	return putDoc(ctx, r.store, KindRepair, rec.ID, rec)
}

func (r *repairRepo) FindByID(ctx context.Context, id string) (*model.RepairRecord, error) {
	return getDoc[model.RepairRecord](ctx, r.store, KindRepair, id)
}

func (r *repairRepo) List(ctx context.Context) ([]model.RepairRecord, error) {
	repairs, err := scanDocs[model.RepairRecord](ctx, r.store, KindRepair)
	if err != nil {
		return nil, err
	}
	sort.Slice(repairs, func(i, j int) bool { return repairs[i].CreatedAt.After(repairs[j].CreatedAt) })
	return repairs, nil
}

func (r *repairRepo) Delete(ctx context.Context, id string) error {
	return deleteDoc(ctx, r.store, KindRepair, id)
}
