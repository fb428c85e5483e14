package repository

import (
	"context"
	"sort"

	"stoktakip/internal/kvstore"
	"stoktakip/internal/model"
)

// SupplierRepository persists suppliers. Balance writes are versioned for the
// same reason customer balances are.
type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, id string) (*model.Supplier, error)
	List(ctx context.Context) ([]model.Supplier, error)
	Update(ctx context.Context, s *model.Supplier) error
	Delete(ctx context.Context, id string) error
}

type supplierRepo struct{ store kvstore.Store }

func NewSupplierRepository(store kvstore.Store) SupplierRepository {
	return &supplierRepo{store: store}
}

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	s.Version = 1
	return putDocVersioned(ctx, r.store, KindSupplier, s.ID, s, 0)
}

func (r *supplierRepo) FindByID(ctx context.Context, id string) (*model.Supplier, error) {
	return getDoc[model.Supplier](ctx, r.store, KindSupplier, id)
}

func (r *supplierRepo) List(ctx context.Context) ([]model.Supplier, error) {
	suppliers, err := scanDocs[model.Supplier](ctx, r.store, KindSupplier)
	if err != nil {
		return nil, err
	}
	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].Name < suppliers[j].Name })
	return suppliers, nil
}

func (r *supplierRepo) Update(ctx context.Context, s *model.Supplier) error {
	expected := s.Version
	s.Version = expected + 1
	if err := putDocVersioned(ctx, r.store, KindSupplier, s.ID, s, expected); err != nil {
		s.Version = expected
		return err
	}
	return nil
}

func (r *supplierRepo) Delete(ctx context.Context, id string) error {
	return deleteDoc(ctx, r.store, KindSupplier, id)
}
