package repository

import (
	"context"
	"sort"

	"stoktakip/internal/kvstore"
	"stoktakip/internal/model"
)

// SaleRepository persists sale documents. Sales are written once at commit
// time; the only later writes are the financial-only update path and deletion.
type SaleRepository interface {
	Save(ctx context.Context, s *model.Sale) error
	FindByID(ctx context.Context, id string) (*model.Sale, error)
	List(ctx context.Context) ([]model.Sale, error)
	Delete(ctx context.Context, id string) error
}

type saleRepo struct{ store kvstore.Store }

func NewSaleRepository(store kvstore.Store) SaleRepository {
	return &saleRepo{store: store}
}

func (r *saleRepo) Save(ctx context.Context, s *model.Sale) error {
	return putDoc(ctx, r.store, KindSale, s.ID, s)
}

func (r *saleRepo) FindByID(ctx context.Context, id string) (*model.Sale, error) {
	return getDoc[model.Sale](ctx, r.store, KindSale, id)
}

func (r *saleRepo) List(ctx context.Context) ([]model.Sale, error) {
	sales, err := scanDocs[model.Sale](ctx, r.store, KindSale)
	if err != nil {
		return nil, err
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].Date.After(sales[j].Date) })
	return sales, nil
}

func (r *saleRepo) Delete(ctx context.Context, id string) error {
	return deleteDoc(ctx, r.store, KindSale, id)
}
