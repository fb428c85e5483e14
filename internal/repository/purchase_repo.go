package repository

import (
	"context"
	"sort"

	"stoktakip/internal/kvstore"
	"stoktakip/internal/model"
)

// PurchaseRepository persists purchase documents.
type PurchaseRepository interface {
	Save(ctx context.Context, p *model.Purchase) error
	FindByID(ctx context.Context, id string) (*model.Purchase, error)
	List(ctx context.Context) ([]model.Purchase, error)
	Delete(ctx context.Context, id string) error
}

type purchaseRepo struct{ store kvstore.Store }

func NewPurchaseRepository(store kvstore.Store) PurchaseRepository {
	return &purchaseRepo{store: store}
}

func (r *purchaseRepo) Save(ctx context.Context, p *model.Purchase) error {
	return putDoc(ctx, r.store, KindPurchase, p.ID, p)
}

func (r *purchaseRepo) FindByID(ctx context.Context, id string) (*model.Purchase, error) {
	return getDoc[model.Purchase](ctx, r.store, KindPurchase, id)
}

func (r *purchaseRepo) List(ctx context.Context) ([]model.Purchase, error) {
	purchases, err := scanDocs[model.Purchase](ctx, r.store, KindPurchase)
	if err != nil {
		return nil, err
	}
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].Date.After(purchases[j].Date) })
	return purchases, nil
}

func (r *purchaseRepo) Delete(ctx context.Context, id string) error {
	return deleteDoc(ctx, r.store, KindPurchase, id)
}
