package repository

import (
	"context"
	"sort"

	"stoktakip/internal/kvstore"
	"stoktakip/internal/model"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete store-backed
// implementation, enabling clean unit testing via fakes.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)

	// Update performs a versioned write: it expects p.Version to be the
	// version read from the store, bumps it on success, and returns
	// apierror.ErrVersionConflict when a concurrent writer got there first.
	Update(ctx context.Context, p *model.Product) error

	Delete(ctx context.Context, id string) error
}

type productRepo struct{ store kvstore.Store }

func NewProductRepository(store kvstore.Store) ProductRepository {
	return &productRepo{store: store}
}

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	p.Version = 1
	return putDocVersioned(ctx, r.store, KindProduct, p.ID, p, 0)
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return getDoc[model.Product](ctx, r.store, KindProduct, id)
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	products, err := scanDocs[model.Product](ctx, r.store, KindProduct)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Barcode != nil && *products[i].Barcode == barcode {
			return &products[i], nil
		}
	}
	return nil, nil
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	products, err := scanDocs[model.Product](ctx, r.store, KindProduct)
	if err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	expected := p.Version
	p.Version = expected + 1
	if err := putDocVersioned(ctx, r.store, KindProduct, p.ID, p, expected); err != nil {
		p.Version = expected
		return err
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	return deleteDoc(ctx, r.store, KindProduct, id)
}
