package repository

import (
	"context"
	"sort"

	"stoktakip/internal/kvstore"
	"stoktakip/internal/model"
)

// CustomerRepository persists customers. Balance-carrying writes go through
// Update, which is versioned — concurrent ledger transactions on the same
// customer cannot silently overwrite each other.
type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id string) error
}

type customerRepo struct{ store kvstore.Store }

func NewCustomerRepository(store kvstore.Store) CustomerRepository {
	return &customerRepo{store: store}
}

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	c.Version = 1
	return putDocVersioned(ctx, r.store, KindCustomer, c.ID, c, 0)
}

func (r *customerRepo) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	return getDoc[model.Customer](ctx, r.store, KindCustomer, id)
}

func (r *customerRepo) List(ctx context.Context) ([]model.Customer, error) {
	customers, err := scanDocs[model.Customer](ctx, r.store, KindCustomer)
	if err != nil {
		return nil, err
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].Name < customers[j].Name })
	return customers, nil
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	expected := c.Version
	c.Version = expected + 1
	if err := putDocVersioned(ctx, r.store, KindCustomer, c.ID, c, expected); err != nil {
		c.Version = expected
		return err
	}
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, id string) error {
	return deleteDoc(ctx, r.store, KindCustomer, id)
}
