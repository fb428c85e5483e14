package repository

import (
	"context"
	"sort"

	"stoktakip/internal/kvstore"
	"stoktakip/internal/model"
)

// PhoneRepository persists serialized device stock.
type PhoneRepository interface {
	Create(ctx context.Context, p *model.PhoneStock) error
	FindByID(ctx context.Context, id string) (*model.PhoneStock, error)
	List(ctx context.Context) ([]model.PhoneStock, error)
	Update(ctx context.Context, p *model.PhoneStock) error
	Delete(ctx context.Context, id string) error
}

type phoneRepo struct{ store kvstore.Store }

func NewPhoneRepository(store kvstore.Store) PhoneRepository {
	return &phoneRepo{store: store}
}

func (r *phoneRepo) Create(ctx context.Context, p *model.PhoneStock) error {
	p.Version = 1
	return putDocVersioned(ctx, r.store, KindPhone, p.ID, p, 0)
}

func (r *phoneRepo) FindByID(ctx context.Context, id string) (*model.PhoneStock, error) {
	return getDoc[model.PhoneStock](ctx, r.store, KindPhone, id)
}

func (r *phoneRepo) List(ctx context.Context) ([]model.PhoneStock, error) {
	phones, err := scanDocs[model.PhoneStock](ctx, r.store, KindPhone)
	if err != nil {
		return nil, err
	}
	sort.Slice(phones, func(i, j int) bool { return phones[i].CreatedAt.After(phones[j].CreatedAt) })
	return phones, nil
}

func (r *phoneRepo) Update(ctx context.Context, p *model.PhoneStock) error {
	expected := p.Version
	p.Version = expected + 1
	if err := putDocVersioned(ctx, r.store, KindPhone, p.ID, p, expected); err != nil {
		p.Version = expected
		return err
	}
	return nil
}

func (r *phoneRepo) Delete(ctx context.Context, id string) error {
	return deleteDoc(ctx, r.store, KindPhone, id)
}

// PhoneSaleRepository persists per-device sale records.
type PhoneSaleRepository interface {
	Save(ctx context.Context, s *model.PhoneSale) error
	FindByID(ctx context.Context, id string) (*model.PhoneSale, error)
	List(ctx context.Context) ([]model.PhoneSale, error)
	Delete(ctx context.Context, id string) error
}

type phoneSaleRepo struct{ store kvstore.Store }

func NewPhoneSaleRepository(store kvstore.Store) PhoneSaleRepository {
	return &phoneSaleRepo{store: store}
}

func (r *phoneSaleRepo) Save(ctx context.Context, s *model.PhoneSale) error {
	return putDoc(ctx, r.store, KindPhoneSale, s.ID, s)
}

func (r *phoneSaleRepo) FindByID(ctx context.Context, id string) (*model.PhoneSale, error) {
	return getDoc[model.PhoneSale](ctx, r.store, KindPhoneSale, id)
}

func (r *phoneSaleRepo) List(ctx context.Context) ([]model.PhoneSale, error) {
	sales, err := scanDocs[model.PhoneSale](ctx, r.store, KindPhoneSale)
	if err != nil {
		return nil, err
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].Date.After(sales[j].Date) })
	return sales, nil
}

func (r *phoneSaleRepo) Delete(ctx context.Context, id string) error {
	return deleteDoc(ctx, r.store, KindPhoneSale, id)
}
