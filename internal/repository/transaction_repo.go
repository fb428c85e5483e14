package repository

import (
	"context"
	"sort"

	"stoktakip/internal/kvstore"
	"stoktakip/internal/model"
)

// TransactionRepository is the append-only customer transaction log.
// There is deliberately no Update or Delete — corrections are made by
// appending a compensating transaction.
type TransactionRepository interface {
	Append(ctx context.Context, tx *model.CustomerTransaction) error
	ListByCustomer(ctx context.Context, customerID string) ([]model.CustomerTransaction, error)
	List(ctx context.Context) ([]model.CustomerTransaction, error)
}

type transactionRepo struct{ store kvstore.Store }

func NewTransactionRepository(store kvstore.Store) TransactionRepository {
	return &transactionRepo{store: store}
}

func (r *transactionRepo) Append(ctx context.Context, tx *model.CustomerTransaction) error {
	return putDoc(ctx, r.store, KindTransaction, tx.ID, tx)
}

func (r *transactionRepo) ListByCustomer(ctx context.Context, customerID string) ([]model.CustomerTransaction, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.CustomerTransaction, 0, len(all))
	for _, tx := range all {
		if tx.CustomerID == customerID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *transactionRepo) List(ctx context.Context) ([]model.CustomerTransaction, error) {
	txs, err := scanDocs[model.CustomerTransaction](ctx, r.store, KindTransaction)
	if err != nil {
		return nil, err
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].CreatedAt.Before(txs[j].CreatedAt) })
	return txs, nil
}
