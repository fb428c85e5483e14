// Package repository contains the typed CRUD wrappers over the key-value
// store. Each entity lives under a namespaced key "<kind>:<id>"; prefix scan
// on "<kind>:" is the only query shape. No invariants are enforced here —
// they all live in the service layer.
package repository

import (
	"context"
	"encoding/json"
	"errors"

	"stoktakip/internal/apierror"
	"stoktakip/internal/kvstore"
)

// Entity kinds — the key namespace prefixes.
const (
	KindProduct     = "product"
	KindSale        = "sale"
	KindRepair      = "repair"
	KindCustomer    = "customer"
	KindTransaction = "transaction"
	KindPhone       = "phone"
	KindPhoneSale   = "phonesale"
	KindSupplier    = "supplier"
	KindPurchase    = "purchase"
)

// Key builds the store key for an entity.
func Key(kind, id string) string { return kind + ":" + id }

func getDoc[T any](ctx context.Context, s kvstore.Store, kind, id string) (*T, error) {
	k := Key(kind, id)
	raw, err := s.Get(ctx, k)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, apierror.ErrNotFound
	}
	if err != nil {
		return nil, apierror.NewStoreError("get", k, err)
	}
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apierror.NewStoreError("get", k, err)
	}
	return &doc, nil
}

func putDoc(ctx context.Context, s kvstore.Store, kind, id string, doc any) error {
	k := Key(kind, id)
	raw, err := json.Marshal(doc)
	if err != nil {
		return apierror.NewStoreError("set", k, err)
	}
	if err := s.Set(ctx, k, raw); err != nil {
		return apierror.NewStoreError("set", k, err)
	}
	return nil
}

// putDocVersioned writes doc only when the stored document still carries
// expected as its version. doc must already carry the bumped version.
func putDocVersioned(ctx context.Context, s kvstore.Store, kind, id string, doc any, expected int64) error {
	k := Key(kind, id)
	raw, err := json.Marshal(doc)
	if err != nil {
		return apierror.NewStoreError("set", k, err)
	}
	err = s.SetVersioned(ctx, k, raw, expected)
	if errors.Is(err, kvstore.ErrVersionConflict) {
		return apierror.ErrVersionConflict
	}
	if err != nil {
		return apierror.NewStoreError("set", k, err)
	}
	return nil
}

func deleteDoc(ctx context.Context, s kvstore.Store, kind, id string) error {
	k := Key(kind, id)
	if err := s.Delete(ctx, k); err != nil {
		return apierror.NewStoreError("delete", k, err)
	}
	return nil
}

func scanDocs[T any](ctx context.Context, s kvstore.Store, kind string) ([]T, error) {
	prefix := kind + ":"
	raws, err := s.Scan(ctx, prefix)
	if err != nil {
		return nil, apierror.NewStoreError("scan", prefix, err)
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, apierror.NewStoreError("scan", prefix, err)
		}
		out = append(out, doc)
	}
	return out, nil
}
