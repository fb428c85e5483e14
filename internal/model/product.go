package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the stocked catalog entity. Stock is mutated only by the stock
// ledger as a side effect of sale/purchase lifecycle events — product update
// endpoints preserve the stored Stock and Version untouched.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CategoryID    string          `json:"category_id"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"min_stock"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Barcode       *string         `json:"barcode,omitempty"`
	Description   *string         `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`

	// Version backs optimistic concurrency on read-modify-write sequences.
	Version int64 `json:"version"`
}
