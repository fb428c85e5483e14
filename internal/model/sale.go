package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is an embedded line of a Sale. Name, prices and category are
// snapshots taken at sale time so later catalog edits never rewrite history.
type SaleItem struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	// Profit = (SalePrice - PurchasePrice) × Quantity, unrounded.
	Profit     decimal.Decimal `json:"profit"`
	CategoryID string          `json:"category_id"`
}

// Sale is created atomically with its stock decrements: the ledger applies
// the deltas first and the document is only written after every decrement
// committed, so no sale exists without its stock having been taken.
type Sale struct {
	ID             string          `json:"id"`
	Items          []SaleItem      `json:"items"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
	Date           time.Time       `json:"date"`
	PaymentMethod  *string         `json:"payment_method,omitempty"`
	PaymentDetails *string         `json:"payment_details,omitempty"`
	CustomerInfo   *string         `json:"customer_info,omitempty"`
}

// SyntheticProductPrefix marks sale items generated from delivered repairs.
// Such product ids never resolve to a real Product and bypass the stock ledger.
const SyntheticProductPrefix = "repair-"
