package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItem is an embedded line of a Purchase.
type PurchaseItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Purchase is the mirror image of Sale: creating one increments Product.Stock
// per line item and raises the supplier balance; deleting one decrements the
// stock back (rejected if the goods were already sold) and restores the
// balance.
type Purchase struct {
	ID         string          `json:"id"`
	SupplierID string          `json:"supplier_id"`
	Items      []PurchaseItem  `json:"items"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	Date       time.Time       `json:"date"`
	Notes      *string         `json:"notes,omitempty"`
}
