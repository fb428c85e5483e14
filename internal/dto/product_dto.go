package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name          string          `json:"name"        validate:"required,min=1"`
	CategoryID    string          `json:"category_id" validate:"required"`
	Stock         int             `json:"stock"       validate:"min=0"`
	MinStock      int             `json:"min_stock"   validate:"min=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0"`
	SalePrice     decimal.Decimal `json:"sale_price"     validate:"min=0"`
	Barcode       *string         `json:"barcode"`
	Description   *string         `json:"description"`
}

// UpdateProductRequest carries no stock field: Product.Stock is owned by the
// stock ledger and survives catalog edits untouched.
type UpdateProductRequest struct {
	Name          string          `json:"name"        validate:"required,min=1"`
	CategoryID    string          `json:"category_id" validate:"required"`
	MinStock      int             `json:"min_stock"   validate:"min=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0"`
	SalePrice     decimal.Decimal `json:"sale_price"     validate:"min=0"`
	Barcode       *string         `json:"barcode"`
	Description   *string         `json:"description"`
}

// AdjustStockRequest applies a manual stock correction through the ledger.
// Positive quantities add stock, negative ones remove it (and fail when the
// removal would drive the stock negative).
type AdjustStockRequest struct {
	Quantity int    `json:"quantity" validate:"required"`
	Reason   string `json:"reason"   validate:"required,min=1"`
}

type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CategoryID    string          `json:"category_id"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"min_stock"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Barcode       *string         `json:"barcode,omitempty"`
	Description   *string         `json:"description,omitempty"`
	CreatedAt     string          `json:"created_at"`
}
