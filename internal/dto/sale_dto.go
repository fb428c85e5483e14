package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CreateSaleRequest struct {
	Items          []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod  *string           `json:"payment_method"  validate:"omitempty,oneof=cash card transfer installment"`
	PaymentDetails *string           `json:"payment_details"`
	CustomerInfo   *string           `json:"customer_info"`
}

// UpdateSaleItem carries explicit prices: the edit path is a financial-only
// correction and must not consult the live catalog.
type UpdateSaleItem struct {
	ProductID     string          `json:"product_id"     validate:"required"`
	ProductName   string          `json:"product_name"   validate:"required"`
	Quantity      int             `json:"quantity"       validate:"required,min=1"`
	SalePrice     decimal.Decimal `json:"sale_price"     validate:"min=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0"`
	CategoryID    string          `json:"category_id"`
}

type UpdateSaleRequest struct {
	Items          []UpdateSaleItem `json:"items" validate:"required,min=1,dive"`
	PaymentMethod  *string          `json:"payment_method"  validate:"omitempty,oneof=cash card transfer installment"`
	PaymentDetails *string          `json:"payment_details"`
	CustomerInfo   *string          `json:"customer_info"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Profit        decimal.Decimal `json:"profit"`
	CategoryID    string          `json:"category_id"`
}

type SaleResponse struct {
	ID             string             `json:"id"`
	Items          []SaleItemResponse `json:"items"`
	TotalPrice     decimal.Decimal    `json:"total_price"`
	TotalProfit    decimal.Decimal    `json:"total_profit"`
	Date           string             `json:"date"`
	PaymentMethod  *string            `json:"payment_method,omitempty"`
	PaymentDetails *string            `json:"payment_details,omitempty"`
	CustomerInfo   *string            `json:"customer_info,omitempty"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int            `json:"total"`
}
