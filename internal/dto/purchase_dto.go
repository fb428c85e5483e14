package dto

import "github.com/shopspring/decimal"

type PurchaseItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity"   validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"min=0"`
}

type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id" validate:"required"`
	Items      []PurchaseItemRequest `json:"items"       validate:"required,min=1,dive"`
	Notes      *string               `json:"notes"`
}

type PurchaseItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type PurchaseResponse struct {
	ID         string                 `json:"id"`
	SupplierID string                 `json:"supplier_id"`
	Items      []PurchaseItemResponse `json:"items"`
	TotalCost  decimal.Decimal        `json:"total_cost"`
	Date       string                 `json:"date"`
	Notes      *string                `json:"notes,omitempty"`
}
