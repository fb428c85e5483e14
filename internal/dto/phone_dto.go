package dto

import "github.com/shopspring/decimal"

type CreatePhoneRequest struct {
	Brand         string          `json:"brand" validate:"required,min=1"`
	Model         string          `json:"model" validate:"required,min=1"`
	IMEI          string          `json:"imei"  validate:"required,min=5"`
	Color         *string         `json:"color"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0"`
	SalePrice     decimal.Decimal `json:"sale_price"     validate:"min=0"`
}

// UpdatePhoneRequest edits descriptive fields and prices. Status is owned by
// the sell/unsell lifecycle, not by plain updates.
type UpdatePhoneRequest struct {
	Brand         string          `json:"brand" validate:"required,min=1"`
	Model         string          `json:"model" validate:"required,min=1"`
	IMEI          string          `json:"imei"  validate:"required,min=5"`
	Color         *string         `json:"color"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0"`
	SalePrice     decimal.Decimal `json:"sale_price"     validate:"min=0"`
}

type SellPhoneRequest struct {
	SalePrice    decimal.Decimal `json:"sale_price" validate:"min=0"`
	CustomerInfo *string         `json:"customer_info"`
}

type PhoneResponse struct {
	ID            string          `json:"id"`
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	IMEI          string          `json:"imei"`
	Color         *string         `json:"color,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"created_at"`
}

type PhoneSaleResponse struct {
	ID            string          `json:"id"`
	PhoneID       string          `json:"phone_id"`
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	IMEI          string          `json:"imei"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Profit        decimal.Decimal `json:"profit"`
	CustomerInfo  *string         `json:"customer_info,omitempty"`
	Date          string          `json:"date"`
}
