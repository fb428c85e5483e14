package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Phone stock status values.
const (
	PhoneAvailable = "available"
	PhoneSold      = "sold"
)

// PhoneStock is a serialized device (one row per IMEI), unlike Product which
// counts interchangeable units. Selling a phone flips Status to sold and
// appends a PhoneSale — there is no quantity arithmetic.
type PhoneStock struct {
	ID            string          `json:"id"`
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	IMEI          string          `json:"imei"`
	Color         *string         `json:"color,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`

	Version int64 `json:"version"`
}

// PhoneSale records the sale of a single device.
type PhoneSale struct {
	ID            string          `json:"id"`
	PhoneID       string          `json:"phone_id"`
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	IMEI          string          `json:"imei"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Profit        decimal.Decimal `json:"profit"`
	CustomerInfo  *string         `json:"customer_info,omitempty"`
	Date          time.Time       `json:"date"`
}
