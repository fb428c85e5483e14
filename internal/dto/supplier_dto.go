package dto

import "github.com/shopspring/decimal"

type CreateSupplierRequest struct {
	Name  string  `json:"name"  validate:"required,min=1"`
	Phone string  `json:"phone" validate:"required,min=5"`
	Email *string `json:"email" validate:"omitempty,email"`
	Notes *string `json:"notes"`
}

// UpdateSupplierRequest edits profile fields; Balance is maintained by the
// purchase lifecycle.
type UpdateSupplierRequest struct {
	Name  string  `json:"name"  validate:"required,min=1"`
	Phone string  `json:"phone" validate:"required,min=5"`
	Email *string `json:"email" validate:"omitempty,email"`
	Notes *string `json:"notes"`
}

type SupplierResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Email     *string         `json:"email,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	Notes     *string         `json:"notes,omitempty"`
	CreatedAt string          `json:"created_at"`
}
