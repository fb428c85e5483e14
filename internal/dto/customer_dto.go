package dto

import "github.com/shopspring/decimal"

type CreateCustomerRequest struct {
	Name  string  `json:"name"  validate:"required,min=1"`
	Phone string  `json:"phone" validate:"required,min=5"`
	Email *string `json:"email" validate:"omitempty,email"`
	Notes *string `json:"notes"`
}

// UpdateCustomerRequest covers profile fields only — balances are maintained
// exclusively by the customer ledger and survive profile edits untouched.
type UpdateCustomerRequest struct {
	Name  string  `json:"name"  validate:"required,min=1"`
	Phone string  `json:"phone" validate:"required,min=5"`
	Email *string `json:"email" validate:"omitempty,email"`
	Notes *string `json:"notes"`
}

type CustomerResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Email     *string         `json:"email,omitempty"`
	Debt      decimal.Decimal `json:"debt"`
	Credit    decimal.Decimal `json:"credit"`
	Notes     *string         `json:"notes,omitempty"`
	CreatedAt string          `json:"created_at"`
}

type ApplyTransactionRequest struct {
	// CustomerID comes from the URL path, not the request body.
	CustomerID  string          `json:"-"`
	Type        string          `json:"type"        validate:"required,oneof=debt credit payment_received payment_made"`
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Description string          `json:"description" validate:"required,min=1"`
}

type TransactionResponse struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
	// AuditPending is set when the balance was updated but the transaction
	// log append failed — the degraded state the caller should surface as a
	// warning, not a fatal error.
	AuditPending bool `json:"audit_pending,omitempty"`
}
