package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer carries two derived balances maintained exclusively by the customer
// ledger: Debt (money the customer owes the business) and Credit (money the
// business owes the customer). Both are always >= 0. Profile edits (name,
// phone, email, notes) must never touch them.
type Customer struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Email     *string         `json:"email,omitempty"`
	Debt      decimal.Decimal `json:"debt"`
	Credit    decimal.Decimal `json:"credit"`
	Notes     *string         `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`

	Version int64 `json:"version"`
}

// Customer transaction kinds and their balance effect.
const (
	TxDebt            = "debt"             // debt += amount
	TxCredit          = "credit"           // credit += amount
	TxPaymentReceived = "payment_received" // debt = max(0, debt - amount)
	TxPaymentMade     = "payment_made"     // credit = max(0, credit - amount)
)

// CustomerTransaction is an append-only audit entry. It is the sole writer of
// Customer.Debt / Customer.Credit deltas; ids and timestamps are assigned
// server-side.
type CustomerTransaction struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
