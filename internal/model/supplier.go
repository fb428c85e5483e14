package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier. Balance is the amount owed to the supplier, maintained by the
// purchase lifecycle (incremented on purchase, restored on purchase deletion).
type Supplier struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Email     *string         `json:"email,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	Notes     *string         `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`

	Version int64 `json:"version"`
}
