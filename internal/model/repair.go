package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Repair status values. Transitions are forward-only:
// in_progress → completed → delivered.
const (
	RepairInProgress = "in_progress"
	RepairCompleted  = "completed"
	RepairDelivered  = "delivered"
)

// RepairRecord tracks a device repair from intake to delivery. Delivering a
// completed repair synthesizes exactly one Sale so that repair revenue shows
// up in the same aggregates as product sales.
type RepairRecord struct {
	ID                 string          `json:"id"`
	CustomerID         *string         `json:"customer_id,omitempty"`
	CustomerName       string          `json:"customer_name"`
	CustomerPhone      string          `json:"customer_phone"`
	DeviceInfo         string          `json:"device_info"`
	IMEI               string          `json:"imei"`
	ProblemDescription string          `json:"problem_description"`
	RepairCost         decimal.Decimal `json:"repair_cost"`
	PartsCost          decimal.Decimal `json:"parts_cost"`
	// Profit = RepairCost - PartsCost.
	Profit      decimal.Decimal `json:"profit"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	DeliveredAt *time.Time      `json:"delivered_at,omitempty"`

	// SaleID records the synthetic sale written on delivery. A delivered
	// repair with an empty SaleID is the partial-failure state: the revenue
	// record is missing and synthesis must be retried.
	SaleID *string `json:"sale_id,omitempty"`
}

// SyntheticSale builds the revenue record for a delivered repair. The item's
// product id never resolves to a real Product, so the sale bypasses the stock
// ledger entirely — it exists purely so revenue/profit aggregation treats
// repairs uniformly with product sales.
func SyntheticSale(rec *RepairRecord, saleID string, now time.Time) *Sale {
	return &Sale{
		ID: saleID,
		Items: []SaleItem{{
			ProductID:     SyntheticProductPrefix + rec.ID,
			ProductName:   "Tamir: " + rec.DeviceInfo,
			Quantity:      1,
			SalePrice:     rec.RepairCost,
			PurchasePrice: rec.PartsCost,
			Profit:        rec.Profit,
			CategoryID:    "repair",
		}},
		TotalPrice:  rec.RepairCost,
		TotalProfit: rec.Profit,
		Date:        now,
	}
}

// StatusRank orders repair states for the forward-only transition check.
// Unknown states rank below in_progress.
func StatusRank(status string) int {
	switch status {
	case RepairInProgress:
		return 1
	case RepairCompleted:
		return 2
	case RepairDelivered:
		return 3
	default:
		return 0
	}
}
