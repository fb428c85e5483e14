package dto

import "github.com/shopspring/decimal"

type CreateRepairRequest struct {
	CustomerID         *string         `json:"customer_id"`
	CustomerName       string          `json:"customer_name"  validate:"required,min=1"`
	CustomerPhone      string          `json:"customer_phone" validate:"required,min=5"`
	DeviceInfo         string          `json:"device_info"    validate:"required,min=1"`
	IMEI               string          `json:"imei"`
	ProblemDescription string          `json:"problem_description" validate:"required,min=1"`
	RepairCost         decimal.Decimal `json:"repair_cost" validate:"min=0"`
	PartsCost          decimal.Decimal `json:"parts_cost"  validate:"min=0"`
}

// UpdateRepairRequest edits intake fields and costs. Status is not here —
// transitions go through the dedicated status endpoint.
type UpdateRepairRequest struct {
	CustomerName       string          `json:"customer_name"  validate:"required,min=1"`
	CustomerPhone      string          `json:"customer_phone" validate:"required,min=5"`
	DeviceInfo         string          `json:"device_info"    validate:"required,min=1"`
	IMEI               string          `json:"imei"`
	ProblemDescription string          `json:"problem_description" validate:"required,min=1"`
	RepairCost         decimal.Decimal `json:"repair_cost" validate:"min=0"`
	PartsCost          decimal.Decimal `json:"parts_cost"  validate:"min=0"`
}

type UpdateRepairStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_progress completed delivered"`
}

type RepairResponse struct {
	ID                 string          `json:"id"`
	CustomerID         *string         `json:"customer_id,omitempty"`
	CustomerName       string          `json:"customer_name"`
	CustomerPhone      string          `json:"customer_phone"`
	DeviceInfo         string          `json:"device_info"`
	IMEI               string          `json:"imei"`
	ProblemDescription string          `json:"problem_description"`
	RepairCost         decimal.Decimal `json:"repair_cost"`
	PartsCost          decimal.Decimal `json:"parts_cost"`
	Profit             decimal.Decimal `json:"profit"`
	Status             string          `json:"status"`
	CreatedAt          string          `json:"created_at"`
	DeliveredAt        *string         `json:"delivered_at,omitempty"`
	SaleID             *string         `json:"sale_id,omitempty"`
}
