package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel buckets a recommendation's supplier risk score
type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// AllocationMode records how the supplier for a recommendation was chosen
type AllocationMode string

const (
	SingleSupplier AllocationMode = "single"
	MultiSupplier  AllocationMode = "multi"
)

// Recommendation is a supplier-specific purchase recommendation for one material
type Recommendation struct {
	MaterialID   MaterialID      `json:"material_id" yaml:"material_id"`
	SupplierID   SupplierID      `json:"supplier_id" yaml:"supplier_id"`
	OrderQty     float64         `json:"order_qty" yaml:"order_qty"`
	Unit         string          `json:"unit" yaml:"unit"`
	UnitPrice    decimal.Decimal `json:"unit_price" yaml:"unit_price"`
	TotalCost    decimal.Decimal `json:"total_cost" yaml:"total_cost"`
	OrderDate    time.Time       `json:"order_date" yaml:"order_date"`
	DeliveryDate time.Time       `json:"delivery_date" yaml:"delivery_date"`
	LeadTimeDays int             `json:"lead_time_days" yaml:"lead_time_days"`
	Requirement  float64         `json:"requirement" yaml:"requirement"`
	EOQ          float64         `json:"eoq" yaml:"eoq"`
	Score        float64         `json:"score" yaml:"score"`
	Tier         Tier            `json:"tier" yaml:"tier"`
	RiskScore    int             `json:"risk_score" yaml:"risk_score"`
	RiskLevel    RiskLevel       `json:"risk_level" yaml:"risk_level"`
	RiskFlags    []string        `json:"risk_flags" yaml:"risk_flags"`
	Mode         AllocationMode  `json:"mode" yaml:"mode"`
}

// NewRecommendation creates a validated Recommendation. Total cost is derived from
// quantity and unit price, delivery date from order date and lead time.
func NewRecommendation(
	materialID MaterialID,
	supplierID SupplierID,
	orderQty float64,
	unitPrice decimal.Decimal,
	orderDate time.Time,
	leadTimeDays int,
) (*Recommendation, error) {
	if string(materialID) == "" {
		return nil, fmt.Errorf("material id cannot be empty")
	}
	if string(supplierID) == "" {
		return nil, fmt.Errorf("supplier id cannot be empty")
	}
	if nonFinite(orderQty) {
		return nil, fmt.Errorf("order quantity must be a finite number, got %g", orderQty)
	}
	if orderQty < 0 {
		return nil, fmt.Errorf("order quantity cannot be negative, got %g", orderQty)
	}
	if leadTimeDays < 0 {
		return nil, fmt.Errorf("lead time cannot be negative, got %d", leadTimeDays)
	}

	return &Recommendation{
		MaterialID:   materialID,
		SupplierID:   supplierID,
		OrderQty:     orderQty,
		UnitPrice:    unitPrice,
		TotalCost:    unitPrice.Mul(decimal.NewFromFloat(orderQty)),
		OrderDate:    orderDate,
		DeliveryDate: orderDate.AddDate(0, 0, leadTimeDays),
		LeadTimeDays: leadTimeDays,
		RiskLevel:    RiskNone,
		RiskFlags:    []string{},
	}, nil
}
