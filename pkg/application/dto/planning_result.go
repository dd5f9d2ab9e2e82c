package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/rawmat/pkg/domain/entities"
)

// PlanningResult contains the complete output of a planning run
type PlanningResult struct {
	RunID           string                        `json:"run_id" yaml:"run_id"`
	PlanningDate    time.Time                     `json:"planning_date" yaml:"planning_date"`
	Recommendations []*entities.Recommendation    `json:"recommendations" yaml:"recommendations"`
	MaterialPlans   []MaterialPlan                `json:"material_plans" yaml:"material_plans"`
	Warnings        []entities.ComputationWarning `json:"warnings" yaml:"warnings"`
	StageErrors     []StageErrorReport            `json:"stage_errors" yaml:"stage_errors"`
	Summary         PlanningSummary               `json:"summary" yaml:"summary"`
}

// MaterialPlan traces one material from gross requirement to the buffered quantity
// handed to supplier selection
type MaterialPlan struct {
	MaterialID          entities.MaterialID      `json:"material_id" yaml:"material_id"`
	Name                string                   `json:"name,omitempty" yaml:"name,omitempty"`
	Unit                string                   `json:"unit" yaml:"unit"`
	Gross               float64                  `json:"gross" yaml:"gross"`
	OnHand              float64                  `json:"on_hand" yaml:"on_hand"`
	OpenPO              float64                  `json:"open_po" yaml:"open_po"`
	Net                 float64                  `json:"net" yaml:"net"`
	Status              entities.InventoryStatus `json:"status" yaml:"status"`
	SafetyStock         float64                  `json:"safety_stock" yaml:"safety_stock"`
	SafetyStockMethod   string                   `json:"safety_stock_method" yaml:"safety_stock_method"`
	SafetyStockFallback bool                     `json:"safety_stock_fallback" yaml:"safety_stock_fallback"`
	Buffered            float64                  `json:"buffered" yaml:"buffered"`
}

// StageErrorReport records an optional stage feature that failed and fell back
type StageErrorReport struct {
	Stage string `json:"stage" yaml:"stage"`
	Error string `json:"error" yaml:"error"`
}

// PlanningSummary aggregates the recommendations of a run
type PlanningSummary struct {
	TotalCost        decimal.Decimal  `json:"total_cost" yaml:"total_cost"`
	TotalMaterials   int              `json:"total_materials" yaml:"total_materials"`
	TotalSuppliers   int              `json:"total_suppliers" yaml:"total_suppliers"`
	RiskSummary      RiskSummary      `json:"risk_summary" yaml:"risk_summary"`
	DeliveryTimeline DeliveryTimeline `json:"delivery_timeline" yaml:"delivery_timeline"`
	TopCostItems     []CostItem       `json:"top_cost_items" yaml:"top_cost_items"`
}

// RiskSummary counts recommendations per risk level
type RiskSummary struct {
	High   int `json:"high" yaml:"high"`
	Medium int `json:"medium" yaml:"medium"`
	Low    int `json:"low" yaml:"low"`
	None   int `json:"none" yaml:"none"`
}

// DeliveryTimeline spans the delivery dates of a run. Dates are nil without recommendations.
type DeliveryTimeline struct {
	Earliest *time.Time `json:"earliest,omitempty" yaml:"earliest,omitempty"`
	Latest   *time.Time `json:"latest,omitempty" yaml:"latest,omitempty"`
	SpanDays int        `json:"span_days" yaml:"span_days"`
}

// CostItem is one material's spend across all of its recommendations
type CostItem struct {
	MaterialID entities.MaterialID   `json:"material_id" yaml:"material_id"`
	TotalCost  decimal.Decimal       `json:"total_cost" yaml:"total_cost"`
	OrderQty   float64               `json:"order_qty" yaml:"order_qty"`
	Suppliers  []entities.SupplierID `json:"suppliers" yaml:"suppliers"`
}
